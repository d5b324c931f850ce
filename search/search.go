package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brunobiangulo/quizpdf/store"
)

// Backend is the part of the store the search engine reads from.
type Backend interface {
	FTSSearch(ctx context.Context, query string, limit int) ([]store.QuestionHit, error)
	VectorSearch(ctx context.Context, vec []float32, k int) ([]store.QuestionHit, error)
	GetQuestion(ctx context.Context, id int64) (*store.QuestionHit, error)
}

// Config holds the default fusion weights and the vector dimension.
type Config struct {
	WeightVector float64
	WeightFTS    float64
	VectorDim    int
}

// Options configures a single search operation.
type Options struct {
	MaxResults int
	WeightVec  float64
	WeightFTS  float64
}

// Trace records the breakdown of a hybrid search.
type Trace struct {
	VecResults   int                       `json:"vec_results"`
	FTSResults   int                       `json:"fts_results"`
	FusedResults int                       `json:"fused_results"`
	VecWeight    float64                   `json:"vec_weight"`
	FTSWeight    float64                   `json:"fts_weight"`
	FTSQuery     string                    `json:"fts_query"`
	ElapsedMs    int64                     `json:"elapsed_ms"`
	PerResult    map[int64]FusedResultInfo `json:"per_result,omitempty"`
}

// Engine finds questions by combining full-text and vector search.
type Engine struct {
	backend Backend
	cfg     Config
}

func New(b Backend, cfg Config) *Engine {
	if cfg.WeightVector == 0 {
		cfg.WeightVector = 1.0
	}
	if cfg.WeightFTS == 0 {
		cfg.WeightFTS = 1.0
	}
	return &Engine{backend: b, cfg: cfg}
}

// Search runs FTS5 and vector search concurrently and fuses the two
// rankings with RRF.
func (e *Engine) Search(ctx context.Context, query string, opts Options) ([]store.QuestionHit, *Trace, error) {
	if opts.MaxResults == 0 {
		opts.MaxResults = 20
	}
	if opts.WeightVec == 0 {
		opts.WeightVec = e.cfg.WeightVector
	}
	if opts.WeightFTS == 0 {
		opts.WeightFTS = e.cfg.WeightFTS
	}

	trace := &Trace{
		VecWeight: opts.WeightVec,
		FTSWeight: opts.WeightFTS,
		FTSQuery:  sanitizeFTSQuery(query),
	}
	searchStart := time.Now()

	type result struct {
		results []store.QuestionHit
		err     error
	}
	vecCh := make(chan result, 1)
	ftsCh := make(chan result, 1)

	go func() {
		vec := Vectorize(query, e.cfg.VectorDim)
		if isZero(vec) {
			vecCh <- result{}
			return
		}
		r, err := e.backend.VectorSearch(ctx, vec, opts.MaxResults)
		vecCh <- result{r, err}
	}()

	go func() {
		if trace.FTSQuery == "" {
			ftsCh <- result{}
			return
		}
		r, err := e.backend.FTSSearch(ctx, trace.FTSQuery, opts.MaxResults)
		ftsCh <- result{r, err}
	}()

	vecRes := <-vecCh
	ftsRes := <-ftsCh

	if vecRes.err != nil {
		slog.Warn("search: vector search failed", "error", vecRes.err)
	}
	if ftsRes.err != nil {
		slog.Warn("search: fts search failed", "query", trace.FTSQuery, "error", ftsRes.err)
	}
	trace.VecResults = len(vecRes.results)
	trace.FTSResults = len(ftsRes.results)

	fused, infoMap := fuseRRF(vecRes.results, ftsRes.results,
		opts.WeightVec, opts.WeightFTS, opts.MaxResults)

	queryWords := significantWords(query)
	for i := range fused {
		fused[i].Snippet = extractSnippet(fused[i].Text, fused[i].Answers, queryWords)
	}

	trace.FusedResults = len(fused)
	trace.PerResult = infoMap
	trace.ElapsedMs = time.Since(searchStart).Milliseconds()

	slog.Debug("search: complete",
		"query_len", len(query),
		"vec_results", trace.VecResults, "fts_results", trace.FTSResults,
		"fused", trace.FusedResults, "elapsed", time.Since(searchStart).Round(time.Millisecond))

	if len(fused) == 0 {
		if vecRes.err != nil {
			return nil, trace, fmt.Errorf("vector search: %w", vecRes.err)
		}
		if ftsRes.err != nil {
			return nil, trace, fmt.Errorf("fts search: %w", ftsRes.err)
		}
	}
	return fused, trace, nil
}

// Similar returns up to k questions whose vectors are closest to the
// question with the given ID, excluding the question itself.
func (e *Engine) Similar(ctx context.Context, questionID int64, k int) ([]store.QuestionHit, error) {
	if k <= 0 {
		k = 10
	}
	q, err := e.backend.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	vec := Vectorize(q.Text, e.cfg.VectorDim)
	if isZero(vec) {
		return nil, nil
	}

	hits, err := e.backend.VectorSearch(ctx, vec, k+1)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	out := make([]store.QuestionHit, 0, k)
	for _, h := range hits {
		if h.QuestionID == questionID {
			continue
		}
		out = append(out, h)
		if len(out) == k {
			break
		}
	}
	return out, nil
}
