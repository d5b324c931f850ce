package search

import (
	"sort"

	"github.com/brunobiangulo/quizpdf/store"
)

const rrfK = 60 // RRF constant (standard value from literature)

// FusedResultInfo holds per-result method contribution metadata.
type FusedResultInfo struct {
	Methods []string `json:"methods"`
	VecRank int      `json:"vec_rank,omitempty"` // 1-based, 0 = not present
	FTSRank int      `json:"fts_rank,omitempty"` // 1-based, 0 = not present
}

// fuseRRF combines ranked result lists with Reciprocal Rank Fusion:
// score = sum(weight_i / (k + rank_i)). Ties keep the order in which
// questions were first seen. It also returns per-result method
// contribution info keyed by QuestionID.
func fuseRRF(
	vecResults, ftsResults []store.QuestionHit,
	weightVec, weightFTS float64,
	maxResults int,
) ([]store.QuestionHit, map[int64]FusedResultInfo) {
	type fusedEntry struct {
		result store.QuestionHit
		score  float64
		info   FusedResultInfo
	}

	fused := make(map[int64]*fusedEntry)
	var order []*fusedEntry

	add := func(results []store.QuestionHit, weight float64, method string, setRank func(*FusedResultInfo, int)) {
		for rank, r := range results {
			entry, ok := fused[r.QuestionID]
			if !ok {
				entry = &fusedEntry{result: r}
				fused[r.QuestionID] = entry
				order = append(order, entry)
			}
			entry.score += weight / float64(rrfK+rank+1)
			entry.info.Methods = append(entry.info.Methods, method)
			setRank(&entry.info, rank+1)
		}
	}
	add(vecResults, weightVec, "vector", func(i *FusedResultInfo, r int) { i.VecRank = r })
	add(ftsResults, weightFTS, "fts", func(i *FusedResultInfo, r int) { i.FTSRank = r })

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].score > order[j].score
	})

	if maxResults > 0 && len(order) > maxResults {
		order = order[:maxResults]
	}

	results := make([]store.QuestionHit, len(order))
	infoMap := make(map[int64]FusedResultInfo, len(order))
	for i, e := range order {
		results[i] = e.result
		results[i].Score = e.score
		infoMap[e.result.QuestionID] = e.info
	}
	return results, infoMap
}
