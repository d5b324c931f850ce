// Command quizpdf parses a directory of exam catalog PDFs and writes the
// questions in one of the output formats.
//
// Usage:
//
//	go run -tags sqlite_fts5 ./cmd/quizpdf -dir ./pdf -format exchange -output fragen.txt
//
// Single file, four answers per question, with a quality report:
//
//	go run -tags sqlite_fts5 ./cmd/quizpdf -input ./pdf/ecqb.pdf -answers 4 -verify
//
// With -db the catalogs are also ingested into the store and the output is
// rendered from the stored quizzes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/brunobiangulo/quizpdf"
	"github.com/brunobiangulo/quizpdf/quiz"
	"github.com/brunobiangulo/quizpdf/render"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "quizpdf:", err)
		os.Exit(1)
	}
}

type options struct {
	dir, input, format, output, db, config string
	skip, answers                          int
	verify, verbose                        bool
}

func parseFlags(args []string, stderr io.Writer) (*options, map[string]bool, error) {
	fs := flag.NewFlagSet("quizpdf", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{}
	fs.StringVar(&o.dir, "dir", "", "Directory of catalog PDFs (default from config: pdf)")
	fs.StringVar(&o.input, "input", "", "Single PDF to parse instead of -dir")
	fs.IntVar(&o.skip, "skip", quiz.DefaultSkipPages, "Leading pages to ignore per document")
	fs.IntVar(&o.answers, "answers", quiz.DefaultAnswersPerQuestion, "Answers per question")
	fs.StringVar(&o.format, "format", "json", "Output format: json, exchange, xlsx, pdf")
	fs.StringVar(&o.output, "output", "", "Output file (default stdout)")
	fs.StringVar(&o.db, "db", "", "Also ingest into this SQLite database")
	fs.BoolVar(&o.verify, "verify", false, "Print a quality report to stderr")
	fs.BoolVar(&o.verbose, "verbose", false, "Debug logging")
	fs.StringVar(&o.config, "config", "", "Path to config file (JSON or YAML)")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return o, set, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, set, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	format, err := render.ParseFormat(o.format)
	if err != nil {
		return err
	}

	cfg := quizpdf.DefaultConfig()
	if o.config != "" {
		if cfg, err = quizpdf.LoadConfig(o.config); err != nil {
			return err
		}
	}
	cfg.ApplyEnv()
	cfg.Logger = logger
	if set["skip"] {
		cfg.SkipPages = o.skip
	}
	if set["answers"] {
		cfg.AnswersPerQuestion = o.answers
	}
	if o.dir != "" {
		cfg.SourceDir = o.dir
	}
	if o.db != "" {
		cfg.DBPath = o.db
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var quizzes []*quiz.Quiz
	if o.db != "" {
		quizzes, err = ingest(ctx, cfg, o.input)
	} else {
		quizzes, err = parse(ctx, cfg, o.input)
	}
	if err != nil {
		return err
	}
	if len(quizzes) == 0 {
		return errors.New("no catalog could be parsed")
	}

	if o.verify {
		report(stderr, quizzes)
	}

	var out io.Writer = stdout
	if o.output != "" {
		f, err := os.Create(o.output)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := render.Render(out, format, quizzes); err != nil {
		return fmt.Errorf("rendering %s: %w", format, err)
	}

	questions := 0
	for _, qz := range quizzes {
		questions += len(qz.Questions)
	}
	logger.Info("quizpdf: done", "documents", len(quizzes), "questions", questions, "format", format.String())
	return nil
}

func parse(ctx context.Context, cfg quizpdf.Config, input string) ([]*quiz.Quiz, error) {
	b := quizpdf.NewBatch(cfg, nil)
	if input != "" {
		qz, err := b.ParseFile(ctx, input)
		if err != nil {
			return nil, err
		}
		return []*quiz.Quiz{qz}, nil
	}

	results, err := b.ParseDirectory(ctx, cfg.SourceDir)
	if err != nil {
		return nil, err
	}
	return quizpdf.Successful(results), nil
}

func ingest(ctx context.Context, cfg quizpdf.Config, input string) ([]*quiz.Quiz, error) {
	eng, err := quizpdf.New(cfg)
	if err != nil {
		return nil, err
	}
	defer eng.Close()

	var ids []int64
	if input != "" {
		id, err := eng.Ingest(ctx, input)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	} else {
		results, err := eng.IngestDirectory(ctx, cfg.SourceDir)
		if err != nil {
			return nil, err
		}
		for _, r := range results {
			if r.Error == "" {
				ids = append(ids, r.DocumentID)
			}
		}
	}

	quizzes := make([]*quiz.Quiz, 0, len(ids))
	for _, id := range ids {
		qz, err := eng.Quiz(ctx, id)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, qz)
	}
	return quizzes, nil
}

func report(w io.Writer, quizzes []*quiz.Quiz) {
	for _, qz := range quizzes {
		anomalies := quiz.Verify(qz)
		name := filepath.Base(qz.Source)
		if len(anomalies) == 0 {
			fmt.Fprintf(w, "%s: ok (%d questions)\n", name, len(qz.Questions))
			continue
		}
		for _, a := range anomalies {
			fmt.Fprintf(w, "%s: %s\n", name, a)
		}
	}
}
