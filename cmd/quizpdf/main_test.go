package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/brunobiangulo/quizpdf/quiz"
)

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer
	o, set, err := parseFlags([]string{"-dir", "pdf", "-answers", "4", "-verify"}, &stderr)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if o.dir != "pdf" || o.answers != 4 || !o.verify || o.skip != quiz.DefaultSkipPages {
		t.Errorf("options = %+v", o)
	}
	if !set["answers"] || set["skip"] {
		t.Errorf("set flags = %v", set)
	}

	if _, _, err := parseFlags([]string{"-nope"}, &stderr); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad format", []string{"-format", "csv"}, "unknown output format"},
		{"negative skip", []string{"-skip", "-1", "-dir", t.TempDir()}, "invalid configuration"},
		{"empty directory", []string{"-dir", t.TempDir()}, "no catalog could be parsed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(context.Background(), tt.args, &stdout, &stderr)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("run error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestReport(t *testing.T) {
	good := quiz.NewQuiz("/pdf/good.pdf", nil)
	good.Add(quiz.Question{Number: 1, Answers: []quiz.Answer{{Number: 1, IsCorrect: true}}})
	bad := quiz.NewQuiz("/pdf/bad.pdf", nil)
	bad.Add(quiz.Question{Number: 4, Answers: []quiz.Answer{{Number: 1}}})

	var buf bytes.Buffer
	report(&buf, []*quiz.Quiz{good, bad})

	want := "good.pdf: ok (1 questions)\n" +
		"bad.pdf: question 4: no_correct_answer (no answer is marked correct)\n"
	if buf.String() != want {
		t.Errorf("report =\n%s\nwant\n%s", buf.String(), want)
	}
}
