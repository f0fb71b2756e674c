package main

import (
	"errors"
	"testing"

	"github.com/untoldecay/commitjournal/internal/toolsurface"
)

func TestExitCodeForCategorizedErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"plain error", errors.New("boom"), exitError},
		{"invalid input", errInvalidInput{errors.New("bad")}, exitInvalidInput},
		{"missing config", errMissingConfig{errors.New("no key")}, exitMissingConfig},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := exitCodeFor(tc.err); got != tc.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestResultErrorMapsBadRequestToInvalidInput(t *testing.T) {
	res := toolsurface.Result{
		Status: "error",
		Error: &toolsurface.ResultError{
			Category: toolsurface.CategoryBadRequest,
			Message:  "text must not be empty",
			Hint:     `pass {"text": "..."} as a mapping`,
		},
	}
	err := resultError(res)
	if !isInvalidInput(err) {
		t.Errorf("expected errInvalidInput, got %T", err)
	}
}

func TestParseDateFlagPassesThroughCanonicalDate(t *testing.T) {
	got, err := parseDateFlag("2025-06-01")
	if err != nil {
		t.Fatalf("parseDateFlag: %v", err)
	}
	if got != "2025-06-01" {
		t.Errorf("got %q, want 2025-06-01", got)
	}
}

func TestParseDateFlagEmptyMeansNow(t *testing.T) {
	got, err := parseDateFlag("")
	if err != nil {
		t.Fatalf("parseDateFlag: %v", err)
	}
	if got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestParseDateFlagRejectsGarbage(t *testing.T) {
	_, err := parseDateFlag("not a date at all !!")
	if err == nil {
		t.Fatal("expected an error for unparseable date")
	}
	if !isInvalidInput(err) {
		t.Errorf("expected errInvalidInput, got %T", err)
	}
}
