package review

import (
	"devpulse/internal/ports"
)

// Service bundles the PR quality workflow and its read-side operations.
type Service struct {
	fetcher  ports.PullRequestFetcher
	analyzer *Analyzer
	store    ports.AnalysisStore
}

// NewService wires the workflow with its fetcher, analyzer and store.
func NewService(fetcher ports.PullRequestFetcher, analyzer *Analyzer, store ports.AnalysisStore) *Service {
	return &Service{
		fetcher:  fetcher,
		analyzer: analyzer,
		store:    store,
	}
}

// ValidationError marks missing or malformed caller input, checked before
// any side effect. It is distinct from processing failures.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func newValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}
