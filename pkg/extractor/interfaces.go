package extractor

import "context"

//go:generate mockgen -destination interfaces_mocks_test.go -package extractor_test -source=interfaces.go

// Model is the text-understanding backend. Implementations return the raw
// model output for a prompt; parsing and validation stay in the Extractor.
type Model interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}
