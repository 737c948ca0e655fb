package interfaces

import "context"

// Insighter produces a short free-text remark for a prompt. Implementations
// may return an empty string when they have nothing useful to add; callers
// treat that the same as an error and omit the insight.
type Insighter interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
