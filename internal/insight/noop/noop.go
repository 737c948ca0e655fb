package noop

import (
	"context"

	"asset-advisor/internal/logger"
)

// Insighter is the fallback used when no LLM provider is configured
type Insighter struct{}

// NewInsighter returns an instance that always produces an empty remark
func NewInsighter() *Insighter {
	return &Insighter{}
}

// Generate implements the Insighter interface. Callers treat an empty remark
// as "nothing to add" and omit it from their output.
func (i *Insighter) Generate(ctx context.Context, prompt string) (string, error) {
	logger.Debug(ctx, "Noop insighter called - no remark produced")
	return "", nil
}
