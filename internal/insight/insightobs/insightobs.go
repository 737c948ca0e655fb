package insightobs

import (
	"context"

	"asset-advisor/internal/interfaces"
	"asset-advisor/internal/logger"
	"asset-advisor/internal/trace"
)

// observableInsighter wraps an Insighter with observability (logging & tracing)
type observableInsighter struct {
	insighter interfaces.Insighter
}

// Compile-time interface check
var _ interfaces.Insighter = (*observableInsighter)(nil)

// Wrap wraps an insighter with observability middleware
func Wrap(insighter interfaces.Insighter) interfaces.Insighter {
	return &observableInsighter{
		insighter: insighter,
	}
}

// Generate produces a remark with observability
func (oi *observableInsighter) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "insight.Generate")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Requesting market insight", "prompt_len", len(prompt))

	remark, err := oi.insighter.Generate(ctx, prompt)
	if err != nil {
		logger.WarnSkip(ctx, 1, "Failed to generate insight", "error", err)
		return "", err
	}

	logger.DebugSkip(ctx, 1, "Insight generated", "remark_len", len(remark))
	return remark, nil
}
