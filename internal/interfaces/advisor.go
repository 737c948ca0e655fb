package interfaces

import (
	"context"

	"asset-advisor/internal/types"
)

// Advisor is the recommendation and risk assessment engine.
type Advisor interface {
	TopN(ctx context.Context, scope types.Scope, n int) ([]types.Recommendation, error)
	EvaluateBuy(ctx context.Context, symbol string, qty int) (types.RiskAssessment, error)
	EvaluateSell(ctx context.Context, symbol string, qty int) (types.RiskAssessment, error)
}
