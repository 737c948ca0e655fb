package interfaces

import (
	"context"

	"asset-advisor/internal/types"
)

// HoldingsStore is the persistence collaborator. Symbol lookups are raw-symbol
// lookups; callers that need alias folding normalize before querying and match
// again on the normalized form of each returned row.
type HoldingsStore interface {
	FindAll(ctx context.Context) ([]types.Holding, error)
	FindByAssetClass(ctx context.Context, class types.AssetClass) ([]types.Holding, error)
	FindBySymbol(ctx context.Context, symbol string) ([]types.Holding, error)
	FindByID(ctx context.Context, id uint) (types.Holding, error)
	Save(ctx context.Context, h *types.Holding) error
}
