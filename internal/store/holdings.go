package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"asset-advisor/internal/symbols"
	"asset-advisor/internal/types"
)

// Holdings implements persistence for purchase lots using Gorm + SQLite.
type Holdings struct {
	db *gorm.DB
}

// OpenHoldings opens (or creates) the holdings database at path.
func OpenHoldings(path string) (*Holdings, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("holdings store: db path cannot be empty")
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&types.Holding{}); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite + WAL: a little parallelism for concurrent HTTP reads while
	// keeping lock contention low.
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetMaxIdleConns(2)
	return &Holdings{db: db}, nil
}

func (s *Holdings) FindAll(ctx context.Context) ([]types.Holding, error) {
	var out []types.Holding
	if err := s.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("find all holdings: %w", err)
	}
	return out, nil
}

func (s *Holdings) FindByAssetClass(ctx context.Context, class types.AssetClass) ([]types.Holding, error) {
	var out []types.Holding
	if err := s.db.WithContext(ctx).Where("asset_type = ?", string(class)).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("find holdings by class %s: %w", class, err)
	}
	return out, nil
}

func (s *Holdings) FindBySymbol(ctx context.Context, symbol string) ([]types.Holding, error) {
	var out []types.Holding
	if err := s.db.WithContext(ctx).Where("symbol = ?", symbol).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("find holdings by symbol %s: %w", symbol, err)
	}
	return out, nil
}

func (s *Holdings) FindByID(ctx context.Context, id uint) (types.Holding, error) {
	var h types.Holding
	if err := s.db.WithContext(ctx).First(&h, id).Error; err != nil {
		return types.Holding{}, fmt.Errorf("find holding %d: %w", id, err)
	}
	return h, nil
}

func (s *Holdings) Save(ctx context.Context, h *types.Holding) error {
	if err := s.db.WithContext(ctx).Save(h).Error; err != nil {
		return fmt.Errorf("save holding %s: %w", h.Symbol, err)
	}
	return nil
}

// ApplySell walks the lots for symbol oldest-first, reducing quantities until
// qty is consumed. Lots match on the normalized symbol, so aliases persisted
// under different raw spellings count toward the same sale. A lot that reaches
// zero is stamped with the selling price and date. Returns the number of units
// actually sold.
func (s *Holdings) ApplySell(ctx context.Context, symbol string, qty int, price decimal.Decimal) (int, error) {
	norm := symbols.Normalize(symbol)
	all, err := s.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	var lots []types.Holding
	for _, h := range all {
		if symbols.Normalize(h.Symbol) == norm {
			lots = append(lots, h)
		}
	}

	now := time.Now()
	remaining := qty
	for i := range lots {
		if remaining <= 0 {
			break
		}
		lot := &lots[i]
		if lot.Qty <= 0 {
			continue
		}

		sellNow := lot.Qty
		if remaining < sellNow {
			sellNow = remaining
		}
		lot.Qty -= sellNow

		if lot.Qty == 0 {
			lot.SellingPrice = decimal.NewNullDecimal(price)
			t := now
			lot.SellingDate = &t
		}
		lot.CurrentPrice = price
		lot.CurrentUpdated = now
		lot.LastUpdated = now

		if err := s.Save(ctx, lot); err != nil {
			return qty - remaining, err
		}
		remaining -= sellNow
	}

	return qty - remaining, nil
}
