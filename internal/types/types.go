package types

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// AssetClass distinguishes the two instrument families the advisor covers.
type AssetClass string

const (
	AssetStock  AssetClass = "STOCK"
	AssetCrypto AssetClass = "CRYPTO"
)

// Scope selects which slice of the portfolio a ranking request covers.
type Scope string

const (
	ScopeStocks Scope = "STOCKS"
	ScopeCrypto Scope = "CRYPTO"
	ScopeAll    Scope = "ALL"
)

// RiskLevel is the outcome of risk classification. NO_HOLDINGS and
// INSUFFICIENT_QUANTITY are terminal: no profit or impact numbers accompany them.
type RiskLevel string

const (
	RiskLow                  RiskLevel = "LOW"
	RiskMedium               RiskLevel = "MEDIUM"
	RiskHigh                 RiskLevel = "HIGH"
	RiskNoHoldings           RiskLevel = "NO_HOLDINGS"
	RiskInsufficientQuantity RiskLevel = "INSUFFICIENT_QUANTITY"
)

type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
)

// Holding is one purchase lot as persisted. The engine reads snapshots of these
// rows and never mutates them; price/timestamp updates are the transport
// layer's job after it has consumed engine output.
type Holding struct {
	ID             uint                `gorm:"primaryKey" json:"id"`
	AssetClass     AssetClass          `gorm:"column:asset_type;index" json:"assetType"`
	Symbol         string              `gorm:"index" json:"symbol"`
	Name           string              `json:"name"`
	BuyPrice       decimal.Decimal     `gorm:"type:numeric" json:"buyPrice"`
	Qty            int                 `json:"qty"`
	CurrentPrice   decimal.Decimal     `gorm:"type:numeric" json:"currentPrice"`
	CurrentUpdated time.Time           `json:"currentUpdated"`
	SellingPrice   decimal.NullDecimal `gorm:"type:numeric" json:"sellingPrice"`
	SellingDate    *time.Time          `json:"sellingDate"`
	LastUpdated    time.Time           `json:"lastUpdated"`
}

func (Holding) TableName() string { return "user_assets" }

// AggregatedPosition is the per-canonical-symbol rollup of all lots:
// total quantity and the quantity-weighted average purchase price.
type AggregatedPosition struct {
	Symbol      string
	AssetClass  AssetClass
	TotalQty    int
	AvgBuyPrice decimal.Decimal
}

// Recommendation is one entry of a top-N ranking. AvgBuyPrice is unset for
// market-fill candidates the user does not hold; CurrentPrice is unset when
// only a performance percentage was available.
type Recommendation struct {
	Symbol        string              `json:"symbol"`
	RiskLevel     RiskLevel           `json:"riskLevel"`
	AvgBuyPrice   decimal.NullDecimal `json:"averageBuyPrice"`
	CurrentPrice  decimal.NullDecimal `json:"currentPrice"`
	ProfitPercent Percent             `json:"profitPercent"`
}

// RiskAssessment is the full result of evaluating one proposed buy or sell.
type RiskAssessment struct {
	Action            Action              `json:"action"`
	RiskLevel         RiskLevel           `json:"riskLevel"`
	AvgBuyPrice       decimal.NullDecimal `json:"averageBuyPrice"`
	CurrentPrice      decimal.Decimal     `json:"currentPrice"`
	PercentDifference decimal.Decimal     `json:"percentDifference"`
	MonetaryImpact    decimal.Decimal     `json:"monetaryImpact"`
	RequestedQty      int                 `json:"requestedQuantity"`
	AvailableQty      int                 `json:"availableQuantity"`
	Recommendation    string              `json:"recommendation"`
}

// IsFullSell reports whether the requested quantity empties the position.
func (r RiskAssessment) IsFullSell() bool { return r.RequestedQty >= r.AvailableQty }

func (r RiskAssessment) IsHighRisk() bool { return r.RiskLevel == RiskHigh }

// MarshalJSON includes the derived flags alongside the stored fields.
func (r RiskAssessment) MarshalJSON() ([]byte, error) {
	type alias RiskAssessment
	return json.Marshal(struct {
		alias
		IsFullSell bool `json:"isFullSell"`
		IsHighRisk bool `json:"isHighRisk"`
	}{alias(r), r.IsFullSell(), r.IsHighRisk()})
}

// StockQuote is a single stock quote: last price plus day change percent.
type StockQuote struct {
	Symbol           string          `json:"symbol"`
	Price            decimal.Decimal `json:"price"`
	DayChangePercent decimal.Decimal `json:"dayChangePercent"`
}

// MarketCandidate is a symbol sourced from a market-wide ranking feed, used to
// pad a top-N result when the portfolio alone cannot fill it.
type MarketCandidate struct {
	Symbol        string
	Price         decimal.NullDecimal
	ChangePercent Percent
}

// DashboardRow is a holding joined with a live price for the holdings view.
type DashboardRow struct {
	ID            uint            `json:"id"`
	AssetClass    AssetClass      `json:"type"`
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	BuyPrice      decimal.Decimal `json:"buyPrice"`
	Qty           int             `json:"qty"`
	CurrentPrice  decimal.Decimal `json:"currentPrice"`
	AsOf          time.Time       `json:"asOf"`
	MonetaryDelta decimal.Decimal `json:"monetaryDelta"`
	Percent       decimal.Decimal `json:"percent"`
	Status        string          `json:"status"`
}
