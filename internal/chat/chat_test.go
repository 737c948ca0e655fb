package chat

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"asset-advisor/internal/news"
	"asset-advisor/internal/types"
)

type fakeAdvisor struct {
	recs      []types.Recommendation
	lastScope types.Scope
	lastN     int
}

func (f *fakeAdvisor) TopN(ctx context.Context, scope types.Scope, n int) ([]types.Recommendation, error) {
	f.lastScope = scope
	f.lastN = n
	if n < len(f.recs) {
		return f.recs[:n], nil
	}
	return f.recs, nil
}

func (f *fakeAdvisor) EvaluateBuy(ctx context.Context, symbol string, qty int) (types.RiskAssessment, error) {
	return types.RiskAssessment{}, fmt.Errorf("not used")
}

func (f *fakeAdvisor) EvaluateSell(ctx context.Context, symbol string, qty int) (types.RiskAssessment, error) {
	return types.RiskAssessment{}, fmt.Errorf("not used")
}

type fakeHoldings struct {
	holdings []types.Holding
}

func (f *fakeHoldings) FindAll(ctx context.Context) ([]types.Holding, error) { return f.holdings, nil }
func (f *fakeHoldings) FindByAssetClass(ctx context.Context, class types.AssetClass) ([]types.Holding, error) {
	return nil, nil
}
func (f *fakeHoldings) FindBySymbol(ctx context.Context, symbol string) ([]types.Holding, error) {
	return nil, nil
}
func (f *fakeHoldings) FindByID(ctx context.Context, id uint) (types.Holding, error) {
	return types.Holding{}, fmt.Errorf("not found")
}
func (f *fakeHoldings) Save(ctx context.Context, h *types.Holding) error { return nil }

type fakeInsight struct {
	remark     string
	lastPrompt string
}

func (f *fakeInsight) Generate(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.remark, nil
}

type fakeHeadlines struct {
	titles map[string][]string
}

func (f *fakeHeadlines) Headlines(ctx context.Context, symbol string) ([]news.Headline, error) {
	var out []news.Headline
	for _, t := range f.titles[symbol] {
		out = append(out, news.Headline{Title: t, Symbol: symbol})
	}
	return out, nil
}

func rec(symbol string, level types.RiskLevel, percent float64) types.Recommendation {
	return types.Recommendation{
		Symbol:        symbol,
		RiskLevel:     level,
		ProfitPercent: types.KnownPercent(decimal.NewFromFloat(percent)),
	}
}

func newTestService(advisor *fakeAdvisor, holdings *fakeHoldings, remark string) *Service {
	return NewService(advisor, holdings, &fakeInsight{remark: remark}, nil)
}

func TestReplyTopListParsesCountAndScope(t *testing.T) {
	advisor := &fakeAdvisor{recs: []types.Recommendation{
		rec("NVDA", types.RiskHigh, 45.2),
		rec("AAPL", types.RiskLow, 23.4),
		rec("MSFT", types.RiskMedium, 18.7),
	}}
	svc := newTestService(advisor, &fakeHoldings{}, "")

	reply, err := svc.Reply(context.Background(), "show me the top 3 stocks")
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}

	if advisor.lastScope != types.ScopeStocks {
		t.Errorf("Expected STOCKS scope, got %s", advisor.lastScope)
	}
	if advisor.lastN != 3 {
		t.Errorf("Expected n=3, got %d", advisor.lastN)
	}
	if !strings.Contains(reply, "1. **NVDA** – Review – +45.2%") {
		t.Errorf("Expected formatted first line, got:\n%s", reply)
	}
	if !strings.Contains(reply, "2. **AAPL** – Buy – +23.4%") {
		t.Errorf("Expected low-risk gainer to be a Buy, got:\n%s", reply)
	}
	if !strings.Contains(reply, "3. **MSFT** – Hold – +18.7%") {
		t.Errorf("Expected medium risk to be a Hold, got:\n%s", reply)
	}
}

func TestPercentLabelOneDecimalWithSign(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{45.25, "+45.3%"},
		{4, "+4.0%"},
		{0, "+0.0%"},
		{-12.34, "-12.3%"},
	}
	for _, tc := range cases {
		if got := percentLabel(types.KnownPercent(decimal.NewFromFloat(tc.in))); got != tc.want {
			t.Errorf("percentLabel(%v): expected %s, got %s", tc.in, tc.want, got)
		}
	}
	if got := percentLabel(types.UnknownPercent()); got != "n/a" {
		t.Errorf("percentLabel(unknown): expected n/a, got %s", got)
	}
}

func TestReplyDefaultsToFivePicks(t *testing.T) {
	advisor := &fakeAdvisor{recs: []types.Recommendation{rec("BTC", types.RiskLow, 2.0)}}
	svc := newTestService(advisor, &fakeHoldings{}, "")

	_, err := svc.Reply(context.Background(), "suggest some crypto")
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	if advisor.lastScope != types.ScopeCrypto {
		t.Errorf("Expected CRYPTO scope, got %s", advisor.lastScope)
	}
	if advisor.lastN != 5 {
		t.Errorf("Expected default n=5, got %d", advisor.lastN)
	}
}

func TestReplyAppendsInsight(t *testing.T) {
	advisor := &fakeAdvisor{recs: []types.Recommendation{rec("NVDA", types.RiskLow, 10)}}
	svc := newTestService(advisor, &fakeHoldings{}, "Tech momentum remains strong.")

	reply, err := svc.Reply(context.Background(), "top picks")
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	if !strings.Contains(reply, "Tech momentum remains strong.") {
		t.Errorf("Expected insight remark appended, got:\n%s", reply)
	}
}

func TestReplyDiversificationConcentrated(t *testing.T) {
	holdings := &fakeHoldings{holdings: []types.Holding{
		{Symbol: "AAPL", AssetClass: types.AssetStock, BuyPrice: decimal.NewFromInt(100), Qty: 5},
		{Symbol: "BTC", AssetClass: types.AssetCrypto, BuyPrice: decimal.NewFromInt(50000), Qty: 1},
	}}
	svc := newTestService(&fakeAdvisor{}, holdings, "")

	reply, err := svc.Reply(context.Background(), "is my portfolio too concentrated?")
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	if !strings.Contains(reply, "2 distinct positions") {
		t.Errorf("Expected position count in reply, got:\n%s", reply)
	}
	if !strings.Contains(strings.ToLower(reply), "concentrated") {
		t.Errorf("Expected concentrated verdict for 2 positions, got:\n%s", reply)
	}
}

func TestReplyDiversificationAppendsInsight(t *testing.T) {
	holdings := &fakeHoldings{holdings: []types.Holding{
		{Symbol: "AAPL", AssetClass: types.AssetStock, BuyPrice: decimal.NewFromInt(100), Qty: 5},
		{Symbol: "BTC", AssetClass: types.AssetCrypto, BuyPrice: decimal.NewFromInt(50000), Qty: 1},
	}}
	insight := &fakeInsight{remark: "Two positions is thin; one bad earnings day moves the whole account."}
	svc := NewService(&fakeAdvisor{}, holdings, insight, nil)

	reply, err := svc.Reply(context.Background(), "is my portfolio diversified?")
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	if !strings.Contains(reply, insight.remark) {
		t.Errorf("Expected model remark appended to diversification reply, got:\n%s", reply)
	}
	if !strings.Contains(insight.lastPrompt, "2 distinct assets") {
		t.Errorf("Expected position count in insight prompt, got: %s", insight.lastPrompt)
	}
}

func TestReplyDropsApologyRemarks(t *testing.T) {
	advisor := &fakeAdvisor{recs: []types.Recommendation{rec("NVDA", types.RiskLow, 10)}}
	holdings := &fakeHoldings{holdings: []types.Holding{
		{Symbol: "AAPL", AssetClass: types.AssetStock, BuyPrice: decimal.NewFromInt(100), Qty: 5},
	}}

	for _, apology := range []string{
		"Service temporarily unavailable, check API keys.",
		"Insight UNAVAILABLE right now.",
		"   ",
	} {
		svc := NewService(advisor, holdings, &fakeInsight{remark: apology}, nil)

		reply, err := svc.Reply(context.Background(), "top picks")
		if err != nil {
			t.Fatalf("Reply failed: %v", err)
		}
		if strings.Contains(strings.ToLower(reply), "unavailable") || strings.Contains(strings.ToLower(reply), "check api") {
			t.Errorf("Expected apology remark %q dropped from top list, got:\n%s", apology, reply)
		}

		reply, err = svc.Reply(context.Background(), "am I too concentrated?")
		if err != nil {
			t.Fatalf("Reply failed: %v", err)
		}
		if strings.Contains(strings.ToLower(reply), "unavailable") {
			t.Errorf("Expected apology remark %q dropped from diversification reply, got:\n%s", apology, reply)
		}
	}
}

func TestReplyPromptCarriesHeadlines(t *testing.T) {
	advisor := &fakeAdvisor{recs: []types.Recommendation{
		rec("NVDA", types.RiskLow, 10),
		rec("AAPL", types.RiskLow, 5),
	}}
	insight := &fakeInsight{remark: "Chips keep leading."}
	headlines := &fakeHeadlines{titles: map[string][]string{
		"NVDA": {"Nvidia beats estimates again"},
		"AAPL": {"Apple unveils new lineup"},
	}}
	svc := NewService(advisor, &fakeHoldings{}, insight, headlines)

	reply, err := svc.Reply(context.Background(), "top 2 picks")
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	if !strings.Contains(reply, "Chips keep leading.") {
		t.Errorf("Expected remark in reply, got:\n%s", reply)
	}
	if !strings.Contains(insight.lastPrompt, "Nvidia beats estimates again") {
		t.Errorf("Expected NVDA headline in insight prompt, got: %s", insight.lastPrompt)
	}
	if !strings.Contains(insight.lastPrompt, "Apple unveils new lineup") {
		t.Errorf("Expected AAPL headline in insight prompt, got: %s", insight.lastPrompt)
	}
}

func TestReplyDiversificationEmptyPortfolio(t *testing.T) {
	svc := newTestService(&fakeAdvisor{}, &fakeHoldings{}, "")

	reply, err := svc.Reply(context.Background(), "how diversified am I?")
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	if !strings.Contains(reply, "no holdings") {
		t.Errorf("Expected empty-portfolio message, got:\n%s", reply)
	}
}

func TestReplyUnknownIntentGetsHelp(t *testing.T) {
	svc := newTestService(&fakeAdvisor{}, &fakeHoldings{}, "")

	reply, err := svc.Reply(context.Background(), "what's the weather like?")
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	if !strings.Contains(reply, "top 5 stocks") {
		t.Errorf("Expected usage hint, got:\n%s", reply)
	}
}
