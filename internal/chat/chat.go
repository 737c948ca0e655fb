// Package chat turns free-text portfolio questions into advisor calls and
// renders the answers as short markdown replies.
package chat

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"asset-advisor/internal/engine"
	"asset-advisor/internal/interfaces"
	"asset-advisor/internal/logger"
	"asset-advisor/internal/news"
	"asset-advisor/internal/types"
)

// headlineSource is what chat needs from the news service: recent titles to
// give the insight model current context. May be nil.
type headlineSource interface {
	Headlines(ctx context.Context, symbol string) ([]news.Headline, error)
}

type Service struct {
	advisor   interfaces.Advisor
	store     interfaces.HoldingsStore
	insight   interfaces.Insighter
	headlines headlineSource
	defaultN  int
}

func NewService(advisor interfaces.Advisor, store interfaces.HoldingsStore, insight interfaces.Insighter, headlines headlineSource) *Service {
	return &Service{
		advisor:   advisor,
		store:     store,
		insight:   insight,
		headlines: headlines,
		defaultN:  5,
	}
}

var numberRe = regexp.MustCompile(`\d+`)

// Reply answers one chat message. Unrecognized intents get a usage hint
// rather than an error.
func (s *Service) Reply(ctx context.Context, message string) (string, error) {
	msg := strings.ToLower(strings.TrimSpace(message))
	if msg == "" {
		return s.help(), nil
	}

	switch {
	case containsAny(msg, "concentrat", "diversif", "dilut"):
		return s.diversification(ctx)
	case containsAny(msg, "top", "suggest", "recommend", "best"):
		return s.topList(ctx, scopeFrom(msg), s.countFrom(msg))
	default:
		return s.help(), nil
	}
}

func containsAny(msg string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(msg, sub) {
			return true
		}
	}
	return false
}

func scopeFrom(msg string) types.Scope {
	switch {
	case containsAny(msg, "crypto", "coin", "token"):
		return types.ScopeCrypto
	case containsAny(msg, "stock", "share", "equit"):
		return types.ScopeStocks
	default:
		return types.ScopeAll
	}
}

// countFrom extracts the first number from the message, default 5.
func (s *Service) countFrom(msg string) int {
	m := numberRe.FindString(msg)
	if m == "" {
		return s.defaultN
	}
	n, err := strconv.Atoi(m)
	if err != nil || n <= 0 {
		return s.defaultN
	}
	if n > 25 {
		n = 25
	}
	return n
}

func (s *Service) topList(ctx context.Context, scope types.Scope, n int) (string, error) {
	recs, err := s.advisor.TopN(ctx, scope, n)
	if err != nil {
		return "", fmt.Errorf("chat top list: %w", err)
	}
	if len(recs) == 0 {
		return "I could not find anything to recommend right now. Try again in a moment.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here are my top %d %s picks:\n", len(recs), scopeLabel(scope))
	for i, rec := range recs {
		fmt.Fprintf(&b, "%d. **%s** – %s – %s\n", i+1, rec.Symbol, actionFor(rec), percentLabel(rec.ProfitPercent))
	}

	if remark := s.remark(ctx, recs); remark != "" {
		b.WriteString("\n")
		b.WriteString(remark)
	}
	return b.String(), nil
}

// actionFor maps a recommendation's risk tier to a one-word action: high risk
// warrants review, medium holding, and a low-risk gainer is a buy.
func actionFor(rec types.Recommendation) string {
	switch rec.RiskLevel {
	case types.RiskHigh:
		return "Review"
	case types.RiskMedium:
		return "Hold"
	default:
		if rec.ProfitPercent.Known() && rec.ProfitPercent.Value().IsPositive() {
			return "Buy"
		}
		return "Hold"
	}
}

// percentLabel renders a signed percent at one decimal, nonnegative values
// with a leading plus.
func percentLabel(p types.Percent) string {
	if !p.Known() {
		return "n/a"
	}
	v := p.Value().Round(1)
	if v.IsNegative() {
		return v.StringFixed(1) + "%"
	}
	return "+" + v.StringFixed(1) + "%"
}

func scopeLabel(scope types.Scope) string {
	switch scope {
	case types.ScopeStocks:
		return "stock"
	case types.ScopeCrypto:
		return "crypto"
	default:
		return "asset"
	}
}

// remark asks the insight provider for one closing sentence about the listed
// symbols, with recent headlines folded into the prompt. Failures, empty
// remarks, and apology strings are simply omitted.
func (s *Service) remark(ctx context.Context, recs []types.Recommendation) string {
	syms := make([]string, 0, len(recs))
	for _, rec := range recs {
		syms = append(syms, rec.Symbol)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "In one sentence, comment on this list of picks for a retail investor: %s.", strings.Join(syms, ", "))
	if titles := s.headlineTitles(ctx, syms); len(titles) > 0 {
		fmt.Fprintf(&b, " Recent headlines: %s.", strings.Join(titles, "; "))
	}

	remark, err := s.insight.Generate(ctx, b.String())
	if err != nil {
		logger.Debug(ctx, "Insight unavailable for chat reply", "error", err)
		return ""
	}
	return usableRemark(remark)
}

// headlineTitles collects a handful of recent titles for the leading symbols.
// News is enrichment only: a nil source or a failed fetch yields none.
func (s *Service) headlineTitles(ctx context.Context, syms []string) []string {
	if s.headlines == nil {
		return nil
	}
	var titles []string
	for i, sym := range syms {
		if i >= 3 || len(titles) >= 5 {
			break
		}
		hs, err := s.headlines.Headlines(ctx, sym)
		if err != nil {
			logger.Debug(ctx, "Headlines unavailable for chat prompt", "symbol", sym, "error", err)
			continue
		}
		for _, h := range hs {
			if len(titles) >= 5 {
				break
			}
			if t := strings.TrimSpace(h.Title); t != "" {
				titles = append(titles, t)
			}
		}
	}
	return titles
}

// usableRemark drops apology or failure strings some providers return in the
// response body instead of a real error.
func usableRemark(text string) string {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)
	if text == "" || strings.Contains(lower, "unavailable") || strings.Contains(lower, "check api") {
		return ""
	}
	return text
}

// diversification summarizes how spread out the portfolio is, by distinct
// position count, with an optional model remark on the spread.
func (s *Service) diversification(ctx context.Context) (string, error) {
	holdings, err := s.store.FindAll(ctx)
	if err != nil {
		return "", fmt.Errorf("chat diversification: %w", err)
	}

	positions := engine.Aggregate(holdings)
	if len(positions) == 0 {
		return "You have no holdings yet, so there is nothing to diversify. Start with a broad position or two.", nil
	}

	stocks, crypto := 0, 0
	for _, pos := range positions {
		if pos.AssetClass == types.AssetCrypto {
			crypto++
		} else {
			stocks++
		}
	}

	var verdict string
	switch {
	case len(positions) <= 2:
		verdict = "Your portfolio is concentrated. Consider spreading across more symbols to reduce single-asset risk."
	case len(positions) <= 4:
		verdict = "Your portfolio is moderately diversified. A few more positions would smooth out the swings."
	case len(positions) >= 8:
		verdict = "Your portfolio is well diversified across many positions."
	default:
		verdict = "Your portfolio is reasonably diversified."
	}

	reply := fmt.Sprintf("You hold %d distinct positions (%d stocks, %d crypto). %s",
		len(positions), stocks, crypto, verdict)

	prompt := fmt.Sprintf("A portfolio has %d lots across %d distinct assets (%d stocks, %d crypto). In one or two sentences, say whether this is concentrated or diversified and why. Be concise.",
		len(holdings), len(positions), stocks, crypto)
	if remark, err := s.insight.Generate(ctx, prompt); err != nil {
		logger.Debug(ctx, "Insight unavailable for diversification reply", "error", err)
	} else if r := usableRemark(remark); r != "" {
		reply += "\n\n" + r
	}

	return reply, nil
}

func (s *Service) help() string {
	return "I can help with things like \"top 5 stocks\", \"suggest 3 crypto picks\", or \"is my portfolio diversified?\""
}
