// Package server exposes the advisor over HTTP: portfolio CRUD, rankings,
// order-risk checks, chat, news, and reports.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"asset-advisor/internal/chat"
	"asset-advisor/internal/engine"
	"asset-advisor/internal/interfaces"
	"asset-advisor/internal/logger"
	"asset-advisor/internal/market"
	"asset-advisor/internal/news"
	"asset-advisor/internal/report"
	"asset-advisor/internal/store"
	"asset-advisor/internal/symbols"
	"asset-advisor/internal/types"
)

type Server struct {
	cfg     *store.Config
	store   *store.Holdings
	advisor interfaces.Advisor
	oracle  *market.Oracle
	chat    *chat.Service
	news    *news.Service
	report  *report.Service
	http    *http.Server
}

func New(cfg *store.Config, holdings *store.Holdings, advisor interfaces.Advisor, oracle *market.Oracle,
	chatSvc *chat.Service, newsSvc *news.Service, reportSvc *report.Service) *Server {
	s := &Server{
		cfg:     cfg,
		store:   holdings,
		advisor: advisor,
		oracle:  oracle,
		chat:    chatSvc,
		news:    newsSvc,
		report:  reportSvc,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	api := r.Group("/api")
	{
		api.GET("/health", s.handleHealth)

		api.POST("/assets", s.handleAddAsset)
		api.GET("/assets", s.handleListAssets)
		api.GET("/assets/holdings", s.handleDashboard)
		api.GET("/assets/history", s.handleHistory)
		api.POST("/assets/sell", s.handleSellBySymbol)
		api.POST("/assets/:id/sell", s.handleSellByID)

		api.GET("/recommendations", s.handleRecommendations)
		api.GET("/risk/sell", s.handleRiskSell)
		api.GET("/risk/buy", s.handleRiskBuy)

		api.POST("/chat", s.handleChat)
		api.GET("/news/:symbol", s.handleNews)
		api.GET("/report/weekly", s.handleWeeklyReport)
	}

	s.http = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info(c.Request.Context(), "HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	logger.Info(context.Background(), "HTTP server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type addAssetRequest struct {
	Symbol     string  `json:"symbol" binding:"required"`
	AssetClass string  `json:"assetType" binding:"required"`
	Name       string  `json:"name"`
	BuyPrice   float64 `json:"buyPrice" binding:"required,gt=0"`
	Qty        int     `json:"qty" binding:"required,gt=0"`
}

func (s *Server) handleAddAsset(c *gin.Context) {
	var req addAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	class := types.AssetClass(strings.ToUpper(req.AssetClass))
	if class != types.AssetStock && class != types.AssetCrypto {
		c.JSON(http.StatusBadRequest, gin.H{"error": "assetType must be STOCK or CRYPTO"})
		return
	}

	norm := symbols.Normalize(req.Symbol)
	if norm == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol cannot be blank"})
		return
	}

	now := time.Now()
	h := types.Holding{
		AssetClass:     class,
		Symbol:         norm,
		Name:           req.Name,
		BuyPrice:       decimal.NewFromFloat(req.BuyPrice),
		Qty:            req.Qty,
		CurrentPrice:   decimal.NewFromFloat(req.BuyPrice),
		CurrentUpdated: now,
		LastUpdated:    now,
	}
	if err := s.store.Save(c.Request.Context(), &h); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	logger.Trade(c.Request.Context(), norm, "BUY", req.Qty, req.BuyPrice)
	c.JSON(http.StatusCreated, h)
}

func (s *Server) handleListAssets(c *gin.Context) {
	holdings, err := s.store.FindAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, holdings)
}

// handleDashboard joins open lots with live prices, falling back to the static
// table so the view always renders numbers.
func (s *Server) handleDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	holdings, err := s.store.FindAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	priceCache := make(map[string]decimal.Decimal)
	rows := make([]types.DashboardRow, 0, len(holdings))
	for _, h := range holdings {
		if h.Qty <= 0 {
			continue
		}
		price, ok := priceCache[h.Symbol]
		if !ok {
			price = s.oracle.CurrentPriceOrFallback(ctx, h.Symbol, h.AssetClass)
			priceCache[h.Symbol] = price
		}

		pct := engine.ProfitPercent(h.BuyPrice, price)
		status := "FLAT"
		if pct.IsPositive() {
			status = "GAIN"
		} else if pct.IsNegative() {
			status = "LOSS"
		}

		rows = append(rows, types.DashboardRow{
			ID:            h.ID,
			AssetClass:    h.AssetClass,
			Symbol:        h.Symbol,
			Name:          h.Name,
			BuyPrice:      h.BuyPrice,
			Qty:           h.Qty,
			CurrentPrice:  price,
			AsOf:          time.Now(),
			MonetaryDelta: price.Sub(h.BuyPrice).Mul(decimal.NewFromInt(int64(h.Qty))).Round(2),
			Percent:       pct,
			Status:        status,
		})
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) handleHistory(c *gin.Context) {
	holdings, err := s.store.FindAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	sold := make([]types.Holding, 0)
	for _, h := range holdings {
		if h.SellingDate != nil {
			sold = append(sold, h)
		}
	}
	c.JSON(http.StatusOK, sold)
}

type sellRequest struct {
	Symbol string `json:"symbol" binding:"required"`
	Qty    int    `json:"qty" binding:"required,gt=0"`
}

func (s *Server) handleSellBySymbol(c *gin.Context) {
	var req sellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	norm := symbols.Normalize(req.Symbol)

	assessment, err := s.advisor.EvaluateSell(ctx, norm, req.Qty)
	if err != nil {
		s.writeAdvisorError(c, err)
		return
	}
	switch assessment.RiskLevel {
	case types.RiskNoHoldings:
		c.JSON(http.StatusNotFound, assessment)
		return
	case types.RiskInsufficientQuantity:
		c.JSON(http.StatusConflict, assessment)
		return
	}

	sold, err := s.store.ApplySell(ctx, norm, req.Qty, assessment.CurrentPrice)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	price, _ := assessment.CurrentPrice.Float64()
	logger.Trade(ctx, norm, "SELL", sold, price)
	c.JSON(http.StatusOK, gin.H{"sold": sold, "assessment": assessment})
}

func (s *Server) handleSellByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx := c.Request.Context()
	h, err := s.store.FindByID(ctx, uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "holding not found"})
		return
	}
	if h.Qty <= 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "holding already sold"})
		return
	}

	price := s.oracle.CurrentPriceOrFallback(ctx, h.Symbol, h.AssetClass)
	now := time.Now()
	qty := h.Qty
	h.Qty = 0
	h.SellingPrice = decimal.NewNullDecimal(price)
	h.SellingDate = &now
	h.CurrentPrice = price
	h.CurrentUpdated = now
	h.LastUpdated = now

	if err := s.store.Save(ctx, &h); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	fprice, _ := price.Float64()
	logger.Trade(ctx, h.Symbol, "SELL", qty, fprice, "lot_id", h.ID)
	c.JSON(http.StatusOK, h)
}

func (s *Server) handleRecommendations(c *gin.Context) {
	scope := types.Scope(strings.ToUpper(c.DefaultQuery("scope", string(types.ScopeAll))))
	n, err := strconv.Atoi(c.DefaultQuery("n", "5"))
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "n must be a positive integer"})
		return
	}

	recs, err := s.advisor.TopN(c.Request.Context(), scope, n)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (s *Server) handleRiskSell(c *gin.Context) { s.handleRisk(c, s.advisor.EvaluateSell) }
func (s *Server) handleRiskBuy(c *gin.Context)  { s.handleRisk(c, s.advisor.EvaluateBuy) }

func (s *Server) handleRisk(c *gin.Context, eval func(context.Context, string, int) (types.RiskAssessment, error)) {
	symbol := c.Query("symbol")
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}
	qty, err := strconv.Atoi(c.DefaultQuery("qty", "1"))
	if err != nil || qty <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "qty must be a positive integer"})
		return
	}

	assessment, err := eval(c.Request.Context(), symbol, qty)
	if err != nil {
		s.writeAdvisorError(c, err)
		return
	}
	c.JSON(http.StatusOK, assessment)
}

// writeAdvisorError maps an unavailable price to 503 so clients can
// distinguish "feed down" from a bad request.
func (s *Server) writeAdvisorError(c *gin.Context, err error) {
	if errors.Is(err, interfaces.ErrPriceUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "current price unavailable, try again later"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := s.chat.Reply(c.Request.Context(), req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (s *Server) handleNews(c *gin.Context) {
	symbol := symbols.Normalize(c.Param("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}

	headlines, err := s.news.Headlines(c.Request.Context(), symbol)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if headlines == nil {
		headlines = []news.Headline{}
	}
	c.JSON(http.StatusOK, headlines)
}

func (s *Server) handleWeeklyReport(c *gin.Context) {
	text, err := s.report.Weekly(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.String(http.StatusOK, text)
}
