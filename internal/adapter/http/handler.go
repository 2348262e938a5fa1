// Package http exposes the portfolio REST surface. Every holding route is
// scoped to the caller through the X-User-Id header; holdings are addressed
// externally by their opaque external ID, never by internal IDs.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/folioflow/portfolio-backend/internal/domain"
	"github.com/folioflow/portfolio-backend/internal/usecase/portfolio"
	"github.com/folioflow/portfolio-backend/internal/usecase/snapshot"
)

const dateLayout = "2006-01-02"

// Handler holds the usecase services backing the REST routes
type Handler struct {
	Portfolio *portfolio.Service
	Snapshot  *snapshot.Job

	logger *zap.Logger
}

// NewHandler creates a new Handler instance
func NewHandler(portfolioService *portfolio.Service, snapshotJob *snapshot.Job, logger *zap.Logger) *Handler {
	return &Handler{
		Portfolio: portfolioService,
		Snapshot:  snapshotJob,
		logger:    logger,
	}
}

// NewRouter builds the gin engine with all portfolio routes registered.
// When authToken is empty, token authentication is disabled.
func NewRouter(handler *Handler, authToken string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/portfolio/v1")
	if authToken != "" {
		v1.Use(Auth(authToken))
	}

	// The snapshot trigger is an operator action, not user-scoped
	v1.POST("/snapshot/run", handler.RunSnapshot)

	user := v1.Group("", RequireUser())
	{
		user.POST("/stock", handler.AddStock)
		user.GET("/stocks", handler.ListStocks)
		user.DELETE("/stock/:externalId", handler.DeleteStock)

		user.POST("/mutual-fund", handler.AddMutualFund)
		user.GET("/mutual-funds", handler.ListMutualFunds)
		user.DELETE("/mutual-fund/:externalId", handler.DeleteMutualFund)

		user.POST("/crypto", handler.AddCrypto)
		user.GET("/cryptos", handler.ListCryptos)
		user.DELETE("/crypto/:externalId", handler.DeleteCrypto)

		user.POST("/manual", handler.AddManual)
		user.GET("/manuals", handler.ListManuals)
		user.DELETE("/manual/:externalId", handler.DeleteManual)

		user.GET("/history", handler.GetHistory)
	}

	return router
}

type stockRequest struct {
	Symbol        string          `json:"symbol" binding:"required"`
	Exchange      string          `json:"exchange"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	PurchaseDate  string          `json:"purchaseDate"`
}

type mutualFundRequest struct {
	SchemeCode    string          `json:"schemeCode" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	PurchaseDate  string          `json:"purchaseDate"`
}

type cryptoRequest struct {
	CoinID        string          `json:"coinId" binding:"required"`
	Symbol        string          `json:"symbol"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	PurchaseDate  string          `json:"purchaseDate"`
}

type manualRequest struct {
	AssetName     string           `json:"assetName" binding:"required"`
	AssetType     string           `json:"assetType" binding:"required"`
	InvestedValue decimal.Decimal  `json:"investedValue"`
	CurrentValue  *decimal.Decimal `json:"currentValue"`
	PurchaseDate  string           `json:"purchaseDate"`
	MaturityDate  string           `json:"maturityDate"`
}

type holdingResponse struct {
	ExternalID    string           `json:"externalId"`
	UserID        string           `json:"userId"`
	Kind          string           `json:"kind"`
	Symbol        string           `json:"symbol,omitempty"`
	Exchange      string           `json:"exchange,omitempty"`
	SchemeCode    string           `json:"schemeCode,omitempty"`
	CoinID        string           `json:"coinId,omitempty"`
	Quantity      *decimal.Decimal `json:"quantity,omitempty"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice,omitempty"`
	AssetName     string           `json:"assetName,omitempty"`
	AssetType     string           `json:"assetType,omitempty"`
	InvestedValue *decimal.Decimal `json:"investedValue,omitempty"`
	CurrentValue  *decimal.Decimal `json:"currentValue,omitempty"`
	PurchaseDate  string           `json:"purchaseDate,omitempty"`
	MaturityDate  string           `json:"maturityDate,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

type snapshotResponse struct {
	UserID       string          `json:"userId"`
	SnapshotDate string          `json:"snapshotDate"`
	TotalValue   decimal.Decimal `json:"totalValue"`
}

// AddStock handles POST /portfolio/v1/stock
func (h *Handler) AddStock(c *gin.Context) {
	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purchaseDate, err := parseDate(req.PurchaseDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid purchaseDate, expected YYYY-MM-DD"})
		return
	}

	holding, err := h.Portfolio.AddStock(c.Request.Context(), userID(c), portfolio.AddStockInput{
		Symbol:        req.Symbol,
		Exchange:      req.Exchange,
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
		PurchaseDate:  purchaseDate,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toHoldingResponse(holding))
}

// ListStocks handles GET /portfolio/v1/stocks
func (h *Handler) ListStocks(c *gin.Context) {
	h.listHoldings(c, domain.HoldingKindStock)
}

// DeleteStock handles DELETE /portfolio/v1/stock/:externalId
func (h *Handler) DeleteStock(c *gin.Context) {
	h.deleteHolding(c, domain.HoldingKindStock)
}

// AddMutualFund handles POST /portfolio/v1/mutual-fund
func (h *Handler) AddMutualFund(c *gin.Context) {
	var req mutualFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purchaseDate, err := parseDate(req.PurchaseDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid purchaseDate, expected YYYY-MM-DD"})
		return
	}

	holding, err := h.Portfolio.AddMutualFund(c.Request.Context(), userID(c), portfolio.AddMutualFundInput{
		SchemeCode:    req.SchemeCode,
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
		PurchaseDate:  purchaseDate,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toHoldingResponse(holding))
}

// ListMutualFunds handles GET /portfolio/v1/mutual-funds
func (h *Handler) ListMutualFunds(c *gin.Context) {
	h.listHoldings(c, domain.HoldingKindMutualFund)
}

// DeleteMutualFund handles DELETE /portfolio/v1/mutual-fund/:externalId
func (h *Handler) DeleteMutualFund(c *gin.Context) {
	h.deleteHolding(c, domain.HoldingKindMutualFund)
}

// AddCrypto handles POST /portfolio/v1/crypto
func (h *Handler) AddCrypto(c *gin.Context) {
	var req cryptoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purchaseDate, err := parseDate(req.PurchaseDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid purchaseDate, expected YYYY-MM-DD"})
		return
	}

	holding, err := h.Portfolio.AddCrypto(c.Request.Context(), userID(c), portfolio.AddCryptoInput{
		CoinID:        req.CoinID,
		Symbol:        req.Symbol,
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
		PurchaseDate:  purchaseDate,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toHoldingResponse(holding))
}

// ListCryptos handles GET /portfolio/v1/cryptos
func (h *Handler) ListCryptos(c *gin.Context) {
	h.listHoldings(c, domain.HoldingKindCrypto)
}

// DeleteCrypto handles DELETE /portfolio/v1/crypto/:externalId
func (h *Handler) DeleteCrypto(c *gin.Context) {
	h.deleteHolding(c, domain.HoldingKindCrypto)
}

// AddManual handles POST /portfolio/v1/manual
func (h *Handler) AddManual(c *gin.Context) {
	var req manualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purchaseDate, err := parseDate(req.PurchaseDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid purchaseDate, expected YYYY-MM-DD"})
		return
	}
	maturityDate, err := parseDate(req.MaturityDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid maturityDate, expected YYYY-MM-DD"})
		return
	}

	holding, err := h.Portfolio.AddManual(c.Request.Context(), userID(c), portfolio.AddManualInput{
		AssetName:     req.AssetName,
		AssetType:     req.AssetType,
		InvestedValue: req.InvestedValue,
		CurrentValue:  req.CurrentValue,
		PurchaseDate:  purchaseDate,
		MaturityDate:  maturityDate,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toHoldingResponse(holding))
}

// ListManuals handles GET /portfolio/v1/manuals
func (h *Handler) ListManuals(c *gin.Context) {
	h.listHoldings(c, domain.HoldingKindManual)
}

// DeleteManual handles DELETE /portfolio/v1/manual/:externalId
func (h *Handler) DeleteManual(c *gin.Context) {
	h.deleteHolding(c, domain.HoldingKindManual)
}

// GetHistory handles GET /portfolio/v1/history?days=N (default 30)
func (h *Handler) GetHistory(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	}

	since := time.Now().AddDate(0, 0, -days)
	snapshots, err := h.Snapshot.History(c.Request.Context(), userID(c), since)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response := make([]snapshotResponse, 0, len(snapshots))
	for _, s := range snapshots {
		response = append(response, snapshotResponse{
			UserID:       s.UserID,
			SnapshotDate: s.SnapshotDate.Format(dateLayout),
			TotalValue:   s.TotalValue,
		})
	}

	c.JSON(http.StatusOK, response)
}

// RunSnapshot handles POST /portfolio/v1/snapshot/run, the manual trigger
// for the daily snapshot job.
func (h *Handler) RunSnapshot(c *gin.Context) {
	processed, err := h.Snapshot.Run(c.Request.Context())
	if err != nil {
		if errors.Is(err, snapshot.ErrAlreadyRunning) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"processed": processed})
}

func (h *Handler) listHoldings(c *gin.Context, kind domain.HoldingKind) {
	holdings, err := h.Portfolio.ListHoldings(c.Request.Context(), userID(c), kind)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response := make([]holdingResponse, 0, len(holdings))
	for _, holding := range holdings {
		response = append(response, toHoldingResponse(holding))
	}

	c.JSON(http.StatusOK, response)
}

// deleteHolding always answers 204: deleting an absent or foreign external
// ID is a silent no-op by contract.
func (h *Handler) deleteHolding(c *gin.Context, kind domain.HoldingKind) {
	externalID := c.Param("externalId")

	if err := h.Portfolio.DeleteHolding(c.Request.Context(), userID(c), externalID, kind); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrInvalidHolding) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func toHoldingResponse(holding *domain.Holding) holdingResponse {
	response := holdingResponse{
		ExternalID: holding.ExternalID,
		UserID:     holding.UserID,
		Kind:       string(holding.Kind),
		Symbol:     holding.Symbol,
		Exchange:   holding.Exchange,
		SchemeCode: holding.SchemeCode,
		CoinID:     holding.CoinID,
		AssetName:  holding.AssetName,
		AssetType:  holding.AssetType,
		CreatedAt:  holding.CreatedAt,
		UpdatedAt:  holding.UpdatedAt,
	}

	if holding.Kind == domain.HoldingKindManual {
		invested := holding.InvestedValue
		response.InvestedValue = &invested
		response.CurrentValue = holding.CurrentValue
	} else {
		quantity := holding.Quantity
		purchasePrice := holding.PurchasePrice
		response.Quantity = &quantity
		response.PurchasePrice = &purchasePrice
	}

	if holding.PurchaseDate != nil {
		response.PurchaseDate = holding.PurchaseDate.Format(dateLayout)
	}
	if holding.MaturityDate != nil {
		response.MaturityDate = holding.MaturityDate.Format(dateLayout)
	}

	return response
}

// parseDate parses an optional YYYY-MM-DD value
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
