package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mimoh123/saleTracker/internal/domain/models"
	"github.com/Mimoh123/saleTracker/internal/service/sales"
)

// SalesHandler exposes the sales actions over HTTP for the presentation
// layer. Action endpoints always answer 200 with the snapshot shape; store
// failures travel inside the body as an error string, never as a 5xx.
type SalesHandler struct {
	svc    *sales.Service
	logger *zap.Logger
}

// NewSalesHandler constructs the HTTP handler adapter.
func NewSalesHandler(svc *sales.Service, logger *zap.Logger) *SalesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesHandler{svc: svc, logger: logger}
}

// saleRequest is the mutation payload. Amount is loosely typed so numeric
// strings from the form (including comma decimal separators) coerce instead
// of failing the bind; unparseable values coerce to 0 and are rejected by
// the action's validation.
type saleRequest struct {
	ProductName string `json:"productName"`
	Amount      any    `json:"amount"`
	PaymentType string `json:"paymentType"`
}

// List returns the full entry list, most recent first.
func (h *SalesHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.List(c.Request.Context()))
}

// Add records a new sale and returns the refreshed list.
func (h *SalesHandler) Add(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid add payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := h.svc.Add(c.Request.Context(), req.ProductName, sales.CoerceAmount(req.Amount), req.PaymentType)
	c.JSON(http.StatusOK, result)
}

// Update edits the mutable fields of one sale and returns the refreshed list.
func (h *SalesHandler) Update(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := h.svc.Update(c.Request.Context(), c.Param("id"), req.ProductName, sales.CoerceAmount(req.Amount), req.PaymentType)
	c.JSON(http.StatusOK, result)
}

// Delete removes one sale and returns the refreshed list.
func (h *SalesHandler) Delete(c *gin.Context) {
	result := h.svc.Delete(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, result)
}

// Summary returns the entries and running total for a period and optional
// payment type filter, computed over a fresh listing.
func (h *SalesHandler) Summary(c *gin.Context) {
	period := sales.Period(c.DefaultQuery("period", string(sales.PeriodToday)))
	payment := c.DefaultQuery("payment", sales.PaymentFilterAll)

	res := h.svc.List(c.Request.Context())
	summary := sales.Summarize(res.Entries, period, payment, h.svc.Now())

	c.JSON(http.StatusOK, summaryResponse{
		Entries: summary.Entries,
		Count:   summary.Count,
		Total:   summary.Total,
		Error:   res.Error,
	})
}

type summaryResponse struct {
	Entries []models.SaleEntry `json:"entries"`
	Count   int                `json:"count"`
	Total   float64            `json:"total"`
	Error   string             `json:"error,omitempty"`
}
