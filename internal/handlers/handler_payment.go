package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/syncpay/guardianpay/internal/apperrors"
	"github.com/syncpay/guardianpay/internal/core/domain"
	portssvc "github.com/syncpay/guardianpay/internal/core/ports/services"
	"github.com/syncpay/guardianpay/internal/dto"
	"github.com/syncpay/guardianpay/internal/middleware"
	"github.com/syncpay/guardianpay/pkg/config"
)

// paymentHandler handles HTTP requests for settlements.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

// newPaymentHandler creates a new paymentHandler.
func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: ps}
}

// registerPaymentRoutes registers all settlement routes. Initiating a
// settlement is admin-only and rate limited.
func registerPaymentRoutes(rg *gin.RouterGroup, cfg *config.Config, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	rate, err := limiter.NewRateFromFormatted(cfg.PaymentRateLimit)
	if err != nil {
		rate, _ = limiter.NewRateFromFormatted("30-M")
	}
	ipLimiter := limiter.New(limitermemory.NewStore(), rate)

	payments := rg.Group("/payments")
	{
		payments.POST("", middleware.RequireRole(domain.RoleAdmin), middleware.RateLimit(ipLimiter), h.processPayment)
		payments.GET("/:paymentID", h.getPayment)
		payments.GET("", h.listPayments)
	}
}

// processPayment godoc
// @Summary Execute a settlement
// @Description Charges the initiating parent (plus a second linked parent when the student has two) the surcharge-adjusted amount and credits the student with the original amount.
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body dto.ProcessPaymentRequest true "Settlement input"
// @Success 200 {object} dto.AppResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} dto.AppResponse
// @Failure 422 {object} dto.AppResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /payments [post]
func (h *paymentHandler) processPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind settlement request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received settlement request",
		slog.String("parent_id", req.ParentID),
		slog.String("student_id", req.StudentID),
		slog.String("amount", req.Amount.String()))

	payment, err := h.paymentService.ProcessPayment(c.Request.Context(), req)
	if err != nil {
		respondPaymentError(c, logger, payment, err)
		return
	}

	logger.Info("Settlement succeeded", slog.String("payment_id", payment.PaymentID))
	resp := dto.ToPaymentResponse(payment)
	c.JSON(http.StatusOK, dto.AppResponse{Status: "Success", Data: &resp})
}

// getPayment godoc
// @Summary Get a settlement record
// @Description Retrieves a single settlement record by its ID.
// @Tags payments
// @Produce json
// @Param paymentID path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /payments/{paymentID} [get]
func (h *paymentHandler) getPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("paymentID")

	payment, err := h.paymentService.GetPaymentByID(c.Request.Context(), paymentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Payment not found"})
			return
		}
		logger.Error("Failed to retrieve payment", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve payment"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// listPayments godoc
// @Summary List settlement records
// @Description Retrieves settlement records newest first with token-based pagination.
// @Tags payments
// @Produce json
// @Param limit query int false "Page size (default 20)"
// @Param nextToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListPaymentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.paymentService.ListPayments(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to list payments", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list payments"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// respondPaymentError maps a failed settlement to its HTTP status. Business
// outcomes carry the FAILED record that was durably written before the
// attempt, so callers always see the audit trail entry.
func respondPaymentError(c *gin.Context, logger *slog.Logger, payment *domain.Payment, err error) {
	var data *dto.PaymentResponse
	if payment != nil {
		resp := dto.ToPaymentResponse(payment)
		data = &resp
	}

	status := http.StatusInternalServerError
	message := "Failed to process payment"

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperrors.ErrInvalidParentCount),
		errors.Is(err, apperrors.ErrInvalidRelationship),
		errors.Is(err, apperrors.ErrInsufficientFunds),
		errors.Is(err, apperrors.ErrNoSuitableContribution):
		status = http.StatusUnprocessableEntity
		message = err.Error()
	default:
		logger.Error("Settlement failed", slog.String("error", err.Error()))
	}

	c.JSON(status, dto.AppResponse{Status: message, Data: data})
}
