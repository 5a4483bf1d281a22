package handler

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ordermodel "shopsphere-backend/internal/domains/order/model"
	"shopsphere-backend/internal/domains/payment/model"
	"shopsphere-backend/internal/domains/payment/service"
	"shopsphere-backend/internal/shared/response"
)

type PaymentHandler struct {
	service service.Service
}

func NewPaymentHandler(service service.Service) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// InitiatePayment handles POST /payments
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	customerID := c.MustGet("userID").(uuid.UUID)

	var req model.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	payment, err := h.service.InitiatePayment(c.Request.Context(), customerID, req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, payment)
}

// ProcessPayment handles POST /payments/:id/process
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid payment id")
		return
	}

	var req model.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		handleError(c, err)
		return
	}

	payment, err := h.service.ProcessPayment(c.Request.Context(), id, req.OTP)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, payment)
}

// SettleCashOnDelivery handles POST /payments/:id/settle-cod
func (h *PaymentHandler) SettleCashOnDelivery(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid payment id")
		return
	}

	payment, err := h.service.SettleCashOnDelivery(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, payment)
}

// GetPayment handles GET /payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid payment id")
		return
	}

	payment, err := h.service.GetPayment(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, payment)
}

// ListByOrder handles GET /payments/order/:orderId
func (h *PaymentHandler) ListByOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	payments, err := h.service.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, payments)
}

// ListMyPayments handles GET /payments
func (h *PaymentHandler) ListMyPayments(c *gin.Context) {
	customerID := c.MustGet("userID").(uuid.UUID)

	payments, err := h.service.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, payments)
}

// ListAllPayments handles GET /admin/payments
func (h *PaymentHandler) ListAllPayments(c *gin.Context) {
	status := c.Query("status")

	var (
		payments []*model.Payment
		err      error
	)
	if status != "" {
		payments, err = h.service.ListByStatus(c.Request.Context(), model.PaymentStatus(status))
	} else {
		payments, err = h.service.ListAll(c.Request.Context())
	}
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, payments)
}

func handleError(c *gin.Context, err error) {
	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request", validationErrs)
		return
	}

	switch {
	case errors.Is(err, model.ErrPaymentNotFound):
		response.NotFound(c, "payment not found")
	case errors.Is(err, ordermodel.ErrOrderNotFound):
		response.NotFound(c, "order not found")
	case errors.Is(err, model.ErrNotOrderOwner):
		response.Forbidden(c, err.Error())
	case errors.Is(err, model.ErrPaymentAlreadyExists),
		errors.Is(err, model.ErrInvalidPaymentState):
		response.Conflict(c, err.Error())
	case errors.Is(err, model.ErrOrderNotDelivered):
		response.UnprocessableEntity(c, err.Error())
	default:
		response.InternalServerError(c, "payment operation failed")
	}
}
