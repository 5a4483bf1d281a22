package handler

import (
	"errors"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	customermodel "shopsphere-backend/internal/domains/customer/model"
	inventorymodel "shopsphere-backend/internal/domains/inventory/model"
	loyaltymodel "shopsphere-backend/internal/domains/loyalty/model"
	"shopsphere-backend/internal/domains/order/model"
	"shopsphere-backend/internal/domains/order/service"
	productmodel "shopsphere-backend/internal/domains/product/model"
	"shopsphere-backend/internal/shared/response"
)

type OrderHandler struct {
	service service.Service
}

func NewOrderHandler(service service.Service) *OrderHandler {
	return &OrderHandler{service: service}
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	customerID := c.MustGet("userID").(uuid.UUID)

	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), customerID, req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, order)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}

// ListMyOrders handles GET /orders
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	customerID := c.MustGet("userID").(uuid.UUID)

	orders, err := h.service.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, orders)
}

// ListByStatus handles GET /orders/status/:status
func (h *OrderHandler) ListByStatus(c *gin.Context) {
	status := c.Param("status")
	if !model.ValidStatus(status) {
		response.BadRequest(c, "invalid order status")
		return
	}

	orders, err := h.service.ListByStatus(c.Request.Context(), status)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, orders)
}

// ListRecent handles GET /orders/recent
func (h *OrderHandler) ListRecent(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 1 {
		response.BadRequest(c, "invalid days parameter")
		return
	}

	orders, err := h.service.ListRecent(c.Request.Context(), days)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, orders)
}

// ListAllOrders handles GET /admin/orders
func (h *OrderHandler) ListAllOrders(c *gin.Context) {
	orders, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, orders)
}

// UpdateStatus handles PATCH /orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}

// CancelOrder handles PATCH /orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	order, err := h.service.CancelOrder(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}

func handleError(c *gin.Context, err error) {
	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request", validationErrs)
		return
	}

	var transitionErr *model.StatusTransitionError
	if errors.As(err, &transitionErr) {
		response.Conflict(c, transitionErr.Error())
		return
	}

	switch {
	case errors.Is(err, model.ErrOrderNotFound):
		response.NotFound(c, "order not found")
	case errors.Is(err, customermodel.ErrCustomerNotFound):
		response.NotFound(c, "customer not found")
	case errors.Is(err, productmodel.ErrProductNotFound),
		errors.Is(err, productmodel.ErrProductInactive),
		errors.Is(err, inventorymodel.ErrInventoryNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, model.ErrEmptyOrder),
		errors.Is(err, inventorymodel.ErrInvalidChannel),
		errors.Is(err, inventorymodel.ErrStoreRequired),
		errors.Is(err, loyaltymodel.ErrInvalidCouponFormat):
		response.BadRequest(c, err.Error())
	case errors.Is(err, inventorymodel.ErrInsufficientStock),
		errors.Is(err, inventorymodel.ErrInsufficientStockAcrossStores):
		response.Conflict(c, err.Error())
	case errors.Is(err, model.ErrDiscountCodeUsed),
		errors.Is(err, loyaltymodel.ErrCouponAlreadyUsed):
		response.Conflict(c, "discount code already used")
	case errors.Is(err, loyaltymodel.ErrCouponNotFound):
		response.NotFound(c, "coupon not found")
	case errors.Is(err, loyaltymodel.ErrCouponBelowMinimum):
		response.UnprocessableEntity(c, err.Error())
	default:
		response.InternalServerError(c, "order operation failed")
	}
}
