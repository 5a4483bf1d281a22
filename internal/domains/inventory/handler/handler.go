package handler

import (
	"errors"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shopsphere-backend/internal/domains/inventory/model"
	"shopsphere-backend/internal/domains/inventory/service"
	"shopsphere-backend/internal/shared/response"
)

type InventoryHandler struct {
	service service.Service
}

func NewInventoryHandler(service service.Service) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// UpsertInventory handles PUT /admin/inventory
func (h *InventoryHandler) UpsertInventory(c *gin.Context) {
	var req model.UpsertInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	inv, err := h.service.UpsertInventory(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, inv)
}

// Restock handles POST /admin/inventory/restock
func (h *InventoryHandler) Restock(c *gin.Context) {
	var req model.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	inv, err := h.service.Restock(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, inv)
}

// ListByProduct handles GET /admin/inventory/product/:productId
func (h *InventoryHandler) ListByProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}

	records, err := h.service.ListByProduct(c.Request.Context(), productID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, records)
}

// ListByStore handles GET /admin/inventory/store/:store
func (h *InventoryHandler) ListByStore(c *gin.Context) {
	store := c.Param("store")
	if store == "" {
		response.BadRequest(c, "store location required")
		return
	}

	records, err := h.service.ListByStore(c.Request.Context(), store)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, records)
}

// ListLowStock handles GET /admin/inventory/low-stock
func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	threshold, err := strconv.Atoi(c.DefaultQuery("threshold", "10"))
	if err != nil || threshold < 0 {
		response.BadRequest(c, "invalid threshold")
		return
	}

	records, err := h.service.ListLowStock(c.Request.Context(), threshold)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, records)
}

// CheckAvailability handles GET /inventory/availability
func (h *InventoryHandler) CheckAvailability(c *gin.Context) {
	productID, err := uuid.Parse(c.Query("productId"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}

	store := c.Query("store")
	if store == "" {
		response.BadRequest(c, "store location required")
		return
	}

	quantity, err := strconv.Atoi(c.DefaultQuery("quantity", "1"))
	if err != nil || quantity < 1 {
		response.BadRequest(c, "invalid quantity")
		return
	}

	available, err := h.service.CheckAvailability(c.Request.Context(), productID, store, quantity)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"productId": productID,
		"store":     store,
		"quantity":  quantity,
		"available": available,
	})
}

func handleError(c *gin.Context, err error) {
	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request", validationErrs)
		return
	}

	switch {
	case errors.Is(err, model.ErrInventoryNotFound):
		response.NotFound(c, "inventory record not found")
	case errors.Is(err, model.ErrInsufficientStock),
		errors.Is(err, model.ErrInsufficientStockAcrossStores):
		response.Conflict(c, err.Error())
	default:
		response.InternalServerError(c, "inventory operation failed")
	}
}
