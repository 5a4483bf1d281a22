package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shopsphere-backend/internal/domains/product/model"
	"shopsphere-backend/internal/domains/product/service"
	"shopsphere-backend/internal/shared/response"
)

type ProductHandler struct {
	service service.Service
}

func NewProductHandler(service service.Service) *ProductHandler {
	return &ProductHandler{service: service}
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}

	product, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		response.InternalServerError(c, "failed to get product")
		return
	}

	response.Success(c, http.StatusOK, product)
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") == "true"

	products, err := h.service.ListProducts(c.Request.Context(), activeOnly)
	if err != nil {
		response.InternalServerError(c, "failed to list products")
		return
	}

	response.Success(c, http.StatusOK, products)
}
