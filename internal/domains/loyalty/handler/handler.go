package handler

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	customermodel "shopsphere-backend/internal/domains/customer/model"
	"shopsphere-backend/internal/domains/loyalty/model"
	"shopsphere-backend/internal/domains/loyalty/service"
	"shopsphere-backend/internal/shared/response"
)

type LoyaltyHandler struct {
	service service.Service
}

func NewLoyaltyHandler(service service.Service) *LoyaltyHandler {
	return &LoyaltyHandler{service: service}
}

// GetMyAccount handles GET /loyalty/me
func (h *LoyaltyHandler) GetMyAccount(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	details, err := h.service.GetAccountDetails(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, details)
}

// RedeemReward handles POST /loyalty/redeem
func (h *LoyaltyHandler) RedeemReward(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	var req model.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	coupon, err := h.service.RedeemReward(c.Request.Context(), userID, req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, coupon)
}

// GetActiveCoupon handles GET /loyalty/coupons/active
func (h *LoyaltyHandler) GetActiveCoupon(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	coupon, err := h.service.GetActiveCoupon(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, coupon)
}

// ValidateCoupon handles POST /loyalty/coupons/validate
func (h *LoyaltyHandler) ValidateCoupon(c *gin.Context) {
	var req model.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request", err)
		return
	}

	result, err := h.service.ValidateCoupon(c.Request.Context(), req.Code, req.OrderTotal)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ListAccounts handles GET /admin/loyalty/accounts
func (h *LoyaltyHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.service.ListAccounts(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, accounts)
}

// GetProgramStats handles GET /admin/loyalty/stats
func (h *LoyaltyHandler) GetProgramStats(c *gin.Context) {
	stats, err := h.service.GetProgramStats(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

func handleError(c *gin.Context, err error) {
	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request", validationErrs)
		return
	}

	switch {
	case errors.Is(err, customermodel.ErrCustomerNotFound):
		response.NotFound(c, "customer not found")
	case errors.Is(err, model.ErrAccountNotFound):
		response.NotFound(c, "loyalty account not found")
	case errors.Is(err, model.ErrCouponNotFound):
		response.NotFound(c, "coupon not found")
	case errors.Is(err, model.ErrInvalidCouponFormat),
		errors.Is(err, model.ErrInvalidRewardTier):
		response.BadRequest(c, err.Error())
	case errors.Is(err, model.ErrInsufficientPoints),
		errors.Is(err, model.ErrCouponBelowMinimum):
		response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, model.ErrActiveCouponExists),
		errors.Is(err, model.ErrCouponAlreadyUsed):
		response.Conflict(c, err.Error())
	default:
		response.InternalServerError(c, "loyalty operation failed")
	}
}
