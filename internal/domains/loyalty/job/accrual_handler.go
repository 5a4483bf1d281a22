package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"shopsphere-backend/internal/domains/loyalty/service"
	"shopsphere-backend/internal/shared"
	"shopsphere-backend/pkg/logger"
)

// AccrualHandler awards points for committed orders. The accrual is
// idempotent, so retries are always safe.
type AccrualHandler struct {
	service service.Service
}

func NewAccrualHandler(service service.Service) *AccrualHandler {
	return &AccrualHandler{service: service}
}

func (h *AccrualHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.LoyaltyAccrualPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		// A malformed payload never fixes itself on retry.
		return fmt.Errorf("failed to unmarshal accrual payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := h.service.EarnPointsFromOrder(ctx, payload.UserID, payload.OrderID, payload.OrderAmount); err != nil {
		return fmt.Errorf("failed to accrue points for order %s: %w", payload.OrderID, err)
	}

	logger.Info("loyalty points accrued", map[string]interface{}{
		"userId":  payload.UserID,
		"orderId": payload.OrderID,
	})

	return nil
}
