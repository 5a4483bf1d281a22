package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"shopsphere-backend/internal/domains/payment/service"
)

// SweepHandler fails payments stuck in PROCESSING past the configured
// timeout, so an abandoned gateway call cannot hold an order forever.
type SweepHandler struct {
	service service.Service
}

func NewSweepHandler(service service.Service) *SweepHandler {
	return &SweepHandler{service: service}
}

func (h *SweepHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	if _, err := h.service.SweepStaleProcessing(ctx); err != nil {
		return fmt.Errorf("failed to sweep stale payments: %w", err)
	}
	return nil
}
