package main

import (
	"github.com/hibiken/asynq"

	loyaltyJob "shopsphere-backend/internal/domains/loyalty/job"
	paymentJob "shopsphere-backend/internal/domains/payment/job"
	"shopsphere-backend/internal/shared"
	"shopsphere-backend/pkg/container"
)

// HandlerRegistry holds all job handlers.
type HandlerRegistry struct {
	loyaltyAccrual *loyaltyJob.AccrualHandler
	paymentSweep   *paymentJob.SweepHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		loyaltyAccrual: loyaltyJob.NewAccrualHandler(c.LoyaltyService),
		paymentSweep:   paymentJob.NewSweepHandler(c.PaymentService),
	}
}

// RegisterHandlers binds each task type to its handler.
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeLoyaltyAccrual, h.loyaltyAccrual.ProcessTask)
	mux.HandleFunc(shared.TypeSweepStalePayment, h.paymentSweep.ProcessTask)
}
