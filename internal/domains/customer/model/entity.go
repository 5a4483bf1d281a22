package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the buyer identity. Account management lives in the
// identity service; this domain only reads.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}
