package model

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		allowed  bool
	}{
		{StatusConfirmed, StatusShipped, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusDelivered, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, true},
		{StatusShipped, StatusConfirmed, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusDelivered, StatusShipped, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusShipped, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled} {
		assert.True(t, ValidStatus(status))
	}
	assert.False(t, ValidStatus("PENDING"))
	assert.False(t, ValidStatus(""))
}

func TestNewTrackingNumber(t *testing.T) {
	orderID := uuid.MustParse("a1b2c3d4-0000-0000-0000-000000000000")
	now := time.UnixMilli(1700000000000)

	assert.Equal(t, "ONL-a1b2c3d4-1700000000000", NewTrackingNumber("ONLINE", orderID, now))
	assert.Equal(t, "STR-a1b2c3d4-1700000000000", NewTrackingNumber("IN_STORE", orderID, now))

	// Unknown channels still produce a usable number.
	assert.True(t, strings.HasPrefix(NewTrackingNumber("PHONE", orderID, now), "ORD-"))
}
