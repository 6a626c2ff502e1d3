package service

import (
	"context"
	"time"

	"lessonradar/internal/domain/entity"
)

// CartCheckoutEvent is published when a user proceeds to payment.
type CartCheckoutEvent struct {
	RequestID string          `json:"request_id,omitempty"` // For distributed tracing
	EventID   string          `json:"event_id"`
	OwnerID   string          `json:"owner_id"`
	Lessons   []entity.Lesson `json:"lessons"`
	CreatedAt time.Time       `json:"created_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishCartCheckout publishes a checkout for async payment processing
	PublishCartCheckout(ctx context.Context, event *CartCheckoutEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
