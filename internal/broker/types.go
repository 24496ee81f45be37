package broker

import (
	"context"
	"time"
)

// PaymentEvent is published to downstream consumers once a payment
// result has been validated and recorded.
type PaymentEvent struct {
	ID           string    `json:"id"`
	Provider     string    `json:"provider"`
	OrderNumber  string    `json:"order_number"`
	PSPReference string    `json:"psp_reference,omitempty"`
	Method       string    `json:"method,omitempty"`
	Amount       int64     `json:"amount"`
	Currency     string    `json:"currency"`
	Status       string    `json:"status"`
	Accepted     bool      `json:"accepted"`
	Origin       string    `json:"origin"`
	Live         bool      `json:"live"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type Producer interface {
	Publish(ctx context.Context, topic string, event PaymentEvent) error
	Close() error
}
