package transaction

import (
	"time"

	"paygate/internal/constants"
)

// Origin tells which channel reported a transaction result.
type Origin string

const (
	OriginRedirect     Origin = "redirect"
	OriginNotification Origin = "notification"
)

// Transaction is one audit-trail record of a payment result reported
// by the provider.
type Transaction struct {
	ID          string
	Provider    string
	OrderNumber string

	// Reference is the provider-side transaction reference. Unique
	// per provider transaction, empty for cancelled redirects that
	// never reached the provider backend.
	Reference string

	MerchantReference string
	Method            string
	Amount            int64
	Currency          string
	Status            string
	Origin            Origin
	Live              bool

	// IPAddress is the client address the result was received from.
	// Only redirects carry a shopper address.
	IPAddress string

	CreatedAt time.Time
}

// Accepted reports whether the recorded result is a successful
// authorisation.
func (t *Transaction) Accepted() bool {
	return t.Status == constants.ResultAuthorised
}

// Declined reports whether the provider explicitly refused or
// cancelled the payment. Errors and pending results are neither
// accepted nor declined.
func (t *Transaction) Declined() bool {
	switch t.Status {
	case constants.ResultRefused, constants.ResultCancelled:
		return true
	}
	return false
}
