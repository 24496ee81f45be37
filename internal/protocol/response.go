package protocol

import (
	"paygate/internal/constants"
	"paygate/pkg/errors"
)

// Outcome is the processed result of a payment return or a payment
// notification.
type Outcome struct {
	// Accepted reports whether the payment went through.
	Accepted bool

	// Status is the payment result the PSP reported, one of the
	// Result* constants.
	Status string

	// Fields is the validated field set the outcome was derived
	// from, with vendor diagnostic fields already stripped.
	Fields Fields
}

// ProcessRedirect validates and processes the query fields of a
// browser returning from the payment page. The signature check is not
// optional here, a redirect travels through the shopper's hands and
// an invalid or missing signature means the transaction cannot be
// trusted.
func ProcessRedirect(signer Signer, fields Fields) (*Outcome, error) {
	validated, err := RedirectSchema.Validate(fields)
	if err != nil {
		return nil, err
	}

	if !signer.VerifyResult(validated) {
		return nil, errors.ErrInvalidTransaction
	}

	status := validated.Get(constants.FieldAuthResult)
	return &Outcome{
		Accepted: status == constants.ResultAuthorised,
		Status:   status,
		Fields:   validated,
	}, nil
}

// ProcessNotification validates and processes the form fields of a
// server-to-server payment notification. Notifications arrive over a
// channel secured outside the field set, so there is no signature to
// check, only the field schema.
func ProcessNotification(fields Fields) (*Outcome, error) {
	validated, err := NotificationSchema.Validate(fields)
	if err != nil {
		return nil, err
	}

	accepted := validated.Get(constants.FieldSuccess) == constants.ValueTrue
	status := constants.ResultRefused
	if accepted {
		status = constants.ResultAuthorised
	}

	return &Outcome{
		Accepted: accepted,
		Status:   status,
		Fields:   validated,
	}, nil
}
