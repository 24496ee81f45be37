package relevance

import (
	"context"
	"net/http"
	"strings"

	"paygate/internal/constants"
	"paygate/internal/logger"
	"paygate/internal/protocol"
	"paygate/internal/transaction"
	"paygate/pkg/metrics"
)

// Decision tells the caller what to do with an incoming notification.
type Decision struct {
	// Process means the notification carries a payment result this
	// system should act on.
	Process bool

	// Acknowledge means the sender should receive the accepted
	// response so it stops retrying. False only when the message was
	// never meant for this platform.
	Acknowledge bool

	// Reason records why processing was skipped. Empty when Process
	// is true.
	Reason string
}

const (
	ReasonWrongMethod      = "wrong_method"
	ReasonPlatformMismatch = "platform_mismatch"
	ReasonIgnoredEvent     = "ignored_event"
	ReasonTestNotification = "test_notification"
	ReasonDuplicate        = "duplicate"
)

// Service decides whether a provider notification is worth
// processing. The provider retries unacknowledged notifications for
// days, so anything addressed to this platform must be acknowledged
// even when it is skipped.
type Service struct {
	store transaction.Store
	log   logger.Logger

	// live is the platform this deployment talks to, derived from
	// the configured payment page URL.
	live bool
}

func NewService(store transaction.Store, live bool, log logger.Logger) *Service {
	return &Service{
		store: store,
		live:  live,
		log:   log,
	}
}

// Assess runs the relevance checks in order of cost. Cheap field
// checks come first, the duplicate lookup hits the database last.
func (s *Service) Assess(ctx context.Context, method string, fields protocol.Fields) (Decision, error) {
	if method != http.MethodPost {
		return s.decide(false, false, ReasonWrongMethod), nil
	}

	notificationLive := fields.Get(constants.FieldLive) == constants.ValueTrue
	if notificationLive != s.live {
		s.log.Warnw("notification platform mismatch",
			"notification_live", notificationLive,
			"platform_live", s.live,
			"psp_reference", fields.Get(constants.FieldPSPReference))
		return s.decide(false, false, ReasonPlatformMismatch), nil
	}

	if fields.Get(constants.FieldEventCode) != constants.EventCodeAuthorisation {
		s.log.Debugw("skipping non-authorisation notification",
			"event_code", fields.Get(constants.FieldEventCode))
		return s.decide(false, true, ReasonIgnoredEvent), nil
	}

	reference := fields.Get(constants.FieldPSPReference)
	if strings.Contains(reference, constants.TestReferenceMarker) {
		s.log.Infow("skipping test notification", "psp_reference", reference)
		return s.decide(false, true, ReasonTestNotification), nil
	}

	exists, err := s.store.ExistsByReference(ctx, constants.ProviderCode, reference)
	if err != nil {
		return Decision{}, err
	}
	if exists {
		s.log.Infow("skipping duplicate notification", "psp_reference", reference)
		return s.decide(false, true, ReasonDuplicate), nil
	}

	return s.decide(true, true, ""), nil
}

func (s *Service) decide(process, ack bool, reason string) Decision {
	outcome := "process"
	if !process {
		outcome = reason
	}
	metrics.RecordNotificationAssessment(outcome)
	return Decision{Process: process, Acknowledge: ack, Reason: reason}
}
