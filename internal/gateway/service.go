package gateway

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"paygate/internal/broker"
	"paygate/internal/config"
	"paygate/internal/constants"
	"paygate/internal/logger"
	"paygate/internal/protocol"
	"paygate/internal/relevance"
	"paygate/internal/transaction"
	"paygate/pkg/errors"
	"paygate/pkg/metrics"

	"github.com/google/uuid"
)

// FeedbackResult is the unpacked outcome of a redirect or a
// notification, ready for merchant-side consumption.
type FeedbackResult struct {
	Accepted     bool            `json:"accepted"`
	Status       string          `json:"status"`
	OrderNumber  string          `json:"order_number"`
	PSPReference string          `json:"psp_reference,omitempty"`
	Method       string          `json:"method,omitempty"`
	Amount       int64           `json:"amount"`
	Currency     string          `json:"currency,omitempty"`
	IPAddress    string          `json:"ip_address,omitempty"`
	Fields       protocol.Fields `json:"fields"`
}

// Service ties the protocol core to the audit store, the relevance
// filter and the event producer.
type Service struct {
	cfg       config.GatewayConfig
	signer    protocol.Signer
	form      *protocol.FormRequest
	store     transaction.Store
	claim     transaction.ClaimGuard
	relevance *relevance.Service
	producer  broker.Producer
	topic     string
	live      bool
	log       logger.Logger
}

// NewService validates the gateway parameters up front. A deployment
// with a bad secret or action URL must fail at startup, not on the
// first payment.
func NewService(
	cfg config.GatewayConfig,
	store transaction.Store,
	claim transaction.ClaimGuard,
	relevanceSvc *relevance.Service,
	producer broker.Producer,
	topic string,
	log logger.Logger,
) (*Service, error) {
	algorithm, err := protocol.ParseAlgorithm(cfg.HMACAlgorithm)
	if err != nil {
		return nil, err
	}

	signer, err := protocol.NewSigner(algorithm, cfg.SecretKey)
	if err != nil {
		return nil, err
	}

	form, err := protocol.NewFormRequest(cfg.Identifier, cfg.SkinCode, signer)
	if err != nil {
		return nil, err
	}
	form.AllowedMethods = cfg.AllowedMethods

	live, err := LiveFromActionURL(cfg.ActionURL)
	if err != nil {
		return nil, err
	}

	if claim == nil {
		claim = transaction.NopClaim{}
	}

	return &Service{
		cfg:       cfg,
		signer:    signer,
		form:      form,
		store:     store,
		claim:     claim,
		relevance: relevanceSvc,
		producer:  producer,
		topic:     topic,
		live:      live,
		log:       log,
	}, nil
}

// LiveFromActionURL derives the target platform from the payment
// page URL. Provider test hosts carry "test" in the hostname.
func LiveFromActionURL(raw string) (bool, error) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return false, errors.ErrMissingParameter.
			WithMessage("invalid payment page URL %q", raw).
			WithCause(err)
	}
	return !strings.Contains(parsed.Hostname(), constants.TestPlatformMarker), nil
}

// Live reports which provider platform this deployment targets.
func (s *Service) Live() bool {
	return s.live
}

// ActionURL returns the hosted payment page the signed form must be
// posted to.
func (s *Service) ActionURL() string {
	return s.cfg.ActionURL
}

// IPAddressHeader names the proxy header carrying the original
// client address.
func (s *Service) IPAddressHeader() string {
	return s.cfg.IPAddressHeader
}

// BuildPaymentFormFields returns the signed hidden fields for an
// order.
func (s *Service) BuildPaymentFormFields(ctx context.Context, order protocol.Order) ([]protocol.FormField, error) {
	fields, err := s.form.Build(order)
	if err != nil {
		metrics.RecordFormBuilt("error")
		return nil, err
	}

	metrics.RecordFormBuilt("ok")
	s.log.Infow("payment form built",
		"order_number", order.OrderNumber,
		"amount", order.Amount,
		"currency", order.Currency,
	)
	return fields, nil
}

// AssessNotificationRelevance decides whether an incoming
// notification must be processed and whether it must be acknowledged.
func (s *Service) AssessNotificationRelevance(ctx context.Context, method string, fields protocol.Fields) (relevance.Decision, error) {
	return s.relevance.Assess(ctx, method, fields)
}

// ClaimReference takes a short exclusive claim on a provider
// reference so concurrent deliveries of the same notification do not
// race between the relevance check and the audit insert.
func (s *Service) ClaimReference(ctx context.Context, reference string) (bool, error) {
	return s.claim.Acquire(ctx, reference)
}

// ReleaseReference drops a claim after a failed processing attempt so
// the provider's retry is not locked out for the claim TTL.
func (s *Service) ReleaseReference(ctx context.Context, reference string) error {
	return s.claim.Release(ctx, reference)
}

// HandlePaymentFeedback validates, processes and records one payment
// result, from either channel.
func (s *Service) HandlePaymentFeedback(ctx context.Context, origin transaction.Origin, fields protocol.Fields, clientIP string) (*FeedbackResult, error) {
	start := time.Now()

	var outcome *protocol.Outcome
	var err error

	switch origin {
	case transaction.OriginRedirect:
		outcome, err = protocol.ProcessRedirect(s.signer, fields)
		// The metric counts verification outcomes only. Schema failures
		// happen before the signature is checked and stay out of it.
		if errors.IsInvalidTransaction(err) {
			metrics.RecordSignatureVerification("failed")
		} else if err == nil {
			metrics.RecordSignatureVerification("ok")
		}
	case transaction.OriginNotification:
		outcome, err = protocol.ProcessNotification(fields)
	default:
		return nil, errors.ErrInternal.WithMessage("unknown feedback origin %q", string(origin))
	}
	if err != nil {
		metrics.RecordPaymentFeedback(string(origin), "invalid")
		return nil, err
	}

	result := s.unpack(outcome, origin, clientIP)

	s.recordAuditTrail(ctx, origin, result)

	s.publishEvent(ctx, origin, result)

	metrics.RecordPaymentFeedback(string(origin), result.Status)
	metrics.ObserveFeedbackDuration(string(origin), time.Since(start))

	s.log.Infow("payment feedback processed",
		"origin", origin,
		"order_number", result.OrderNumber,
		"psp_reference", result.PSPReference,
		"status", result.Status,
		"accepted", result.Accepted,
	)

	return result, nil
}

// unpack extracts the merchant-side view from validated fields. The
// merchant reference may be composite, the order number is its last
// segment. The amount travels in merchantReturnData on redirects and
// in value on notifications.
func (s *Service) unpack(outcome *protocol.Outcome, origin transaction.Origin, clientIP string) *FeedbackResult {
	fields := outcome.Fields

	merchantRef := fields.Get(constants.FieldMerchantReference)
	parts := strings.Split(merchantRef, constants.ReferenceSeparator)
	orderNumber := parts[len(parts)-1]

	rawAmount := fields.Get(constants.FieldMerchantReturnData)
	if rawAmount == "" {
		rawAmount = fields.Get(constants.FieldValue)
	}
	amount, err := strconv.ParseInt(rawAmount, 10, 64)
	if err != nil {
		s.log.Warnw("payment feedback carries no parsable amount",
			"merchant_reference", merchantRef, "raw_amount", rawAmount)
		amount = 0
	}

	return &FeedbackResult{
		Accepted:     outcome.Accepted,
		Status:       outcome.Status,
		OrderNumber:  orderNumber,
		PSPReference: fields.Get(constants.FieldPSPReference),
		Method:       fields.Get(constants.FieldPaymentMethod),
		Amount:       amount,
		Currency:     fields.Get(constants.FieldCurrency),
		IPAddress:    clientIP,
		Fields:       fields,
	}
}

// recordAuditTrail inserts the transaction record. A conflict means
// the other channel already recorded this reference, in which case a
// redirect still backfills the shopper address the notification
// could not know.
func (s *Service) recordAuditTrail(ctx context.Context, origin transaction.Origin, result *FeedbackResult) {
	txn := &transaction.Transaction{
		ID:                uuid.New().String(),
		Provider:          constants.ProviderCode,
		OrderNumber:       result.OrderNumber,
		Reference:         result.PSPReference,
		MerchantReference: result.Fields.Get(constants.FieldMerchantReference),
		Method:            result.Method,
		Amount:            result.Amount,
		Currency:          result.Currency,
		Status:            result.Status,
		Origin:            origin,
		Live:              s.live,
		IPAddress:         result.IPAddress,
	}

	err := s.store.Insert(ctx, txn)
	if err == nil {
		return
	}

	if errors.IsConflict(err) {
		if origin == transaction.OriginRedirect && result.IPAddress != "" && result.PSPReference != "" {
			if updateErr := s.store.UpdateIPAddress(ctx, constants.ProviderCode, result.PSPReference, result.IPAddress); updateErr != nil {
				s.log.Errorw("failed to backfill transaction ip address",
					"psp_reference", result.PSPReference, "error", updateErr)
			}
			return
		}
		s.log.Infow("transaction already recorded",
			"psp_reference", result.PSPReference, "origin", origin)
		return
	}

	// The audit trail must not break payment processing, the result
	// is still returned to the caller.
	s.log.Errorw("unexpected error during audit trail recording",
		"psp_reference", result.PSPReference, "error", err)
}

func (s *Service) publishEvent(ctx context.Context, origin transaction.Origin, result *FeedbackResult) {
	if s.producer == nil {
		return
	}

	event := broker.PaymentEvent{
		ID:           uuid.New().String(),
		Provider:     constants.ProviderCode,
		OrderNumber:  result.OrderNumber,
		PSPReference: result.PSPReference,
		Method:       result.Method,
		Amount:       result.Amount,
		Currency:     result.Currency,
		Status:       result.Status,
		Accepted:     result.Accepted,
		Origin:       string(origin),
		Live:         s.live,
		OccurredAt:   time.Now().UTC(),
	}

	if err := s.producer.Publish(ctx, s.topic, event); err != nil {
		s.log.Errorw("failed to publish payment event",
			"psp_reference", result.PSPReference, "error", err)
	}
}

// CountOrderAttempts returns how many results were recorded for one
// order, across both channels.
func (s *Service) CountOrderAttempts(ctx context.Context, orderNumber string) (int, error) {
	return s.store.CountByOrder(ctx, constants.ProviderCode, orderNumber)
}
