package transaction

import (
	"context"
	"fmt"

	"github.com/sony/gobreaker"

	"paygate/internal/config"
	"paygate/pkg/circuitbreaker"
)

// CircuitBreakerStore shields the audit database behind a breaker so
// a struggling database degrades payment feedback handling instead of
// hanging it.
type CircuitBreakerStore struct {
	store Store
	cb    *circuitbreaker.Wrapper
}

func NewCircuitBreakerStore(store Store, cfg config.CircuitBreakerConfig) *CircuitBreakerStore {
	if !cfg.Enabled {
		return &CircuitBreakerStore{
			store: store,
			cb:    nil,
		}
	}

	cbConfig := circuitbreaker.DefaultConfig("postgres-transactions")
	if cfg.MaxRequests > 0 {
		cbConfig.MaxRequests = cfg.MaxRequests
	}
	if cfg.Interval > 0 {
		cbConfig.Interval = cfg.Interval
	}
	if cfg.Timeout > 0 {
		cbConfig.Timeout = cfg.Timeout
	}
	if cfg.FailureRatio > 0 && cfg.MinRequests > 0 {
		cbConfig.ReadyToTrip = func(counts gobreaker.Counts) bool {
			if counts.Requests < uint32(cfg.MinRequests) {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		}
	}

	return &CircuitBreakerStore{
		store: store,
		cb:    circuitbreaker.NewWrapper(cbConfig),
	}
}

func (s *CircuitBreakerStore) Insert(ctx context.Context, txn *Transaction) error {
	if s.cb == nil {
		return s.store.Insert(ctx, txn)
	}

	_, err := s.cb.ExecuteWithContext(ctx, func() (interface{}, error) {
		return nil, s.store.Insert(ctx, txn)
	})

	s.cb.RecordRequest(err == nil)

	if err != nil && s.cb.IsOpen() {
		return fmt.Errorf("circuit breaker is open for postgres-transactions: %w", err)
	}
	return err
}

func (s *CircuitBreakerStore) ExistsByReference(ctx context.Context, provider, reference string) (bool, error) {
	if s.cb == nil {
		return s.store.ExistsByReference(ctx, provider, reference)
	}

	result, err := s.cb.ExecuteWithContext(ctx, func() (interface{}, error) {
		return s.store.ExistsByReference(ctx, provider, reference)
	})

	s.cb.RecordRequest(err == nil)

	if err != nil {
		if s.cb.IsOpen() {
			return false, fmt.Errorf("circuit breaker is open for postgres-transactions: %w", err)
		}
		return false, err
	}

	exists, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("store returned invalid result type")
	}
	return exists, nil
}

func (s *CircuitBreakerStore) UpdateIPAddress(ctx context.Context, provider, reference, ipAddress string) error {
	if s.cb == nil {
		return s.store.UpdateIPAddress(ctx, provider, reference, ipAddress)
	}

	_, err := s.cb.ExecuteWithContext(ctx, func() (interface{}, error) {
		return nil, s.store.UpdateIPAddress(ctx, provider, reference, ipAddress)
	})

	s.cb.RecordRequest(err == nil)

	if err != nil && s.cb.IsOpen() {
		return fmt.Errorf("circuit breaker is open for postgres-transactions: %w", err)
	}
	return err
}

func (s *CircuitBreakerStore) CountByOrder(ctx context.Context, provider, orderNumber string) (int, error) {
	if s.cb == nil {
		return s.store.CountByOrder(ctx, provider, orderNumber)
	}

	result, err := s.cb.ExecuteWithContext(ctx, func() (interface{}, error) {
		return s.store.CountByOrder(ctx, provider, orderNumber)
	})

	s.cb.RecordRequest(err == nil)

	if err != nil {
		if s.cb.IsOpen() {
			return 0, fmt.Errorf("circuit breaker is open for postgres-transactions: %w", err)
		}
		return 0, err
	}

	count, ok := result.(int)
	if !ok {
		return 0, fmt.Errorf("store returned invalid result type")
	}
	return count, nil
}

func (s *CircuitBreakerStore) State() string {
	if s.cb == nil {
		return "disabled"
	}
	return s.cb.State().String()
}

func (s *CircuitBreakerStore) IsOpen() bool {
	if s.cb == nil {
		return false
	}
	return s.cb.IsOpen()
}
