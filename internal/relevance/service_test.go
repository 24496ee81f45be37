package relevance

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paygate/internal/logger"
	"paygate/internal/protocol"
	"paygate/internal/transaction"
	"paygate/pkg/errors"
)

type memoryStore struct {
	references map[string]bool
	err        error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{references: map[string]bool{}}
}

func (m *memoryStore) Insert(_ context.Context, txn *transaction.Transaction) error {
	if m.references[txn.Reference] {
		return errors.ErrConflict
	}
	m.references[txn.Reference] = true
	return nil
}

func (m *memoryStore) ExistsByReference(_ context.Context, _, reference string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.references[reference], nil
}

func (m *memoryStore) UpdateIPAddress(_ context.Context, _, _, _ string) error {
	return nil
}

func (m *memoryStore) CountByOrder(_ context.Context, _, _ string) (int, error) {
	return len(m.references), nil
}

func notificationFields(overrides map[string]string) protocol.Fields {
	fields := protocol.Fields{
		"currency":            "EUR",
		"eventCode":           "AUTHORISATION",
		"eventDate":           "2014-10-18T17:00:00.00Z",
		"live":                "false",
		"merchantAccountCode": "OscaroBE",
		"merchantReference":   "789:456:00000000123",
		"paymentMethod":       "visa",
		"pspReference":        "7914120802434172",
		"reason":              "32853:1111:6/2016",
		"success":             "true",
		"value":               "21714",
	}
	for key, value := range overrides {
		fields[key] = value
	}
	return fields
}

func TestAssess(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		overrides   map[string]string
		seeded      []string
		process     bool
		acknowledge bool
		reason      string
	}{
		{
			name:        "fresh authorisation is processed",
			method:      http.MethodPost,
			process:     true,
			acknowledge: true,
		},
		{
			name:        "non post request is ignored",
			method:      http.MethodGet,
			process:     false,
			acknowledge: false,
			reason:      ReasonWrongMethod,
		},
		{
			name:        "live notification on test platform",
			method:      http.MethodPost,
			overrides:   map[string]string{"live": "true"},
			process:     false,
			acknowledge: false,
			reason:      ReasonPlatformMismatch,
		},
		{
			name:        "non authorisation event is acknowledged only",
			method:      http.MethodPost,
			overrides:   map[string]string{"eventCode": "REPORT_AVAILABLE"},
			process:     false,
			acknowledge: true,
			reason:      ReasonIgnoredEvent,
		},
		{
			name:        "test notification is acknowledged only",
			method:      http.MethodPost,
			overrides:   map[string]string{"pspReference": "test_AUTHORISATION_4"},
			process:     false,
			acknowledge: true,
			reason:      ReasonTestNotification,
		},
		{
			name:        "duplicate reference is acknowledged only",
			method:      http.MethodPost,
			seeded:      []string{"7914120802434172"},
			process:     false,
			acknowledge: true,
			reason:      ReasonDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			for _, ref := range tt.seeded {
				store.references[ref] = true
			}
			service := NewService(store, false, logger.NopLogger())

			decision, err := service.Assess(context.Background(), tt.method, notificationFields(tt.overrides))
			require.NoError(t, err)

			assert.Equal(t, tt.process, decision.Process)
			assert.Equal(t, tt.acknowledge, decision.Acknowledge)
			assert.Equal(t, tt.reason, decision.Reason)
		})
	}
}

func TestAssessStoreError(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.ErrInternal
	service := NewService(store, false, logger.NopLogger())

	_, err := service.Assess(context.Background(), http.MethodPost, notificationFields(nil))
	require.Error(t, err)
}

func TestAssessLivePlatform(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store, true, logger.NopLogger())

	decision, err := service.Assess(context.Background(), http.MethodPost,
		notificationFields(map[string]string{"live": "true"}))
	require.NoError(t, err)
	assert.True(t, decision.Process)
}
