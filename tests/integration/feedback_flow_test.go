package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paygate/internal/config"
	"paygate/internal/gateway"
	"paygate/internal/logger"
	"paygate/internal/protocol"
	"paygate/internal/relevance"
	"paygate/internal/transaction"
)

func feedbackService(t *testing.T, infra *TestInfra) (*gateway.Service, transaction.Store) {
	t.Helper()

	store := transaction.NewStore(infra.PostgresDB)
	claim := transaction.NewRedisClaim(infra.RedisClient, time.Minute)
	relevanceSvc := relevance.NewService(store, false, logger.NopLogger())

	cfg := config.GatewayConfig{
		Identifier:    "OscaroFR",
		SecretKey:     "oscaroscaroscaro",
		ActionURL:     "https://test.adyen.com/hpp/select.shtml",
		HMACAlgorithm: "SHA1",
		SkinCode:      "4d72uQqA",
	}

	service, err := gateway.NewService(cfg, store, claim, relevanceSvc, nil, "", logger.NopLogger())
	require.NoError(t, err)
	return service, store
}

// The notification and the redirect for the same payment arrive in
// either order. Whichever lands second must not create a second audit
// record, and the redirect must backfill the shopper address.
func TestFeedbackFlowBothChannels(t *testing.T) {
	infra := SetupTestInfra(t)
	service, store := feedbackService(t, infra)
	ctx := context.Background()

	notification := protocol.Fields{
		"currency":            "GBP",
		"eventCode":           "AUTHORISATION",
		"eventDate":           "2014-10-18T17:00:00.00Z",
		"live":                "false",
		"merchantAccountCode": "OscaroFR",
		"merchantReference":   "WVubjVRFOTPBsLNy33zqliF-vmc:109:00000109",
		"paymentMethod":       "visa",
		"pspReference":        "8814136447235922",
		"reason":              "32853:1111:6/2016",
		"success":             "true",
		"value":               "13894",
	}

	decision, err := service.AssessNotificationRelevance(ctx, http.MethodPost, notification)
	require.NoError(t, err)
	require.True(t, decision.Process)

	claimed, err := service.ClaimReference(ctx, "8814136447235922")
	require.NoError(t, err)
	require.True(t, claimed)

	result, err := service.HandlePaymentFeedback(ctx, transaction.OriginNotification, notification, "")
	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.Equal(t, "00000109", result.OrderNumber)
	assert.Equal(t, int64(13894), result.Amount)

	// Redelivery of the same notification is filtered as a duplicate.
	decision, err = service.AssessNotificationRelevance(ctx, http.MethodPost, notification)
	require.NoError(t, err)
	assert.False(t, decision.Process)
	assert.True(t, decision.Acknowledge)
	assert.Equal(t, relevance.ReasonDuplicate, decision.Reason)

	// The shopper's browser comes back with the signed redirect.
	redirect := protocol.Fields{
		"authResult":         "AUTHORISED",
		"merchantReference":  "WVubjVRFOTPBsLNy33zqliF-vmc:109:00000109",
		"merchantReturnData": "13894",
		"merchantSig":        "99Y+9EiSuT6W4rd/M3zg/wwwRjw=",
		"paymentMethod":      "visa",
		"pspReference":       "8814136447235922",
		"shopperLocale":      "en_GB",
		"skinCode":           "4d72uQqA",
	}

	result, err = service.HandlePaymentFeedback(ctx, transaction.OriginRedirect, redirect, "203.0.113.4")
	require.NoError(t, err)
	assert.True(t, result.Accepted)

	count, err := service.CountOrderAttempts(ctx, "00000109")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	exists, err := store.ExistsByReference(ctx, "adyen", "8814136447235922")
	require.NoError(t, err)
	assert.True(t, exists)

	var ip string
	err = infra.PostgresDB.QueryRowContext(ctx,
		"SELECT ip_address FROM psp_transactions WHERE reference = $1", "8814136447235922").Scan(&ip)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.4", ip)
}
