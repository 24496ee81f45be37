package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paygate/pkg/errors"
)

func validNotificationFields() Fields {
	return Fields{
		"currency":            "EUR",
		"eventCode":           "AUTHORISATION",
		"eventDate":           "2014-10-18T17:00:00.00Z",
		"live":                "false",
		"merchantAccountCode": "OscaroBE",
		"merchantReference":   "789:456:00000000123",
		"operations":          "CANCEL,CAPTURE,REFUND",
		"originalReference":   "",
		"paymentMethod":       "visa",
		"pspReference":        "7914120802434172",
		"reason":              "32853:1111:6/2016",
		"success":             "true",
		"value":               "21714",
	}
}

func TestNotificationSchemaValid(t *testing.T) {
	validated, err := NotificationSchema.Validate(validNotificationFields())
	require.NoError(t, err)
	assert.Equal(t, "7914120802434172", validated.Get("pspReference"))
}

func TestNotificationSchemaMissingRequired(t *testing.T) {
	fields := validNotificationFields()
	delete(fields, "pspReference")

	_, err := NotificationSchema.Validate(fields)
	require.Error(t, err)
	assert.True(t, errors.IsMissingField(err))
}

func TestNotificationSchemaEmptyRequired(t *testing.T) {
	fields := validNotificationFields()
	fields["reason"] = ""

	_, err := NotificationSchema.Validate(fields)
	require.Error(t, err)
	assert.True(t, errors.IsMissingField(err))
}

func TestNotificationSchemaUnexpectedField(t *testing.T) {
	fields := validNotificationFields()
	fields["unknownField"] = "whatever"

	_, err := NotificationSchema.Validate(fields)
	require.Error(t, err)
	assert.True(t, errors.IsUnexpectedField(err))
}

func TestNotificationSchemaStripsVendorData(t *testing.T) {
	fields := validNotificationFields()
	fields["additionalData.cardSummary"] = "1111"
	fields["additionalData.expiryDate"] = "6/2016"
	fields["openinvoicedata.line1.itemAmount"] = "100"

	validated, err := NotificationSchema.Validate(fields)
	require.NoError(t, err)
	assert.False(t, validated.Has("additionalData.cardSummary"))
	assert.False(t, validated.Has("openinvoicedata.line1.itemAmount"))

	// The input map is left untouched.
	assert.True(t, fields.Has("additionalData.cardSummary"))
}

func TestRedirectSchemaRequiresSignature(t *testing.T) {
	fields := Fields{
		"authResult":        "AUTHORISED",
		"merchantReference": "00000000123",
		"shopperLocale":     "en_GB",
		"skinCode":          "4d72uQqA",
	}

	_, err := RedirectSchema.Validate(fields)
	require.Error(t, err)
	assert.True(t, errors.IsMissingField(err))
}

func TestPaymentFormSchemaAllowsInvoiceLines(t *testing.T) {
	fields := Fields{
		"merchantAccount":                  "OscaroFR",
		"merchantReference":                "00000000123",
		"shopperReference":                 "789",
		"shopperEmail":                     "test@example.com",
		"currencyCode":                     "EUR",
		"paymentAmount":                    "123",
		"sessionValidity":                  "2014-07-31T17:20:00Z",
		"shipBeforeDate":                   "2014-08-30",
		"openinvoicedata.numberOfLines":    "1",
		"openinvoicedata.line1.itemAmount": "123",
	}

	_, err := PaymentFormSchema.Validate(fields)
	assert.NoError(t, err)
}
