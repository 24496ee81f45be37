package protocol

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paygate/pkg/errors"
)

func authorisedRedirectFields() Fields {
	return Fields{
		"authResult":         "AUTHORISED",
		"merchantReference":  "WVubjVRFOTPBsLNy33zqliF-vmc:109:00000109",
		"merchantReturnData": "13894",
		"merchantSig":        "99Y+9EiSuT6W4rd/M3zg/wwwRjw=",
		"paymentMethod":      "visa",
		"pspReference":       "8814136447235922",
		"shopperLocale":      "en_GB",
		"skinCode":           "4d72uQqA",
	}
}

func TestProcessRedirectAuthorised(t *testing.T) {
	signer := NewHMACSha1("oscaroscaroscaro")

	outcome, err := ProcessRedirect(signer, authorisedRedirectFields())
	require.NoError(t, err)

	assert.True(t, outcome.Accepted)
	assert.Equal(t, "AUTHORISED", outcome.Status)
	assert.Equal(t, "8814136447235922", outcome.Fields.Get("pspReference"))
}

func TestProcessRedirectError(t *testing.T) {
	signer := NewHMACSha1("oscaroscaroscaro")

	fields := Fields{
		"authResult":         "ERROR",
		"merchantReference":  "09016057",
		"merchantReturnData": "29232",
		"merchantSig":        "Y2lpKZPCOpK7WAlCVSgUQcJ9+xQ=",
		"paymentMethod":      "visa",
		"shopperLocale":      "fr",
		"skinCode":           "4d72uQqA",
	}

	outcome, err := ProcessRedirect(signer, fields)
	require.NoError(t, err)

	assert.False(t, outcome.Accepted)
	assert.Equal(t, "ERROR", outcome.Status)
}

func TestProcessRedirectTamperedSignature(t *testing.T) {
	signer := NewHMACSha1("oscaroscaroscaro")

	fields := authorisedRedirectFields()
	fields["authResult"] = "REFUSED"

	_, err := ProcessRedirect(signer, fields)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidTransaction(err))
}

func TestProcessRedirectMissingSignature(t *testing.T) {
	signer := NewHMACSha1("oscaroscaroscaro")

	fields := authorisedRedirectFields()
	delete(fields, "merchantSig")

	_, err := ProcessRedirect(signer, fields)
	require.Error(t, err)
	assert.True(t, errors.IsMissingField(err))
}

func TestProcessRedirectUnexpectedField(t *testing.T) {
	signer := NewHMACSha1("oscaroscaroscaro")

	fields := authorisedRedirectFields()
	fields["injected"] = "value"

	_, err := ProcessRedirect(signer, fields)
	require.Error(t, err)
	assert.True(t, errors.IsUnexpectedField(err))
}

func TestProcessNotificationAuthorised(t *testing.T) {
	outcome, err := ProcessNotification(validNotificationFields())
	require.NoError(t, err)

	assert.True(t, outcome.Accepted)
	assert.Equal(t, "AUTHORISED", outcome.Status)
}

func TestProcessNotificationRefused(t *testing.T) {
	fields := validNotificationFields()
	fields["success"] = "false"

	outcome, err := ProcessNotification(fields)
	require.NoError(t, err)

	assert.False(t, outcome.Accepted)
	assert.Equal(t, "REFUSED", outcome.Status)
}

func TestProcessNotificationWithVendorData(t *testing.T) {
	fields := validNotificationFields()
	fields["additionalData.cardSummary"] = "1111"

	outcome, err := ProcessNotification(fields)
	require.NoError(t, err)
	assert.False(t, outcome.Fields.Has("additionalData.cardSummary"))
}

func TestFieldsFromValues(t *testing.T) {
	values := url.Values{}
	values.Set("authResult", "AUTHORISED")
	values.Add("paymentMethod", "visa")
	values.Add("paymentMethod", "mc")

	fields := FieldsFromValues(values)
	assert.Equal(t, "AUTHORISED", fields.Get("authResult"))
	assert.Equal(t, "visa", fields.Get("paymentMethod"))
}
