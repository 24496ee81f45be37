package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sha256TestSecret = "4468D9782DEF54FCD706C9100C71EC43932B1EBC2ACF6BA0560C05AAA7550C48"

func TestHMACSha256Sign(t *testing.T) {
	signer, err := NewHMACSha256(sha256TestSecret)
	require.NoError(t, err)

	fields := Fields{
		"merchantAccount":   "TestMerchant",
		"currencyCode":      "EUR",
		"paymentAmount":     "199",
		"sessionValidity":   "2015-06-25T10:31:06Z",
		"shipBeforeDate":    "2015-07-01",
		"shopperLocale":     "en_GB",
		"merchantReference": "SKINTEST-1435226439255",
		"skinCode":          "X7hsNDWp",
	}

	result := signer.Sign(fields)

	require.Contains(t, result, "merchantSig")
	assert.Equal(t, "GJ1asjR5VmkvihDJxCd8yE2DGYOKwWwJCBiV3R51NFg=", result["merchantSig"])
}

func TestHMACSha256VerifyResult(t *testing.T) {
	signer, err := NewHMACSha256(sha256TestSecret)
	require.NoError(t, err)

	fields := Fields{
		"authResult":         "AUTHORISED",
		"merchantReference":  "SKINTEST-test",
		"merchantReturnData": "YourMerchantReturnData",
		"paymentMethod":      "visa",
		"pspReference":       "7914447419663319",
		"shopperLocale":      "en_GB",
		"skinCode":           "314lwMhy",
		"merchantSig":        "H8hU6s0b12EOAQo0hAZHno8tc7DhIv4r1WF/jjLZUqE=",
	}

	assert.True(t, signer.VerifyResult(fields))

	fields["authResult"] = "REFUSED"
	assert.False(t, signer.VerifyResult(fields))
}

func TestHMACSha256ComputeHash(t *testing.T) {
	signer, err := NewHMACSha256(sha256TestSecret)
	require.NoError(t, err)

	signingString := "authResult:merchantReference:merchantReturnData:paymentMethod:" +
		"pspReference:shopperLocale:skinCode:AUTHORISED:SKINTEST-test:" +
		"YourMerchantReturnData:visa:7914447419663319:en_GB:314lwMhy"

	assert.Equal(t, "H8hU6s0b12EOAQo0hAZHno8tc7DhIv4r1WF/jjLZUqE=", signer.ComputeHash(signingString))
}

func TestBuildSigningString(t *testing.T) {
	fields := Fields{
		"authResult":        "AUTHORISED",
		"merchantSig":       "should-be-excluded",
		"sig":               "also-excluded",
		"ignore.something":  "excluded-too",
		"merchantReference": "ref-1",
	}

	got := BuildSigningString(fields)
	assert.Equal(t, "authResult:merchantReference:AUTHORISED:ref-1", got)
}

func TestBuildSigningStringEscapesSeparators(t *testing.T) {
	fields := Fields{
		"merchantReference": "a:b",
		"reason":            `back\slash`,
	}

	got := BuildSigningString(fields)
	assert.Equal(t, `merchantReference:reason:a\:b:back\\slash`, got)
}

func TestNewHMACSha256RejectsNonHexSecret(t *testing.T) {
	_, err := NewHMACSha256("not-hex-material")
	require.Error(t, err)
}
