package protocol

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"strings"

	"paygate/internal/constants"
)

// paymentFormHashKeys is the exact value order over which the legacy
// merchantSig is computed. Reordering any entry changes the signature.
var paymentFormHashKeys = []string{
	constants.FieldPaymentAmount,
	constants.FieldCurrencyCode,
	constants.FieldShipBeforeDate,
	constants.FieldMerchantReference,
	constants.FieldSkinCode,
	constants.FieldMerchantAccount,
	constants.FieldSessionValidity,
	constants.FieldShopperEmail,
	constants.FieldShopperReference,
	constants.FieldRecurringContract,
	constants.FieldAllowedMethods,
	constants.FieldBlockedMethods,
	constants.FieldShopperStatement,
	constants.FieldMerchantReturnData,
	constants.FieldBillingAddressType,
	constants.FieldDeliveryAddressType,
	constants.FieldShopperType,
	constants.FieldOffset,
}

var deliveryHashKeys = []string{
	constants.FieldDeliveryStreet,
	constants.FieldDeliveryNumber,
	constants.FieldDeliveryCity,
	constants.FieldDeliveryPostcode,
	constants.FieldDeliveryState,
	constants.FieldDeliveryCountry,
}

var billingHashKeys = []string{
	constants.FieldBillingStreet,
	constants.FieldBillingNumber,
	constants.FieldBillingCity,
	constants.FieldBillingPostcode,
	constants.FieldBillingState,
	constants.FieldBillingCountry,
}

var shopperHashKeys = []string{
	constants.FieldShopperFirstName,
	constants.FieldShopperInfix,
	constants.FieldShopperLastName,
	constants.FieldShopperGender,
	constants.FieldShopperBirthDay,
	constants.FieldShopperBirthMonth,
	constants.FieldShopperBirthYear,
	constants.FieldShopperPhone,
}

// paymentReturnHashKeys is the value order over which the merchantSig
// of a browser redirect is verified.
var paymentReturnHashKeys = []string{
	constants.FieldAuthResult,
	constants.FieldPSPReference,
	constants.FieldMerchantReference,
	constants.FieldSkinCode,
	constants.FieldMerchantReturnData,
}

// HMACSha1 implements the deprecated signature scheme. The signing
// string is a plain concatenation of field values in a fixed key
// order, with missing fields contributing an empty string, and the
// skin secret is used as raw UTF-8 key material.
type HMACSha1 struct {
	secret []byte
}

func NewHMACSha1(secret string) *HMACSha1 {
	return &HMACSha1{secret: []byte(secret)}
}

// Sign computes merchantSig over the payment-form key order, plus a
// sub-signature for each optional data block that has at least one
// field set. The shopper block is also signed when shopperType alone
// is present.
func (s *HMACSha1) Sign(fields Fields) Fields {
	signed := Fields{
		constants.FieldMerchantSig: s.ComputeHash(concatValues(fields, paymentFormHashKeys)),
	}

	if hasAnyKey(fields, deliveryHashKeys) {
		signed[constants.FieldDeliverySig] = s.ComputeHash(concatValues(fields, deliveryHashKeys))
	}
	if hasAnyKey(fields, billingHashKeys) {
		signed[constants.FieldBillingSig] = s.ComputeHash(concatValues(fields, billingHashKeys))
	}
	if hasAnyKey(fields, shopperHashKeys) || fields.Has(constants.FieldShopperType) {
		signed[constants.FieldShopperSig] = s.ComputeHash(concatValues(fields, shopperHashKeys))
	}

	return signed
}

// VerifyResult checks the merchantSig of a payment return against the
// redirect key order. Sub-signatures are not verified, the PSP does
// not echo them back.
func (s *HMACSha1) VerifyResult(fields Fields) bool {
	given, ok := fields[constants.FieldMerchantSig]
	if !ok {
		return true
	}
	expected := s.ComputeHash(concatValues(fields, paymentReturnHashKeys))
	return hmac.Equal([]byte(given), []byte(expected))
}

func (s *HMACSha1) ComputeHash(signingString string) string {
	mac := hmac.New(sha1.New, s.secret)
	mac.Write([]byte(signingString))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func concatValues(fields Fields, keys []string) string {
	var b strings.Builder
	for _, key := range keys {
		b.WriteString(fields[key])
	}
	return b.String()
}

func hasAnyKey(fields Fields, keys []string) bool {
	for _, key := range keys {
		if fields.Has(key) {
			return true
		}
	}
	return false
}
