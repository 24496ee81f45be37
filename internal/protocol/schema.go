package protocol

import (
	"paygate/internal/constants"
	"paygate/pkg/errors"
)

// Schema is the immutable field whitelist of one message type. It is
// defined once at startup and drives both presence validation and, for
// the legacy signer, signing-string construction.
type Schema struct {
	Required []string
	Optional []string

	// AllowedPrefixes lists prefixes of fields that are accepted
	// without enumeration, such as numbered open-invoice lines.
	AllowedPrefixes []string

	// StripPrefixes lists vendor prefixes whose fields are dropped
	// from the working copy before validation. The PSP attaches
	// volatile diagnostic sub-fields this integration does not
	// consume.
	StripPrefixes []string
}

// Validate checks fields against the schema and returns the working
// copy, with any StripPrefixes fields removed. The input map is never
// mutated.
func (s Schema) Validate(fields Fields) (Fields, error) {
	working := fields
	if len(s.StripPrefixes) > 0 {
		working = make(Fields, len(fields))
		for name, value := range fields {
			if hasAnyPrefix(name, s.StripPrefixes) {
				continue
			}
			working[name] = value
		}
	}

	for _, name := range s.Required {
		if working.Get(name) == "" {
			return nil, errors.ErrMissingField.
				WithMessage("the %s field is missing", name).
				WithDetail("field", name)
		}
	}

	expected := make(map[string]struct{}, len(s.Required)+len(s.Optional))
	for _, name := range s.Required {
		expected[name] = struct{}{}
	}
	for _, name := range s.Optional {
		expected[name] = struct{}{}
	}

	for name := range working {
		if _, ok := expected[name]; ok {
			continue
		}
		if hasAnyPrefix(name, s.AllowedPrefixes) {
			continue
		}
		return nil, errors.ErrUnexpectedField.
			WithMessage("the %s field is unexpected", name).
			WithDetail("field", name)
	}

	return working, nil
}

// PaymentFormSchema validates the outbound payment-request form.
var PaymentFormSchema = Schema{
	Required: []string{
		constants.FieldMerchantAccount,
		constants.FieldMerchantReference,
		constants.FieldShopperReference,
		constants.FieldShopperEmail,
		constants.FieldCurrencyCode,
		constants.FieldPaymentAmount,
		constants.FieldSessionValidity,
		constants.FieldShipBeforeDate,
	},
	Optional: []string{
		constants.FieldMerchantSig,
		constants.FieldSkinCode,
		constants.FieldRecurringContract,
		constants.FieldAllowedMethods,
		constants.FieldBlockedMethods,
		constants.FieldShopperStatement,
		constants.FieldShopperLocale,
		constants.FieldCountryCode,
		constants.FieldMerchantReturnURL,
		constants.FieldMerchantReturnData,
		constants.FieldBillingAddressType,
		constants.FieldDeliveryAddressType,
		constants.FieldShopperType,
		constants.FieldOffset,

		constants.FieldDeliveryStreet,
		constants.FieldDeliveryNumber,
		constants.FieldDeliveryCity,
		constants.FieldDeliveryPostcode,
		constants.FieldDeliveryState,
		constants.FieldDeliveryCountry,

		constants.FieldBillingStreet,
		constants.FieldBillingNumber,
		constants.FieldBillingCity,
		constants.FieldBillingPostcode,
		constants.FieldBillingState,
		constants.FieldBillingCountry,

		constants.FieldShopperFirstName,
		constants.FieldShopperInfix,
		constants.FieldShopperLastName,
		constants.FieldShopperGender,
		constants.FieldShopperBirthDay,
		constants.FieldShopperBirthMonth,
		constants.FieldShopperBirthYear,
		constants.FieldShopperPhone,

		constants.FieldDeliverySig,
		constants.FieldBillingSig,
		constants.FieldShopperSig,
	},
	AllowedPrefixes: []string{constants.OpenInvoicePrefix},
}

// RedirectSchema validates the browser return from the HPP.
var RedirectSchema = Schema{
	Required: []string{
		constants.FieldAuthResult,
		constants.FieldMerchantReference,
		constants.FieldMerchantSig,
		constants.FieldShopperLocale,
		constants.FieldSkinCode,
	},
	Optional: []string{
		constants.FieldMerchantReturnData,
		constants.FieldPaymentMethod,
		constants.FieldPSPReference,
	},
}

// NotificationSchema validates server-to-server payment notifications.
var NotificationSchema = Schema{
	Required: []string{
		constants.FieldCurrency,
		constants.FieldEventCode,
		constants.FieldEventDate,
		constants.FieldLive,
		constants.FieldMerchantAccountCode,
		constants.FieldMerchantReference,
		constants.FieldPaymentMethod,
		constants.FieldPSPReference,
		constants.FieldReason,
		constants.FieldSuccess,
		constants.FieldValue,
	},
	Optional: []string{
		constants.FieldOperations,
		constants.FieldOriginalReference,
	},
	StripPrefixes: []string{
		constants.AdditionalDataPrefix,
		constants.OpenInvoicePrefix,
	},
}
