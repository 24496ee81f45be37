package constants

import "time"

// Identity and session field names.
const (
	FieldMerchantAccount     = "merchantAccount"
	FieldMerchantAccountCode = "merchantAccountCode"
	FieldMerchantReference   = "merchantReference"
	FieldMerchantReturnData  = "merchantReturnData"
	FieldMerchantReturnURL   = "resURL"
	FieldSkinCode            = "skinCode"
	FieldSessionValidity     = "sessionValidity"
	FieldShipBeforeDate      = "shipBeforeDate"
)

// Payment field names.
const (
	FieldPaymentAmount     = "paymentAmount"
	FieldPaymentMethod     = "paymentMethod"
	FieldCurrencyCode      = "currencyCode"
	FieldCurrency          = "currency"
	FieldValue             = "value"
	FieldAllowedMethods    = "allowedMethods"
	FieldBlockedMethods    = "blockedMethods"
	FieldRecurringContract = "recurringContract"
	FieldCountryCode       = "countryCode"
	FieldOffset            = "offset"
)

// Shopper field names.
const (
	FieldShopperEmail     = "shopperEmail"
	FieldShopperLocale    = "shopperLocale"
	FieldShopperReference = "shopperReference"
	FieldShopperStatement = "shopperStatement"
	FieldShopperType      = "shopperType"

	FieldShopperFirstName  = "shopper.firstName"
	FieldShopperInfix      = "shopper.infix"
	FieldShopperLastName   = "shopper.lastName"
	FieldShopperGender     = "shopper.gender"
	FieldShopperBirthDay   = "shopper.dateOfBirthDayOfMonth"
	FieldShopperBirthMonth = "shopper.dateOfBirthMonth"
	FieldShopperBirthYear  = "shopper.dateOfBirthYear"
	FieldShopperPhone      = "shopper.telephoneNumber"
)

// Delivery address field names.
const (
	FieldDeliveryAddressType = "deliveryAddressType"
	FieldDeliveryStreet      = "deliveryAddress.street"
	FieldDeliveryNumber      = "deliveryAddress.houseNumberOrName"
	FieldDeliveryCity        = "deliveryAddress.city"
	FieldDeliveryPostcode    = "deliveryAddress.postalCode"
	FieldDeliveryState       = "deliveryAddress.stateOrProvince"
	FieldDeliveryCountry     = "deliveryAddress.country"
)

// Billing address field names.
const (
	FieldBillingAddressType = "billingAddressType"
	FieldBillingStreet      = "billingAddress.street"
	FieldBillingNumber      = "billingAddress.houseNumberOrName"
	FieldBillingCity        = "billingAddress.city"
	FieldBillingPostcode    = "billingAddress.postalCode"
	FieldBillingState       = "billingAddress.stateOrProvince"
	FieldBillingCountry     = "billingAddress.country"
)

// Signature field names.
const (
	FieldMerchantSig = "merchantSig"
	FieldDeliverySig = "deliveryAddressSig"
	FieldBillingSig  = "billingAddressSig"
	FieldShopperSig  = "shopperSig"
)

// Open invoice field names. Line fields are numbered from 1, e.g.
// "openinvoicedata.line1.itemAmount".
const (
	FieldInvoiceNumLines          = "openinvoicedata.numberOfLines"
	FieldInvoiceLineCurrency      = "openinvoicedata.line%d.currencyCode"
	FieldInvoiceLineDescription   = "openinvoicedata.line%d.description"
	FieldInvoiceLineItemAmount    = "openinvoicedata.line%d.itemAmount"
	FieldInvoiceLineItemVATAmount = "openinvoicedata.line%d.itemVatAmount"
	FieldInvoiceLineVATPercentage = "openinvoicedata.line%d.itemVatPercentage"
	FieldInvoiceLineReference     = "openinvoicedata.line%d.lineReference"
	FieldInvoiceLineNumberOfItems = "openinvoicedata.line%d.numberOfItems"
	FieldInvoiceLineVATCategory   = "openinvoicedata.line%d.vatCategory"
)

// Notification field names.
const (
	FieldEventCode         = "eventCode"
	FieldEventDate         = "eventDate"
	FieldLive              = "live"
	FieldPSPReference      = "pspReference"
	FieldOriginalReference = "originalReference"
	FieldOperations        = "operations"
	FieldReason            = "reason"
	FieldSuccess           = "success"
	FieldAuthResult        = "authResult"
)

// Event codes.
const (
	EventCodeAuthorisation = "AUTHORISATION"
)

// Payment result statuses.
const (
	ResultAuthorised = "AUTHORISED"
	ResultRefused    = "REFUSED"
	ResultCancelled  = "CANCELLED"
	ResultPending    = "PENDING"
	ResultError      = "ERROR"
)

// Protocol literals.
const (
	ValueTrue  = "true"
	ValueFalse = "false"

	// AcceptedNotification is the exact acknowledgement body the PSP
	// expects, brackets included.
	AcceptedNotification = "[accepted]"

	// ReferenceSeparator splits the composite merchant reference.
	ReferenceSeparator = ":"

	// SignatureSeparator joins keys and values in the SHA-256 signing
	// string.
	SignatureSeparator = ":"

	// TestReferenceMarker flags debug notifications the PSP may send
	// even to live systems.
	TestReferenceMarker = "test_AUTHORISATION"

	// TestPlatformMarker appears in the hostname of the provider's
	// test environment.
	TestPlatformMarker = "test"

	// ProviderCode identifies this payment provider in feedback data.
	ProviderCode = "adyen"
)

// Vendor field prefixes stripped from notifications before validation.
const (
	AdditionalDataPrefix = "additionalData."
	OpenInvoicePrefix    = "openinvoicedata."
	IgnorePrefix         = "ignore."
)

// Payment form time windows and formats.
const (
	SessionValidityWindow = 20 * time.Minute
	ShipBeforeWindow      = 30 * 24 * time.Hour

	SessionValidityFormat = "2006-01-02T15:04:05Z"
	ShipBeforeDateFormat  = "2006-01-02"
)

// Cache key prefixes.
const (
	CacheKeyPrefixClaim = "pspclaim:"
)

// Kafka producer tuning.
const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 10 * time.Second
)

const (
	ShutdownTimeout = 5 * time.Second
)
