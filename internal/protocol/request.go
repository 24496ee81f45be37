package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"paygate/internal/constants"
	"paygate/pkg/errors"
)

// FormRequest builds the signed hidden-field set of a hosted payment
// page form for one merchant account and skin.
type FormRequest struct {
	// Identifier is the merchant account name registered at the PSP.
	Identifier string

	SkinCode string

	// AllowedMethods restricts payment methods when the order does
	// not carry its own restriction.
	AllowedMethods []string

	Signer Signer
	Clock  Clock
}

// NewFormRequest wires a form builder. The signer is mandatory, the
// clock defaults to the system clock.
func NewFormRequest(identifier, skinCode string, signer Signer) (*FormRequest, error) {
	if identifier == "" {
		return nil, errors.ErrMissingParameter.
			WithMessage("the merchant account identifier is missing")
	}
	if signer == nil {
		return nil, errors.ErrMissingParameter.
			WithMessage("the signer is missing")
	}
	return &FormRequest{
		Identifier: identifier,
		SkinCode:   skinCode,
		Signer:     signer,
		Clock:      SystemClock{},
	}, nil
}

// Build turns an order into the complete, signed list of hidden form
// fields, in a stable emission order with the signature fields last.
// Values are sanitized before signing so the signed bytes are exactly
// the bytes the browser will post.
func (r *FormRequest) Build(order Order) ([]FormField, error) {
	if err := r.checkOrder(order); err != nil {
		return nil, err
	}

	now := r.Clock.Now()

	b := newFormBuilder()
	b.add(constants.FieldMerchantAccount, r.Identifier)
	b.add(constants.FieldMerchantReference, order.OrderNumber)
	b.add(constants.FieldSkinCode, r.SkinCode)
	b.add(constants.FieldPaymentAmount, strconv.FormatInt(order.Amount, 10))
	b.add(constants.FieldCurrencyCode, order.Currency)
	b.add(constants.FieldSessionValidity,
		now.Add(constants.SessionValidityWindow).Format(constants.SessionValidityFormat))
	b.add(constants.FieldShipBeforeDate,
		now.Add(constants.ShipBeforeWindow).Format(constants.ShipBeforeDateFormat))

	b.add(constants.FieldShopperReference, order.ShopperReference)
	b.add(constants.FieldShopperEmail, order.ShopperEmail)
	b.add(constants.FieldShopperLocale, order.ShopperLocale)
	b.add(constants.FieldShopperStatement, order.ShopperStatement)
	b.add(constants.FieldCountryCode, order.CountryCode)

	b.add(constants.FieldMerchantReturnURL, order.ReturnURL)
	b.add(constants.FieldMerchantReturnData, order.ReturnData)
	b.add(constants.FieldRecurringContract, order.RecurringContract)

	allowed := order.AllowedMethods
	if len(allowed) == 0 {
		allowed = r.AllowedMethods
	}
	b.add(constants.FieldAllowedMethods, strings.Join(allowed, ","))
	b.add(constants.FieldBlockedMethods, strings.Join(order.BlockedMethods, ","))

	if order.Delivery != nil {
		b.add(constants.FieldDeliveryAddressType, order.Delivery.Type)
		b.add(constants.FieldDeliveryStreet, order.Delivery.Street)
		b.add(constants.FieldDeliveryNumber, order.Delivery.HouseNumberOrName)
		b.add(constants.FieldDeliveryCity, order.Delivery.City)
		b.add(constants.FieldDeliveryPostcode, order.Delivery.PostalCode)
		b.add(constants.FieldDeliveryState, order.Delivery.StateOrProvince)
		b.add(constants.FieldDeliveryCountry, order.Delivery.Country)
	}

	if order.Billing != nil {
		b.add(constants.FieldBillingAddressType, order.Billing.Type)
		b.add(constants.FieldBillingStreet, order.Billing.Street)
		b.add(constants.FieldBillingNumber, order.Billing.HouseNumberOrName)
		b.add(constants.FieldBillingCity, order.Billing.City)
		b.add(constants.FieldBillingPostcode, order.Billing.PostalCode)
		b.add(constants.FieldBillingState, order.Billing.StateOrProvince)
		b.add(constants.FieldBillingCountry, order.Billing.Country)
	}

	if order.Shopper != nil {
		b.add(constants.FieldShopperType, order.Shopper.Type)
		b.add(constants.FieldShopperFirstName, order.Shopper.FirstName)
		b.add(constants.FieldShopperInfix, order.Shopper.Infix)
		b.add(constants.FieldShopperLastName, order.Shopper.LastName)
		b.add(constants.FieldShopperGender, order.Shopper.Gender)
		b.add(constants.FieldShopperBirthDay, order.Shopper.BirthDay)
		b.add(constants.FieldShopperBirthMonth, order.Shopper.BirthMonth)
		b.add(constants.FieldShopperBirthYear, order.Shopper.BirthYear)
		b.add(constants.FieldShopperPhone, order.Shopper.TelephoneNumber)
	}

	if len(order.InvoiceLines) > 0 {
		b.add(constants.FieldInvoiceNumLines, strconv.Itoa(len(order.InvoiceLines)))
		for i, line := range order.InvoiceLines {
			n := i + 1
			b.add(fmt.Sprintf(constants.FieldInvoiceLineCurrency, n), line.Currency)
			b.add(fmt.Sprintf(constants.FieldInvoiceLineDescription, n), line.Description)
			b.add(fmt.Sprintf(constants.FieldInvoiceLineItemAmount, n), strconv.FormatInt(line.ItemAmount, 10))
			b.add(fmt.Sprintf(constants.FieldInvoiceLineItemVATAmount, n), strconv.FormatInt(line.ItemVATAmount, 10))
			b.add(fmt.Sprintf(constants.FieldInvoiceLineVATPercentage, n), strconv.FormatInt(line.VATPercentage, 10))
			b.add(fmt.Sprintf(constants.FieldInvoiceLineReference, n), line.LineReference)
			b.add(fmt.Sprintf(constants.FieldInvoiceLineNumberOfItems, n), strconv.Itoa(line.NumberOfItems))
			b.add(fmt.Sprintf(constants.FieldInvoiceLineVATCategory, n), line.VATCategory)
		}
	}

	fields, err := PaymentFormSchema.Validate(b.fields())
	if err != nil {
		return nil, err
	}

	signed := r.Signer.Sign(fields)
	for _, name := range []string{
		constants.FieldMerchantSig,
		constants.FieldDeliverySig,
		constants.FieldBillingSig,
		constants.FieldShopperSig,
	} {
		b.add(name, signed[name])
	}

	return b.formFields(), nil
}

func (r *FormRequest) checkOrder(order Order) error {
	switch {
	case order.OrderNumber == "":
		return errors.ErrMissingField.
			WithMessage("the order number is missing")
	case order.Amount <= 0:
		return errors.ErrMissingField.
			WithMessage("the payment amount is missing")
	case order.Currency == "":
		return errors.ErrMissingField.
			WithMessage("the currency code is missing")
	case order.ShopperReference == "":
		return errors.ErrMissingField.
			WithMessage("the shopper reference is missing")
	case order.ShopperEmail == "":
		return errors.ErrMissingField.
			WithMessage("the shopper email is missing")
	}
	return nil
}

// formBuilder keeps field insertion order so the emitted form is
// stable across requests. Empty values are dropped, they would change
// legacy signatures without carrying information.
type formBuilder struct {
	names  []string
	values Fields
}

func newFormBuilder() *formBuilder {
	return &formBuilder{values: Fields{}}
}

func (b *formBuilder) add(name, value string) {
	value = SanitizeValue(value)
	if value == "" {
		return
	}
	if !b.values.Has(name) {
		b.names = append(b.names, name)
	}
	b.values[name] = value
}

func (b *formBuilder) fields() Fields {
	return b.values
}

func (b *formBuilder) formFields() []FormField {
	out := make([]FormField, 0, len(b.names))
	for _, name := range b.names {
		out = append(out, FormField{
			Type:  "hidden",
			Name:  name,
			Value: b.values[name],
		})
	}
	return out
}
