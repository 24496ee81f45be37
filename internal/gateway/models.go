package gateway

import (
	"strconv"

	"paygate/internal/protocol"
)

// BuildFormRequest is the merchant-facing payload asking for a signed
// payment page form.
type BuildFormRequest struct {
	OrderNumber      string `json:"order_number" binding:"required"`
	Amount           int64  `json:"amount" binding:"required,gt=0"`
	Currency         string `json:"currency" binding:"required"`
	ShopperReference string `json:"shopper_reference" binding:"required"`
	ShopperEmail     string `json:"shopper_email" binding:"required,email"`

	ShopperLocale    string `json:"shopper_locale,omitempty"`
	ShopperStatement string `json:"shopper_statement,omitempty"`
	CountryCode      string `json:"country_code,omitempty"`
	ReturnURL        string `json:"return_url,omitempty"`
	ReturnData       string `json:"return_data,omitempty"`

	RecurringContract string   `json:"recurring_contract,omitempty"`
	AllowedMethods    []string `json:"allowed_methods,omitempty"`
	BlockedMethods    []string `json:"blocked_methods,omitempty"`

	Delivery *AddressPayload `json:"delivery,omitempty"`
	Billing  *AddressPayload `json:"billing,omitempty"`
	Shopper  *ShopperPayload `json:"shopper,omitempty"`

	InvoiceLines []InvoiceLinePayload `json:"invoice_lines,omitempty"`
}

type AddressPayload struct {
	Type              string `json:"type,omitempty"`
	Street            string `json:"street"`
	HouseNumberOrName string `json:"house_number_or_name,omitempty"`
	City              string `json:"city"`
	PostalCode        string `json:"postal_code"`
	StateOrProvince   string `json:"state_or_province,omitempty"`
	Country           string `json:"country"`
}

type ShopperPayload struct {
	Type            string `json:"type,omitempty"`
	FirstName       string `json:"first_name"`
	Infix           string `json:"infix,omitempty"`
	LastName        string `json:"last_name"`
	Gender          string `json:"gender,omitempty"`
	BirthDay        string `json:"birth_day,omitempty"`
	BirthMonth      string `json:"birth_month,omitempty"`
	BirthYear       string `json:"birth_year,omitempty"`
	TelephoneNumber string `json:"telephone_number,omitempty"`
}

type InvoiceLinePayload struct {
	Currency      string `json:"currency"`
	Description   string `json:"description"`
	ItemAmount    int64  `json:"item_amount"`
	ItemVATAmount int64  `json:"item_vat_amount"`
	VATPercentage int64  `json:"vat_percentage"`
	LineReference string `json:"line_reference,omitempty"`
	NumberOfItems int    `json:"number_of_items"`
	VATCategory   string `json:"vat_category,omitempty"`
}

// ToOrder maps the payload onto the protocol order. The provider does
// not echo the amount back on redirects, so when the caller does not
// claim the return-data slot the amount is stored there.
func (r *BuildFormRequest) ToOrder() protocol.Order {
	order := protocol.Order{
		OrderNumber:       r.OrderNumber,
		Amount:            r.Amount,
		Currency:          r.Currency,
		ShopperReference:  r.ShopperReference,
		ShopperEmail:      r.ShopperEmail,
		ShopperLocale:     r.ShopperLocale,
		ShopperStatement:  r.ShopperStatement,
		CountryCode:       r.CountryCode,
		ReturnURL:         r.ReturnURL,
		ReturnData:        r.ReturnData,
		RecurringContract: r.RecurringContract,
		AllowedMethods:    r.AllowedMethods,
		BlockedMethods:    r.BlockedMethods,
	}

	if order.ReturnData == "" {
		order.ReturnData = strconv.FormatInt(r.Amount, 10)
	}

	if r.Delivery != nil {
		order.Delivery = &protocol.Address{
			Type:              r.Delivery.Type,
			Street:            r.Delivery.Street,
			HouseNumberOrName: r.Delivery.HouseNumberOrName,
			City:              r.Delivery.City,
			PostalCode:        r.Delivery.PostalCode,
			StateOrProvince:   r.Delivery.StateOrProvince,
			Country:           r.Delivery.Country,
		}
	}

	if r.Billing != nil {
		order.Billing = &protocol.Address{
			Type:              r.Billing.Type,
			Street:            r.Billing.Street,
			HouseNumberOrName: r.Billing.HouseNumberOrName,
			City:              r.Billing.City,
			PostalCode:        r.Billing.PostalCode,
			StateOrProvince:   r.Billing.StateOrProvince,
			Country:           r.Billing.Country,
		}
	}

	if r.Shopper != nil {
		order.Shopper = &protocol.Shopper{
			Type:            r.Shopper.Type,
			FirstName:       r.Shopper.FirstName,
			Infix:           r.Shopper.Infix,
			LastName:        r.Shopper.LastName,
			Gender:          r.Shopper.Gender,
			BirthDay:        r.Shopper.BirthDay,
			BirthMonth:      r.Shopper.BirthMonth,
			BirthYear:       r.Shopper.BirthYear,
			TelephoneNumber: r.Shopper.TelephoneNumber,
		}
	}

	for _, line := range r.InvoiceLines {
		order.InvoiceLines = append(order.InvoiceLines, protocol.InvoiceLine{
			Currency:      line.Currency,
			Description:   line.Description,
			ItemAmount:    line.ItemAmount,
			ItemVATAmount: line.ItemVATAmount,
			VATPercentage: line.VATPercentage,
			LineReference: line.LineReference,
			NumberOfItems: line.NumberOfItems,
			VATCategory:   line.VATCategory,
		})
	}

	return order
}

// BuildFormResponse carries the form action and its hidden fields.
type BuildFormResponse struct {
	Action string               `json:"action"`
	Fields []protocol.FormField `json:"fields"`
}
