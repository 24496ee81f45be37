package protocol

// Order carries everything the merchant side knows about a purchase
// when it asks for a hosted payment page.
type Order struct {
	// OrderNumber becomes the merchant reference shown on the PSP
	// side and echoed back in every result.
	OrderNumber string

	// Amount is the payable amount in minor units.
	Amount   int64
	Currency string

	ShopperReference string
	ShopperEmail     string
	ShopperLocale    string
	ShopperStatement string
	CountryCode      string

	// ReturnURL overrides the skin-configured result URL.
	ReturnURL string

	// ReturnData is an opaque payload echoed back on the redirect.
	ReturnData string

	RecurringContract string
	AllowedMethods    []string
	BlockedMethods    []string

	Delivery *Address
	Billing  *Address
	Shopper  *Shopper

	// InvoiceLines are required by open-invoice payment methods.
	InvoiceLines []InvoiceLine
}

// Address is a delivery or billing address block. Type selects the
// PSP-side editability of the block on the payment page.
type Address struct {
	Type              string
	Street            string
	HouseNumberOrName string
	City              string
	PostalCode        string
	StateOrProvince   string
	Country           string
}

// Shopper is the personal data block open-invoice methods require.
type Shopper struct {
	Type            string
	FirstName       string
	Infix           string
	LastName        string
	Gender          string
	BirthDay        string
	BirthMonth      string
	BirthYear       string
	TelephoneNumber string
}

// InvoiceLine is one order line of an open-invoice payment. Amounts
// are minor units, the VAT percentage is expressed in minor units of
// a percent (2100 is 21%).
type InvoiceLine struct {
	Currency      string
	Description   string
	ItemAmount    int64
	ItemVATAmount int64
	VATPercentage int64
	LineReference string
	NumberOfItems int
	VATCategory   string
}
