package protocol

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paygate/pkg/errors"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func testFormRequest(t *testing.T) *FormRequest {
	t.Helper()
	form, err := NewFormRequest("OscaroFR", "cqQJKZpg", NewHMACSha1("oscaroscaroscaro"))
	require.NoError(t, err)
	form.Clock = fixedClock{now: time.Date(2014, 7, 31, 17, 0, 0, 0, time.UTC)}
	return form
}

func testOrder() Order {
	return Order{
		OrderNumber:      "00000000123",
		Amount:           123,
		Currency:         "EUR",
		ShopperReference: "789",
		ShopperEmail:     "test@example.com",
		ShopperLocale:    "fr",
		CountryCode:      "fr",
		ReturnURL:        "https://www.example.com/checkout/return/adyen/",
		ReturnData:       "123",
	}
}

func fieldMap(fields []FormField) Fields {
	m := Fields{}
	for _, f := range fields {
		m[f.Name] = f.Value
	}
	return m
}

func TestFormRequestBuild(t *testing.T) {
	form := testFormRequest(t)

	fields, err := form.Build(testOrder())
	require.NoError(t, err)

	m := fieldMap(fields)
	assert.Equal(t, "OscaroFR", m.Get("merchantAccount"))
	assert.Equal(t, "00000000123", m.Get("merchantReference"))
	assert.Equal(t, "123", m.Get("paymentAmount"))
	assert.Equal(t, "EUR", m.Get("currencyCode"))
	assert.Equal(t, "2014-07-31T17:20:00Z", m.Get("sessionValidity"))
	assert.Equal(t, "2014-08-30", m.Get("shipBeforeDate"))

	// The signature matches the documented vector for these exact
	// field values.
	assert.Equal(t, "kKvzRvx7wiPLrl8t8+owcmMuJZM=", m.Get("merchantSig"))

	for _, f := range fields {
		assert.Equal(t, "hidden", f.Type)
	}
}

func TestFormRequestBuildSignatureLast(t *testing.T) {
	form := testFormRequest(t)

	fields, err := form.Build(testOrder())
	require.NoError(t, err)

	assert.Equal(t, "merchantSig", fields[len(fields)-1].Name)
}

func TestFormRequestBuildMissingMandatory(t *testing.T) {
	form := testFormRequest(t)

	tests := []struct {
		name   string
		mutate func(*Order)
	}{
		{"order number", func(o *Order) { o.OrderNumber = "" }},
		{"amount", func(o *Order) { o.Amount = 0 }},
		{"currency", func(o *Order) { o.Currency = "" }},
		{"shopper reference", func(o *Order) { o.ShopperReference = "" }},
		{"shopper email", func(o *Order) { o.ShopperEmail = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := testOrder()
			tt.mutate(&order)

			_, err := form.Build(order)
			require.Error(t, err)
			assert.True(t, errors.IsMissingField(err))
		})
	}
}

func TestFormRequestBuildSanitizesValues(t *testing.T) {
	form := testFormRequest(t)

	order := testOrder()
	order.ShopperStatement = "  statement\r\nwith breaks  "

	fields, err := form.Build(order)
	require.NoError(t, err)

	m := fieldMap(fields)
	assert.Equal(t, "statementwith breaks", m.Get("shopperStatement"))
}

func TestFormRequestBuildShopperBlock(t *testing.T) {
	form := testFormRequest(t)

	order := testOrder()
	order.Shopper = &Shopper{
		Type:      "2",
		FirstName: "First Name",
		LastName:  "Last Name",
	}

	fields, err := form.Build(order)
	require.NoError(t, err)

	m := fieldMap(fields)
	assert.Equal(t, "First Name", m.Get("shopper.firstName"))
	assert.True(t, m.Has("shopperSig"))
	assert.Equal(t, "CQoNDSMwBbcKAzVgyJqdEWvKDBI=", m.Get("shopperSig"))
}

func TestFormRequestBuildInvoiceLines(t *testing.T) {
	form := testFormRequest(t)

	order := testOrder()
	order.InvoiceLines = []InvoiceLine{
		{
			Currency:      "EUR",
			Description:   "Brake pads",
			ItemAmount:    100,
			ItemVATAmount: 21,
			VATPercentage: 2100,
			NumberOfItems: 1,
			VATCategory:   "High",
		},
		{
			Currency:      "EUR",
			Description:   "Shipping",
			ItemAmount:    500,
			ItemVATAmount: 0,
			VATPercentage: 0,
			NumberOfItems: 1,
		},
	}

	fields, err := form.Build(order)
	require.NoError(t, err)

	m := fieldMap(fields)
	assert.Equal(t, "2", m.Get("openinvoicedata.numberOfLines"))
	assert.Equal(t, "Brake pads", m.Get("openinvoicedata.line1.description"))
	assert.Equal(t, "500", m.Get("openinvoicedata.line2.itemAmount"))
}

func TestFormRequestAllowedMethodsFallback(t *testing.T) {
	form := testFormRequest(t)
	form.AllowedMethods = []string{"card", "ideal"}

	fields, err := form.Build(testOrder())
	require.NoError(t, err)
	assert.Equal(t, "card,ideal", fieldMap(fields).Get("allowedMethods"))

	order := testOrder()
	order.AllowedMethods = []string{"paypal"}
	fields, err = form.Build(order)
	require.NoError(t, err)
	assert.Equal(t, "paypal", fieldMap(fields).Get("allowedMethods"))
}

func TestNewFormRequestValidation(t *testing.T) {
	_, err := NewFormRequest("", "skin", NewHMACSha1("secret"))
	assert.True(t, errors.IsMissingParameter(err))

	_, err = NewFormRequest("account", "skin", nil)
	assert.True(t, errors.IsMissingParameter(err))
}
