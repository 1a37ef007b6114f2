package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chronoshop/storefront-client/pkg/shopapi"
)

func validShipping() shopapi.CheckoutData {
	return shopapi.CheckoutData{
		CustomerEmail:        "jane@example.com",
		CustomerFirstName:    "Jane",
		CustomerLastName:     "Doe",
		ShippingAddressLine1: "1 Main St",
		ShippingCity:         "Springfield",
		ShippingState:        "IL",
		ShippingPostalCode:   "62704",
		ShippingCountry:      "United States",
	}
}

func validPayment() shopapi.CheckoutData {
	return shopapi.CheckoutData{
		CardNumber: "4111 1111 1111 1111",
		CardExpiry: "12/2027",
		CardCvc:    "123",
	}
}

func TestValidateShippingPassesOnCompleteData(t *testing.T) {
	assert.Empty(t, ValidateShipping(validShipping()))
}

func TestValidateShippingRequiredFields(t *testing.T) {
	errs := ValidateShipping(shopapi.CheckoutData{ShippingCountry: "United States"})

	want := FieldErrors{
		"customer_email":         "Email is required",
		"customer_first_name":    "First name is required",
		"customer_last_name":     "Last name is required",
		"shipping_address_line1": "Address is required",
		"shipping_city":          "City is required",
		"shipping_state":         "State is required",
		"shipping_postal_code":   "Postal code is required",
	}
	assert.Equal(t, want, errs)
}

func TestValidateShippingWhitespaceOnlyIsBlank(t *testing.T) {
	data := validShipping()
	data.ShippingCity = "   "
	errs := ValidateShipping(data)
	assert.Equal(t, FieldErrors{"shipping_city": "City is required"}, errs)
}

func TestValidateShippingEmailShape(t *testing.T) {
	data := validShipping()

	data.CustomerEmail = "bad"
	errs := ValidateShipping(data)
	assert.Equal(t, "Invalid email address", errs["customer_email"])

	data.CustomerEmail = "no-tld@host"
	errs = ValidateShipping(data)
	assert.Equal(t, "Invalid email address", errs["customer_email"])

	data.CustomerEmail = "a@b.co"
	assert.Empty(t, ValidateShipping(data))
}

func TestValidateShippingOptionalFieldsUnchecked(t *testing.T) {
	data := validShipping()
	data.CustomerPhone = ""
	data.ShippingAddressLine2 = ""
	assert.Empty(t, ValidateShipping(data))
}

func TestValidatePaymentPassesOnCompleteData(t *testing.T) {
	assert.Empty(t, ValidatePayment(validPayment()))
}

func TestValidatePaymentRequiredFields(t *testing.T) {
	errs := ValidatePayment(shopapi.CheckoutData{})

	want := FieldErrors{
		"card_number": "Card number is required",
		"card_expiry": "Expiry date is required",
		"card_cvc":    "CVC is required",
	}
	assert.Equal(t, want, errs)
}

func TestValidatePaymentCardNumberLength(t *testing.T) {
	data := validPayment()

	// 15 digits after stripping whitespace.
	data.CardNumber = "4111 1111 1111 111"
	errs := ValidatePayment(data)
	assert.Equal(t, "Invalid card number", errs["card_number"])

	data.CardNumber = "4111 1111 1111 1111"
	assert.Empty(t, ValidatePayment(data))
}

func TestValidatePaymentExpiryFormat(t *testing.T) {
	data := validPayment()

	for _, bad := range []string{"12/27", "1/2027", "122027", "12-2027", "ab/cdef"} {
		data.CardExpiry = bad
		errs := ValidatePayment(data)
		assert.Equal(t, "Invalid format (MM/YYYY)", errs["card_expiry"], "expiry %q", bad)
	}

	data.CardExpiry = "12/2027"
	assert.Empty(t, ValidatePayment(data))
}

func TestValidatePaymentCVC(t *testing.T) {
	data := validPayment()

	data.CardCvc = "12"
	errs := ValidatePayment(data)
	assert.Equal(t, "Invalid CVC", errs["card_cvc"])

	// Non-digits are stripped before the length check.
	data.CardCvc = "1-2"
	errs = ValidatePayment(data)
	assert.Equal(t, "Invalid CVC", errs["card_cvc"])

	data.CardCvc = "1234"
	assert.Empty(t, ValidatePayment(data))
}

func TestValidatePaymentIgnoresShippingFields(t *testing.T) {
	// A blank shipping section must not leak into payment-stage results.
	errs := ValidatePayment(validPayment())
	assert.Empty(t, errs)
}

func TestFieldErrorsMerge(t *testing.T) {
	shipping := FieldErrors{"customer_email": "Email is required"}
	payment := FieldErrors{"card_cvc": "Invalid CVC"}

	merged := shipping.Merge(payment)
	assert.Len(t, merged, 2)
	assert.Equal(t, "Email is required", merged["customer_email"])
	assert.Equal(t, "Invalid CVC", merged["card_cvc"])

	// Merge builds a new map; inputs stay untouched.
	assert.Len(t, shipping, 1)
	assert.Len(t, payment, 1)
}
