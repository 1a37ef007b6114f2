// Package checkout implements the two-stage checkout: pure field validation
// for the shipping and payment stages, and the flow controller that
// sequences shipping, payment, and submission.
package checkout

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/chronoshop/storefront-client/pkg/shopapi"
)

// FieldErrors maps a checkout field name to a human-readable message. Only
// failing fields are present; an absent key means the field is valid or not
// yet checked.
type FieldErrors map[string]string

// Merge returns a new map combining f with other; other wins on conflicts.
func (f FieldErrors) Merge(other FieldErrors) FieldErrors {
	merged := make(FieldErrors, len(f)+len(other))
	for k, v := range f {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	mustRegister(v, "notblank", notBlank)
	mustRegister(v, "simple_email", simpleEmail)
	mustRegister(v, "card_number", cardNumber)
	mustRegister(v, "card_expiry", cardExpiry)
	mustRegister(v, "card_cvc", cardCVC)
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

var (
	simpleEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Two-digit month, four-digit year, as the original form specifies.
	cardExpiryPattern = regexp.MustCompile(`^\d{2}/\d{4}$`)
	whitespacePattern = regexp.MustCompile(`\s`)
	nonDigitPattern   = regexp.MustCompile(`\D`)
)

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// simpleEmail checks the local@domain.tld shape only, not full RFC syntax.
func simpleEmail(fl validator.FieldLevel) bool {
	return simpleEmailPattern.MatchString(fl.Field().String())
}

func cardNumber(fl validator.FieldLevel) bool {
	stripped := whitespacePattern.ReplaceAllString(fl.Field().String(), "")
	return len(stripped) >= 16
}

func cardExpiry(fl validator.FieldLevel) bool {
	return cardExpiryPattern.MatchString(fl.Field().String())
}

func cardCVC(fl validator.FieldLevel) bool {
	digits := nonDigitPattern.ReplaceAllString(fl.Field().String(), "")
	return len(digits) >= 3
}

var shippingFields = []string{
	"CustomerEmail",
	"CustomerFirstName",
	"CustomerLastName",
	"ShippingAddressLine1",
	"ShippingCity",
	"ShippingState",
	"ShippingPostalCode",
}

var paymentFields = []string{
	"CardNumber",
	"CardExpiry",
	"CardCvc",
}

var fieldLabels = map[string]string{
	"customer_email":         "Email",
	"customer_first_name":    "First name",
	"customer_last_name":     "Last name",
	"shipping_address_line1": "Address",
	"shipping_city":          "City",
	"shipping_state":         "State",
	"shipping_postal_code":   "Postal code",
	"card_number":            "Card number",
	"card_expiry":            "Expiry date",
	"card_cvc":               "CVC",
}

var formatMessages = map[string]string{
	"simple_email": "Invalid email address",
	"card_number":  "Invalid card number",
	"card_expiry":  "Invalid format (MM/YYYY)",
	"card_cvc":     "Invalid CVC",
}

// ValidateShipping checks the identity and shipping address fields. Optional
// fields (phone, address line 2) carry no rules.
func ValidateShipping(data shopapi.CheckoutData) FieldErrors {
	return runStage(data, shippingFields)
}

// ValidatePayment checks the card fields only. Callers merge the result into
// any shipping errors still held.
func ValidatePayment(data shopapi.CheckoutData) FieldErrors {
	return runStage(data, paymentFields)
}

func runStage(data shopapi.CheckoutData, fields []string) FieldErrors {
	errs := FieldErrors{}
	err := validate.StructPartial(data, fields...)
	if err == nil {
		return errs
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// Non-field errors cannot happen for a plain struct; treat any as a
		// blanket failure on nothing rather than panic.
		return errs
	}
	for _, fe := range verrs {
		errs[fe.Field()] = messageFor(fe)
	}
	return errs
}

func messageFor(fe validator.FieldError) string {
	if fe.Tag() == "notblank" {
		label := fieldLabels[fe.Field()]
		if label == "" {
			label = fe.Field()
		}
		return label + " is required"
	}
	if msg, ok := formatMessages[fe.Tag()]; ok {
		return msg
	}
	return "is invalid"
}
