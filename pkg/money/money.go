// Package money handles the decimal-formatted amount strings the storefront
// API uses on the wire. Amounts are parsed for display formatting only;
// authoritative totals always come from the server.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	pkgerrors "github.com/chronoshop/storefront-client/pkg/errors"
)

// Zero is the server's representation of an empty amount.
const Zero = "0.00"

var usPrinter = message.NewPrinter(language.AmericanEnglish)

// Parse decodes a decimal-formatted amount string.
func Parse(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "amount is empty")
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount")
	}
	return d, nil
}

// FormatUSD renders an amount as a US-grouped dollar string, e.g. $1,234.56.
func FormatUSD(d decimal.Decimal) string {
	f, _ := d.Float64()
	return usPrinter.Sprintf("$%v", number.Decimal(f,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}

// FormatAmount parses a wire amount and renders it for display.
func FormatAmount(raw string) (string, error) {
	d, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return FormatUSD(d), nil
}
