package models

import (
	"strings"

	"golang.org/x/text/currency"
)

// DefaultCurrency is used for companies that do not specify one.
const DefaultCurrency = "USD"

// ParseCurrency validates an ISO 4217 currency code and returns it in
// its canonical form.
func ParseCurrency(code string) (string, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return "", ErrCurrencyInvalid
	}

	return unit.String(), nil
}

// CurrencyScale returns the number of decimals of the currency's minor
// unit, e.g. 2 for USD and 0 for JPY. Amounts in the ledger are integers
// in that minor unit.
func CurrencyScale(code string) int {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 2
	}

	scale, _ := currency.Standard.Rounding(unit)
	return scale
}
