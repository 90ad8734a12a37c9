// internal/domain/currency/currency.go
package currency

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownCurrency indicates a code outside the supported set
var ErrUnknownCurrency = errors.New("unknown currency code")

// Currency describes a display currency with its fixed exchange rate
// against the base currency. Rates are display-only multipliers; stored
// prices are never mutated.
type Currency struct {
	Code   string  `json:"code"`
	Symbol string  `json:"symbol"`
	Rate   float64 `json:"rate"`
}

// BaseCode is the currency in which catalog prices are denominated
const BaseCode = "USD"

var currencies = map[string]Currency{
	"USD": {Code: "USD", Symbol: "$", Rate: 1},
	"EUR": {Code: "EUR", Symbol: "€", Rate: 0.92},
	"GBP": {Code: "GBP", Symbol: "£", Rate: 0.79},
	"INR": {Code: "INR", Symbol: "₹", Rate: 83.12},
}

// Base returns the base currency
func Base() Currency {
	return currencies[BaseCode]
}

// Lookup returns the currency for a code, or ErrUnknownCurrency
func Lookup(code string) (Currency, error) {
	c, ok := currencies[code]
	if !ok {
		return Currency{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return c, nil
}

// Supported returns the closed set of supported currencies, base first
func Supported() []Currency {
	return []Currency{
		currencies["USD"],
		currencies["EUR"],
		currencies["GBP"],
		currencies["INR"],
	}
}

// Convert maps a base-currency price into the given display currency,
// rounded to two decimals. An unknown code falls back to the base
// currency rather than failing.
func Convert(price float64, code string) float64 {
	c, err := Lookup(code)
	if err != nil {
		c = Base()
	}
	return math.Round(price*c.Rate*100) / 100
}

// Format renders a base-currency price as a display string: the
// currency symbol followed by the converted two-decimal value.
func Format(price float64, code string) string {
	c, err := Lookup(code)
	if err != nil {
		c = Base()
	}
	return fmt.Sprintf("%s%.2f", c.Symbol, Convert(price, c.Code))
}
