// Package currency converts ledger amounts between the base currency and a
// user's display currency. Conversion is purely presentational: the ledger
// stores and reasons about money in one base currency, and nothing in this
// package may be used to mutate a stored balance in a converted amount.
package currency

import "github.com/shopspring/decimal"

// DefaultRates returns the static rate table, keyed by currency code, as
// units of the target currency per one unit of KES (the base currency).
func DefaultRates() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"KES": decimal.NewFromInt(1),
		"USD": decimal.RequireFromString("0.0071"),
		"EUR": decimal.RequireFromString("0.0065"),
		"GBP": decimal.RequireFromString("0.0057"),
		"BTC": decimal.RequireFromString("0.00000018"),
		"ETH": decimal.RequireFromString("0.0000028"),
		"ZAR": decimal.RequireFromString("0.12"),
		"TZS": decimal.RequireFromString("18.4"),
		"UGX": decimal.RequireFromString("26.3"),
	}
}

// symbols maps currency codes to display symbols.
var symbols = map[string]string{
	"KES": "KSh",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"BTC": "₿",
	"ETH": "Ξ",
	"ZAR": "R",
	"TZS": "TSh",
	"UGX": "USh",
}

// Symbol returns the display symbol for a currency code, or "" if unknown.
func Symbol(code string) string {
	return symbols[code]
}

// Converter converts amounts between the base ledger currency and display
// currencies using a static rate table. All methods are total: they never
// fail, because they sit in every money-displaying code path. Unknown codes
// fall back to rate 1 and conversion problems degrade to zero.
type Converter struct {
	base  string
	rates map[string]decimal.Decimal
}

// NewConverter creates a Converter for the given base currency and rate table.
// A nil table falls back to DefaultRates.
func NewConverter(base string, rates map[string]decimal.Decimal) *Converter {
	if rates == nil {
		rates = DefaultRates()
	}
	return &Converter{base: base, rates: rates}
}

// Base returns the base ledger currency code.
func (c *Converter) Base() string { return c.base }

// Rate returns the conversion rate for the given code. Unknown codes get
// rate 1, making conversion a no-op rather than an error.
func (c *Converter) Rate(code string) decimal.Decimal {
	if rate, ok := c.rates[code]; ok && rate.IsPositive() {
		return rate
	}
	return decimal.NewFromInt(1)
}

// Convert converts a base-currency amount into the target currency,
// rounded half-up to 2 decimal places.
func (c *Converter) Convert(amount decimal.Decimal, code string) decimal.Decimal {
	return amount.Mul(c.Rate(code)).Round(2)
}

// ConvertReverse recovers a base-currency amount from an amount entered in
// the target currency, rounded half-up to 2 decimal places.
func (c *Converter) ConvertReverse(amount decimal.Decimal, code string) decimal.Decimal {
	rate := c.Rate(code)
	if rate.IsZero() {
		return decimal.Zero.Round(2)
	}
	return amount.DivRound(rate, 2)
}
