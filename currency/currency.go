// Package currency converts amounts between currencies using USD as the
// pivot over an injected rate table. Rates are static configuration, not
// fetched live.
package currency

import (
	"errors"
	"fmt"
	"math"
)

var ErrUnknownCurrency = errors.New("unknown currency code")

// DefaultRates maps ISO currency codes to their USD-relative exchange rate
// (units of the currency per one USD).
func DefaultRates() map[string]float64 {
	return map[string]float64{
		"USD": 1.0,
		"EUR": 0.92,
		"GBP": 0.79,
		"JPY": 149.50,
		"CAD": 1.36,
		"AUD": 1.53,
		"CHF": 0.88,
		"CNY": 7.24,
		"INR": 83.12,
		"MXN": 17.15,
		"BRL": 4.97,
		"THB": 35.80,
	}
}

// Conversion is the result of converting an amount between two currencies.
// Rate is the effective cross rate from From to To.
type Conversion struct {
	Amount          float64 `json:"amount"`
	ConvertedAmount float64 `json:"converted_amount"`
	From            string  `json:"from"`
	To              string  `json:"to"`
	Rate            float64 `json:"rate"`
}

type Converter struct {
	rates  map[string]float64
	strict bool
}

type Option func(*Converter)

// WithRates replaces the built-in rate table.
func WithRates(rates map[string]float64) Option {
	return func(c *Converter) {
		c.rates = rates
	}
}

// WithStrict makes Convert fail on unknown currency codes instead of
// silently treating them as USD.
func WithStrict() Option {
	return func(c *Converter) {
		c.strict = true
	}
}

func NewConverter(opts ...Option) *Converter {
	c := &Converter{rates: DefaultRates()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert pivots through USD: amount / rate[from] * rate[to]. Unknown codes
// fall back to rate 1.0 (USD) unless the converter is strict.
func (c *Converter) Convert(amount float64, from, to string) (Conversion, error) {
	fromRate, err := c.rate(from)
	if err != nil {
		return Conversion{}, err
	}
	toRate, err := c.rate(to)
	if err != nil {
		return Conversion{}, err
	}

	usdAmount := amount / fromRate
	converted := usdAmount * toRate

	return Conversion{
		Amount:          amount,
		ConvertedAmount: round2(converted),
		From:            from,
		To:              to,
		Rate:            round4(toRate / fromRate),
	}, nil
}

func (c *Converter) rate(code string) (float64, error) {
	if rate, ok := c.rates[code]; ok {
		return rate, nil
	}
	if c.strict {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}
	return 1.0, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
