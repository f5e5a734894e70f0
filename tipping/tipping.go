// Package tipping computes context-aware tips from per-country norms.
package tipping

import (
	"math"
)

type Service string

const (
	ServiceRestaurant Service = "restaurant"
	ServiceTaxi       Service = "taxi"
	ServiceHotel      Service = "hotel"
)

// DefaultKey is the fallback row used for countries without an entry.
const DefaultKey = "DEFAULT"

// Norms holds a country's customary tip percentage per service type.
type Norms struct {
	Restaurant float64 `json:"restaurant"`
	Taxi       float64 `json:"taxi"`
	Hotel      float64 `json:"hotel"`
}

// DefaultNorms maps ISO country codes to tipping customs. Countries where
// tipping is not practiced carry explicit zeroes.
func DefaultNorms() map[string]Norms {
	return map[string]Norms{
		"US":       {Restaurant: 18, Taxi: 15, Hotel: 5},
		"CA":       {Restaurant: 15, Taxi: 10, Hotel: 5},
		"GB":       {Restaurant: 12, Taxi: 10, Hotel: 2},
		"FR":       {Restaurant: 5, Taxi: 5, Hotel: 2},
		"DE":       {Restaurant: 10, Taxi: 10, Hotel: 2},
		"IT":       {Restaurant: 10, Taxi: 5, Hotel: 2},
		"ES":       {Restaurant: 10, Taxi: 5, Hotel: 2},
		"JP":       {Restaurant: 0, Taxi: 0, Hotel: 0},
		"CN":       {Restaurant: 0, Taxi: 0, Hotel: 0},
		"TH":       {Restaurant: 10, Taxi: 0, Hotel: 2},
		"MX":       {Restaurant: 15, Taxi: 10, Hotel: 5},
		"BR":       {Restaurant: 10, Taxi: 0, Hotel: 2},
		"IN":       {Restaurant: 10, Taxi: 5, Hotel: 2},
		"AU":       {Restaurant: 10, Taxi: 10, Hotel: 2},
		DefaultKey: {Restaurant: 10, Taxi: 10, Hotel: 10},
	}
}

// Tip is the computed gratuity for one bill.
type Tip struct {
	TipAmount     float64 `json:"tip_amount"`
	TipPercentage float64 `json:"tip_percentage"`
	Total         float64 `json:"total"`
}

type Calculator struct {
	norms map[string]Norms
}

type Option func(*Calculator)

// WithNorms replaces the built-in tipping table. The table should carry a
// DEFAULT row; without one, unknown countries tip 0.
func WithNorms(norms map[string]Norms) Option {
	return func(c *Calculator) {
		c.norms = norms
	}
}

func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{norms: DefaultNorms()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tip looks up the norm for the country and service type, falling back to
// the DEFAULT row for unknown countries.
func (c *Calculator) Tip(amount float64, countryCode string, service Service) Tip {
	norms, ok := c.norms[countryCode]
	if !ok {
		norms = c.norms[DefaultKey]
	}

	var pct float64
	switch service {
	case ServiceTaxi:
		pct = norms.Taxi
	case ServiceHotel:
		pct = norms.Hotel
	default:
		pct = norms.Restaurant
	}

	tipAmount := round2(amount * pct / 100)
	return Tip{
		TipAmount:     tipAmount,
		TipPercentage: pct,
		Total:         round2(amount + tipAmount),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
