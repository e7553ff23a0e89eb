// Package format renders raw dashboard metrics into display strings.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const (
	// Placeholder is shown for values that are absent.
	Placeholder = "--"
	// Loading is shown while a widget fetch is in flight.
	Loading = "Loading..."
	// DefaultCurrency applies when neither the metric nor the request names one.
	DefaultCurrency = "USD"
)

var (
	thousand        = decimal.NewFromInt(1000)
	compactSuffixes = []string{"", "K", "M", "B", "T"}
)

// symbols mirrors the en-US narrow currency display. Codes without an entry
// render as "CODE amount".
var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "CN¥",
	"CAD": "CA$",
	"AUD": "A$",
	"NZD": "NZ$",
	"HKD": "HK$",
	"MXN": "MX$",
	"BRL": "R$",
	"TWD": "NT$",
	"INR": "₹",
	"KRW": "₩",
	"ILS": "₪",
	"VND": "₫",
	"PHP": "₱",
}

// Days renders a day count rounded to the nearest integer.
func Days(value *float64) string {
	if value == nil {
		return Placeholder
	}
	return fmt.Sprintf("%d days", int64(math.Floor(*value+0.5)))
}

// CurrencyCompact renders value in compact notation (for example $8.2M) with at
// most one fractional digit. Unknown currency codes fall back to USD.
func CurrencyCompact(value *float64, code string) string {
	if value == nil {
		return Placeholder
	}
	iso := ResolveCurrency(code)

	amount := decimal.NewFromFloat(*value)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	idx := 0
	for idx < len(compactSuffixes)-1 && amount.Cmp(decimal.New(1, int32(3*(idx+1)))) >= 0 {
		idx++
	}
	scaled := amount.Shift(int32(-3 * idx)).Round(1)
	if scaled.Cmp(thousand) >= 0 && idx < len(compactSuffixes)-1 {
		idx++
		scaled = amount.Shift(int32(-3 * idx)).Round(1)
	}
	if scaled.IsZero() {
		sign = ""
	}

	number := scaled.String() + compactSuffixes[idx]
	if symbol, ok := symbols[iso]; ok {
		return sign + symbol + number
	}
	return sign + iso + " " + number
}

// ResolveCurrency normalises an ISO 4217 code, returning DefaultCurrency when
// the code is empty or not recognised.
func ResolveCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return DefaultCurrency
	}
	return unit.String()
}

// FirstCurrency returns the first non-empty candidate, or DefaultCurrency.
func FirstCurrency(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return DefaultCurrency
}

// DeltaPercent converts a signed fraction into a rounded percent magnitude:
// two decimals when the magnitude is below one percent, one otherwise.
func DeltaPercent(value *float64) *float64 {
	if value == nil {
		return nil
	}
	percent := math.Abs(*value * 100)
	places := int32(1)
	if percent < 1 {
		places = 2
	}
	rounded := decimal.NewFromFloat(percent).Round(places).InexactFloat64()
	return &rounded
}

// Percent renders a percentage. With fromFraction the value is scaled by 100
// first. Whole numbers get no decimals, magnitudes below ten get one.
func Percent(value *float64, fromFraction bool) string {
	if value == nil {
		return Placeholder
	}
	percent := *value
	if fromFraction {
		percent *= 100
	}
	places := int32(0)
	if percent != math.Trunc(percent) && math.Abs(percent) < 10 {
		places = 1
	}
	return decimal.NewFromFloat(percent).StringFixed(places) + "%"
}

// Ratio renders a multiple such as 2.4x.
func Ratio(value *float64, suffix string) string {
	if value == nil {
		return Placeholder
	}
	places := int32(0)
	if math.Abs(*value) < 10 {
		places = 1
	}
	return decimal.NewFromFloat(*value).StringFixed(places) + suffix
}

var monthLayouts = []string{"2006-01-02", "2006-01", time.RFC3339}

// MonthLabel renders a date or year-month string as "Jan 2006". Unparseable
// input is returned as-is.
func MonthLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return Placeholder
	}
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("Jan 2006")
		}
	}
	return value
}

// Date renders the calendar fields of t as YYYY-MM-DD.
func Date(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}
