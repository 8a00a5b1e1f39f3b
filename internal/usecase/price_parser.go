package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultCurrency is assumed whenever a price is found but its currency is ambiguous
const DefaultCurrency = "USD"

// Compiled regex patterns for price parsing
var (
	// Everything that is not a digit or decimal point
	nonNumericPattern = regexp.MustCompile(`[^0-9.]`)

	// Longest leading decimal number once the string is cleaned ("19.99." -> "19.99")
	leadingNumberPattern = regexp.MustCompile(`^[0-9]*\.?[0-9]*`)
)

// currencySymbols maps symbols seen in meta tags to ISO codes
var currencySymbols = map[string]string{
	"$": "USD",
	"£": "GBP",
	"€": "EUR",
}

// textPricePatterns scan free text for currency-prefixed or -suffixed amounts.
// Order matters: the first pattern yielding a positive amount wins.
var textPricePatterns = []struct {
	pattern  *regexp.Regexp
	currency string
}{
	{regexp.MustCompile(`\$(\d+(?:,\d{3})*(?:\.\d{2})?)`), "USD"},         // $99.99 or $1,299.99
	{regexp.MustCompile(`(?i)(\d+(?:,\d{3})*(?:\.\d{2})?)\s*USD`), "USD"}, // 99.99 USD
	{regexp.MustCompile(`(?i)USD\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`), "USD"}, // USD 99.99
	{regexp.MustCompile(`£(\d+(?:,\d{3})*(?:\.\d{2})?)`), "GBP"},          // £99.99
	{regexp.MustCompile(`€(\d+(?:,\d{3})*(?:\.\d{2})?)`), "EUR"},          // €99.99
}

// ParsePrice strips thousands separators and any non-numeric characters, then parses
// the leading decimal number. ok is false unless the value is finite and > 0.
func ParsePrice(raw string) (float64, bool) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	cleaned = nonNumericPattern.ReplaceAllString(cleaned, "")

	number := leadingNumberPattern.FindString(cleaned)
	if number == "" || number == "." {
		return 0, false
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil || !validPrice(value) {
		return 0, false
	}
	return value, true
}

func validPrice(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// ExtractPriceFromText finds the first currency-marked amount in free text. The
// currency comes from the token that matched.
func ExtractPriceFromText(text string) (price float64, currency string, ok bool) {
	for _, p := range textPricePatterns {
		match := p.pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		if value, valid := ParsePrice(match[1]); valid {
			return value, p.currency, true
		}
	}
	return 0, "", false
}

// NormalizeCurrency returns an upper-case three-letter code, mapping known symbols
// and falling back to DefaultCurrency for anything else.
func NormalizeCurrency(raw string) string {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if iso, ok := currencySymbols[code]; ok {
		return iso
	}
	if len(code) != 3 {
		return DefaultCurrency
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return DefaultCurrency
		}
	}
	return code
}
