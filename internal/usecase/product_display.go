package usecase

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// platforms maps URL fragments to the storefront they belong to, checked in order
var platforms = []struct {
	markers []string
	name    string
}{
	{[]string{"amazon.com", "amzn.to"}, "Amazon"},
	{[]string{"target.com"}, "Target"},
	{[]string{"walmart.com"}, "Walmart"},
	{[]string{"etsy.com"}, "Etsy"},
	{[]string{"ebay.com"}, "eBay"},
	{[]string{"bestbuy.com"}, "Best Buy"},
}

// DetectPlatform names the storefront a product URL belongs to, or "" if unknown.
func DetectPlatform(rawURL string) string {
	lower := strings.ToLower(rawURL)
	for _, p := range platforms {
		for _, marker := range p.markers {
			if strings.Contains(lower, marker) {
				return p.name
			}
		}
	}
	return ""
}

var displaySymbols = map[string]string{
	"USD": "$",
	"GBP": "£",
	"EUR": "€",
}

// FormatPrice renders an amount for display, e.g. "$1,299.99" or "CAD 15.00".
func FormatPrice(price float64, currency string) string {
	code := NormalizeCurrency(currency)
	amount := message.NewPrinter(language.AmericanEnglish).Sprint(number.Decimal(price, number.Scale(2)))
	if symbol, ok := displaySymbols[code]; ok {
		return symbol + amount
	}
	return code + " " + amount
}
