package usecase

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/CarlyGallagher/christmas-planner/internal/domain"
)

// document is a fetched page prepared once for all matchers
type document struct {
	raw    string
	base   *url.URL
	images []imgTag
}

func newDocument(rawHTML, sourceURL string) *document {
	base, err := url.Parse(sourceURL)
	if err != nil || !base.IsAbs() {
		base = nil
	}
	return &document{
		raw:    rawHTML,
		base:   base,
		images: parseImgTags(rawHTML),
	}
}

// matcher inspects a document and reports a value when its pattern applies
type matcher[T any] func(doc *document) (T, bool)

// firstMatch runs matchers in order and returns the first hit
func firstMatch[T any](doc *document, matchers []matcher[T]) (T, bool) {
	for _, m := range matchers {
		if v, ok := m(doc); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Attribute names a <meta> tag can use to carry its key
const (
	propertyAttrs = `property|name`
	nameAttrs     = `name`
	itempropAttrs = `itemprop`
)

// metaMatcher matches <meta {attrs}="key" content="..."> in either attribute order and
// with either quote style. Empty content is a non-match.
func metaMatcher(attrs, key string) matcher[string] {
	k := regexp.QuoteMeta(key)
	value := `(?:"([^"]*)"|'([^']*)')`
	keyFirst := regexp.MustCompile(`(?is)<meta\b[^>]*?\s(?:` + attrs + `)\s*=\s*["']` + k + `["'][^>]*?\scontent\s*=\s*` + value)
	contentFirst := regexp.MustCompile(`(?is)<meta\b[^>]*?\scontent\s*=\s*` + value + `[^>]*?\s(?:` + attrs + `)\s*=\s*["']` + k + `["']`)

	return func(doc *document) (string, bool) {
		for _, p := range []*regexp.Regexp{keyFirst, contentFirst} {
			if m := p.FindStringSubmatch(doc.raw); m != nil {
				if v := strings.TrimSpace(m[1] + m[2]); v != "" {
					return v, true
				}
			}
		}
		return "", false
	}
}

// decoded wraps a matcher so its result is entity-decoded and trimmed
func decoded(m matcher[string]) matcher[string] {
	return func(doc *document) (string, bool) {
		v, ok := m(doc)
		if !ok {
			return "", false
		}
		v = strings.TrimSpace(decodeEntities(v))
		return v, v != ""
	}
}

// decodeEntities resolves HTML character references. &nbsp; becomes a plain space.
func decodeEntities(s string) string {
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = html.UnescapeString(s)
	return strings.ReplaceAll(s, "\u00a0", " ")
}

var (
	titleTagPattern = regexp.MustCompile(`(?is)<title\b[^>]*>([^<]*)</title>`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

// titleElement reads the <title> element, collapsing the line breaks it often carries
func titleElement(doc *document) (string, bool) {
	m := titleTagPattern.FindStringSubmatch(doc.raw)
	if m == nil {
		return "", false
	}
	v := strings.TrimSpace(whitespaceRun.ReplaceAllString(m[1], " "))
	return v, v != ""
}

var titleMatchers = []matcher[string]{
	decoded(metaMatcher(propertyAttrs, "og:title")),
	decoded(titleElement),
}

var descriptionMatchers = []matcher[string]{
	decoded(metaMatcher(propertyAttrs, "og:description")),
	decoded(metaMatcher(nameAttrs, "description")),
}

// priceMatch is a parsed amount with its normalized currency
type priceMatch struct {
	amount   float64
	currency string
}

// metaPrice reads a {prefix}:price:amount meta tag. The currency comes from the first
// currency tag present, else DefaultCurrency.
func metaPrice(prefix string, currencyTags ...matcher[string]) matcher[priceMatch] {
	amountTag := metaMatcher(propertyAttrs, prefix+":price:amount")
	return func(doc *document) (priceMatch, bool) {
		raw, ok := amountTag(doc)
		if !ok {
			return priceMatch{}, false
		}
		amount, ok := ParsePrice(raw)
		if !ok {
			return priceMatch{}, false
		}
		currency, _ := firstMatch(doc, currencyTags)
		return priceMatch{amount: amount, currency: NormalizeCurrency(currency)}, true
	}
}

// htmlPricePatterns probe common price markup. Each pattern's first match is tried.
var htmlPricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<span[^>]*class="[^"]*a-price-whole[^"]*"[^>]*>([^<]+)<`),
	regexp.MustCompile(`(?i)<span[^>]*class="[^"]*price[^"]*"[^>]*>\$?([0-9,]+\.?\d*)<`),
	regexp.MustCompile(`(?i)<span[^>]*id="[^"]*price[^"]*"[^>]*>\$?([0-9,]+\.?\d*)<`),
	regexp.MustCompile(`(?i)class="[^"]*priceblock[^"]*"[^>]*>\$?([0-9,]+\.?\d*)`),
	regexp.MustCompile(`(?i)"price":"?\$?([0-9,]+\.?\d*)"`),
}

func htmlPrice(pattern *regexp.Regexp) matcher[priceMatch] {
	return func(doc *document) (priceMatch, bool) {
		m := pattern.FindStringSubmatch(doc.raw)
		if m == nil {
			return priceMatch{}, false
		}
		amount, ok := ParsePrice(m[1])
		if !ok {
			return priceMatch{}, false
		}
		return priceMatch{amount: amount, currency: DefaultCurrency}, true
	}
}

var priceMatchers = buildPriceMatchers()

func buildPriceMatchers() []matcher[priceMatch] {
	ogCurrency := metaMatcher(propertyAttrs, "og:price:currency")
	productCurrency := metaMatcher(propertyAttrs, "product:price:currency")

	matchers := []matcher[priceMatch]{
		metaPrice("og", ogCurrency, productCurrency),
		metaPrice("product", productCurrency, ogCurrency),
	}
	for _, p := range htmlPricePatterns {
		matchers = append(matchers, htmlPrice(p))
	}
	return matchers
}

// ExtractProduct derives a product record from raw HTML. It never fails: each field
// degrades independently and an unrecognizable page yields a record with only URL set.
//
// Price sources run in order: price meta tags, markup probes, then the extracted
// description text. The first positive amount wins even if a later source would be
// more plausible.
func ExtractProduct(rawHTML, sourceURL string) domain.Product {
	doc := newDocument(rawHTML, sourceURL)
	product := domain.Product{URL: sourceURL}

	product.Title, _ = firstMatch(doc, titleMatchers)
	product.ImageURL, _ = firstMatch(doc, imageMatchers)
	product.Description, _ = firstMatch(doc, descriptionMatchers)

	if price, ok := firstMatch(doc, priceMatchers); ok {
		product.Price = price.amount
		product.Currency = price.currency
	} else if product.Description != "" {
		if amount, currency, ok := ExtractPriceFromText(product.Description); ok {
			product.Price = amount
			product.Currency = currency
		}
	}

	return product
}
