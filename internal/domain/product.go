package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// Product is the record derived from a product page. It is transient: built fresh per
// extraction and handed to the caller, never cached or persisted here.
//
// Optional string fields are empty when absent. Price is zero when absent since a
// parsed price is always strictly positive; Currency is set only together with Price.
type Product struct {
	URL         string  `json:"url"`
	Title       string  `json:"title,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price,omitempty"`
	Currency    string  `json:"currency,omitempty"`
}

// HasData reports whether anything besides the URL was extracted.
func (p *Product) HasData() bool {
	return p.Title != "" || p.ImageURL != "" || p.Description != "" || p.Price > 0
}

// ExtractRequest represents a product auto-fill request
type ExtractRequest struct {
	URL string `json:"url" binding:"required"`
}

// LinkPreview is the response of the third-party link-preview service
type LinkPreview struct {
	Title       string `json:"title"`
	Image       string `json:"image"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Usable reports whether the preview carries any of title, image or description.
func (p *LinkPreview) Usable() bool {
	return p != nil && (p.Title != "" || p.Image != "" || p.Description != "")
}

// ProductSource tells where an extraction's fields came from
type ProductSource string

const (
	SourceLinkPreview ProductSource = "linkpreview"
	SourcePage        ProductSource = "page"
)

// Extraction is the result handed to callers of the auto-fill flow
type Extraction struct {
	Product  Product
	Source   ProductSource
	Platform string
}

// ValidateURL checks that rawURL is an absolute http(s) URL with a host.
func ValidateURL(rawURL string) (*url.URL, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("%w: url is required", ErrInvalidInput)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: url must be absolute: %q", ErrInvalidInput, rawURL)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, fmt.Errorf("%w: unsupported url scheme: %q", ErrInvalidInput, u.Scheme)
	}
	return u, nil
}
