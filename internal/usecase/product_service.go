package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/CarlyGallagher/christmas-planner/internal/domain"
)

// ProductService fills in wishlist items from a product URL
type ProductService struct {
	fetcher domain.PageFetcher
	preview domain.LinkPreviewClient
}

// NewProductService creates a product service. preview may be nil to always extract
// from the page itself.
func NewProductService(fetcher domain.PageFetcher, preview domain.LinkPreviewClient) *ProductService {
	return &ProductService{
		fetcher: fetcher,
		preview: preview,
	}
}

// ExtractFromURL builds a product record for rawURL.
// Flow: validate -> link preview (optional) -> fetch page -> extract.
//
// Fetch failures are returned without a record. When the page yields nothing but its
// URL, the bare record is returned together with ErrNoDataExtracted.
func (s *ProductService) ExtractFromURL(ctx context.Context, rawURL string) (*domain.Extraction, error) {
	if _, err := domain.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	rawURL = strings.TrimSpace(rawURL)
	logger := log.With().Str("component", "product").Str("url", rawURL).Logger()

	result := &domain.Extraction{Platform: DetectPlatform(rawURL)}

	if product, ok := s.fromLinkPreview(ctx, rawURL); ok {
		result.Product = product
		result.Source = domain.SourceLinkPreview
	} else {
		html, err := s.fetcher.Fetch(ctx, rawURL)
		if err != nil {
			logger.Warn().Err(err).Msg("page fetch failed")
			return nil, err
		}
		result.Product = ExtractProduct(html, rawURL)
		result.Source = domain.SourcePage
	}

	p := result.Product
	logger.Info().
		Str("source", string(result.Source)).
		Str("title", p.Title).
		Float64("price", p.Price).
		Str("currency", p.Currency).
		Bool("has_image", p.ImageURL != "").
		Bool("has_description", p.Description != "").
		Msg("extracted product")

	if !p.HasData() {
		return result, domain.ErrNoDataExtracted
	}
	return result, nil
}

// fromLinkPreview asks the link-preview service first. Its failures are never fatal.
// The service has no price field, so price comes from its description text.
func (s *ProductService) fromLinkPreview(ctx context.Context, rawURL string) (domain.Product, bool) {
	if s.preview == nil {
		return domain.Product{}, false
	}

	preview, err := s.preview.Preview(ctx, rawURL)
	if err != nil {
		event := log.Warn()
		if errors.Is(err, domain.ErrRateLimited) {
			event = log.Debug()
		}
		event.Err(err).Str("component", "product").Str("url", rawURL).Msg("link preview skipped")
		return domain.Product{}, false
	}
	if !preview.Usable() {
		return domain.Product{}, false
	}

	product := domain.Product{
		URL:         rawURL,
		Title:       preview.Title,
		ImageURL:    preview.Image,
		Description: preview.Description,
	}
	if price, currency, ok := ExtractPriceFromText(preview.Description); ok {
		product.Price = price
		product.Currency = currency
	}
	return product, true
}
