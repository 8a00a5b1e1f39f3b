package domain

import (
	"context"
	"time"
)

// Cache defines the interface for caching operations
type Cache[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, error)
	Set(ctx context.Context, key K, value V, ttl time.Duration) error
	Delete(ctx context.Context, key K) error
}

// PageFetcher retrieves raw HTML for a product page
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// LinkPreviewClient queries a third-party link-preview service
type LinkPreviewClient interface {
	Preview(ctx context.Context, targetURL string) (*LinkPreview, error)
}

// HolidayClient defines the interface for the public holiday API
type HolidayClient interface {
	PublicHolidays(ctx context.Context, year int, countryCode string) ([]PublicHoliday, error)
}
