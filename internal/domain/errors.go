package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when the URL is missing or not an absolute http(s) URL
	ErrInvalidInput = errors.New("invalid input")

	// ErrTransport is returned when the origin server cannot be reached (DNS, TLS, timeout, reset)
	ErrTransport = errors.New("transport error")

	// ErrFetchFailed is matched by FetchError when the origin responds with a non-2xx status
	ErrFetchFailed = errors.New("fetch failed")

	// ErrNoDataExtracted is returned alongside a record that carries nothing but its URL
	ErrNoDataExtracted = errors.New("no product data extracted")

	// ErrLinkPreviewUnavailable is returned when the link-preview service cannot answer
	ErrLinkPreviewUnavailable = errors.New("link preview unavailable")

	// ErrRateLimited is returned when an outbound request budget is spent
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrHolidayAPIFailure is returned when the public-holiday API request fails
	ErrHolidayAPIFailure = errors.New("holiday API request failed")

	// ErrInvalidYear is returned for a holiday year outside the supported range
	ErrInvalidYear = errors.New("invalid year")
)

// FetchError reports a non-2xx response from the origin server.
type FetchError struct {
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: status %d", ErrFetchFailed, e.StatusCode)
}

// Is lets errors.Is(err, ErrFetchFailed) match any FetchError.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}
