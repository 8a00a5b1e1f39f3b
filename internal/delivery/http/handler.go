package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/CarlyGallagher/christmas-planner/internal/domain"
	"github.com/CarlyGallagher/christmas-planner/internal/usecase"
)

const (
	manualEntryHint = "Please enter the item details manually."
	dateLayout      = "2006-01-02"
)

// ProductExtractor builds product records from URLs
type ProductExtractor interface {
	ExtractFromURL(ctx context.Context, rawURL string) (*domain.Extraction, error)
}

// HolidayProvider returns the holidays of a year
type HolidayProvider interface {
	Holidays(ctx context.Context, year int) ([]domain.Holiday, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	products ProductExtractor
	holidays HolidayProvider
}

// NewHandler creates a new HTTP handler. Either dependency may be nil, in which case
// its endpoints answer 503.
func NewHandler(products ProductExtractor, holidays HolidayProvider) *Handler {
	return &Handler{
		products: products,
		holidays: holidays,
	}
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ExtractResponse is the body of a product extraction
type ExtractResponse struct {
	Product        domain.Product       `json:"product"`
	FormattedPrice string               `json:"formattedPrice,omitempty"`
	Platform       string               `json:"platform,omitempty"`
	Source         domain.ProductSource `json:"source"`
	Message        string               `json:"message,omitempty"`
}

// HolidayResponse is a single calendar holiday
type HolidayResponse struct {
	Name  string `json:"name"`
	Date  string `json:"date"`
	Color string `json:"color"`
}

// HolidaysResponse lists the holidays of a year
type HolidaysResponse struct {
	Year     int               `json:"year"`
	Holidays []HolidayResponse `json:"holidays"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "christmas-planner-backend",
		"version": "1.0.0",
	})
}

// ExtractProduct fills in a wishlist item from a product URL
func (h *Handler) ExtractProduct(c *gin.Context) {
	if h.products == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "service_unavailable",
			Message: "Product extraction is not configured. " + manualEntryHint,
		})
		return
	}

	var req domain.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Request body must be JSON with a url field.",
		})
		return
	}

	result, err := h.products.ExtractFromURL(c.Request.Context(), req.URL)
	noData := errors.Is(err, domain.ErrNoDataExtracted) && result != nil
	if err != nil && !noData {
		status, body := extractionError(err)
		log.Warn().
			Err(err).
			Str("component", "http").
			Str("request_id", c.GetString(requestIDKey)).
			Int("status", status).
			Msg("product extraction failed")
		c.JSON(status, body)
		return
	}

	resp := ExtractResponse{
		Product:  result.Product,
		Platform: result.Platform,
		Source:   result.Source,
	}
	if result.Product.Price > 0 {
		resp.FormattedPrice = usecase.FormatPrice(result.Product.Price, result.Product.Currency)
	}
	if noData {
		resp.Message = "We couldn't read any product details from that page. " + manualEntryHint
	}

	c.JSON(http.StatusOK, resp)
}

// extractionError maps a failed extraction to a status code and body
func extractionError(err error) (int, ErrorResponse) {
	var fetchErr *domain.FetchError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_url",
			Message: "Please provide a valid http(s) product URL.",
		}
	case errors.As(err, &fetchErr):
		status := http.StatusBadGateway
		if fetchErr.StatusCode >= 400 && fetchErr.StatusCode <= 599 {
			status = fetchErr.StatusCode
		}
		return status, ErrorResponse{
			Error:   "fetch_failed",
			Message: "The store returned an error for that page. " + manualEntryHint,
		}
	case errors.Is(err, domain.ErrTransport):
		return http.StatusBadGateway, ErrorResponse{
			Error:   "fetch_failed",
			Message: "We couldn't reach that store. " + manualEntryHint,
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Something went wrong while reading that page. " + manualEntryHint,
		}
	}
}

// Holidays returns the calendar holidays of the requested year
func (h *Handler) Holidays(c *gin.Context) {
	if h.holidays == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "service_unavailable",
			Message: "Holiday lookup is not configured.",
		})
		return
	}

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_year",
			Message: "Year must be a number, e.g. /api/v1/holidays/2025.",
		})
		return
	}

	holidays, err := h.holidays.Holidays(c.Request.Context(), year)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidYear) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_year",
				Message: err.Error(),
			})
			return
		}
		log.Error().Err(err).Str("component", "http").Int("year", year).Msg("holiday lookup failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Holidays are unavailable right now.",
		})
		return
	}

	resp := HolidaysResponse{
		Year:     year,
		Holidays: make([]HolidayResponse, 0, len(holidays)),
	}
	for _, holiday := range holidays {
		resp.Holidays = append(resp.Holidays, HolidayResponse{
			Name:  holiday.Name,
			Date:  holiday.Date.Format(dateLayout),
			Color: holiday.Color,
		})
	}

	c.JSON(http.StatusOK, resp)
}
