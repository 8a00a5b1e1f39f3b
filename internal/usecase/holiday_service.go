package usecase

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/CarlyGallagher/christmas-planner/internal/domain"
	"github.com/CarlyGallagher/christmas-planner/internal/infrastructure/nager"
)

// Supported holiday years
const (
	MinHolidayYear = 1900
	MaxHolidayYear = 2199
)

// HolidayServiceConfig holds configuration for the holiday service
type HolidayServiceConfig struct {
	CountryCode string
}

// HolidayService looks up holidays for the calendar overlay. Successful lookups are
// kept for the life of the process, one entry per year.
type HolidayService struct {
	client  domain.HolidayClient
	cache   domain.Cache[int, []domain.Holiday]
	country string
	group   singleflight.Group
}

// NewHolidayService creates a new holiday service with dependencies
func NewHolidayService(
	client domain.HolidayClient,
	cache domain.Cache[int, []domain.Holiday],
	config HolidayServiceConfig,
) *HolidayService {
	country := config.CountryCode
	if country == "" {
		country = "US"
	}

	return &HolidayService{
		client:  client,
		cache:   cache,
		country: country,
	}
}

// Holidays returns the holidays of year sorted by date.
// Flow: check cache -> public holiday API + additional observances -> cache -> return.
// If the API fails the computed fallback list is returned and not cached.
func (s *HolidayService) Holidays(ctx context.Context, year int) ([]domain.Holiday, error) {
	if year < MinHolidayYear || year > MaxHolidayYear {
		return nil, fmt.Errorf("%w: %d (supported %d-%d)", domain.ErrInvalidYear, year, MinHolidayYear, MaxHolidayYear)
	}

	if cached, err := s.cache.Get(ctx, year); err == nil {
		return slices.Clone(cached), nil
	}

	v, _, _ := s.group.Do(strconv.Itoa(year), func() (interface{}, error) {
		if cached, err := s.cache.Get(ctx, year); err == nil {
			return cached, nil
		}
		return s.load(ctx, year), nil
	})

	return slices.Clone(v.([]domain.Holiday)), nil
}

func (s *HolidayService) load(ctx context.Context, year int) []domain.Holiday {
	entries, err := s.client.PublicHolidays(ctx, year, s.country)
	if err != nil {
		log.Warn().Err(err).Str("component", "holidays").Int("year", year).Msg("using computed fallback holidays")
		return sortByDate(FallbackHolidays(year))
	}

	holidays := append(nager.MapToHolidays(entries, HolidayColor), AdditionalHolidays(year)...)
	holidays = sortByDate(holidays)

	if err := s.cache.Set(ctx, year, holidays, 0); err != nil {
		log.Warn().Err(err).Str("component", "holidays").Int("year", year).Msg("failed to cache holidays")
	}
	return holidays
}

func sortByDate(holidays []domain.Holiday) []domain.Holiday {
	sort.SliceStable(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})
	return holidays
}
