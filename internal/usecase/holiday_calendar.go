package usecase

import (
	"time"

	"github.com/CarlyGallagher/christmas-planner/internal/domain"
)

const defaultHolidayColor = "#ef4444"

// holidayColors picks overlay colors by holiday name; anything unlisted is red
var holidayColors = map[string]string{
	"Valentine's Day":   "#ec4899",
	"St. Patrick's Day": "#22c55e",
	"April Fools' Day":  "#f97316",
	"Passover":          "#3b82f6",
	"Cinco de Mayo":     "#22c55e",
	"Halloween":         "#f97316",
	"Hanukkah":          "#3b82f6",
	"Kwanzaa":           "#22c55e",
	"Ash Wednesday":     "#a855f7",
}

// HolidayColor returns the overlay color for a holiday name
func HolidayColor(name string) string {
	if c, ok := holidayColors[name]; ok {
		return c
	}
	return defaultHolidayColor
}

func civilDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// nthWeekday returns the nth (1-based) given weekday of a month
func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	first := civilDate(year, month, 1)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+(n-1)*7)
}

// lastWeekday returns the last given weekday of a month
func lastWeekday(year int, month time.Month, weekday time.Weekday) time.Time {
	last := civilDate(year, month+1, 0)
	back := (int(last.Weekday()) - int(weekday) + 7) % 7
	return last.AddDate(0, 0, -back)
}

func holiday(name string, date time.Time) domain.Holiday {
	return domain.Holiday{Name: name, Date: date, Color: HolidayColor(name)}
}

// AdditionalHolidays are observances the public holiday API does not list
func AdditionalHolidays(year int) []domain.Holiday {
	return []domain.Holiday{
		holiday("Groundhog Day", civilDate(year, time.February, 2)),
		holiday("Valentine's Day", civilDate(year, time.February, 14)),
		holiday("St. Patrick's Day", civilDate(year, time.March, 17)),
		holiday("April Fools' Day", civilDate(year, time.April, 1)),
		holiday("Cinco de Mayo", civilDate(year, time.May, 5)),
		holiday("Mother's Day", nthWeekday(year, time.May, time.Sunday, 2)),
		holiday("Father's Day", nthWeekday(year, time.June, time.Sunday, 3)),
		holiday("Halloween", civilDate(year, time.October, 31)),
		holiday("Christmas Eve", civilDate(year, time.December, 24)),
		holiday("Kwanzaa", civilDate(year, time.December, 26)),
		holiday("New Year's Eve", civilDate(year, time.December, 31)),
	}
}

// FallbackHolidays computes the US federal holidays plus AdditionalHolidays, used when
// the public holiday API cannot be reached.
func FallbackHolidays(year int) []domain.Holiday {
	federal := []domain.Holiday{
		holiday("New Year's Day", civilDate(year, time.January, 1)),
		holiday("Martin Luther King Jr. Day", nthWeekday(year, time.January, time.Monday, 3)),
		holiday("Washington's Birthday", nthWeekday(year, time.February, time.Monday, 3)),
		holiday("Memorial Day", lastWeekday(year, time.May, time.Monday)),
		holiday("Juneteenth", civilDate(year, time.June, 19)),
		holiday("Independence Day", civilDate(year, time.July, 4)),
		holiday("Labor Day", nthWeekday(year, time.September, time.Monday, 1)),
		holiday("Columbus Day", nthWeekday(year, time.October, time.Monday, 2)),
		holiday("Veterans Day", civilDate(year, time.November, 11)),
		holiday("Thanksgiving", nthWeekday(year, time.November, time.Thursday, 4)),
		holiday("Christmas Day", civilDate(year, time.December, 25)),
	}
	return append(federal, AdditionalHolidays(year)...)
}

// SameDay compares calendar dates, ignoring time of day
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// HolidayForDate returns the first holiday falling on date
func HolidayForDate(date time.Time, holidays []domain.Holiday) (domain.Holiday, bool) {
	for _, h := range holidays {
		if SameDay(h.Date, date) {
			return h, true
		}
	}
	return domain.Holiday{}, false
}
