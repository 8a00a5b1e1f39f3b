package nager

import (
	"time"

	"github.com/CarlyGallagher/christmas-planner/internal/domain"
)

const dateLayout = "2006-01-02"

// ColorFunc picks the overlay color for a holiday name
type ColorFunc func(name string) string

// MapToHolidays converts API entries into calendar holidays. Entries with an
// unparseable date are skipped.
func MapToHolidays(entries []domain.PublicHoliday, color ColorFunc) []domain.Holiday {
	holidays := make([]domain.Holiday, 0, len(entries))
	for _, e := range entries {
		date, err := time.Parse(dateLayout, e.Date)
		if err != nil {
			continue
		}
		holidays = append(holidays, domain.Holiday{
			Name:  e.Name,
			Date:  date,
			Color: color(e.Name),
		})
	}
	return holidays
}
