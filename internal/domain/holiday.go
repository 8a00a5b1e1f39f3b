package domain

import "time"

// Holiday is a calendar overlay entry
type Holiday struct {
	Name  string    `json:"name"`
	Date  time.Time `json:"date"` // midnight UTC
	Color string    `json:"color"`
}

// PublicHoliday is a single entry from the Nager.Date public holiday API
type PublicHoliday struct {
	Date        string `json:"date"` // YYYY-MM-DD
	LocalName   string `json:"localName"`
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
	Global      bool   `json:"global"`
}
