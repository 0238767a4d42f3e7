package holidayapi

// PublicHoliday элемент ответа Nager.Date API
// GET /api/v3/PublicHolidays/{year}/{countryCode}
type PublicHoliday struct {
	Date        string   `json:"date"` // YYYY-MM-DD
	LocalName   string   `json:"localName"`
	Name        string   `json:"name"`
	CountryCode string   `json:"countryCode"`
	Global      bool     `json:"global"`
	Counties    []string `json:"counties"`
	Types       []string `json:"types"`
}
