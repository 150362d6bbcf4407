package domain

// IndicatorFields maps the raw access indicator columns to their report labels,
// in report order.
var IndicatorFields = []struct {
	Field string
	Label string
}{
	{"pop_pct_access_500m_fresh_food_market_score", "Food market"},
	{"pop_pct_access_500m_convenience_score", "Convenience"},
	{"pop_pct_access_500m_public_open_space_any_score", "Any public open space"},
	{"pop_pct_access_500m_public_open_space_large_score", "Large public open space"},
	{"pop_pct_access_500m_pt_any_score", "Public transport stop"},
	{"pop_pct_access_500m_pt_gtfs_freq_20_score", "Public transport with regular service"},
}

// ComparisonSet holds between-city percentiles of each indicator.
type ComparisonSet struct {
	P25 map[string]float64 `json:"p25"`
	P50 map[string]float64 `json:"p50"`
	P75 map[string]float64 `json:"p75"`
}

// CityInfo holds descriptive city details used by resource generation.
type CityInfo struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Year    int     `json:"year"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Zoom    float64 `json:"zoom"`
}

// HasCoordinates reports whether the city has a known location.
func (c CityInfo) HasCoordinates() bool {
	return c.Lat != 0 || c.Lon != 0
}
