package domain

// GeocodingResult is a resolved address with coordinates, as returned by the
// external geocoding provider.
type GeocodingResult struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formattedAddress"`
	City             string  `json:"city,omitempty"`
	PostalCode       string  `json:"postalCode,omitempty"`
	Context          string  `json:"context,omitempty"`
	Score            float64 `json:"score"`
}
