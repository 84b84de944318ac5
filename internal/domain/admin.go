package domain

import "time"

// UserOverview is the flattened account row shown in the back-office user
// listing: login identity plus the headline fields of whichever profile the
// user holds.
type UserOverview struct {
	ID          int64       `json:"id"`
	Email       string      `json:"email"`
	LastName    string      `json:"lastName"`
	FirstName   string      `json:"firstName"`
	AccountType AccountType `json:"accountType"`
	Phone       string      `json:"phone,omitempty"`
	City        string      `json:"city,omitempty"`
	IsActive    bool        `json:"isActive"`
	CreatedAt   time.Time   `json:"createdAt"`
	CompanyName string      `json:"companyName,omitempty"`
	Trade       string      `json:"trade,omitempty"`
}

// ActivityItem is one entry of a user's recent activity feed.
type ActivityItem struct {
	Type  string    `json:"type"` // "contrat" or "candidature"
	Label string    `json:"label"`
	Date  time.Time `json:"date"`
}

// PlatformStats are the global back-office counters.
type PlatformStats struct {
	TotalUsers       int64 `json:"totalUsers"`
	TotalFreelancers int64 `json:"totalFreelancers"`
	TotalCompanies   int64 `json:"totalCompanies"`
	TotalContracts   int64 `json:"totalContracts"`
	TotalTenders     int64 `json:"totalTenders"`
}

// MapPoint is one pin of the back-office map view.
type MapPoint struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MapData groups the map pins by profile kind. Profiles carry no stored
// coordinates, so pins default to the geographic centre of France until a
// geocoding pass fills them in.
type MapData struct {
	Freelancers []MapPoint `json:"freelancers"`
	Companies   []MapPoint `json:"companies"`
}

// Default pin position for profiles without resolved coordinates.
const (
	FranceCenterLat = 46.603354
	FranceCenterLon = 1.888334
)
