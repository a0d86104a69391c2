package races

import "time"

// Race is one event from the public race catalog. Used both for the
// catalog endpoint and as input to the coach recommendations.
type Race struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Description string    `json:"description,omitempty"`
	DistanceKm  float64   `json:"distanceKm"`
	Difficulty  string    `json:"difficulty"`
	Terrain     string    `json:"terrain"`
	PriceUSD    float64   `json:"priceUsd"`
	StartsAt    time.Time `json:"startsAt"`
	CreatedAt   time.Time `json:"createdAt"`
}
