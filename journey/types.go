// Package journey defines the resolved journey types returned to callers
// and persisted by the cache tiers.
package journey

// IntermediateStop is a passed-through stop on a leg, fully resolved: a leg
// never carries an intermediate without both a stop and an arrival time.
type IntermediateStop struct {
	Name           string  `json:"name"`
	ArrivalSeconds int     `json:"arrivalSeconds"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
}

// Leg is one continuous segment on a single route, or a single walking
// transfer when Walking is set (RouteName is empty in that case).
type Leg struct {
	FromStopName     string             `json:"fromStopName"`
	FromLat          float64            `json:"fromLat"`
	FromLon          float64            `json:"fromLon"`
	ToStopName       string             `json:"toStopName"`
	ToLat            float64            `json:"toLat"`
	ToLon            float64            `json:"toLon"`
	DepartureSeconds int                `json:"departureSeconds"`
	ArrivalSeconds   int                `json:"arrivalSeconds"`
	RouteName        string             `json:"routeName,omitempty"`
	Walking          bool               `json:"walking"`
	Direction        string             `json:"direction,omitempty"`
	Intermediate     []IntermediateStop `json:"intermediate,omitempty"`
}

// Result is one complete itinerary. Legs is never empty; departure and
// arrival mirror the first and last leg.
type Result struct {
	DepartureSeconds int   `json:"departureSeconds"`
	ArrivalSeconds   int   `json:"arrivalSeconds"`
	DurationMinutes  int   `json:"durationMinutes"`
	Legs             []Leg `json:"legs"`
}
