package timetable

// Stop is one physical platform of the static dataset. ID is stable within a
// dataset generation; Name is a display string shared by sibling platforms.
type Stop struct {
	ID   int     `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Trip is one scheduled run along a route. Times are seconds since local
// midnight and may exceed 86400 for services running past midnight.
// Departures and Arrivals are parallel to the route's stop sequence.
type Trip struct {
	Departures []int
	Arrivals   []int
}

// Route is a line pattern: an ordered sequence of stop positions (indices
// into the dataset stop slice, not stop IDs) served by a set of trips
// sorted by first departure.
type Route struct {
	Name      string
	Direction string
	Stops     []int
	Trips     []Trip
}

// Transfer is a foot connection between two stop positions.
type Transfer struct {
	From     int
	To       int
	Duration int // seconds
}

// Dataset is the fully decoded static timetable. It is written once by the
// dataset builder, decoded once at initialization, and read-only afterwards.
type Dataset struct {
	Stops     []Stop
	Routes    []Route
	Transfers []Transfer
}
