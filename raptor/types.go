package raptor

// Leg is one raw journey segment as reported by the engine. Stop fields are
// positions into the dataset stop slice, not persistent stop ids; callers
// resolve them through the stop index.
type Leg struct {
	FromStop  int
	ToStop    int
	Departure int // seconds since local midnight, may exceed 86400
	Arrival   int
	Route     string // empty for a walking transfer
	Transfer  bool
	Direction string

	// Parallel arrays: IntermediateStops[i] arrives at IntermediateArrivals[i].
	IntermediateStops    []int
	IntermediateArrivals []int
}

// Journey is an ordered list of legs from one origin to one destination.
type Journey struct {
	Legs []Leg
}
