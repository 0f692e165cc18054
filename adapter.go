package journeyplanner

import (
	"github.com/theoremus-urban-solutions/journey-planner/journey"
	"github.com/theoremus-urban-solutions/journey-planner/raptor"
	"github.com/theoremus-urban-solutions/journey-planner/timetable"
)

// journeyEngine is the computation the planner delegates to. Satisfied by
// *raptor.Engine; tests substitute counting stubs.
type journeyEngine interface {
	Plan(origins, destinations []int, departure int) []raptor.Journey
}

// mapJourneys resolves raw engine journeys against the stop index. A
// journey whose leg endpoints or intermediate stops cannot all be resolved
// is discarded whole: a journey with a gap is not a journey. Occasional
// unresolvable positions are expected (dataset generation skew) and must
// never surface as an error.
func mapJourneys(raw []raptor.Journey, index *timetable.StopIndex) []journey.Result {
	out := make([]journey.Result, 0, len(raw))
	for _, rj := range raw {
		if res, ok := mapJourney(rj, index); ok {
			out = append(out, res)
		}
	}
	return out
}

func mapJourney(rj raptor.Journey, index *timetable.StopIndex) (journey.Result, bool) {
	if len(rj.Legs) == 0 {
		return journey.Result{}, false
	}
	legs := make([]journey.Leg, 0, len(rj.Legs))
	for _, rl := range rj.Legs {
		leg, ok := mapLeg(rl, index)
		if !ok {
			return journey.Result{}, false
		}
		legs = append(legs, leg)
	}
	departure := legs[0].DepartureSeconds
	arrival := legs[len(legs)-1].ArrivalSeconds
	return journey.Result{
		DepartureSeconds: departure,
		ArrivalSeconds:   arrival,
		DurationMinutes:  (arrival - departure) / 60,
		Legs:             legs,
	}, true
}

func mapLeg(rl raptor.Leg, index *timetable.StopIndex) (journey.Leg, bool) {
	from, okFrom := index.StopAt(rl.FromStop)
	to, okTo := index.StopAt(rl.ToStop)
	if !okFrom || !okTo {
		return journey.Leg{}, false
	}
	leg := journey.Leg{
		FromStopName:     from.Name,
		FromLat:          from.Lat,
		FromLon:          from.Lon,
		ToStopName:       to.Name,
		ToLat:            to.Lat,
		ToLon:            to.Lon,
		DepartureSeconds: rl.Departure,
		ArrivalSeconds:   rl.Arrival,
		RouteName:        rl.Route,
		Walking:          rl.Transfer,
		Direction:        rl.Direction,
	}
	// Misaligned parallel arrays: iterate the common prefix, the overhang is
	// skipped. An unresolvable intermediate position sinks the leg.
	n := len(rl.IntermediateStops)
	if len(rl.IntermediateArrivals) < n {
		n = len(rl.IntermediateArrivals)
	}
	for i := 0; i < n; i++ {
		stop, ok := index.StopAt(rl.IntermediateStops[i])
		if !ok {
			return journey.Leg{}, false
		}
		leg.Intermediate = append(leg.Intermediate, journey.IntermediateStop{
			Name:           stop.Name,
			ArrivalSeconds: rl.IntermediateArrivals[i],
			Lat:            stop.Lat,
			Lon:            stop.Lon,
		})
	}
	return leg, true
}
