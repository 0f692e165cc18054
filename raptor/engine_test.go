package raptor

import (
	"reflect"
	"testing"

	"github.com/theoremus-urban-solutions/journey-planner/timetable"
)

// Stop positions in the fixtures below are array indices; names exist only
// to make failures readable.
func lineDataset() *timetable.Dataset {
	return &timetable.Dataset{
		Stops: []timetable.Stop{
			{ID: 10, Name: "A"},
			{ID: 11, Name: "B"},
			{ID: 12, Name: "C"},
		},
		Routes: []timetable.Route{
			{
				Name:  "M1",
				Stops: []int{0, 1, 2},
				Trips: []timetable.Trip{
					{Departures: []int{28800, 29000, 29200}, Arrivals: []int{28800, 28980, 29180}},
					{Departures: []int{30000, 30200, 30400}, Arrivals: []int{30000, 30180, 30380}},
				},
			},
		},
	}
}

func TestPlan_SingleLeg(t *testing.T) {
	e := NewEngine(lineDataset(), 5)

	journeys := e.Plan([]int{0}, []int{2}, 28800)
	if len(journeys) != 1 {
		t.Fatalf("len(journeys) = %d, want 1", len(journeys))
	}
	legs := journeys[0].Legs
	if len(legs) != 1 {
		t.Fatalf("len(legs) = %d, want 1", len(legs))
	}
	leg := legs[0]
	if leg.FromStop != 0 || leg.ToStop != 2 {
		t.Errorf("leg endpoints = %d -> %d, want 0 -> 2", leg.FromStop, leg.ToStop)
	}
	if leg.Departure != 28800 || leg.Arrival != 29180 {
		t.Errorf("leg times = %d -> %d, want 28800 -> 29180", leg.Departure, leg.Arrival)
	}
	if leg.Route != "M1" || leg.Transfer {
		t.Errorf("leg route = %q transfer = %v", leg.Route, leg.Transfer)
	}
	if !reflect.DeepEqual(leg.IntermediateStops, []int{1}) {
		t.Errorf("IntermediateStops = %v, want [1]", leg.IntermediateStops)
	}
	if !reflect.DeepEqual(leg.IntermediateArrivals, []int{28980}) {
		t.Errorf("IntermediateArrivals = %v, want [28980]", leg.IntermediateArrivals)
	}
}

func TestPlan_PicksEarliestCatchableTrip(t *testing.T) {
	e := NewEngine(lineDataset(), 5)

	// 29000 misses the first departure at A, must board the 30000 trip.
	journeys := e.Plan([]int{0}, []int{2}, 29000)
	if len(journeys) != 1 {
		t.Fatalf("len(journeys) = %d, want 1", len(journeys))
	}
	if got := journeys[0].Legs[0].Departure; got != 30000 {
		t.Errorf("Departure = %d, want 30000", got)
	}
}

func TestPlan_NoServiceAfterDeparture(t *testing.T) {
	e := NewEngine(lineDataset(), 5)
	if journeys := e.Plan([]int{0}, []int{2}, 40000); len(journeys) != 0 {
		t.Errorf("expected no journeys, got %d", len(journeys))
	}
}

func TestPlan_EmptyInputs(t *testing.T) {
	e := NewEngine(lineDataset(), 5)
	if journeys := e.Plan(nil, []int{2}, 28800); journeys != nil {
		t.Errorf("nil origins: got %v", journeys)
	}
	if journeys := e.Plan([]int{0}, nil, 28800); journeys != nil {
		t.Errorf("nil destinations: got %v", journeys)
	}
}

func TestPlan_FootTransfer(t *testing.T) {
	data := &timetable.Dataset{
		Stops: []timetable.Stop{
			{ID: 1, Name: "A"},
			{ID: 2, Name: "B quai 1"},
			{ID: 3, Name: "B quai 2"},
			{ID: 4, Name: "C"},
		},
		Routes: []timetable.Route{
			{
				Name:  "T1",
				Stops: []int{0, 1},
				Trips: []timetable.Trip{{Departures: []int{28800, 29000}, Arrivals: []int{28800, 29000}}},
			},
			{
				Name:  "T2",
				Stops: []int{2, 3},
				Trips: []timetable.Trip{{Departures: []int{29200, 29500}, Arrivals: []int{29200, 29480}}},
			},
		},
		Transfers: []timetable.Transfer{{From: 1, To: 2, Duration: 120}},
	}
	e := NewEngine(data, 5)

	journeys := e.Plan([]int{0}, []int{3}, 28800)
	if len(journeys) != 1 {
		t.Fatalf("len(journeys) = %d, want 1", len(journeys))
	}
	legs := journeys[0].Legs
	if len(legs) != 3 {
		t.Fatalf("len(legs) = %d, want transit+walk+transit", len(legs))
	}
	if legs[0].Route != "T1" || legs[0].ToStop != 1 {
		t.Errorf("leg 0 = %+v", legs[0])
	}
	walk := legs[1]
	if !walk.Transfer || walk.FromStop != 1 || walk.ToStop != 2 {
		t.Errorf("leg 1 should walk 1 -> 2, got %+v", walk)
	}
	if walk.Departure != 29000 || walk.Arrival != 29120 {
		t.Errorf("walk times = %d -> %d, want 29000 -> 29120", walk.Departure, walk.Arrival)
	}
	if legs[2].Route != "T2" || legs[2].Arrival != 29480 {
		t.Errorf("leg 2 = %+v", legs[2])
	}
}

// An extra transfer is only reported when it strictly beats the previous
// round's arrival.
func TestPlan_TransferTradeoff(t *testing.T) {
	data := &timetable.Dataset{
		Stops: []timetable.Stop{
			{ID: 1, Name: "A"},
			{ID: 2, Name: "B"},
			{ID: 3, Name: "C"},
		},
		Routes: []timetable.Route{
			{
				Name:  "Direct",
				Stops: []int{0, 2},
				Trips: []timetable.Trip{{Departures: []int{28800, 30000}, Arrivals: []int{28800, 30000}}},
			},
			{
				Name:  "Fast1",
				Stops: []int{0, 1},
				Trips: []timetable.Trip{{Departures: []int{28800, 28900}, Arrivals: []int{28800, 28900}}},
			},
			{
				Name:  "Fast2",
				Stops: []int{1, 2},
				Trips: []timetable.Trip{{Departures: []int{29000, 29200}, Arrivals: []int{29000, 29200}}},
			},
		},
	}
	e := NewEngine(data, 5)

	journeys := e.Plan([]int{0}, []int{2}, 28800)
	if len(journeys) != 2 {
		t.Fatalf("len(journeys) = %d, want 2", len(journeys))
	}
	if journeys[0].Legs[0].Route != "Direct" || journeys[0].Legs[0].Arrival != 30000 {
		t.Errorf("journey 0 = %+v", journeys[0])
	}
	if len(journeys[1].Legs) != 2 || journeys[1].Legs[1].Arrival != 29200 {
		t.Errorf("journey 1 = %+v", journeys[1])
	}

	// With a single round the two-leg option is out of reach.
	e1 := NewEngine(data, 1)
	journeys = e1.Plan([]int{0}, []int{2}, 28800)
	if len(journeys) != 1 || journeys[0].Legs[0].Route != "Direct" {
		t.Errorf("maxRounds 1: got %+v", journeys)
	}
}

func TestPlan_MultipleOriginsAndDestinations(t *testing.T) {
	e := NewEngine(lineDataset(), 5)

	// Position 1 boards mid-route; it wins over position 0 in arrival terms
	// only when both reach the destination, which they do on the same trip.
	journeys := e.Plan([]int{0, 1}, []int{2}, 28900)
	if len(journeys) != 1 {
		t.Fatalf("len(journeys) = %d, want 1", len(journeys))
	}
	// 28900 misses the 28800 boarding at A but catches the same trip at B.
	leg := journeys[0].Legs[0]
	if leg.FromStop != 1 || leg.Departure != 29000 || leg.Arrival != 29180 {
		t.Errorf("leg = %+v, want boarding at position 1", leg)
	}
}
