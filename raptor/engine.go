package raptor

import (
	"math"

	"github.com/theoremus-urban-solutions/journey-planner/timetable"
)

const unreached = math.MaxInt32

// Sentinel route markers in labels.
const (
	routeOrigin = -2
	routeWalk   = -1
)

// stopRoutePair links a stop position to a route serving it and the offset
// of the stop within that route's sequence.
type stopRoutePair struct {
	route  int
	offset int
}

// label carries the best known arrival at a stop for a given round, plus the
// boarding information needed to reconstruct the journey afterwards.
type label struct {
	arrival   int
	route     int // route index, routeWalk, or routeOrigin
	trip      int
	boardOff  int // offset of the boarding stop within the route
	alightOff int
	fromStop  int // walking legs: the stop walked from
}

// Engine runs round-based journey queries over a loaded dataset. Each round
// explores journeys with one more transfer than the last; rounds stop early
// once nothing improves. The dataset is read-only, so one Engine serves
// concurrent queries without locking.
type Engine struct {
	data       *timetable.Dataset
	stopRoutes [][]stopRoutePair
	transfers  [][]timetable.Transfer
	maxRounds  int
}

// NewEngine derives the per-stop route and transfer adjacency once.
func NewEngine(data *timetable.Dataset, maxRounds int) *Engine {
	n := len(data.Stops)
	e := &Engine{
		data:       data,
		stopRoutes: make([][]stopRoutePair, n),
		transfers:  make([][]timetable.Transfer, n),
		maxRounds:  maxRounds,
	}
	for r, route := range data.Routes {
		for off, pos := range route.Stops {
			if pos >= 0 && pos < n {
				e.stopRoutes[pos] = append(e.stopRoutes[pos], stopRoutePair{route: r, offset: off})
			}
		}
	}
	for _, tr := range data.Transfers {
		if tr.From >= 0 && tr.From < n && tr.To >= 0 && tr.To < n {
			e.transfers[tr.From] = append(e.transfers[tr.From], tr)
		}
	}
	return e
}

// Plan computes journeys from any origin position to any destination
// position, departing no earlier than departure (seconds since midnight).
// Output holds at most one journey per round: the first round reaching a
// destination, then every later round that arrives strictly earlier (a
// trade-off of transfers against arrival time). Empty inputs short-circuit
// to an empty result.
func (e *Engine) Plan(origins, destinations []int, departure int) []Journey {
	if len(origins) == 0 || len(destinations) == 0 {
		return nil
	}
	n := len(e.data.Stops)

	rounds := make([][]label, 1, e.maxRounds+1)
	rounds[0] = e.initialRound(n, origins, departure)

	for r := 1; r <= e.maxRounds; r++ {
		cur, improved := e.runRound(rounds[r-1])
		if !improved {
			break
		}
		rounds = append(rounds, cur)
	}

	var journeys []Journey
	bestArrival := unreached
	for r := range rounds {
		dest, arr := e.bestDestination(rounds[r], destinations)
		if dest < 0 || arr >= bestArrival {
			continue
		}
		if j, ok := e.reconstruct(rounds, r, dest); ok {
			journeys = append(journeys, j)
			bestArrival = arr
		}
	}
	return journeys
}

func (e *Engine) initialRound(n int, origins []int, departure int) []label {
	cur := make([]label, n)
	for i := range cur {
		cur[i] = label{arrival: unreached}
	}
	touched := make([]int, 0, len(origins))
	for _, o := range origins {
		if o < 0 || o >= n {
			continue
		}
		if departure < cur[o].arrival {
			cur[o] = label{arrival: departure, route: routeOrigin}
			touched = append(touched, o)
		}
	}
	e.relaxTransfers(cur, touched)
	return cur
}

// runRound copies the previous round's labels forward, scans every route
// touched by an improved stop, then relaxes foot transfers from the stops a
// vehicle improved. Returns false when the round changed nothing.
func (e *Engine) runRound(prev []label) ([]label, bool) {
	cur := make([]label, len(prev))
	copy(cur, prev)

	// route -> earliest boarding offset reachable from last round
	queue := map[int]int{}
	for pos := range prev {
		if prev[pos].arrival == unreached {
			continue
		}
		for _, sr := range e.stopRoutes[pos] {
			if off, ok := queue[sr.route]; !ok || sr.offset < off {
				queue[sr.route] = sr.offset
			}
		}
	}

	var improved []int
	for ri, startOff := range queue {
		route := &e.data.Routes[ri]
		trip := -1
		boardOff := 0
		for off := startOff; off < len(route.Stops); off++ {
			pos := route.Stops[off]
			if trip >= 0 {
				arr := route.Trips[trip].Arrivals[off]
				if arr < cur[pos].arrival {
					cur[pos] = label{
						arrival:   arr,
						route:     ri,
						trip:      trip,
						boardOff:  boardOff,
						alightOff: off,
					}
					improved = append(improved, pos)
				}
			}
			// Could last round's arrival here board an earlier trip?
			if ready := prev[pos].arrival; ready != unreached {
				if t := e.earliestTrip(route, off, ready); t >= 0 {
					if trip < 0 || route.Trips[t].Departures[off] < route.Trips[trip].Departures[off] {
						trip = t
						boardOff = off
					}
				}
			}
		}
	}

	walked := e.relaxTransfers(cur, improved)
	return cur, len(improved) > 0 || walked > 0
}

// earliestTrip returns the index of the earliest trip of route catchable at
// offset off no earlier than ready, or -1. Trips are sorted by departure.
func (e *Engine) earliestTrip(route *timetable.Route, off, ready int) int {
	for t := range route.Trips {
		if route.Trips[t].Departures[off] >= ready {
			return t
		}
	}
	return -1
}

func (e *Engine) relaxTransfers(cur []label, from []int) int {
	walked := 0
	for _, pos := range from {
		base := cur[pos]
		if base.arrival == unreached || base.route == routeWalk {
			continue
		}
		for _, tr := range e.transfers[pos] {
			arr := base.arrival + tr.Duration
			if arr < cur[tr.To].arrival {
				cur[tr.To] = label{arrival: arr, route: routeWalk, fromStop: pos}
				walked++
			}
		}
	}
	return walked
}

func (e *Engine) bestDestination(round []label, destinations []int) (int, int) {
	best := -1
	bestArr := unreached
	for _, d := range destinations {
		if d < 0 || d >= len(round) {
			continue
		}
		if arr := round[d].arrival; arr < bestArr {
			best = d
			bestArr = arr
		}
	}
	return best, bestArr
}

// reconstruct walks labels backwards from the destination: a transit label
// consumes one round, a walking label stays within its round. The leg list
// is accumulated in reverse and flipped at the end.
func (e *Engine) reconstruct(rounds [][]label, r, dest int) (Journey, bool) {
	var legs []Leg
	cur := dest
	round := r
	for steps := 0; steps < len(rounds)*2+2; steps++ {
		lb := rounds[round][cur]
		switch lb.route {
		case routeOrigin:
			reverse(legs)
			if len(legs) == 0 {
				return Journey{}, false
			}
			return Journey{Legs: legs}, true
		case routeWalk:
			from := rounds[round][lb.fromStop]
			legs = append(legs, Leg{
				FromStop:  lb.fromStop,
				ToStop:    cur,
				Departure: from.arrival,
				Arrival:   lb.arrival,
				Transfer:  true,
			})
			cur = lb.fromStop
		default:
			route := &e.data.Routes[lb.route]
			trip := &route.Trips[lb.trip]
			leg := Leg{
				FromStop:  route.Stops[lb.boardOff],
				ToStop:    route.Stops[lb.alightOff],
				Departure: trip.Departures[lb.boardOff],
				Arrival:   trip.Arrivals[lb.alightOff],
				Route:     route.Name,
				Direction: route.Direction,
			}
			for off := lb.boardOff + 1; off < lb.alightOff; off++ {
				leg.IntermediateStops = append(leg.IntermediateStops, route.Stops[off])
				leg.IntermediateArrivals = append(leg.IntermediateArrivals, trip.Arrivals[off])
			}
			legs = append(legs, leg)
			cur = route.Stops[lb.boardOff]
			if round == 0 {
				return Journey{}, false
			}
			round--
		}
	}
	return Journey{}, false
}

func reverse(legs []Leg) {
	for i, j := 0, len(legs)-1; i < j; i, j = i+1, j-1 {
		legs[i], legs[j] = legs[j], legs[i]
	}
}
