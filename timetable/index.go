package timetable

import (
	"sort"
	"strings"
)

// StopIndex provides name search and nearest-stop queries over the loaded
// stop slice. It is built once after the dataset decodes and is read-only
// afterwards, so concurrent readers need no locking.
type StopIndex struct {
	stops      []Stop   // position -> stop; engine legs reference positions
	normalized []string // position -> precomputed NormalizeName(stop.Name)
	byID       map[int]int
}

// NewStopIndex builds the derived lookup structures. Normalization happens
// here exactly once per stop, never per query.
func NewStopIndex(stops []Stop) *StopIndex {
	ix := &StopIndex{
		stops:      stops,
		normalized: make([]string, len(stops)),
		byID:       make(map[int]int, len(stops)),
	}
	for i, s := range stops {
		ix.normalized[i] = NormalizeName(s.Name)
		if _, ok := ix.byID[s.ID]; !ok {
			ix.byID[s.ID] = i
		}
	}
	return ix
}

// StopAt resolves an engine-reported stop position.
func (ix *StopIndex) StopAt(pos int) (Stop, bool) {
	if ix == nil || pos < 0 || pos >= len(ix.stops) {
		return Stop{}, false
	}
	return ix.stops[pos], true
}

// PositionOf resolves a persistent stop ID to its position in the stop slice.
func (ix *StopIndex) PositionOf(id int) (int, bool) {
	if ix == nil {
		return 0, false
	}
	pos, ok := ix.byID[id]
	return pos, ok
}

// Len returns the number of indexed stops.
func (ix *StopIndex) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.stops)
}

// Search returns stops matching a free-text query. Stage 1 keeps only stops
// whose normalized name contains the first query token (cheap substring
// prefilter over thousands of entries); stage 2 runs the full token match on
// the survivors. Prefix matches rank first, then display-name order.
func (ix *StopIndex) Search(query string) []Stop {
	if ix == nil {
		return []Stop{}
	}
	q := NormalizeName(query)
	if q == "" {
		return []Stop{}
	}
	tokens := strings.Fields(q)
	first := tokens[0]

	type match struct {
		stop   Stop
		prefix bool
	}
	var matches []match
	for i, norm := range ix.normalized {
		if !strings.Contains(norm, first) {
			continue
		}
		if !containsAllTokens(norm, tokens) {
			continue
		}
		matches = append(matches, match{stop: ix.stops[i], prefix: strings.HasPrefix(norm, q)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].prefix != matches[j].prefix {
			return matches[i].prefix
		}
		return matches[i].stop.Name < matches[j].stop.Name
	})
	out := make([]Stop, len(matches))
	for i, m := range matches {
		out[i] = m.stop
	}
	return out
}

// containsAllTokens reports whether every query token occurs somewhere in
// the normalized name. Tokens may be partial words and appear in any order.
func containsAllTokens(norm string, tokens []string) bool {
	for _, t := range tokens {
		if !strings.Contains(norm, t) {
			return false
		}
	}
	return true
}

// Nearest returns up to limit stops closest to the query point, de-duplicated
// by name (sibling platforms count as one candidate, the closest wins).
// Distance is planar Euclidean in degrees; at city scale the error is
// irrelevant for ranking. Returns an empty slice when the index is empty.
func (ix *StopIndex) Nearest(lat, lon float64, limit int) []Stop {
	if ix == nil || len(ix.stops) == 0 || limit <= 0 {
		return []Stop{}
	}
	// limit comes from callers (ultimately query strings); never allocate
	// beyond the stop count.
	if limit > len(ix.stops) {
		limit = len(ix.stops)
	}
	type candidate struct {
		stop Stop
		d2   float64
	}
	candidates := make([]candidate, len(ix.stops))
	for i, s := range ix.stops {
		dLat := s.Lat - lat
		dLon := s.Lon - lon
		candidates[i] = candidate{stop: s, d2: dLat*dLat + dLon*dLon}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].d2 < candidates[j].d2 })

	out := make([]Stop, 0, limit)
	seen := make(map[string]struct{}, limit)
	for _, c := range candidates {
		if _, dup := seen[c.stop.Name]; dup {
			continue
		}
		seen[c.stop.Name] = struct{}{}
		out = append(out, c.stop)
		if len(out) == limit {
			break
		}
	}
	return out
}
