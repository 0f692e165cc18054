package timetable

import (
	"archive/zip"
	"encoding/csv"
	"sort"
	"strconv"
	"strings"
)

// gtfsAccumulator collects the raw GTFS rows needed to assemble a Dataset.
type gtfsAccumulator struct {
	stopIDs      []string              // stops.txt order
	stopNames    map[string]string     // stop_id -> name
	stopCoord    map[string][2]float64 // stop_id -> [lat,lon]
	routeNames   map[string]string     // route_id -> short_name
	tripToRoute  map[string]string     // trip_id -> route_id
	tripHeadsign map[string]string     // trip_id -> headsign
	tripDir      map[string]string     // trip_id -> direction_id
	stopTimes    map[string][]stopTimeRow
	transfers    []gtfsTransferRow
}

type stopTimeRow struct {
	stop string
	seq  int
	arr  int
	dep  int
}

type gtfsTransferRow struct {
	from, to string
	duration int
}

// sameNameTransferSeconds is the walking penalty between platforms sharing a
// display name when the feed ships no transfers.txt entry for the pair.
const sameNameTransferSeconds = 120

// BuildFromGTFSZip converts a GTFS static zip into the binary-asset Dataset:
// trips sharing a route, direction and stop sequence collapse into one
// engine route, and same-name platforms get foot transfers.
func BuildFromGTFSZip(path string) (*Dataset, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	acc := &gtfsAccumulator{
		stopNames:    map[string]string{},
		stopCoord:    map[string][2]float64{},
		routeNames:   map[string]string{},
		tripToRoute:  map[string]string{},
		tripHeadsign: map[string]string{},
		tripDir:      map[string]string{},
		stopTimes:    map[string][]stopTimeRow{},
	}
	for _, f := range zr.File {
		name := strings.ToLower(f.Name)
		if name == "stops.txt" || name == "routes.txt" || name == "trips.txt" || name == "stop_times.txt" || name == "transfers.txt" {
			if err := acc.consumeCSV(f); err != nil {
				return nil, err
			}
		}
	}
	return acc.assemble(), nil
}

func (a *gtfsAccumulator) consumeCSV(f *zip.File) error {
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	rec, err := csvr.ReadAll()
	if err != nil {
		return err
	}
	if len(rec) == 0 {
		return nil
	}
	head := rec[0]
	idx := func(col string) int {
		for i, h := range head {
			if strings.EqualFold(strings.TrimSpace(h), col) {
				return i
			}
		}
		return -1
	}
	switch strings.ToLower(f.Name) {
	case "stops.txt":
		sID := idx("stop_id")
		sN := idx("stop_name")
		sLat := idx("stop_lat")
		sLon := idx("stop_lon")
		if sID < 0 {
			return nil
		}
		for _, row := range rec[1:] {
			if sID >= len(row) {
				continue
			}
			id := row[sID]
			a.stopIDs = append(a.stopIDs, id)
			if sN >= 0 && sN < len(row) {
				a.stopNames[id] = row[sN]
			}
			if sLat >= 0 && sLon >= 0 && sLat < len(row) && sLon < len(row) {
				lat, _ := strconv.ParseFloat(row[sLat], 64)
				lon, _ := strconv.ParseFloat(row[sLon], 64)
				a.stopCoord[id] = [2]float64{lat, lon}
			}
		}
	case "routes.txt":
		rID := idx("route_id")
		rSN := idx("route_short_name")
		for _, row := range rec[1:] {
			if rID >= 0 && rID < len(row) && rSN >= 0 && rSN < len(row) {
				a.routeNames[row[rID]] = row[rSN]
			}
		}
	case "trips.txt":
		rID := idx("route_id")
		tID := idx("trip_id")
		hs := idx("trip_headsign")
		dir := idx("direction_id")
		for _, row := range rec[1:] {
			if tID < 0 || rID < 0 || tID >= len(row) || rID >= len(row) {
				continue
			}
			a.tripToRoute[row[tID]] = row[rID]
			if hs >= 0 && hs < len(row) {
				a.tripHeadsign[row[tID]] = row[hs]
			}
			if dir >= 0 && dir < len(row) {
				a.tripDir[row[tID]] = row[dir]
			}
		}
	case "stop_times.txt":
		tID := idx("trip_id")
		sID := idx("stop_id")
		sq := idx("stop_sequence")
		arrT := idx("arrival_time")
		depT := idx("departure_time")
		if tID < 0 || sID < 0 || sq < 0 {
			return nil
		}
		for _, row := range rec[1:] {
			if tID >= len(row) || sID >= len(row) || sq >= len(row) {
				continue
			}
			seq, _ := strconv.Atoi(row[sq])
			st := stopTimeRow{stop: row[sID], seq: seq, arr: -1, dep: -1}
			if arrT >= 0 && arrT < len(row) {
				st.arr = ParseGTFSTime(row[arrT])
			}
			if depT >= 0 && depT < len(row) {
				st.dep = ParseGTFSTime(row[depT])
			}
			if st.dep < 0 {
				st.dep = st.arr
			}
			if st.arr < 0 {
				st.arr = st.dep
			}
			a.stopTimes[row[tID]] = append(a.stopTimes[row[tID]], st)
		}
	case "transfers.txt":
		from := idx("from_stop_id")
		to := idx("to_stop_id")
		dur := idx("min_transfer_time")
		if from < 0 || to < 0 {
			return nil
		}
		for _, row := range rec[1:] {
			if from >= len(row) || to >= len(row) {
				continue
			}
			d := sameNameTransferSeconds
			if dur >= 0 && dur < len(row) && row[dur] != "" {
				if v, err := strconv.Atoi(row[dur]); err == nil && v > 0 {
					d = v
				}
			}
			a.transfers = append(a.transfers, gtfsTransferRow{from: row[from], to: row[to], duration: d})
		}
	}
	return nil
}

// ParseGTFSTime converts "HH:MM:SS" to seconds since local midnight.
// Hours may exceed 23 for post-midnight services. Returns -1 when unparsable.
func ParseGTFSTime(s string) int {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return -1
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	sec, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil || h < 0 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return -1
	}
	return h*3600 + m*60 + sec
}

func (a *gtfsAccumulator) assemble() *Dataset {
	// Stop positions follow stops.txt order. Numeric GTFS ids are kept as the
	// persistent stop id; non-numeric ids fall back to the position.
	position := make(map[string]int, len(a.stopIDs))
	stops := make([]Stop, 0, len(a.stopIDs))
	for _, sid := range a.stopIDs {
		if _, dup := position[sid]; dup {
			continue
		}
		id, err := strconv.Atoi(sid)
		if err != nil {
			id = len(stops)
		}
		coord := a.stopCoord[sid]
		position[sid] = len(stops)
		stops = append(stops, Stop{ID: id, Name: a.stopNames[sid], Lat: coord[0], Lon: coord[1]})
	}

	// Group trips by (route, direction, exact stop sequence) into engine routes.
	type groupKey struct {
		route string
		dir   string
		seq   string
	}
	type tripTimes struct {
		deps []int
		arrs []int
	}
	groups := map[groupKey][]tripTimes{}
	groupStops := map[groupKey][]int{}
	for tripID, rows := range a.stopTimes {
		sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
		seqStops := make([]int, 0, len(rows))
		deps := make([]int, 0, len(rows))
		arrs := make([]int, 0, len(rows))
		valid := true
		var sig strings.Builder
		for _, row := range rows {
			pos, ok := position[row.stop]
			if !ok || row.dep < 0 {
				valid = false
				break
			}
			seqStops = append(seqStops, pos)
			deps = append(deps, row.dep)
			arrs = append(arrs, row.arr)
			sig.WriteString(strconv.Itoa(pos))
			sig.WriteByte(',')
		}
		if !valid || len(seqStops) < 2 {
			continue
		}
		key := groupKey{route: a.tripToRoute[tripID], dir: a.tripDir[tripID], seq: sig.String()}
		groups[key] = append(groups[key], tripTimes{deps: deps, arrs: arrs})
		groupStops[key] = seqStops
	}

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].route != keys[j].route {
			return keys[i].route < keys[j].route
		}
		if keys[i].dir != keys[j].dir {
			return keys[i].dir < keys[j].dir
		}
		return keys[i].seq < keys[j].seq
	})

	routes := make([]Route, 0, len(keys))
	for _, k := range keys {
		trips := groups[k]
		sort.Slice(trips, func(i, j int) bool { return trips[i].deps[0] < trips[j].deps[0] })
		rt := Route{
			Name:      a.routeNames[k.route],
			Direction: k.dir,
			Stops:     groupStops[k],
		}
		if rt.Name == "" {
			rt.Name = k.route
		}
		for _, t := range trips {
			rt.Trips = append(rt.Trips, Trip{Departures: t.deps, Arrivals: t.arrs})
		}
		routes = append(routes, rt)
	}

	transfers := a.assembleTransfers(position, stops)
	return &Dataset{Stops: stops, Routes: routes, Transfers: transfers}
}

func (a *gtfsAccumulator) assembleTransfers(position map[string]int, stops []Stop) []Transfer {
	seen := map[[2]int]struct{}{}
	var out []Transfer
	add := func(from, to, duration int) {
		if from == to {
			return
		}
		key := [2]int{from, to}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, Transfer{From: from, To: to, Duration: duration})
	}
	for _, tr := range a.transfers {
		f, okF := position[tr.from]
		t, okT := position[tr.to]
		if okF && okT {
			add(f, t, tr.duration)
			add(t, f, tr.duration)
		}
	}
	// Sibling platforms share a name; connect them both ways so a journey can
	// change lines at the same named stop.
	byName := map[string][]int{}
	for pos, s := range stops {
		if s.Name == "" {
			continue
		}
		byName[s.Name] = append(byName[s.Name], pos)
	}
	for _, positions := range byName {
		for i := 0; i < len(positions); i++ {
			for j := i + 1; j < len(positions); j++ {
				add(positions[i], positions[j], sameNameTransferSeconds)
				add(positions[j], positions[i], sameNameTransferSeconds)
			}
		}
	}
	return out
}
