package timetable

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestDataset_WriteLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	stopsPath := filepath.Join(dir, "stops.bin")
	routesPath := filepath.Join(dir, "routes.bin")

	stops := []Stop{
		{ID: 1, Name: "Bellecour", Lat: 45.7578, Lon: 4.8320},
		{ID: 2, Name: "Gare Part-Dieu", Lat: 45.7606, Lon: 4.8590},
	}
	routes := []Route{{
		Name:      "A",
		Direction: "0",
		Stops:     []int{0, 1},
		Trips:     []Trip{{Departures: []int{28800, 29400}, Arrivals: []int{28800, 29400}}},
	}}
	transfers := []Transfer{{From: 0, To: 1, Duration: 120}}

	if err := WriteStops(stops, stopsPath); err != nil {
		t.Fatalf("WriteStops failed: %v", err)
	}
	if err := WriteRoutes(routes, transfers, routesPath); err != nil {
		t.Fatalf("WriteRoutes failed: %v", err)
	}

	data, err := LoadDataset(stopsPath, routesPath)
	if err != nil {
		t.Fatalf("LoadDataset failed: %v", err)
	}
	if !reflect.DeepEqual(data.Stops, stops) {
		t.Errorf("stops round trip mismatch: %+v", data.Stops)
	}
	if !reflect.DeepEqual(data.Routes, routes) {
		t.Errorf("routes round trip mismatch: %+v", data.Routes)
	}
	if !reflect.DeepEqual(data.Transfers, transfers) {
		t.Errorf("transfers round trip mismatch: %+v", data.Transfers)
	}
}

func TestLoadDataset_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadDataset(filepath.Join(dir, "none.bin"), filepath.Join(dir, "none2.bin")); err == nil {
		t.Error("expected error for missing stop table")
	}

	stopsPath := filepath.Join(dir, "stops.bin")
	if err := WriteStops([]Stop{{ID: 1, Name: "A"}}, stopsPath); err != nil {
		t.Fatalf("WriteStops failed: %v", err)
	}
	if _, err := LoadDataset(stopsPath, filepath.Join(dir, "none2.bin")); err == nil {
		t.Error("expected error for missing route table")
	}
}
