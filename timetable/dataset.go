package timetable

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"os"
)

// routeTable is the on-disk layout of the route asset.
type routeTable struct {
	Routes    []Route
	Transfers []Transfer
}

// LoadDataset decodes the two binary timetable assets. Any decode error is
// returned as-is; callers decide whether to retry.
func LoadDataset(stopsPath, routesPath string) (*Dataset, error) {
	stops, err := readStops(stopsPath)
	if err != nil {
		return nil, fmt.Errorf("stop table: %w", err)
	}
	rt, err := readRoutes(routesPath)
	if err != nil {
		return nil, fmt.Errorf("route table: %w", err)
	}
	return &Dataset{Stops: stops, Routes: rt.Routes, Transfers: rt.Transfers}, nil
}

func readStops(path string) ([]Stop, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var stops []Stop
	if err := gob.NewDecoder(bufio.NewReader(f)).Decode(&stops); err != nil {
		return nil, fmt.Errorf("failed to decode stop table: %w", err)
	}
	return stops, nil
}

func readRoutes(path string) (*routeTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var rt routeTable
	if err := gob.NewDecoder(bufio.NewReader(f)).Decode(&rt); err != nil {
		return nil, fmt.Errorf("failed to decode route table: %w", err)
	}
	return &rt, nil
}

// WriteStops encodes the stop table asset. Used by the dataset builder and
// by tests that need a throwaway dataset on disk.
func WriteStops(stops []Stop, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := gob.NewEncoder(w).Encode(stops); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode stop table: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteRoutes encodes the route/trip table asset.
func WriteRoutes(routes []Route, transfers []Transfer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := gob.NewEncoder(w).Encode(routeTable{Routes: routes, Transfers: transfers}); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode route table: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
