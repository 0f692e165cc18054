package journeyplanner

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// maxNearestLimit bounds the nearest-stop result count a request can ask for.
const maxNearestLimit = 50

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type healthResponse struct {
	Status string `json:"status"`
	Ready  bool   `json:"ready"`
}

func handleHealth(p *Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{
			Status: "ok",
			Ready:  p.state.Load() == stateReady,
		})
	}
}

func handleSearchStops(p *Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if strings.TrimSpace(query) == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query parameter q is required"})
			return
		}
		stops, err := p.SearchStops(r.Context(), query)
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, stops)
	}
}

func handleNearestStops(p *Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
		lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
		if errLat != nil || errLon != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "lat and lon parameters are required"})
			return
		}
		limit := 5
		if s := q.Get("limit"); s != "" {
			if v, err := strconv.Atoi(s); err == nil && v > 0 {
				limit = v
			}
		}
		if limit > maxNearestLimit {
			limit = maxNearestLimit
		}
		stops, err := p.FindNearestStops(r.Context(), lat, lon, limit)
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, stops)
	}
}

func handleJourneys(p *Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		origins, errFrom := parseIDList(q.Get("from"))
		destinations, errTo := parseIDList(q.Get("to"))
		if errFrom != nil || errTo != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "from and to must be comma-separated stop ids"})
			return
		}
		departure := -1
		if s := q.Get("departure"); s != "" {
			departure = ParseClock(s)
			if departure < 0 {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "departure must be HH:MM or HH:MM:SS"})
				return
			}
		}
		results, err := p.ComputeJourneys(r.Context(), origins, destinations, departure)
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}

func handleCacheStats(p *Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, p.CacheStatistics())
	}
}

func parseIDList(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
