package journeyplanner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/theoremus-urban-solutions/journey-planner/cache"
	"github.com/theoremus-urban-solutions/journey-planner/config"
	"github.com/theoremus-urban-solutions/journey-planner/journey"
	"github.com/theoremus-urban-solutions/journey-planner/raptor"
	"github.com/theoremus-urban-solutions/journey-planner/timetable"
)

// Initialization states.
const (
	stateUninitialized int32 = iota
	stateInitializing
	stateReady
	stateFailed
)

// ErrInitializing is returned by Initialize when another caller is already
// loading the dataset. It is a no-op outcome, not a failure; queries that
// need readiness block on it instead.
var ErrInitializing = errors.New("initialization already in progress")

// CacheStats aggregates both tiers for diagnostics.
type CacheStats struct {
	Memory cache.MemoryStats `json:"memory"`
	Disk   cache.DiskStats   `json:"disk"`
}

// Planner is the single entry point for stop search, nearest-stop queries
// and cached journey computation. Construct one per process and share it;
// the dataset and index are written once at initialization and read-only
// afterwards.
type Planner struct {
	cfg config.AppConfig

	mu    sync.Mutex // guards initialization only
	state atomic.Int32

	engine journeyEngine
	index  *timetable.StopIndex
	memory *cache.MemoryCache
	disk   *cache.DiskCache

	now func() time.Time
}

// NewPlanner wires the cache tiers but does not touch the dataset assets;
// loading is lazy, on first use or explicit Initialize. A disk tier that
// fails to open is logged and skipped: the persisted cache is an
// optimization, never a correctness dependency.
func NewPlanner(cfg config.AppConfig) *Planner {
	p := &Planner{
		cfg:    cfg,
		memory: cache.NewMemoryCache(cfg.Cache.MemoryCapacity, time.Duration(cfg.Cache.MemoryTTLMinutes)*time.Minute),
		now:    time.Now,
	}
	if cfg.Cache.DiskPath != "" {
		disk, err := cache.OpenDiskCache(cfg.Cache.DiskPath)
		if err != nil {
			log.Printf("disk cache unavailable: %v", err)
		} else {
			p.disk = disk
		}
	}
	return p
}

// Initialize decodes the timetable assets and builds the stop index. It
// never blocks behind another initializer: a concurrent attempt returns
// ErrInitializing. Decode failures are propagated and retryable; the next
// call starts over.
func (p *Planner) Initialize(ctx context.Context) error {
	if p.state.Load() == stateReady {
		return nil
	}
	if !p.mu.TryLock() {
		return ErrInitializing
	}
	defer p.mu.Unlock()
	return p.initLocked(ctx)
}

// ensureReady is the blocking variant used by queries: first caller loads,
// the rest wait on the mutex. The common case (already READY) pays one
// atomic load and no lock.
func (p *Planner) ensureReady(ctx context.Context) error {
	if p.state.Load() == stateReady {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initLocked(ctx)
}

func (p *Planner) initLocked(ctx context.Context) error {
	if p.state.Load() == stateReady {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p.state.Store(stateInitializing)
	started := p.now()
	data, err := timetable.LoadDataset(p.cfg.Dataset.StopsPath, p.cfg.Dataset.RoutesPath)
	if err != nil {
		p.state.Store(stateFailed)
		return fmt.Errorf("timetable initialization failed: %w", err)
	}
	p.index = timetable.NewStopIndex(data.Stops)
	p.engine = raptor.NewEngine(data, p.cfg.Router.MaxRounds)
	p.state.Store(stateReady)
	log.Printf("timetable ready: %d stops, %d routes in %s", len(data.Stops), len(data.Routes), time.Since(started))
	return nil
}

// SearchStops returns stops matching a free-text query, best matches first.
func (p *Planner) SearchStops(ctx context.Context, query string) ([]timetable.Stop, error) {
	if err := p.ensureReady(ctx); err != nil {
		return nil, err
	}
	return p.index.Search(query), nil
}

// FindNearestStops returns up to limit stops closest to the point,
// de-duplicated by name.
func (p *Planner) FindNearestStops(ctx context.Context, lat, lon float64, limit int) ([]timetable.Stop, error) {
	if err := p.ensureReady(ctx); err != nil {
		return nil, err
	}
	return p.index.Nearest(lat, lon, limit), nil
}

// FindClosestStop returns the single closest stop, if any.
func (p *Planner) FindClosestStop(ctx context.Context, lat, lon float64) (timetable.Stop, bool, error) {
	stops, err := p.FindNearestStops(ctx, lat, lon, 1)
	if err != nil || len(stops) == 0 {
		return timetable.Stop{}, false, err
	}
	return stops[0], true, nil
}

// ComputeJourneys computes itineraries between two stop-id sets departing
// at departureSeconds (seconds since local midnight; negative means "now").
// Tier order is fixed: memory, then disk (promoting hits), then the engine.
// An empty result is a valid answer and is not written back, so a later
// identical query re-attempts the engine. Engine failures degrade to an
// empty result; they are logged, never propagated.
func (p *Planner) ComputeJourneys(ctx context.Context, originIDs, destinationIDs []int, departureSeconds int) ([]journey.Result, error) {
	if err := p.ensureReady(ctx); err != nil {
		return nil, err
	}
	if departureSeconds < 0 {
		departureSeconds = SecondsSinceMidnight(p.now())
	}
	departure := cache.RoundDeparture(departureSeconds)
	key := cache.Key(originIDs, destinationIDs, departure)

	if results, ok := p.memory.Get(key); ok {
		return results, nil
	}
	if p.disk != nil {
		if results, ok := p.disk.Get(key); ok {
			p.memory.Put(key, results) // promote with a fresh timestamp
			return results, nil
		}
	}
	if len(originIDs) == 0 || len(destinationIDs) == 0 {
		return []journey.Result{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := p.runEngine(originIDs, destinationIDs, departure)
	if len(results) > 0 {
		p.memory.Put(key, results)
		if p.disk != nil {
			go func() {
				if err := p.disk.Put(key, results); err != nil {
					log.Printf("journey cache write failed: %v", err)
				}
			}()
		}
	}
	return results, nil
}

// runEngine translates stop ids to positions, runs the engine, and maps the
// raw output. A panic inside the engine is contained here.
func (p *Planner) runEngine(originIDs, destinationIDs []int, departure int) (results []journey.Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("journey engine failure suppressed: %v", r)
			results = []journey.Result{}
		}
	}()
	origins := p.positionsOf(originIDs)
	destinations := p.positionsOf(destinationIDs)
	if len(origins) == 0 || len(destinations) == 0 {
		return []journey.Result{}
	}
	raw := p.engine.Plan(origins, destinations, departure)
	return mapJourneys(raw, p.index)
}

func (p *Planner) positionsOf(ids []int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if pos, ok := p.index.PositionOf(id); ok {
			out = append(out, pos)
		}
	}
	return out
}

// PreloadCache copies still-valid disk entries into the memory tier so the
// first interactive queries after a cold start skip disk I/O. Best-effort:
// failures are logged and never block startup.
func (p *Planner) PreloadCache(ctx context.Context) {
	if p.disk == nil {
		return
	}
	if err := ctx.Err(); err != nil {
		return
	}
	entries, err := p.disk.PreloadValid(p.cfg.Cache.PreloadLimit)
	if err != nil {
		log.Printf("cache preload failed: %v", err)
		return
	}
	for key, results := range entries {
		p.memory.Put(key, results)
	}
	if len(entries) > 0 {
		log.Printf("cache preload: %d entries warmed", len(entries))
	}
}

// CleanupExpiredCache prunes expired disk entries.
func (p *Planner) CleanupExpiredCache() (int64, error) {
	if p.disk == nil {
		return 0, nil
	}
	return p.disk.CleanupExpired()
}

// CacheStatistics returns both tiers' counters. Read-only.
func (p *Planner) CacheStatistics() CacheStats {
	stats := CacheStats{Memory: p.memory.Stats()}
	if p.disk != nil {
		stats.Disk = p.disk.Stats()
	}
	return stats
}

// Close releases the disk tier.
func (p *Planner) Close() error {
	if p.disk != nil {
		return p.disk.Close()
	}
	return nil
}
