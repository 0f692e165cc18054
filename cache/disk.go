package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/theoremus-urban-solutions/journey-planner/journey"
)

const diskSchema = `
CREATE TABLE IF NOT EXISTS journeys (
	key        TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_journeys_expires ON journeys (expires_at);
`

// DiskStats is a read-only snapshot of the persisted tier.
type DiskStats struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

// DiskCache persists computed journeys across process restarts in a SQLite
// store. Entries carry a daily validity window: a journey computed against
// a fixed static timetable holds for the whole service day. Expiry is
// checked in SQL, before any deserialization cost is paid.
type DiskCache struct {
	db     *sql.DB
	hits   atomic.Uint64
	misses atomic.Uint64
	now    func() time.Time
}

// OpenDiskCache opens (creating if needed) the store at path. SQLite allows
// one writer at a time; a single pooled connection keeps cleanup and
// ongoing puts from tripping over each other.
func OpenDiskCache(path string) (*DiskCache, error) {
	db, err := sql.Open("sqlite", path+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open journey cache: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping journey cache: %w", err)
	}
	if _, err := db.Exec(diskSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journey cache schema: %w", err)
	}
	return &DiskCache{db: db, now: time.Now}, nil
}

// Close closes the underlying store.
func (d *DiskCache) Close() error {
	return d.db.Close()
}

// Get returns the persisted results for key, or false on miss, expiry, or
// any read/decode failure. Callers treat all three identically.
func (d *DiskCache) Get(key string) ([]journey.Result, bool) {
	var payload []byte
	row := d.db.QueryRow(
		"SELECT payload FROM journeys WHERE key = ? AND expires_at > ?",
		key, d.now().Unix(),
	)
	if err := row.Scan(&payload); err != nil {
		d.misses.Add(1)
		return nil, false
	}
	var results []journey.Result
	if err := json.Unmarshal(payload, &results); err != nil {
		d.misses.Add(1)
		return nil, false
	}
	d.hits.Add(1)
	return results, true
}

// Put upserts an entry valid until the next local midnight.
func (d *DiskCache) Put(key string, results []journey.Result) error {
	payload, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to encode journeys: %w", err)
	}
	now := d.now()
	_, err = d.db.Exec(
		"INSERT INTO journeys (key, payload, created_at, expires_at) VALUES (?, ?, ?, ?) "+
			"ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at, expires_at = excluded.expires_at",
		key, payload, now.Unix(), nextMidnight(now).Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to persist journeys: %w", err)
	}
	return nil
}

// PreloadValid returns up to limit still-valid entries, most recent first,
// for warming the memory tier at startup. limit <= 0 means no limit.
func (d *DiskCache) PreloadValid(limit int) (map[string][]journey.Result, error) {
	q := "SELECT key, payload FROM journeys WHERE expires_at > ? ORDER BY created_at DESC"
	args := []any{d.now().Unix()}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := d.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read journey cache: %w", err)
	}
	defer rows.Close()

	out := map[string][]journey.Result{}
	for rows.Next() {
		var key string
		var payload []byte
		if err := rows.Scan(&key, &payload); err != nil {
			return out, err
		}
		var results []journey.Result
		if err := json.Unmarshal(payload, &results); err != nil {
			// one bad row must not sink the whole warmup
			continue
		}
		out[key] = results
	}
	return out, rows.Err()
}

// CleanupExpired removes entries past their validity window and returns the
// number deleted. A single DELETE statement, so concurrent readers never
// observe a partial entry.
func (d *DiskCache) CleanupExpired() (int64, error) {
	res, err := d.db.Exec("DELETE FROM journeys WHERE expires_at <= ?", d.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to clean journey cache: %w", err)
	}
	return res.RowsAffected()
}

// Stats returns entry count and hit/miss counters.
func (d *DiskCache) Stats() DiskStats {
	var entries int
	_ = d.db.QueryRow("SELECT COUNT(*) FROM journeys").Scan(&entries)
	return DiskStats{
		Entries: entries,
		Hits:    d.hits.Load(),
		Misses:  d.misses.Load(),
	}
}

// nextMidnight returns the start of the next local day.
func nextMidnight(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day+1, 0, 0, 0, 0, t.Location())
}
