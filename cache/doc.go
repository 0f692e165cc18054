// Package cache holds the two journey cache tiers and the canonical key
// builder. The memory tier is a bounded LRU with a short validity window;
// the disk tier is a SQLite store with daily validity that survives
// restarts. Keys bucket the departure time so queries issued moments apart
// share an entry.
package cache
