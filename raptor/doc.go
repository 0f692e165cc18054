/*
Package raptor implements the round-based journey engine.

The algorithm relaxes best-known arrival times per stop in rounds, one
vehicle boarding per round: round k holds journeys using at most k vehicles
(k-1 transfers). Within a round every route touched by a reachable stop is
scanned once front to back, boarding the earliest catchable trip and
improving arrivals downstream; foot transfers are relaxed afterwards.
Rounds terminate early when nothing improves.

Each improvement records the boarding stop and trip, so journeys are
reconstructed backwards from the destination label without re-running the
search. The engine emits at most one journey per round: the set of
earliest-arrival journeys across increasing transfer budgets.

All stop references are positions into the dataset stop slice. The engine
never mutates the dataset, so a single Engine value serves concurrent
queries.
*/
package raptor
