/*
Package timetable owns the static transit dataset: the binary stop and
route/trip assets bundled with the application, and the derived StopIndex
used for name search and nearest-stop queries.

# Assets

The dataset ships as two gob-encoded files: a stop table ([]Stop) and a
route table (routes plus foot transfers). LoadDataset decodes both with
buffered sequential reads. The decoded structures are immutable; a new app
build embedding new assets is the only way the stop set changes.

# Building assets

BuildFromGTFSZip converts a GTFS static feed into the asset layout: trips
are grouped into engine routes by (route, direction, stop sequence), and
platforms sharing a display name receive two-way foot transfers.

# Indexing

NewStopIndex precomputes normalized stop names once. Search and Nearest
never re-normalize the stop set per query; at a few thousand stops that is
the difference between microseconds and milliseconds per keystroke.
*/
package timetable
