/*
Package store persists the series of the zone counters.

Each counter is written to its own msgpack file in the output directory of
the video, a map of elapsed seconds to count.  Series can also be written to
a SQLite database to compare runs.
*/
package store
