// Package report charts the series of the zone counters.
package report
