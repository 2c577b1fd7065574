// Package telemetry decodes FIT record streams and derives the
// distance-indexed series the dashboard charts, plus the GPS track used
// for GPX export.
package telemetry

import "time"

// Record is one decoded sensor sample. Fields are nil when the sample did
// not carry them (or carried the FIT invalid sentinel). Coordinates are
// decimal degrees: the decoder adapter converts semicircles at the
// boundary so everything downstream sees a single shape.
type Record struct {
	Timestamp *time.Time

	Speed         *float64 // m/s
	EnhancedSpeed *float64 // m/s

	Distance         *float64 // cumulative meters
	EnhancedDistance *float64 // cumulative meters

	Altitude         *float64 // meters
	EnhancedAltitude *float64 // meters

	HeartRate *int // bpm

	Lat *float64 // decimal degrees
	Lon *float64 // decimal degrees

	Cadence     *int
	Power       *int
	Temperature *float64
}

// PickPreferred implements the enhanced-over-standard field priority rule:
// the enhanced variant wins whenever it is present.
func PickPreferred[T any](enhanced, standard *T) *T {
	if enhanced != nil {
		return enhanced
	}
	return standard
}
