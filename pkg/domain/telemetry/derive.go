package telemetry

import (
	"math"
	"time"
)

const (
	metersPerKilometer = 1000.0

	// maxPaceSecondsPerKm rejects unrealistically slow samples: anything at
	// or above 30 min/km is treated as noise (standing still with GPS jitter).
	maxPaceSecondsPerKm = 1800.0

	maxHeartRateBPM = 250

	// defaultSampleInterval is assumed between consecutive records when
	// either timestamp is missing.
	defaultSampleInterval = time.Second
)

type PacePoint struct {
	DistanceKm       float64 `json:"distanceKm"`
	PaceSecondsPerKm float64 `json:"paceSecondsPerKm"`
	SpeedMps         float64 `json:"speedMps"`
}

type AltitudePoint struct {
	DistanceKm float64 `json:"distanceKm"`
	AltitudeM  float64 `json:"altitudeM"`
}

type HeartRatePoint struct {
	DistanceKm float64 `json:"distanceKm"`
	BPM        int     `json:"bpm"`
}

// Series holds the three aligned chart series. Slices are never nil so the
// JSON surface always serves arrays; empty input yields empty series, not
// an error.
type Series struct {
	Pace      []PacePoint      `json:"pace"`
	Altitude  []AltitudePoint  `json:"altitude"`
	HeartRate []HeartRatePoint `json:"heartRate"`
}

// TrackPoint is one GPS fix of the export track, already in decimal degrees.
type TrackPoint struct {
	Lat        float64
	Lon        float64
	Time       time.Time
	ElevationM *float64
}

// DeriveSeries walks the record sequence once and produces the
// pace/altitude/heart-rate series keyed by distance.
//
// Distance per record comes from one of two strategies, selected per
// record: the cumulative distance field when it is positive, else
// speed integration (speed times the inter-record interval) accumulated
// onto a running total. The running total is only ever overwritten by the
// cumulative field; after a long stretch without one it can drift from
// true position, which matches the upstream system and is pinned by tests.
func DeriveSeries(records []Record) Series {
	series := Series{
		Pace:      []PacePoint{},
		Altitude:  []AltitudePoint{},
		HeartRate: []HeartRatePoint{},
	}

	var lastDistanceKm float64
	var lastTime *time.Time

	for i := range records {
		rec := &records[i]

		var speed float64
		if v := PickPreferred(rec.EnhancedSpeed, rec.Speed); v != nil {
			speed = *v
		}
		var cumulative float64
		if v := PickPreferred(rec.EnhancedDistance, rec.Distance); v != nil {
			cumulative = *v
		}

		switch {
		case cumulative > 0:
			lastDistanceKm = cumulative / metersPerKilometer
		case speed > 0:
			dt := defaultSampleInterval
			if rec.Timestamp != nil && lastTime != nil {
				dt = rec.Timestamp.Sub(*lastTime)
			}
			lastDistanceKm += speed * dt.Seconds() / metersPerKilometer
		}
		distanceKm := lastDistanceKm

		if rec.Timestamp != nil {
			lastTime = rec.Timestamp
		}

		if speed > 0 {
			pace := metersPerKilometer / speed
			if pace > 0 && pace < maxPaceSecondsPerKm {
				series.Pace = append(series.Pace, PacePoint{
					DistanceKm:       distanceKm,
					PaceSecondsPerKm: pace,
					SpeedMps:         speed,
				})
			}
		}

		if alt := PickPreferred(rec.EnhancedAltitude, rec.Altitude); alt != nil {
			series.Altitude = append(series.Altitude, AltitudePoint{
				DistanceKm: distanceKm,
				AltitudeM:  *alt,
			})
		}

		if rec.HeartRate != nil && *rec.HeartRate > 0 && *rec.HeartRate < maxHeartRateBPM {
			series.HeartRate = append(series.HeartRate, HeartRatePoint{
				DistanceKm: distanceKm,
				BPM:        *rec.HeartRate,
			})
		}
	}

	return series
}

// DeriveTrack extracts the GPS track for export. A record contributes a
// point only when it has a timestamp and both coordinates, the coordinates
// are non-zero, and they lie within valid ranges. Record order is kept.
func DeriveTrack(records []Record) []TrackPoint {
	points := []TrackPoint{}

	for i := range records {
		rec := &records[i]
		if rec.Timestamp == nil || rec.Lat == nil || rec.Lon == nil {
			continue
		}
		lat, lon := *rec.Lat, *rec.Lon
		if lat == 0 || lon == 0 {
			continue
		}
		if math.Abs(lat) > 90 || math.Abs(lon) > 180 {
			continue
		}

		points = append(points, TrackPoint{
			Lat:        lat,
			Lon:        lon,
			Time:       rec.Timestamp.UTC(),
			ElevationM: PickPreferred(rec.EnhancedAltitude, rec.Altitude),
		})
	}

	return points
}
