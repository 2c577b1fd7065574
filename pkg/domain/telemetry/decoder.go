package telemetry

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/muktihari/fit/decoder"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"
)

// DecodeError wraps a failure from the underlying FIT decoder. The library
// error is surfaced verbatim; nothing here is recoverable locally.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode fit file: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode parses raw FIT bytes into the record sequence the derivation
// engine consumes. Messages other than Record (laps, sessions, device
// info) are skipped; relative record order is preserved.
func Decode(data []byte) ([]Record, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Err: errors.New("empty FIT data")}
	}

	fitDec := decoder.New(bytes.NewReader(data))

	var records []Record
	for fitDec.Next() {
		fitData, err := fitDec.Decode()
		if err != nil {
			return nil, &DecodeError{Err: err}
		}

		for i := range fitData.Messages {
			msg := &fitData.Messages[i]
			if msg.Num != typedef.MesgNumRecord {
				continue
			}
			records = append(records, newRecord(mesgdef.NewRecord(msg)))
		}
	}

	return records, nil
}

const semicircleConst = 11930464.7111 // 2^31 / 180

// newRecord maps a FIT record message onto the nil-able Record shape,
// dropping fields carrying the profile's invalid sentinel and applying
// the profile unit scales.
func newRecord(msg *mesgdef.Record) Record {
	var r Record

	if !msg.Timestamp.IsZero() {
		ts := msg.Timestamp.UTC()
		r.Timestamp = &ts
	}

	// Speed (FIT uses mm/s, we want m/s)
	if msg.Speed != 0xFFFF {
		r.Speed = f64(float64(msg.Speed) / 1000)
	}
	if msg.EnhancedSpeed != 0xFFFFFFFF {
		r.EnhancedSpeed = f64(float64(msg.EnhancedSpeed) / 1000)
	}

	// Cumulative distance (FIT uses centimeters)
	if msg.Distance != 0xFFFFFFFF {
		r.Distance = f64(float64(msg.Distance) / 100)
	}

	// Altitude (FIT uses 5 * (altitude + 500) scale)
	if msg.Altitude != 0xFFFF {
		r.Altitude = f64(float64(msg.Altitude)/5 - 500)
	}
	if msg.EnhancedAltitude != 0xFFFFFFFF {
		r.EnhancedAltitude = f64(float64(msg.EnhancedAltitude)/5 - 500)
	}

	if msg.HeartRate != 0xFF {
		r.HeartRate = intp(int(msg.HeartRate))
	}
	if msg.Cadence != 0xFF {
		r.Cadence = intp(int(msg.Cadence))
	}
	if msg.Power != 0xFFFF {
		r.Power = intp(int(msg.Power))
	}
	if msg.Temperature != 0x7F {
		r.Temperature = f64(float64(msg.Temperature))
	}

	// Position (FIT uses semicircles, convert to decimal degrees)
	if msg.PositionLat != 0x7FFFFFFF && msg.PositionLong != 0x7FFFFFFF {
		r.Lat = f64(float64(msg.PositionLat) / semicircleConst)
		r.Lon = f64(float64(msg.PositionLong) / semicircleConst)
	}

	return r
}

func f64(v float64) *float64 { return &v }

func intp(v int) *int { return &v }
