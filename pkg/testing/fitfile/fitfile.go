// Package fitfile builds small, valid FIT activity files in memory. It
// exists for tests and local tooling that need real decoder input without
// shipping binary fixtures.
package fitfile

import (
	"bytes"
	"fmt"
	"time"

	"github.com/muktihari/fit/encoder"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"
	"github.com/muktihari/fit/proto"
)

const semicircleConst = 11930464.7111 // 2^31 / 180

// RecordSpec describes one record message. Zero-valued fields are left
// unset so the decoder reports them as absent (FIT invalid sentinel).
type RecordSpec struct {
	Offset    time.Duration // from activity start; whole seconds only
	SpeedMps  float64
	DistanceM float64
	AltitudeM *float64
	HeartRate int
	Lat       float64 // decimal degrees; set with Lon or not at all
	Lon       float64
}

// Build encodes a FileId message plus one Record per spec.
func Build(start time.Time, specs []RecordSpec) ([]byte, error) {
	fit := &proto.FIT{
		Messages: []proto.Message{
			mesgdef.NewFileId(nil).
				SetType(typedef.FileActivity).
				SetManufacturer(typedef.ManufacturerDevelopment).
				SetProduct(1).
				SetTimeCreated(start).
				ToMesg(nil),
		},
	}

	for _, spec := range specs {
		rec := mesgdef.NewRecord(nil).SetTimestamp(start.Add(spec.Offset))

		if spec.SpeedMps > 0 {
			rec.SetSpeed(uint16(spec.SpeedMps * 1000))
		}
		if spec.DistanceM > 0 {
			rec.SetDistance(uint32(spec.DistanceM * 100))
		}
		if spec.AltitudeM != nil {
			rec.SetAltitude(uint16((*spec.AltitudeM + 500) * 5))
		}
		if spec.HeartRate > 0 {
			rec.SetHeartRate(uint8(spec.HeartRate))
		}
		if spec.Lat != 0 || spec.Lon != 0 {
			rec.SetPositionLat(int32(spec.Lat * semicircleConst))
			rec.SetPositionLong(int32(spec.Lon * semicircleConst))
		}

		fit.Messages = append(fit.Messages, rec.ToMesg(nil))
	}

	var buf bytes.Buffer
	if err := encoder.New(&buf).Encode(fit); err != nil {
		return nil, fmt.Errorf("encode fit fixture: %w", err)
	}
	return buf.Bytes(), nil
}
