// Package gpx synthesizes GPX 1.1 documents from derived GPS tracks.
// The transform is structural and lossless: one track, one segment, one
// trkpt per input point in input order, elevation emitted only when the
// source point carried one.
package gpx

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/redcap-42/runboard/pkg/domain/activity"
	"github.com/redcap-42/runboard/pkg/domain/telemetry"
)

const (
	creator   = "runboard"
	namespace = "http://www.topografix.com/GPX/1/1"
)

// Point is a single trkpt. Elevation is a pointer so an absent value is
// omitted rather than serialized as zero.
type Point struct {
	Lat       float64   `xml:"lat,attr"`
	Lon       float64   `xml:"lon,attr"`
	Elevation *float64  `xml:"ele,omitempty"`
	Time      time.Time `xml:"time"`
}

type Segment struct {
	Points []Point `xml:"trkpt"`
}

type Track struct {
	Name        string    `xml:"name,omitempty"`
	Description string    `xml:"desc,omitempty"`
	Segments    []Segment `xml:"trkseg"`
}

type Metadata struct {
	Name        string    `xml:"name,omitempty"`
	Description string    `xml:"desc,omitempty"`
	Time        time.Time `xml:"time"`
}

type Document struct {
	XMLName   xml.Name `xml:"gpx"`
	Version   string   `xml:"version,attr"`
	Creator   string   `xml:"creator,attr"`
	Namespace string   `xml:"xmlns,attr"`
	Metadata  Metadata `xml:"metadata"`
	Tracks    []Track  `xml:"trk"`
}

// Synthesize renders the activity's GPS track as a GPX document.
func Synthesize(act activity.Activity, points []telemetry.TrackPoint) ([]byte, error) {
	segment := Segment{Points: make([]Point, 0, len(points))}
	for _, p := range points {
		segment.Points = append(segment.Points, Point{
			Lat:       p.Lat,
			Lon:       p.Lon,
			Elevation: p.ElevationM,
			Time:      p.Time.UTC(),
		})
	}

	doc := Document{
		Version:   "1.1",
		Creator:   creator,
		Namespace: namespace,
		Metadata: Metadata{
			Name:        act.Name,
			Description: fmt.Sprintf("Exported from %s", creator),
			Time:        act.StartTime.UTC(),
		},
		Tracks: []Track{{
			Name:        act.Name,
			Description: act.Summary(),
			Segments:    []Segment{segment},
		}},
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal gpx document: %w", err)
	}

	return append([]byte(xml.Header), out...), nil
}

// Parse reads a GPX document back into its struct form. Used by tests and
// by callers that want to verify a generated export round-trips.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse gpx document: %w", err)
	}
	return &doc, nil
}
