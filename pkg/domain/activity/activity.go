// Package activity holds the read-only activity metadata the telemetry
// pipeline consumes. Records are written by the sync flow and read here;
// the schema mirrors the Firestore document layout.
package activity

import (
	"fmt"
	"strings"
	"time"
)

type Activity struct {
	ID             string    `firestore:"-" json:"id"`
	VendorID       int64     `firestore:"vendorId" json:"vendorId"`
	Name           string    `firestore:"name" json:"name"`
	Sport          string    `firestore:"sport" json:"sport"`
	StartTime      time.Time `firestore:"startTime" json:"startTime"`
	DistanceMeters float64   `firestore:"distanceMeters" json:"distanceMeters"`
	DurationSecs   float64   `firestore:"durationSeconds" json:"durationSeconds"`
	ElevationGainM *float64  `firestore:"elevationGain,omitempty" json:"elevationGain,omitempty"`

	// StoredPath is the object path the FIT file was last written under,
	// used as the first resolution candidate. May be empty for activities
	// synced before paths were recorded.
	StoredPath string `firestore:"storedPath" json:"storedPath,omitempty"`
}

// indoorSports are vendor sport keys that never carry GPS data.
var indoorSports = map[string]struct{}{
	"treadmill_running": {},
	"indoor_running":    {},
	"indoor_cycling":    {},
	"indoor_cardio":     {},
	"indoor_rowing":     {},
	"fitness_equipment": {},
	"strength_training": {},
	"elliptical":        {},
	"stair_climbing":    {},
	"yoga":              {},
	"pilates":           {},
}

// IsIndoor reports whether a sport label describes an indoor activity.
// Used by the export flow to word the "no GPS track" failure.
func IsIndoor(sport string) bool {
	key := strings.ToLower(strings.TrimSpace(sport))
	if _, ok := indoorSports[key]; ok {
		return true
	}
	return strings.Contains(key, "indoor") || strings.Contains(key, "treadmill")
}

// Summary formats the sport, distance and duration for track descriptions,
// e.g. "running · 10.02 km · 42:17".
func (a Activity) Summary() string {
	total := int(a.DurationSecs)
	return fmt.Sprintf("%s · %.2f km · %d:%02d",
		a.Sport, a.DistanceMeters/1000, total/60, total%60)
}
