// Package analysis orchestrates the telemetry pipeline: resolve the FIT
// blob, decode it, derive chart series or a GPS track, and (for the sync
// path) import a freshly downloaded vendor archive into blob storage.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	shared "github.com/redcap-42/runboard/pkg"
	"github.com/redcap-42/runboard/pkg/archive"
	"github.com/redcap-42/runboard/pkg/domain/activity"
	"github.com/redcap-42/runboard/pkg/domain/gpx"
	"github.com/redcap-42/runboard/pkg/domain/telemetry"
	"github.com/redcap-42/runboard/pkg/locator"
)

var (
	// ErrNoLocationData means the decoded records contained no usable GPS
	// fixes and the activity is not a known indoor type.
	ErrNoLocationData = errors.New("activity has no location data")

	// ErrIndoorActivity means the GPS track is empty because the sport is
	// inherently indoor; callers word this differently to the user.
	ErrIndoorActivity = errors.New("indoor activity has no GPS track")

	// ErrFitFileMissing means the downloaded archive extracted cleanly but
	// contained no FIT file. Distinct from a resolution failure: the bytes
	// were downloaded, the expected companion file just is not inside.
	ErrFitFileMissing = errors.New("no fit file found in extracted archive")
)

type Service struct {
	Store  shared.BlobStore
	DB     shared.Database
	Bucket string
	Logger *slog.Logger
}

func New(store shared.BlobStore, db shared.Database, bucket string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Store: store, DB: db, Bucket: bucket, Logger: logger}
}

// ActivitySeries decodes the activity's FIT file and derives the three
// chart series. Sparse telemetry is not an error: an activity without,
// say, heart-rate data simply yields an empty heart-rate series.
func (s *Service) ActivitySeries(ctx context.Context, userID, activityID string) (telemetry.Series, error) {
	records, path, err := s.loadRecords(ctx, userID, activityID)
	if err != nil {
		return telemetry.Series{}, err
	}

	series := telemetry.DeriveSeries(records)
	s.Logger.Debug("derived activity series",
		"activity_id", activityID,
		"path", path,
		"records", len(records),
		"pace_points", len(series.Pace))
	return series, nil
}

// ExportGPX derives the activity's GPS track and renders it as a GPX
// document. An empty track is classified for the caller: indoor sports
// get ErrIndoorActivity, everything else ErrNoLocationData.
func (s *Service) ExportGPX(ctx context.Context, userID, activityID string) ([]byte, error) {
	act, err := s.DB.GetActivity(ctx, userID, activityID)
	if err != nil {
		return nil, fmt.Errorf("load activity metadata: %w", err)
	}

	resolver := &locator.Resolver{Store: s.Store, Bucket: s.Bucket}
	data, _, err := resolver.Resolve(ctx, userID, activityID, act.StoredPath)
	if err != nil {
		return nil, err
	}

	records, err := telemetry.Decode(data)
	if err != nil {
		return nil, err
	}

	track := telemetry.DeriveTrack(records)
	if len(track) == 0 {
		if activity.IsIndoor(act.Sport) {
			return nil, ErrIndoorActivity
		}
		return nil, ErrNoLocationData
	}

	return gpx.Synthesize(*act, track)
}

// ImportResult describes a successfully imported vendor archive.
type ImportResult struct {
	StoredPath  string `json:"storedPath"`
	RecordCount int    `json:"recordCount"`
}

// ImportArchive unpacks a vendor activity archive, validates the FIT file
// inside, and stores it at the canonical path. The FIT bytes are decoded
// before upload so a corrupt download never lands in the bucket. A batch
// caller treats a per-activity failure as fatal for that activity only.
func (s *Service) ImportArchive(ctx context.Context, userID, activityID string, archiveBytes []byte) (ImportResult, error) {
	dir, err := os.MkdirTemp("", "activity-import-")
	if err != nil {
		return ImportResult{}, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	if _, err := archive.Extract(archiveBytes, dir); err != nil {
		return ImportResult{}, err
	}

	fitPath, ok := archive.FindByExtension(dir, ".fit")
	if !ok {
		return ImportResult{}, ErrFitFileMissing
	}

	data, err := os.ReadFile(fitPath)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read extracted fit file: %w", err)
	}

	records, err := telemetry.Decode(data)
	if err != nil {
		return ImportResult{}, err
	}

	object := locator.CanonicalPath(userID, activityID)
	if err := s.Store.Write(ctx, s.Bucket, object, data); err != nil {
		return ImportResult{}, fmt.Errorf("store fit file at %s: %w", object, err)
	}

	if s.DB != nil {
		update := map[string]interface{}{"storedPath": object}
		if err := s.DB.UpdateActivity(ctx, userID, activityID, update); err != nil {
			// The file is stored and resolvable through the conventional
			// paths; a stale hint only costs extra read attempts.
			s.Logger.Warn("failed to record stored path", "activity_id", activityID, "error", err)
		}
	}

	s.Logger.Info("imported activity archive",
		"activity_id", activityID, "path", object, "records", len(records))
	return ImportResult{StoredPath: object, RecordCount: len(records)}, nil
}

func (s *Service) loadRecords(ctx context.Context, userID, activityID string) ([]telemetry.Record, string, error) {
	var hint string
	if s.DB != nil {
		if act, err := s.DB.GetActivity(ctx, userID, activityID); err == nil && act != nil {
			hint = act.StoredPath
		}
	}

	resolver := &locator.Resolver{Store: s.Store, Bucket: s.Bucket}
	data, path, err := resolver.Resolve(ctx, userID, activityID, hint)
	if err != nil {
		return nil, "", err
	}

	records, err := telemetry.Decode(data)
	if err != nil {
		return nil, "", err
	}
	return records, path, nil
}
