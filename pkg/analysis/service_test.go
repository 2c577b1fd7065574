package analysis_test

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redcap-42/runboard/pkg/analysis"
	"github.com/redcap-42/runboard/pkg/domain/activity"
	"github.com/redcap-42/runboard/pkg/domain/gpx"
	"github.com/redcap-42/runboard/pkg/testing/fitfile"
	"github.com/redcap-42/runboard/pkg/testing/mocks"
)

const bucket = "activities-test"

var start = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func outdoorFit(t *testing.T) []byte {
	t.Helper()
	alt := 42.0
	data, err := fitfile.Build(start, []fitfile.RecordSpec{
		{Offset: 0, SpeedMps: 3.0, DistanceM: 100, AltitudeM: &alt, HeartRate: 140, Lat: 52.52, Lon: 13.405},
		{Offset: 10 * time.Second, SpeedMps: 2.5, DistanceM: 200, HeartRate: 145, Lat: 52.521, Lon: 13.406},
	})
	require.NoError(t, err)
	return data
}

func indoorFit(t *testing.T) []byte {
	t.Helper()
	data, err := fitfile.Build(start, []fitfile.RecordSpec{
		{Offset: 0, SpeedMps: 3.0, DistanceM: 100, HeartRate: 150},
		{Offset: 10 * time.Second, SpeedMps: 3.1, DistanceM: 200, HeartRate: 152},
	})
	require.NoError(t, err)
	return data
}

func zipWith(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func storeWithObject(object string, data []byte) *mocks.MockBlobStore {
	return &mocks.MockBlobStore{
		ReadFunc: func(_ context.Context, _, path string) ([]byte, error) {
			if path == object {
				return data, nil
			}
			return nil, fmt.Errorf("object %s not found", path)
		},
	}
}

func dbWith(act *activity.Activity) *mocks.MockDatabase {
	return &mocks.MockDatabase{
		GetActivityFunc: func(_ context.Context, _, _ string) (*activity.Activity, error) {
			return act, nil
		},
	}
}

func TestActivitySeries(t *testing.T) {
	store := storeWithObject("u1/fitFiles/42.fit", outdoorFit(t))
	svc := analysis.New(store, &mocks.MockDatabase{}, bucket, nil)

	series, err := svc.ActivitySeries(context.Background(), "u1", "42")
	require.NoError(t, err)

	require.Len(t, series.Pace, 2)
	assert.InDelta(t, 0.1, series.Pace[0].DistanceKm, 1e-3)
	assert.Len(t, series.Altitude, 1)
	assert.Len(t, series.HeartRate, 2)
}

func TestActivitySeries_UsesStoredPathHint(t *testing.T) {
	store := storeWithObject("u1/custom/42.fit", outdoorFit(t))
	db := dbWith(&activity.Activity{ID: "42", Sport: "running", StoredPath: "u1/custom/42.fit"})
	svc := analysis.New(store, db, bucket, nil)

	series, err := svc.ActivitySeries(context.Background(), "u1", "42")
	require.NoError(t, err)
	assert.NotEmpty(t, series.Pace)
}

func TestActivitySeries_NotFound(t *testing.T) {
	store := &mocks.MockBlobStore{
		ReadFunc: func(_ context.Context, _, path string) ([]byte, error) {
			return nil, fmt.Errorf("nope")
		},
	}
	svc := analysis.New(store, &mocks.MockDatabase{}, bucket, nil)

	_, err := svc.ActivitySeries(context.Background(), "u1", "42")
	require.Error(t, err)
}

func TestExportGPX(t *testing.T) {
	store := storeWithObject("u1/fitFiles/42.fit", outdoorFit(t))
	db := dbWith(&activity.Activity{
		ID: "42", Name: "Morning Run", Sport: "running",
		StartTime: start, DistanceMeters: 200, DurationSecs: 10,
	})
	svc := analysis.New(store, db, bucket, nil)

	out, err := svc.ExportGPX(context.Background(), "u1", "42")
	require.NoError(t, err)

	doc, err := gpx.Parse(out)
	require.NoError(t, err)
	require.Len(t, doc.Tracks, 1)
	require.Len(t, doc.Tracks[0].Segments, 1)
	assert.Len(t, doc.Tracks[0].Segments[0].Points, 2)
	assert.Equal(t, "Morning Run", doc.Metadata.Name)
}

func TestExportGPX_IndoorActivity(t *testing.T) {
	store := storeWithObject("u1/fitFiles/42.fit", indoorFit(t))
	db := dbWith(&activity.Activity{ID: "42", Sport: "treadmill_running"})
	svc := analysis.New(store, db, bucket, nil)

	_, err := svc.ExportGPX(context.Background(), "u1", "42")
	assert.ErrorIs(t, err, analysis.ErrIndoorActivity)
}

func TestExportGPX_NoLocationData(t *testing.T) {
	store := storeWithObject("u1/fitFiles/42.fit", indoorFit(t))
	db := dbWith(&activity.Activity{ID: "42", Sport: "running"})
	svc := analysis.New(store, db, bucket, nil)

	_, err := svc.ExportGPX(context.Background(), "u1", "42")
	assert.ErrorIs(t, err, analysis.ErrNoLocationData)
}

func TestImportArchive(t *testing.T) {
	fitData := outdoorFit(t)
	archiveData := zipWith(t, "21583826023_ACTIVITY.fit", fitData)

	var storedObject string
	var storedData []byte
	store := &mocks.MockBlobStore{
		WriteFunc: func(_ context.Context, _, object string, data []byte) error {
			storedObject = object
			storedData = data
			return nil
		},
	}

	var updated map[string]interface{}
	db := &mocks.MockDatabase{
		UpdateActivityFunc: func(_ context.Context, _, _ string, data map[string]interface{}) error {
			updated = data
			return nil
		},
	}

	svc := analysis.New(store, db, bucket, nil)
	result, err := svc.ImportArchive(context.Background(), "u1", "42", archiveData)
	require.NoError(t, err)

	assert.Equal(t, "u1/fitFiles/42.fit", result.StoredPath)
	assert.Equal(t, 2, result.RecordCount)
	assert.Equal(t, "u1/fitFiles/42.fit", storedObject)
	assert.Equal(t, fitData, storedData)
	assert.Equal(t, map[string]interface{}{"storedPath": "u1/fitFiles/42.fit"}, updated)
}

func TestImportArchive_NoFitInside(t *testing.T) {
	archiveData := zipWith(t, "readme.txt", []byte("no telemetry here"))
	svc := analysis.New(&mocks.MockBlobStore{}, &mocks.MockDatabase{}, bucket, nil)

	_, err := svc.ImportArchive(context.Background(), "u1", "42", archiveData)
	assert.ErrorIs(t, err, analysis.ErrFitFileMissing)
}

func TestImportArchive_CorruptArchive(t *testing.T) {
	svc := analysis.New(&mocks.MockBlobStore{}, &mocks.MockDatabase{}, bucket, nil)

	_, err := svc.ImportArchive(context.Background(), "u1", "42", []byte("not a zip"))
	require.Error(t, err)
}
