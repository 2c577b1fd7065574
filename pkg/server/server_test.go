package server_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redcap-42/runboard/pkg/analysis"
	"github.com/redcap-42/runboard/pkg/domain/activity"
	"github.com/redcap-42/runboard/pkg/domain/telemetry"
	"github.com/redcap-42/runboard/pkg/server"
	"github.com/redcap-42/runboard/pkg/testing/fitfile"
	"github.com/redcap-42/runboard/pkg/testing/mocks"
)

var start = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func fitBytes(t *testing.T, withGPS bool) []byte {
	t.Helper()
	spec := fitfile.RecordSpec{Offset: 0, SpeedMps: 3.0, DistanceM: 100, HeartRate: 140}
	if withGPS {
		spec.Lat, spec.Lon = 52.52, 13.405
	}
	data, err := fitfile.Build(start, []fitfile.RecordSpec{spec})
	require.NoError(t, err)
	return data
}

func newTestServer(store *mocks.MockBlobStore, db *mocks.MockDatabase) *httptest.Server {
	svc := analysis.New(store, db, "activities-test", nil)
	return httptest.NewServer(server.New(svc, nil).Router())
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(&mocks.MockBlobStore{}, &mocks.MockDatabase{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestGetSeries(t *testing.T) {
	data := fitBytes(t, true)
	store := &mocks.MockBlobStore{
		ReadFunc: func(_ context.Context, _, object string) ([]byte, error) {
			if object == "u1/fitFiles/42.fit" {
				return data, nil
			}
			return nil, fmt.Errorf("not found")
		},
	}

	ts := newTestServer(store, &mocks.MockDatabase{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/users/u1/activities/42/series")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var series telemetry.Series
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&series))
	assert.Len(t, series.Pace, 1)
	assert.Len(t, series.HeartRate, 1)
}

func TestGetSeries_NotFound(t *testing.T) {
	store := &mocks.MockBlobStore{
		ReadFunc: func(_ context.Context, _, _ string) ([]byte, error) {
			return nil, fmt.Errorf("not found")
		},
	}

	ts := newTestServer(store, &mocks.MockDatabase{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/users/u1/activities/42/series")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExport_IndoorMessage(t *testing.T) {
	data := fitBytes(t, false)
	store := &mocks.MockBlobStore{
		ReadFunc: func(_ context.Context, _, _ string) ([]byte, error) {
			return data, nil
		},
	}
	db := &mocks.MockDatabase{
		GetActivityFunc: func(_ context.Context, _, _ string) (*activity.Activity, error) {
			return &activity.Activity{ID: "42", Sport: "indoor_cycling"}, nil
		},
	}

	ts := newTestServer(store, db)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/users/u1/activities/42/export.gpx")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.Error, "indoor")
}

func TestExport_GPXDocument(t *testing.T) {
	data := fitBytes(t, true)
	store := &mocks.MockBlobStore{
		ReadFunc: func(_ context.Context, _, _ string) ([]byte, error) {
			return data, nil
		},
	}
	db := &mocks.MockDatabase{
		GetActivityFunc: func(_ context.Context, _, _ string) (*activity.Activity, error) {
			return &activity.Activity{ID: "42", Name: "Morning Run", Sport: "running", StartTime: start}, nil
		},
	}

	ts := newTestServer(store, db)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/users/u1/activities/42/export.gpx")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/gpx+xml", resp.Header.Get("Content-Type"))
}

func TestImport(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("42_ACTIVITY.fit")
	require.NoError(t, err)
	_, err = w.Write(fitBytes(t, true))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	store := &mocks.MockBlobStore{}
	ts := newTestServer(store, &mocks.MockDatabase{})
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/v1/users/u1/activities/42/import", "application/zip", &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result analysis.ImportResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "u1/fitFiles/42.fit", result.StoredPath)
	assert.Equal(t, 1, result.RecordCount)
}

func TestImport_NotAnArchive(t *testing.T) {
	ts := newTestServer(&mocks.MockBlobStore{}, &mocks.MockDatabase{})
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/v1/users/u1/activities/42/import",
		"application/zip", bytes.NewBufferString("not a zip"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
