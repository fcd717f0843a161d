package kiosk

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirSourceReadsOldestAndRemoves(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "frame-002.jpg"), []byte("second"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "frame-001.jpg"), []byte("first"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	src := NewDirSource(dir)

	frame, err := src.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("first")), frame)

	frame, err = src.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("second")), frame)

	_, err = src.Next(context.Background())
	assert.ErrorIs(t, err, ErrNoFrame)

	// Non-frame files stay put.
	_, err = os.Stat(filepath.Join(dir, "notes.txt"))
	assert.NoError(t, err)
}

func TestDirSourceEmptyDir(t *testing.T) {
	src := NewDirSource(t.TempDir())
	_, err := src.Next(context.Background())
	assert.ErrorIs(t, err, ErrNoFrame)
}

func TestAPIClientRegisterAndSubmit(t *testing.T) {
	var gotAuth string
	var gotCheckIn map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/stations/register":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "kiosk-1", body["station_id"])
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"token": "station-token"})
		case "/v1/attendance/checkin":
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotCheckIn))
			w.WriteHeader(http.StatusCreated)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL)
	require.NoError(t, c.Register(context.Background(), "kiosk-1"))
	require.NoError(t, c.CheckIn(context.Background(), "sangavi", 0.91))

	assert.Equal(t, "Bearer station-token", gotAuth)
	assert.Equal(t, "sangavi", gotCheckIn["name"])
	assert.Equal(t, 0.91, gotCheckIn["confidence"])
}

func TestAPIClientSubmitErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"no open check-in"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL)
	err := c.CheckOut(context.Background(), "sangavi", 0.91)
	assert.ErrorContains(t, err, "404")
}
