package faceclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendhub/internal/faceclient"
	"attendhub/internal/mockface"
)

// The client is exercised against the mock recognition service it ships with.
func newMockService(t *testing.T, seed int64) *faceclient.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mockface.New(nil, 0, seed).Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return faceclient.New(srv.URL)
}

func TestRecognizeRoundTrip(t *testing.T) {
	c := newMockService(t, 42)

	sawMatch := false
	for i := 0; i < 50 && !sawMatch; i++ {
		rec, err := c.Recognize(context.Background(), "ZnJhbWU=")
		require.NoError(t, err)
		if rec.Name != nil {
			sawMatch = true
			assert.Contains(t, []string{"sangavi", "yuvaraj"}, *rec.Name)
			assert.GreaterOrEqual(t, rec.Confidence, 0.75)
			assert.Len(t, rec.FaceLocation, 4)
		} else {
			assert.Zero(t, rec.Confidence)
		}
	}
	assert.True(t, sawMatch, "expected at least one recognition in 50 frames")
}

func TestRecognizeRequiresImage(t *testing.T) {
	c := newMockService(t, 1)
	_, err := c.Recognize(context.Background(), "")
	assert.Error(t, err)
}

func TestRecognizeServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := faceclient.New(srv.URL).Recognize(context.Background(), "ZnJhbWU=")
	assert.ErrorContains(t, err, "500")
}

func TestGetStatus(t *testing.T) {
	c := newMockService(t, 1)

	status, err := c.GetStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "running", status.Status)
	assert.Equal(t, 0.6, status.Tolerance)
	assert.Equal(t, []string{"sangavi", "yuvaraj"}, status.KnownFaces)
	assert.NoError(t, c.Health(context.Background()))
}

func TestReloadFaces(t *testing.T) {
	c := newMockService(t, 1)

	faces, err := c.ReloadFaces(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"sangavi", "yuvaraj"}, faces)
}
