package mockface

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(seed int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(nil, 0, seed).Register(r)
	return r
}

func postRecognize(t *testing.T, r *gin.Engine, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/recognize-face", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var out map[string]any
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func TestRecognizeFaceRequiresImage(t *testing.T) {
	r := newTestRouter(1)

	w, _ := postRecognize(t, r, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No image data provided")

	w, _ = postRecognize(t, r, `not-json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecognizeFaceResponseShape(t *testing.T) {
	r := newTestRouter(42)

	sawMatch, sawMiss := false, false
	for i := 0; i < 100 && !(sawMatch && sawMiss); i++ {
		w, out := postRecognize(t, r, `{"image":"ZnJhbWU="}`)
		require.Equal(t, http.StatusOK, w.Code)

		if out["name"] == nil {
			sawMiss = true
			assert.Equal(t, "No known face detected", out["message"])
			continue
		}
		sawMatch = true
		name, ok := out["name"].(string)
		require.True(t, ok)
		assert.Contains(t, []string{"sangavi", "yuvaraj"}, name)

		confidence, ok := out["confidence"].(float64)
		require.True(t, ok)
		assert.GreaterOrEqual(t, confidence, 0.75)
		assert.LessOrEqual(t, confidence, 1.0)

		loc, ok := out["face_location"].([]any)
		require.True(t, ok)
		assert.Len(t, loc, 4)
	}
	assert.True(t, sawMatch, "expected at least one recognition in 100 frames")
	assert.True(t, sawMiss, "expected at least one miss in 100 frames")
}

func TestStatusReportsTolerance(t *testing.T) {
	r := newTestRouter(1)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "running", out["status"])
	assert.Equal(t, 0.6, out["tolerance"])
	assert.Equal(t, float64(2), out["total_faces"])
}

func TestReloadFaces(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New([]string{"alice"}, 0, 1).Register(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/reload-faces", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, float64(1), out["total_count"])
	assert.Equal(t, []any{"alice"}, out["loaded_faces"])
}

func TestTestRecognitionReady(t *testing.T) {
	r := newTestRouter(1)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/test-recognition", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ready"`)
}
