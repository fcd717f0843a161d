package mockface

import (
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Server simulates the recognition service for local development: roughly
// 30% of frames "recognize" a random known face, the rest see nobody.
type Server struct {
	faces     []string
	tolerance float64
	delay     time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a mock server over a fixed gallery.
func New(faces []string, delay time.Duration, seed int64) *Server {
	if len(faces) == 0 {
		faces = []string{"sangavi", "yuvaraj"}
	}
	return &Server{
		faces:     faces,
		tolerance: 0.6,
		delay:     delay,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Register mounts the mock API routes.
func (s *Server) Register(r *gin.Engine) {
	r.POST("/api/recognize-face", s.RecognizeFace)
	r.POST("/api/reload-faces", s.ReloadFaces)
	r.GET("/api/status", s.Status)
	r.GET("/api/test-recognition", s.TestRecognition)
}

// RecognizeFace answers a frame after a simulated processing delay.
func (s *Server) RecognizeFace(c *gin.Context) {
	var req struct {
		Image string `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image data provided"})
		return
	}

	time.Sleep(s.delay)

	s.mu.Lock()
	roll := s.rng.Float64()
	face := s.faces[s.rng.Intn(len(s.faces))]
	confidence := 0.75 + s.rng.Float64()*0.25
	s.mu.Unlock()

	if roll < 0.3 {
		confidence = math.Round(confidence*100) / 100
		c.JSON(http.StatusOK, gin.H{
			"name":          face,
			"confidence":    confidence,
			"distance":      math.Round((1-confidence)*100) / 100,
			"face_location": []int{50, 200, 150, 100},
			"message":       fmt.Sprintf("Recognized %s", face),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"name":       nil,
		"confidence": 0,
		"message":    "No known face detected",
	})
}

// ReloadFaces pretends to re-scan the gallery.
func (s *Server) ReloadFaces(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":      "Known faces reloaded successfully (mock)",
		"loaded_faces": s.faces,
		"total_count":  len(s.faces),
	})
}

// Status reports mock health and gallery info.
func (s *Server) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "running",
		"known_faces": s.faces,
		"total_faces": len(s.faces),
		"tolerance":   s.tolerance,
		"message":     "Mock Face Recognition API is running - only known faces recognized",
	})
}

// TestRecognition reports gallery readiness.
func (s *Server) TestRecognition(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"known_faces_count": len(s.faces),
		"known_faces":       s.faces,
		"encodings_loaded":  len(s.faces),
		"status":            "ready",
	})
}
