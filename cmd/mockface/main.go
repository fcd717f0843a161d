package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"attendhub/internal/mockface"
)

// Mock recognition server for local development. Not for production use.
func main() {
	port := os.Getenv("MOCKFACE_PORT")
	if port == "" {
		port = "5000"
	}
	var faces []string
	if v := os.Getenv("MOCKFACE_FACES"); v != "" {
		faces = strings.Split(v, ",")
	}

	r := gin.Default()
	srv := mockface.New(faces, 800*time.Millisecond, time.Now().UnixNano())
	srv.Register(r)

	log.Printf("mock recognition server on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
