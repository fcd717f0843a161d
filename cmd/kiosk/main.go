package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"attendhub/internal/config"
	"attendhub/internal/faceclient"
	"attendhub/internal/kiosk"
)

// Kiosk posts camera frames to the recognition service on a fixed cadence
// and submits recognized check-ins/check-outs to the API.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	api := kiosk.NewAPIClient(cfg.APIBaseURL)
	if err := api.Register(ctx, cfg.StationID); err != nil {
		log.Fatalf("station register failed: %v", err)
	}
	log.Printf("station %s registered with %s", cfg.StationID, cfg.APIBaseURL)

	face := faceclient.New(cfg.FaceServiceURL)
	if err := face.Health(ctx); err != nil {
		log.Printf("WARNING: recognition service not available: %v", err)
	}

	poller := kiosk.NewPoller(kiosk.NewDirSource(cfg.FrameDir), face, api, cfg.PollInterval, cfg.KioskMode)
	log.Printf("polling %s every %s in %s mode", cfg.FrameDir, cfg.PollInterval, poller.Mode())

	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("poller failed: %v", err)
	}
	log.Println("kiosk stopped")
}
