package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"attendhub/internal/attendance"
	"attendhub/internal/audit"
	"attendhub/internal/config"
	"attendhub/internal/faceclient"
	"attendhub/internal/integrity"
	"attendhub/internal/model"
	"attendhub/internal/queue"
	"attendhub/internal/store"
)

// Worker consumes verification messages, checks recorded confidence against
// the recognition service's tolerance, and stamps the outcome.
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

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "attendhub:verify")
	}

	auditLog := audit.NewLog(db.Client)
	repo := attendance.NewRepository(db.Client)
	att := attendance.NewService(repo, integrity.NewSealer(cfg.IntegrityKey), auditLog)
	face := faceclient.New(cfg.FaceServiceURL)

	tolerance := 0.6
	if status, err := face.GetStatus(ctx); err != nil {
		log.Printf("WARNING: recognition service not available: %v", err)
		log.Printf("using default tolerance %.2f", tolerance)
	} else {
		tolerance = status.Tolerance
		log.Printf("recognition service connected, tolerance %.2f", tolerance)
	}

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		if msg.Type != "verify" {
			continue
		}

		id := string(msg.Body)
		rec, err := repo.GetRecord(ctx, id)
		if err != nil {
			log.Printf("fetch record %s failed: %v", id, err)
			continue
		}

		verification := model.VerificationUnverified
		if rec.FaceConfidence != nil && *rec.FaceConfidence >= tolerance {
			verification = model.VerificationVerified
		}
		if err := att.SetVerification(ctx, id, verification); err != nil {
			log.Printf("stamp record %s failed: %v", id, err)
			continue
		}
		auditLog.Append(ctx, "RECORD_VERIFIED", "worker", map[string]any{
			"recordId": id, "verification": verification,
		})
		log.Printf("record %s: %s", id, verification)

		time.Sleep(10 * time.Millisecond)
	}

	log.Println("worker stopped")
}
