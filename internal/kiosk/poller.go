package kiosk

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"attendhub/internal/faceclient"
	"attendhub/internal/metrics"
)

// Poll modes.
const (
	ModeCheckIn  = "check-in"
	ModeCheckOut = "check-out"
)

// FrameSource yields base64-encoded JPEG frames. ErrNoFrame means nothing
// to process this tick.
type FrameSource interface {
	Next(ctx context.Context) (string, error)
}

// ErrNoFrame is returned by a FrameSource when no frame is available.
var ErrNoFrame = errors.New("no frame available")

// Recognizer is the recognition call the poller makes per frame.
type Recognizer interface {
	Recognize(ctx context.Context, imageBase64 string) (*faceclient.Recognition, error)
}

// Sink receives accepted recognitions.
type Sink interface {
	CheckIn(ctx context.Context, name string, confidence float64) error
	CheckOut(ctx context.Context, name string, confidence float64) error
}

// Poller drives the recognition loop: one frame per tick, never more than
// one recognition call in flight, and a stale response is discarded if the
// mode flipped while it was outstanding.
type Poller struct {
	frames     FrameSource
	recognizer Recognizer
	sink       Sink
	interval   time.Duration

	mu       sync.Mutex
	mode     string
	inFlight atomic.Bool
}

// NewPoller builds a poller with the initial mode.
func NewPoller(frames FrameSource, recognizer Recognizer, sink Sink, interval time.Duration, mode string) *Poller {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	if mode == "" {
		mode = ModeCheckIn
	}
	return &Poller{frames: frames, recognizer: recognizer, sink: sink, interval: interval, mode: mode}
}

// Mode returns the current poll mode.
func (p *Poller) Mode() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// SetMode flips between check-in and check-out. A response already in
// flight under the old mode will be dropped, not applied.
func (p *Poller) SetMode(mode string) {
	p.mu.Lock()
	p.mode = mode
	p.mu.Unlock()
}

// Run polls until ctx is cancelled. Ticks that arrive while a recognition
// call is outstanding are skipped, not queued.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !p.inFlight.CompareAndSwap(false, true) {
				continue
			}
			go func() {
				defer p.inFlight.Store(false)
				p.tick(ctx)
			}()
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	frame, err := p.frames.Next(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoFrame) {
			log.Printf("kiosk: frame source: %v", err)
		}
		return
	}

	modeAtSend := p.Mode()
	rec, err := p.recognizer.Recognize(ctx, frame)
	if err != nil {
		// No retry or backoff; the next tick posts the next frame.
		log.Printf("kiosk: recognition failed: %v", err)
		metrics.RecognitionResults.WithLabelValues("error").Inc()
		return
	}
	if rec.Name == nil {
		metrics.RecognitionResults.WithLabelValues("no_match").Inc()
		return
	}
	if p.Mode() != modeAtSend {
		// Mode flipped while the call was outstanding; discard.
		log.Printf("kiosk: dropping stale %s recognition for %s", modeAtSend, *rec.Name)
		metrics.RecognitionResults.WithLabelValues("stale").Inc()
		return
	}

	var submitErr error
	switch modeAtSend {
	case ModeCheckOut:
		submitErr = p.sink.CheckOut(ctx, *rec.Name, rec.Confidence)
	default:
		submitErr = p.sink.CheckIn(ctx, *rec.Name, rec.Confidence)
	}
	if submitErr != nil {
		log.Printf("kiosk: submit %s for %s failed: %v", modeAtSend, *rec.Name, submitErr)
		metrics.RecognitionResults.WithLabelValues("submit_error").Inc()
		return
	}
	log.Printf("kiosk: %s recorded for %s (confidence %.2f)", modeAtSend, *rec.Name, rec.Confidence)
	metrics.RecognitionResults.WithLabelValues("recorded").Inc()
}
