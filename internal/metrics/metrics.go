package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CheckIns counts recorded check-ins, labeled by late/on-time.
	CheckIns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendhub_checkins_total",
		Help: "Recorded check-in events.",
	}, []string{"late"})

	// CheckOuts counts successful check-outs.
	CheckOuts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attendhub_checkouts_total",
		Help: "Recorded check-out events.",
	})

	// TamperDetections counts records dropped on read for failing seal verification.
	TamperDetections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attendhub_tamper_detections_total",
		Help: "Attendance records rejected by integrity verification.",
	})

	// RecognitionResults counts kiosk recognition outcomes by result.
	RecognitionResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendhub_recognition_results_total",
		Help: "Face recognition poll outcomes.",
	}, []string{"result"})
)
