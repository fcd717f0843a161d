package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"attendhub/internal/integrity"
	"attendhub/internal/metrics"
	"attendhub/internal/model"
)

// ErrNoOpenCheckIn is returned by CheckOut when no open record exists for
// the subject today. Nothing is created or mutated in that case.
var ErrNoOpenCheckIn = errors.New("no open check-in record for subject today")

// lateCutoff: arrivals strictly after 08:30:00 local time count as late.
const (
	lateCutoffHour   = 8
	lateCutoffMinute = 30
)

// Store is the persistence surface the service needs.
type Store interface {
	InsertRecord(ctx context.Context, rec model.AttendanceRecord) error
	UpdateRecord(ctx context.Context, rec model.AttendanceRecord) error
	OpenRecord(ctx context.Context, name, date string) (*model.AttendanceRecord, error)
	GetRecord(ctx context.Context, id string) (model.AttendanceRecord, error)
	ListRecords(ctx context.Context, name, datePrefix string, limit, offset int) ([]model.AttendanceRecord, error)
	ReplaceAll(ctx context.Context, recs []model.AttendanceRecord) error
	UpsertStation(ctx context.Context, stationID string) error
}

// Auditor appends entries to the audit trail.
type Auditor interface {
	Append(ctx context.Context, action, actorID string, details map[string]any)
}

// Service coordinates the attendance record lifecycle.
type Service struct {
	store  Store
	sealer *integrity.Sealer
	audit  Auditor
	now    func() time.Time
}

// NewService creates a service backed by a store and a record sealer.
func NewService(store Store, sealer *integrity.Sealer, audit Auditor) *Service {
	return &Service{store: store, sealer: sealer, audit: audit, now: time.Now}
}

// IsLate reports whether a check-in instant counts as a late arrival.
func IsLate(t time.Time) bool {
	if t.Hour() != lateCutoffHour {
		return t.Hour() > lateCutoffHour
	}
	if t.Minute() != lateCutoffMinute {
		return t.Minute() > lateCutoffMinute
	}
	return t.Second() > 0
}

// CheckIn records a new attendance session. A second check-in for the same
// subject and date while one is still open appends another open record; the
// store never merges or rejects them.
func (s *Service) CheckIn(ctx context.Context, name string, confidence *float64) (model.AttendanceRecord, error) {
	if name == "" {
		return model.AttendanceRecord{}, errors.New("name required")
	}
	now := s.now()
	late := IsLate(now)
	status := model.StatusCheckedIn
	if late {
		status = model.StatusLate
	}
	rec := model.AttendanceRecord{
		ID:             uuid.NewString(),
		Name:           name,
		Date:           now.Format("2006-01-02"),
		CheckInTime:    now.Format("15:04:05"),
		Timestamp:      storedInstant(now),
		IsLate:         late,
		Status:         status,
		AuthMethod:     "face",
		FaceConfidence: confidence,
		Verification:   model.VerificationPending,
	}
	if err := s.sealer.Seal(&rec); err != nil {
		return model.AttendanceRecord{}, fmt.Errorf("seal record: %w", err)
	}
	if err := s.store.InsertRecord(ctx, rec); err != nil {
		return model.AttendanceRecord{}, err
	}
	s.audit.Append(ctx, "CHECK_IN_RECORDED", "system", map[string]any{
		"recordId": rec.ID, "name": name, "authMethod": rec.AuthMethod, "isLate": late,
	})
	metrics.CheckIns.WithLabelValues(strconv.FormatBool(late)).Inc()
	return rec, nil
}

// CheckOut closes the newest open record for the subject today. Working
// hours are the span between the two instants, rounded to 2 decimals.
func (s *Service) CheckOut(ctx context.Context, name string, confidence *float64) (*model.AttendanceRecord, error) {
	if name == "" {
		return nil, errors.New("name required")
	}
	now := s.now()
	date := now.Format("2006-01-02")
	open, err := s.store.OpenRecord(ctx, name, date)
	if err != nil {
		return nil, err
	}
	if open == nil {
		return nil, ErrNoOpenCheckIn
	}

	rec := *open
	checkOutTime := now.Format("15:04:05")
	outAt := storedInstant(now)
	hours := round2(outAt.Sub(rec.Timestamp).Hours())
	rec.CheckOutTime = &checkOutTime
	rec.CheckOutTimestamp = &outAt
	rec.Status = model.StatusCheckedOut
	rec.WorkingHours = &hours
	if confidence != nil {
		rec.FaceConfidence = confidence
	}
	if err := s.sealer.Seal(&rec); err != nil {
		return nil, fmt.Errorf("seal record: %w", err)
	}
	if err := s.store.UpdateRecord(ctx, rec); err != nil {
		return nil, err
	}
	s.audit.Append(ctx, "CHECK_OUT_RECORDED", "system", map[string]any{
		"recordId": rec.ID, "name": name, "authMethod": rec.AuthMethod, "workingHours": hours,
	})
	metrics.CheckOuts.Inc()
	return &rec, nil
}

// Records returns verified records newest first. Records failing seal
// verification are dropped from the result and audited; the caller sees an
// intact, possibly shorter, list.
func (s *Service) Records(ctx context.Context, name, datePrefix string, limit, offset int) ([]model.AttendanceRecord, error) {
	recs, err := s.store.ListRecords(ctx, name, datePrefix, limit, offset)
	if err != nil {
		return nil, err
	}
	verified := recs[:0]
	for _, rec := range recs {
		if !s.sealer.Verify(rec) {
			s.audit.Append(ctx, "TAMPER_DETECTED", "system", map[string]any{
				"recordId": rec.ID, "name": rec.Name,
			})
			metrics.TamperDetections.Inc()
			continue
		}
		verified = append(verified, rec)
	}
	return verified, nil
}

// IntegrityReport summarizes seal verification across all stored records.
type IntegrityReport struct {
	Total    int `json:"total"`
	Valid    int `json:"valid"`
	Tampered int `json:"tampered"`
}

// Integrity verifies every stored record without dropping any.
func (s *Service) Integrity(ctx context.Context) (IntegrityReport, error) {
	recs, err := s.store.ListRecords(ctx, "", "", 1<<30, 0)
	if err != nil {
		return IntegrityReport{}, err
	}
	report := IntegrityReport{Total: len(recs)}
	for _, rec := range recs {
		if s.sealer.Verify(rec) {
			report.Valid++
		}
	}
	report.Tampered = report.Total - report.Valid
	return report, nil
}

// Import replaces the stored record set with the verified subset of a
// backup. Records failing verification are rejected, not repaired.
func (s *Service) Import(ctx context.Context, recs []model.AttendanceRecord, actorID string) (accepted, rejected int, err error) {
	valid := make([]model.AttendanceRecord, 0, len(recs))
	for _, rec := range recs {
		if s.sealer.Verify(rec) {
			valid = append(valid, rec)
		}
	}
	if err := s.store.ReplaceAll(ctx, valid); err != nil {
		return 0, 0, err
	}
	s.audit.Append(ctx, "DATA_IMPORTED", actorID, map[string]any{
		"totalRecords": len(recs), "validRecords": len(valid),
	})
	return len(valid), len(recs) - len(valid), nil
}

// SetVerification stamps the worker's verification outcome and reseals.
func (s *Service) SetVerification(ctx context.Context, id, verification string) error {
	rec, err := s.store.GetRecord(ctx, id)
	if err != nil {
		return err
	}
	rec.Verification = verification
	if err := s.sealer.Seal(&rec); err != nil {
		return err
	}
	return s.store.UpdateRecord(ctx, rec)
}

// RegisterStation validates and persists kiosk station metadata.
func (s *Service) RegisterStation(ctx context.Context, stationID string) error {
	if stationID == "" {
		return errors.New("station id required")
	}
	return s.store.UpsertStation(ctx, stationID)
}

// storedInstant reduces an instant to what a TIMESTAMPTZ column round-trips:
// UTC, microsecond precision. Sealed timestamps must match the read-back
// value exactly or verification rejects the record.
func storedInstant(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
