package attendance

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendhub/internal/integrity"
	"attendhub/internal/model"
)

type fakeStore struct {
	records  []model.AttendanceRecord
	stations []string
	inserts  int
	updates  int
}

func (f *fakeStore) InsertRecord(_ context.Context, rec model.AttendanceRecord) error {
	f.records = append([]model.AttendanceRecord{rec}, f.records...)
	f.inserts++
	return nil
}

func (f *fakeStore) UpdateRecord(_ context.Context, rec model.AttendanceRecord) error {
	for i := range f.records {
		if f.records[i].ID == rec.ID {
			f.records[i] = rec
			f.updates++
			return nil
		}
	}
	return assert.AnError
}

func (f *fakeStore) OpenRecord(_ context.Context, name, date string) (*model.AttendanceRecord, error) {
	for i := range f.records {
		rec := f.records[i]
		if strings.EqualFold(rec.Name, name) && rec.Date == date && rec.Status != model.StatusCheckedOut {
			out := rec
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetRecord(_ context.Context, id string) (model.AttendanceRecord, error) {
	for _, rec := range f.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return model.AttendanceRecord{}, assert.AnError
}

func (f *fakeStore) ListRecords(_ context.Context, name, datePrefix string, limit, offset int) ([]model.AttendanceRecord, error) {
	var out []model.AttendanceRecord
	for _, rec := range f.records {
		if name != "" && !strings.EqualFold(rec.Name, name) {
			continue
		}
		if datePrefix != "" && len(rec.Date) >= len(datePrefix) && rec.Date[:len(datePrefix)] != datePrefix {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeStore) ReplaceAll(_ context.Context, recs []model.AttendanceRecord) error {
	f.records = append([]model.AttendanceRecord(nil), recs...)
	return nil
}

func (f *fakeStore) UpsertStation(_ context.Context, stationID string) error {
	f.stations = append(f.stations, stationID)
	return nil
}

type fakeAudit struct {
	actions []string
}

func (f *fakeAudit) Append(_ context.Context, action, _ string, _ map[string]any) {
	f.actions = append(f.actions, action)
}

func newTestService(at func() time.Time) (*Service, *fakeStore, *fakeAudit) {
	store := &fakeStore{}
	audit := &fakeAudit{}
	svc := NewService(store, integrity.NewSealer("test-key"), audit)
	if at != nil {
		svc.now = at
	}
	return svc, store, audit
}

func clockAt(hour, min, sec int) func() time.Time {
	return func() time.Time {
		return time.Date(2025, 6, 25, hour, min, sec, 0, time.Local)
	}
}

func TestIsLateBoundary(t *testing.T) {
	cases := []struct {
		hour, min, sec int
		late           bool
	}{
		{7, 59, 59, false},
		{8, 29, 59, false},
		{8, 30, 0, false},
		{8, 30, 1, true},
		{8, 31, 0, true},
		{9, 0, 0, true},
		{22, 2, 41, true},
	}
	for _, tc := range cases {
		got := IsLate(time.Date(2025, 6, 25, tc.hour, tc.min, tc.sec, 0, time.Local))
		assert.Equal(t, tc.late, got, "%02d:%02d:%02d", tc.hour, tc.min, tc.sec)
	}
}

func TestCheckInRecordsSession(t *testing.T) {
	svc, store, audit := newTestService(clockAt(9, 30, 24))

	conf := 0.91
	rec, err := svc.CheckIn(context.Background(), "sangavi", &conf)
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "2025-06-25", rec.Date)
	assert.Equal(t, "09:30:24", rec.CheckInTime)
	assert.True(t, rec.IsLate)
	assert.Equal(t, model.StatusLate, rec.Status)
	assert.Equal(t, model.VerificationPending, rec.Verification)
	assert.NotEmpty(t, rec.Hash)
	assert.Equal(t, 1, store.inserts)
	assert.Contains(t, audit.actions, "CHECK_IN_RECORDED")
}

func TestCheckInOnTimeStatus(t *testing.T) {
	svc, _, _ := newTestService(clockAt(8, 15, 0))

	rec, err := svc.CheckIn(context.Background(), "sangavi", nil)
	require.NoError(t, err)
	assert.False(t, rec.IsLate)
	assert.Equal(t, model.StatusCheckedIn, rec.Status)
}

// A second check-in with one still open appends a second open record; the
// first stays untouched.
func TestDoubleCheckInAppendsSecondOpenRecord(t *testing.T) {
	svc, store, _ := newTestService(clockAt(9, 0, 0))

	first, err := svc.CheckIn(context.Background(), "sangavi", nil)
	require.NoError(t, err)

	svc.now = clockAt(9, 5, 0)
	second, err := svc.CheckIn(context.Background(), "sangavi", nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, store.inserts)
	open := 0
	for _, rec := range store.records {
		if rec.Status != model.StatusCheckedOut {
			open++
		}
	}
	assert.Equal(t, 2, open)
}

func TestCheckOutComputesWorkingHours(t *testing.T) {
	svc, store, audit := newTestService(clockAt(9, 0, 0))

	_, err := svc.CheckIn(context.Background(), "sangavi", nil)
	require.NoError(t, err)

	svc.now = clockAt(17, 30, 0)
	rec, err := svc.CheckOut(context.Background(), "sangavi", nil)
	require.NoError(t, err)

	require.NotNil(t, rec.WorkingHours)
	assert.Equal(t, 8.5, *rec.WorkingHours)
	assert.Equal(t, model.StatusCheckedOut, rec.Status)
	require.NotNil(t, rec.CheckOutTime)
	assert.Equal(t, "17:30:00", *rec.CheckOutTime)
	assert.Equal(t, 1, store.updates)
	assert.Contains(t, audit.actions, "CHECK_OUT_RECORDED")

	// The stored copy carries a fresh, valid seal.
	stored := store.records[0]
	assert.True(t, integrity.NewSealer("test-key").Verify(stored))
}

// Check-out with no open record mutates nothing.
func TestCheckOutWithoutOpenRecord(t *testing.T) {
	svc, store, _ := newTestService(clockAt(17, 0, 0))

	before := append([]model.AttendanceRecord(nil), store.records...)
	rec, err := svc.CheckOut(context.Background(), "sangavi", nil)
	assert.ErrorIs(t, err, ErrNoOpenCheckIn)
	assert.Nil(t, rec)
	assert.Equal(t, before, store.records)
	assert.Zero(t, store.inserts)
	assert.Zero(t, store.updates)
}

// Sealed records must verify after the trip through a TIMESTAMPTZ column,
// which keeps only microseconds and hands the value back in the session
// time zone rather than UTC.
func TestSealSurvivesStoredTimestampPrecision(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	svc, store, _ := newTestService(func() time.Time {
		return time.Date(2025, 6, 25, 9, 0, 0, 123456789, ist)
	})

	rec, err := svc.CheckIn(context.Background(), "sangavi", nil)
	require.NoError(t, err)

	// Emulate what the repo scan sees: microsecond precision, session time
	// zone, then the UTC normalization applied on read.
	roundTripped := rec
	roundTripped.Timestamp = roundTripped.Timestamp.Truncate(time.Microsecond).In(ist).UTC()
	assert.True(t, integrity.NewSealer("test-key").Verify(roundTripped))
	assert.True(t, roundTripped.Timestamp.Equal(rec.Timestamp))

	// The check-out stamp takes the same trip.
	svc.now = func() time.Time {
		return time.Date(2025, 6, 25, 17, 30, 0, 987654321, ist)
	}
	out, err := svc.CheckOut(context.Background(), "sangavi", nil)
	require.NoError(t, err)
	require.NotNil(t, out.CheckOutTimestamp)

	stored := store.records[0]
	stored.Timestamp = stored.Timestamp.Truncate(time.Microsecond).In(ist).UTC()
	outUTC := stored.CheckOutTimestamp.Truncate(time.Microsecond).In(ist).UTC()
	stored.CheckOutTimestamp = &outUTC
	assert.True(t, integrity.NewSealer("test-key").Verify(stored))
	assert.Equal(t, 8.5, *stored.WorkingHours)
}

func TestCheckOutMatchesCaseInsensitively(t *testing.T) {
	svc, _, _ := newTestService(clockAt(9, 0, 0))

	_, err := svc.CheckIn(context.Background(), "Sangavi", nil)
	require.NoError(t, err)

	svc.now = clockAt(16, 0, 0)
	rec, err := svc.CheckOut(context.Background(), "sangavi", nil)
	require.NoError(t, err)
	assert.Equal(t, "Sangavi", rec.Name)
}

func TestRecordsDropsTamperedRecords(t *testing.T) {
	svc, store, audit := newTestService(clockAt(9, 0, 0))

	_, err := svc.CheckIn(context.Background(), "sangavi", nil)
	require.NoError(t, err)
	_, err = svc.CheckIn(context.Background(), "yuvaraj", nil)
	require.NoError(t, err)

	// Mutate a stored record without resealing.
	store.records[0].IsLate = false

	recs, err := svc.Records(context.Background(), "", "", 100, 0)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Contains(t, audit.actions, "TAMPER_DETECTED")
}

func TestIntegrityReportCounts(t *testing.T) {
	svc, store, _ := newTestService(clockAt(9, 0, 0))

	for _, name := range []string{"a", "b", "c"} {
		_, err := svc.CheckIn(context.Background(), name, nil)
		require.NoError(t, err)
	}
	store.records[1].Name = "mallory"

	rep, err := svc.Integrity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, IntegrityReport{Total: 3, Valid: 2, Tampered: 1}, rep)
}

func TestImportRejectsInvalidRecords(t *testing.T) {
	svc, store, audit := newTestService(clockAt(9, 0, 0))

	good, err := svc.CheckIn(context.Background(), "sangavi", nil)
	require.NoError(t, err)
	bad := good
	bad.ID = "forged"

	accepted, rejected, err := svc.Import(context.Background(), []model.AttendanceRecord{good, bad}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 1, accepted)
	assert.Equal(t, 1, rejected)
	assert.Len(t, store.records, 1)
	assert.Contains(t, audit.actions, "DATA_IMPORTED")
}

func TestSetVerificationReseals(t *testing.T) {
	svc, store, _ := newTestService(clockAt(9, 0, 0))

	rec, err := svc.CheckIn(context.Background(), "sangavi", nil)
	require.NoError(t, err)

	require.NoError(t, svc.SetVerification(context.Background(), rec.ID, model.VerificationVerified))
	stored := store.records[0]
	assert.Equal(t, model.VerificationVerified, stored.Verification)
	assert.True(t, integrity.NewSealer("test-key").Verify(stored))
}

func TestRegisterStation(t *testing.T) {
	svc, store, _ := newTestService(nil)
	require.NoError(t, svc.RegisterStation(context.Background(), "kiosk-1"))
	assert.Equal(t, []string{"kiosk-1"}, store.stations)
	assert.Error(t, svc.RegisterStation(context.Background(), ""))
}
