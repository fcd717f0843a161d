package integrity

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"

	"attendhub/internal/model"
)

// Sealer derives tamper-evidence fields for attendance records. Records are
// serialized to RFC 8785 canonical JSON before keying so field order never
// affects the MAC.
type Sealer struct {
	key []byte
}

// NewSealer builds a sealer around a shared server-side key.
func NewSealer(key string) *Sealer {
	return &Sealer{key: []byte(key)}
}

// Seal stamps Hash and Signature on the record. Any prior values are
// discarded; callers must reseal after every mutation.
func (s *Sealer) Seal(rec *model.AttendanceRecord) error {
	payload, err := s.canonical(rec)
	if err != nil {
		return err
	}
	rec.Hash = s.mac(payload)
	rec.Signature = s.mac(append(payload, []byte(rec.Hash)...))
	return nil
}

// Verify recomputes both fields and compares in constant time.
func (s *Sealer) Verify(rec model.AttendanceRecord) bool {
	payload, err := s.canonical(&rec)
	if err != nil {
		return false
	}
	hash := s.mac(payload)
	sig := s.mac(append(payload, []byte(hash)...))
	hashOK := subtle.ConstantTimeCompare([]byte(hash), []byte(rec.Hash)) == 1
	sigOK := subtle.ConstantTimeCompare([]byte(sig), []byte(rec.Signature)) == 1
	return hashOK && sigOK
}

// canonical serializes the record without its derived fields.
func (s *Sealer) canonical(rec *model.AttendanceRecord) ([]byte, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	delete(fields, "hash")
	delete(fields, "signature")
	stripped, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	return jcs.Transform(stripped)
}

func (s *Sealer) mac(payload []byte) string {
	m := hmac.New(sha256.New, s.key)
	m.Write(payload)
	return hex.EncodeToString(m.Sum(nil))
}
