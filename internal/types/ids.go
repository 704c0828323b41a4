package types

import (
	"time"

	"github.com/google/uuid"
)

// StudentID represents a UUIDv7 student identifier.
// String alias enables type safety while maintaining JSON string serialization.
// UUIDv7 time-ordering ensures sequential IDs cluster in B-tree indexes.
type StudentID string

// AuditID represents a UUIDv7 identifier for one audit invocation.
// Stamped on reports so callers can correlate output with logs.
type AuditID string

// NewStudentID generates a UUIDv7 student identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewStudentID() StudentID {
	return StudentID(uuid.Must(uuid.NewV7()).String())
}

// NewAuditID generates a UUIDv7 audit identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewAuditID() AuditID {
	return AuditID(uuid.Must(uuid.NewV7()).String())
}

// ParseStudentID validates and converts a string to StudentID.
// Rejects malformed UUIDs to prevent invalid IDs from entering the store.
func ParseStudentID(s string) (StudentID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return StudentID(s), nil
}

// AuditIDTime extracts the timestamp embedded in a UUIDv7 audit ID.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func AuditIDTime(id AuditID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
