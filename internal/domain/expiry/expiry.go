// internal/domain/expiry/expiry.go
package expiry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Directory timestamps arrive either as Windows FILETIME tick counts
// (100-nanosecond intervals since 1601-01-01 UTC) or as already-absolute
// timestamps, depending on how the directory server serializes the
// attribute.

const ticksPerSecond = 10_000_000

// fileTimeEpoch is 1601-01-01T00:00:00Z, the FILETIME zero point.
var fileTimeEpoch = time.Date(1601, time.January, 1, 0, 0, 0, 0, time.UTC)

// maxConvertible caps tick counts at year 9999. Anything beyond that is a
// corrupt attribute, not a real password-set time.
var maxConvertible = time.Date(10000, time.January, 1, 0, 0, 0, 0, time.UTC)

var ErrNegativeTicks = fmt.Errorf("negative FILETIME tick count")
var ErrTicksOutOfRange = fmt.Errorf("FILETIME tick count out of range")

// FromFileTime converts a FILETIME tick count to the corresponding UTC
// instant. Negative or absurdly large counts are data errors attributable
// to the source record.
func FromFileTime(ticks int64) (time.Time, error) {
	if ticks < 0 {
		return time.Time{}, fmt.Errorf("%w: %d", ErrNegativeTicks, ticks)
	}
	secs := ticks / ticksPerSecond
	nanos := (ticks % ticksPerSecond) * 100
	t := fileTimeEpoch.Add(time.Duration(secs)*time.Second + time.Duration(nanos)*time.Nanosecond)
	if !t.Before(maxConvertible) {
		return time.Time{}, fmt.Errorf("%w: %d", ErrTicksOutOfRange, ticks)
	}
	return t, nil
}

// absoluteLayouts are the textual timestamp forms a directory server may
// hand back instead of raw ticks. LDAP generalized time first, since that
// is what Active Directory emits for converted attributes.
var absoluteLayouts = []string{
	"20060102150405Z",
	"20060102150405.0Z",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseLastSet normalizes a raw pwdLastSet attribute value. An all-digit
// value is a tick count; anything else must parse as an absolute
// timestamp, which is treated as authoritative and normalized to UTC
// (UTC is assumed when the value carries no zone).
func ParseLastSet(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty pwdLastSet value")
	}
	if ticks, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return FromFileTime(ticks)
	}
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable pwdLastSet value %q", raw)
}

// Status is the derived expiry state of one account's password. It is
// recomputed every run and never persisted.
type Status struct {
	ExpiresAt time.Time
	DaysLeft  int
}

// Calculator derives password expiry from the last-set instant and a
// fixed policy window. Pure; the window comes from configuration.
type Calculator struct {
	MaxAge time.Duration
}

func NewCalculator(maxAge time.Duration) Calculator {
	return Calculator{MaxAge: maxAge}
}

// Status computes the expiry instant and whole days remaining relative to
// now. DaysLeft floors toward negative infinity, so a password one hour
// past expiry reports -1, not 0.
func (c Calculator) Status(lastSet, now time.Time) Status {
	expiresAt := lastSet.Add(c.MaxAge)
	remaining := expiresAt.Sub(now)
	days := int(math.Floor(remaining.Hours() / 24))
	return Status{ExpiresAt: expiresAt, DaysLeft: days}
}
