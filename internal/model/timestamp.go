package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// The backend serializes naive UTC datetimes, e.g. "2025-01-01T10:00:00.123456".
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

// ParseTimestamp parses a backend timestamp. A value without a zone designator
// is UTC, never local time.
func ParseTimestamp(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty timestamp", ErrMalformedResponse)
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}

	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: unrecognized timestamp %q", ErrMalformedResponse, raw)
}

// Timestamp decodes backend datetimes, always normalized to UTC.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: timestamp is not a string", ErrMalformedResponse)
	}

	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	// Naive form, like the backend.
	return json.Marshal(t.UTC().Format("2006-01-02T15:04:05.999999"))
}
