package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	cases := map[string]string{
		"naive":            "2025-01-01T10:00:00",
		"naive fractional": "2025-01-01T10:00:00.000000",
		"naive with space": "2025-01-01 10:00:00",
		"explicit utc":     "2025-01-01T10:00:00Z",
		"offset":           "2025-01-01T12:00:00+02:00",
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := ParseTimestamp(raw)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	t.Run("garbage is malformed", func(t *testing.T) {
		_, err := ParseTimestamp("tomorrow-ish")
		require.ErrorIs(t, err, ErrMalformedResponse)
	})
}

// Regression: a zone-less expiry must not shift by the local offset.
func TestParseTimestampIgnoresLocalZone(t *testing.T) {
	saved := time.Local
	time.Local = time.FixedZone("UTC+5", 5*60*60)
	t.Cleanup(func() { time.Local = saved })

	got, err := ParseTimestamp("2025-01-01T10:00:00")
	require.NoError(t, err)
	now := time.Date(2025, 1, 1, 9, 59, 50, 0, time.UTC)
	assert.Equal(t, 10*time.Second, got.Sub(now))
}

func TestTimestampJSON(t *testing.T) {
	var payload struct {
		ExpiresAt *Timestamp `json:"expires_at"`
		CreatedAt Timestamp  `json:"created_at"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"expires_at":"2025-01-01T10:30:00.5","created_at":null}`), &payload))
	require.NotNil(t, payload.ExpiresAt)
	assert.Equal(t, 500*time.Millisecond, time.Duration(payload.ExpiresAt.Nanosecond()))
	assert.True(t, payload.CreatedAt.IsZero())

	err := json.Unmarshal([]byte(`{"created_at":42}`), &payload)
	require.ErrorIs(t, err, ErrMalformedResponse)

	out, err := json.Marshal(Timestamp{Time: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, `"2025-01-01T10:00:00"`, string(out))
}
