package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat64OrNil(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want *float64
	}{
		{"nil", nil, nil},
		{"float64", 100.5, ptr(100.5)},
		{"float32", float32(2.5), ptr(2.5)},
		{"int", 1000, ptr(1000.0)},
		{"int64", int64(42), ptr(42.0)},
		{"numeric string", "99.25", ptr(99.25)},
		{"padded string", " 7 ", ptr(7.0)},
		{"empty string", "", nil},
		{"garbage string", "not_a_number", nil},
		{"json number", json.Number("3.14"), ptr(3.14)},
		{"bad json number", json.Number("x"), nil},
		{"unsupported type", []string{"1"}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Float64OrNil(tc.in)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.want, *got)
		})
	}
}

func TestParseHourlyTime(t *testing.T) {
	t.Run("minute precision", func(t *testing.T) {
		got, err := ParseHourlyTime("2024-01-02T15:00")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC), got)
	})

	t.Run("with seconds", func(t *testing.T) {
		got, err := ParseHourlyTime("2024-01-02T15:00:30")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 2, 15, 0, 30, 0, time.UTC), got)
	})

	t.Run("rfc3339 converts to UTC", func(t *testing.T) {
		got, err := ParseHourlyTime("2024-01-02T15:00:00+05:30")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC), got)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseHourlyTime("yesterday")
		require.Error(t, err)
	})
}

func ptr(f float64) *float64 { return &f }
