package xtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		exp    time.Duration
		expErr bool
	}{
		{in: "90s", exp: 90 * time.Second},
		{in: "2h30m", exp: 2*time.Hour + 30*time.Minute},
		{in: "10d", exp: 10 * 24 * time.Hour},
		{in: "1.5w", exp: 252 * time.Hour},
		{in: "-1d", exp: -24 * time.Hour},
		{in: "3Y4M5d", exp: (3*365*24 + 4*30*24 + 5*24) * time.Hour},
		{in: "", exp: 0},
		{in: "abc", exp: 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			dur, err := ParseDuration(tt.in)
			if tt.expErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.exp, dur)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in  time.Duration
		exp string
	}{
		{in: 0, exp: "0s"},
		{in: 30 * time.Second, exp: "30s"},
		{in: 90 * time.Minute, exp: "1h30m"},
		{in: 26 * time.Hour, exp: "1d2h"},
		{in: 8 * 24 * time.Hour, exp: "1w1d"},
		{in: 367 * 24 * time.Hour, exp: "1Y2d"},
		{in: -26 * time.Hour, exp: "-1d2h"},
		{in: 500 * time.Millisecond, exp: "<1s"},
	}

	for _, tt := range tests {
		t.Run(tt.exp, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.exp, FormatDuration(tt.in))
		})
	}
}
