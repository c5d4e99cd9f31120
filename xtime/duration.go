package xtime

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var durRe = regexp.MustCompile(`(\d*\.\d+|\d+)[^\d]*`)

var unitHours = map[string]time.Duration{
	"d": 24,
	"D": 24,
	"w": 7 * 24,
	"W": 7 * 24,
	"M": 30 * 24,
	"y": 365 * 24,
	"Y": 365 * 24,
}

// ParseDuration parses a duration string. In addition to the units supported
// by time.ParseDuration, it supports days ("d"/"D"), weeks ("w"/"W"), months
// ("M") and years ("y"/"Y"). Examples: "10d", "-1.5w" or "3Y4M5d".
func ParseDuration(s string) (time.Duration, error) {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}

	var sumDur time.Duration
	for _, str := range durRe.FindAllString(s, -1) {
		var hours time.Duration = 1
		for unit, unitDur := range unitHours {
			if strings.Contains(str, unit) {
				str = strings.ReplaceAll(str, unit, "h")
				hours = unitDur
				break
			}
		}

		dur, err := time.ParseDuration(str)
		if err != nil {
			return 0, err
		}

		sumDur += dur * hours
	}

	if neg {
		sumDur = -sumDur
	}

	return sumDur, nil
}

// FormatDuration formats a duration using the same units as ParseDuration,
// keeping at most the two most significant ones. Returns strings like "10d",
// "1w2d" or "3h15m".
func FormatDuration(d time.Duration) string {
	if d == 0 {
		return "0s"
	}
	neg := d < 0
	if neg {
		d = -d
	}

	units := []struct {
		name string
		dur  time.Duration
	}{
		{"Y", 365 * 24 * time.Hour},
		{"M", 30 * 24 * time.Hour},
		{"w", 7 * 24 * time.Hour},
		{"d", 24 * time.Hour},
		{"h", time.Hour},
		{"m", time.Minute},
		{"s", time.Second},
	}

	var parts []string
	for _, unit := range units {
		n := d / unit.dur
		if n == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d%s", n, unit.name))
		if len(parts) == 2 {
			break
		}
		d -= n * unit.dur
	}

	if len(parts) == 0 {
		return "<1s"
	}

	out := strings.Join(parts, "")
	if neg {
		out = "-" + out
	}

	return out
}
