package workout

import (
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// FallbackTimeZone is used when the configured zone name cannot be loaded.
const FallbackTimeZone = "America/New_York"

// DayClock resolves "today" for workout logging. The day boundary is not
// necessarily midnight: with a day start of e.g. 04:00, a set logged at
// 02:00 belongs to the previous calendar day.
type DayClock struct {
	loc             *time.Location
	dayStartMinutes int
	now             func() time.Time
}

func NewDayClock(timeZoneName, dayStart string) *DayClock {
	loc, err := time.LoadLocation(timeZoneName)
	if err != nil {
		log.Warnf("unknown time zone [%s], falling back to %s: %s", timeZoneName, FallbackTimeZone, err)
		loc, err = time.LoadLocation(FallbackTimeZone)
		if err != nil {
			loc = time.UTC
		}
	}

	return &DayClock{
		loc:             loc,
		dayStartMinutes: ParseDayStartMinutes(dayStart),
		now:             time.Now,
	}
}

// Today returns the effective workout date, at midnight UTC.
func (c *DayClock) Today() time.Time {
	now := c.now().In(c.loc)
	if now.Hour()*60+now.Minute() < c.dayStartMinutes {
		now = now.AddDate(0, 0, -1)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// TodayISO returns the effective workout date as YYYY-MM-DD.
func (c *DayClock) TodayISO() string {
	return c.Today().Format("2006-01-02")
}

// ParseDayStartMinutes parses a day start offset as minutes since midnight.
// Accepts "HH:MM" or compact digit strings ("HHMM"/"HMM"); hours clamp to
// [0,23], minutes to [0,59]. Anything else yields 0 rather than an error.
func ParseDayStartMinutes(value string) int {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return 0
	}

	var hoursStr, minutesStr string
	switch {
	case strings.Contains(raw, ":"):
		parts := strings.SplitN(raw, ":", 2)
		hoursStr, minutesStr = parts[0], parts[1]
	case isDigits(raw) && len(raw) >= 3 && len(raw) <= 4:
		padded := raw
		if len(padded) == 3 {
			padded = "0" + padded
		}
		hoursStr, minutesStr = padded[:2], padded[2:]
	default:
		return 0
	}

	hours, err := parseClamped(hoursStr, 0, 23)
	if err != nil {
		return 0
	}
	minutes, err := parseClamped(minutesStr, 0, 59)
	if err != nil {
		return 0
	}
	return hours*60 + minutes
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func parseClamped(s string, min, max int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < min {
		return min, nil
	}
	if n > max {
		return max, nil
	}
	return n, nil
}
