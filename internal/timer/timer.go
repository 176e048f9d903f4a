// Package timer implements the rest timer: one shared countdown, set after
// a completed set and queried by the agent. Two backends exist, a local
// JSON file and a single-row database table, behind the same Service
// contract.
package timer

import (
	"context"
	"fmt"
	"time"
)

type Unit string

const (
	UnitMinutes Unit = "minutes"
	UnitSeconds Unit = "seconds"
)

const (
	MinMinutes = 1
	MaxMinutes = 180
	MinSeconds = 1
	MaxSeconds = 10800
)

type State string

const (
	StateNoTimer State = "no_timer"
	StateRunning State = "running"
	StateExpired State = "expired"
	StateError   State = "error"
)

// Status is a point-in-time view of the timer. RemainingSeconds is set
// while running, ExpiredSeconds after expiry.
type Status struct {
	State            State     `json:"status"`
	Message          string    `json:"message"`
	RemainingSeconds int       `json:"remaining_seconds,omitempty"`
	ExpiredSeconds   int       `json:"expired_seconds,omitempty"`
	EndTime          time.Time `json:"end_time,omitempty"`
	CreatedAt        time.Time `json:"created_at,omitempty"`
}

// Service is the rest timer contract. Set replaces any previous timer and
// returns a human-readable confirmation; Get never fails, backend trouble
// is reported as StateError.
type Service interface {
	Set(ctx context.Context, duration int, unit Unit) (string, error)
	Get(ctx context.Context) Status
}

func ValidateDuration(duration int, unit Unit) error {
	switch unit {
	case UnitMinutes:
		if duration < MinMinutes || duration > MaxMinutes {
			return fmt.Errorf("duration must be between %d and %d minutes, got %d", MinMinutes, MaxMinutes, duration)
		}
	case UnitSeconds:
		if duration < MinSeconds || duration > MaxSeconds {
			return fmt.Errorf("duration must be between %d and %d seconds, got %d", MinSeconds, MaxSeconds, duration)
		}
	default:
		return fmt.Errorf("unit must be %q or %q, got %q", UnitMinutes, UnitSeconds, unit)
	}
	return nil
}

func durationSeconds(duration int, unit Unit) int {
	if unit == UnitMinutes {
		return duration * 60
	}
	return duration
}

// durationText renders seconds-mode durations of a minute or more as M:SS.
func durationText(duration int, unit Unit) string {
	if unit == UnitSeconds && duration >= 60 {
		return fmt.Sprintf("%d:%02d", duration/60, duration%60)
	}
	return fmt.Sprintf("%d %s", duration, unit)
}

func setMessage(duration int, unit Unit, endTime time.Time) string {
	return fmt.Sprintf("Timer set for %s (until %s)", durationText(duration, unit), endTime.Format("15:04:05"))
}

// statusAt derives the running/expired view from a stored end time. Both
// backends share it so the two report identically. Any time before the end
// counts as running, sub-second remainders included.
func statusAt(endTime, now time.Time) Status {
	if now.Before(endTime) {
		remaining := int(endTime.Sub(now).Seconds())
		return Status{
			State:            StateRunning,
			Message:          fmt.Sprintf("Timer running - %d:%02d remaining", remaining/60, remaining%60),
			RemainingSeconds: remaining,
			EndTime:          endTime,
		}
	}
	expired := int(now.Sub(endTime).Seconds())
	return Status{
		State:          StateExpired,
		Message:        fmt.Sprintf("Timer expired %d seconds ago", expired),
		ExpiredSeconds: expired,
		EndTime:        endTime,
	}
}
