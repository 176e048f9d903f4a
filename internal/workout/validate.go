package workout

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MinReps = 1
	MaxReps = 100
	MinLoad = 0
	MaxLoad = 2000
	MinRest = 0
	MaxRest = 600

	MinHistoryDays = 1
	MaxHistoryDays = 365
)

var dayNumbers = map[string]int{
	"sunday":    0,
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
}

var dayNames = [7]string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// DayNumber maps a weekday name (case-insensitive) to its code,
// 0=Sunday through 6=Saturday.
func DayNumber(day string) (int, bool) {
	n, ok := dayNumbers[strings.ToLower(day)]
	return n, ok
}

func DayName(dayNum int) string {
	if dayNum < 0 || dayNum > 6 {
		return ""
	}
	return dayNames[dayNum]
}

func ValidateReps(reps int) error {
	if reps < MinReps || reps > MaxReps {
		return fmt.Errorf("reps must be between %d and %d, got %d", MinReps, MaxReps, reps)
	}
	return nil
}

func ValidateLoad(load float64) error {
	if load < MinLoad || load > MaxLoad {
		return fmt.Errorf("load must be between %d and %d, got %g", MinLoad, MaxLoad, load)
	}
	return nil
}

func ValidateRest(rest int) error {
	if rest < MinRest || rest > MaxRest {
		return fmt.Errorf("rest must be between %d and %d seconds, got %d", MinRest, MaxRest, rest)
	}
	return nil
}

func ValidateHistoryDays(days int) error {
	if days < MinHistoryDays || days > MaxHistoryDays {
		return fmt.Errorf("days must be between %d and %d, got %d", MinHistoryDays, MaxHistoryDays, days)
	}
	return nil
}

func ValidatePlanItem(item PlanSetItem) error {
	if item.Exercise == "" {
		return errors.New("exercise name must not be empty")
	}
	if err := ValidateReps(item.Reps); err != nil {
		return err
	}
	if err := ValidateLoad(item.Load); err != nil {
		return err
	}
	return ValidateRest(item.Rest)
}

func ValidateSplitItem(item SplitSetItem) error {
	if item.Exercise == "" {
		return errors.New("exercise name must not be empty")
	}
	if err := ValidateReps(item.Reps); err != nil {
		return err
	}
	if err := ValidateLoad(item.Load); err != nil {
		return err
	}
	return ValidateRest(item.Rest)
}
