package workout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jbrinkw/luna-ext-coachbyte/internal/telemetry/metrics"
	"github.com/jbrinkw/luna-ext-coachbyte/internal/timer"

	log "github.com/sirupsen/logrus"
)

type planRepo interface {
	CreateDailyPlan(ctx context.Context, logDate string, items []PlanSetItem) ([]PlannedSetRow, error)
	TodayPlan(ctx context.Context, logDate string) ([]PlannedSetRow, error)
	CompleteNext(ctx context.Context, params CompleteNextParams) (*CompletionRow, error)
	InsertCompletedSet(ctx context.Context, logDate, exercise string, reps int, load float64, completedAt time.Time) error
	UpdateSummary(ctx context.Context, logDate, text string) error
	History(ctx context.Context, startDate string) ([]HistoryRow, error)
	ReplaceSplitDay(ctx context.Context, dayNum int, items []SplitSetItem) error
	Split(ctx context.Context, dayNum *int) ([]SplitRow, error)
}

// Service holds the workout use cases the agent tools and the HTTP API
// share. All date handling goes through the day clock so both surfaces
// agree on what "today" means.
type Service struct {
	repo    planRepo
	timer   timer.Service
	day     *DayClock
	metrics *metrics.Manager
}

func NewService(repo planRepo, restTimer timer.Service, day *DayClock, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:    repo,
		timer:   restTimer,
		day:     day,
		metrics: metricsManager,
	}
}

// CompleteResult reports the outcome of a complete-next-set call. Completed
// is false when the queue had nothing to complete, which is not an error.
type CompleteResult struct {
	Completed bool   `json:"completed"`
	Message   string `json:"message"`
}

// NewDailyPlan validates and stores a batch of planned sets for today,
// returning a summary of what was planned and at which queue positions.
func (s *Service) NewDailyPlan(ctx context.Context, items []PlanSetItem) (string, error) {
	if len(items) == 0 {
		return "", errors.New("no sets given")
	}
	for _, item := range items {
		if err := ValidatePlanItem(item); err != nil {
			return "", err
		}
	}

	planned, err := s.repo.CreateDailyPlan(ctx, s.day.TodayISO(), items)
	if err != nil {
		return "", err
	}

	details := make([]string, 0, len(planned))
	for _, p := range planned {
		details = append(details, fmt.Sprintf("%s, %d reps at %g pounds as set %d", p.Exercise, p.Reps, p.Load, p.OrderNum))
	}

	if s.metrics != nil {
		s.metrics.CounterPlannedSets.Add(float64(len(planned)))
	}

	return fmt.Sprintf("planned %d sets for today: %s", len(planned), strings.Join(details, "; ")), nil
}

// TodayPlan returns today's full plan in queue order, completed sets included.
func (s *Service) TodayPlan(ctx context.Context) ([]PlannedSetRow, error) {
	return s.repo.TodayPlan(ctx, s.day.TodayISO())
}

// CompleteNextSet completes the earliest unfinished planned set for today,
// optionally narrowed to one exercise, with optional reps/load overrides
// for what actually happened. When the next unfinished set carries a rest
// duration, the rest timer is armed for it; timer trouble is logged and
// never fails the completion.
func (s *Service) CompleteNextSet(ctx context.Context, exercise string, repsOverride *int, loadOverride *float64) (*CompleteResult, error) {
	if repsOverride != nil {
		if err := ValidateReps(*repsOverride); err != nil {
			return nil, err
		}
	}
	if loadOverride != nil {
		if err := ValidateLoad(*loadOverride); err != nil {
			return nil, err
		}
	}

	row, err := s.repo.CompleteNext(ctx, CompleteNextParams{
		LogDate:      s.day.TodayISO(),
		Exercise:     exercise,
		RepsOverride: repsOverride,
		LoadOverride: loadOverride,
		CompletedAt:  time.Now(),
	})
	if errors.Is(err, ErrNoPlannedSets) {
		if exercise != "" {
			return &CompleteResult{Message: fmt.Sprintf("No planned sets found for exercise: %s", exercise)}, nil
		}
		return &CompleteResult{Message: "No planned sets remaining for today"}, nil
	}
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Completed %s: %d reps @ %g load", row.Exercise, row.RepsDone, row.LoadDone)
	if repsOverride != nil || loadOverride != nil {
		message += fmt.Sprintf(" (planned: %d reps @ %g load)", row.PlannedReps, row.PlannedLoad)
	}

	if row.NextRest != nil && *row.NextRest > 0 {
		if _, err := s.timer.Set(ctx, *row.NextRest, timer.UnitSeconds); err != nil {
			log.Warnf("set rest timer after completing set %d: %s", row.PlannedSetID, err)
		} else {
			message += fmt.Sprintf(" Rest timer set for %d seconds.", *row.NextRest)
		}
	}

	if s.metrics != nil {
		s.metrics.CounterCompletedSets.Inc()
	}

	return &CompleteResult{Completed: true, Message: message}, nil
}

// LogCompletedSet records an ad hoc set that was never planned.
func (s *Service) LogCompletedSet(ctx context.Context, exercise string, reps int, load float64) (string, error) {
	if exercise == "" {
		return "", errors.New("exercise name must not be empty")
	}
	if err := ValidateReps(reps); err != nil {
		return "", err
	}
	if err := ValidateLoad(load); err != nil {
		return "", err
	}

	if err := s.repo.InsertCompletedSet(ctx, s.day.TodayISO(), exercise, reps, load, time.Now()); err != nil {
		return "", err
	}

	if s.metrics != nil {
		s.metrics.CounterCompletedSets.Inc()
	}

	return fmt.Sprintf("logged: %s, %d reps @ %g", exercise, reps, load), nil
}

// UpdateSummary overwrites today's free-text summary.
func (s *Service) UpdateSummary(ctx context.Context, text string) error {
	return s.repo.UpdateSummary(ctx, s.day.TodayISO(), text)
}

// RecentHistory returns planned sets with their completions for the last
// N days, today's effective date included.
func (s *Service) RecentHistory(ctx context.Context, days int) ([]HistoryRow, error) {
	if err := ValidateHistoryDays(days); err != nil {
		return nil, err
	}
	startDate := s.day.Today().AddDate(0, 0, -days).Format("2006-01-02")
	return s.repo.History(ctx, startDate)
}

// SetWeeklySplitDay replaces the split template for one weekday.
func (s *Service) SetWeeklySplitDay(ctx context.Context, day string, items []SplitSetItem) (string, error) {
	dayNum, ok := DayNumber(day)
	if !ok {
		return "", fmt.Errorf("Invalid day: %s", day)
	}
	for _, item := range items {
		if err := ValidateSplitItem(item); err != nil {
			return "", err
		}
	}

	if err := s.repo.ReplaceSplitDay(ctx, dayNum, items); err != nil {
		return "", err
	}

	return fmt.Sprintf("split updated for %s with %d sets", strings.ToLower(day), len(items)), nil
}

// WeeklySplit returns the split template, for one weekday or the whole week.
func (s *Service) WeeklySplit(ctx context.Context, day string) ([]SplitRow, error) {
	var dayNum *int
	if day != "" {
		n, ok := DayNumber(day)
		if !ok {
			return nil, fmt.Errorf("Invalid day: %s", day)
		}
		dayNum = &n
	}
	return s.repo.Split(ctx, dayNum)
}
