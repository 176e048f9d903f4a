package workout

import (
	"context"
	"sort"
	"time"
)

type mockPlannedSet struct {
	id        int
	logDate   string
	exercise  string
	reps      int
	load      float64
	rest      int
	orderNum  int
	completed bool
	repsDone  int
	loadDone  float64
}

type mockCompletedSet struct {
	logDate      string
	exercise     string
	reps         int
	load         float64
	plannedSetID *int
	completedAt  time.Time
}

// repoMock is an in-memory planRepo for service tests.
type repoMock struct {
	nextID    int
	planned   []*mockPlannedSet
	completed []mockCompletedSet
	summaries map[string]string
	split     map[int][]SplitSetItem

	returnErr error
}

func newRepoMock() *repoMock {
	return &repoMock{
		nextID:    1,
		summaries: map[string]string{},
		split:     map[int][]SplitSetItem{},
	}
}

func (m *repoMock) dayPlanned(logDate string) []*mockPlannedSet {
	sets := make([]*mockPlannedSet, 0)
	for _, ps := range m.planned {
		if ps.logDate == logDate {
			sets = append(sets, ps)
		}
	}
	sort.SliceStable(sets, func(i, j int) bool {
		return sets[i].orderNum < sets[j].orderNum
	})
	return sets
}

func (m *repoMock) CreateDailyPlan(_ context.Context, logDate string, items []PlanSetItem) ([]PlannedSetRow, error) {
	if m.returnErr != nil {
		return nil, m.returnErr
	}

	minOrder, maxOrder := 0, 0
	for i, ps := range m.dayPlanned(logDate) {
		if i == 0 || ps.orderNum < minOrder {
			minOrder = ps.orderNum
		}
		if i == 0 || ps.orderNum > maxOrder {
			maxOrder = ps.orderNum
		}
	}

	planned := make([]PlannedSetRow, 0, len(items))
	for _, item := range items {
		var orderNum int
		switch item.Order {
		case 0:
			orderNum = maxOrder + 1
			maxOrder = orderNum
		case -1:
			orderNum = minOrder - 1
			minOrder = orderNum
		default:
			orderNum = item.Order
		}

		m.planned = append(m.planned, &mockPlannedSet{
			id:       m.nextID,
			logDate:  logDate,
			exercise: item.Exercise,
			reps:     item.Reps,
			load:     item.Load,
			rest:     item.Rest,
			orderNum: orderNum,
		})
		m.nextID++

		planned = append(planned, PlannedSetRow{
			Exercise: item.Exercise,
			Reps:     item.Reps,
			Load:     item.Load,
			Rest:     item.Rest,
			OrderNum: orderNum,
		})
	}
	return planned, nil
}

func (m *repoMock) TodayPlan(_ context.Context, logDate string) ([]PlannedSetRow, error) {
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	plan := make([]PlannedSetRow, 0)
	for _, ps := range m.dayPlanned(logDate) {
		plan = append(plan, PlannedSetRow{
			Exercise: ps.exercise,
			Reps:     ps.reps,
			Load:     ps.load,
			Rest:     ps.rest,
			OrderNum: ps.orderNum,
		})
	}
	return plan, nil
}

func (m *repoMock) CompleteNext(_ context.Context, params CompleteNextParams) (*CompletionRow, error) {
	if m.returnErr != nil {
		return nil, m.returnErr
	}

	var next *mockPlannedSet
	for _, ps := range m.dayPlanned(params.LogDate) {
		if ps.completed {
			continue
		}
		if params.Exercise != "" && ps.exercise != params.Exercise {
			continue
		}
		next = ps
		break
	}
	if next == nil {
		return nil, ErrNoPlannedSets
	}

	next.completed = true
	next.repsDone = next.reps
	next.loadDone = next.load
	if params.RepsOverride != nil {
		next.repsDone = *params.RepsOverride
	}
	if params.LoadOverride != nil {
		next.loadDone = *params.LoadOverride
	}

	id := next.id
	m.completed = append(m.completed, mockCompletedSet{
		logDate:      params.LogDate,
		exercise:     next.exercise,
		reps:         next.repsDone,
		load:         next.loadDone,
		plannedSetID: &id,
		completedAt:  params.CompletedAt,
	})

	row := &CompletionRow{
		PlannedSetID: next.id,
		Exercise:     next.exercise,
		PlannedReps:  next.reps,
		PlannedLoad:  next.load,
		Rest:         next.rest,
		OrderNum:     next.orderNum,
		RepsDone:     next.repsDone,
		LoadDone:     next.loadDone,
	}
	for _, ps := range m.dayPlanned(params.LogDate) {
		if !ps.completed {
			rest := ps.rest
			row.NextRest = &rest
			break
		}
	}
	return row, nil
}

func (m *repoMock) InsertCompletedSet(_ context.Context, logDate, exercise string, reps int, load float64, completedAt time.Time) error {
	if m.returnErr != nil {
		return m.returnErr
	}
	m.completed = append(m.completed, mockCompletedSet{
		logDate:     logDate,
		exercise:    exercise,
		reps:        reps,
		load:        load,
		completedAt: completedAt,
	})
	return nil
}

func (m *repoMock) UpdateSummary(_ context.Context, logDate, text string) error {
	if m.returnErr != nil {
		return m.returnErr
	}
	m.summaries[logDate] = text
	return nil
}

func (m *repoMock) History(_ context.Context, startDate string) ([]HistoryRow, error) {
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	history := make([]HistoryRow, 0)
	dates := make([]string, 0)
	seen := map[string]bool{}
	for _, ps := range m.planned {
		if ps.logDate >= startDate && !seen[ps.logDate] {
			seen[ps.logDate] = true
			dates = append(dates, ps.logDate)
		}
	}
	sort.Strings(dates)
	for _, date := range dates {
		for _, ps := range m.dayPlanned(date) {
			h := HistoryRow{
				LogDate:  ps.logDate,
				Exercise: ps.exercise,
				Reps:     ps.reps,
				Load:     ps.load,
			}
			if ps.completed {
				repsDone := ps.repsDone
				loadDone := ps.loadDone
				h.RepsDone = &repsDone
				h.LoadDone = &loadDone
			}
			history = append(history, h)
		}
	}
	return history, nil
}

func (m *repoMock) ReplaceSplitDay(_ context.Context, dayNum int, items []SplitSetItem) error {
	if m.returnErr != nil {
		return m.returnErr
	}
	m.split[dayNum] = append([]SplitSetItem{}, items...)
	return nil
}

func (m *repoMock) Split(_ context.Context, dayNum *int) ([]SplitRow, error) {
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	split := make([]SplitRow, 0)
	for day := 0; day <= 6; day++ {
		if dayNum != nil && day != *dayNum {
			continue
		}
		for _, item := range m.split[day] {
			split = append(split, SplitRow{
				DayOfWeek: day,
				Exercise:  item.Exercise,
				Reps:      item.Reps,
				Load:      item.Load,
				Rest:      item.Rest,
				OrderNum:  item.Order,
				Relative:  item.Relative,
			})
		}
	}
	return split, nil
}
