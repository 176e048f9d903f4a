package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jbrinkw/luna-ext-coachbyte/internal/timer"
	"github.com/jbrinkw/luna-ext-coachbyte/internal/workout"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// mockWorkoutService implements workoutService for tests.
type mockWorkoutService struct {
	planMessage    string
	planErr        error
	plan           []workout.PlannedSetRow
	planFetchErr   error
	completeResult *workout.CompleteResult
	completeErr    error
	logMessage     string
	logErr         error
	summaryErr     error
	history        []workout.HistoryRow
	historyErr     error
	splitMessage   string
	splitSetErr    error
	split          []workout.SplitRow
	splitErr       error

	gotPlanItems  []workout.PlanSetItem
	gotSplitDay   string
	gotSplitItems []workout.SplitSetItem
	gotSummary    string
}

func (m *mockWorkoutService) NewDailyPlan(_ context.Context, items []workout.PlanSetItem) (string, error) {
	m.gotPlanItems = items
	return m.planMessage, m.planErr
}

func (m *mockWorkoutService) TodayPlan(_ context.Context) ([]workout.PlannedSetRow, error) {
	return m.plan, m.planFetchErr
}

func (m *mockWorkoutService) CompleteNextSet(_ context.Context, _ string, _ *int, _ *float64) (*workout.CompleteResult, error) {
	return m.completeResult, m.completeErr
}

func (m *mockWorkoutService) LogCompletedSet(_ context.Context, _ string, _ int, _ float64) (string, error) {
	return m.logMessage, m.logErr
}

func (m *mockWorkoutService) UpdateSummary(_ context.Context, text string) error {
	m.gotSummary = text
	return m.summaryErr
}

func (m *mockWorkoutService) RecentHistory(_ context.Context, _ int) ([]workout.HistoryRow, error) {
	return m.history, m.historyErr
}

func (m *mockWorkoutService) SetWeeklySplitDay(_ context.Context, day string, items []workout.SplitSetItem) (string, error) {
	m.gotSplitDay = day
	m.gotSplitItems = items
	return m.splitMessage, m.splitSetErr
}

func (m *mockWorkoutService) WeeklySplit(_ context.Context, _ string) ([]workout.SplitRow, error) {
	return m.split, m.splitErr
}

// mockTimer implements timer.Service for tests.
type mockTimer struct {
	setMessage  string
	setErr      error
	status      timer.Status
	gotDuration int
	gotUnit     timer.Unit
}

func (m *mockTimer) Set(_ context.Context, duration int, unit timer.Unit) (string, error) {
	m.gotDuration = duration
	m.gotUnit = unit
	return m.setMessage, m.setErr
}

func (m *mockTimer) Get(_ context.Context) timer.Status {
	return m.status
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected 1 content, got %d", len(res.Content))
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content")
	}
	return tc.Text
}

func envelopeOf(t *testing.T, res *mcp.CallToolResult) toolEnvelope {
	t.Helper()
	var env toolEnvelope
	if err := json.Unmarshal([]byte(textOf(t, res)), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return env
}

func TestHandler_NewDailyPlanTool(t *testing.T) {
	t.Run("plans_sets", func(t *testing.T) {
		svc := &mockWorkoutService{planMessage: "planned 1 sets for today: bench press, 5 reps at 185 pounds as set 1"}
		h := NewHandler(svc, &mockTimer{})
		fn := h.NewDailyPlanTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, NewDailyPlanInput{
			Sets: []PlanSetInput{{Exercise: "bench press", Reps: 5, Load: 185, Rest: 120}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.IsError {
			t.Fatalf("unexpected IsError: %s", textOf(t, res))
		}
		env := envelopeOf(t, res)
		if !env.Success {
			t.Fatalf("expected success")
		}
		if env.Message != svc.planMessage {
			t.Fatalf("message = %q", env.Message)
		}
		if len(svc.gotPlanItems) != 1 || svc.gotPlanItems[0].Exercise != "bench press" {
			t.Fatalf("plan items = %+v", svc.gotPlanItems)
		}
	})

	t.Run("returns_error_when_plan_fails", func(t *testing.T) {
		svc := &mockWorkoutService{planErr: errors.New("reps must be between 1 and 100, got 0")}
		h := NewHandler(svc, &mockTimer{})
		fn := h.NewDailyPlanTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, NewDailyPlanInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
		if textOf(t, res) != "Error creating plan: reps must be between 1 and 100, got 0" {
			t.Fatalf("content text = %q", textOf(t, res))
		}
	})
}

func TestHandler_CompleteNextSetTool(t *testing.T) {
	t.Run("completes_set", func(t *testing.T) {
		svc := &mockWorkoutService{
			completeResult: &workout.CompleteResult{
				Completed: true,
				Message:   "Completed bench press: 5 reps @ 185 load Rest timer set for 90 seconds.",
			},
		}
		h := NewHandler(svc, &mockTimer{})
		fn := h.CompleteNextSetTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, CompleteNextSetInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		env := envelopeOf(t, res)
		if !env.Success {
			t.Fatalf("expected success")
		}
	})

	t.Run("empty_queue_is_not_an_error", func(t *testing.T) {
		svc := &mockWorkoutService{
			completeResult: &workout.CompleteResult{Message: "No planned sets remaining for today"},
		}
		h := NewHandler(svc, &mockTimer{})
		fn := h.CompleteNextSetTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, CompleteNextSetInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.IsError {
			t.Fatalf("unexpected IsError")
		}
		env := envelopeOf(t, res)
		if env.Success {
			t.Fatalf("expected success=false")
		}
		if env.Message != "No planned sets remaining for today" {
			t.Fatalf("message = %q", env.Message)
		}
	})

	t.Run("returns_error_when_complete_fails", func(t *testing.T) {
		svc := &mockWorkoutService{completeErr: errors.New("connection refused")}
		h := NewHandler(svc, &mockTimer{})
		fn := h.CompleteNextSetTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, CompleteNextSetInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
		if textOf(t, res) != "Error completing set: connection refused" {
			t.Fatalf("content text = %q", textOf(t, res))
		}
	})
}

func TestHandler_UpdateSummaryTool(t *testing.T) {
	svc := &mockWorkoutService{}
	h := NewHandler(svc, &mockTimer{})
	fn := h.UpdateSummaryTool()
	res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, UpdateSummaryInput{Summary: "solid push day"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	env := envelopeOf(t, res)
	if !env.Success || env.Message != "summary updated" {
		t.Fatalf("envelope = %+v", env)
	}
	if svc.gotSummary != "solid push day" {
		t.Fatalf("summary = %q", svc.gotSummary)
	}
}

func TestHandler_SetWeeklySplitDayTool(t *testing.T) {
	t.Run("updates_split", func(t *testing.T) {
		svc := &mockWorkoutService{splitMessage: "split updated for monday with 1 sets"}
		h := NewHandler(svc, &mockTimer{})
		fn := h.SetWeeklySplitDayTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, SetWeeklySplitDayInput{
			Day:  "monday",
			Sets: []SplitSetInput{{Exercise: "bench press", Reps: 5, Load: 0.8, Relative: true}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		env := envelopeOf(t, res)
		if !env.Success {
			t.Fatalf("expected success")
		}
		if svc.gotSplitDay != "monday" || len(svc.gotSplitItems) != 1 || !svc.gotSplitItems[0].Relative {
			t.Fatalf("split day = %q, items = %+v", svc.gotSplitDay, svc.gotSplitItems)
		}
	})

	t.Run("invalid_day", func(t *testing.T) {
		svc := &mockWorkoutService{splitSetErr: errors.New("Invalid day: funday")}
		h := NewHandler(svc, &mockTimer{})
		fn := h.SetWeeklySplitDayTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, SetWeeklySplitDayInput{Day: "funday"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
		if textOf(t, res) != "Error updating split: Invalid day: funday" {
			t.Fatalf("content text = %q", textOf(t, res))
		}
	})
}

func TestHandler_SetTimerTool(t *testing.T) {
	t.Run("defaults_to_minutes", func(t *testing.T) {
		tm := &mockTimer{setMessage: "Timer set for 3 minutes (until 10:03:00)"}
		h := NewHandler(&mockWorkoutService{}, tm)
		fn := h.SetTimerTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, SetTimerInput{Duration: 3})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		env := envelopeOf(t, res)
		if !env.Success {
			t.Fatalf("expected success")
		}
		if tm.gotUnit != timer.UnitMinutes || tm.gotDuration != 3 {
			t.Fatalf("timer called with %d %s", tm.gotDuration, tm.gotUnit)
		}
	})

	t.Run("invalid_duration", func(t *testing.T) {
		tm := &mockTimer{setErr: errors.New("duration must be between 1 and 180 minutes, got 500")}
		h := NewHandler(&mockWorkoutService{}, tm)
		fn := h.SetTimerTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, SetTimerInput{Duration: 500})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
	})
}

func TestHandler_GetTimerTool(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	tm := &mockTimer{status: timer.Status{
		State:            timer.StateRunning,
		Message:          "Timer running - 1:30 remaining",
		RemainingSeconds: 90,
		EndTime:          createdAt.Add(90 * time.Second),
		CreatedAt:        createdAt,
	}}
	h := NewHandler(&mockWorkoutService{}, tm)
	fn := h.GetTimerTool()
	res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected IsError")
	}
	var status timer.Status
	if err := json.Unmarshal([]byte(textOf(t, res)), &status); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	if status.State != timer.StateRunning || status.RemainingSeconds != 90 {
		t.Fatalf("status = %+v", status)
	}
	if !status.CreatedAt.Equal(createdAt) {
		t.Fatalf("created_at = %s", status.CreatedAt)
	}
	if !status.EndTime.Equal(createdAt.Add(90 * time.Second)) {
		t.Fatalf("end_time = %s", status.EndTime)
	}
}
