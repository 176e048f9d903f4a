package mcp

import (
	"context"
	"encoding/json"

	"github.com/jbrinkw/luna-ext-coachbyte/internal/timer"
	"github.com/jbrinkw/luna-ext-coachbyte/internal/workout"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type workoutService interface {
	NewDailyPlan(ctx context.Context, items []workout.PlanSetItem) (string, error)
	TodayPlan(ctx context.Context) ([]workout.PlannedSetRow, error)
	CompleteNextSet(ctx context.Context, exercise string, repsOverride *int, loadOverride *float64) (*workout.CompleteResult, error)
	LogCompletedSet(ctx context.Context, exercise string, reps int, load float64) (string, error)
	UpdateSummary(ctx context.Context, text string) error
	RecentHistory(ctx context.Context, days int) ([]workout.HistoryRow, error)
	SetWeeklySplitDay(ctx context.Context, day string, items []workout.SplitSetItem) (string, error)
	WeeklySplit(ctx context.Context, day string) ([]workout.SplitRow, error)
}

// Handler handles MCP tool requests and responses: parses input, calls the
// workout service or the rest timer, formats MCP result.
type Handler struct {
	service   workoutService
	restTimer timer.Service
}

// NewHandler builds a handler with the given service and rest timer.
func NewHandler(service workoutService, restTimer timer.Service) *Handler {
	return &Handler{
		service:   service,
		restTimer: restTimer,
	}
}

// toolEnvelope is the JSON payload the write tools return in their text
// content. Success false without IsError means "nothing to do", e.g. an
// empty queue. Read tools return {success, <payload key>: ...} instead.
type toolEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func envelopeResult(env toolEnvelope) (*mcp.CallToolResult, any, error) {
	return jsonResult(env)
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}, nil, nil
}

func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}

// PlanSetInput is one planned set in new_daily_plan.
type PlanSetInput struct {
	Exercise string  `json:"exercise" jsonschema:"Exercise name (e.g. bench press)"`
	Reps     int     `json:"reps" jsonschema:"Planned reps, 1-100"`
	Load     float64 `json:"load" jsonschema:"Planned load in pounds, 0-2000"`
	Rest     int     `json:"rest,omitempty" jsonschema:"Rest after this set in seconds, 0-600"`
	Order    int     `json:"order,omitempty" jsonschema:"Queue position: 0 appends, -1 prepends, any other value is used as given"`
}

// NewDailyPlanInput is the input for new_daily_plan.
type NewDailyPlanInput struct {
	Sets []PlanSetInput `json:"sets" jsonschema:"Planned sets, in the order they were given"`
}

// NewDailyPlanTool returns the MCP tool handler for new_daily_plan.
func (h *Handler) NewDailyPlanTool() func(context.Context, *mcp.CallToolRequest, NewDailyPlanInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in NewDailyPlanInput) (*mcp.CallToolResult, any, error) {
		items := make([]workout.PlanSetItem, 0, len(in.Sets))
		for _, set := range in.Sets {
			items = append(items, workout.PlanSetItem{
				Exercise: set.Exercise,
				Reps:     set.Reps,
				Load:     set.Load,
				Rest:     set.Rest,
				Order:    set.Order,
			})
		}
		message, err := h.service.NewDailyPlan(ctx, items)
		if err != nil {
			return errorResult("Error creating plan: " + err.Error())
		}
		return envelopeResult(toolEnvelope{Success: true, Message: message})
	}
}

// TodayPlanTool returns the MCP tool handler for today_plan.
func (h *Handler) TodayPlanTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		plan, err := h.service.TodayPlan(ctx)
		if err != nil {
			return errorResult("Error fetching plan: " + err.Error())
		}
		return jsonResult(map[string]any{"success": true, "plan": plan})
	}
}

// CompleteNextSetInput is the input for complete_next_set.
type CompleteNextSetInput struct {
	Exercise string   `json:"exercise,omitempty" jsonschema:"Complete the next set of this exercise only; empty for the next set overall"`
	Reps     *int     `json:"reps,omitempty" jsonschema:"Actual reps done, when different from planned"`
	Load     *float64 `json:"load,omitempty" jsonschema:"Actual load used, when different from planned"`
}

// CompleteNextSetTool returns the MCP tool handler for complete_next_set.
func (h *Handler) CompleteNextSetTool() func(context.Context, *mcp.CallToolRequest, CompleteNextSetInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in CompleteNextSetInput) (*mcp.CallToolResult, any, error) {
		result, err := h.service.CompleteNextSet(ctx, in.Exercise, in.Reps, in.Load)
		if err != nil {
			return errorResult("Error completing set: " + err.Error())
		}
		return envelopeResult(toolEnvelope{Success: result.Completed, Message: result.Message})
	}
}

// LogCompletedSetInput is the input for log_completed_set.
type LogCompletedSetInput struct {
	Exercise string  `json:"exercise" jsonschema:"Exercise name"`
	Reps     int     `json:"reps" jsonschema:"Reps done, 1-100"`
	Load     float64 `json:"load" jsonschema:"Load used in pounds, 0-2000"`
}

// LogCompletedSetTool returns the MCP tool handler for log_completed_set.
func (h *Handler) LogCompletedSetTool() func(context.Context, *mcp.CallToolRequest, LogCompletedSetInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in LogCompletedSetInput) (*mcp.CallToolResult, any, error) {
		message, err := h.service.LogCompletedSet(ctx, in.Exercise, in.Reps, in.Load)
		if err != nil {
			return errorResult("Error logging set: " + err.Error())
		}
		return envelopeResult(toolEnvelope{Success: true, Message: message})
	}
}

// UpdateSummaryInput is the input for update_summary.
type UpdateSummaryInput struct {
	Summary string `json:"summary" jsonschema:"Free-text summary for today's workout; replaces any previous summary"`
}

// UpdateSummaryTool returns the MCP tool handler for update_summary.
func (h *Handler) UpdateSummaryTool() func(context.Context, *mcp.CallToolRequest, UpdateSummaryInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UpdateSummaryInput) (*mcp.CallToolResult, any, error) {
		if err := h.service.UpdateSummary(ctx, in.Summary); err != nil {
			return errorResult("Error updating summary: " + err.Error())
		}
		return envelopeResult(toolEnvelope{Success: true, Message: "summary updated"})
	}
}

// RecentHistoryInput is the input for recent_history.
type RecentHistoryInput struct {
	Days int `json:"days" jsonschema:"How many days back to look, 1-365"`
}

// RecentHistoryTool returns the MCP tool handler for recent_history.
func (h *Handler) RecentHistoryTool() func(context.Context, *mcp.CallToolRequest, RecentHistoryInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in RecentHistoryInput) (*mcp.CallToolResult, any, error) {
		history, err := h.service.RecentHistory(ctx, in.Days)
		if err != nil {
			return errorResult("Error fetching history: " + err.Error())
		}
		return jsonResult(map[string]any{"success": true, "history": history})
	}
}

// SplitSetInput is one set in a weekly split day.
type SplitSetInput struct {
	Exercise string  `json:"exercise" jsonschema:"Exercise name"`
	Reps     int     `json:"reps" jsonschema:"Planned reps, 1-100"`
	Load     float64 `json:"load" jsonschema:"Planned load: pounds, or a fraction of one-rep max when relative is true"`
	Rest     int     `json:"rest,omitempty" jsonschema:"Rest after this set in seconds, 0-600"`
	Order    int     `json:"order,omitempty" jsonschema:"Queue position within the day"`
	Relative bool    `json:"relative,omitempty" jsonschema:"Interpret load as a fraction of one-rep max"`
}

// SetWeeklySplitDayInput is the input for set_weekly_split_day.
type SetWeeklySplitDayInput struct {
	Day  string          `json:"day" jsonschema:"Weekday name (sunday through saturday, case-insensitive)"`
	Sets []SplitSetInput `json:"sets" jsonschema:"Replacement template for that day; an empty list clears it"`
}

// SetWeeklySplitDayTool returns the MCP tool handler for set_weekly_split_day.
func (h *Handler) SetWeeklySplitDayTool() func(context.Context, *mcp.CallToolRequest, SetWeeklySplitDayInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in SetWeeklySplitDayInput) (*mcp.CallToolResult, any, error) {
		items := make([]workout.SplitSetItem, 0, len(in.Sets))
		for _, set := range in.Sets {
			items = append(items, workout.SplitSetItem{
				Exercise: set.Exercise,
				Reps:     set.Reps,
				Load:     set.Load,
				Rest:     set.Rest,
				Order:    set.Order,
				Relative: set.Relative,
			})
		}
		message, err := h.service.SetWeeklySplitDay(ctx, in.Day, items)
		if err != nil {
			return errorResult("Error updating split: " + err.Error())
		}
		return envelopeResult(toolEnvelope{Success: true, Message: message})
	}
}

// GetWeeklySplitInput is the input for get_weekly_split.
type GetWeeklySplitInput struct {
	Day string `json:"day,omitempty" jsonschema:"Weekday name; empty returns the whole week"`
}

// GetWeeklySplitTool returns the MCP tool handler for get_weekly_split.
func (h *Handler) GetWeeklySplitTool() func(context.Context, *mcp.CallToolRequest, GetWeeklySplitInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in GetWeeklySplitInput) (*mcp.CallToolResult, any, error) {
		split, err := h.service.WeeklySplit(ctx, in.Day)
		if err != nil {
			return errorResult("Error fetching split: " + err.Error())
		}
		return jsonResult(map[string]any{"success": true, "split": split})
	}
}

// SetTimerInput is the input for set_timer.
type SetTimerInput struct {
	Duration int    `json:"duration" jsonschema:"Timer duration; 1-180 minutes or 1-10800 seconds"`
	Unit     string `json:"unit,omitempty" jsonschema:"Duration unit: minutes (default) or seconds"`
}

// SetTimerTool returns the MCP tool handler for set_timer.
func (h *Handler) SetTimerTool() func(context.Context, *mcp.CallToolRequest, SetTimerInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in SetTimerInput) (*mcp.CallToolResult, any, error) {
		unit := timer.Unit(in.Unit)
		if unit == "" {
			unit = timer.UnitMinutes
		}
		message, err := h.restTimer.Set(ctx, in.Duration, unit)
		if err != nil {
			return errorResult("Error setting timer: " + err.Error())
		}
		return envelopeResult(toolEnvelope{Success: true, Message: message})
	}
}

// GetTimerTool returns the MCP tool handler for get_timer.
func (h *Handler) GetTimerTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		status := h.restTimer.Get(ctx)
		out := map[string]any{
			"success": status.State != timer.StateError,
			"status":  status.State,
			"message": status.Message,
		}
		if status.State == timer.StateRunning {
			out["remaining_seconds"] = status.RemainingSeconds
		}
		if status.State == timer.StateExpired {
			out["expired_seconds"] = status.ExpiredSeconds
		}
		if !status.EndTime.IsZero() {
			out["end_time"] = status.EndTime
		}
		if !status.CreatedAt.IsZero() {
			out["created_at"] = status.CreatedAt
		}
		return jsonResult(out)
	}
}
