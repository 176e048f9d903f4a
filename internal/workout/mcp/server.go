package mcp

import (
	"github.com/jbrinkw/luna-ext-coachbyte/internal/timer"
	"github.com/jbrinkw/luna-ext-coachbyte/internal/workout"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// instructions is handed to agent clients on initialize, so they know how
// the plan queue and the rest timer behave without probing.
const instructions = `CoachByte tracks workouts as a daily queue of planned sets.
Plan sets with new_daily_plan (order 0 appends, -1 prepends), inspect with
today_plan, and advance the queue with complete_next_set when the user finishes
a set (pass reps/load only when they differ from plan). Use log_completed_set
for work that was never planned, update_summary for free-text session notes,
recent_history for planned-vs-actual over the last days, and
set_weekly_split_day/get_weekly_split for the per-weekday routine template.
Completing a set arms the shared rest timer with the upcoming set's rest;
set_timer and get_timer control it directly. Loads are in pounds.`

// NewServer builds an MCP server with the coaching tools: daily plan CRUD,
// set completion, history, weekly split, rest timer.
// Used by the main backend when mounting MCP at /mcp (internal/server),
// and over stdio by cmd/coachbyte_mcp.
func NewServer(service *workout.Service, restTimer timer.Service) *mcp.Server {
	h := NewHandler(service, restTimer)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "coachbyte",
		Version: "1.0.0",
	}, &mcp.ServerOptions{
		Instructions: instructions,
	})

	mcp.AddTool(s, &mcp.Tool{
		Name:        "new_daily_plan",
		Description: "Plans sets for today. Each set has exercise, reps, load (pounds), rest (seconds) and order: 0 appends after the current last set, -1 prepends before the first, any other value is used as given. Use when the user describes what they want to do today.",
	}, h.NewDailyPlanTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "today_plan",
		Description: "Returns today's full plan in queue order, completed sets included. Use when the user asks what is planned or what is left.",
	}, h.TodayPlanTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "complete_next_set",
		Description: "Completes the next unfinished planned set for today, optionally filtered to one exercise, with optional reps/load overrides for what actually happened. Arms the rest timer with the upcoming set's rest duration. Use when the user says they finished a set.",
	}, h.CompleteNextSetTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "log_completed_set",
		Description: "Logs a set that was never planned (ad hoc work). Args: exercise, reps, load. Does not touch the plan queue or the timer.",
	}, h.LogCompletedSetTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "update_summary",
		Description: "Replaces today's free-text workout summary. Use when the user describes how the session went.",
	}, h.UpdateSummaryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "recent_history",
		Description: "Returns planned sets with their completions for the last N days (1-365). Use for progression questions like how bench press has been going.",
	}, h.RecentHistoryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "set_weekly_split_day",
		Description: "Replaces the weekly split template for one weekday (sunday through saturday). The given sets fully replace that day; an empty list clears it. Loads can be relative fractions of one-rep max.",
	}, h.SetWeeklySplitDayTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_weekly_split",
		Description: "Returns the weekly split template, for one weekday or the whole week. Use when the user asks about their usual routine.",
	}, h.GetWeeklySplitTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "set_timer",
		Description: "Sets the rest timer, replacing any previous one. Args: duration, unit (minutes, default, 1-180; or seconds, 1-10800).",
	}, h.SetTimerTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_timer",
		Description: "Returns the rest timer state: no_timer, running (with remaining time), or expired (with how long ago).",
	}, h.GetTimerTool())

	return s
}
