package workout

import "time"

type Exercise struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type DailyLog struct {
	ID      string    `json:"id"`
	LogDate time.Time `json:"logDate"`
	Summary *string   `json:"summary"`
}

// PlanSetItem is one requested planned set in a new_daily_plan call.
// Order 0 means append after the current last set, -1 means prepend
// before the current first one; any other value is used verbatim.
type PlanSetItem struct {
	Exercise string  `json:"exercise"`
	Reps     int     `json:"reps"`
	Load     float64 `json:"load"`
	Rest     int     `json:"rest"`
	Order    int     `json:"order"`
}

// SplitSetItem is one set in a weekly split day template. With Relative
// set, Load is a fraction of the one-rep max instead of absolute pounds.
type SplitSetItem struct {
	Exercise string  `json:"exercise"`
	Reps     int     `json:"reps"`
	Load     float64 `json:"load"`
	Rest     int     `json:"rest"`
	Order    int     `json:"order"`
	Relative bool    `json:"relative"`
}

type PlannedSetRow struct {
	Exercise string  `json:"exercise"`
	Reps     int     `json:"reps"`
	Load     float64 `json:"load"`
	Rest     int     `json:"rest"`
	OrderNum int     `json:"order_num"`
}

type HistoryRow struct {
	LogDate  string   `json:"log_date"`
	Exercise string   `json:"exercise"`
	Reps     int      `json:"reps"`
	Load     float64  `json:"load"`
	RepsDone *int     `json:"reps_done"`
	LoadDone *float64 `json:"load_done"`
}

type SplitRow struct {
	DayOfWeek int     `json:"day_of_week"`
	Exercise  string  `json:"exercise"`
	Reps      int     `json:"reps"`
	Load      float64 `json:"load"`
	Rest      int     `json:"rest"`
	OrderNum  int     `json:"order_num"`
	Relative  bool    `json:"relative"`
}

// CompleteNextParams selects and completes the next unfinished planned set
// for the given day, optionally filtered to one exercise, with optional
// reps/load overrides.
type CompleteNextParams struct {
	LogDate      string
	Exercise     string
	RepsOverride *int
	LoadOverride *float64
	CompletedAt  time.Time
}

// CompletionRow describes a planned set that was just completed: the
// planned values, the actual values written, and the rest seconds of the
// next unfinished set (nil when the queue is now empty).
type CompletionRow struct {
	PlannedSetID int
	Exercise     string
	PlannedReps  int
	PlannedLoad  float64
	Rest         int
	OrderNum     int
	RepsDone     int
	LoadDone     float64
	NextRest     *int
}
