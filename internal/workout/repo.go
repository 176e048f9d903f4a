package workout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jbrinkw/luna-ext-coachbyte/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// ErrNoPlannedSets signals an empty (or fully completed) queue. It is an
// expected steady state, not a fault: callers translate it to a structured
// "nothing to do" result.
var ErrNoPlannedSets = errors.New("no planned sets")

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the lazy
// get-or-create helpers can run inside or outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// getOrCreateExercise resolves an exercise by name, creating it on first
// reference. Names are matched case-sensitively, as given.
func getOrCreateExercise(ctx context.Context, q querier, name string) (int, error) {
	var id int
	err := q.QueryRow(ctx, `SELECT id FROM exercises WHERE name = $1`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("get exercise [%s]: %w", name, err)
	}

	err = q.QueryRow(ctx, `INSERT INTO exercises (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create exercise [%s]: %w", name, err)
	}
	return id, nil
}

// getOrCreateDailyLog resolves the daily log row for the given date,
// creating it the first time the day is touched.
func getOrCreateDailyLog(ctx context.Context, q querier, logDate string) (string, error) {
	var id string
	err := q.QueryRow(ctx, `SELECT id FROM daily_logs WHERE log_date = $1`, logDate).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("get daily log [%s]: %w", logDate, err)
	}

	id = uuid.NewString()
	if _, err := q.Exec(ctx,
		`INSERT INTO daily_logs (id, log_date) VALUES ($1, $2)`, id, logDate,
	); err != nil {
		return "", fmt.Errorf("create daily log [%s]: %w", logDate, err)
	}
	return id, nil
}

// CreateDailyPlan inserts the given planned sets for one day in a single
// transaction, resolving the order of 0 (append) and -1 (prepend) items
// against the running max/min as the batch is processed in input order.
func (r *Repo) CreateDailyPlan(ctx context.Context, logDate string, items []PlanSetItem) (_ []PlannedSetRow, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.createdailyplan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("log_date", logDate))
	span.SetAttributes(attribute.Int("items", len(items)))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	logID, err := getOrCreateDailyLog(ctx, tx, logDate)
	if err != nil {
		return nil, err
	}

	var minOrder, maxOrder int
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(MIN(order_num), 0), COALESCE(MAX(order_num), 0)
		FROM planned_sets
		WHERE log_id = $1
	`, logID).Scan(&minOrder, &maxOrder)
	if err != nil {
		return nil, fmt.Errorf("get order bounds: %w", err)
	}

	planned := make([]PlannedSetRow, 0, len(items))
	for _, item := range items {
		exerciseID, err := getOrCreateExercise(ctx, tx, item.Exercise)
		if err != nil {
			return nil, err
		}

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

		if _, err := tx.Exec(ctx, `
			INSERT INTO planned_sets (log_id, exercise_id, order_num, reps, load, rest)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, logID, exerciseID, orderNum, item.Reps, item.Load, item.Rest); err != nil {
			return nil, fmt.Errorf("insert planned set [%s]: %w", item.Exercise, err)
		}

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

// TodayPlan returns the full plan for the given day in queue order,
// including already completed sets.
func (r *Repo) TodayPlan(ctx context.Context, logDate string) (_ []PlannedSetRow, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.todayplan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("log_date", logDate))

	logID, err := getOrCreateDailyLog(ctx, r.db, logDate)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT e.name, ps.reps, ps.load, ps.rest, ps.order_num
		FROM planned_sets ps
		JOIN exercises e ON ps.exercise_id = e.id
		WHERE ps.log_id = $1
		ORDER BY ps.order_num
	`, logID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plan := make([]PlannedSetRow, 0)
	for rows.Next() {
		var p PlannedSetRow
		if err := rows.Scan(&p.Exercise, &p.Reps, &p.Load, &p.Rest, &p.OrderNum); err != nil {
			return nil, err
		}
		plan = append(plan, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plan, nil
}

// CompleteNext selects the earliest-ordered unfinished planned set for the
// day (optionally filtered to one exercise), writes the linked completed
// set, and reports the rest seconds of the following unfinished set. A
// planned set counts as unfinished while no completed set links to it.
// Everything happens in one transaction; the chosen row is locked so two
// concurrent calls cannot both complete the same set.
func (r *Repo) CompleteNext(ctx context.Context, params CompleteNextParams) (_ *CompletionRow, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.completenext")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("log_date", params.LogDate))
	span.SetAttributes(attribute.String("exercise", params.Exercise))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	logID, err := getOrCreateDailyLog(ctx, tx, params.LogDate)
	if err != nil {
		return nil, err
	}

	var (
		plannedSetID int
		exerciseID   int
	)
	row := &CompletionRow{}
	err = tx.QueryRow(ctx, `
		SELECT ps.id, ps.exercise_id, e.name, ps.reps, ps.load, ps.rest, ps.order_num
		FROM planned_sets ps
		JOIN exercises e ON ps.exercise_id = e.id
		LEFT JOIN completed_sets cs ON ps.id = cs.planned_set_id
		WHERE ps.log_id = $1
		  AND ($2::text = '' OR e.name = $2)
		  AND cs.id IS NULL
		ORDER BY ps.order_num
		LIMIT 1
		FOR UPDATE OF ps SKIP LOCKED
	`, logID, params.Exercise).Scan(
		&plannedSetID, &exerciseID, &row.Exercise,
		&row.PlannedReps, &row.PlannedLoad, &row.Rest, &row.OrderNum,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoPlannedSets
	}
	if err != nil {
		return nil, fmt.Errorf("select next planned set: %w", err)
	}

	row.PlannedSetID = plannedSetID
	row.RepsDone = row.PlannedReps
	row.LoadDone = row.PlannedLoad
	if params.RepsOverride != nil {
		row.RepsDone = *params.RepsOverride
	}
	if params.LoadOverride != nil {
		row.LoadDone = *params.LoadOverride
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO completed_sets (log_id, exercise_id, planned_set_id, reps_done, load_done, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, logID, exerciseID, plannedSetID, row.RepsDone, row.LoadDone, params.CompletedAt); err != nil {
		return nil, fmt.Errorf("insert completed set: %w", err)
	}

	// the rest duration to wait comes from the set that is now next in
	// the queue; the insert above already excludes the completed one
	var nextRest int
	err = tx.QueryRow(ctx, `
		SELECT ps.rest
		FROM planned_sets ps
		LEFT JOIN completed_sets cs ON ps.id = cs.planned_set_id
		WHERE ps.log_id = $1 AND cs.id IS NULL
		ORDER BY ps.order_num
		LIMIT 1
	`, logID).Scan(&nextRest)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// queue exhausted, no timer to set
	case err != nil:
		return nil, fmt.Errorf("select next rest: %w", err)
	default:
		row.NextRest = &nextRest
	}

	span.SetAttributes(attribute.Int("planned_set.id", plannedSetID))
	return row, nil
}

// InsertCompletedSet logs an ad hoc set, not linked to any planned set.
func (r *Repo) InsertCompletedSet(ctx context.Context, logDate, exercise string, reps int, load float64, completedAt time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.insertcompletedset")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", exercise))

	logID, err := getOrCreateDailyLog(ctx, r.db, logDate)
	if err != nil {
		return err
	}
	exerciseID, err := getOrCreateExercise(ctx, r.db, exercise)
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, `
		INSERT INTO completed_sets (log_id, exercise_id, reps_done, load_done, completed_at)
		VALUES ($1, $2, $3, $4, $5)
	`, logID, exerciseID, reps, load, completedAt); err != nil {
		return fmt.Errorf("insert completed set: %w", err)
	}
	return nil
}

// UpdateSummary overwrites the day's free-text summary.
func (r *Repo) UpdateSummary(ctx context.Context, logDate, text string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.updatesummary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("log_date", logDate))

	logID, err := getOrCreateDailyLog(ctx, r.db, logDate)
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx,
		`UPDATE daily_logs SET summary = $1 WHERE id = $2`, text, logID,
	); err != nil {
		return fmt.Errorf("update summary: %w", err)
	}
	return nil
}

// History returns every planned set since startDate with its completion
// (if linked), ordered by date then queue order. Ad hoc completed sets do
// not appear here: the join follows the planned-set linkage.
func (r *Repo) History(ctx context.Context, startDate string) (_ []HistoryRow, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.history")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("start_date", startDate))

	rows, err := r.db.Query(ctx, `
		SELECT dl.log_date, e.name, ps.reps, ps.load, cs.reps_done, cs.load_done
		FROM planned_sets ps
		JOIN daily_logs dl ON ps.log_id = dl.id
		JOIN exercises e ON ps.exercise_id = e.id
		LEFT JOIN completed_sets cs ON cs.planned_set_id = ps.id
		WHERE dl.log_date >= $1
		ORDER BY dl.log_date, ps.order_num
	`, startDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]HistoryRow, 0)
	for rows.Next() {
		var h HistoryRow
		var logDate time.Time
		if err := rows.Scan(&logDate, &h.Exercise, &h.Reps, &h.Load, &h.RepsDone, &h.LoadDone); err != nil {
			return nil, err
		}
		h.LogDate = logDate.Format("2006-01-02")
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return history, nil
}

// ReplaceSplitDay wholly replaces the split template for one weekday:
// delete then insert, in a single transaction. Never merges.
func (r *Repo) ReplaceSplitDay(ctx context.Context, dayNum int, items []SplitSetItem) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.replacesplitday")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("day_of_week", dayNum))
	span.SetAttributes(attribute.Int("items", len(items)))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM split_sets WHERE day_of_week = $1`, dayNum); err != nil {
		return fmt.Errorf("delete split sets: %w", err)
	}

	for _, item := range items {
		exerciseID, err := getOrCreateExercise(ctx, tx, item.Exercise)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO split_sets (day_of_week, exercise_id, order_num, reps, load, rest, relative)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, dayNum, exerciseID, item.Order, item.Reps, item.Load, item.Rest, item.Relative); err != nil {
			return fmt.Errorf("insert split set [%s]: %w", item.Exercise, err)
		}
	}

	return nil
}

// Split returns the split template, for one weekday or for the whole week
// (dayNum nil), ordered by weekday then queue order.
func (r *Repo) Split(ctx context.Context, dayNum *int) (_ []SplitRow, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.split")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if dayNum != nil {
		span.SetAttributes(attribute.Int("day_of_week", *dayNum))
	}

	rows, err := r.db.Query(ctx, `
		SELECT ss.day_of_week, e.name, ss.reps, ss.load, ss.rest, ss.order_num, ss.relative
		FROM split_sets ss
		JOIN exercises e ON ss.exercise_id = e.id
		WHERE ($1::int IS NULL OR ss.day_of_week = $1)
		ORDER BY ss.day_of_week, ss.order_num
	`, dayNum)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	split := make([]SplitRow, 0)
	for rows.Next() {
		var s SplitRow
		if err := rows.Scan(&s.DayOfWeek, &s.Exercise, &s.Reps, &s.Load, &s.Rest, &s.OrderNum, &s.Relative); err != nil {
			return nil, err
		}
		split = append(split, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return split, nil
}
