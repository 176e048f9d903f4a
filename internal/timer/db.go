package timer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jbrinkw/luna-ext-coachbyte/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// DBTimer stores the timer as a single row in the timer table, shared by
// every service instance pointed at the same database. Set replaces the
// row wholesale: delete then insert, in one transaction.
type DBTimer struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewDBTimer(db *pgxpool.Pool) *DBTimer {
	return &DBTimer{
		db:  db,
		now: time.Now,
	}
}

func (t *DBTimer) Set(ctx context.Context, duration int, unit Unit) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "timer.db.set")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := ValidateDuration(duration, unit); err != nil {
		return "", err
	}

	now := t.now()
	endTime := now.Add(time.Duration(durationSeconds(duration, unit)) * time.Second)

	tx, err := t.db.Begin(ctx)
	if err != nil {
		return "", err
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

	if _, err := tx.Exec(ctx, `DELETE FROM timer`); err != nil {
		return "", fmt.Errorf("clear timer: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO timer (timer_end_time, created_at) VALUES ($1, $2)`,
		endTime, now,
	); err != nil {
		return "", fmt.Errorf("insert timer: %w", err)
	}

	return setMessage(duration, unit, endTime), nil
}

func (t *DBTimer) Get(ctx context.Context) Status {
	ctx, span := tracing.GlobalTracer.Start(ctx, "timer.db.get")
	defer span.End()

	var endTime, createdAt time.Time
	err := t.db.QueryRow(ctx,
		`SELECT timer_end_time, created_at FROM timer ORDER BY created_at DESC LIMIT 1`,
	).Scan(&endTime, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Status{State: StateNoTimer, Message: "No timer currently set"}
	}
	if err != nil {
		log.Errorf("get timer: %s", err)
		return Status{State: StateError, Message: fmt.Sprintf("Error reading timer: %s", err)}
	}

	status := statusAt(endTime, t.now())
	status.CreatedAt = createdAt
	return status
}
