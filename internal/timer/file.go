package timer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// FileTimer stores the timer in a small JSON file next to the service. It
// is the single-machine backend; state does not survive host changes but
// needs no database.
type FileTimer struct {
	mutex sync.Mutex
	path  string
	now   func() time.Time
}

type timerFile struct {
	EndTime   string `json:"end_time"`
	CreatedAt string `json:"created_at"`
}

func NewFileTimer(path string) *FileTimer {
	return &FileTimer{
		path: path,
		now:  time.Now,
	}
}

func (t *FileTimer) Set(_ context.Context, duration int, unit Unit) (string, error) {
	if err := ValidateDuration(duration, unit); err != nil {
		return "", err
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	now := t.now()
	endTime := now.Add(time.Duration(durationSeconds(duration, unit)) * time.Second)

	content, err := json.Marshal(timerFile{
		EndTime:   endTime.Format(time.RFC3339Nano),
		CreatedAt: now.Format(time.RFC3339Nano),
	})
	if err != nil {
		return "", fmt.Errorf("marshal timer state: %w", err)
	}

	if dir := filepath.Dir(t.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create timer dir: %w", err)
		}
	}
	if err := os.WriteFile(t.path, content, 0o644); err != nil {
		return "", fmt.Errorf("write timer file: %w", err)
	}

	return setMessage(duration, unit, endTime), nil
}

func (t *FileTimer) Get(_ context.Context) Status {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	content, err := os.ReadFile(t.path)
	if errors.Is(err, os.ErrNotExist) {
		return Status{State: StateNoTimer, Message: "No timer currently set"}
	}
	if err != nil {
		log.Errorf("read timer file: %s", err)
		return Status{State: StateError, Message: fmt.Sprintf("Error reading timer: %s", err)}
	}

	var stored timerFile
	if err := json.Unmarshal(content, &stored); err != nil {
		log.Errorf("unmarshal timer file: %s", err)
		return Status{State: StateError, Message: fmt.Sprintf("Error reading timer: %s", err)}
	}

	endTime, err := parseStoredTime(stored.EndTime)
	if err != nil {
		log.Errorf("parse timer end time [%s]: %s", stored.EndTime, err)
		return Status{State: StateError, Message: fmt.Sprintf("Error reading timer: %s", err)}
	}

	status := statusAt(endTime, t.now())
	if createdAt, err := parseStoredTime(stored.CreatedAt); err == nil {
		status.CreatedAt = createdAt
	}
	return status
}

// parseStoredTime accepts RFC 3339 timestamps and, for files written by
// older tooling, naive ISO timestamps which are taken as UTC.
func parseStoredTime(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05.999999999", value, time.UTC)
}
