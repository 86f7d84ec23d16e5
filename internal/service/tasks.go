package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/homeyum/homeyum/internal/logger"
)

// TaskStatus is the lifecycle state of a background task.
type TaskStatus string

const (
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// Task is a handle to one background operation. Callers can poll Status or
// block on Done.
type Task struct {
	ID    string
	LogID string

	mu     sync.Mutex
	status TaskStatus
	err    error
	done   chan struct{}
}

// Status returns the task's current lifecycle state.
func (t *Task) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Err returns the task's failure cause, or nil while running or on success.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Done returns a channel closed when the task finishes.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) finish(err error) {
	t.mu.Lock()
	if err != nil {
		t.status = TaskStatusFailed
		t.err = err
	} else {
		t.status = TaskStatusCompleted
	}
	t.mu.Unlock()
	close(t.done)
}

// TaskTracker runs background operations and keeps their handles queryable
// by ID.
type TaskTracker struct {
	mu     sync.RWMutex
	tasks  map[string]*Task
	logger *logger.Logger
}

// NewTaskTracker creates a new task tracker.
// Parameters:
//   - log: logger; nil uses the default.
//
// Returns:
//   - *TaskTracker: initialized tracker.
func NewTaskTracker(log *logger.Logger) *TaskTracker {
	if log == nil {
		log = logger.Default()
	}
	return &TaskTracker{
		tasks:  make(map[string]*Task),
		logger: log.WithField(logger.FieldComponent, "tasks"),
	}
}

// Spawn starts fn on its own goroutine and returns its handle immediately.
// The goroutine runs detached from the caller's request context.
// Parameters:
//   - logID: the recipe log the task belongs to, recorded on the handle.
//   - fn: the operation to run.
//
// Returns:
//   - *Task: handle for polling the task's outcome.
func (tr *TaskTracker) Spawn(logID string, fn func(ctx context.Context) error) *Task {
	task := &Task{
		ID:     uuid.New().String(),
		LogID:  logID,
		status: TaskStatusRunning,
		done:   make(chan struct{}),
	}

	tr.mu.Lock()
	tr.tasks[task.ID] = task
	tr.mu.Unlock()

	log := tr.logger.WithFields(logger.Fields{
		logger.FieldTaskID: task.ID,
		logger.FieldLogID:  logID,
	})
	log.Info("Background task started")

	go func() {
		err := fn(context.Background())
		task.finish(err)
		if err != nil {
			log.WithError(err).Error("Background task failed")
			return
		}
		log.Info("Background task completed")
	}()

	return task
}

// Get returns the task with the given ID, or false if it is unknown.
func (tr *TaskTracker) Get(id string) (*Task, bool) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	task, ok := tr.tasks[id]
	return task, ok
}
