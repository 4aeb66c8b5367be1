package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"taskboard/internal/models"
	"taskboard/internal/taskfile"
)

var _ Store = (*TaskStore)(nil)

// TaskStore implements Store on top of a Backend.
type TaskStore struct {
	backend  Backend
	now      func() time.Time
	location *time.Location
	logger   *log.Logger
}

type options struct {
	now      func() time.Time
	location *time.Location
	logger   *log.Logger
	fileName string
}

// Option configures a TaskStore.
type Option func(*options)

// WithClock sets the time source used for due dates and completions.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLocation sets the location for timestamps stored without a zone.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.location = loc }
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithFileName overrides DefaultFileName for NewFileStore.
func WithFileName(name string) Option {
	return func(o *options) { o.fileName = name }
}

func buildOptions(opts []Option) options {
	o := options{
		now:      time.Now,
		location: time.Local,
		fileName: DefaultFileName,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	return o
}

// New creates a TaskStore over an existing backend.
func New(b Backend, opts ...Option) *TaskStore {
	o := buildOptions(opts)
	return &TaskStore{
		backend:  b,
		now:      o.now,
		location: o.location,
		logger:   o.logger,
	}
}

// NewFileStore creates a TaskStore for the task file inside dir.
func NewFileStore(dir string, opts ...Option) *TaskStore {
	o := buildOptions(opts)
	path := filepath.Join(dir, o.fileName)
	parser := taskfile.Parser{
		Location: o.location,
		OnSkip:   skipLogger(o.logger, path),
	}
	return New(NewFileBackend(path, parser), opts...)
}

func skipLogger(logger *log.Logger, path string) func(int, string, error) {
	return func(lineNo int, line string, reason error) {
		if errors.Is(reason, taskfile.ErrNotTask) {
			logger.Debug("ignoring non-task line", "file", path, "line", lineNo)
			return
		}
		logger.Warn("skipping malformed task line", "file", path, "line", lineNo, "text", line, "reason", reason)
	}
}

// Load returns all tasks in file order with due state filled in.
func (s *TaskStore) Load(ctx context.Context) ([]models.Task, error) {
	return s.loadAt(ctx, s.now())
}

func (s *TaskStore) loadAt(ctx context.Context, now time.Time) ([]models.Task, error) {
	tasks, err := s.backend.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	for i := range tasks {
		tasks[i].Annotate(now)
	}
	return tasks, nil
}

// List returns the display listing: sorted recurring tasks and one-off tasks.
func (s *TaskStore) List(ctx context.Context) (*models.Listing, error) {
	now := s.now()
	tasks, err := s.loadAt(ctx, now)
	if err != nil {
		return nil, err
	}
	return models.NewListing(tasks, now), nil
}

// Due returns every one-off task and every recurring task that is due, in file order.
func (s *TaskStore) Due(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	due := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.IsRecurring() || t.Due {
			due = append(due, t)
		}
	}
	return due, nil
}

// Add appends a one-off task.
func (s *TaskStore) Add(ctx context.Context, description string) error {
	return s.add(ctx, models.NewOneOff(description))
}

// AddRecurring appends a recurring task that has never been completed.
func (s *TaskStore) AddRecurring(ctx context.Context, description string, freq models.Frequency) error {
	return s.add(ctx, models.NewRecurring(description, freq))
}

func (s *TaskStore) add(ctx context.Context, task models.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	_, err := s.mutate(ctx, "add", task.Description, func(tasks []models.Task) ([]models.Task, bool) {
		return append(tasks, task), true
	})
	return err
}

// Edit renames the first task matching oldDescription, keeping everything else.
func (s *TaskStore) Edit(ctx context.Context, oldDescription, newDescription string) (bool, error) {
	if err := models.ValidateDescription(newDescription); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return s.mutate(ctx, "edit", oldDescription, func(tasks []models.Task) ([]models.Task, bool) {
		i := indexOf(tasks, oldDescription)
		if i < 0 {
			return tasks, false
		}
		tasks[i].Description = strings.TrimSpace(newDescription)
		return tasks, true
	})
}

// Remove deletes the first task matching description.
func (s *TaskStore) Remove(ctx context.Context, description string) (bool, error) {
	return s.mutate(ctx, "remove", description, func(tasks []models.Task) ([]models.Task, bool) {
		i := indexOf(tasks, description)
		if i < 0 {
			return tasks, false
		}
		return append(tasks[:i], tasks[i+1:]...), true
	})
}

// Complete marks the first task matching description as done. A recurring task keeps its
// line with a fresh completion time; a one-off task is removed.
func (s *TaskStore) Complete(ctx context.Context, description string) (bool, error) {
	return s.mutate(ctx, "complete", description, func(tasks []models.Task) ([]models.Task, bool) {
		i := indexOf(tasks, description)
		if i < 0 {
			return tasks, false
		}
		if !tasks[i].IsRecurring() {
			return append(tasks[:i], tasks[i+1:]...), true
		}
		// The file keeps minutes only
		done := s.now().In(s.location).Truncate(time.Minute)
		tasks[i].LastCompleted = &done
		return tasks, true
	})
}

// Close releases the backend.
func (s *TaskStore) Close() error {
	return s.backend.Close()
}

// mutate runs a read-edit-replace cycle inside the path's critical section. edit reports
// whether it changed anything; nothing is written when it did not.
func (s *TaskStore) mutate(ctx context.Context, op, description string, edit func([]models.Task) ([]models.Task, bool)) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var found bool
	err := withLock(s.backend, func() error {
		tasks, err := s.backend.Read(ctx)
		if err != nil {
			return fmt.Errorf("failed to load tasks: %w", err)
		}

		next, ok := edit(tasks)
		if !ok {
			return nil
		}
		found = true

		if err := s.backend.Replace(ctx, next); err != nil {
			return fmt.Errorf("failed to save tasks: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("task mutation failed", "op", op, "description", description, "path", s.backend.Path(), "err", err)
		return false, err
	}

	if found {
		s.logger.Debug("task mutation applied", "op", op, "description", description, "path", s.backend.Path())
	} else {
		s.logger.Debug("no matching task", "op", op, "description", description, "path", s.backend.Path())
	}
	return found, nil
}

func indexOf(tasks []models.Task, description string) int {
	for i := range tasks {
		if tasks[i].Matches(description) {
			return i
		}
	}
	return -1
}
