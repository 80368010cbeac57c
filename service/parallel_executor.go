package service

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ludo-technologies/complexitylens/domain"
	"github.com/ludo-technologies/complexitylens/internal/config"
)

// DefaultTimeout bounds how long new documents keep being scheduled
const DefaultTimeout = 5 * time.Minute

// TaskError represents a single task failure
type TaskError struct {
	TaskName string
	Err      error
}

// Error implements the error interface
func (e TaskError) Error() string {
	return fmt.Sprintf("[%s] %v", e.TaskName, e.Err)
}

// Unwrap returns the underlying error
func (e TaskError) Unwrap() error {
	return e.Err
}

// AggregatedError collects all task failures in task order
type AggregatedError struct {
	Errors []TaskError
}

// Error implements the error interface
func (e *AggregatedError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d tasks failed:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Unwrap returns the first error for errors.Is/As compatibility
func (e *AggregatedError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0].Err
}

// CancelledError reports tasks that were never started because the context
// ended while they were queued
type CancelledError struct {
	NotStarted int
	Cause      error
}

// Error implements the error interface
func (e *CancelledError) Error() string {
	return fmt.Sprintf("%d tasks not started: %v", e.NotStarted, e.Cause)
}

// Unwrap returns the context error
func (e *CancelledError) Unwrap() error {
	return e.Cause
}

// ParallelExecutorImpl implements domain.ParallelExecutor.
// Cancellation is observed between tasks only: a task that has started
// runs to completion with a context that is never cancelled.
type ParallelExecutorImpl struct {
	maxConcurrency int
	timeout        time.Duration
	progress       domain.ProgressManager
	description    string
	mu             sync.RWMutex
}

// NewParallelExecutor creates a new parallel executor with defaults
func NewParallelExecutor() *ParallelExecutorImpl {
	return &ParallelExecutorImpl{
		maxConcurrency: runtime.NumCPU(),
		timeout:        DefaultTimeout,
		description:    "Analyzing",
	}
}

// NewParallelExecutorFromConfig creates a parallel executor from configuration.
// max_workers <= 0 uses one worker per CPU.
func NewParallelExecutorFromConfig(cfg *config.AnalysisConfig) *ParallelExecutorImpl {
	executor := NewParallelExecutor()
	if cfg != nil && cfg.MaxWorkers > 0 {
		executor.maxConcurrency = cfg.MaxWorkers
	}
	return executor
}

// NewParallelExecutorWithProgress creates a parallel executor with progress tracking
func NewParallelExecutorWithProgress(cfg *config.AnalysisConfig, pm domain.ProgressManager) *ParallelExecutorImpl {
	executor := NewParallelExecutorFromConfig(cfg)
	executor.progress = pm
	return executor
}

// Execute runs tasks with the configured concurrency. Failures are collected
// into an AggregatedError; tasks skipped by cancellation or timeout produce a
// CancelledError, which takes precedence.
func (e *ParallelExecutorImpl) Execute(ctx context.Context, tasks []domain.ExecutableTask) error {
	enabledTasks := e.filterEnabledTasks(tasks)
	if len(enabledTasks) == 0 {
		return nil
	}

	e.mu.RLock()
	maxConcurrency := e.maxConcurrency
	timeout := e.timeout
	description := e.description
	e.mu.RUnlock()

	scheduleCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	runCtx := context.WithoutCancel(ctx)

	var task domain.TaskProgress = &NoOpTaskProgress{}
	if e.progress != nil {
		task = e.progress.StartTask(description, len(enabledTasks))
	}
	defer task.Complete()

	var g errgroup.Group
	g.SetLimit(maxConcurrency)

	var errMu sync.Mutex
	failures := make(map[int]TaskError)
	notStarted := 0

	for i, t := range enabledTasks {
		if scheduleCtx.Err() != nil {
			errMu.Lock()
			notStarted += len(enabledTasks) - i
			errMu.Unlock()
			break
		}

		g.Go(func() error {
			if scheduleCtx.Err() != nil {
				errMu.Lock()
				notStarted++
				errMu.Unlock()
				return nil
			}

			task.Describe(t.Name())
			_, err := t.Execute(runCtx)
			task.Increment(1)

			if err != nil {
				errMu.Lock()
				failures[i] = TaskError{TaskName: t.Name(), Err: err}
				errMu.Unlock()
			}
			return nil
		})
	}

	_ = g.Wait()

	if notStarted > 0 {
		return &CancelledError{NotStarted: notStarted, Cause: scheduleCtx.Err()}
	}

	if len(failures) > 0 {
		indexes := make([]int, 0, len(failures))
		for i := range failures {
			indexes = append(indexes, i)
		}
		sort.Ints(indexes)

		agg := &AggregatedError{Errors: make([]TaskError, 0, len(indexes))}
		for _, i := range indexes {
			agg.Errors = append(agg.Errors, failures[i])
		}
		return agg
	}

	return nil
}

// SetMaxConcurrency sets the maximum number of concurrent tasks
func (e *ParallelExecutorImpl) SetMaxConcurrency(max int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if max > 0 {
		e.maxConcurrency = max
	}
}

// SetTimeout sets how long new tasks keep being started
func (e *ParallelExecutorImpl) SetTimeout(timeout time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if timeout > 0 {
		e.timeout = timeout
	}
}

// SetDescription sets the label of the progress bar
func (e *ParallelExecutorImpl) SetDescription(description string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.description = description
}

// filterEnabledTasks returns only tasks where IsEnabled() returns true
func (e *ParallelExecutorImpl) filterEnabledTasks(tasks []domain.ExecutableTask) []domain.ExecutableTask {
	enabled := make([]domain.ExecutableTask, 0, len(tasks))
	for _, t := range tasks {
		if t.IsEnabled() {
			enabled = append(enabled, t)
		}
	}
	return enabled
}
