package domain

import (
	"context"
	"time"
)

// ExecutableTask is a unit of work run by a ParallelExecutor
type ExecutableTask interface {
	Name() string
	Execute(ctx context.Context) (any, error)
	IsEnabled() bool
}

// ParallelExecutor runs tasks with bounded concurrency
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
	SetMaxConcurrency(max int)
	SetTimeout(timeout time.Duration)
}
