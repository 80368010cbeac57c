package domain

// ProgressManager creates progress reporters for long-running tasks
type ProgressManager interface {
	// StartTask begins tracking a task with a known number of steps
	StartTask(description string, total int) TaskProgress

	// IsInteractive reports whether progress is rendered to a terminal
	IsInteractive() bool

	// Close finishes all tasks
	Close()
}

// TaskProgress reports progress of a single task
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}
