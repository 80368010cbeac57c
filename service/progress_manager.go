package service

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/ludo-technologies/complexitylens/domain"
)

// ProgressManagerImpl renders one progress bar per task on a terminal
type ProgressManagerImpl struct {
	writer        io.Writer
	clearOnFinish bool

	mu    sync.Mutex
	tasks []*progressbar.ProgressBar
}

// NewProgressManager creates a progress manager on stderr when enabled and
// the environment is interactive, and a no-op manager otherwise
func NewProgressManager(enabled bool) domain.ProgressManager {
	if enabled && IsInteractiveEnvironment() {
		return NewProgressManagerWithWriter(os.Stderr, false)
	}
	return &NoOpProgressManager{}
}

// NewProgressManagerWithWriter creates a progress manager rendering to w.
// clearOnFinish erases finished bars, which keeps repeated watch passes tidy.
func NewProgressManagerWithWriter(w io.Writer, clearOnFinish bool) *ProgressManagerImpl {
	return &ProgressManagerImpl{
		writer:        w,
		clearOnFinish: clearOnFinish,
	}
}

// StartTask creates a new progress task with a description and total count
func (pm *ProgressManagerImpl) StartTask(description string, total int) domain.TaskProgress {
	options := []progressbar.Option{
		progressbar.OptionSetWriter(pm.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(24),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65 * time.Millisecond),
	}
	if pm.clearOnFinish {
		options = append(options, progressbar.OptionClearOnFinish())
	}

	bar := progressbar.NewOptions(total, options...)

	pm.mu.Lock()
	pm.tasks = append(pm.tasks, bar)
	pm.mu.Unlock()

	return &TaskProgressImpl{bar: bar, label: description}
}

// IsInteractive returns true if progress bars should be shown
func (pm *ProgressManagerImpl) IsInteractive() bool {
	return true
}

// Close finishes all tasks
func (pm *ProgressManagerImpl) Close() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	for _, bar := range pm.tasks {
		_ = bar.Finish()
	}
	pm.tasks = nil
}

// TaskProgressImpl implements TaskProgress with a progressbar
type TaskProgressImpl struct {
	bar   *progressbar.ProgressBar
	label string
}

// Increment adds n to the current progress
func (tp *TaskProgressImpl) Increment(n int) {
	_ = tp.bar.Add(n)
}

// Describe shows the item being processed next to the task label
func (tp *TaskProgressImpl) Describe(item string) {
	tp.bar.Describe(tp.label + " " + item)
}

// Complete marks the task as finished
func (tp *TaskProgressImpl) Complete() {
	_ = tp.bar.Finish()
}

// NoOpProgressManager implements ProgressManager with no-op methods
type NoOpProgressManager struct{}

// StartTask returns a no-op task progress
func (pm *NoOpProgressManager) StartTask(_ string, _ int) domain.TaskProgress {
	return &NoOpTaskProgress{}
}

// IsInteractive returns false for no-op manager
func (pm *NoOpProgressManager) IsInteractive() bool {
	return false
}

// Close is a no-op
func (pm *NoOpProgressManager) Close() {}

// NoOpTaskProgress implements TaskProgress with no-op methods
type NoOpTaskProgress struct{}

// Increment is a no-op
func (tp *NoOpTaskProgress) Increment(_ int) {}

// Describe is a no-op
func (tp *NoOpTaskProgress) Describe(_ string) {}

// Complete is a no-op
func (tp *NoOpTaskProgress) Complete() {}
