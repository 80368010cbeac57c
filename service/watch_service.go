package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ludo-technologies/complexitylens/domain"
	"github.com/ludo-technologies/complexitylens/internal/config"
	"github.com/ludo-technologies/complexitylens/internal/constants"
	"github.com/ludo-technologies/complexitylens/internal/logging"
)

// skippedDirs are never watched
var skippedDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
}

// WatchCommand is a stdin command understood by watch mode
type WatchCommand int

const (
	WatchCommandNone WatchCommand = iota
	WatchCommandToggle
	WatchCommandQuit
	WatchCommandUnknown
)

// ParseWatchCommand parses one line of stdin input
func ParseWatchCommand(line string) WatchCommand {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return WatchCommandNone
	case "t", "toggle":
		return WatchCommandToggle
	case "q", "quit", "exit":
		return WatchCommandQuit
	default:
		return WatchCommandUnknown
	}
}

// PassHandler receives the outcome of every watch pass along with the request
// it ran with. req is nil when the configuration could not be loaded.
type PassHandler func(req *domain.ComplexityRequest, resp *domain.ComplexityResponse, err error)

// WatchOptions configures a WatchService
type WatchOptions struct {
	// Paths are the files and directories whose changes trigger a pass
	Paths []string

	// ConfigPath is watched too when set
	ConfigPath string

	// DiscoverConfig watches the directory configuration discovery starts
	// from, so a configuration file created there later triggers a pass
	DiscoverConfig bool

	// Debounce is the quiet period before a burst of events triggers a pass
	Debounce time.Duration

	// Status receives toggle and command feedback
	Status io.Writer

	// OnPass receives every pass result
	OnPass PassHandler
}

// WatchService re-runs the controller whenever sources or the configuration change
type WatchService struct {
	controller *Controller
	opts       WatchOptions
	logger     *zap.Logger

	// searchDir is where configuration discovery starts, empty unless
	// DiscoverConfig is set
	searchDir string
}

// NewWatchService creates a watch service driving controller
func NewWatchService(controller *Controller, opts WatchOptions, logger *zap.Logger) *WatchService {
	if opts.Debounce <= 0 {
		opts.Debounce = config.DefaultDebounceMs * time.Millisecond
	}
	if opts.Status == nil {
		opts.Status = io.Discard
	}
	if opts.OnPass == nil {
		opts.OnPass = func(*domain.ComplexityRequest, *domain.ComplexityResponse, error) {}
	}
	if opts.ConfigPath != "" {
		if abs, err := filepath.Abs(opts.ConfigPath); err == nil {
			opts.ConfigPath = abs
		}
	}

	w := &WatchService{
		controller: controller,
		opts:       opts,
		logger:     logging.OrNop(logger),
	}
	if opts.DiscoverConfig && len(opts.Paths) > 0 {
		w.searchDir = configSearchDir(opts.Paths[0])
	}
	return w
}

// configSearchDir returns the first directory configuration discovery looks
// in for target
func configSearchDir(target string) string {
	abs, err := filepath.Abs(target)
	if err != nil {
		return ""
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		return filepath.Dir(abs)
	}
	return abs
}

// Run performs an initial pass, then re-runs on file events until ctx is
// done or a quit command arrives. commands may be nil.
func (w *WatchService) Run(ctx context.Context, commands io.Reader) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := w.addWatches(watcher); err != nil {
		return err
	}

	cmdCh := make(chan WatchCommand)
	if commands != nil {
		go w.readCommands(ctx, commands, cmdCh)
	}

	w.runPass(ctx)

	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) {
				w.watchNewDir(watcher, event.Name)
			}
			w.logger.Debug("change detected", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Reset(w.opts.Debounce)
			}
			timerC = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", zap.Error(err))

		case <-timerC:
			timerC = nil
			w.runPass(ctx)

		case cmd := <-cmdCh:
			if w.HandleCommand(cmd) {
				return nil
			}
			if cmd == WatchCommandToggle {
				w.runPass(ctx)
			}
		}
	}
}

// HandleCommand applies a stdin command and reports whether watch mode should stop
func (w *WatchService) HandleCommand(cmd WatchCommand) bool {
	switch cmd {
	case WatchCommandToggle:
		state := "disabled"
		if w.controller.Toggle() {
			state = "enabled"
		}
		fmt.Fprintf(w.opts.Status, "Complexity annotations %s\n", state)
	case WatchCommandQuit:
		return true
	case WatchCommandUnknown:
		fmt.Fprintln(w.opts.Status, "Commands: t (toggle annotations), q (quit)")
	}
	return false
}

// runPass runs one pass to completion
func (w *WatchService) runPass(ctx context.Context) {
	start := time.Now()
	req, resp, err := w.controller.RunPass(ctx, w.opts.Paths)
	if err != nil {
		w.logger.Warn("watch pass failed", zap.Error(err))
	} else {
		w.logger.Debug("watch pass complete", zap.Duration("elapsed", time.Since(start)))
	}
	w.opts.OnPass(req, resp, err)
}

func (w *WatchService) readCommands(ctx context.Context, r io.Reader, out chan<- WatchCommand) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case out <- ParseWatchCommand(scanner.Text()):
		case <-ctx.Done():
			return
		}
	}
}

// addWatches registers every directory under the watched paths, the
// directory holding the configuration file and the discovery directory
func (w *WatchService) addWatches(watcher *fsnotify.Watcher) error {
	for _, path := range w.opts.Paths {
		info, err := os.Stat(path)
		if err != nil {
			return domain.NewFileNotFoundError(path, err)
		}

		if !info.IsDir() {
			if err := watcher.Add(filepath.Dir(path)); err != nil {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if p != path && skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return watcher.Add(p)
		})
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}

	if w.opts.ConfigPath != "" {
		if err := watcher.Add(filepath.Dir(w.opts.ConfigPath)); err != nil {
			w.logger.Warn("cannot watch configuration file", zap.String("path", w.opts.ConfigPath), zap.Error(err))
		}
	}
	if w.searchDir != "" {
		if err := watcher.Add(w.searchDir); err != nil {
			w.logger.Warn("cannot watch for new configuration files", zap.String("dir", w.searchDir), zap.Error(err))
		}
	}

	return nil
}

// watchNewDir starts watching a directory created after startup
func (w *WatchService) watchNewDir(watcher *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || skippedDirs[filepath.Base(path)] {
		return
	}
	if err := watcher.Add(path); err != nil {
		w.logger.Warn("cannot watch new directory", zap.String("path", path), zap.Error(err))
	}
}

// relevant reports whether an event should trigger a pass
func (w *WatchService) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	if w.isConfigFile(event.Name) {
		return true
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			return true
		}
	}

	return IsSourceFile(event.Name)
}

// isConfigFile reports whether path is the configuration file in use or one
// that discovery would pick up from the search directory
func (w *WatchService) isConfigFile(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if w.opts.ConfigPath != "" && abs == w.opts.ConfigPath {
		return true
	}
	if w.searchDir == "" || filepath.Dir(abs) != w.searchDir {
		return false
	}
	return slices.Contains(constants.ConfigFileNames, filepath.Base(abs))
}

// IsSourceFile reports whether path has an analysed extension
func IsSourceFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range constants.SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}
