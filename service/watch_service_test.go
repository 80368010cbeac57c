package service

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/complexitylens/domain"
)

func TestParseWatchCommand(t *testing.T) {
	tests := []struct {
		input    string
		expected WatchCommand
	}{
		{"t", WatchCommandToggle},
		{"toggle", WatchCommandToggle},
		{"  T \n", WatchCommandToggle},
		{"q", WatchCommandQuit},
		{"quit", WatchCommandQuit},
		{"", WatchCommandNone},
		{"help", WatchCommandUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseWatchCommand(tt.input), "input %q", tt.input)
	}
}

func TestWatchService_HandleCommand(t *testing.T) {
	var status bytes.Buffer
	controller := NewController(nil, &recordingRunner{}, nil)
	w := NewWatchService(controller, WatchOptions{Status: &status}, nil)

	assert.False(t, w.HandleCommand(WatchCommandToggle))
	assert.False(t, controller.Enabled())
	assert.Contains(t, status.String(), "disabled")

	assert.False(t, w.HandleCommand(WatchCommandToggle))
	assert.True(t, controller.Enabled())
	assert.Contains(t, status.String(), "enabled")

	assert.False(t, w.HandleCommand(WatchCommandUnknown))
	assert.Contains(t, status.String(), "Commands:")

	assert.True(t, w.HandleCommand(WatchCommandQuit))
}

func TestWatchService_Defaults(t *testing.T) {
	w := NewWatchService(NewController(nil, &recordingRunner{}, nil), WatchOptions{}, nil)

	assert.Equal(t, 200*time.Millisecond, w.opts.Debounce)
	assert.NotNil(t, w.opts.Status)
	assert.NotNil(t, w.opts.OnPass)
}

func TestWatchService_Relevant(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "complexitylens.yaml")
	w := NewWatchService(NewController(nil, &recordingRunner{}, nil), WatchOptions{ConfigPath: configFile}, nil)

	tests := []struct {
		name     string
		event    fsnotify.Event
		expected bool
	}{
		{"source write", fsnotify.Event{Name: filepath.Join(dir, "a.ts"), Op: fsnotify.Write}, true},
		{"source remove", fsnotify.Event{Name: filepath.Join(dir, "a.js"), Op: fsnotify.Remove}, true},
		{"config write", fsnotify.Event{Name: configFile, Op: fsnotify.Write}, true},
		{"other file", fsnotify.Event{Name: filepath.Join(dir, "README.md"), Op: fsnotify.Write}, false},
		{"chmod only", fsnotify.Event{Name: filepath.Join(dir, "a.js"), Op: fsnotify.Chmod}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, w.relevant(tt.event))
		})
	}
}

func TestWatchService_RelevantNewConfigFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "a.js")
	require.NoError(t, os.WriteFile(source, []byte("function f() {}\n"), 0644))

	discovering := NewWatchService(NewController(nil, &recordingRunner{}, nil), WatchOptions{
		Paths:          []string{source},
		DiscoverConfig: true,
	}, nil)
	explicit := NewWatchService(NewController(nil, &recordingRunner{}, nil), WatchOptions{
		Paths: []string{source},
	}, nil)

	tests := []struct {
		name     string
		event    fsnotify.Event
		expected bool
	}{
		{"yaml created", fsnotify.Event{Name: filepath.Join(dir, "complexitylens.yaml"), Op: fsnotify.Create}, true},
		{"hidden toml written", fsnotify.Event{Name: filepath.Join(dir, ".complexitylens.toml"), Op: fsnotify.Write}, true},
		{"other yaml", fsnotify.Event{Name: filepath.Join(dir, "settings.yaml"), Op: fsnotify.Create}, false},
		{"config in subdirectory", fsnotify.Event{Name: filepath.Join(dir, "sub", "complexitylens.yaml"), Op: fsnotify.Create}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, discovering.relevant(tt.event))
			assert.False(t, explicit.relevant(tt.event), "no discovery without DiscoverConfig")
		})
	}
}

func TestConfigSearchDir(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "a.js")
	require.NoError(t, os.WriteFile(source, []byte("function f() {}\n"), 0644))

	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, abs, configSearchDir(source))
	assert.Equal(t, abs, configSearchDir(dir))
}

func TestIsSourceFile(t *testing.T) {
	assert.True(t, IsSourceFile("a.js"))
	assert.True(t, IsSourceFile("dir/b.TSX"))
	assert.True(t, IsSourceFile("c.mjs"))
	assert.False(t, IsSourceFile("d.go"))
	assert.False(t, IsSourceFile("Makefile"))
}

// passRecorder collects watch pass results
type passRecorder struct {
	mu       sync.Mutex
	passes   []*domain.ComplexityResponse
	requests []*domain.ComplexityRequest
	signal   chan struct{}
}

func newPassRecorder() *passRecorder {
	return &passRecorder{signal: make(chan struct{}, 16)}
}

func (p *passRecorder) handle(req *domain.ComplexityRequest, resp *domain.ComplexityResponse, _ error) {
	p.mu.Lock()
	p.passes = append(p.passes, resp)
	p.requests = append(p.requests, req)
	p.mu.Unlock()
	p.signal <- struct{}{}
}

func (p *passRecorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-p.signal:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a watch pass")
	}
}

func TestWatchService_RerunsOnChange(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "a.js")
	require.NoError(t, os.WriteFile(source, []byte("function f() {}\n"), 0644))

	controller := NewController(
		func() (*domain.ComplexityRequest, error) { return &domain.ComplexityRequest{}, nil },
		&serviceRunner{NewComplexityService(nil)},
		nil,
	)
	recorder := newPassRecorder()
	w := NewWatchService(controller, WatchOptions{
		Paths:    []string{source},
		Debounce: 20 * time.Millisecond,
		OnPass:   recorder.handle,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, nil) }()

	recorder.wait(t)
	require.NoError(t, os.WriteFile(source, []byte("function f(x) { if (x) {} }\n"), 0644))
	recorder.wait(t)

	cancel()
	require.NoError(t, <-done)

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	last := recorder.passes[len(recorder.passes)-1]
	require.NotNil(t, last)
	require.Len(t, last.Functions, 1)
	assert.Equal(t, 2, last.Functions[0].Metrics.Complexity)
}

func TestWatchService_ToggleAndQuitFromCommands(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "a.js")
	require.NoError(t, os.WriteFile(source, []byte("function f() {}\n"), 0644))

	controller := NewController(
		func() (*domain.ComplexityRequest, error) { return &domain.ComplexityRequest{}, nil },
		&serviceRunner{NewComplexityService(nil)},
		nil,
	)
	recorder := newPassRecorder()
	w := NewWatchService(controller, WatchOptions{
		Paths:  []string{dir},
		Status: io.Discard,
		OnPass: recorder.handle,
	}, nil)

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background(), pr) }()

	recorder.wait(t)
	_, err := pw.Write([]byte("t\n"))
	require.NoError(t, err)
	recorder.wait(t)

	_, err = pw.Write([]byte("q\n"))
	require.NoError(t, err)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop on quit")
	}
	_ = pw.Close()

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	require.Len(t, recorder.passes, 2)
	assert.False(t, recorder.passes[0].Disabled)
	assert.True(t, recorder.passes[1].Disabled)
}

func TestWatchService_PicksUpConfigCreatedLater(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "a.js")
	require.NoError(t, os.WriteFile(source, []byte("function f(x) { if (x) {} if (x) {} }\n"), 0644))

	loader := NewConfigurationLoader()
	controller := NewController(
		func() (*domain.ComplexityRequest, error) { return loader.LoadConfig("", source) },
		&serviceRunner{NewComplexityService(nil)},
		nil,
	)
	recorder := newPassRecorder()
	w := NewWatchService(controller, WatchOptions{
		Paths:          []string{source},
		DiscoverConfig: true,
		Debounce:       20 * time.Millisecond,
		OnPass:         recorder.handle,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, nil) }()

	recorder.wait(t)
	config := "complexity:\n  warning_threshold: 2\n  error_threshold: 3\noutput:\n  format: json\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "complexitylens.yaml"), []byte(config), 0644))
	recorder.wait(t)

	cancel()
	require.NoError(t, <-done)

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	first, last := recorder.passes[0], recorder.passes[len(recorder.passes)-1]
	require.Len(t, first.Functions, 1)
	assert.Equal(t, domain.RiskLevelLow, first.Functions[0].RiskLevel)
	require.Len(t, last.Functions, 1)
	assert.Equal(t, domain.RiskLevelError, last.Functions[0].RiskLevel)

	req := recorder.requests[len(recorder.requests)-1]
	require.NotNil(t, req)
	assert.Equal(t, "complexitylens.yaml", filepath.Base(req.ConfigPath))
	assert.Equal(t, domain.OutputFormatJSON, req.OutputFormat)
}
