package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/complexitylens/domain"
)

type recordingRunner struct {
	requests []domain.ComplexityRequest
}

func (r *recordingRunner) Execute(_ context.Context, req domain.ComplexityRequest) (*domain.ComplexityResponse, error) {
	r.requests = append(r.requests, req)
	return &domain.ComplexityResponse{Functions: []domain.FunctionComplexity{{Name: "f"}}}, nil
}

func TestController_StartsEnabled(t *testing.T) {
	c := NewController(nil, &recordingRunner{}, nil)
	assert.True(t, c.Enabled())
}

func TestController_Toggle(t *testing.T) {
	c := NewController(nil, &recordingRunner{}, nil)

	assert.False(t, c.Toggle())
	assert.False(t, c.Enabled())
	assert.True(t, c.Toggle())
	assert.True(t, c.Enabled())

	c.SetEnabled(false)
	assert.False(t, c.Enabled())
}

func TestController_RunPassesPaths(t *testing.T) {
	runner := &recordingRunner{}
	load := func() (*domain.ComplexityRequest, error) {
		return &domain.ComplexityRequest{WarningThreshold: 4, ErrorThreshold: 8}, nil
	}
	c := NewController(load, runner, nil)

	resp, err := c.Run(context.Background(), []string{"a.js", "b.ts"})
	require.NoError(t, err)
	require.Len(t, resp.Functions, 1)

	require.Len(t, runner.requests, 1)
	assert.Equal(t, []string{"a.js", "b.ts"}, runner.requests[0].Paths)
	assert.Equal(t, 4, runner.requests[0].WarningThreshold)
}

func TestController_RunDisabledReturnsEmpty(t *testing.T) {
	runner := &recordingRunner{}
	load := func() (*domain.ComplexityRequest, error) { return &domain.ComplexityRequest{}, nil }
	c := NewController(load, runner, nil)
	c.Toggle()

	resp, err := c.Run(context.Background(), []string{"a.js"})
	require.NoError(t, err)

	assert.True(t, resp.Disabled)
	assert.Empty(t, resp.Functions)
	assert.Empty(t, runner.requests, "a disabled controller must not run a pass")
}

func TestController_RunPassReturnsRequest(t *testing.T) {
	runner := &recordingRunner{}
	load := func() (*domain.ComplexityRequest, error) {
		return &domain.ComplexityRequest{OutputFormat: domain.OutputFormatYAML}, nil
	}
	c := NewController(load, runner, nil)

	req, resp, err := c.RunPass(context.Background(), []string{"a.js"})
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.NotNil(t, req)
	assert.Equal(t, domain.OutputFormatYAML, req.OutputFormat)
	assert.Equal(t, []string{"a.js"}, req.Paths)

	c.Toggle()
	req, resp, err = c.RunPass(context.Background(), []string{"a.js"})
	require.NoError(t, err)
	assert.True(t, resp.Disabled)
	assert.Equal(t, domain.OutputFormatYAML, req.OutputFormat)

	failing := NewController(func() (*domain.ComplexityRequest, error) { return nil, errors.New("bad yaml") }, runner, nil)
	req, _, err = failing.RunPass(context.Background(), []string{"a.js"})
	require.Error(t, err)
	assert.Nil(t, req)
}

func TestController_ReloadsConfigEveryRun(t *testing.T) {
	runner := &recordingRunner{}
	calls := 0
	load := func() (*domain.ComplexityRequest, error) {
		calls++
		return &domain.ComplexityRequest{WarningThreshold: calls, ErrorThreshold: calls + 1}, nil
	}
	c := NewController(load, runner, nil)

	for i := 0; i < 3; i++ {
		_, err := c.Run(context.Background(), []string{"a.js"})
		require.NoError(t, err)
	}

	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, runner.requests[2].WarningThreshold)
}

func TestController_RunConfigError(t *testing.T) {
	runner := &recordingRunner{}
	load := func() (*domain.ComplexityRequest, error) { return nil, errors.New("bad yaml") }
	c := NewController(load, runner, nil)

	_, err := c.Run(context.Background(), []string{"a.js"})
	require.Error(t, err)

	var domainErr domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeConfigError, domainErr.Code)
	assert.Empty(t, runner.requests)
}

func TestController_RunPicksUpConfigFileEdits(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "complexitylens.yaml")
	source := filepath.Join(dir, "a.js")
	require.NoError(t, os.WriteFile(source, []byte("function f(x) { if (x) {} if (x) {} }\n"), 0644))
	require.NoError(t, os.WriteFile(configFile, []byte("complexity:\n  warning_threshold: 10\n  error_threshold: 15\n"), 0644))

	loader := NewConfigurationLoader()
	load := func() (*domain.ComplexityRequest, error) { return loader.LoadConfig(configFile, "") }
	c := NewController(load, &serviceRunner{NewComplexityService(nil)}, nil)

	resp, err := c.Run(context.Background(), []string{source})
	require.NoError(t, err)
	assert.Equal(t, domain.RiskLevelLow, resp.Functions[0].RiskLevel)

	require.NoError(t, os.WriteFile(configFile, []byte("complexity:\n  warning_threshold: 2\n  error_threshold: 3\n"), 0644))

	resp, err = c.Run(context.Background(), []string{source})
	require.NoError(t, err)
	assert.Equal(t, domain.RiskLevelError, resp.Functions[0].RiskLevel)
	assert.Equal(t, "❌ Risk 3", resp.Functions[0].Annotation.Text)
}

// serviceRunner runs the complexity service directly on the given paths
type serviceRunner struct {
	service *ComplexityServiceImpl
}

func (r *serviceRunner) Execute(ctx context.Context, req domain.ComplexityRequest) (*domain.ComplexityResponse, error) {
	return r.service.Analyze(ctx, req)
}
