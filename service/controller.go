package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ludo-technologies/complexitylens/domain"
	"github.com/ludo-technologies/complexitylens/internal/logging"
	"github.com/ludo-technologies/complexitylens/internal/version"
)

// RequestLoader produces the request snapshot for one pass. It is called at
// the start of every run so configuration edits apply to the next pass.
type RequestLoader func() (*domain.ComplexityRequest, error)

// PassRunner resolves the request paths and runs an analysis pass
type PassRunner interface {
	Execute(ctx context.Context, req domain.ComplexityRequest) (*domain.ComplexityResponse, error)
}

// Controller owns the annotation toggle and runs passes with a freshly loaded
// configuration
type Controller struct {
	mu      sync.RWMutex
	enabled bool
	load    RequestLoader
	runner  PassRunner
	logger  *zap.Logger
}

// NewController creates an enabled controller
func NewController(load RequestLoader, runner PassRunner, logger *zap.Logger) *Controller {
	return &Controller{
		enabled: true,
		load:    load,
		runner:  runner,
		logger:  logging.OrNop(logger),
	}
}

// Toggle flips the enabled state and returns the new state
func (c *Controller) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = !c.enabled
	c.logger.Debug("annotations toggled", zap.Bool("enabled", c.enabled))
	return c.enabled
}

// Enabled reports whether passes produce annotations
func (c *Controller) Enabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}

// SetEnabled sets the enabled state
func (c *Controller) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
}

// Run reloads the configuration and runs a pass over paths. A disabled
// controller returns an empty response marked Disabled.
func (c *Controller) Run(ctx context.Context, paths []string) (*domain.ComplexityResponse, error) {
	_, resp, err := c.RunPass(ctx, paths)
	return resp, err
}

// RunPass is Run that also returns the request the pass used. The request is
// nil when the configuration failed to load.
func (c *Controller) RunPass(ctx context.Context, paths []string) (*domain.ComplexityRequest, *domain.ComplexityResponse, error) {
	req, err := c.load()
	if err != nil {
		return nil, nil, domain.NewConfigError("failed to reload configuration", err)
	}

	pass := *req
	pass.Paths = paths

	if !c.Enabled() {
		return &pass, &domain.ComplexityResponse{
			Functions:   []domain.FunctionComplexity{},
			Disabled:    true,
			GeneratedAt: time.Now().Format(time.RFC3339),
			Version:     version.Version,
		}, nil
	}

	resp, err := c.runner.Execute(ctx, pass)
	return &pass, resp, err
}
