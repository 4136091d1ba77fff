package missionreport

import (
	"context"
	"log/slog"
	"sync"
	"time"

	apperrors "github.com/yanqian/cosmo-uplink/pkg/errors"
	"github.com/yanqian/cosmo-uplink/pkg/util"
)

// Controller owns the report view state: idle, generating, or ready.
//
// Only one generation is accepted at a time; Start while generating is
// rejected with code report_in_flight. Dismiss does not abort an in-flight
// call: when that call resolves its text is still applied.
type Controller struct {
	generator Generator
	logger    *slog.Logger
	now       func() time.Time

	mu          sync.Mutex
	state       State
	nextSubID   int
	subscribers map[int]chan State
}

// NewController builds a controller starting in the idle state.
func NewController(generator Generator, logger *slog.Logger) *Controller {
	c := &Controller{
		generator:   generator,
		logger:      logger.With("component", "missionreport.controller"),
		now:         util.NowUTC,
		subscribers: make(map[int]chan State),
	}
	c.state = State{Status: StatusIdle, UpdatedAt: c.now()}
	return c
}

// State returns a snapshot of the current view state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start moves to generating, waits for the generator and moves to ready.
func (c *Controller) Start(ctx context.Context, req ReportRequest) (State, error) {
	if _, err := c.begin(req); err != nil {
		return State{}, err
	}
	return c.resolve(req, c.generator.Generate(ctx, req)), nil
}

// StartAsync moves to generating and returns immediately; the generator runs
// on its own goroutine and is not cancelled when ctx is.
func (c *Controller) StartAsync(ctx context.Context, req ReportRequest) (State, error) {
	state, err := c.begin(req)
	if err != nil {
		return State{}, err
	}
	detached := context.WithoutCancel(ctx)
	go func() {
		c.resolve(req, c.generator.Generate(detached, req))
	}()
	return state, nil
}

// Dismiss returns to idle from any state.
func (c *Controller) Dismiss() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Status == StatusGenerating {
		c.logger.Warn("dismissed while generating; pending result will still be applied")
	}
	return c.transitionLocked(State{Status: StatusIdle})
}

// Acknowledge returns to idle only if the state is still the ready state
// identified by version. It reports whether the transition happened.
func (c *Controller) Acknowledge(version uint64) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Status != StatusReady || c.state.Version != version {
		return c.state, false
	}
	return c.transitionLocked(State{Status: StatusIdle}), true
}

// Subscribe streams every subsequent transition in order. A subscriber whose
// buffer is full loses its oldest pending state, never the newest one, so the
// last value it receives is always the current state. The returned
// function must be called to release the subscription.
func (c *Controller) Subscribe(buffer int) (<-chan State, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan State, buffer)

	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = ch
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subscribers, id)
			c.mu.Unlock()
			close(ch)
		})
	}
}

func (c *Controller) begin(req ReportRequest) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Status == StatusGenerating {
		return State{}, apperrors.Wrap(apperrors.CodeReportInFlight, "a report is already being generated", nil)
	}
	reqCopy := req.clone()
	c.logger.Info("report generation started", "zone", req.Zone, "minerals", len(req.Minerals))
	return c.transitionLocked(State{Status: StatusGenerating, Request: &reqCopy}), nil
}

func (c *Controller) resolve(req ReportRequest, text string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	reqCopy := req.clone()
	c.logger.Info("report ready", "zone", req.Zone, "outcome", ClassifyResult(text))
	return c.transitionLocked(State{Status: StatusReady, Report: text, Request: &reqCopy})
}

func (c *Controller) transitionLocked(next State) State {
	next.Version = c.state.Version + 1
	next.UpdatedAt = c.now()
	c.state = next
	for _, ch := range c.subscribers {
		select {
		case ch <- next:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- next:
		default:
		}
	}
	return next
}
