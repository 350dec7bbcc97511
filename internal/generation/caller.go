// Package generation orchestrates model calls for resume generation, section
// refinement and the resume chat.
package generation

import (
	"context"
	"time"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/monitor"
)

// caller runs one model call under a timeout and records it in the monitor.
type caller struct {
	client  llm.Client
	monitor *monitor.Monitor
	timeout time.Duration
}

func newCaller(client llm.Client, mon *monitor.Monitor, timeout time.Duration) caller {
	if mon == nil {
		mon = monitor.New()
	}
	if timeout <= 0 {
		timeout = llm.DefaultTimeout
	}
	return caller{client: client, monitor: mon, timeout: timeout}
}

// do detaches the call from the caller's cancellation: once started it runs
// until it completes or the timeout fires.
func (c caller) do(ctx context.Context, tier llm.ModelTier, fn func(context.Context) error) error {
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	call := c.monitor.StartCall(c.client.GetModel(tier))
	err := fn(callCtx)
	c.monitor.EndCall(call, err == nil, err, 0)
	return err
}
