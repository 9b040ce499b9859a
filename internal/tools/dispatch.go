package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/complyward/advisor-go/internal/metrics"
)

// Call is one planned tool call from the decision engine.
type Call struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Invocation is the raw record of one executed tool call. The collection of
// a turn's invocations is the grounding data for the post-processor.
type Invocation struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
	Result    any            `json:"result,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Failed reports whether the invocation ended in an error.
func (inv Invocation) Failed() bool {
	return inv.Error != ""
}

// Summary renders the invocation as one natural-language message for the
// response generator. Errors are surfaced explicitly so the model reports
// them instead of inventing data.
func (inv Invocation) Summary() string {
	if inv.Failed() {
		return fmt.Sprintf("Tool %s failed: %s", inv.Name, inv.Error)
	}

	data, err := json.Marshal(inv.Result)
	if err != nil {
		return fmt.Sprintf("Tool %s returned an unserializable result", inv.Name)
	}
	return fmt.Sprintf("Tool %s returned: %s", inv.Name, data)
}

// Dispatcher executes decision plans against the registry.
type Dispatcher struct {
	registry *Registry
	deps     *Dependencies
}

// NewDispatcher creates a dispatcher over a registry.
func NewDispatcher(registry *Registry, deps *Dependencies) *Dispatcher {
	return &Dispatcher{registry: registry, deps: deps}
}

// Registry exposes the underlying registry for catalog rendering.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch runs all planned calls concurrently and joins on all of them
// before returning: a barrier, not a pipeline. The calls are mutually
// independent once the plan is fixed, so order of execution is irrelevant;
// results are returned in plan order. A failing tool is captured as a
// structured error value in its invocation slot and never fails the turn.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request, calls []Call) []Invocation {
	invocations := make([]Invocation, len(calls))

	g, ctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		g.Go(func() error {
			invocations[i] = d.run(ctx, req, call)
			return nil
		})
	}
	// Handlers never return errors through the group; Wait is the barrier.
	_ = g.Wait()

	return invocations
}

func (d *Dispatcher) run(ctx context.Context, req Request, call Call) Invocation {
	inv := Invocation{Name: call.Name, Arguments: call.Arguments}

	tool, ok := d.registry.Get(call.Name)
	if !ok {
		inv.Error = fmt.Sprintf("unknown tool %q", call.Name)
		d.deps.Logger.Warn("decision planned unknown tool", "tool", call.Name)
		return inv
	}

	start := time.Now()
	result, err := tool.Run(ctx, req, Args(call.Arguments))
	duration := time.Since(start)

	if d.deps.Metrics != nil {
		d.deps.Metrics.RecordTiming(metrics.OpToolDispatch, duration)
	}

	if err != nil {
		if d.deps.Metrics != nil {
			d.deps.Metrics.RecordError(metrics.OpToolDispatch)
		}
		d.deps.Logger.Warn("tool failed", "tool", call.Name, "duration_ms", duration.Milliseconds(), "error", err)
		inv.Error = err.Error()
		return inv
	}

	d.deps.Logger.Debug("tool completed", "tool", call.Name, "duration_ms", duration.Milliseconds())
	inv.Result = result
	return inv
}
