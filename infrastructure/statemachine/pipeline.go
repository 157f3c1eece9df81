package statemachine

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Pipeline wraps the statekit interpreter for one selection request.
type Pipeline struct {
	interp *statekit.Interpreter[*Context]
	ctx    *Context
}

// NewPipeline creates and starts a pipeline for the given request.
func NewPipeline(machine *statekit.MachineConfig[*Context], ctx *Context) *Pipeline {
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **Context) {
		*c = ctx
	})
	interp.Start()
	return &Pipeline{interp: interp, ctx: ctx}
}

// Stage returns the current stage.
func (p *Pipeline) Stage() Stage {
	return Stage(p.interp.State().Value)
}

// Advance moves the pipeline to the next stage on the happy path.
func (p *Pipeline) Advance() error {
	current := p.Stage()
	for i, stage := range stageOrder {
		if stage != current {
			continue
		}
		if i+1 >= len(stageOrder) {
			return fmt.Errorf("pipeline already at %s", current)
		}
		p.interp.Send(statekit.Event{Type: eventForStage(stageOrder[i+1])})
		return nil
	}
	return fmt.Errorf("cannot advance from %s", current)
}

// Fail moves the pipeline into the failed state with a reason.
func (p *Pipeline) Fail(reason string) {
	if p.IsTerminal() {
		return
	}
	p.interp.Send(statekit.Event{Type: "FAIL", Payload: reason})
}

// IsTerminal reports whether the pipeline reached a final stage.
func (p *Pipeline) IsTerminal() bool {
	return p.interp.Done()
}

// Trace returns the recorded stage entries.
func (p *Pipeline) Trace() []StageEvent {
	return p.ctx.Trace
}

// Context returns the pipeline context.
func (p *Pipeline) Context() *Context {
	return p.ctx
}
