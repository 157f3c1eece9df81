// Package statemachine provides the statekit statechart for the
// selection pipeline. The machine enforces stage order: a request moves
// through preference detection, enumeration, policy, scoring, ambiguity
// detection, tie resolution, and hint derivation, or drops into the
// failed state.
package statemachine

import (
	"time"

	"github.com/felixgeelhaar/statekit"
)

// Stage identifies one pipeline stage.
type Stage string

const (
	StageDetectPreference Stage = "detect_preference"
	StageEnumerate        Stage = "enumerate"
	StageEnforcePolicy    Stage = "enforce_policy"
	StageScore            Stage = "score"
	StageDetectAmbiguity  Stage = "detect_ambiguity"
	StageResolve          Stage = "resolve"
	StageDerive           Stage = "derive"
	StageComplete         Stage = "complete"
	StageFailed           Stage = "failed"
)

// stageOrder is the happy path through the pipeline.
var stageOrder = []Stage{
	StageDetectPreference,
	StageEnumerate,
	StageEnforcePolicy,
	StageScore,
	StageDetectAmbiguity,
	StageResolve,
	StageDerive,
	StageComplete,
}

// StageEvent records one stage entry for the pipeline trace.
type StageEvent struct {
	Stage Stage
	At    time.Time
}

// Context carries request state through the machine.
type Context struct {
	SelectionID string
	Trace       []StageEvent
	FailReason  string
}

// NewContext creates a machine context for one selection request.
func NewContext(selectionID string) *Context {
	return &Context{SelectionID: selectionID}
}

func recordStage(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	c := *ctx
	c.Trace = append(c.Trace, StageEvent{Stage: stageFromEvent(event.Type), At: time.Now()})
	if event.Type == "FAIL" {
		if reason, ok := event.Payload.(string); ok {
			c.FailReason = reason
		}
	}
}

func stageFromEvent(eventType statekit.EventType) Stage {
	switch eventType {
	case "ENUMERATE":
		return StageEnumerate
	case "ENFORCE":
		return StageEnforcePolicy
	case "SCORE":
		return StageScore
	case "DETECT":
		return StageDetectAmbiguity
	case "RESOLVE":
		return StageResolve
	case "DERIVE":
		return StageDerive
	case "COMPLETE":
		return StageComplete
	case "FAIL":
		return StageFailed
	default:
		return Stage(eventType)
	}
}

func eventForStage(stage Stage) statekit.EventType {
	switch stage {
	case StageEnumerate:
		return "ENUMERATE"
	case StageEnforcePolicy:
		return "ENFORCE"
	case StageScore:
		return "SCORE"
	case StageDetectAmbiguity:
		return "DETECT"
	case StageResolve:
		return "RESOLVE"
	case StageDerive:
		return "DERIVE"
	case StageComplete:
		return "COMPLETE"
	case StageFailed:
		return "FAIL"
	default:
		return statekit.EventType(stage)
	}
}

// NewPipelineMachine creates the canonical selection pipeline statechart.
func NewPipelineMachine() (*statekit.MachineConfig[*Context], error) {
	return statekit.NewMachine[*Context]("selection").
		WithInitial(statekit.StateID(StageDetectPreference)).
		WithContext(&Context{}).
		WithAction("recordStage", recordStage).
		State(statekit.StateID(StageDetectPreference)).
			On("ENUMERATE").Target(statekit.StateID(StageEnumerate)).Do("recordStage").
			On("FAIL").Target(statekit.StateID(StageFailed)).Do("recordStage").
			Done().
		State(statekit.StateID(StageEnumerate)).
			On("ENFORCE").Target(statekit.StateID(StageEnforcePolicy)).Do("recordStage").
			On("FAIL").Target(statekit.StateID(StageFailed)).Do("recordStage").
			Done().
		State(statekit.StateID(StageEnforcePolicy)).
			On("SCORE").Target(statekit.StateID(StageScore)).Do("recordStage").
			On("FAIL").Target(statekit.StateID(StageFailed)).Do("recordStage").
			Done().
		State(statekit.StateID(StageScore)).
			On("DETECT").Target(statekit.StateID(StageDetectAmbiguity)).Do("recordStage").
			On("FAIL").Target(statekit.StateID(StageFailed)).Do("recordStage").
			Done().
		State(statekit.StateID(StageDetectAmbiguity)).
			On("RESOLVE").Target(statekit.StateID(StageResolve)).Do("recordStage").
			On("FAIL").Target(statekit.StateID(StageFailed)).Do("recordStage").
			Done().
		State(statekit.StateID(StageResolve)).
			On("DERIVE").Target(statekit.StateID(StageDerive)).Do("recordStage").
			On("FAIL").Target(statekit.StateID(StageFailed)).Do("recordStage").
			Done().
		State(statekit.StateID(StageDerive)).
			On("COMPLETE").Target(statekit.StateID(StageComplete)).Do("recordStage").
			On("FAIL").Target(statekit.StateID(StageFailed)).Do("recordStage").
			Done().
		State(statekit.StateID(StageComplete)).
			Final().
			Done().
		State(statekit.StateID(StageFailed)).
			Final().
			Done().
		Build()
}
