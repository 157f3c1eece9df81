// Package application provides the selection orchestrator: one entry
// point that runs a request through preference detection, enumeration,
// policy enforcement, scoring, ambiguity detection, tie resolution, and
// execution hint derivation.
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/statekit"
	"github.com/google/uuid"

	"github.com/felixgeelhaar/selector-go/domain/policy"
	"github.com/felixgeelhaar/selector-go/domain/selection"
	"github.com/felixgeelhaar/selector-go/infrastructure/logging"
	"github.com/felixgeelhaar/selector-go/infrastructure/oracle"
	"github.com/felixgeelhaar/selector-go/infrastructure/statemachine"
	"github.com/felixgeelhaar/selector-go/infrastructure/telemetry"
)

// Request is one selection request.
type Request struct {
	// Query is the user's free text request.
	Query string

	// Capabilities the caller needs fulfilled.
	Capabilities []string

	// Context carries explicit runtime variables (N, pages, ...).
	// Values here win over anything estimated from the query.
	Context selection.RuntimeContext

	// Mode optionally forces a preference mode, overriding detection.
	Mode string
}

// Config contains the orchestrator's collaborators.
type Config struct {
	// Profiles supplies loaded tool profiles. Required.
	Profiles selection.ProfileSource

	// Policy is the caller-side enforcement environment.
	Policy policy.Config

	// TieBreaker resolves ambiguous pairs. Nil disables the oracle.
	TieBreaker *oracle.TieBreaker

	// Metrics records pipeline metrics. Nil means no-op.
	Metrics telemetry.Metrics

	// Epsilon is the ambiguity gap threshold. Zero means the default.
	Epsilon float64

	// DefaultMode applies when neither the request nor the query
	// indicates a preference. Empty means balanced.
	DefaultMode selection.Mode
}

// Selector orchestrates the selection pipeline.
type Selector struct {
	enumerator  *selection.Enumerator
	enforcer    *policy.Enforcer
	policyCfg   policy.Config
	tiebreaker  *oracle.TieBreaker
	metrics     telemetry.Metrics
	machine     *statekit.MachineConfig[*statemachine.Context]
	epsilon     float64
	defaultMode selection.Mode
}

// NewSelector creates a selector with the given configuration.
func NewSelector(config Config) (*Selector, error) {
	if config.Profiles == nil {
		return nil, errors.New("profile source is required")
	}

	machine, err := statemachine.NewPipelineMachine()
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline machine: %w", err)
	}

	s := &Selector{
		enumerator:  selection.NewEnumerator(config.Profiles),
		enforcer:    policy.NewEnforcer(),
		policyCfg:   config.Policy,
		tiebreaker:  config.TieBreaker,
		metrics:     config.Metrics,
		machine:     machine,
		epsilon:     config.Epsilon,
		defaultMode: config.DefaultMode,
	}
	if s.metrics == nil {
		s.metrics = telemetry.NoopMetrics{}
	}
	if s.epsilon == 0 {
		s.epsilon = selection.DefaultEpsilon
	}
	if s.defaultMode == "" {
		s.defaultMode = selection.ModeBalanced
	}
	return s, nil
}

// Select runs the full pipeline for one request.
func (s *Selector) Select(ctx context.Context, req Request) (*selection.Result, error) {
	if len(req.Capabilities) == 0 {
		return nil, ErrNoCapabilities
	}

	var explicit selection.Mode
	if req.Mode != "" {
		mode, err := selection.ParseMode(req.Mode)
		if err != nil {
			return nil, err
		}
		explicit = mode
	}

	selectionID := uuid.NewString()
	pipeline := statemachine.NewPipeline(s.machine, statemachine.NewContext(selectionID))
	started := time.Now()

	// Stage: detect_preference.
	stageStart := time.Now()
	mode := selection.DetectPreference(req.Query, explicit)
	if mode == selection.ModeBalanced && explicit == "" {
		mode = s.defaultMode
	}
	rc := selection.EstimateContext(req.Query).Merge(req.Context)
	s.stageDone(ctx, pipeline, stageStart)

	// Stage: enumerate.
	stageStart = time.Now()
	candidates, skipped := s.enumerator.Enumerate(req.Capabilities, rc)
	for _, sk := range skipped {
		logging.NewEvent(logging.Get().Warn()).
			Add(logging.SelectionID(selectionID)).
			Add(logging.Pattern(sk.ID.String())).
			Add(logging.ErrorField(sk.Err)).
			Msg("pattern skipped during enumeration")
	}
	if len(candidates) == 0 {
		pipeline.Fail("no candidates")
		s.metrics.RecordError(ctx, "no_viable_tools")
		return nil, fmt.Errorf("%w: %v", ErrNoViableTools, req.Capabilities)
	}
	s.stageDone(ctx, pipeline, stageStart)

	// Stage: enforce_policy.
	stageStart = time.Now()
	allowed, removed := s.enforcer.FilterCandidates(candidates, rc, s.policyCfg)
	for _, ev := range removed {
		reason := ev.Decision.FilteredReason()
		logging.NewEvent(logging.Get().Info()).
			Add(logging.SelectionID(selectionID)).
			Add(logging.Pattern(ev.Candidate.ID.String())).
			Add(logging.Reason(reason)).
			Msg("candidate removed by policy")
		for _, v := range ev.Decision.Violations {
			if v.Hard {
				s.metrics.RecordPolicyFiltered(ctx, ev.Candidate.ID.Tool, string(v.Kind))
			}
		}
	}
	if len(allowed) == 0 {
		pipeline.Fail("all candidates removed by policy")
		s.metrics.RecordError(ctx, "all_policy_violations")
		reasons := make(map[string]string, len(removed))
		for _, ev := range removed {
			reasons[ev.Candidate.ID.String()] = ev.Decision.FilteredReason()
		}
		return nil, &AllPolicyViolationsError{Reasons: reasons}
	}
	s.stageDone(ctx, pipeline, stageStart)

	// Stage: score.
	stageStart = time.Now()
	decisions := make(map[string]policy.Decision, len(allowed))
	scorable := make([]selection.Candidate, 0, len(allowed))
	for _, ev := range allowed {
		decisions[ev.Candidate.ID.String()] = ev.Decision
		scorable = append(scorable, ev.Candidate)
	}
	ranked := selection.Score(scorable, mode)
	s.stageDone(ctx, pipeline, stageStart)

	// Stage: detect_ambiguity.
	stageStart = time.Now()
	ambiguity := selection.DetectAmbiguity(ranked, s.epsilon)
	s.stageDone(ctx, pipeline, stageStart)

	// Stage: resolve.
	stageStart = time.Now()
	winner := ranked[0]
	method := selection.MethodDeterministic
	justification := winner.Justification
	if ambiguity.IsAmbiguous && s.tiebreaker.Available() {
		oracleStart := time.Now()
		choice, err := s.tiebreaker.Resolve(ctx, req.Query, mode, ranked[0], ranked[1])
		s.metrics.RecordTieBreak(ctx, s.tiebreaker.ProviderName(), err == nil, time.Since(oracleStart))
		if err != nil {
			// An unreachable oracle or an unparsable reply is a hard
			// failure. Returning the deterministic winner here would
			// hide a genuine trade-off decision behind an
			// apparently-normal result.
			pipeline.Fail("oracle tie-break failed")
			s.metrics.RecordError(ctx, "oracle_failure")
			logging.NewEvent(logging.Get().Error()).
				Add(logging.SelectionID(selectionID)).
				Add(logging.Provider(s.tiebreaker.ProviderName())).
				Add(logging.Gap(ambiguity.Gap)).
				Add(logging.ErrorField(err)).
				Msg("oracle tie-break failed")
			return nil, fmt.Errorf("oracle tie-break: %w", err)
		}
		winner = ranked[choice.Winner]
		method = selection.MethodOracleTieBreak
		justification = choice.Justification
		ambiguity.IsAmbiguous = false
		ambiguity.ClarifyingQuestion = ""
	}
	s.stageDone(ctx, pipeline, stageStart)

	// Stage: derive.
	stageStart = time.Now()
	decision := decisions[winner.Candidate.ID.String()]
	executionMode := selection.DeriveExecutionMode(
		decision.RequiresApproval,
		decision.RequiresBackground,
		winner.Candidate.TimeEstimateMs,
	)
	slaClass := selection.DeriveSLAClass(winner.Candidate.TimeEstimateMs)
	s.metrics.RecordStageDuration(ctx, string(pipeline.Stage()), time.Since(stageStart))
	if err := pipeline.Advance(); err != nil {
		return nil, fmt.Errorf("pipeline did not complete: %w", err)
	}

	alternatives := make([]string, 0, 3)
	for _, sc := range ranked[1:] {
		if sc.Candidate.ID == winner.Candidate.ID {
			continue
		}
		alternatives = append(alternatives, sc.Candidate.ID.String())
		if len(alternatives) == 3 {
			break
		}
	}

	result := &selection.Result{
		SelectionID:        selectionID,
		Winner:             winner.Candidate.ID,
		Method:             method,
		Score:              winner.Score,
		Justification:      justification,
		PreferenceMode:     mode,
		EstimatedTimeMs:    winner.Candidate.TimeEstimateMs,
		EstimatedCost:      winner.Candidate.CostEstimate,
		ExecutionMode:      executionMode,
		SLAClass:           slaClass,
		Alternatives:       alternatives,
		IsAmbiguous:        ambiguity.IsAmbiguous,
		ScoreGap:           ambiguity.Gap,
		ClarifyingQuestion: ambiguity.ClarifyingQuestion,
		CandidateCount:     len(candidates),
		ViolationCount:     len(removed),
	}

	s.metrics.RecordSelection(ctx, string(mode), string(method), result.IsAmbiguous, time.Since(started))
	logging.NewEvent(logging.Get().Info()).
		Add(logging.SelectionID(selectionID)).
		Add(logging.Pattern(result.Winner.String())).
		Add(logging.Mode(string(mode))).
		Add(logging.Score(result.Score)).
		Add(logging.Candidates(result.CandidateCount)).
		Add(logging.Duration(time.Since(started))).
		Msg("selection complete")

	return result, nil
}

// stageDone records the finished stage's duration and advances the
// pipeline to the next one.
func (s *Selector) stageDone(ctx context.Context, p *statemachine.Pipeline, start time.Time) {
	s.metrics.RecordStageDuration(ctx, string(p.Stage()), time.Since(start))
	// Advancing from a non-terminal stage on the happy path cannot
	// fail; a failure here would mean the machine definition is wrong.
	_ = p.Advance()
}
