package oracle

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ScriptStep is one expected call and the completion to return for it.
type ScriptStep struct {
	// ExpectContains asserts the user prompt contains this substring
	// before the response is returned. Empty skips the check.
	ExpectContains string

	// Response is the message content to return.
	Response string

	// Err, when set, is returned instead of the response.
	Err error
}

// ScriptedProvider replays a fixed call script for deterministic tests.
// Unlike MockProvider it validates each request against the script and
// fails loudly on any deviation.
type ScriptedProvider struct {
	mu    sync.Mutex
	steps []ScriptStep
	index int
}

// NewScriptedProvider creates a scripted provider with the given steps.
func NewScriptedProvider(steps ...ScriptStep) *ScriptedProvider {
	return &ScriptedProvider{steps: steps}
}

// Name returns the provider name.
func (p *ScriptedProvider) Name() string {
	return "scripted"
}

// Complete implements the Provider interface.
func (p *ScriptedProvider) Complete(_ context.Context, req CompletionRequest) (CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.index >= len(p.steps) {
		return CompletionResponse{}, fmt.Errorf("script exhausted after %d step(s)", len(p.steps))
	}
	step := p.steps[p.index]

	if step.ExpectContains != "" {
		prompt := userPrompt(req)
		if !strings.Contains(prompt, step.ExpectContains) {
			return CompletionResponse{}, fmt.Errorf("step %d: prompt does not contain %q", p.index, step.ExpectContains)
		}
	}

	p.index++
	if step.Err != nil {
		return CompletionResponse{}, step.Err
	}
	return CompletionResponse{
		ID:      "scripted-completion",
		Model:   "scripted",
		Message: Message{Role: "assistant", Content: step.Response},
	}, nil
}

// IsComplete reports whether every step has been consumed.
func (p *ScriptedProvider) IsComplete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index >= len(p.steps)
}

// Reset rewinds the script to the beginning.
func (p *ScriptedProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.index = 0
}

func userPrompt(req CompletionRequest) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			return req.Messages[i].Content
		}
	}
	return ""
}
