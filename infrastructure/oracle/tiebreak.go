package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/bulkhead"

	"github.com/felixgeelhaar/selector-go/domain/selection"
)

const (
	// DefaultTimeout bounds one tie-break round trip. Tie-breaking sits
	// on the interactive path, so this is deliberately tight.
	DefaultTimeout = 3 * time.Second

	// DefaultMaxConcurrent limits in-flight oracle calls.
	DefaultMaxConcurrent = 4
)

const systemPrompt = `You are a tool selection judge. You are given a user query, a preference mode, and two candidate tool patterns labeled A and B with near-identical scores. Pick the one better suited to the query.

Respond with a single JSON object and nothing else:
{"choice": "A" or "B", "justification": "one sentence"}`

// Choice is the oracle's verdict: the index of the winning candidate
// (0 for A, 1 for B) and a one-line justification.
type Choice struct {
	Winner        int
	Justification string
}

// Config configures the tie-breaker.
type Config struct {
	Provider      Provider
	Model         string
	Timeout       time.Duration // Default: DefaultTimeout
	MaxConcurrent int           // Default: DefaultMaxConcurrent
}

// TieBreaker asks a provider to break a tie between the top two scored
// candidates. A bulkhead caps concurrent calls so a burst of ambiguous
// selections cannot pile up requests against the provider.
type TieBreaker struct {
	provider Provider
	model    string
	timeout  time.Duration
	guard    bulkhead.Bulkhead[Choice]
}

// NewTieBreaker creates a tie-breaker. The provider may be nil, in which
// case Resolve returns ErrNoOracle and callers fall back to the
// deterministic ranking.
func NewTieBreaker(config Config) *TieBreaker {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	maxConcurrent := config.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return &TieBreaker{
		provider: config.Provider,
		model:    config.Model,
		timeout:  timeout,
		guard: bulkhead.New[Choice](bulkhead.Config{
			MaxConcurrent: maxConcurrent,
		}),
	}
}

// Available reports whether a provider is configured.
func (t *TieBreaker) Available() bool {
	return t != nil && t.provider != nil
}

// ProviderName returns the configured provider's name for logging, or
// empty when no provider is set.
func (t *TieBreaker) ProviderName() string {
	if !t.Available() {
		return ""
	}
	return t.provider.Name()
}

// Resolve asks the provider to choose between a and b for the given
// query. Any failure is returned as an error; the caller decides whether
// to fall back to the deterministic winner.
func (t *TieBreaker) Resolve(ctx context.Context, query string, mode selection.Mode, a, b selection.ScoredCandidate) (Choice, error) {
	if !t.Available() {
		return Choice{}, ErrNoOracle
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req := CompletionRequest{
		Model: t.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(query, mode, a, b)},
		},
		MaxTokens: 256,
	}

	return t.guard.Execute(ctx, func(ctx context.Context) (Choice, error) {
		resp, err := t.provider.Complete(ctx, req)
		if err != nil {
			return Choice{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if resp.Error != nil {
			return Choice{}, fmt.Errorf("%w: %v", ErrUnavailable, resp.Error)
		}
		return parseChoice(resp.Message.Content)
	})
}

func buildPrompt(query string, mode selection.Mode, a, b selection.ScoredCandidate) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Query: %s\nPreference mode: %s\n\n", query, mode)
	writeCandidate(&sb, "A", a)
	writeCandidate(&sb, "B", b)
	return sb.String()
}

func writeCandidate(sb *strings.Builder, label string, sc selection.ScoredCandidate) {
	c := sc.Candidate
	fmt.Fprintf(sb, "Candidate %s: %s\n", label, c.ID)
	if c.Description != "" {
		fmt.Fprintf(sb, "  description: %s\n", c.Description)
	}
	fmt.Fprintf(sb, "  estimated time: %.0f ms\n", c.TimeEstimateMs)
	fmt.Fprintf(sb, "  estimated cost: %.4f\n", c.CostEstimate)
	fmt.Fprintf(sb, "  accuracy: %.2f, completeness: %.2f, complexity: %.2f\n", c.Accuracy, c.Completeness, c.Complexity)
	if len(c.Limitations) > 0 {
		fmt.Fprintf(sb, "  limitations: %s\n", strings.Join(c.Limitations, "; "))
	}
	fmt.Fprintf(sb, "  score: %.4f\n\n", sc.Score)
}

// parseChoice extracts the decision JSON, tolerating markdown code
// fences but nothing else.
func parseChoice(content string) (Choice, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	var decision struct {
		Choice        string `json:"choice"`
		Justification string `json:"justification"`
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(content)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&decision); err != nil {
		return Choice{}, fmt.Errorf("%w: %v (content: %s)", ErrInvalidResponse, err, truncate(content, 200))
	}

	if decision.Justification == "" {
		return Choice{}, fmt.Errorf("%w: justification is empty", ErrInvalidResponse)
	}

	switch decision.Choice {
	case "A":
		return Choice{Winner: 0, Justification: decision.Justification}, nil
	case "B":
		return Choice{Winner: 1, Justification: decision.Justification}, nil
	default:
		return Choice{}, fmt.Errorf("%w: choice %q is not A or B", ErrInvalidResponse, decision.Choice)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
