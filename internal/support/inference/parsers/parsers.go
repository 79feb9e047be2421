package parsers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/supportflow-core-poc/server/internal/support/model"
)

// basic safety limits to avoid pathological inputs
const (
	maxContentLen = 128 * 1024 // 128KB
	maxSteps      = 20         // upper bound before plan clamping
	maxErrSnippet = 200        // limit error snippet size
)

// StripCodeFence removes a surrounding markdown code fence (``` or ```json)
// from model output, returning the inner content trimmed. Content without a
// fence is returned trimmed as-is.
func StripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.Contains(content, "```") {
		return content
	}

	parts := strings.Split(content, "```")
	if len(parts) < 2 {
		return content
	}
	inner := parts[1]
	inner = strings.TrimPrefix(inner, "json")
	return strings.TrimSpace(inner)
}

// ParseClassification parses a {"label","confidence","reason"} response.
// The legacy "intent" key is accepted as an alias for "label".
func ParseClassification(content string) (*model.Classification, error) {
	if err := checkLen(content); err != nil {
		return nil, err
	}

	var raw struct {
		Label      string  `json:"label"`
		Intent     string  `json:"intent"`
		Confidence float64 `json:"confidence"`
		Reason     string  `json:"reason"`
	}
	if err := json.Unmarshal([]byte(StripCodeFence(content)), &raw); err != nil {
		return nil, fmt.Errorf("classification parse: %w (content: %s)", err, safeSnippet(content))
	}

	label := strings.TrimSpace(raw.Label)
	if label == "" {
		label = strings.TrimSpace(raw.Intent)
	}
	if label == "" {
		return nil, fmt.Errorf("classification parse: empty label")
	}

	return &model.Classification{
		Label:      label,
		Confidence: clampFloat(raw.Confidence, 0, 1),
		Reason:     raw.Reason,
	}, nil
}

// ParsePlan parses a {"steps":[...]} response into solution steps, dropping
// entries without an action, clamping to limit and re-indexing from 1.
func ParsePlan(content string, limit int) ([]model.SolutionStep, error) {
	if err := checkLen(content); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxSteps {
		limit = maxSteps
	}

	var raw struct {
		Steps []struct {
			Action         string `json:"action"`
			Description    string `json:"description"`
			ExpectedResult string `json:"expected_result"`
		} `json:"steps"`
	}
	if err := json.Unmarshal([]byte(StripCodeFence(content)), &raw); err != nil {
		return nil, fmt.Errorf("plan parse: %w (content: %s)", err, safeSnippet(content))
	}
	if len(raw.Steps) == 0 {
		return nil, fmt.Errorf("plan parse: no steps")
	}

	steps := make([]model.SolutionStep, 0, len(raw.Steps))
	for _, rs := range raw.Steps {
		action := strings.TrimSpace(rs.Action)
		if action == "" {
			continue
		}
		if len(steps) >= limit {
			break
		}
		steps = append(steps, model.SolutionStep{
			Index:          len(steps) + 1,
			Action:         action,
			Description:    strings.TrimSpace(rs.Description),
			ExpectedResult: strings.TrimSpace(rs.ExpectedResult),
		})
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("plan parse: no usable steps")
	}
	return steps, nil
}

// ParseJudgment parses a {"decision","reason"} response. Unknown decisions
// are rejected so the caller can apply its documented default.
func ParseJudgment(content string) (*model.Judgment, error) {
	if err := checkLen(content); err != nil {
		return nil, err
	}

	var raw struct {
		Decision string `json:"decision"`
		Reason   string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(StripCodeFence(content)), &raw); err != nil {
		return nil, fmt.Errorf("judgment parse: %w (content: %s)", err, safeSnippet(content))
	}

	decision := model.JudgeDecision(strings.ToLower(strings.TrimSpace(raw.Decision)))
	switch decision {
	case model.JudgeResolved, model.JudgeContinue, model.JudgeEscalate, model.JudgeWaiting:
	default:
		return nil, fmt.Errorf("judgment parse: unknown decision %q", raw.Decision)
	}

	return &model.Judgment{Decision: decision, Reason: raw.Reason}, nil
}

// ParseSummary parses a {"title","summary","attempted_solutions"} response.
func ParseSummary(content string) (*model.TicketSummary, error) {
	if err := checkLen(content); err != nil {
		return nil, err
	}

	var raw model.TicketSummary
	if err := json.Unmarshal([]byte(StripCodeFence(content)), &raw); err != nil {
		return nil, fmt.Errorf("summary parse: %w (content: %s)", err, safeSnippet(content))
	}
	if strings.TrimSpace(raw.Title) == "" {
		return nil, fmt.Errorf("summary parse: empty title")
	}
	if raw.AttemptedSolutions == nil {
		raw.AttemptedSolutions = []string{}
	}
	return &raw, nil
}

// --- helpers ---

func checkLen(content string) error {
	if len(content) > maxContentLen {
		return fmt.Errorf("content too large: %d bytes", len(content))
	}
	return nil
}

func safeSnippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrSnippet {
		return s
	}
	return s[:maxErrSnippet]
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
