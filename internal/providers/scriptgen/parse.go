package scriptgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrMalformedResponse   = errors.New("malformed model response")
	ErrMissingNextQuestion = errors.New("model response missing nextQuestion")
	ErrEmptyCompletion     = errors.New("empty completion")
)

type turnPayload struct {
	NextQuestion      string          `json:"nextQuestion"`
	Feedback          string          `json:"feedback"`
	CompletionStatus  json.RawMessage `json:"completionStatus"`
	FollowUpQuestions []string        `json:"followUpQuestions"`
}

// ParseTurnResult validates a raw completion into a TurnResult. Models wrap
// JSON in code fences often enough that we strip them before decoding.
func ParseTurnResult(raw string) (*TurnResult, error) {
	raw = stripFences(raw)
	if raw == "" {
		return nil, ErrEmptyCompletion
	}

	var payload turnPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if strings.TrimSpace(payload.NextQuestion) == "" {
		return nil, ErrMissingNextQuestion
	}

	return &TurnResult{
		NextQuestion:      strings.TrimSpace(payload.NextQuestion),
		Feedback:          payload.Feedback,
		CompletionStatus:  parseCompletion(payload.CompletionStatus),
		FollowUpQuestions: payload.FollowUpQuestions,
	}, nil
}

// parseCompletion tolerates the number arriving as 40, 40.0 or "40"; the
// prompt asks for a number but models routinely quote it.
func parseCompletion(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return clampPercent(int(n))
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSuffix(strings.TrimSpace(s), "%")
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return clampPercent(int(v))
		}
	}
	return 0
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
