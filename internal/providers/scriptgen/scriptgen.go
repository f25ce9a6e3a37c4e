package scriptgen

import "context"

// Generator produces interview content from a structured instruction plus
// the evolving conversation context.
type Generator interface {
	// GenerateScript returns the full multi-section interview script as raw
	// text. An upstream failure or empty completion is a fatal setup error
	// for the caller.
	GenerateScript(ctx context.Context, jobDescription, candidateName string) (string, error)

	// GenerateTurn returns the next question plus feedback for the latest
	// candidate response. The completion must be a single JSON object; a
	// non-JSON body or a missing nextQuestion field fails the turn, it is
	// never silently defaulted.
	GenerateTurn(ctx context.Context, transcript, outline string) (*TurnResult, error)

	Close() error
}

// TurnResult is the parsed next-turn payload. NextQuestion is intentionally
// a bare question string: it is fed straight to speech synthesis, so any
// surrounding structure would corrupt the narration.
type TurnResult struct {
	NextQuestion      string   `json:"nextQuestion"`
	Feedback          string   `json:"feedback,omitempty"`
	CompletionStatus  int      `json:"completionStatus"`
	FollowUpQuestions []string `json:"followUpQuestions,omitempty"`
}
