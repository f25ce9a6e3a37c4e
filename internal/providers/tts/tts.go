package tts

import "context"

// Audio is one synthesized narration.
type Audio struct {
	Bytes    []byte
	MimeType string
}

// Synthesizer renders text to speech. Implementations narrate at most the
// first two paragraphs of the input: only the introduction is meant to be
// spoken up front, later questions are synthesized turn by turn.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*Audio, error)
	Close() error
}
