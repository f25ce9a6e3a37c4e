package stt

import "context"

// Recognizer transcribes a previously uploaded recording by URL reference.
type Recognizer interface {
	Transcribe(ctx context.Context, audioURL string) (text string, err error)
	Close() error
}
