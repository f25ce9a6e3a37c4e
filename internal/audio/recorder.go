// Package audio turns pushed microphone sample frames into a stored,
// standard-format WAV file.
package audio

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prepmate/prepmate/internal/storage"
)

const DefaultSampleRate = 44100

// Usage errors: recording controls invoked out of sequence. Raised
// immediately, never retried, and they leave the state unchanged.
var (
	ErrAlreadyRecording = errors.New("already recording")
	ErrNotRecording     = errors.New("not currently recording")
	ErrAlreadyPaused    = errors.New("recording is already paused")
	ErrNotPaused        = errors.New("recording is not paused")
)

type recState int

const (
	stateIdle recState = iota
	stateRecording
	statePaused
)

// Recorder accumulates fixed-size mono sample frames between Start and Stop.
// Frames are kept only while recording and not paused. The buffer is
// discarded after a successful upload or on upload error; nothing is
// persisted incrementally.
type Recorder struct {
	mu         sync.Mutex
	state      recState
	frames     [][]float32
	sampleRate int
	uploader   storage.Uploader
}

func NewRecorder(sampleRate int, uploader storage.Uploader) *Recorder {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Recorder{sampleRate: sampleRate, uploader: uploader}
}

// Start transitions idle -> recording.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != stateIdle {
		return ErrAlreadyRecording
	}
	r.state = stateRecording
	r.frames = nil
	return nil
}

// Pause transitions recording -> paused.
func (r *Recorder) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case stateIdle:
		return ErrNotRecording
	case statePaused:
		return ErrAlreadyPaused
	}
	r.state = statePaused
	return nil
}

// Resume transitions paused -> recording.
func (r *Recorder) Resume() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case stateIdle:
		return ErrNotRecording
	case stateRecording:
		return ErrNotPaused
	}
	r.state = stateRecording
	return nil
}

// Push appends one sample frame. Frames arriving while paused are dropped,
// frames arriving while idle are a usage error.
func (r *Recorder) Push(frame []float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case stateIdle:
		return ErrNotRecording
	case statePaused:
		return nil
	}

	buf := make([]float32, len(frame))
	copy(buf, frame)
	r.frames = append(r.frames, buf)
	return nil
}

// Recording reports whether the recorder is between Start and Stop.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state != stateIdle
}

// Stop transitions back to idle and returns all buffered frames joined into
// one contiguous sample slice.
func (r *Recorder) Stop() ([]float32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == stateIdle {
		return nil, ErrNotRecording
	}
	r.state = stateIdle

	total := 0
	for _, f := range r.frames {
		total += len(f)
	}
	samples := make([]float32, 0, total)
	for _, f := range r.frames {
		samples = append(samples, f...)
	}
	r.frames = nil
	return samples, nil
}

// StopAndUpload stops the recording, encodes the samples as WAV, stores the
// artifact under a timestamp-qualified recording key and returns the
// retrieval URL. One upload per stop, no partial uploads.
func (r *Recorder) StopAndUpload(ctx context.Context) (string, error) {
	samples, err := r.Stop()
	if err != nil {
		return "", err
	}

	wav := EncodeWAV(samples, r.sampleRate)
	key := storage.RecordingKey(time.Now())
	return r.uploader.Upload(ctx, key, "audio/wav", bytes.NewReader(wav))
}
