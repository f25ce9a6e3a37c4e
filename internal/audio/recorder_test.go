package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"
)

type captureUploader struct {
	key         string
	contentType string
	data        []byte
	err         error
}

func (u *captureUploader) Upload(ctx context.Context, objectName, contentType string, r io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.key = objectName
	u.contentType = contentType
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	u.data = b
	return "https://store.example.com/" + objectName, nil
}

func TestRecorderTransitions(t *testing.T) {
	tests := []struct {
		name    string
		run     func(r *Recorder) error
		wantErr error
	}{
		{"pause while idle", func(r *Recorder) error { return r.Pause() }, ErrNotRecording},
		{"resume while idle", func(r *Recorder) error { return r.Resume() }, ErrNotRecording},
		{"push while idle", func(r *Recorder) error { return r.Push([]float32{0.1}) }, ErrNotRecording},
		{"stop while idle", func(r *Recorder) error { _, err := r.Stop(); return err }, ErrNotRecording},
		{"double start", func(r *Recorder) error {
			if err := r.Start(); err != nil {
				return err
			}
			return r.Start()
		}, ErrAlreadyRecording},
		{"double pause", func(r *Recorder) error {
			if err := r.Start(); err != nil {
				return err
			}
			if err := r.Pause(); err != nil {
				return err
			}
			return r.Pause()
		}, ErrAlreadyPaused},
		{"resume without pause", func(r *Recorder) error {
			if err := r.Start(); err != nil {
				return err
			}
			return r.Resume()
		}, ErrNotPaused},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecorder(DefaultSampleRate, nil)
			if err := tt.run(r); !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecorderUsageErrorLeavesStateUnchanged(t *testing.T) {
	r := NewRecorder(DefaultSampleRate, nil)
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}
	if err := r.Resume(); !errors.Is(err, ErrNotPaused) {
		t.Fatalf("resume error = %v, want %v", err, ErrNotPaused)
	}

	// still recording after the failed resume
	if err := r.Push([]float32{0.2}); err != nil {
		t.Fatalf("push after failed resume: %v", err)
	}
	samples, err := r.Stop()
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 1 {
		t.Errorf("got %d samples, want 1", len(samples))
	}
}

func TestRecorderPauseDropsFrames(t *testing.T) {
	r := NewRecorder(DefaultSampleRate, nil)
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}

	if err := r.Push([]float32{0.1, 0.2}); err != nil {
		t.Fatal(err)
	}
	if err := r.Pause(); err != nil {
		t.Fatal(err)
	}
	if err := r.Push([]float32{0.9, 0.9}); err != nil {
		t.Fatalf("push while paused should drop silently, got %v", err)
	}
	if err := r.Resume(); err != nil {
		t.Fatal(err)
	}
	if err := r.Push([]float32{0.3}); err != nil {
		t.Fatal(err)
	}

	samples, err := r.Stop()
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{0.1, 0.2, 0.3}
	if len(samples) != len(want) {
		t.Fatalf("got %d samples, want %d", len(samples), len(want))
	}
	for i := range want {
		if samples[i] != want[i] {
			t.Errorf("sample[%d] = %v, want %v", i, samples[i], want[i])
		}
	}
}

func TestRecorderPushCopiesFrame(t *testing.T) {
	r := NewRecorder(DefaultSampleRate, nil)
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}

	frame := []float32{0.5}
	if err := r.Push(frame); err != nil {
		t.Fatal(err)
	}
	frame[0] = -1

	samples, err := r.Stop()
	if err != nil {
		t.Fatal(err)
	}
	if samples[0] != 0.5 {
		t.Errorf("recorder shares caller memory: sample = %v", samples[0])
	}
}

func TestStopAndUpload(t *testing.T) {
	up := &captureUploader{}
	r := NewRecorder(8000, up)
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}
	if err := r.Push([]float32{0, 1, -1}); err != nil {
		t.Fatal(err)
	}

	url, err := r.StopAndUpload(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(url, "https://store.example.com/recordings/interview-") {
		t.Errorf("unexpected url %q", url)
	}
	if !strings.HasSuffix(up.key, ".wav") {
		t.Errorf("key %q missing .wav suffix", up.key)
	}
	if up.contentType != "audio/wav" {
		t.Errorf("content type = %q, want audio/wav", up.contentType)
	}
	if len(up.data) != 44+3*2 {
		t.Fatalf("uploaded %d bytes, want %d", len(up.data), 44+3*2)
	}
	if got := binary.LittleEndian.Uint32(up.data[24:28]); got != 8000 {
		t.Errorf("sample rate = %d, want 8000", got)
	}

	// buffer is gone after the upload
	if r.Recording() {
		t.Error("recorder still recording after StopAndUpload")
	}
	if _, err := r.Stop(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("second stop error = %v, want %v", err, ErrNotRecording)
	}
}
