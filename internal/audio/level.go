package audio

import (
	"context"
	"errors"
	"sync"
	"time"
)

// SpeakingThreshold is the mean amplitude above which a frame counts as
// speech for the presentation layer's visualizer.
const SpeakingThreshold = 0.08

// LevelMeter is a bounded-rate sampling loop over recent frame amplitude.
// Observe is called from the audio path; Start runs one ticker goroutine
// that emits the latest level until Stop or context cancellation. No
// open-ended rescheduling: the loop's lifetime is the explicit handle.
type LevelMeter struct {
	mu      sync.Mutex
	level   float64
	cancel  context.CancelFunc
	running bool
}

func NewLevelMeter() *LevelMeter { return &LevelMeter{} }

// Observe records the mean absolute amplitude of one frame.
func (m *LevelMeter) Observe(frame []float32) {
	if len(frame) == 0 {
		return
	}
	var sum float64
	for _, s := range frame {
		if s < 0 {
			sum -= float64(s)
		} else {
			sum += float64(s)
		}
	}
	m.mu.Lock()
	m.level = sum / float64(len(frame))
	m.mu.Unlock()
}

// Level returns the most recently observed amplitude.
func (m *LevelMeter) Level() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

// Start begins emitting the current level at the given interval. It fails if
// the meter is already running.
func (m *LevelMeter) Start(ctx context.Context, interval time.Duration, emit func(level float64, speaking bool)) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("level meter already running")
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				lvl := m.Level()
				emit(lvl, lvl > SpeakingThreshold)
			}
		}
	}()
	return nil
}

// Stop cancels the sampling loop. Safe to call more than once.
func (m *LevelMeter) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.running = false
}
