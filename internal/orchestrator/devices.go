package orchestrator

import "strings"

// Track is one live media device track registered by the session view.
// The orchestrator only toggles and stops tracks; acquisition stays with
// the presentation layer.
type Track interface {
	Kind() string // "audio" or "video"
	Enabled() bool
	SetEnabled(enabled bool)
	Stop()
}

// DeviceError reports device-check failure per device. Both devices are
// required before the countdown can start.
type DeviceError struct {
	Camera     bool // true means the camera failed
	Microphone bool
}

func (e *DeviceError) Error() string {
	var failed []string
	if e.Camera {
		failed = append(failed, "camera")
	}
	if e.Microphone {
		failed = append(failed, "microphone")
	}
	if len(failed) == 0 {
		return "device check failed"
	}
	return "device check failed: " + strings.Join(failed, ", ")
}
