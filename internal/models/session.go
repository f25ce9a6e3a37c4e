package models

import "time"

// State is the single enumerated session state. One value replaces the
// isRecording/isMuted/timerStarted flag soup a UI would otherwise keep.
type State string

const (
	StateSetupPending     State = "setup_pending"
	StateScriptGenerated  State = "script_generated"
	StateAwaitingDeviceOK State = "awaiting_device_check"
	StateCountdown        State = "countdown"
	StateTurnInProgress   State = "turn_in_progress"
	StateTurnComplete     State = "turn_complete"
	StateSessionEnded     State = "session_ended"
)

// InterviewSession is the full per-interview record. It lives in an
// ephemeral TTL'd store, never in a durable database; the script and all
// audio artifacts live in object storage.
type InterviewSession struct {
	InterviewID    string `json:"interview_id"` // opaque, caller-generated
	JobDescription string `json:"job_description"`
	CandidateName  string `json:"candidate_name"`
	ResumeURL      string `json:"resume_url,omitempty"`

	Script        string `json:"script,omitempty"`     // full generated interview script
	ScriptURL     string `json:"script_url,omitempty"` // storage URL of the script (the outline)
	IntroAudioURL string `json:"intro_audio_url,omitempty"`

	State       State  `json:"state"`
	CurrentTurn int    `json:"current_turn"`
	Completion  int    `json:"completion"` // 0-100, monotonically non-decreasing
	Turns       []Turn `json:"turns"`

	CreatedAt time.Time  `json:"created_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// Turn is one question/answer exchange. Once both the question and the
// transcribed answer are recorded the turn is immutable; in particular
// AnswerAudioURL is set exactly once and a fresh recording creates a new turn.
type Turn struct {
	Index             int      `json:"index"`
	Question          string   `json:"question"`
	QuestionAudioURL  string   `json:"question_audio_url,omitempty"`
	AnswerAudioURL    string   `json:"answer_audio_url,omitempty"`
	Transcript        string   `json:"transcript"`
	Feedback          string   `json:"feedback,omitempty"`
	FollowUpQuestions []string `json:"follow_up_questions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// CurrentTurnRef returns a pointer into Turns for the active turn, or nil.
func (s *InterviewSession) CurrentTurnRef() *Turn {
	if s.CurrentTurn < 0 || s.CurrentTurn >= len(s.Turns) {
		return nil
	}
	return &s.Turns[s.CurrentTurn]
}

// Ended reports whether the session reached its terminal state.
func (s *InterviewSession) Ended() bool { return s.State == StateSessionEnded }
