// Package orchestrator sequences one mock interview: script generation,
// intro narration, countdown, candidate recording, transcription and
// next-question generation, turn by turn until the call ends.
package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prepmate/prepmate/internal/audio"
	"github.com/prepmate/prepmate/internal/models"
	"github.com/prepmate/prepmate/internal/providers/scriptgen"
	"github.com/prepmate/prepmate/internal/providers/stt"
	"github.com/prepmate/prepmate/internal/providers/tts"
	"github.com/prepmate/prepmate/internal/session"
	"github.com/prepmate/prepmate/internal/storage"
	"github.com/prepmate/prepmate/internal/utils"
)

// CountdownStart is the number of ticks between device check and the first
// turn.
const CountdownStart = 10

const levelInterval = 250 * time.Millisecond

type Config struct {
	Store       session.Store
	Generator   scriptgen.Generator
	Synthesizer tts.Synthesizer
	Recognizer  stt.Recognizer
	Uploader    storage.Uploader
	Fetcher     storage.Fetcher
	Events      Publisher
	Logger      *logrus.Logger
	SampleRate  int
}

// Orchestrator owns the per-session state machine. Session state itself is
// serializable and lives in the Store; recorders, level meters and device
// tracks are runtime-only and die with the process.
type Orchestrator struct {
	store      session.Store
	gen        scriptgen.Generator
	tts        tts.Synthesizer
	stt        stt.Recognizer
	uploader   storage.Uploader
	fetcher    storage.Fetcher
	events     Publisher
	log        *logrus.Logger
	sampleRate int

	mu     sync.Mutex
	active map[string]*activeSession
}

// activeSession holds the runtime side of one interview. Its mutex
// serializes orchestrator operations on the session: gateway calls within a
// turn are sequential by design, never overlapped.
type activeSession struct {
	mu        sync.Mutex
	rec       *audio.Recorder
	meter     *audio.LevelMeter
	tracks    []Track
	countdown int
}

func New(cfg Config) *Orchestrator {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Events == nil {
		cfg.Events = NopPublisher{}
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = audio.DefaultSampleRate
	}
	return &Orchestrator{
		store:      cfg.Store,
		gen:        cfg.Generator,
		tts:        cfg.Synthesizer,
		stt:        cfg.Recognizer,
		uploader:   cfg.Uploader,
		fetcher:    cfg.Fetcher,
		events:     cfg.Events,
		log:        cfg.Logger,
		sampleRate: cfg.SampleRate,
		active:     make(map[string]*activeSession),
	}
}

func (o *Orchestrator) runtime(interviewID string) *activeSession {
	o.mu.Lock()
	defer o.mu.Unlock()
	rt, ok := o.active[interviewID]
	if !ok {
		rt = &activeSession{}
		o.active[interviewID] = rt
	}
	return rt
}

func (o *Orchestrator) dropRuntime(interviewID string) {
	o.mu.Lock()
	delete(o.active, interviewID)
	o.mu.Unlock()
}

func (o *Orchestrator) emit(ctx context.Context, ev Event) {
	if err := o.events.Publish(ctx, ev.InterviewID, ev); err != nil {
		o.log.WithError(err).WithField("interview_id", ev.InterviewID).Warn("event publish failed")
	}
}

// CreateSession generates the interview script, stores it and moves the
// session to ScriptGenerated. On any failure the session stays in
// SetupPending and the candidate can simply resubmit. Returns the session
// and the outline read back from storage.
func (o *Orchestrator) CreateSession(ctx context.Context, interviewID, jobDescription, candidateName string) (*models.InterviewSession, string, error) {
	const op = "Orchestrator.CreateSession"

	if interviewID == "" || jobDescription == "" {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "interview_id and job_description are required", nil)
	}

	if existing, err := o.store.Load(ctx, interviewID); err == nil && existing.State != models.StateSetupPending {
		return nil, "", utils.E(utils.CodeConflict, op, "interview already exists", nil)
	} else if err != nil && !errors.Is(err, utils.ErrNotFound) {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to check existing session", err)
	}

	script, err := o.gen.GenerateScript(ctx, jobDescription, candidateName)
	if err != nil {
		return nil, "", utils.E(utils.CodeUnavailable, op, "failed to generate interview script", err)
	}

	scriptURL, err := o.uploader.Upload(ctx, storage.ScriptKey(interviewID), "text/plain", strings.NewReader(script))
	if err != nil {
		return nil, "", utils.E(utils.CodeUnavailable, op, "failed to store interview script", err)
	}

	outline, err := o.fetcher.Fetch(ctx, scriptURL)
	if err != nil {
		return nil, "", utils.E(utils.CodeUnavailable, op, "failed to read back interview script", err)
	}

	sess := &models.InterviewSession{
		InterviewID:    interviewID,
		JobDescription: jobDescription,
		CandidateName:  candidateName,
		Script:         script,
		ScriptURL:      scriptURL,
		State:          models.StateScriptGenerated,
		CreatedAt:      time.Now().UTC(),
	}
	if err := o.store.Save(ctx, sess); err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to save session", err)
	}

	o.emit(ctx, Event{Type: EventState, InterviewID: interviewID, State: sess.State})
	return sess, string(outline), nil
}

// AttachResume uploads the candidate's resume and records its URL.
func (o *Orchestrator) AttachResume(ctx context.Context, interviewID, fileName, contentType string, r io.Reader) (*models.InterviewSession, error) {
	const op = "Orchestrator.AttachResume"

	sess, err := o.load(ctx, op, interviewID)
	if err != nil {
		return nil, err
	}
	if sess.Ended() {
		return nil, utils.E(utils.CodeConflict, op, "session has ended", nil)
	}

	url, err := o.uploader.Upload(ctx, storage.ResumeKey(interviewID, fileName), contentType, r)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload resume", err)
	}

	sess.ResumeURL = url
	if err := o.store.Save(ctx, sess); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save session", err)
	}
	return sess, nil
}

// ConfirmDevices gates entry into the countdown on camera + microphone
// acquisition. Device failure is reported per device and blocks. On success
// the intro narration is synthesized and stored; if that fails the session
// proceeds without narration rather than blocking the candidate.
func (o *Orchestrator) ConfirmDevices(ctx context.Context, interviewID string, cameraOK, micOK bool, tracks ...Track) (*models.InterviewSession, error) {
	const op = "Orchestrator.ConfirmDevices"

	rt := o.runtime(interviewID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	sess, err := o.load(ctx, op, interviewID)
	if err != nil {
		return nil, err
	}
	if sess.State != models.StateScriptGenerated && sess.State != models.StateAwaitingDeviceOK {
		return nil, utils.E(utils.CodeConflict, op, fmt.Sprintf("device check not expected in state %s", sess.State), nil)
	}

	if !cameraOK || !micOK {
		sess.State = models.StateAwaitingDeviceOK
		if err := o.store.Save(ctx, sess); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to save session", err)
		}
		o.emit(ctx, Event{Type: EventState, InterviewID: interviewID, State: sess.State})
		devErr := &DeviceError{Camera: !cameraOK, Microphone: !micOK}
		return nil, utils.E(utils.CodeInvalidArgument, op, devErr.Error(), devErr)
	}

	rt.tracks = append(rt.tracks, tracks...)

	if narration, synthErr := o.tts.Synthesize(ctx, sess.Script); synthErr != nil {
		o.log.WithError(synthErr).WithField("interview_id", interviewID).Warn("intro narration unavailable")
	} else {
		introURL, upErr := o.uploader.Upload(ctx, storage.IntroKey(), narration.MimeType, bytes.NewReader(narration.Bytes))
		if upErr != nil {
			o.log.WithError(upErr).WithField("interview_id", interviewID).Warn("intro narration upload failed")
		} else {
			sess.IntroAudioURL = introURL
		}
	}

	sess.State = models.StateCountdown
	rt.countdown = CountdownStart
	if err := o.store.Save(ctx, sess); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save session", err)
	}

	o.emit(ctx, Event{Type: EventCountdown, InterviewID: interviewID, State: sess.State, Countdown: rt.countdown})
	return sess, nil
}

// TickCountdown advances the countdown by one tick. On expiry the first
// turn opens with the introduction narration.
func (o *Orchestrator) TickCountdown(ctx context.Context, interviewID string) (int, error) {
	const op = "Orchestrator.TickCountdown"

	rt := o.runtime(interviewID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	sess, err := o.load(ctx, op, interviewID)
	if err != nil {
		return 0, err
	}
	if sess.State != models.StateCountdown {
		return 0, utils.E(utils.CodeConflict, op, fmt.Sprintf("countdown not active in state %s", sess.State), nil)
	}

	rt.countdown--
	if rt.countdown > 0 {
		o.emit(ctx, Event{Type: EventCountdown, InterviewID: interviewID, State: sess.State, Countdown: rt.countdown})
		return rt.countdown, nil
	}

	turn := models.Turn{
		Index:            0,
		Question:         scriptgen.PhraseOpener,
		QuestionAudioURL: sess.IntroAudioURL,
		CreatedAt:        time.Now().UTC(),
	}
	sess.Turns = append(sess.Turns, turn)
	sess.CurrentTurn = 0
	sess.State = models.StateTurnInProgress
	if err := o.store.Save(ctx, sess); err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to save session", err)
	}

	o.emit(ctx, Event{
		Type:        EventTurn,
		InterviewID: interviewID,
		State:       sess.State,
		TurnIndex:   0,
		Question:    turn.Question,
		AudioURL:    turn.QuestionAudioURL,
	})
	return 0, nil
}

// StartAnswer begins recording the candidate's answer. This is the unmute
// action: the microphone track comes on and samples start accumulating.
func (o *Orchestrator) StartAnswer(ctx context.Context, interviewID string) error {
	const op = "Orchestrator.StartAnswer"

	rt := o.runtime(interviewID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	sess, err := o.load(ctx, op, interviewID)
	if err != nil {
		return err
	}
	if sess.State != models.StateTurnInProgress {
		return utils.E(utils.CodeConflict, op, fmt.Sprintf("no turn in progress in state %s", sess.State), nil)
	}

	if rt.rec == nil {
		rt.rec = audio.NewRecorder(o.sampleRate, o.uploader)
	}
	if err := rt.rec.Start(); err != nil {
		return utils.E(utils.CodeInvalidArgument, op, err.Error(), err)
	}

	for _, t := range rt.tracks {
		if t.Kind() == "audio" {
			t.SetEnabled(true)
		}
	}

	if rt.meter == nil {
		rt.meter = audio.NewLevelMeter()
	}
	id := interviewID
	if err := rt.meter.Start(context.Background(), levelInterval, func(level float64, speaking bool) {
		o.emit(context.Background(), Event{Type: EventLevel, InterviewID: id, Level: level, Speaking: speaking})
	}); err != nil {
		o.log.WithError(err).WithField("interview_id", interviewID).Warn("level meter not started")
	}

	o.emit(ctx, Event{Type: EventRecordingStarted, InterviewID: interviewID, State: sess.State, TurnIndex: sess.CurrentTurn})
	return nil
}

// PushAudio feeds one sample frame from the live stream into the active
// recording. Hot path: no session load, only the runtime handle.
func (o *Orchestrator) PushAudio(interviewID string, frame []float32) error {
	const op = "Orchestrator.PushAudio"

	rt := o.runtime(interviewID)
	rt.mu.Lock()
	rec, meter := rt.rec, rt.meter
	rt.mu.Unlock()

	if rec == nil {
		return utils.E(utils.CodeInvalidArgument, op, audio.ErrNotRecording.Error(), audio.ErrNotRecording)
	}
	if err := rec.Push(frame); err != nil {
		return utils.E(utils.CodeInvalidArgument, op, err.Error(), err)
	}
	if meter != nil {
		meter.Observe(frame)
	}
	return nil
}

// PauseAnswer and ResumeAnswer toggle sample accumulation without
// detaching the recording.
func (o *Orchestrator) PauseAnswer(interviewID string) error {
	return o.recorderOp("Orchestrator.PauseAnswer", interviewID, (*audio.Recorder).Pause)
}

func (o *Orchestrator) ResumeAnswer(interviewID string) error {
	return o.recorderOp("Orchestrator.ResumeAnswer", interviewID, (*audio.Recorder).Resume)
}

func (o *Orchestrator) recorderOp(op, interviewID string, f func(*audio.Recorder) error) error {
	rt := o.runtime(interviewID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.rec == nil {
		return utils.E(utils.CodeInvalidArgument, op, audio.ErrNotRecording.Error(), audio.ErrNotRecording)
	}
	if err := f(rt.rec); err != nil {
		return utils.E(utils.CodeInvalidArgument, op, err.Error(), err)
	}
	return nil
}

// FinishAnswer is the mute action: stop recording, encode and store the
// WAV, transcribe it, and complete the turn. A transcription failure
// degrades to an empty transcript; the conversation continues.
func (o *Orchestrator) FinishAnswer(ctx context.Context, interviewID string) (*models.InterviewSession, error) {
	const op = "Orchestrator.FinishAnswer"

	rt := o.runtime(interviewID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	sess, err := o.load(ctx, op, interviewID)
	if err != nil {
		return nil, err
	}
	if sess.State != models.StateTurnInProgress {
		return nil, utils.E(utils.CodeConflict, op, fmt.Sprintf("no turn in progress in state %s", sess.State), nil)
	}
	if rt.rec == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, audio.ErrNotRecording.Error(), audio.ErrNotRecording)
	}

	for _, t := range rt.tracks {
		if t.Kind() == "audio" {
			t.SetEnabled(false)
		}
	}
	if rt.meter != nil {
		rt.meter.Stop()
	}

	rec := rt.rec
	rt.rec = nil // the capture buffer dies here, success or not

	answerURL, err := rec.StopAndUpload(ctx)
	if err != nil {
		if errors.Is(err, audio.ErrNotRecording) {
			return nil, utils.E(utils.CodeInvalidArgument, op, err.Error(), err)
		}
		return nil, utils.E(utils.CodeUnavailable, op, "failed to store recording", err)
	}

	transcript, terr := o.stt.Transcribe(ctx, answerURL)
	if terr != nil {
		o.log.WithError(terr).WithField("interview_id", interviewID).Error("transcription failed, continuing with empty transcript")
		transcript = ""
	}

	turn := sess.CurrentTurnRef()
	if turn == nil {
		return nil, utils.E(utils.CodeInternal, op, "no current turn", nil)
	}
	if turn.AnswerAudioURL != "" {
		// an answer URL is never overwritten: a re-recording gets its own turn
		next := models.Turn{
			Index:     len(sess.Turns),
			Question:  turn.Question,
			CreatedAt: time.Now().UTC(),
		}
		sess.Turns = append(sess.Turns, next)
		sess.CurrentTurn = next.Index
		turn = sess.CurrentTurnRef()
	}
	turn.AnswerAudioURL = answerURL
	turn.Transcript = transcript

	sess.State = models.StateTurnComplete
	if err := o.store.Save(ctx, sess); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save session", err)
	}

	o.emit(ctx, Event{
		Type:        EventTurnComplete,
		InterviewID: interviewID,
		State:       sess.State,
		TurnIndex:   sess.CurrentTurn,
		AudioURL:    answerURL,
		Transcript:  transcript,
	})
	return sess, nil
}

// NextTurn asks the generator for the next question from the accumulated
// transcript and the original outline, narrates it, and opens the next
// turn. Generation and synthesis failures block here and are retryable;
// state is not advanced.
func (o *Orchestrator) NextTurn(ctx context.Context, interviewID string) (*models.InterviewSession, error) {
	const op = "Orchestrator.NextTurn"

	rt := o.runtime(interviewID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	sess, err := o.load(ctx, op, interviewID)
	if err != nil {
		return nil, err
	}
	if sess.State != models.StateTurnComplete {
		return nil, utils.E(utils.CodeConflict, op, fmt.Sprintf("turn not complete in state %s", sess.State), nil)
	}

	result, err := o.gen.GenerateTurn(ctx, buildTranscript(sess), sess.Script)
	if err != nil {
		if errors.Is(err, scriptgen.ErrMalformedResponse) || errors.Is(err, scriptgen.ErrMissingNextQuestion) {
			return nil, utils.E(utils.CodeInternal, op, "invalid model response", err)
		}
		return nil, utils.E(utils.CodeUnavailable, op, "failed to generate next question", err)
	}

	narration, err := o.tts.Synthesize(ctx, result.NextQuestion)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to synthesize question audio", err)
	}
	questionURL, err := o.uploader.Upload(ctx, storage.IntroKey(), narration.MimeType, bytes.NewReader(narration.Bytes))
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to store question audio", err)
	}

	if result.CompletionStatus > sess.Completion {
		sess.Completion = result.CompletionStatus
	}

	turn := models.Turn{
		Index:             len(sess.Turns),
		Question:          result.NextQuestion,
		QuestionAudioURL:  questionURL,
		Feedback:          result.Feedback,
		FollowUpQuestions: result.FollowUpQuestions,
		CreatedAt:         time.Now().UTC(),
	}
	sess.Turns = append(sess.Turns, turn)
	sess.CurrentTurn = turn.Index
	sess.State = models.StateTurnInProgress
	if err := o.store.Save(ctx, sess); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save session", err)
	}

	o.emit(ctx, Event{
		Type:        EventTurn,
		InterviewID: interviewID,
		State:       sess.State,
		TurnIndex:   turn.Index,
		Question:    turn.Question,
		AudioURL:    turn.QuestionAudioURL,
		Completion:  sess.Completion,
	})
	return sess, nil
}

// EndSession terminates the interview from any state: every registered
// media track is stopped, the active recording (if any) is discarded, and
// in-flight work against this session is abandoned.
func (o *Orchestrator) EndSession(ctx context.Context, interviewID string) (*models.InterviewSession, error) {
	const op = "Orchestrator.EndSession"

	rt := o.runtime(interviewID)
	rt.mu.Lock()
	if rt.meter != nil {
		rt.meter.Stop()
	}
	if rt.rec != nil && rt.rec.Recording() {
		_, _ = rt.rec.Stop()
	}
	rt.rec = nil
	for _, t := range rt.tracks {
		t.Stop()
	}
	rt.tracks = nil
	rt.mu.Unlock()
	o.dropRuntime(interviewID)

	sess, err := o.load(ctx, op, interviewID)
	if err != nil {
		return nil, err
	}
	if sess.Ended() {
		return sess, nil
	}

	now := time.Now().UTC()
	sess.State = models.StateSessionEnded
	sess.EndedAt = &now
	if err := o.store.Save(ctx, sess); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save session", err)
	}

	o.emit(ctx, Event{Type: EventState, InterviewID: interviewID, State: sess.State, Completion: sess.Completion})
	return sess, nil
}

// Get returns the session for the summary view.
func (o *Orchestrator) Get(ctx context.Context, interviewID string) (*models.InterviewSession, error) {
	return o.load(ctx, "Orchestrator.Get", interviewID)
}

func (o *Orchestrator) load(ctx context.Context, op, interviewID string) (*models.InterviewSession, error) {
	if interviewID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "interview_id is required", nil)
	}
	sess, err := o.store.Load(ctx, interviewID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load session", err)
	}
	return sess, nil
}

func buildTranscript(sess *models.InterviewSession) string {
	var sb strings.Builder
	for _, t := range sess.Turns {
		if t.Question != "" {
			sb.WriteString("Interviewer: ")
			sb.WriteString(t.Question)
			sb.WriteString("\n")
		}
		if t.Transcript != "" {
			sb.WriteString("Candidate: ")
			sb.WriteString(t.Transcript)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}
