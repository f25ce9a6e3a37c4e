package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepmate/prepmate/internal/orchestrator"
	"github.com/prepmate/prepmate/internal/providers/scriptgen"
	"github.com/prepmate/prepmate/internal/providers/stt"
	"github.com/prepmate/prepmate/internal/providers/tts"
	"github.com/prepmate/prepmate/internal/storage"
	"github.com/prepmate/prepmate/internal/utils"
)

// InterviewHandler exposes the session-local API. The three stateless
// endpoints (start-interview, user-response, ai-response) call the gateways
// directly; the stateful ones go through the orchestrator.
type InterviewHandler struct {
	orch     *orchestrator.Orchestrator
	gen      scriptgen.Generator
	tts      tts.Synthesizer
	stt      stt.Recognizer
	uploader storage.Uploader
}

func NewInterviewHandler(orch *orchestrator.Orchestrator, gen scriptgen.Generator, synth tts.Synthesizer, rec stt.Recognizer, uploader storage.Uploader) *InterviewHandler {
	return &InterviewHandler{orch: orch, gen: gen, tts: synth, stt: rec, uploader: uploader}
}

type createInterviewRequest struct {
	JobDescription string `json:"jobDescription"`
	CandidateName  string `json:"candidateName"`
	InterviewID    string `json:"interviewId"`
}

type createInterviewResponse struct {
	Success          bool   `json:"success"`
	Interview        string `json:"interview"`
	InterviewURL     string `json:"interviewUrl"`
	InterviewOutline string `json:"interviewOutline"`
}

func (h *InterviewHandler) CreateInterview(c *gin.Context) {
	const op = "InterviewHandler.CreateInterview"

	var req createInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}
	if req.JobDescription == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "job description is required", nil))
		return
	}
	if req.InterviewID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "interview id is required", nil))
		return
	}

	sess, outline, err := h.orch.CreateSession(c.Request.Context(), req.InterviewID, req.JobDescription, req.CandidateName)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, createInterviewResponse{
		Success:          true,
		Interview:        sess.Script,
		InterviewURL:     sess.ScriptURL,
		InterviewOutline: outline,
	})
}

type startInterviewRequest struct {
	Text string `json:"text"`
}

type audioResponse struct {
	Success  bool   `json:"success"`
	AudioURL string `json:"audioUrl"`
	MimeType string `json:"mimeType"`
}

// StartInterview narrates the introduction (the synthesizer keeps only the
// first two paragraphs) and stores the audio.
func (h *InterviewHandler) StartInterview(c *gin.Context) {
	const op = "InterviewHandler.StartInterview"

	var req startInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}
	if req.Text == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "text is required", nil))
		return
	}

	audioURL, mimeType, err := h.synthesizeAndStore(c, op, req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, audioResponse{Success: true, AudioURL: audioURL, MimeType: mimeType})
}

type userResponseRequest struct {
	AudioURL string `json:"audioUrl"`
}

type userResponseResponse struct {
	Success       bool   `json:"success"`
	Transcription string `json:"transcription"`
	AudioURL      string `json:"audioUrl"`
}

func (h *InterviewHandler) UserResponse(c *gin.Context) {
	const op = "InterviewHandler.UserResponse"

	var req userResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}
	if req.AudioURL == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "audio url is required", nil))
		return
	}

	transcription, err := h.stt.Transcribe(c.Request.Context(), req.AudioURL)
	if err != nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "failed to transcribe audio", err))
		return
	}

	c.JSON(http.StatusOK, userResponseResponse{Success: true, Transcription: transcription, AudioURL: req.AudioURL})
}

type aiResponseRequest struct {
	Transcription       string `json:"transcription"`
	ParsedInterviewData string `json:"parsedInterviewData"`
}

type aiResponseResponse struct {
	Success           bool     `json:"success"`
	NextQuestion      string   `json:"nextQuestion"`
	Feedback          string   `json:"feedback,omitempty"`
	CompletionStatus  int      `json:"completionStatus"`
	FollowUpQuestions []string `json:"followUpQuestions,omitempty"`
	AudioURL          string   `json:"audioUrl"`
	MimeType          string   `json:"mimeType"`
}

// AIResponse generates the next turn from the transcript and the outline,
// then narrates the question. A model response without nextQuestion fails
// the turn; it is never defaulted.
func (h *InterviewHandler) AIResponse(c *gin.Context) {
	const op = "InterviewHandler.AIResponse"

	var req aiResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}
	if req.ParsedInterviewData == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "interview outline is required", nil))
		return
	}

	result, err := h.gen.GenerateTurn(c.Request.Context(), req.Transcription, req.ParsedInterviewData)
	if err != nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "failed to run interview", err))
		return
	}

	audioURL, mimeType, err := h.synthesizeAndStore(c, op, result.NextQuestion)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, aiResponseResponse{
		Success:           true,
		NextQuestion:      result.NextQuestion,
		Feedback:          result.Feedback,
		CompletionStatus:  result.CompletionStatus,
		FollowUpQuestions: result.FollowUpQuestions,
		AudioURL:          audioURL,
		MimeType:          mimeType,
	})
}

func (h *InterviewHandler) synthesizeAndStore(c *gin.Context, op, text string) (string, string, error) {
	narration, err := h.tts.Synthesize(c.Request.Context(), text)
	if err != nil {
		return "", "", utils.E(utils.CodeUnavailable, op, "failed to generate text-to-speech", err)
	}

	audioURL, err := h.uploader.Upload(c.Request.Context(), storage.IntroKey(), narration.MimeType, bytes.NewReader(narration.Bytes))
	if err != nil {
		return "", "", utils.E(utils.CodeUnavailable, op, "failed to store audio", err)
	}
	return audioURL, narration.MimeType, nil
}

// UploadResume accepts the multipart resume for one interview.
func (h *InterviewHandler) UploadResume(c *gin.Context) {
	const op = "InterviewHandler.UploadResume"

	interviewID := c.Param("interview_id")
	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing multipart field 'file'", err))
		return
	}
	if fh.Size <= 0 || fh.Size > 10<<20 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file too large (max 10MB)", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
		return
	}
	defer file.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	sess, err := h.orch.AttachResume(c.Request.Context(), interviewID, fh.Filename, contentType, file)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "resumeUrl": sess.ResumeURL})
}

// GetInterview returns session state for the summary view.
func (h *InterviewHandler) GetInterview(c *gin.Context) {
	sess, err := h.orch.Get(c.Request.Context(), c.Param("interview_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "interview": sess})
}

// EndInterview terminates the session from any state.
func (h *InterviewHandler) EndInterview(c *gin.Context) {
	sess, err := h.orch.EndSession(c.Request.Context(), c.Param("interview_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "interview": sess})
}
