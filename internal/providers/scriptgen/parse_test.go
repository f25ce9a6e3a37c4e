package scriptgen

import (
	"errors"
	"testing"
)

func TestParseTurnResult(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want TurnResult
	}{
		{
			name: "plain object",
			raw:  `{"nextQuestion":"Why Go?","feedback":"Good depth.","completionStatus":40,"followUpQuestions":["What about generics?"]}`,
			want: TurnResult{NextQuestion: "Why Go?", Feedback: "Good depth.", CompletionStatus: 40, FollowUpQuestions: []string{"What about generics?"}},
		},
		{
			name: "code fences with language tag",
			raw:  "```json\n{\"nextQuestion\":\"Why Go?\",\"completionStatus\":10}\n```",
			want: TurnResult{NextQuestion: "Why Go?", CompletionStatus: 10},
		},
		{
			name: "quoted completion status",
			raw:  `{"nextQuestion":"Why Go?","completionStatus":"55"}`,
			want: TurnResult{NextQuestion: "Why Go?", CompletionStatus: 55},
		},
		{
			name: "percent-suffixed completion status",
			raw:  `{"nextQuestion":"Why Go?","completionStatus":"70%"}`,
			want: TurnResult{NextQuestion: "Why Go?", CompletionStatus: 70},
		},
		{
			name: "float completion status",
			raw:  `{"nextQuestion":"Why Go?","completionStatus":33.7}`,
			want: TurnResult{NextQuestion: "Why Go?", CompletionStatus: 33},
		},
		{
			name: "completion status above range clamps",
			raw:  `{"nextQuestion":"Why Go?","completionStatus":250}`,
			want: TurnResult{NextQuestion: "Why Go?", CompletionStatus: 100},
		},
		{
			name: "negative completion status clamps",
			raw:  `{"nextQuestion":"Why Go?","completionStatus":-5}`,
			want: TurnResult{NextQuestion: "Why Go?", CompletionStatus: 0},
		},
		{
			name: "garbage completion status defaults to zero",
			raw:  `{"nextQuestion":"Why Go?","completionStatus":"soonish"}`,
			want: TurnResult{NextQuestion: "Why Go?", CompletionStatus: 0},
		},
		{
			name: "missing completion status",
			raw:  `{"nextQuestion":"Why Go?"}`,
			want: TurnResult{NextQuestion: "Why Go?"},
		},
		{
			name: "whitespace around next question trimmed",
			raw:  `{"nextQuestion":"  Why Go?  ","completionStatus":5}`,
			want: TurnResult{NextQuestion: "Why Go?", CompletionStatus: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTurnResult(tt.raw)
			if err != nil {
				t.Fatal(err)
			}
			if got.NextQuestion != tt.want.NextQuestion {
				t.Errorf("NextQuestion = %q, want %q", got.NextQuestion, tt.want.NextQuestion)
			}
			if got.Feedback != tt.want.Feedback {
				t.Errorf("Feedback = %q, want %q", got.Feedback, tt.want.Feedback)
			}
			if got.CompletionStatus != tt.want.CompletionStatus {
				t.Errorf("CompletionStatus = %d, want %d", got.CompletionStatus, tt.want.CompletionStatus)
			}
			if len(got.FollowUpQuestions) != len(tt.want.FollowUpQuestions) {
				t.Errorf("FollowUpQuestions = %v, want %v", got.FollowUpQuestions, tt.want.FollowUpQuestions)
			}
		})
	}
}

func TestParseTurnResultErrors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"empty", "", ErrEmptyCompletion},
		{"fences only", "```\n```", ErrEmptyCompletion},
		{"not json", "I think the next question should be...", ErrMalformedResponse},
		{"missing nextQuestion", `{"feedback":"ok","completionStatus":10}`, ErrMissingNextQuestion},
		{"blank nextQuestion", `{"nextQuestion":"   "}`, ErrMissingNextQuestion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTurnResult(tt.raw)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateScript(t *testing.T) {
	valid := "Hello, I'm Alex, a technical interviewer. " + PhraseRecordPrompt + ".\n\n" +
		"We will walk through a few questions. " + PhraseOpener + "."

	tests := []struct {
		name    string
		script  string
		wantErr bool
	}{
		{"valid two-paragraph intro", valid, false},
		{"opener without trailing period", "Intro with " + PhraseRecordPrompt + "\n\n" + PhraseOpener, false},
		{"case-insensitive record prompt", "ensure you CLICK the record button to respond\n\n" + PhraseOpener + ".", false},
		{"single paragraph", "Hello. " + PhraseRecordPrompt + ". " + PhraseOpener + ".", true},
		{"missing record prompt", "Hello there.\n\n" + PhraseOpener + ".", true},
		{"second paragraph does not end with opener", "Intro " + PhraseRecordPrompt + "\n\nLet us begin with your background.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScript(tt.script)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateScript() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
