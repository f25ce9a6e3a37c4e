package scriptgen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// capturedChat mirrors the chat completions request body on the wire.
type capturedChat struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Temperature    float64 `json:"temperature"`
	MaxTokens      int     `json:"max_tokens"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

func completionJSON(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	})
	return string(b)
}

func validScript() string {
	return "Hello, I'm Alex, a technical interviewer. " + PhraseRecordPrompt + ".\n\n" +
		"We will cover a few technical and behavioral questions. " + PhraseOpener + "."
}

func TestGroqGenerateScript(t *testing.T) {
	var gotReq capturedChat
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatal(err)
		}
		fmt.Fprint(w, completionJSON(validScript()))
	}))
	defer srv.Close()

	g := NewGroq("test-key", srv.URL, "mixtral-8x7b-32768")
	script, err := g.GenerateScript(context.Background(), "Senior Go engineer", "Jordan")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(script, PhraseRecordPrompt) {
		t.Error("script missing record prompt")
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotReq.Model != "mixtral-8x7b-32768" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if gotReq.Temperature != scriptTemperature || gotReq.MaxTokens != scriptMaxTokens {
		t.Errorf("sampling = (%v, %d), want (%v, %d)", gotReq.Temperature, gotReq.MaxTokens, scriptTemperature, scriptMaxTokens)
	}
	if gotReq.ResponseFormat != nil {
		t.Error("script generation should not force json_object")
	}
	if len(gotReq.Messages) != 1 || !strings.Contains(gotReq.Messages[0].Content, "Senior Go engineer") {
		t.Error("prompt does not carry the job description")
	}
	if !strings.Contains(gotReq.Messages[0].Content, "Jordan") {
		t.Error("prompt does not carry the candidate name")
	}
}

func TestGroqGenerateScriptRejectsUnstructured(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionJSON("Welcome to the interview. Let's begin."))
	}))
	defer srv.Close()

	g := NewGroq("k", srv.URL, "")
	if _, err := g.GenerateScript(context.Background(), "job", ""); err == nil {
		t.Fatal("expected structural validation error")
	}
}

func TestGroqGenerateTurn(t *testing.T) {
	var gotReq capturedChat

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatal(err)
		}
		fmt.Fprint(w, completionJSON(`{"nextQuestion":"How do you test concurrent code?","feedback":"Clear answer.","completionStatus":30,"followUpQuestions":["What is a race detector?"]}`))
	}))
	defer srv.Close()

	g := NewGroq("k", srv.URL, "")
	res, err := g.GenerateTurn(context.Background(), "Interviewer: Tell me about yourself\nCandidate: I build services in Go.", "outline text")
	if err != nil {
		t.Fatal(err)
	}

	if res.NextQuestion != "How do you test concurrent code?" {
		t.Errorf("NextQuestion = %q", res.NextQuestion)
	}
	if res.CompletionStatus != 30 {
		t.Errorf("CompletionStatus = %d, want 30", res.CompletionStatus)
	}
	if gotReq.ResponseFormat == nil || gotReq.ResponseFormat.Type != "json_object" {
		t.Error("turn generation must request json_object responses")
	}
	if gotReq.Temperature != turnTemperature || gotReq.MaxTokens != turnMaxTokens {
		t.Errorf("sampling = (%v, %d), want (%v, %d)", gotReq.Temperature, gotReq.MaxTokens, turnTemperature, turnMaxTokens)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Fatalf("messages = %+v", gotReq.Messages)
	}
	if !strings.Contains(gotReq.Messages[1].Content, "outline text") {
		t.Error("prompt does not carry the outline")
	}
}

func TestGroqErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited","type":"rate_limit_exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := NewGroq("k", srv.URL, "")
	if _, err := g.GenerateScript(context.Background(), "job", ""); err == nil {
		t.Fatal("expected error on non-200 status")
	} else if !strings.Contains(err.Error(), "429") {
		t.Errorf("error %v should carry the status code", err)
	}
}

func TestGroqEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	g := NewGroq("k", srv.URL, "")
	if _, err := g.GenerateTurn(context.Background(), "", "outline"); err == nil {
		t.Fatal("expected error on empty choices")
	}
}
