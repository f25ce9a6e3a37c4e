package stt

import (
	"encoding/json"
	"testing"

	listenv1 "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest/interfaces"
)

func listenResponse(t *testing.T, raw string) *listenv1.PreRecordedResponse {
	t.Helper()
	var res listenv1.PreRecordedResponse
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		t.Fatal(err)
	}
	return &res
}

func TestTranscriptOf(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			"primary transcript",
			`{"results":{"channels":[{"alternatives":[{"transcript":"I build services in Go."}]}]}}`,
			"I build services in Go.", false,
		},
		{"missing results", `{}`, "", true},
		{"missing channels", `{"results":{"channels":[]}}`, "", true},
		{"missing alternatives", `{"results":{"channels":[{"alternatives":[]}]}}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := transcriptOf(listenResponse(t, tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("transcriptOf() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("transcriptOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTranscriptOfNilResponse(t *testing.T) {
	if _, err := transcriptOf(nil); err == nil {
		t.Error("expected error on nil response")
	}
}

func TestNewDeepgramDefaults(t *testing.T) {
	d := NewDeepgram("dg-key", "", "")
	if d.model != "nova-2" {
		t.Errorf("default model = %q, want nova-2", d.model)
	}
	if d.api == nil {
		t.Fatal("listen client not initialized")
	}

	custom := NewDeepgram("dg-key", "", "nova-3")
	if custom.model != "nova-3" {
		t.Errorf("model = %q, want nova-3", custom.model)
	}
}
