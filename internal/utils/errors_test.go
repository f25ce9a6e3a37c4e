package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorChain(t *testing.T) {
	cause := errors.New("connection refused")
	err := E(CodeUnavailable, "Orchestrator.NextTurn", "failed to generate next question", cause)

	if !IsCode(err, CodeUnavailable) {
		t.Error("IsCode should match the outer code")
	}
	if IsCode(err, CodeNotFound) {
		t.Error("IsCode must not match a different code")
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped cause must survive errors.Is")
	}
	if Details(err) != "connection refused" {
		t.Errorf("Details() = %q", Details(err))
	}

	want := "Orchestrator.NextTurn: failed to generate next question: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid argument", E(CodeInvalidArgument, "op", "bad", nil), http.StatusBadRequest},
		{"unauthorized", E(CodeUnauthorized, "op", "no", nil), http.StatusUnauthorized},
		{"not found", E(CodeNotFound, "op", "gone", nil), http.StatusNotFound},
		{"conflict", E(CodeConflict, "op", "dup", nil), http.StatusConflict},
		{"unavailable", E(CodeUnavailable, "op", "down", nil), http.StatusInternalServerError},
		{"internal", E(CodeInternal, "op", "bug", nil), http.StatusInternalServerError},
		{"bare not found sentinel", fmt.Errorf("load: %w", ErrNotFound), http.StatusNotFound},
		{"unknown error", errors.New("mystery"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
