// Package session holds interview session state in an ephemeral store.
// There is deliberately no durable database behind it: state expires with
// the store's TTL, and everything worth keeping (script, recordings) lives
// in object storage.
package session

import (
	"context"

	"github.com/prepmate/prepmate/internal/models"
)

type Store interface {
	Load(ctx context.Context, interviewID string) (*models.InterviewSession, error)
	Save(ctx context.Context, s *models.InterviewSession) error
	Delete(ctx context.Context, interviewID string) error
}
