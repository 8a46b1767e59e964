package profile

import (
	"context"

	"tutormind-backend/internal/models"
)

// Store persists learning profiles keyed by user id. Implementations return
// (nil, nil) when no profile exists for the user. Concurrent chats from the
// same user can race on the read-modify-write cycle; last writer wins.
type Store interface {
	GetProfile(ctx context.Context, userID string) (*models.LearningStyleProfile, error)
	SetProfile(ctx context.Context, userID string, p *models.LearningStyleProfile) error
	GetKnowledgeState(ctx context.Context, userID string) (*models.KnowledgeState, error)
	SetKnowledgeState(ctx context.Context, userID string, ks *models.KnowledgeState) error
}
