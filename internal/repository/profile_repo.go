package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"tutormind-backend/internal/models"
)

const (
	profileKeyPrefix   = "student_profile:"
	knowledgeKeyPrefix = "knowledge_state:"
)

// ProfileRepo persists learning-style profiles and knowledge states as JSON
// values in Redis, one key per student.
type ProfileRepo struct {
	client *redis.Client
}

func NewProfileRepo(client *redis.Client) *ProfileRepo {
	return &ProfileRepo{client: client}
}

// GetProfile returns (nil, nil) when the student has no stored profile.
func (r *ProfileRepo) GetProfile(ctx context.Context, userID string) (*models.LearningStyleProfile, error) {
	raw, err := r.client.Get(ctx, profileKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile for %s: %w", userID, err)
	}

	var p models.LearningStyleProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("stored profile for %s is corrupt: %w", userID, err)
	}
	return &p, nil
}

func (r *ProfileRepo) SetProfile(ctx context.Context, userID string, p *models.LearningStyleProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := r.client.Set(ctx, profileKeyPrefix+userID, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store profile for %s: %w", userID, err)
	}
	return nil
}

// GetKnowledgeState returns (nil, nil) when no state is stored.
func (r *ProfileRepo) GetKnowledgeState(ctx context.Context, userID string) (*models.KnowledgeState, error) {
	raw, err := r.client.Get(ctx, knowledgeKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge state for %s: %w", userID, err)
	}

	var ks models.KnowledgeState
	if err := json.Unmarshal([]byte(raw), &ks); err != nil {
		return nil, fmt.Errorf("stored knowledge state for %s is corrupt: %w", userID, err)
	}
	return &ks, nil
}

func (r *ProfileRepo) SetKnowledgeState(ctx context.Context, userID string, ks *models.KnowledgeState) error {
	data, err := json.Marshal(ks)
	if err != nil {
		return fmt.Errorf("failed to encode knowledge state: %w", err)
	}
	if err := r.client.Set(ctx, knowledgeKeyPrefix+userID, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store knowledge state for %s: %w", userID, err)
	}
	return nil
}
