package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"tutormind-backend/internal/models"
)

type TranscriptRepo struct {
	pool *pgxpool.Pool
}

func NewTranscriptRepo(pool *pgxpool.Pool) *TranscriptRepo {
	return &TranscriptRepo{pool: pool}
}

func (r *TranscriptRepo) Create(ctx context.Context, t *models.Transcript) error {
	t.ID = uuid.New()

	sentencesJSON, err := json.Marshal(t.Sentences)
	if err != nil {
		return fmt.Errorf("failed to encode sentences: %w", err)
	}
	if t.Sentences == nil {
		sentencesJSON = []byte("[]")
	}

	query := `INSERT INTO transcripts (id, user_id, source, title, transcript_text, sentences_json)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		t.ID, t.UserID, t.Source, t.Title, t.Text, sentencesJSON,
	).Scan(&t.CreatedAt)
}

func (r *TranscriptRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Transcript, error) {
	t := &models.Transcript{}
	var sentencesJSON []byte

	query := `SELECT id, user_id, source, title, transcript_text, sentences_json, created_at
		FROM transcripts WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.Source, &t.Title, &t.Text, &sentencesJSON, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(sentencesJSON) > 0 {
		if err := json.Unmarshal(sentencesJSON, &t.Sentences); err != nil {
			return nil, fmt.Errorf("stored sentences for %s are corrupt: %w", id, err)
		}
	}
	return t, nil
}

// List returns recent transcripts, optionally filtered by user, newest first.
// Sentence payloads are omitted from listings.
func (r *TranscriptRepo) List(ctx context.Context, userID *string, limit int) ([]*models.Transcript, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `SELECT id, user_id, source, title, transcript_text, created_at
		FROM transcripts`
	args := []interface{}{}
	if userID != nil {
		query += " WHERE user_id = $1"
		args = append(args, *userID)
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d", limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transcripts []*models.Transcript
	for rows.Next() {
		t := &models.Transcript{}
		if err := rows.Scan(&t.ID, &t.UserID, &t.Source, &t.Title, &t.Text, &t.CreatedAt); err != nil {
			return nil, err
		}
		transcripts = append(transcripts, t)
	}
	return transcripts, rows.Err()
}

func (r *TranscriptRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM transcripts WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transcript %s not found", id)
	}
	return nil
}
