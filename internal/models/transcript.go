package models

import (
	"time"

	"github.com/google/uuid"
)

// Sentence is a sentence-level slice of a transcript with timing info.
type Sentence struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Transcript is a stored transcription result.
type Transcript struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *string    `json:"user_id,omitempty"`
	Source    string     `json:"source"` // "upload" | "youtube" | "pdf"
	Title     string     `json:"title"`
	Text      string     `json:"transcript"`
	Sentences []Sentence `json:"sentences,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type TranscriptionResponse struct {
	Success       bool       `json:"success"`
	Filename      string     `json:"filename"`
	Transcription string     `json:"transcription"`
	Sentences     []Sentence `json:"sentences"`
	TranscriptID  *uuid.UUID `json:"transcript_id,omitempty"`
}

type YouTubeRequest struct {
	YouTubeURL string `json:"youtube_url"`
}

type YouTubeTranscriptionResponse struct {
	Success       bool   `json:"success"`
	VideoTitle    string `json:"video_title"`
	Transcription string `json:"transcription"`
}
