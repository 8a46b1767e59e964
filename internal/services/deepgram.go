package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"tutormind-backend/internal/models"
)

const deepgramListenURL = "https://api.deepgram.com/v1/listen?model=nova-2&smart_format=true&punctuate=true&paragraphs=true"

// DeepgramService transcribes audio files through Deepgram's pre-recorded
// API. Without an API key Transcribe returns a fixed mock transcript so the
// upload pipeline keeps working in development.
type DeepgramService struct {
	apiKey     string
	httpClient *http.Client
}

func NewDeepgramService(apiKey string) *DeepgramService {
	return &DeepgramService{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

func (s *DeepgramService) Configured() bool {
	return s.apiKey != ""
}

type deepgramResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
				Paragraphs struct {
					Paragraphs []struct {
						Sentences []struct {
							Text  string  `json:"text"`
							Start float64 `json:"start"`
							End   float64 `json:"end"`
						} `json:"sentences"`
					} `json:"paragraphs"`
				} `json:"paragraphs"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Transcribe sends the audio file at path to Deepgram and returns the full
// transcript plus sentence-level timings.
func (s *DeepgramService) Transcribe(ctx context.Context, path, mimeType string) (string, []models.Sentence, error) {
	if !s.Configured() {
		return mockTranscript, mockSentences(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, deepgramListenURL, f)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build Deepgram request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+s.apiKey)
	if mimeType != "" {
		req.Header.Set("Content-Type", mimeType)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("Deepgram request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", nil, fmt.Errorf("Deepgram returned %d: %s", resp.StatusCode, body)
	}

	var parsed deepgramResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", nil, fmt.Errorf("failed to decode Deepgram response: %w", err)
	}

	if len(parsed.Results.Channels) == 0 || len(parsed.Results.Channels[0].Alternatives) == 0 {
		return "", nil, fmt.Errorf("Deepgram returned no transcription results")
	}

	alt := parsed.Results.Channels[0].Alternatives[0]
	var sentences []models.Sentence
	for _, p := range alt.Paragraphs.Paragraphs {
		for _, sent := range p.Sentences {
			sentences = append(sentences, models.Sentence{Text: sent.Text, Start: sent.Start, End: sent.End})
		}
	}

	return alt.Transcript, sentences, nil
}

const mockTranscript = "This is a mock transcription. The Deepgram API key is not configured, so the audio was not actually processed. Configure DEEPGRAM_API_KEY to enable real transcription."

func mockSentences() []models.Sentence {
	return []models.Sentence{
		{Text: "This is a mock transcription.", Start: 0, End: 2.5},
		{Text: "The Deepgram API key is not configured, so the audio was not actually processed.", Start: 2.5, End: 7},
		{Text: "Configure DEEPGRAM_API_KEY to enable real transcription.", Start: 7, End: 10},
	}
}
