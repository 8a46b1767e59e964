package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
)

const chunkSize = 500

// ScoredChunk is a transcript chunk with its similarity to a query.
type ScoredChunk struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// EmbeddingService chunks transcripts and ranks chunks against a query.
// With a HuggingFace API key it uses sentence embeddings and cosine
// similarity; without one it degrades to lexical word overlap so the search
// endpoint still returns useful results.
type EmbeddingService struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewEmbeddingService(apiKey, model string) *EmbeddingService {
	return &EmbeddingService{
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *EmbeddingService) Configured() bool {
	return s.apiKey != ""
}

// CreateChunks splits text into ~chunkSize-character pieces on word
// boundaries. Words longer than the chunk size become their own chunk.
func CreateChunks(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var current strings.Builder
	for _, w := range words {
		if current.Len() > 0 && current.Len()+1+len(w) > chunkSize {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(w)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// Embed returns one embedding vector per input text.
func (s *EmbeddingService) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("HuggingFace API key is not configured")
	}

	payload, err := json.Marshal(map[string]interface{}{
		"inputs":  texts,
		"options": map[string]bool{"wait_for_model": true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode embedding request: %w", err)
	}

	endpoint := "https://api-inference.huggingface.co/pipeline/feature-extraction/" + s.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build embedding request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("HuggingFace returned %d: %s", resp.StatusCode, body)
	}

	var vectors [][]float64
	if err := json.NewDecoder(resp.Body).Decode(&vectors); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(vectors))
	}
	return vectors, nil
}

// SearchChunks ranks the transcript chunks against the query and returns the
// topK best matches in descending score order.
func (s *EmbeddingService) SearchChunks(ctx context.Context, query string, chunks []string, topK int) ([]ScoredChunk, error) {
	if len(chunks) == 0 {
		return nil, nil
	}
	if topK <= 0 || topK > len(chunks) {
		topK = len(chunks)
	}

	var scored []ScoredChunk
	if s.Configured() {
		inputs := append([]string{query}, chunks...)
		vectors, err := s.Embed(ctx, inputs)
		if err != nil {
			return nil, err
		}
		queryVec := vectors[0]
		scored = make([]ScoredChunk, len(chunks))
		for i, chunk := range chunks {
			scored[i] = ScoredChunk{Text: chunk, Score: cosineSimilarity(queryVec, vectors[i+1])}
		}
	} else {
		scored = make([]ScoredChunk, len(chunks))
		for i, chunk := range chunks {
			scored[i] = ScoredChunk{Text: chunk, Score: lexicalOverlap(query, chunk)}
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	return scored[:topK], nil
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0
	}
	return floats.Dot(a, b) / (normA * normB)
}

// lexicalOverlap is the fraction of distinct query words that appear in the
// chunk.
func lexicalOverlap(query, chunk string) float64 {
	queryWords := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(query)) {
		queryWords[w] = true
	}
	if len(queryWords) == 0 {
		return 0
	}

	chunkWords := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(chunk)) {
		chunkWords[w] = true
	}

	matches := 0
	for w := range queryWords {
		if chunkWords[w] {
			matches++
		}
	}
	return float64(matches) / float64(len(queryWords))
}
