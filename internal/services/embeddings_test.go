package services

import (
	"context"
	"math"
	"strings"
	"testing"
)

func TestCreateChunks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"single word", "hello", 1},
		{"fits in one chunk", strings.Repeat("word ", 50), 1},
		{"splits into multiple", strings.Repeat("word ", 300), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := CreateChunks(tt.text)
			if len(chunks) != tt.want {
				t.Errorf("CreateChunks produced %d chunks, want %d", len(chunks), tt.want)
			}
			for i, c := range chunks {
				if len(c) > chunkSize {
					t.Errorf("Chunk %d is %d chars, exceeds limit %d", i, len(c), chunkSize)
				}
			}
		})
	}
}

func TestCreateChunks_PreservesAllWords(t *testing.T) {
	text := strings.Repeat("alpha beta gamma ", 100)
	chunks := CreateChunks(text)

	rejoined := strings.Fields(strings.Join(chunks, " "))
	original := strings.Fields(text)
	if len(rejoined) != len(original) {
		t.Errorf("Chunking lost words: %d vs %d", len(rejoined), len(original))
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0},
		{"length mismatch", []float64{1}, []float64{1, 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearchChunks_LexicalFallback(t *testing.T) {
	svc := NewEmbeddingService("", "any-model")
	chunks := []string{
		"photosynthesis converts light into chemical energy",
		"the mitochondria is the powerhouse of the cell",
		"light reactions happen in the thylakoid membrane",
	}

	results, err := svc.SearchChunks(context.Background(), "light energy", chunks, 2)
	if err != nil {
		t.Fatalf("SearchChunks failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if !strings.Contains(results[0].Text, "light") {
		t.Errorf("Best match should mention the query terms, got %q", results[0].Text)
	}
	if results[0].Score < results[1].Score {
		t.Error("Results must be in descending score order")
	}
}

func TestSearchChunks_EmptyInput(t *testing.T) {
	svc := NewEmbeddingService("", "any-model")

	results, err := svc.SearchChunks(context.Background(), "query", nil, 3)
	if err != nil {
		t.Fatalf("SearchChunks failed: %v", err)
	}
	if results != nil {
		t.Errorf("Expected no results for empty chunks, got %v", results)
	}
}

func TestLexicalOverlap(t *testing.T) {
	if got := lexicalOverlap("light energy", "light converts energy"); got != 1 {
		t.Errorf("Full overlap should score 1, got %v", got)
	}
	if got := lexicalOverlap("light energy", "nothing relevant"); got != 0 {
		t.Errorf("No overlap should score 0, got %v", got)
	}
	if got := lexicalOverlap("", "anything"); got != 0 {
		t.Errorf("Empty query should score 0, got %v", got)
	}
}
