package services

import (
	"strings"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"short url", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"embed url", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"shorts url", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", false},
		{"bare id", "dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"garbage", "https://example.com/nothing", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q, got id %q", tt.url, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractVideoID(%q) failed: %v", tt.url, err)
			}
			if got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestExtractCaptionURL(t *testing.T) {
	pageHTML := `{"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[{"baseUrl":"https:\/\/www.youtube.com\/api\/timedtext?v=abc&lang=en","name":{"simpleText":"English"}}],"audioTracks":[]}},"next":"x"}`

	got, err := extractCaptionURL(pageHTML)
	if err != nil {
		t.Fatalf("extractCaptionURL failed: %v", err)
	}
	if !strings.Contains(got, "timedtext?v=abc&lang=en") {
		t.Errorf("Escapes not decoded in caption URL: %q", got)
	}
}

func TestExtractCaptionURL_NoCaptions(t *testing.T) {
	if _, err := extractCaptionURL("<html><body>no captions here</body></html>"); err == nil {
		t.Error("Expected error for a page without caption tracks")
	}
}
