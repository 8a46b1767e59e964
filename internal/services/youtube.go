package services

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	ytapi "github.com/hightemp/youtube-transcript-api-go/api"
	yt "github.com/kkdai/youtube/v2"
)

// YouTubeService resolves lecture transcripts for YouTube videos. Two
// independent paths exist: the Supadata transcript API (primary endpoint)
// and direct caption scraping (secondary endpoint). When neither yields
// captions the caller can fall back to downloading the audio track and
// running speech-to-text.
type YouTubeService struct {
	supadataKey   string
	httpClient    *http.Client
	transcriptAPI *ytapi.YouTubeTranscriptApi
	ytClient      *yt.Client
}

func NewYouTubeService(supadataKey string) *YouTubeService {
	return &YouTubeService{
		supadataKey:   supadataKey,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		transcriptAPI: ytapi.NewYouTubeTranscriptApi(),
		ytClient:      &yt.Client{},
	}
}

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=|/v/|youtu\.be/|/embed/|/shorts/)([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`^([A-Za-z0-9_-]{11})$`),
}

// ExtractVideoID pulls the 11-character video id out of the common YouTube
// URL shapes, or accepts a bare id.
func ExtractVideoID(videoURL string) (string, error) {
	trimmed := strings.TrimSpace(videoURL)
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(trimmed); len(m) > 1 {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("could not extract a video id from %q", videoURL)
}

// GetTranscriptSupadata fetches the transcript through the Supadata API.
func (s *YouTubeService) GetTranscriptSupadata(ctx context.Context, videoURL string) (string, error) {
	if s.supadataKey == "" {
		return "", fmt.Errorf("Supadata API key is not configured")
	}

	endpoint := "https://api.supadata.ai/v1/youtube/transcript?text=true&url=" + url.QueryEscape(videoURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build Supadata request: %w", err)
	}
	req.Header.Set("x-api-key", s.supadataKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("Supadata request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("Supadata returned %d: %s", resp.StatusCode, body)
	}

	var parsed struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode Supadata response: %w", err)
	}

	content := strings.TrimSpace(parsed.Content)
	if content == "" {
		return "", fmt.Errorf("Supadata returned an empty transcript")
	}
	return content, nil
}

// GetTranscriptCaptions fetches the video's caption track directly, trying
// the transcript API first and scraping the timedtext track as a fallback.
func (s *YouTubeService) GetTranscriptCaptions(videoID string) (string, error) {
	transcript, err := s.transcriptAPI.GetTranscript(videoID, []string{"en", "en-US", "en-GB"})
	if err != nil {
		// Any available language beats nothing.
		transcript, err = s.transcriptAPI.GetTranscript(videoID, nil)
		if err != nil {
			legacy, legacyErr := s.getTranscriptViaTimedText(videoID)
			if legacyErr == nil {
				return legacy, nil
			}
			return "", fmt.Errorf("no subtitles via transcript API (%v) and timedtext fallback failed (%v)", err, legacyErr)
		}
	}

	var fullText strings.Builder
	for _, entry := range transcript.Entries {
		text := strings.TrimSpace(entry.Text)
		if text == "" {
			continue
		}
		fullText.WriteString(text)
		fullText.WriteString(" ")
	}

	cleaned := strings.TrimSpace(fullText.String())
	if cleaned == "" {
		return "", fmt.Errorf("subtitle track is empty")
	}
	return cleaned, nil
}

type timedTextXML struct {
	XMLName xml.Name  `xml:"transcript"`
	Texts   []textXML `xml:"text"`
}

type textXML struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

func (s *YouTubeService) getTranscriptViaTimedText(videoID string) (string, error) {
	pageHTML, err := s.fetchWatchPage(videoID)
	if err != nil {
		return "", err
	}

	captionURL, err := extractCaptionURL(pageHTML)
	if err != nil {
		return "", err
	}

	captionResp, err := s.httpClient.Get(captionURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch captions: %w", err)
	}
	defer captionResp.Body.Close()

	captionBody, err := io.ReadAll(captionResp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read captions: %w", err)
	}

	var tt timedTextXML
	if err := xml.Unmarshal(captionBody, &tt); err != nil {
		return "", fmt.Errorf("failed to parse captions XML: %w", err)
	}

	var parts []string
	for _, t := range tt.Texts {
		text := strings.TrimSpace(html.UnescapeString(t.Text))
		if text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("captions XML empty")
	}
	return strings.Join(parts, " "), nil
}

func (s *YouTubeService) fetchWatchPage(videoID string) (string, error) {
	pageURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
	req, _ := http.NewRequest(http.MethodGet, pageURL, nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch YouTube page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read YouTube page: %w", err)
	}
	return string(body), nil
}

func extractCaptionURL(pageHTML string) (string, error) {
	re := regexp.MustCompile(`"captionTracks"\s*:\s*\[(.*?)\],\s*"`)
	matches := re.FindStringSubmatch(pageHTML)
	if len(matches) < 2 {
		re2 := regexp.MustCompile(`"playerCaptionsTracklistRenderer"\s*:\s*\{(?:.*?,)?\s*"captionTracks"\s*:\s*\[(.*?)\],\s*"`)
		matches = re2.FindStringSubmatch(pageHTML)
		if len(matches) < 2 {
			return "", fmt.Errorf("no captions available for this video")
		}
	}

	reURL := regexp.MustCompile(`"baseUrl"\s*:\s*"(.*?)"`)
	urlMatches := reURL.FindStringSubmatch(matches[1])
	if len(urlMatches) < 2 {
		return "", fmt.Errorf("caption track found but baseUrl missing")
	}

	u := urlMatches[1]
	u = strings.ReplaceAll(u, `\u0026`, "&")
	u = strings.ReplaceAll(u, `\/`, "/")
	return u, nil
}

// GetVideoTitle scrapes the watch page for the video title, used to label
// stored transcripts. Failures degrade to an empty title.
func (s *YouTubeService) GetVideoTitle(videoID string) string {
	pageHTML, err := s.fetchWatchPage(videoID)
	if err != nil {
		return ""
	}

	titleRe := regexp.MustCompile(`<title>(.*?) - YouTube</title>`)
	if m := titleRe.FindStringSubmatch(pageHTML); len(m) > 1 {
		return html.UnescapeString(m[1])
	}
	return ""
}

// DownloadAudio saves the best audio-only stream to a temp-style path and
// returns the bytes with the stream mime type. Used as the last resort when
// a video has no captions at all.
func (s *YouTubeService) DownloadAudio(videoURL string) ([]byte, string, error) {
	video, err := s.ytClient.GetVideo(videoURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch YouTube video metadata: %w", err)
	}

	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return nil, "", fmt.Errorf("no audio formats available")
	}

	best := formats[0]
	for _, f := range formats {
		if f.Bitrate > best.Bitrate {
			best = f
		}
	}

	audioStream, _, err := s.ytClient.GetStream(video, &best)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open audio stream: %w", err)
	}
	defer audioStream.Close()

	const maxAudioBytes = 100 * 1024 * 1024
	limited := io.LimitReader(audioStream, maxAudioBytes+1)
	audioBytes, err := io.ReadAll(limited)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read audio stream: %w", err)
	}
	if len(audioBytes) > maxAudioBytes {
		return nil, "", fmt.Errorf("audio stream exceeds %d MB limit", maxAudioBytes/(1024*1024))
	}

	mimeType := strings.TrimSpace(strings.Split(best.MimeType, ";")[0])
	if mimeType == "" {
		mimeType = "audio/mp4"
	}
	return audioBytes, mimeType, nil
}
