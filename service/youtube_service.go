package service

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SaiVinayBathoju/SaiV/utils"
)

// minTranscriptChars rejects transcripts too short to index meaningfully.
const minTranscriptChars = 50

var (
	ErrInvalidYouTubeURL = errors.New("could not extract a video ID from the URL")
	ErrNoTranscript      = errors.New("no transcript available for this video (captions may be disabled)")
)

// TranscriptFetcher retrieves the raw caption text for a video ID.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

// YouTubeService turns a video URL into a normalized transcript document.
type YouTubeService struct {
	fetcher TranscriptFetcher
}

func NewYouTubeService(fetcher TranscriptFetcher) *YouTubeService {
	return &YouTubeService{fetcher: fetcher}
}

// FetchTranscript resolves the URL to a video ID, pulls its captions and
// returns the cleaned transcript text along with the video ID.
func (s *YouTubeService) FetchTranscript(ctx context.Context, videoURL string) (videoID, transcript string, err error) {
	videoID, err = ExtractVideoID(videoURL)
	if err != nil {
		return "", "", err
	}

	raw, err := s.fetcher.Fetch(ctx, videoID)
	if err != nil {
		return "", "", fmt.Errorf("fetch transcript for %s: %w", videoID, err)
	}

	cleaned := utils.CleanText(utils.StripCaptionMarkup(raw))
	if len(cleaned) < minTranscriptChars {
		return "", "", ErrNoTranscript
	}
	return videoID, cleaned, nil
}

// ExtractVideoID pulls the 11-character video ID out of the common YouTube
// URL shapes: watch?v=, youtu.be/, /embed/ and /v/.
func ExtractVideoID(videoURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(videoURL))
	if err != nil {
		return "", ErrInvalidYouTubeURL
	}

	if v := u.Query().Get("v"); v != "" {
		return trimVideoID(v)
	}

	path := u.Path
	for _, prefix := range []string{"/embed/", "/v/"} {
		if rest, ok := strings.CutPrefix(path, prefix); ok {
			return trimVideoID(rest)
		}
	}
	if strings.Contains(u.Host, "youtu.be") {
		return trimVideoID(strings.TrimPrefix(path, "/"))
	}
	return "", ErrInvalidYouTubeURL
}

func trimVideoID(id string) (string, error) {
	if i := strings.IndexAny(id, "/?&#"); i >= 0 {
		id = id[:i]
	}
	if id == "" {
		return "", ErrInvalidYouTubeURL
	}
	return id, nil
}

// TimedTextFetcher pulls captions from YouTube's timedtext endpoint, trying
// each configured language until one returns a transcript.
type TimedTextFetcher struct {
	client    *http.Client
	languages []string
}

func NewTimedTextFetcher() *TimedTextFetcher {
	return &TimedTextFetcher{
		client:    &http.Client{Timeout: 15 * time.Second},
		languages: []string{"en", "en-US", "en-GB"},
	}
}

type timedTextDocument struct {
	Texts []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

func (f *TimedTextFetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	for _, lang := range f.languages {
		transcript, err := f.fetchLanguage(ctx, videoID, lang)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			continue
		}
		if transcript != "" {
			return transcript, nil
		}
	}
	return "", ErrNoTranscript
}

func (f *TimedTextFetcher) fetchLanguage(ctx context.Context, videoID, lang string) (string, error) {
	endpoint := fmt.Sprintf("https://www.youtube.com/api/timedtext?lang=%s&v=%s",
		url.QueryEscape(lang), url.QueryEscape(videoID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("timedtext returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", err
	}

	var doc timedTextDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", err
	}

	var lines []string
	for _, t := range doc.Texts {
		line := strings.TrimSpace(html.UnescapeString(t.Value))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, " "), nil
}
