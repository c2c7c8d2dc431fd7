package metadata

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kkdai/youtube/v2"
)

type mockFetcher struct {
	video *youtube.Video
	err   error
	ids   []string
}

func (m *mockFetcher) GetVideoContext(_ context.Context, id string) (*youtube.Video, error) {
	m.ids = append(m.ids, id)
	if m.err != nil {
		return nil, m.err
	}
	return m.video, nil
}

func TestIsYouTubeURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", true},
		{"https://m.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"plugin://plugin.video.youtube/play/?video_id=dQw4w9WgXcQ", true},
		{"plugin://plugin.video.youtube/play/", false},
		{"https://example.com/watch?v=dQw4w9WgXcQ", false},
		{"/tmp/f.mov", false},
	}

	for _, tt := range tests {
		if got := IsYouTubeURL(tt.url); got != tt.want {
			t.Errorf("IsYouTubeURL(%q) = %v, ожидалось %v", tt.url, got, tt.want)
		}
	}
}

func TestVideoTagYouTube(t *testing.T) {
	fetcher := &mockFetcher{video: &youtube.Video{
		Title:       "Never Gonna Give You Up",
		Author:      "Rick Astley",
		Description: "Official video",
		Duration:    213 * time.Second,
		Views:       42,
		Thumbnails: youtube.Thumbnails{
			{URL: "https://i.ytimg.com/small.jpg"},
			{URL: "https://i.ytimg.com/large.jpg"},
		},
	}}
	extractor := NewExtractor(fetcher)

	tag, err := extractor.VideoTag(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}

	if len(fetcher.ids) != 1 || fetcher.ids[0] != "dQw4w9WgXcQ" {
		t.Errorf("Запрошены неожиданные ID: %v", fetcher.ids)
	}
	if tag.Title != "Never Gonna Give You Up" || tag.Director != "Rick Astley" {
		t.Errorf("Неожиданный тег: %+v", tag)
	}
	if tag.Duration != 213*time.Second || tag.Votes != 42 {
		t.Errorf("Неожиданная длительность или просмотры: %+v", tag)
	}
	if tag.Thumbnail != "https://i.ytimg.com/large.jpg" {
		t.Errorf("Ожидалась самая большая миниатюра, получено: %s", tag.Thumbnail)
	}
}

func TestVideoTagYouTubeError(t *testing.T) {
	extractor := NewExtractor(&mockFetcher{err: errors.New("network down")})

	_, err := extractor.VideoTag(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err == nil {
		t.Fatal("Ожидалась ошибка")
	}
	if !strings.Contains(err.Error(), "ошибка получения информации о видео") {
		t.Errorf("Неожиданное сообщение об ошибке: %v", err)
	}
}
