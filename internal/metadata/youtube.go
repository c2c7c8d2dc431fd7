package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kkdai/youtube/v2"
)

// VideoFetcher получает описание ролика YouTube
type VideoFetcher interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
}

// NewYouTubeClient клиент YouTube поверх переданного http.Client
func NewYouTubeClient(httpClient *http.Client) *youtube.Client {
	return &youtube.Client{HTTPClient: httpClient}
}

var youtubeHosts = []string{"youtube.com", "youtu.be", "youtube-nocookie.com"}

// IsYouTubeURL проверяет, что ссылка ведет на ролик YouTube.
// Ссылки plugin://plugin.video.youtube/play/?video_id=... тоже считаются роликами.
func IsYouTubeURL(source string) bool {
	_, ok := youtubeID(source)
	return ok
}

func youtubeID(source string) (string, bool) {
	u, err := url.Parse(source)
	if err != nil {
		return "", false
	}

	if u.Scheme == "plugin" && u.Host == "plugin.video.youtube" {
		id := u.Query().Get("video_id")
		return id, id != ""
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	for _, h := range youtubeHosts {
		if host == h {
			id, err := youtube.ExtractVideoID(source)
			return id, err == nil
		}
	}
	return "", false
}

func (e *Extractor) youtubeTag(ctx context.Context, source string) (VideoInfoTag, error) {
	id, _ := youtubeID(source)

	video, err := e.youtube.GetVideoContext(ctx, id)
	if err != nil {
		return VideoInfoTag{}, fmt.Errorf("ошибка получения информации о видео: %w", err)
	}

	result := VideoInfoTag{
		File:      source,
		Title:     video.Title,
		Director:  video.Author,
		Plot:      video.Description,
		Duration:  video.Duration,
		Votes:     video.Views,
		Premiered: video.PublishDate,
	}
	if n := len(video.Thumbnails); n > 0 {
		result.Thumbnail = video.Thumbnails[n-1].URL
	}
	return result, nil
}
