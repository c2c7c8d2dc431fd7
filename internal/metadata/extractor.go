// Package metadata собирает информационные теги проигрываемого элемента
package metadata

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/mp3"
)

// UnknownArtist исполнитель, если его не удалось определить
const UnknownArtist = "Unknown Artist"

// MusicInfoTag музыкальный тег проигрываемого файла
type MusicInfoTag struct {
	File     string
	Title    string
	Artist   string
	Album    string
	Genre    string
	Year     int
	Track    int
	Duration time.Duration
	Comment  string
}

// VideoInfoTag видео тег проигрываемого файла
type VideoInfoTag struct {
	File      string
	Title     string
	Director  string
	Plot      string
	Duration  time.Duration
	Votes     int
	Thumbnail string
	Premiered time.Time
}

// Extractor извлекает метаданные из аудио файлов и ссылок YouTube
type Extractor struct {
	youtube VideoFetcher
}

// NewExtractor создает новый экстрактор метаданных.
// fetcher может быть nil, тогда ссылки YouTube разбираются как обычные пути.
func NewExtractor(fetcher VideoFetcher) *Extractor {
	return &Extractor{youtube: fetcher}
}

// ExtractFromReader извлекает метаданные из io.ReadSeeker
func (e *Extractor) ExtractFromReader(reader io.ReadSeeker, source string) MusicInfoTag {
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return defaultMusicTag(source)
	}

	m, err := tag.ReadFrom(reader)
	if err != nil {
		return defaultMusicTag(source)
	}

	track, _ := m.Track()
	result := MusicInfoTag{
		File:    source,
		Title:   m.Title(),
		Artist:  m.Artist(),
		Album:   m.Album(),
		Genre:   m.Genre(),
		Year:    m.Year(),
		Track:   track,
		Comment: m.Comment(),
	}
	if result.Title == "" {
		fallback := defaultMusicTag(source)
		result.Title = fallback.Title
		if result.Artist == "" {
			result.Artist = fallback.Artist
		}
	}
	return result
}

// ExtractFromFile извлекает метаданные из файла.
// Длительность заполняется, только если файл декодируется как MP3.
func (e *Extractor) ExtractFromFile(filePath string) MusicInfoTag {
	file, err := os.Open(filePath)
	if err != nil {
		return defaultMusicTag(filePath)
	}
	defer file.Close()

	result := e.ExtractFromReader(file, filePath)
	if d, err := e.GetDuration(filePath); err == nil {
		result.Duration = d
	}
	return result
}

// MusicTag тег для произвольного пути: локальные файлы читаются, для остальных разбирается имя
func (e *Extractor) MusicTag(source string) MusicInfoTag {
	if isRemote(source) {
		return defaultMusicTag(source)
	}

	tag := e.ExtractFromFile(strings.TrimPrefix(source, "file://"))
	tag.File = source
	return tag
}

// VideoTag тег видео. Для ссылок YouTube запрашивает данные ролика.
func (e *Extractor) VideoTag(ctx context.Context, source string) (VideoInfoTag, error) {
	if e.youtube != nil && IsYouTubeURL(source) {
		return e.youtubeTag(ctx, source)
	}

	m := defaultMusicTag(source)
	return VideoInfoTag{File: source, Title: m.Title}, nil
}

// GetDuration получает длительность MP3 файла
func (e *Extractor) GetDuration(filePath string) (time.Duration, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	streamer, format, err := mp3.Decode(file)
	if err != nil {
		return 0, fmt.Errorf("ошибка декодирования MP3: %w", err)
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}

func isRemote(source string) bool {
	return strings.Contains(source, "://") && !strings.HasPrefix(source, "file://")
}

// baseName имя файла без расширения; у ссылок отбрасывается query
func baseName(source string) string {
	name := filepath.Base(source)
	if isRemote(source) {
		if u, err := url.Parse(source); err == nil {
			name = path.Base(u.Path)
		}
	}
	name, _ = url.PathUnescape(name)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// defaultMusicTag метаданные по имени файла в формате "Artist - Title"
func defaultMusicTag(source string) MusicInfoTag {
	name := baseName(source)

	parts := strings.Split(name, " - ")
	if len(parts) >= 2 {
		return MusicInfoTag{
			File:   source,
			Artist: strings.TrimSpace(parts[0]),
			Title:  strings.TrimSpace(strings.Join(parts[1:], " - ")),
		}
	}

	return MusicInfoTag{
		File:   source,
		Artist: UnknownArtist,
		Title:  name,
	}
}
