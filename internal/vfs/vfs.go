// Package vfs реализует xbmcvfs поверх локального диска, HTTP и S3
package vfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/hazadus/go-sake/internal/logger"
	"github.com/hazadus/go-sake/internal/s3"
)

// Режимы открытия файла
const (
	ModeRead   = "r"
	ModeWrite  = "w"
	ModeAppend = "a"
)

var (
	// ErrReadOnly запись в хранилище только для чтения
	ErrReadOnly = errors.New("хранилище доступно только для чтения")
	// ErrUnsupported операция не поддерживается хранилищем
	ErrUnsupported = errors.New("операция не поддерживается")
	// ErrNoS3 путь s3:// без настроенного хранилища
	ErrNoS3 = errors.New("хранилище S3 не настроено")
	// ErrInvalidMode неизвестный режим открытия
	ErrInvalidMode = errors.New("режим открытия должен быть 'r', 'w' или 'a'")
)

// File открытый файл
type File interface {
	io.ReadWriteSeeker
	io.Closer
	// Size размер файла в байтах
	Size() (int64, error)
	// Tell текущая позиция
	Tell() (int64, error)
}

// Stat сведения о файле или каталоге
type Stat struct {
	Size    int64
	Mode    fs.FileMode
	ModTime time.Time
	IsDir   bool
}

// Backend хранилище одной схемы путей
type Backend interface {
	Open(ctx context.Context, path, mode string) (File, error)
	Stat(ctx context.Context, path string) (Stat, error)
	Exists(ctx context.Context, path string) (bool, error)
	Delete(ctx context.Context, path string) error
	Rename(ctx context.Context, from, to string) error
	ListDir(ctx context.Context, path string) (dirs, files []string, err error)
	Mkdir(ctx context.Context, path string, parents bool) error
	Rmdir(ctx context.Context, path string) error
}

// Options настройки файловой системы
type Options struct {
	// Translate переводит special:// пути в локальные
	Translate  func(string) string
	HTTPClient *http.Client
	S3         *s3.Store
	Logger     *logger.Logger
}

// FS выбирает хранилище по схеме пути
type FS struct {
	translate func(string) string
	local     Backend
	http      Backend
	s3        Backend
	log       *logger.Logger
}

// New создает файловую систему
func New(opts Options) *FS {
	translate := opts.Translate
	if translate == nil {
		translate = func(p string) string { return p }
	}
	log := opts.Logger
	if log == nil {
		log = logger.Global()
	}

	f := &FS{
		translate: translate,
		local:     localBackend{},
		http:      newHTTPBackend(opts.HTTPClient),
		log:       log.With("component", "vfs"),
	}
	if opts.S3 != nil {
		f.s3 = newS3Backend(opts.S3)
	}
	return f
}

// Scheme схема пути: local, http или s3
func Scheme(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return "http"
	case strings.HasPrefix(lower, "s3://"):
		return "s3"
	default:
		return "local"
	}
}

func (f *FS) resolve(path string) (Backend, string, error) {
	switch Scheme(path) {
	case "http":
		return f.http, path, nil
	case "s3":
		if f.s3 == nil {
			return nil, "", fmt.Errorf("%s: %w", path, ErrNoS3)
		}
		return f.s3, path, nil
	default:
		return f.local, filepath.FromSlash(f.translate(path)), nil
	}
}

// Open открывает файл в режиме r, w или a
func (f *FS) Open(ctx context.Context, path, mode string) (File, error) {
	if mode == "" {
		mode = ModeRead
	}
	if mode != ModeRead && mode != ModeWrite && mode != ModeAppend {
		return nil, fmt.Errorf("%s: %w", mode, ErrInvalidMode)
	}

	b, p, err := f.resolve(path)
	if err != nil {
		return nil, err
	}
	f.log.Debug("открытие файла", "path", p, "mode", mode)
	return b.Open(ctx, p, mode)
}

// ReadFile читает файл целиком
func (f *FS) ReadFile(ctx context.Context, path string) ([]byte, error) {
	file, err := f.Open(ctx, path, ModeRead)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения %s: %w", path, err)
	}
	return data, nil
}

// Stat сведения о файле
func (f *FS) Stat(ctx context.Context, path string) (Stat, error) {
	b, p, err := f.resolve(path)
	if err != nil {
		return Stat{}, err
	}
	return b.Stat(ctx, p)
}

// Exists проверяет существование файла или каталога
func (f *FS) Exists(ctx context.Context, path string) (bool, error) {
	b, p, err := f.resolve(path)
	if err != nil {
		return false, err
	}
	return b.Exists(ctx, p)
}

// Delete удаляет файл
func (f *FS) Delete(ctx context.Context, path string) error {
	b, p, err := f.resolve(path)
	if err != nil {
		return err
	}
	return b.Delete(ctx, p)
}

// Rename переименовывает файл. Между разными хранилищами выполняется копирование с удалением
func (f *FS) Rename(ctx context.Context, from, to string) error {
	src, sp, err := f.resolve(from)
	if err != nil {
		return err
	}
	dst, dp, err := f.resolve(to)
	if err != nil {
		return err
	}

	if src == dst {
		return src.Rename(ctx, sp, dp)
	}
	if err := f.Copy(ctx, from, to, nil); err != nil {
		return err
	}
	return src.Delete(ctx, sp)
}

// Copy копирует файл. progress получает количество скопированных байт и может быть nil
func (f *FS) Copy(ctx context.Context, from, to string, progress func(done, total int64)) error {
	src, sp, err := f.resolve(from)
	if err != nil {
		return err
	}
	dst, dp, err := f.resolve(to)
	if err != nil {
		return err
	}

	if sb, ok := src.(*s3Backend); ok && src == dst && progress == nil {
		return sb.copy(ctx, sp, dp)
	}

	in, err := src.Open(ctx, sp, ModeRead)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := dst.Open(ctx, dp, ModeWrite)
	if err != nil {
		return err
	}

	total, _ := in.Size()
	reader := &ProgressReader{Reader: in, Size: total}
	if progress != nil {
		reader.OnProgress = func(done int64) { progress(done, total) }
	}

	if _, err := io.Copy(out, reader); err != nil {
		out.Close()
		return fmt.Errorf("ошибка копирования %s в %s: %w", from, to, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("ошибка записи %s: %w", to, err)
	}
	f.log.Debug("файл скопирован", "from", from, "to", to, "size", FormatFileSize(reader.BytesRead()))
	return nil
}

// ListDir возвращает подкаталоги и файлы. Отсутствующий каталог дает пустые списки
func (f *FS) ListDir(ctx context.Context, path string) (dirs, files []string, err error) {
	b, p, err := f.resolve(path)
	if err != nil {
		return nil, nil, err
	}
	return b.ListDir(ctx, p)
}

// Mkdir создает каталог
func (f *FS) Mkdir(ctx context.Context, path string) error {
	b, p, err := f.resolve(path)
	if err != nil {
		return err
	}
	return b.Mkdir(ctx, p, false)
}

// Mkdirs создает каталог вместе с родительскими
func (f *FS) Mkdirs(ctx context.Context, path string) error {
	b, p, err := f.resolve(path)
	if err != nil {
		return err
	}
	return b.Mkdir(ctx, p, true)
}

// Rmdir удаляет пустой каталог
func (f *FS) Rmdir(ctx context.Context, path string) error {
	b, p, err := f.resolve(path)
	if err != nil {
		return err
	}
	return b.Rmdir(ctx, p)
}

// TranslatePath переводит special:// путь в локальный
func (f *FS) TranslatePath(path string) string {
	return f.translate(path)
}

// MakeLegalFilename нормализует путь. URL возвращаются без изменений
func MakeLegalFilename(path string) string {
	if Scheme(path) != "local" || strings.Contains(path, "://") {
		return path
	}
	return filepath.Clean(path)
}

// ValidatePath нормализует путь
func ValidatePath(path string) string {
	return MakeLegalFilename(path)
}
