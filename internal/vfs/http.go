package vfs

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hazadus/go-sake/internal/streaming"
)

// httpBackend ресурсы HTTP, только для чтения
type httpBackend struct {
	client *http.Client
}

func newHTTPBackend(client *http.Client) *httpBackend {
	if client == nil {
		client = streaming.NewClient()
	}
	return &httpBackend{client: client}
}

type httpFile struct {
	*streaming.Reader
}

func (httpFile) Write([]byte) (int, error) { return 0, ErrReadOnly }

func (httpFile) Seek(int64, int) (int64, error) {
	return 0, fmt.Errorf("seek по HTTP: %w", ErrUnsupported)
}

func (f httpFile) Size() (int64, error) { return f.Reader.Size(), nil }

func (f httpFile) Tell() (int64, error) { return f.Reader.Offset(), nil }

func (b *httpBackend) Open(ctx context.Context, url, mode string) (File, error) {
	if mode != ModeRead {
		return nil, fmt.Errorf("%s: %w", url, ErrReadOnly)
	}
	r, err := streaming.NewReader(ctx, b.client, url, streaming.DefaultBufferSize)
	if err != nil {
		return nil, err
	}
	return httpFile{r}, nil
}

func (b *httpBackend) Stat(ctx context.Context, url string) (Stat, error) {
	info, err := streaming.Head(ctx, b.client, url)
	if err != nil {
		return Stat{}, err
	}
	return Stat{Size: info.Size, ModTime: info.LastModified, Mode: 0o444, IsDir: strings.HasSuffix(url, "/")}, nil
}

func (b *httpBackend) Exists(ctx context.Context, url string) (bool, error) {
	return streaming.Exists(ctx, b.client, url)
}

func (b *httpBackend) Delete(_ context.Context, url string) error {
	return fmt.Errorf("%s: %w", url, ErrReadOnly)
}

func (b *httpBackend) Rename(_ context.Context, from, _ string) error {
	return fmt.Errorf("%s: %w", from, ErrReadOnly)
}

func (b *httpBackend) ListDir(_ context.Context, url string) ([]string, []string, error) {
	return nil, nil, fmt.Errorf("список каталога %s: %w", url, ErrUnsupported)
}

func (b *httpBackend) Mkdir(_ context.Context, url string, _ bool) error {
	return fmt.Errorf("%s: %w", url, ErrReadOnly)
}

func (b *httpBackend) Rmdir(_ context.Context, url string) error {
	return fmt.Errorf("%s: %w", url, ErrReadOnly)
}
