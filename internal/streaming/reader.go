// Package streaming содержит потоковое чтение файлов по HTTP для виртуальной файловой системы
package streaming

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"
)

// DefaultBufferSize размер буфера чтения по умолчанию
const DefaultBufferSize = 64 * 1024

// UserAgent идентификатор клиента в запросах
const UserAgent = "go-sake/1.0"

// ErrNotFound ресурс не найден
var ErrNotFound = errors.New("ресурс не найден")

// NewClient создает HTTP клиент для длительного потокового чтения
func NewClient() *http.Client {
	// Общего таймаута нет, только таймауты соединения
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 30 * time.Second,
			IdleConnTimeout:       300 * time.Second,
			MaxIdleConns:          10,
			MaxIdleConnsPerHost:   2,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// Reader представляет буферизованный поток для чтения данных порциями
type Reader struct {
	reader *bufio.Reader
	resp   *http.Response
	read   int64
}

// NewReader открывает поток. client может быть nil, тогда используется NewClient
func NewReader(ctx context.Context, client *http.Client, url string, bufferSize int) (*Reader, error) {
	if client == nil {
		client = NewClient()
	}
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Accept-Encoding", "identity") // Без сжатия, чтобы Content-Length был размером файла
	req.Header.Set("Range", "bytes=0-")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", url, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		resp.Body.Close()
		return nil, fmt.Errorf("ошибка HTTP: %s", resp.Status)
	}

	return &Reader{
		reader: bufio.NewReaderSize(resp.Body, bufferSize),
		resp:   resp,
	}, nil
}

// Read реализует интерфейс io.Reader для потокового чтения
func (sr *Reader) Read(p []byte) (n int, err error) {
	n, err = sr.reader.Read(p)
	sr.read += int64(n)
	return n, err
}

// Offset количество уже прочитанных байт
func (sr *Reader) Offset() int64 { return sr.read }

// Size размер ресурса из заголовков или -1, если он неизвестен
func (sr *Reader) Size() int64 {
	return contentSize(sr.resp)
}

// Close закрывает соединение
func (sr *Reader) Close() error {
	return sr.resp.Body.Close()
}

// Info сведения о ресурсе, полученные запросом HEAD
type Info struct {
	Size         int64
	LastModified time.Time
	ContentType  string
}

// Head запрашивает сведения о ресурсе. Для отсутствующего ресурса возвращает ErrNotFound
func Head(ctx context.Context, client *http.Client, url string) (Info, error) {
	if client == nil {
		client = NewClient()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return Info{}, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return Info{}, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return Info{}, fmt.Errorf("%s: %w", url, ErrNotFound)
	case resp.StatusCode >= 400:
		return Info{}, fmt.Errorf("ошибка HTTP: %s", resp.Status)
	}

	info := Info{Size: contentSize(resp), ContentType: resp.Header.Get("Content-Type")}
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			info.LastModified = t
		}
	}
	return info, nil
}

// Exists проверяет доступность ресурса запросом HEAD
func Exists(ctx context.Context, client *http.Client, url string) (bool, error) {
	_, err := Head(ctx, client, url)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func contentSize(resp *http.Response) int64 {
	if resp.ContentLength >= 0 {
		return resp.ContentLength
	}
	if v := resp.Header.Get("Content-Length"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return -1
}
