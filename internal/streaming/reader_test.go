package streaming

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/file.txt", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != UserAgent {
			http.Error(w, "bad agent", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("Last-Modified", "Wed, 21 Oct 2015 07:28:00 GMT")
		w.Write([]byte("привет из потока"))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "oops", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestReaderReadsBody(t *testing.T) {
	srv := newTestServer(t)

	r, err := NewReader(context.Background(), srv.Client(), srv.URL+"/file.txt", 4)
	if err != nil {
		t.Fatalf("Ошибка открытия потока: %v", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("Ошибка чтения: %v", err)
	}
	if string(data) != "привет из потока" {
		t.Errorf("Неверное содержимое: %q", data)
	}
	if r.Offset() != int64(len(data)) {
		t.Errorf("Ожидалось смещение %d, получено: %d", len(data), r.Offset())
	}
	if r.Size() != int64(len(data)) {
		t.Errorf("Ожидался размер %d, получено: %d", len(data), r.Size())
	}
}

func TestReaderErrors(t *testing.T) {
	srv := newTestServer(t)

	_, err := NewReader(context.Background(), srv.Client(), srv.URL+"/missing", 0)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Ожидалась ErrNotFound, получено: %v", err)
	}

	if _, err := NewReader(context.Background(), srv.Client(), srv.URL+"/broken", 0); err == nil {
		t.Error("Ожидалась ошибка для статуса 500")
	}
}

func TestHeadAndExists(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	info, err := Head(ctx, srv.Client(), srv.URL+"/file.txt")
	if err != nil {
		t.Fatalf("Ошибка HEAD: %v", err)
	}
	if info.ContentType != "text/plain" || info.LastModified.Year() != 2015 {
		t.Errorf("Неверные сведения о ресурсе: %+v", info)
	}

	ok, err := Exists(ctx, srv.Client(), srv.URL+"/file.txt")
	if err != nil || !ok {
		t.Errorf("Файл должен существовать: %v (%v)", ok, err)
	}

	ok, err = Exists(ctx, srv.Client(), srv.URL+"/missing")
	if err != nil || ok {
		t.Errorf("Файл не должен существовать: %v (%v)", ok, err)
	}

	if _, err := Exists(ctx, srv.Client(), srv.URL+"/broken"); err == nil {
		t.Error("Ошибка сервера должна возвращаться как ошибка")
	}
}
