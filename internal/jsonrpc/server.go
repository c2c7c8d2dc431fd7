package jsonrpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/hazadus/go-sake/internal/logger"
)

// maxRequestSize ограничение на размер тела запроса
const maxRequestSize = 1 << 20

const shutdownTimeout = 5 * time.Second

// ServerOptions параметры HTTP сервера
type ServerOptions struct {
	Addr           string
	AllowedOrigins []string
	Logger         *logger.Logger
}

// Server HTTP сервер JSON-RPC
type Server struct {
	dispatcher *Dispatcher
	hub        *Hub
	handler    http.Handler
	opts       ServerOptions
	log        *logger.Logger
}

// NewServer создает сервер с маршрутами /jsonrpc, /ws и /metrics
func NewServer(d *Dispatcher, hub *Hub, opts ServerOptions) *Server {
	if opts.Logger == nil {
		opts.Logger = logger.Global()
	}
	s := &Server{
		dispatcher: d,
		hub:        hub,
		opts:       opts,
		log:        opts.Logger.With("component", "server"),
	}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/jsonrpc", s.handlePost).Methods(http.MethodPost)
	router.HandleFunc("/jsonrpc", s.handleGet).Methods(http.MethodGet)
	router.Handle("/ws", hub).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.handler = cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)
	return s
}

// Handler корневой обработчик сервера
func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe обслуживает запросы до отмены ctx
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("сервер запущен", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("ошибка запуска сервера: %w", err)
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ошибка остановки сервера: %w", err)
	}
	return nil
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestSize))
	if err != nil {
		http.Error(w, "ошибка чтения запроса", http.StatusBadRequest)
		return
	}
	s.reply(w, s.dispatcher.Execute(r.Context(), string(body)))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	request := r.URL.Query().Get("request")
	if request == "" {
		http.Error(w, "не указан параметр request", http.StatusBadRequest)
		return
	}
	s.reply(w, s.dispatcher.Execute(r.Context(), request))
}

func (s *Server) reply(w http.ResponseWriter, resp string) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := io.WriteString(w, resp); err != nil {
		s.log.Warn("ошибка отправки ответа", "error", err)
	}
}
