package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-sake/internal/jsonrpc"
	"github.com/hazadus/go-sake/internal/kodi"
)

// createServeCommand создает команду serve с привязкой к экземпляру приложения
func (app *Application) createServeCommand(ctx context.Context) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve JSON-RPC over HTTP and WebSocket",
		Long: `Serve the emulated JSON-RPC API on /jsonrpc, player notifications on /ws
and Prometheus metrics on /metrics until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.withHost(ctx, func(h *kodi.Host) error {
				return app.serve(ctx, h, addr)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr from config")
	return cmd
}

// newServer собирает сервер и подписывает хаб на уведомления плеера.
// Возвращенная функция отменяет подписку
func newServer(h *kodi.Host, addr string) (*jsonrpc.Server, func()) {
	serverCfg := h.Config().Server
	if addr == "" {
		addr = serverCfg.Addr
	}

	hub := jsonrpc.NewHub(h.RPC(), serverCfg.AllowedOrigins, h.Logger())
	unsubscribe := h.Simulator().Subscribe(hub.PlayerListener())

	srv := jsonrpc.NewServer(h.RPC(), hub, jsonrpc.ServerOptions{
		Addr:           addr,
		AllowedOrigins: serverCfg.AllowedOrigins,
		Logger:         h.Logger(),
	})
	return srv, unsubscribe
}

func (app *Application) serve(ctx context.Context, h *kodi.Host, addr string) error {
	srv, unsubscribe := newServer(h, addr)
	defer unsubscribe()

	fmt.Fprintf(app.Out, "🌐 JSON-RPC сервер дополнения %s запущен\n", h.Addon().ID())
	if err := srv.ListenAndServe(ctx); err != nil {
		return err
	}
	fmt.Fprintln(app.Out, "✅ Сервер остановлен")
	return nil
}
