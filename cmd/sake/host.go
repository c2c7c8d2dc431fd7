package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-sake/internal/kodi"
)

// createBuiltinCommand создает команду builtin с привязкой к экземпляру приложения
func (app *Application) createBuiltinCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "builtin [command]",
		Short: "Execute a Kodi builtin function",
		Long:  `Execute a builtin such as "RunPlugin(plugin://id/)" or "Notification(title,message)" in the add-on environment.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.withHost(ctx, func(h *kodi.Host) error {
				if err := h.ExecuteBuiltin(args[0]); err != nil {
					return fmt.Errorf("ошибка выполнения %s: %w", args[0], err)
				}
				// RunPlugin и PlayMedia могли запустить воспроизведение
				return waitPlayback(ctx, h)
			})
		},
	}
}

// createJSONRPCCommand создает команду jsonrpc с привязкой к экземпляру приложения
func (app *Application) createJSONRPCCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "jsonrpc [request]",
		Short: "Execute a JSON-RPC request and print the response",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.withHost(ctx, func(h *kodi.Host) error {
				fmt.Fprintln(app.Out, h.ExecuteJSONRPC(args[0]))
				return nil
			})
		},
	}
}

// createTranslateCommand создает команду translate с привязкой к экземпляру приложения
func (app *Application) createTranslateCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "translate [special://path]",
		Short: "Translate a special:// path to a filesystem path",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.withHost(ctx, func(h *kodi.Host) error {
				fmt.Fprintln(app.Out, h.TranslatePath(args[0]))
				return nil
			})
		},
	}
}
