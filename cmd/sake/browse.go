package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-sake/internal/kodi"
	"github.com/hazadus/go-sake/internal/tui"
)

// createBrowseCommand создает команду browse с привязкой к экземпляру приложения
func (app *Application) createBrowseCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "browse [plugin://id/path?query]",
		Short: "Browse the add-on in a terminal UI",
		Long:  `Launch interactive terminal user interface for navigating add-on listings and simulated playback.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Экран и ввод принадлежат TUI, консоль эмулятора молчит
			app.Out = io.Discard
			if app.Config != nil {
				app.Config.Interactive = false
			}
			return app.withHost(ctx, func(h *kodi.Host) error {
				url := rootURL(h)
				if len(args) == 1 {
					url = args[0]
				}
				if err := tui.NewApp(h, url).Run(ctx); err != nil {
					return fmt.Errorf("ошибка TUI: %w", err)
				}
				return nil
			})
		},
	}
}
