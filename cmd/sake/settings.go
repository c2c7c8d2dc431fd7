package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-sake/internal/kodi"
	"github.com/hazadus/go-sake/internal/tui"
)

// infoKeys свойства, которые печатает команда info
var infoKeys = []string{"id", "name", "version", "author", "type", "summary", "path", "profile", "icon", "fanart"}

// createSettingsCommand создает команду settings с привязкой к экземпляру приложения
func (app *Application) createSettingsCommand(ctx context.Context) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Print or edit add-on settings",
		Long:  `Print the merged add-on settings (defaults and the user profile) or edit them with --tui.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if interactive {
				app.Out = io.Discard
			}
			return app.withHost(ctx, func(h *kodi.Host) error {
				ad := h.Addon()
				if interactive {
					if err := tui.RunSettings(ctx, ad.ID(), ad.Settings()); err != nil {
						return fmt.Errorf("ошибка редактора настроек: %w", err)
					}
					return nil
				}

				settings := ad.Settings()
				if settings.Len() == 0 {
					fmt.Fprintf(app.Out, "⚙️ У дополнения %s нет настроек\n", ad.ID())
					return nil
				}
				fmt.Fprintf(app.Out, "⚙️ Настройки %s (%d):\n", ad.ID(), settings.Len())
				for _, id := range settings.Keys() {
					value, _ := settings.Get(id)
					fmt.Fprintf(app.Out, "   %s = %s\n", id, value)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&interactive, "tui", false, "edit settings in a terminal UI")
	return cmd
}

// createInfoCommand создает команду info с привязкой к экземпляру приложения
func (app *Application) createInfoCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print add-on information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.withHost(ctx, func(h *kodi.Host) error {
				ad := h.Addon()
				fmt.Fprintf(app.Out, "📦 Дополнение %s\n", ad.ID())
				for _, key := range infoKeys {
					value, err := ad.GetAddonInfo(key)
					if err != nil {
						return err
					}
					if value == "" {
						continue
					}
					fmt.Fprintf(app.Out, "   %-8s %s\n", key+":", value)
				}
				return nil
			})
		},
	}
}
