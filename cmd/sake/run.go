package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-sake/internal/kodi"
)

// playbackPoll период проверки, идет ли еще воспроизведение
const playbackPoll = 100 * time.Millisecond

// createRunCommand создает команду run с привязкой к экземпляру приложения
func (app *Application) createRunCommand(ctx context.Context) *cobra.Command {
	var opts kodi.RunOptions

	cmd := &cobra.Command{
		Use:   "run [plugin://id/path?query]",
		Short: "Run the add-on in the current directory",
		Long: `Run a plugin:// url with the add-on in the current directory.
Without an url the add-on root is opened. If the add-on starts playback,
the command waits until the simulated session ends.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.withHost(ctx, func(h *kodi.Host) error {
				url := rootURL(h)
				if len(args) == 1 {
					url = args[0]
				}
				return app.runPlugin(ctx, h, url, opts)
			})
		},
	}

	cmd.Flags().IntVar(&opts.Handle, "handle", 1, "directory handle passed in sys.argv[1]")
	cmd.Flags().BoolVar(&opts.Resume, "resume", false, "pass resume:true in sys.argv[3]")
	return cmd
}

// rootURL корневой путь текущего дополнения
func rootURL(h *kodi.Host) string {
	return "plugin://" + h.Addon().ID() + "/"
}

func (app *Application) runPlugin(ctx context.Context, h *kodi.Host, url string, opts kodi.RunOptions) error {
	if err := h.RunPlugin(ctx, url, opts); err != nil {
		return fmt.Errorf("ошибка выполнения %s: %w", url, err)
	}
	return waitPlayback(ctx, h)
}

// waitPlayback ждет окончания сеанса, начатого дополнением.
// При нулевом tick_interval плеер не идет сам, и ждать нечего
func waitPlayback(ctx context.Context, h *kodi.Host) error {
	sim := h.Simulator()
	if h.Config().Player.TickInterval <= 0 {
		return sim.Sync(ctx)
	}
	ticker := time.NewTicker(playbackPoll)
	defer ticker.Stop()

	for sim.Snapshot().State.IsActive() {
		select {
		case <-ctx.Done():
			_ = sim.Stop(context.Background())
			return ctx.Err()
		case <-ticker.C:
		}
	}
	// Дожидаемся доставки onPlayBackStopped слушателям дополнения
	return sim.Sync(ctx)
}
