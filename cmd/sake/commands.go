package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-sake/internal/config"
)

// globalFlags флаги корневой команды
type globalFlags struct {
	verbose     bool
	interactive bool
	// Флаги переопределяют конфигурацию, только если заданы явно
	verboseSet     bool
	interactiveSet bool
}

func (f globalFlags) apply(cfg *config.Config) {
	if f.verboseSet {
		cfg.Verbose = f.verbose
	}
	if f.interactiveSet {
		cfg.Interactive = f.interactive
	}
}

// createRootCommand создает корневую команду с настроенными подкомандами
func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	var (
		configPath string
		flags      globalFlags
	)

	rootCmd := &cobra.Command{
		Use:   "sake",
		Short: "Kodi add-on emulator",
		Long: `Runs Kodi plugin add-ons outside of Kodi: the xbmc modules are emulated,
listings are printed to the terminal and playback is simulated.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			flags.verboseSet = cmd.Flags().Changed("verbose")
			flags.interactiveSet = cmd.Flags().Changed("interactive")
			return app.loadConfig(configPath, flags)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "print verbose emulator output")
	rootCmd.PersistentFlags().BoolVarP(&flags.interactive, "interactive", "i", true, "prompt for dialog input")

	// Добавляем команды, передавая в них экземпляр приложения и контекст
	rootCmd.AddCommand(app.createRunCommand(ctx))
	rootCmd.AddCommand(app.createBrowseCommand(ctx))
	rootCmd.AddCommand(app.createBuiltinCommand(ctx))
	rootCmd.AddCommand(app.createJSONRPCCommand(ctx))
	rootCmd.AddCommand(app.createServeCommand(ctx))
	rootCmd.AddCommand(app.createTranslateCommand(ctx))
	rootCmd.AddCommand(app.createSettingsCommand(ctx))
	rootCmd.AddCommand(app.createInfoCommand(ctx))

	return rootCmd
}
