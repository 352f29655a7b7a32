package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/junsooki/Sylnode/internal/app"
	"github.com/junsooki/Sylnode/internal/capture"
	"github.com/junsooki/Sylnode/internal/config"
	"github.com/junsooki/Sylnode/internal/display"
	"github.com/junsooki/Sylnode/internal/hotkey"
	"github.com/junsooki/Sylnode/internal/logging"
	"github.com/junsooki/Sylnode/internal/permissions"
	"github.com/junsooki/Sylnode/internal/taskbar"
	"github.com/junsooki/Sylnode/internal/topology"
	"github.com/junsooki/Sylnode/internal/tray"
	"github.com/junsooki/Sylnode/internal/uiqueue"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:           "sylnode",
	Short:         "Mirror the primary display onto a second window",
	Long:          `Sylnode mirrors the primary display live onto a window on the second display. Ctrl+/ or the tray menu starts and freezes the mirror.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Sylnode %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", buildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file path")
	rootCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.Flags().String("log-format", "console", "Log format (console, json)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	loader := config.NewLoader(configFile)
	if err := loader.BindFlag("log_level", cmd.Flags().Lookup("log-level")); err != nil {
		return err
	}
	if err := loader.BindFlag("log_format", cmd.Flags().Lookup("log-format")); err != nil {
		return err
	}

	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logging.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("Sylnode starting",
		zap.String("version", version),
		zap.String("config", loader.ConfigFileUsed()))

	deps := app.Deps{
		Enumerator: topology.ScreenEnumerator{},
		Source:     capture.NewScreenSource(),
		NewWindow: func(q *uiqueue.Queue, p *display.Presenter) app.Window {
			return display.NewWindow(q, p, log)
		},
		NewTray: func(opts tray.Options) app.Tray {
			return tray.New(opts, log)
		},
		NewOverlay: func(title string) (app.Overlay, error) {
			o, err := taskbar.New(title, log)
			if err != nil {
				return nil, err
			}
			return o, nil
		},
		Hotkeys:     hotkey.NewSystemRegistrar(),
		Permissions: permissions.System,
		WatchConfig: loader.Watch,
		Logger:      log,
	}

	a, err := app.New(cfg, deps)
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		if sig, ok := <-sigCh; ok {
			log.Info("received signal, shutting down", zap.Stringer("signal", sig))
			a.RequestExit()
		}
	}()

	return a.Run()
}
