package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/twitchwire/internal/app"
	"github.com/vovakirdan/twitchwire/internal/config"
	"github.com/vovakirdan/twitchwire/internal/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath   string
		overrides config.Config
	)

	cmd := &cobra.Command{
		Use:          "twitchwire",
		Short:        "Connect to Twitch chat and stream events to the console",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bootstrap := log.New("info")
			cfg, path, err := config.Load(bootstrap, cfgPath)
			if err != nil {
				return err
			}
			cfg.UpdateFrom(overrides)

			logger := log.New(cfg.LogLevel)
			logger.Info().Str("config", path).Msg("configuration loaded")

			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return application.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "path to config file")
	cmd.Flags().StringVar(&overrides.Host, "host", "", "chat server host")
	cmd.Flags().StringVar(&overrides.Port, "port", "", "chat server port")
	cmd.Flags().StringVar(&overrides.Transport, "transport", "", "transport: tls or websocket")
	cmd.Flags().StringVar(&overrides.Nick, "nick", "", "login name (empty for anonymous)")
	cmd.Flags().StringVar(&overrides.Token, "token", "", "auth token passed as-is")
	cmd.Flags().StringSliceVar(&overrides.Channels, "channel", nil, "channel to join on connect (repeatable)")
	cmd.Flags().StringVar(&overrides.LogLevel, "log-level", "", "log level")

	return cmd
}
