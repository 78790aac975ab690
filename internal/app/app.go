package app

import (
	"context"
	"fmt"
	"net"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/twitchwire/internal/config"
	"github.com/vovakirdan/twitchwire/internal/core"
	"github.com/vovakirdan/twitchwire/internal/transport"
)

// App wires configuration, transport and the protocol session together
// for the CLI.
type App struct {
	cfg     config.Config
	session *core.Session
	log     *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) (*App, error) {
	opts := core.Options{Host: cfg.Host, Port: cfg.Port}

	switch cfg.Transport {
	case "", "tls":
		opts.Dialer = transport.TLS(nil)
	case "websocket":
		opts.Dialer = transport.WebSocket("wss://" + net.JoinHostPort(cfg.Host, cfg.Port))
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}

	if cfg.Nick != "" {
		opts.Identity = &core.Identity{Name: cfg.Nick, Auth: cfg.Token}
	}

	return &App{
		cfg:     cfg,
		session: core.NewSession(opts, logger),
		log:     logger,
	}, nil
}

// Run connects, joins the configured channels and blocks until context
// cancellation or stream close.
func (a *App) Run(ctx context.Context) error {
	done := make(chan struct{})

	a.session.OnAny(a.logEvent)
	a.session.On(core.EventConnected, func(core.Event) {
		for _, name := range a.cfg.Channels {
			if err := a.session.Join(name); err != nil {
				a.log.Warn().Err(err).Str("channel", name).Msg("join failed")
			}
		}
	})
	a.session.On(core.EventDisconnected, func(core.Event) {
		close(done)
	})

	if err := a.session.Connect(ctx); err != nil {
		return err
	}
	a.log.Info().Str("nick", a.session.Nick()).Msg("session started")

	select {
	case <-ctx.Done():
		return a.session.Close()
	case <-done:
		return nil
	}
}

func (a *App) logEvent(ev core.Event) {
	switch ev.Kind {
	case core.EventChatMessage:
		a.log.Info().
			Str("channel", ev.Channel.Name).
			Str("from", ev.Message.From.DisplayName()).
			Msg(ev.Message.Text)
	case core.EventJoin, core.EventPart:
		a.log.Info().
			Str("channel", ev.Channel.Name).
			Str("user", ev.User.Login).
			Msg(ev.Kind.String())
	case core.EventUserState:
		a.log.Debug().
			Str("channel", ev.Channel.Name).
			Bool("mod", ev.State.IsMod()).
			Msg("userstate")
	case core.EventError:
		a.log.Warn().Err(ev.Err).Msg("session error")
	case core.EventDisconnected:
		a.log.Info().Bool("had_error", ev.Disconnect.HadError).Msg("disconnected")
	case core.EventUnhandled:
		a.log.Debug().Str("command", ev.Raw.Command).Msg("unhandled command")
	}
}
