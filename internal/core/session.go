package core

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/twitchwire/internal/conn"
	"github.com/vovakirdan/twitchwire/internal/proto"
	"github.com/vovakirdan/twitchwire/internal/transport"
	"github.com/vovakirdan/twitchwire/internal/utils"
)

const (
	// DefaultHost is the well-known chat endpoint.
	DefaultHost = "irc.chat.twitch.tv"
	// DefaultPort is the well-known secure port.
	DefaultPort = "6697"

	// serviceUser is the reserved pseudo-user the server uses for its
	// diagnostic side-channel. Its lines never become domain events.
	serviceUser = "jtv"

	// anonymousAuth is the placeholder password sent for anonymous
	// sessions so the handshake is always the same three commands.
	anonymousAuth = "anonymous"

	capabilities = "twitch.tv/tags twitch.tv/commands twitch.tv/membership"
)

// Identity is the login the session authenticates as. Auth is the
// opaque token passed to the server as-is.
type Identity struct {
	Name string
	Auth string
}

// Options configure a session before Connect. A nil Identity selects an
// anonymous session: a throwaway nick is generated and later overwritten
// by the server's welcome numeric. Zero-value connection fields fall
// back to the documented defaults.
type Options struct {
	Identity *Identity
	Host     string
	Port     string
	Dialer   transport.Dialer
}

// lineWriter is the slice of the connection the dispatch path needs.
type lineWriter interface {
	SendLine(line string)
	SendLines(lines []string)
}

// Session owns the protocol state machine and the entity model it
// mutates. All state transitions happen on the single inbound dispatch
// path: the connection delivers decoded lines one at a time and no two
// lines are processed concurrently. Consumers observe the session
// through registered event handlers and the read-view accessors, both
// of which must be used from that same path (or before Connect / after
// the disconnected event).
type Session struct {
	opts      Options
	identity  Identity
	anonymous bool

	out  lineWriter
	conn *conn.Conn

	channels map[string]*Channel
	client   *ClientUser

	emitter Emitter
	log     zerolog.Logger
}

// NewSession constructs a session from options. It performs no I/O.
func NewSession(opts Options, logger *zerolog.Logger) *Session {
	if opts.Host == "" {
		opts.Host = DefaultHost
	}
	if opts.Port == "" {
		opts.Port = DefaultPort
	}
	if opts.Dialer == nil {
		opts.Dialer = transport.TLS(nil)
	}

	s := &Session{
		opts:     opts,
		channels: make(map[string]*Channel),
		log:      logger.With().Str("component", "session").Logger(),
	}
	if opts.Identity != nil {
		s.identity = *opts.Identity
	} else {
		s.anonymous = true
		s.identity.Name = "justinfan" + utils.NewDigits(5)
	}
	return s
}

// On registers a handler for one event kind.
func (s *Session) On(kind EventKind, h Handler) {
	s.emitter.On(kind, h)
}

// OnAny registers a handler invoked for every event.
func (s *Session) OnAny(h Handler) {
	s.emitter.OnAny(h)
}

// Connect dials the server and starts the inbound dispatch loop. The
// capability/auth handshake is sent exactly once, before any other
// traffic. Later stream failures are reported through the error and
// disconnected events, not as a return value.
func (s *Session) Connect(ctx context.Context) error {
	handshake, err := s.handshakeLines()
	if err != nil {
		return err
	}

	c := conn.New(conn.Config{
		Addr:      net.JoinHostPort(s.opts.Host, s.opts.Port),
		Dialer:    s.opts.Dialer,
		Handshake: handshake,
	}, conn.Callbacks{
		Connected: func() { s.emitter.emit(Event{Kind: EventConnected}) },
		Line:      s.HandleLine,
		Closed:    s.handleClosed,
		Error:     s.handleStreamError,
	}, s.log)

	s.out, s.conn = c, c
	if err := c.Connect(ctx); err != nil {
		s.out, s.conn = nil, nil
		return err
	}
	return nil
}

// Close tears down the stream. A disconnected event with
// hadError=false follows.
func (s *Session) Close() error {
	if s.conn == nil {
		return ErrNotConnected
	}
	return s.conn.Close()
}

func (s *Session) handshakeLines() ([]string, error) {
	auth := s.identity.Auth
	if auth == "" {
		auth = anonymousAuth
	}
	lines := make([]string, 0, 3)
	for _, spec := range [][]string{
		{"CAP", "REQ", capabilities},
		{"PASS", auth},
		{"NICK", s.identity.Name},
	} {
		line, err := proto.Line(spec[0], spec[1:]...)
		if err != nil {
			return nil, fmt.Errorf("build handshake: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// HandleLine decodes and dispatches one protocol line. Decode failures
// are terminal for the line only: they surface as an error event and
// the stream keeps running.
func (s *Session) HandleLine(line string) {
	msg, err := proto.Decode(line)
	if err != nil {
		s.log.Warn().Err(err).Str("line", line).Msg("dropping undecodable line")
		s.emitter.emit(Event{Kind: EventError, Err: sessionError(ErrCodeDecodeFailed, err)})
		return
	}
	s.dispatch(&msg)
}

func (s *Session) dispatch(msg *proto.Message) {
	if msg.Prefix.User == serviceUser {
		s.log.Debug().Str("raw", msg.Raw).Msg("service notice")
		return
	}

	switch classify(msg.Command) {
	case cmdPing:
		s.pong(msg)

	case cmdWelcome:
		if name := msg.Param(0); name != "" {
			s.identity.Name = name
		}

	case cmdNoop:

	case cmdPrivmsg:
		ch := s.resolveChannel(msg)
		cm := &ChatMessage{
			MessageData: MessageData{Msg: *msg, Channel: ch},
			From:        s.resolveUser(msg, ch),
			Text:        msg.Trailing(),
		}
		s.emitter.emit(Event{Kind: EventChatMessage, Channel: ch, Message: cm})

	case cmdJoin:
		ch := newChannel(msg.Param(0), msg.Tags)
		s.channels[ch.Name] = ch
		s.emitter.emit(Event{Kind: EventJoin, Channel: ch, User: s.resolveUser(msg, ch)})

	case cmdPart:
		ch := s.resolveChannel(msg)
		delete(s.channels, ch.Name)
		if s.client != nil {
			s.client.dropState(ch.Name)
		}
		s.emitter.emit(Event{Kind: EventPart, Channel: ch, User: s.resolveUser(msg, ch)})

	case cmdGlobalUserState:
		s.client = newClientUser(s.identity.Name, msg.Tags)
		s.emitter.emit(Event{Kind: EventGlobalUserState, ClientUser: s.client})

	case cmdUserState:
		if s.client == nil {
			// Legitimate server ordering can deliver this early; treat
			// as a diagnostic no-op rather than a fault.
			s.log.Warn().Str("raw", msg.Raw).Msg("userstate before globaluserstate, ignored")
			return
		}
		ch := s.resolveChannel(msg)
		st := s.client.mergeState(ch, msg.Tags)
		s.emitter.emit(Event{Kind: EventUserState, Channel: ch, State: st})

	case cmdRoomState:
		ch := s.resolveChannel(msg)
		ch.mergeTags(msg.Tags)
		s.emitter.emit(Event{Kind: EventRoomState, Channel: ch, Raw: msg})

	default:
		s.emitter.emit(Event{Kind: EventUnhandled, Raw: msg})
	}
}

func (s *Session) pong(msg *proto.Message) {
	line, err := proto.Line("PONG", msg.Params...)
	if err != nil {
		s.emitter.emit(Event{Kind: EventError, Err: sessionError(ErrCodeWriteFailed, err)})
		return
	}
	s.out.SendLine(line)
	s.emitter.emit(Event{Kind: EventPing})
}

// resolveChannel returns the tracked channel named by the message's
// first parameter, creating it from the message tags when unseen.
func (s *Session) resolveChannel(msg *proto.Message) *Channel {
	name := msg.Param(0)
	if ch, ok := s.channels[name]; ok {
		return ch
	}
	ch := newChannel(name, msg.Tags)
	s.channels[name] = ch
	return ch
}

// resolveUser maps the message sender to the authenticated user when
// the login matches, otherwise to a fresh per-channel user.
func (s *Session) resolveUser(msg *proto.Message, ch *Channel) *User {
	login := msg.Prefix.Name
	if s.client != nil && strings.EqualFold(login, s.identity.Name) {
		return &s.client.User
	}
	return newUser(login, ch, msg.Tags)
}

func (s *Session) handleStreamError(err error) {
	s.emitter.emit(Event{Kind: EventError, Err: sessionError(ErrCodeStream, err)})
}

func (s *Session) handleClosed(hadError bool) {
	s.emitter.emit(Event{
		Kind:       EventDisconnected,
		Disconnect: &DisconnectInfo{WillReconnect: false, HadError: hadError},
	})
}

// Join asks the server to add the session to a channel.
func (s *Session) Join(name string) error {
	return s.sendCommandLine("JOIN", normalizeChannel(name))
}

// Part asks the server to remove the session from a channel.
func (s *Session) Part(name string) error {
	return s.sendCommandLine("PART", normalizeChannel(name))
}

// Say sends a chat message to a channel.
func (s *Session) Say(target, text string) error {
	return s.sendCommandLine("PRIVMSG", normalizeChannel(target), text)
}

// SendCommand sends a chat command to a channel. The payload rides
// inside a chat-message line: a marker, the command word and its
// space-joined parameters.
func (s *Session) SendCommand(target, word string, params ...string) error {
	text := "/" + word
	if len(params) > 0 {
		text += " " + strings.Join(params, " ")
	}
	return s.Say(target, text)
}

// SendRaw queues one raw protocol line for writing.
func (s *Session) SendRaw(line string) error {
	if s.out == nil {
		return ErrNotConnected
	}
	s.out.SendLine(line)
	return nil
}

// SendRawMany queues an ordered batch of raw lines, written together.
func (s *Session) SendRawMany(lines []string) error {
	if s.out == nil {
		return ErrNotConnected
	}
	s.out.SendLines(lines)
	return nil
}

func (s *Session) sendCommandLine(command string, params ...string) error {
	if s.out == nil {
		return ErrNotConnected
	}
	line, err := proto.Line(command, params...)
	if err != nil {
		return err
	}
	s.out.SendLine(line)
	return nil
}

// Nick returns the session's current login name. For anonymous
// sessions this starts as a generated nick and is overwritten by the
// server's welcome numeric.
func (s *Session) Nick() string {
	return s.identity.Name
}

// Channel returns the tracked channel for a protocol-lexical name.
func (s *Session) Channel(name string) (*Channel, bool) {
	ch, ok := s.channels[name]
	return ch, ok
}

// Channels returns a snapshot of the tracked channels.
func (s *Session) Channels() []*Channel {
	out := make([]*Channel, 0, len(s.channels))
	for _, ch := range s.channels {
		out = append(out, ch)
	}
	return out
}

// ClientUser returns the authenticated user, or
// ErrIdentityNotEstablished before the server has announced it.
func (s *Session) ClientUser() (*ClientUser, error) {
	if s.client == nil {
		return nil, ErrIdentityNotEstablished
	}
	return s.client, nil
}

// normalizeChannel lowercases a channel name and ensures the leading
// sigil.
func normalizeChannel(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if !strings.HasPrefix(name, "#") {
		name = "#" + name
	}
	return name
}
