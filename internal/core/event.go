package core

import (
	"sync"

	"github.com/vovakirdan/twitchwire/internal/proto"
)

// EventKind is a notification the session emits to consumers.
type EventKind int

const (
	// EventConnected fires once the stream is established and the
	// handshake has been queued.
	EventConnected EventKind = iota
	// EventDisconnected fires exactly once after the stream is gone.
	EventDisconnected
	// EventError reports transport failures, rejected writes and
	// per-line decode failures.
	EventError
	// EventPing fires for every server PING, after the PONG reply has
	// been queued. It carries no payload.
	EventPing
	// EventChatMessage delivers a chat message.
	EventChatMessage
	// EventJoin notifies that a user entered a channel.
	EventJoin
	// EventPart notifies that a user left a channel.
	EventPart
	// EventGlobalUserState announces the (re)created authenticated user.
	EventGlobalUserState
	// EventUserState delivers the authenticated user's per-channel state.
	EventUserState
	// EventRoomState passes a room-state line through to consumers.
	EventRoomState
	// EventUnhandled carries any decoded line without a dedicated
	// transition.
	EventUnhandled
)

// String returns the wire-facing event name.
func (k EventKind) String() string {
	switch k {
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	case EventError:
		return "error"
	case EventPing:
		return "ping"
	case EventChatMessage:
		return "message"
	case EventJoin:
		return "join"
	case EventPart:
		return "part"
	case EventGlobalUserState:
		return "globaluserstate"
	case EventUserState:
		return "userstate"
	case EventRoomState:
		return "roomstate"
	case EventUnhandled:
		return "unhandled-command"
	default:
		return "unknown"
	}
}

// Event describes one thing that happened in the session. Only the
// fields relevant to the kind are set.
type Event struct {
	Kind EventKind

	Channel    *Channel
	User       *User
	ClientUser *ClientUser
	State      *UserState
	Message    *ChatMessage
	Raw        *proto.Message
	Err        error
	Disconnect *DisconnectInfo
}

// DisconnectInfo is the payload of a disconnected event. The client
// never reconnects on its own, so WillReconnect is always false.
type DisconnectInfo struct {
	WillReconnect bool
	HadError      bool
}

// Handler consumes events. Domain events are delivered sequentially
// from the inbound dispatch path; lifecycle events (connected, error,
// disconnected) arrive on the connection's own goroutines, with
// connected always delivered before the first domain event. Handlers
// must not block.
type Handler func(Event)

// Emitter fans events out to kind-keyed handlers.
type Emitter struct {
	mu       sync.RWMutex
	handlers map[EventKind][]Handler
	any      []Handler
}

// On registers a handler for one event kind.
func (e *Emitter) On(kind EventKind, h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handlers == nil {
		e.handlers = make(map[EventKind][]Handler)
	}
	e.handlers[kind] = append(e.handlers[kind], h)
}

// OnAny registers a handler invoked for every event.
func (e *Emitter) OnAny(h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.any = append(e.any, h)
}

func (e *Emitter) emit(ev Event) {
	e.mu.RLock()
	kindHandlers := e.handlers[ev.Kind]
	anyHandlers := e.any
	e.mu.RUnlock()

	for _, h := range kindHandlers {
		h(ev)
	}
	for _, h := range anyHandlers {
		h(ev)
	}
}
