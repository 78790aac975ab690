package core

import (
	"strconv"

	"github.com/vovakirdan/twitchwire/internal/proto"
)

// MessageData couples one decoded protocol line with the session
// context it arrived in. Instances are handed to listeners and
// discarded; the session never stores them.
type MessageData struct {
	Msg     proto.Message
	Channel *Channel
}

// ChatMessage specializes MessageData for chat-content lines.
type ChatMessage struct {
	MessageData

	From *User
	Text string
}

// ID returns the server-assigned message id tag.
func (m *ChatMessage) ID() string {
	return m.Msg.Tags["id"]
}

// Color returns the sender's display color tag.
func (m *ChatMessage) Color() string {
	return m.Msg.Tags["color"]
}

// Bits returns the number of bits cheered with the message, zero when
// absent or unparsable.
func (m *ChatMessage) Bits() int {
	n, err := strconv.Atoi(m.Msg.Tags["bits"])
	if err != nil {
		return 0
	}
	return n
}
