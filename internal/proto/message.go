// Package proto is the boundary to the wire syntax. It wraps the ircmsg
// codec so the rest of the client works with one flat message shape and
// never touches raw line parsing itself.
package proto

import (
	"fmt"

	"github.com/ergochat/irc-go/ircmsg"
)

// Prefix identifies the sender of a protocol line.
type Prefix struct {
	Name string
	User string
	Host string
}

// Message is one decoded protocol line: IRCv3 tags, optional sender
// prefix, a command token and its parameters. Raw keeps the original
// line text for diagnostics and pass-through events.
type Message struct {
	Tags    map[string]string
	Prefix  Prefix
	Command string
	Params  []string
	Raw     string
}

// Param returns the i-th parameter or the empty string.
func (m *Message) Param(i int) string {
	if i < 0 || i >= len(m.Params) {
		return ""
	}
	return m.Params[i]
}

// Trailing returns the last parameter or the empty string.
func (m *Message) Trailing() string {
	return m.Param(len(m.Params) - 1)
}

// Decode parses a single protocol line, already stripped of its
// terminator. The error is terminal for that line only; callers decide
// whether the stream survives.
func Decode(line string) (Message, error) {
	parsed, err := ircmsg.ParseLine(line)
	if err != nil {
		return Message{}, fmt.Errorf("decode line: %w", err)
	}

	msg := Message{
		Tags:    parsed.AllTags(),
		Command: parsed.Command,
		Params:  parsed.Params,
		Raw:     line,
	}
	if parsed.Source != "" {
		nuh, err := ircmsg.ParseNUH(parsed.Source)
		if err != nil {
			// Server-only prefixes carry just a name.
			msg.Prefix = Prefix{Name: parsed.Source}
		} else {
			msg.Prefix = Prefix{Name: nuh.Name, User: nuh.User, Host: nuh.Host}
		}
	}
	return msg, nil
}

// Line serializes a command and its parameters to wire text, line
// terminator included. The last parameter may contain spaces; the codec
// marks it as trailing.
func Line(command string, params ...string) (string, error) {
	out := ircmsg.MakeMessage(nil, "", command, params...)
	line, err := out.Line()
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", command, err)
	}
	return line, nil
}
