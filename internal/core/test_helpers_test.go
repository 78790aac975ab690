package core

import (
	"testing"

	"github.com/rs/zerolog"
)

// lineSink captures outbound lines in place of a live connection.
type lineSink struct {
	lines  []string
	writes int
}

func (s *lineSink) SendLine(line string) {
	s.lines = append(s.lines, line)
	s.writes++
}

func (s *lineSink) SendLines(lines []string) {
	s.lines = append(s.lines, lines...)
	s.writes++
}

func newTestSession(t *testing.T, identity *Identity) (*Session, *lineSink) {
	t.Helper()

	logger := zerolog.Nop()
	s := NewSession(Options{Identity: identity}, &logger)
	sink := &lineSink{}
	s.out = sink
	return s, sink
}

// recordEvents registers a catch-all handler and returns the slice the
// events accumulate into.
func recordEvents(s *Session) *[]Event {
	events := &[]Event{}
	s.OnAny(func(ev Event) {
		*events = append(*events, ev)
	})
	return events
}

func mustOneEvent(t *testing.T, events []Event, kind EventKind) Event {
	t.Helper()

	var found []Event
	for _, ev := range events {
		if ev.Kind == kind {
			found = append(found, ev)
		}
	}
	if len(found) != 1 {
		t.Fatalf("expected exactly one %v event, got %d (all: %d)", kind, len(found), len(events))
	}
	return found[0]
}
