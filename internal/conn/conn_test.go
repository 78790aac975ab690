package conn

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type pipeDialer struct {
	conn net.Conn
}

func (d pipeDialer) DialContext(context.Context, string) (net.Conn, error) {
	return d.conn, nil
}

type stubAddr struct{}

func (stubAddr) Network() string { return "pipe" }
func (stubAddr) String() string  { return "pipe" }

// brokenWriteConn rejects every write; reads block until Close.
type brokenWriteConn struct {
	done chan struct{}
	once sync.Once
}

func newBrokenWriteConn() *brokenWriteConn {
	return &brokenWriteConn{done: make(chan struct{})}
}

func (c *brokenWriteConn) Read([]byte) (int, error) {
	<-c.done
	return 0, io.ErrClosedPipe
}

func (c *brokenWriteConn) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func (c *brokenWriteConn) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

func (c *brokenWriteConn) LocalAddr() net.Addr              { return stubAddr{} }
func (c *brokenWriteConn) RemoteAddr() net.Addr             { return stubAddr{} }
func (c *brokenWriteConn) SetDeadline(time.Time) error      { return nil }
func (c *brokenWriteConn) SetReadDeadline(time.Time) error  { return nil }
func (c *brokenWriteConn) SetWriteDeadline(time.Time) error { return nil }

type recorder struct {
	connected chan struct{}
	lines     chan string
	closed    chan bool
	errs      chan error
}

func newRecorder() *recorder {
	return &recorder{
		connected: make(chan struct{}, 1),
		lines:     make(chan string, 16),
		closed:    make(chan bool, 1),
		errs:      make(chan error, 1),
	}
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		Connected: func() { r.connected <- struct{}{} },
		Line:      func(line string) { r.lines <- line },
		Closed:    func(hadError bool) { r.closed <- hadError },
		Error:     func(err error) { r.errs <- err },
	}
}

func dialPipe(t *testing.T, handshake []string) (*Conn, net.Conn, *recorder) {
	t.Helper()

	client, server := net.Pipe()
	rec := newRecorder()
	c := New(Config{
		Addr:      "pipe",
		Dialer:    pipeDialer{conn: client},
		Handshake: handshake,
	}, rec.callbacks(), zerolog.Nop())

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		c.Close()
		server.Close()
	})
	return c, server, rec
}

func recv[T any](t *testing.T, ch <-chan T, what string) T {
	t.Helper()

	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
		panic("unreachable")
	}
}

func TestHandshakeSentFirstInOrder(t *testing.T) {
	c, server, rec := dialPipe(t, []string{"CAP REQ :twitch.tv/tags", "PASS secret", "NICK alice"})
	recv(t, rec.connected, "connected")

	c.SendLine("JOIN #channel")

	reader := bufio.NewReader(server)
	want := []string{
		"CAP REQ :twitch.tv/tags\r\n",
		"PASS secret\r\n",
		"NICK alice\r\n",
		"JOIN #channel\r\n",
	}
	for i, w := range want {
		got, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read line %d: %v", i, err)
		}
		if got != w {
			t.Fatalf("line %d: %q, want %q", i, got, w)
		}
	}
}

func TestSendLinesIsOneOrderedWrite(t *testing.T) {
	c, server, _ := dialPipe(t, nil)

	c.SendLines([]string{"PASS a", "NICK b"})

	buf := make([]byte, 64)
	n, err := server.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(buf[:n]); got != "PASS a\r\nNICK b\r\n" {
		t.Fatalf("batch write %q", got)
	}
}

func TestPartialLinesAreReassembled(t *testing.T) {
	_, server, rec := dialPipe(t, nil)

	// A line split mid-token across two deliveries, then a second
	// complete line in the same chunk.
	if _, err := server.Write([]byte("PING :tmi.tw")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := server.Write([]byte("itch.tv\r\nPING :second\r\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	if got := recv(t, rec.lines, "first line"); got != "PING :tmi.twitch.tv" {
		t.Fatalf("first line %q", got)
	}
	if got := recv(t, rec.lines, "second line"); got != "PING :second" {
		t.Fatalf("second line %q", got)
	}
}

func TestLocalCloseReportsCleanShutdown(t *testing.T) {
	c, _, rec := dialPipe(t, nil)
	recv(t, rec.connected, "connected")

	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if hadError := recv(t, rec.closed, "closed"); hadError {
		t.Fatalf("local close must report hadError=false")
	}
	select {
	case err := <-rec.errs:
		t.Fatalf("local close must not surface an error, got %v", err)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPeerDropReportsErrorThenClosed(t *testing.T) {
	_, server, rec := dialPipe(t, nil)
	recv(t, rec.connected, "connected")

	server.Close()

	if err := recv(t, rec.errs, "error"); err == nil {
		t.Fatalf("expected a stream error")
	}
	if hadError := recv(t, rec.closed, "closed"); !hadError {
		t.Fatalf("stream failure must report hadError=true")
	}
}

func TestWriteFailureEmitsOneErrorThenClosed(t *testing.T) {
	fc := newBrokenWriteConn()
	rec := newRecorder()
	c := New(Config{
		Addr:   "pipe",
		Dialer: pipeDialer{conn: fc},
	}, rec.callbacks(), zerolog.Nop())

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	c.SendLine("JOIN #channel")

	if err := recv(t, rec.errs, "error"); err == nil {
		t.Fatalf("expected the write failure to surface")
	}
	if hadError := recv(t, rec.closed, "closed"); !hadError {
		t.Fatalf("write failure must report hadError=true")
	}
	// The read loop unblocks during shutdown; its error must not
	// surface after the close notification.
	select {
	case err := <-rec.errs:
		t.Fatalf("no error may follow the close notification, got %v", err)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestConnectedReportedBeforeFirstLine(t *testing.T) {
	_, server, rec := dialPipe(t, nil)

	select {
	case <-rec.connected:
	default:
		t.Fatalf("connected must be reported before Connect returns")
	}

	go server.Write([]byte("PING :tmi.twitch.tv\r\n"))
	if got := recv(t, rec.lines, "line"); got != "PING :tmi.twitch.tv" {
		t.Fatalf("line %q", got)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	c, _, rec := dialPipe(t, nil)

	c.Close()
	c.Close()

	recv(t, rec.closed, "closed")
	select {
	case <-rec.closed:
		t.Fatalf("closed must fire exactly once")
	case <-time.After(50 * time.Millisecond):
	}
}
