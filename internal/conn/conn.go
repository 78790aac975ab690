// Package conn owns the byte stream of one session: it dials through a
// transport, splits inbound bytes into protocol lines and queues
// outbound writes in submission order.
package conn

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/twitchwire/internal/transport"
)

const (
	lineTerminator = "\r\n"

	// maxLineLen bounds one inbound line: the tag block alone may be
	// several kilobytes.
	maxLineLen = 16 * 1024
)

// Config holds the connection parameters.
type Config struct {
	// Addr is the host:port to dial.
	Addr string
	// Dialer establishes the byte stream.
	Dialer transport.Dialer
	// Handshake lines are written once, in order, immediately after
	// dialing and before any other traffic.
	Handshake []string
}

// Callbacks receive stream lifecycle and line notifications. Line is
// invoked sequentially, one complete line at a time, from the
// connection's read goroutine; a callback finishes before the next
// line is delivered. Connected returns before the first Line delivery.
// Closed fires exactly once, and no Error follows it.
type Callbacks struct {
	Connected func()
	Line      func(line string)
	Closed    func(hadError bool)
	Error     func(err error)
}

// Conn is one duplex stream to the server. Writes are fire-and-forget:
// failures surface through the Error callback, then the stream closes.
type Conn struct {
	cfg Config
	cb  Callbacks
	log zerolog.Logger

	out  chan string
	done chan struct{}

	mu      sync.Mutex
	rwc     net.Conn
	closing bool
	stopped bool
}

// New constructs a connection without dialing.
func New(cfg Config, cb Callbacks, logger zerolog.Logger) *Conn {
	return &Conn{
		cfg:  cfg,
		cb:   cb,
		log:  logger.With().Str("conn_id", uuid.NewString()).Logger(),
		out:  make(chan string, 64),
		done: make(chan struct{}),
	}
}

// Connect dials the server, queues the handshake and starts the read
// and write loops. It returns once the stream is established; later
// failures are reported through the callbacks.
func (c *Conn) Connect(ctx context.Context) error {
	rwc, err := c.cfg.Dialer.DialContext(ctx, c.cfg.Addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.cfg.Addr, err)
	}

	c.mu.Lock()
	c.rwc = rwc
	c.mu.Unlock()

	go c.writeLoop(rwc)
	c.SendLines(c.cfg.Handshake)

	c.log.Debug().Str("addr", c.cfg.Addr).Msg("stream established")
	if c.cb.Connected != nil {
		c.cb.Connected()
	}
	go c.readLoop(rwc)
	return nil
}

// SendLine queues one line for writing. The terminator is appended
// when missing.
func (c *Conn) SendLine(line string) {
	c.enqueue(terminate(line))
}

// SendLines queues an ordered batch of lines, joined into one write so
// nothing can interleave between them.
func (c *Conn) SendLines(lines []string) {
	if len(lines) == 0 {
		return
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(terminate(line))
	}
	c.enqueue(b.String())
}

// Close tears down the stream. The Closed callback reports
// hadError=false.
func (c *Conn) Close() error {
	c.mu.Lock()
	c.closing = true
	c.mu.Unlock()
	c.shutdown(false)
	return nil
}

func (c *Conn) enqueue(payload string) {
	select {
	case c.out <- payload:
	case <-c.done:
	}
}

func (c *Conn) writeLoop(rwc net.Conn) {
	for {
		select {
		case payload := <-c.out:
			if _, err := rwc.Write([]byte(payload)); err != nil {
				c.fail(fmt.Errorf("write: %w", err))
				return
			}
		case <-c.done:
			return
		}
	}
}

// readLoop splits the inbound stream on line terminators. Partial
// lines spanning read boundaries are buffered until complete; lines
// from one read are delivered in arrival order, one at a time.
func (c *Conn) readLoop(rwc net.Conn) {
	scanner := bufio.NewScanner(rwc)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLen)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if c.cb.Line != nil {
			c.cb.Line(line)
		}
	}
	if err := scanner.Err(); err != nil {
		c.fail(fmt.Errorf("read: %w", err))
		return
	}
	// Clean EOF from the peer.
	c.shutdown(false)
}

// fail reports a stream error and closes. Errors caused by a local
// Close or a prior shutdown unblocking the loops are not stream
// failures: once Closed has fired, no further error may follow it.
func (c *Conn) fail(err error) {
	c.mu.Lock()
	suppress := c.closing || c.stopped
	c.mu.Unlock()
	if suppress {
		c.shutdown(false)
		return
	}
	c.log.Warn().Err(err).Msg("stream failure")
	if c.cb.Error != nil {
		c.cb.Error(err)
	}
	c.shutdown(true)
}

// shutdown closes the stream at most once and reports the final state.
func (c *Conn) shutdown(hadError bool) {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	rwc := c.rwc
	c.mu.Unlock()

	close(c.done)
	if rwc != nil {
		rwc.Close()
	}
	c.log.Debug().Bool("had_error", hadError).Msg("stream closed")
	if c.cb.Closed != nil {
		c.cb.Closed(hadError)
	}
}

func terminate(line string) string {
	if strings.HasSuffix(line, lineTerminator) {
		return line
	}
	return line + lineTerminator
}
