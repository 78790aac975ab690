// Package transport provides the byte-stream dialers the connection
// layer runs over. The session treats the stream as opaque: TLS
// mechanics and WebSocket framing both end at the net.Conn boundary.
package transport

import (
	"context"
	"net"
)

// Dialer establishes the duplex byte stream a session runs over.
type Dialer interface {
	DialContext(ctx context.Context, addr string) (net.Conn, error)
}
