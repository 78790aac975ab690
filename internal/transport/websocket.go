package transport

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/coder/websocket"
)

// WebSocketDialer runs the protocol over a WebSocket stream, as served
// on the irc-ws endpoints. Text frames carry protocol lines; the
// adapter below exposes them as an ordinary net.Conn.
type WebSocketDialer struct {
	// URL overrides the wss:// URL derived from the dialed address.
	URL string
	// HTTPClient is used for the opening handshake; nil selects the
	// default client.
	HTTPClient *http.Client
}

// WebSocket returns a dialer for the given wss:// URL. An empty URL
// derives one from the address passed to DialContext.
func WebSocket(url string) *WebSocketDialer {
	return &WebSocketDialer{URL: url}
}

func (d *WebSocketDialer) DialContext(ctx context.Context, addr string) (net.Conn, error) {
	url := d.URL
	if url == "" {
		url = "wss://" + addr
	}
	ws, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{HTTPClient: d.HTTPClient})
	if err != nil {
		return nil, fmt.Errorf("websocket dial %s: %w", url, err)
	}
	// The NetConn context bounds the connection lifetime, not the
	// opening handshake.
	return websocket.NetConn(context.Background(), ws, websocket.MessageText), nil
}
