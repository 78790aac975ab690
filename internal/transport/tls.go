package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
)

// TLSDialer connects over TCP with TLS.
type TLSDialer struct {
	Config *tls.Config
}

// TLS returns a dialer using the given TLS configuration; nil selects
// the library defaults.
func TLS(cfg *tls.Config) *TLSDialer {
	return &TLSDialer{Config: cfg}
}

func (d *TLSDialer) DialContext(ctx context.Context, addr string) (net.Conn, error) {
	dialer := &tls.Dialer{Config: d.Config}
	c, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("tls dial %s: %w", addr, err)
	}
	return c, nil
}
