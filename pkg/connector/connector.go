// Package connector provides dialers for the well-known chat endpoints.
// They only produce the `io.ReadWriteCloser` the client consumes; nothing
// in the core depends on this package.
package connector

import (
	"context"
	"crypto/tls"
	"net"
	"time"
)

const (
	// Address is the chat endpoint for plain connections.
	Address = "irc.chat.trovo.tv:6667"
	// AddressTLS is the chat endpoint for TLS connections.
	AddressTLS = "irc.chat.trovo.tv:6697"
	// TLSDomain is the server name expected on the TLS certificate.
	TLSDomain = "irc.chat.trovo.tv"
)

const dialTimeout = 30 * time.Second

// Dial opens a plain TCP connection to addr, defaulting to Address.
func Dial(ctx context.Context, addr string) (net.Conn, error) {
	if addr == "" {
		addr = Address
	}
	d := net.Dialer{Timeout: dialTimeout}
	return d.DialContext(ctx, "tcp", addr)
}

// DialTLS opens a TLS connection to addr, defaulting to AddressTLS. A nil
// cfg verifies against TLSDomain with the system roots.
func DialTLS(ctx context.Context, addr string, cfg *tls.Config) (net.Conn, error) {
	if addr == "" {
		addr = AddressTLS
	}
	if cfg == nil {
		cfg = &tls.Config{ServerName: TLSDomain}
	}
	d := tls.Dialer{
		NetDialer: &net.Dialer{Timeout: dialTimeout},
		Config:    cfg,
	}
	return d.DialContext(ctx, "tcp", addr)
}
