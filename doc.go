// Package trovochat is a client for Trovo's extended IRC chat protocol.
//
// It turns a raw bidirectional byte stream into typed chat events and
// serializes outgoing commands under the provider's chat-flood limit. The
// package performs no connection establishment: you hand `NewClient` any
// `io.ReadWriteCloser` (a plain or TLS socket, see `pkg/connector` for
// dialers) and it owns that stream for the lifetime of `Run`.
//
// ## How it works
//
// Incoming bytes are split into frames, decoded (`Message`), classified
// into the typed `Event` set, and delivered synchronously and in
// registration order to the handlers you register with the `On*` methods.
// While the PASS/NICK/capability handshake is in flight, events feed the
// registration state machine instead; `WaitForReady` resolves when the
// server confirms who you are.
//
// Outgoing commands go through a `Writer`. Handles are cheap to `Clone`
// and safe to use from any goroutine: every handle enqueues whole lines
// into one shared queue, so concurrent producers can never interleave
// mid-line. The drain loop meters chat-class lines against a rolling
// budget and picks among busy producers at random, so one noisy goroutine
// cannot starve the rest. Keep-alive replies and registration commands
// skip the budget entirely.
//
// There is no automatic reconnection and no message persistence; when the
// stream closes, `Run` returns and the client is done.
package trovochat
