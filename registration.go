package trovochat

import (
	"context"
	"slices"
	"sync"
)

type registrationState uint8

const (
	regIdle registrationState = iota
	regAwaitingCapAck
	regAwaitingWelcome
	regReady
	regFailed
	regClosed
)

func (s registrationState) String() string {
	switch s {
	case regIdle:
		return "idle"
	case regAwaitingCapAck:
		return "awaiting_cap_ack"
	case regAwaitingWelcome:
		return "awaiting_welcome"
	case regReady:
		return "ready"
	case regFailed:
		return "failed"
	case regClosed:
		return "closed"
	}
	return "unknown"
}

// registration drives the PASS/NICK/CAP handshake. State transitions
// happen on the single goroutine running the read loop; begin and wait are
// the only entry points other goroutines touch, hence the mutex.
type registration struct {
	lk       sync.Mutex
	state    registrationState
	pending  map[Capability]struct{}
	granted  []Capability
	welcomed bool
	saw001   bool
	user     RegisteredUser
	err      error
	done     chan struct{}
}

func newRegistration() *registration {
	return &registration{
		pending: make(map[Capability]struct{}),
		done:    make(chan struct{}),
	}
}

// begin submits the handshake commands through enqueue and arms the state
// machine. It may be called before or while the client runtime is running,
// but only once.
func (r *registration) begin(cfg *UserConfig, enqueue func(line []byte) error) error {
	r.lk.Lock()
	defer r.lk.Unlock()
	if r.state != regIdle {
		return ErrAlreadyRegistered
	}

	lines := [][]byte{
		encodeCommand("PASS", cfg.Token),
		encodeCommand("NICK", cfg.Nick),
	}
	for _, c := range cfg.Caps {
		lines = append(lines, encodeRaw(c.reqLine()))
	}
	for _, line := range lines {
		if err := enqueue(line); err != nil {
			return err
		}
	}

	for _, c := range cfg.Caps {
		r.pending[c] = struct{}{}
	}
	if len(r.pending) == 0 {
		r.state = regAwaitingWelcome
	} else {
		r.state = regAwaitingCapAck
	}
	return nil
}

// negotiating reports whether incoming events should be routed here
// instead of the dispatcher.
func (r *registration) negotiating() bool {
	r.lk.Lock()
	defer r.lk.Unlock()
	return r.state == regAwaitingCapAck || r.state == regAwaitingWelcome
}

// observe consumes one classified event during negotiation and returns a
// Ready event when the terminal transition fires.
func (r *registration) observe(msg Message, ev Event) *Ready {
	r.lk.Lock()
	defer r.lk.Unlock()
	if r.state != regAwaitingCapAck && r.state != regAwaitingWelcome {
		return nil
	}

	switch e := ev.(type) {
	case CapabilityAck:
		if e.Known {
			if _, ok := r.pending[e.Capability]; ok {
				delete(r.pending, e.Capability)
				r.granted = append(r.granted, e.Capability)
			}
		}
	case CapabilityNak:
		if e.Known {
			delete(r.pending, e.Capability)
		}
	case Notice:
		if e.Target == "*" && isAuthFailure(e.Message) {
			r.fail(ErrInvalidRegistration)
			return nil
		}
	}

	switch msg.Command {
	case "GLOBALUSERSTATE":
		r.welcomed = true
		r.user.ID = msg.Tags.Get("user-id")
		r.user.DisplayName = msg.Tags.Get("display-name")
		r.user.Color = ParseColor(msg.Tags.Get("color"))
	case "001":
		r.saw001 = true
		r.user.Name = msg.Param(0)
		if r.user.ID == "" {
			r.user.ID = msg.Param(0)
		}
	}

	if len(r.pending) == 0 {
		if r.state == regAwaitingCapAck {
			r.state = regAwaitingWelcome
		}
		// Without the Tags capability there is no GLOBALUSERSTATE to
		// wait for; the welcome reply is as good as it gets.
		if !r.welcomed && r.saw001 && !slices.Contains(r.granted, CapTags) {
			r.welcomed = true
		}
		if r.welcomed {
			r.state = regReady
			r.user.Caps = slices.Clone(r.granted)
			close(r.done)
			return &Ready{User: r.user}
		}
	}
	return nil
}

// fail must be called with the lock held and the state non-terminal.
func (r *registration) fail(err error) {
	r.state = regFailed
	r.err = err
	close(r.done)
}

// streamClosed records the end of the read loop: a finished registration
// moves to closed, anything short of ready fails.
func (r *registration) streamClosed() {
	r.lk.Lock()
	defer r.lk.Unlock()
	switch r.state {
	case regReady:
		r.state = regClosed
	case regFailed, regClosed:
	default:
		r.fail(ErrInvalidRegistration)
	}
}

// wait blocks until the handshake reaches ready or failed.
func (r *registration) wait(ctx context.Context) (RegisteredUser, error) {
	select {
	case <-ctx.Done():
		return RegisteredUser{}, ctx.Err()
	case <-r.done:
	}

	r.lk.Lock()
	defer r.lk.Unlock()
	if r.err != nil {
		return RegisteredUser{}, r.err
	}
	return r.user, nil
}

func isAuthFailure(message string) bool {
	switch message {
	case "Improperly formatted auth", "Login authentication failed":
		return true
	}
	return false
}
