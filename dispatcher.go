package trovochat

import "sync"

// Subscription is the handle returned when a handler is registered.
// Cancel removes the handler; cancelling during a dispatch is safe and
// takes effect for subsequent dispatches only. Holding a Subscription does
// not keep the Client alive.
type Subscription struct {
	d    *dispatcher
	kind EventKind
	id   uint64
	once sync.Once
}

// Cancel deregisters the handler. Idempotent.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.d.remove(s.kind, s.id)
	})
}

type handlerEntry struct {
	id uint64
	fn func(Event)
}

// dispatcher keeps, per event kind, the ordered list of registered
// handlers. Dispatch happens synchronously on the goroutine driving the
// read loop, in registration order.
type dispatcher struct {
	lk       sync.Mutex
	nextID   uint64
	handlers map[EventKind][]handlerEntry
}

func newDispatcher() *dispatcher {
	return &dispatcher{handlers: make(map[EventKind][]handlerEntry)}
}

func (d *dispatcher) add(kind EventKind, fn func(Event)) *Subscription {
	d.lk.Lock()
	defer d.lk.Unlock()
	d.nextID++
	id := d.nextID
	d.handlers[kind] = append(d.handlers[kind], handlerEntry{id: id, fn: fn})
	return &Subscription{d: d, kind: kind, id: id}
}

func (d *dispatcher) remove(kind EventKind, id uint64) {
	d.lk.Lock()
	defer d.lk.Unlock()
	entries := d.handlers[kind]
	for i, entry := range entries {
		if entry.id == id {
			d.handlers[kind] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// dispatch invokes every handler registered for the event's kind. The
// handler list is snapshotted under the lock so handlers may register or
// cancel subscriptions from inside a callback.
func (d *dispatcher) dispatch(ev Event) int {
	d.lk.Lock()
	entries := d.handlers[ev.Kind()]
	snapshot := make([]handlerEntry, len(entries))
	copy(snapshot, entries)
	d.lk.Unlock()

	for _, entry := range snapshot {
		entry.fn(ev)
	}
	return len(snapshot)
}
