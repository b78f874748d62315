package trovochat

import (
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
)

type lineClass uint8

const (
	classControl lineClass = iota
	classChat
)

// writeQueue is the single shared structure between the Writer handles
// (many producers) and the client runtime's drain loop (one consumer).
// Lines are enqueued whole, so no two producers can interleave mid-line on
// the wire.
//
// Control lines (PONG, registration) live in one FIFO that the drain loop
// always empties first and that is exempt from the chat-flood budget. Chat
// lines keep one FIFO per Writer handle; when several handles have queued
// work the drain loop picks uniformly at random among them, so a single
// busy producer cannot starve the others.
type writeQueue struct {
	lk      sync.Mutex
	control [][]byte
	chat    map[uint64][][]byte
	closed  bool

	// notify is a capacity-1 doorbell rung on every push.
	notify chan struct{}
	done   chan struct{}

	producerSeq atomic.Uint64
}

func newWriteQueue() *writeQueue {
	return &writeQueue{
		chat:   make(map[uint64][][]byte),
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (q *writeQueue) push(class lineClass, producer uint64, line []byte) error {
	q.lk.Lock()
	if q.closed {
		q.lk.Unlock()
		return ErrWriterClosed
	}
	if class == classControl {
		q.control = append(q.control, line)
	} else {
		q.chat[producer] = append(q.chat[producer], line)
	}
	q.lk.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return nil
}

// pop removes the next line to put on the wire, preferring control lines.
// It never blocks; ok is false when the queue is empty.
func (q *writeQueue) pop() (line []byte, class lineClass, ok bool) {
	q.lk.Lock()
	defer q.lk.Unlock()

	if len(q.control) > 0 {
		line = q.control[0]
		q.control = q.control[1:]
		return line, classControl, true
	}

	if len(q.chat) == 0 {
		return nil, 0, false
	}
	ids := make([]uint64, 0, len(q.chat))
	for id := range q.chat {
		ids = append(ids, id)
	}
	id := ids[rand.Intn(len(ids))]
	lines := q.chat[id]
	line = lines[0]
	if len(lines) == 1 {
		delete(q.chat, id)
	} else {
		q.chat[id] = lines[1:]
	}
	return line, classChat, true
}

// popControl removes only control lines; used while a chat line is parked
// waiting for budget so keep-alives are never delayed behind it.
func (q *writeQueue) popControl() ([]byte, bool) {
	q.lk.Lock()
	defer q.lk.Unlock()
	if len(q.control) == 0 {
		return nil, false
	}
	line := q.control[0]
	q.control = q.control[1:]
	return line, true
}

func (q *writeQueue) close() {
	q.lk.Lock()
	defer q.lk.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}

// Writer encodes outgoing commands and submits them to the shared,
// rate-limited write path. A Writer is cheap to Clone and each handle may
// be used from any goroutine; lines from one handle reach the wire in the
// order they were accepted.
//
// The send methods return once the line is accepted into the queue, not
// once it is on the wire, or ErrWriterClosed after teardown.
type Writer struct {
	q        *writeQueue
	producer uint64
}

// Clone returns a new handle over the same underlying queue. Clones are
// scheduled independently by the drain loop's fairness policy.
func (w *Writer) Clone() *Writer {
	return &Writer{q: w.q, producer: w.q.producerSeq.Add(1)}
}

// Send sends a chat message to a channel.
func (w *Writer) Send(channel, text string) error {
	ch, err := normalizeChannel(channel)
	if err != nil {
		return err
	}
	return w.q.push(classChat, w.producer, encodeCommand("PRIVMSG", ch, text))
}

// Me sends a third-person ("/me") chat message to a channel.
func (w *Writer) Me(channel, text string) error {
	return w.Send(channel, "/me "+text)
}

// Whisper sends a private message to a single user.
func (w *Writer) Whisper(user, text string) error {
	if user == "" {
		return ErrEmptyChannelName
	}
	return w.q.push(classChat, w.producer,
		encodeCommand("PRIVMSG", "jtv", "/w "+user+" "+text))
}

// Join enters a channel. The name is lowercased and prefixed with '#'.
func (w *Writer) Join(channel string) error {
	ch, err := normalizeChannel(channel)
	if err != nil {
		return err
	}
	return w.q.push(classChat, w.producer, encodeCommand("JOIN", ch))
}

// Part leaves a channel.
func (w *Writer) Part(channel string) error {
	ch, err := normalizeChannel(channel)
	if err != nil {
		return err
	}
	return w.q.push(classChat, w.producer, encodeCommand("PART", ch))
}

// Pong answers a server keep-alive. Pongs bypass the chat-flood budget and
// are drained ahead of queued chat lines.
func (w *Writer) Pong(token string) error {
	return w.q.push(classControl, w.producer, encodeCommand("PONG", token))
}

// Raw submits an already formatted command line (without CRLF). It is
// subject to the chat-flood budget like any other user content.
func (w *Writer) Raw(line string) error {
	return w.q.push(classChat, w.producer, encodeRaw(line))
}

// encodeCommand renders `command [param]* [:trailing]` with CRLF. The last
// parameter is emitted as a trailing parameter when it needs to be.
func encodeCommand(command string, params ...string) []byte {
	var sb strings.Builder
	sb.WriteString(command)
	for i, p := range params {
		sb.WriteByte(' ')
		if i == len(params)-1 && needsTrailing(p) {
			sb.WriteByte(':')
		}
		sb.WriteString(p)
	}
	sb.WriteString("\r\n")
	return []byte(sb.String())
}

func encodeRaw(line string) []byte {
	return []byte(line + "\r\n")
}

func needsTrailing(param string) bool {
	return param == "" ||
		strings.ContainsRune(param, ' ') ||
		strings.HasPrefix(param, ":")
}

// normalizeChannel lowercases the name and ensures the '#' prefix, so
// "Museun" and "#museun" address the same channel.
func normalizeChannel(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "#" {
		return "", ErrEmptyChannelName
	}
	name = strings.ToLower(name)
	if !strings.HasPrefix(name, "#") {
		name = "#" + name
	}
	return name, nil
}
