package trovochat

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-metrics"
)

// Client drives one chat connection over a caller-supplied byte stream.
// It owns the stream exclusively: the read loop decodes and dispatches
// incoming frames, the drain loop serializes outgoing lines under the
// chat-flood budget. Everything else talks to the connection through the
// Writer or the subscription API.
type Client struct {
	config config
	logger *slog.Logger
	msink  metrics.MetricSink

	stream io.ReadWriteCloser

	queue   *writeQueue
	limiter *chatLimiter
	writer  *Writer

	disp *dispatcher
	reg  *registration

	ran atomic.Bool
	wg  sync.WaitGroup
}

// NewClient wraps an established bidirectional stream, plain or TLS; the
// client performs no connection establishment of its own.
func NewClient(stream io.ReadWriteCloser, opts ...Option) (*Client, error) {
	if stream == nil {
		return nil, ErrInvalidCfg
	}

	c := &Client{
		config: config{
			rateMessages: defaultRateMessages,
			rateWindow:   defaultRateWindow,
		},
		stream: stream,
	}
	for _, opt := range opts {
		if err := opt(&c.config); err != nil {
			return nil, err
		}
	}

	if c.config.logHandler == nil {
		c.logger = slog.Default()
	} else {
		c.logger = slog.New(c.config.logHandler)
	}
	if c.config.metricSink == nil {
		c.msink = &metrics.BlackholeSink{}
	} else {
		c.msink = c.config.metricSink
	}

	c.queue = newWriteQueue()
	c.limiter = newChatLimiter(c.config.rateMessages, c.config.rateWindow)
	c.writer = &Writer{q: c.queue, producer: c.queue.producerSeq.Add(1)}
	c.disp = newDispatcher()
	c.reg = newRegistration()
	return c, nil
}

// Writer returns the client's root Writer handle. Clone it to give other
// goroutines their own independently scheduled handle.
func (c *Client) Writer() *Writer {
	return c.writer
}

// Register submits the PASS/NICK/capability handshake. It may be called
// before Run; the commands sit in the queue until the drain loop starts.
func (c *Client) Register(cfg *UserConfig) error {
	if cfg == nil || cfg.Nick == "" || cfg.Token == "" {
		return ErrInvalidUserConfig
	}
	return c.reg.begin(cfg, func(line []byte) error {
		return c.queue.push(classControl, 0, line)
	})
}

// WaitForReady blocks until registration reaches its terminal state,
// returning the confirmed identity or ErrInvalidRegistration.
func (c *Client) WaitForReady(ctx context.Context) (RegisteredUser, error) {
	return c.reg.wait(ctx)
}

// OnPrivateMessage registers a handler for chat messages.
func (c *Client) OnPrivateMessage(fn func(PrivateMessage)) *Subscription {
	return c.disp.add(EventPrivateMessage, func(ev Event) { fn(ev.(PrivateMessage)) })
}

// OnJoin registers a handler for users entering a channel.
func (c *Client) OnJoin(fn func(Join)) *Subscription {
	return c.disp.add(EventJoin, func(ev Event) { fn(ev.(Join)) })
}

// OnPart registers a handler for users leaving a channel.
func (c *Client) OnPart(fn func(Part)) *Subscription {
	return c.disp.add(EventPart, func(ev Event) { fn(ev.(Part)) })
}

// OnUserState registers a handler for our per-channel identity updates.
func (c *Client) OnUserState(fn func(UserState)) *Subscription {
	return c.disp.add(EventUserState, func(ev Event) { fn(ev.(UserState)) })
}

// OnNotice registers a handler for server notices.
func (c *Client) OnNotice(fn func(Notice)) *Subscription {
	return c.disp.add(EventNotice, func(ev Event) { fn(ev.(Notice)) })
}

// OnPing registers a handler for keep-alives. The runtime answers them on
// its own; this is observation only.
func (c *Client) OnPing(fn func(Ping)) *Subscription {
	return c.disp.add(EventPing, func(ev Event) { fn(ev.(Ping)) })
}

// OnCapabilityAck registers a handler for capability acknowledgements.
func (c *Client) OnCapabilityAck(fn func(CapabilityAck)) *Subscription {
	return c.disp.add(EventCapAck, func(ev Event) { fn(ev.(CapabilityAck)) })
}

// OnCapabilityNak registers a handler for capability rejections.
func (c *Client) OnCapabilityNak(fn func(CapabilityNak)) *Subscription {
	return c.disp.add(EventCapNak, func(ev Event) { fn(ev.(CapabilityNak)) })
}

// OnReady registers a handler for the end of registration.
func (c *Client) OnReady(fn func(Ready)) *Subscription {
	return c.disp.add(EventReady, func(ev Event) { fn(ev.(Ready)) })
}

// OnUnknown registers a handler for frames without a typed mapping.
func (c *Client) OnUnknown(fn func(Unknown)) *Subscription {
	return c.disp.add(EventUnknown, func(ev Event) { fn(ev.(Unknown)) })
}

// Run consumes the stream until it closes or fails, dispatching events to
// the subscribers and draining the write queue. It returns nil on a clean
// EOF, the context error when ctx ended the run, and the I/O error
// otherwise. There is no reconnection.
func (c *Client) Run(ctx context.Context) error {
	if !c.ran.CompareAndSwap(false, true) {
		return ErrAlreadyRan
	}

	// Closing the stream is the one cancellation signal the read loop
	// understands.
	stop := context.AfterFunc(ctx, func() {
		_ = c.stream.Close()
	})
	defer stop()

	c.wg.Add(1)
	go c.drain(ctx)

	var runErr error
	br := bufio.NewReader(c.stream)
	for {
		line, err := br.ReadString('\n')
		if trimmed := strings.Trim(line, "\r\n"); trimmed != "" {
			c.handleLine(trimmed)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				runErr = err
			}
			break
		}
	}

	c.queue.close()
	c.reg.streamClosed()
	_ = c.stream.Close()
	c.wg.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return runErr
}

func (c *Client) handleLine(line string) {
	c.msink.IncrCounterWithLabels(MetricLinesInCount, 1, c.config.metricLabels)

	msg, err := ParseMessage(line)
	if err != nil {
		c.msink.IncrCounterWithLabels(MetricDecodeErrorCount, 1, c.config.metricLabels)
		c.logger.Debug("dropping malformed line", LabelError.L(err))
		if c.config.diagnostics != nil {
			select {
			case c.config.diagnostics <- Diagnostic{Line: line, Err: err}:
			default:
			}
		}
		return
	}

	ev := classify(msg)

	// Keep-alive replies are protocol-mandatory, not an application
	// event: answer before anything else sees the frame.
	if ping, ok := ev.(Ping); ok {
		c.msink.IncrCounterWithLabels(MetricPingCount, 1, c.config.metricLabels)
		if err := c.queue.push(classControl, 0, encodeCommand("PONG", ping.Token)); err != nil {
			c.logger.Warn("could not enqueue pong", LabelError.L(err))
		}
	}

	if c.reg.negotiating() {
		if ready := c.reg.observe(msg, ev); ready != nil {
			c.logger.Info("registration complete",
				slog.String("user_id", ready.User.ID),
				slog.String("name", ready.User.Name))
			c.dispatch(*ready)
		}
		return
	}
	c.dispatch(ev)
}

func (c *Client) dispatch(ev Event) {
	n := c.disp.dispatch(ev)
	if n > 0 {
		labels := append([]metrics.Label{LabelEvent.M(ev.Kind().String())},
			c.config.metricLabels...)
		c.msink.IncrCounterWithLabels(MetricEventCount, float32(n), labels)
	}
}

// drain moves queued lines onto the wire: control lines immediately, chat
// lines once the rolling budget admits them.
func (c *Client) drain(ctx context.Context) {
	defer c.wg.Done()
	for {
		line, class, ok := c.queue.pop()
		if !ok {
			select {
			case <-c.queue.notify:
				continue
			case <-c.queue.done:
				return
			case <-ctx.Done():
				return
			}
		}

		if class == classChat {
			if delay := c.limiter.reserve(); delay > 0 {
				c.msink.AddSampleWithLabels(MetricRateWaitSeconds,
					float32(delay.Seconds()), c.config.metricLabels)
				if !c.parkFor(ctx, delay) {
					return
				}
			}
		}

		if err := c.writeLine(line); err != nil {
			return
		}
	}
}

// parkFor waits out a rate-limit delay while still flushing control lines
// the moment they arrive. It reports false when the run is over.
func (c *Client) parkFor(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	for {
		select {
		case <-timer.C:
			return true
		case <-c.queue.notify:
			for {
				ctrl, ok := c.queue.popControl()
				if !ok {
					break
				}
				if err := c.writeLine(ctrl); err != nil {
					return false
				}
			}
		case <-c.queue.done:
			return false
		case <-ctx.Done():
			return false
		}
	}
}

func (c *Client) writeLine(line []byte) error {
	if bytes.HasPrefix(line, []byte("PASS ")) {
		c.logger.Debug("-> PASS ********* (redacted)")
	} else {
		c.logger.Debug("-> " + string(bytes.TrimRight(line, "\r\n")))
	}

	if _, err := c.stream.Write(line); err != nil {
		c.msink.IncrCounterWithLabels(MetricWriteErrorCount, 1, c.config.metricLabels)
		c.logger.Error("write failed", LabelError.L(err))
		c.queue.close()
		_ = c.stream.Close()
		return err
	}
	c.msink.IncrCounterWithLabels(MetricLinesOutCount, 1, c.config.metricLabels)
	return nil
}
