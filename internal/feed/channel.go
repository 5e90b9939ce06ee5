// Package feed receives pushed board items over a WebSocket connection.
//
// A Channel is one connection for one active view; the view opens it when it
// becomes active and must Close it when it stops being active. The channel
// itself never reconnects: an unexpected closure ends the event stream and
// the caller decides whether to re-open (or wraps the channel in a
// Supervisor, which retries with backoff).
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/coder/websocket"

	"github.com/teknohive/fessctl/internal/board"
)

// Event is one inbound frame.
//
// When the frame decoded as a board item, Item is set. When it did not, the
// raw payload is surfaced as-is together with the decode error rather than
// being discarded; the consumer decides whether an undecodable payload is
// usable.
type Event struct {
	Item *board.Item
	Raw  []byte
	Err  error
}

// Channel is a single push-subscription connection.
type Channel struct {
	url    string
	conn   *websocket.Conn
	logger *log.Logger

	// events is single-slot: only the most recent undelivered event is
	// retained. A consumer slow to observe one event may miss an
	// intermediate one if two arrive before it reacts. This lossy
	// delivery is an accepted trade-off of the live view, not a defect.
	events chan Event

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Dial opens the push connection and starts reading frames.
//
// The caller owns the returned channel and must Close it when the consuming
// view goes away; a lingering socket is a resource leak.
func Dial(ctx context.Context, url string, logger *log.Logger) (*Channel, error) {
	if logger == nil {
		logger = log.New(os.Stderr, "[feed] ", log.LstdFlags)
	}

	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	c := &Channel{
		url:    url,
		conn:   conn,
		logger: logger,
		events: make(chan Event, 1),
		ctx:    runCtx,
		cancel: cancel,
	}

	c.wg.Add(1)
	go c.readLoop()

	return c, nil
}

// Events returns the inbound event stream. The stream is closed when the
// connection ends, whether by Close or by the server.
func (c *Channel) Events() <-chan Event {
	return c.events
}

// Close tears down the connection. Safe to call more than once.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		_ = c.conn.Close(websocket.StatusNormalClosure, "")
	})
	c.wg.Wait()
}

// readLoop reads frames until the connection ends. Connection errors are
// logged here and terminate the stream; they never crash the consuming view.
func (c *Channel) readLoop() {
	defer c.wg.Done()
	defer close(c.events)

	for {
		_, data, err := c.conn.Read(c.ctx)
		if err != nil {
			if c.ctx.Err() == nil && !errors.Is(err, context.Canceled) {
				c.logger.Printf("connection to %s closed: %v", c.url, err)
			}
			return
		}
		c.publish(decodeFrame(data))
	}
}

// decodeFrame attempts a structured decode; on failure the raw payload is
// kept in the event instead of being dropped.
func decodeFrame(data []byte) Event {
	var item board.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return Event{Raw: data, Err: err}
	}
	return Event{Item: &item, Raw: data}
}

// publish places ev in the single slot, displacing a stale undelivered event.
func (c *Channel) publish(ev Event) {
	select {
	case c.events <- ev:
	default:
		select {
		case <-c.events:
		default:
		}
		select {
		case c.events <- ev:
		default:
		}
	}
}
