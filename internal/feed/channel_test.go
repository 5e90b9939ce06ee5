package feed

import (
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/websocket"
)

// pushServer is a minimal WebSocket push endpoint for tests: it hands each
// accepted connection to the test body for scripted writes.
type pushServer struct {
	srv     *httptest.Server
	conns   chan *websocket.Conn
	accepts atomic.Int32
}

func newPushServer(t *testing.T) *pushServer {
	t.Helper()

	ps := &pushServer{conns: make(chan *websocket.Conn, 4)}
	ps.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Logf("accept failed: %v", err)
			return
		}
		ps.accepts.Add(1)
		ps.conns <- conn
	}))
	t.Cleanup(ps.srv.Close)
	return ps
}

func (ps *pushServer) wsURL() string {
	return "ws://" + strings.TrimPrefix(ps.srv.URL, "http://")
}

// accepted returns the next accepted server-side connection.
func (ps *pushServer) accepted(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case conn := <-ps.conns:
		return conn
	case <-time.After(5 * time.Second):
		t.Fatal("no connection accepted")
		return nil
	}
}

func (ps *pushServer) push(t *testing.T, conn *websocket.Conn, payload string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.Write(ctx, websocket.MessageText, []byte(payload)); err != nil {
		t.Fatalf("failed to push frame: %v", err)
	}
}

func feedLogger() *log.Logger {
	return log.New(os.Stderr, "[test] ", 0)
}

func dialTest(t *testing.T, url string) *Channel {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ch, err := Dial(ctx, url, feedLogger())
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	t.Cleanup(ch.Close)
	return ch
}

func TestChannelDeliversDecodedItem(t *testing.T) {
	ps := newPushServer(t)
	ch := dialTest(t, ps.wsURL())
	conn := ps.accepted(t)

	ps.push(t, conn, `{"id":"b","content":"pushed"}`)

	select {
	case ev := <-ch.Events():
		if ev.Err != nil {
			t.Fatalf("unexpected decode error: %v", ev.Err)
		}
		if ev.Item == nil || ev.Item.ID != "b" {
			t.Errorf("unexpected item: %+v", ev.Item)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event delivered")
	}
}

func TestChannelSurfacesUndecodableFrame(t *testing.T) {
	ps := newPushServer(t)
	ch := dialTest(t, ps.wsURL())
	conn := ps.accepted(t)

	ps.push(t, conn, "definitely not json")

	select {
	case ev := <-ch.Events():
		if ev.Err == nil {
			t.Error("expected a decode error")
		}
		if ev.Item != nil {
			t.Errorf("expected no item, got %+v", ev.Item)
		}
		if string(ev.Raw) != "definitely not json" {
			t.Errorf("raw payload must be surfaced as-is, got %q", ev.Raw)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event delivered")
	}
}

func TestChannelSingleSlotKeepsLatest(t *testing.T) {
	ps := newPushServer(t)
	ch := dialTest(t, ps.wsURL())
	conn := ps.accepted(t)

	// Two frames before the consumer reacts: the stale one is displaced.
	ps.push(t, conn, `{"id":"first"}`)
	ps.push(t, conn, `{"id":"second"}`)
	time.Sleep(200 * time.Millisecond)

	select {
	case ev := <-ch.Events():
		if ev.Item == nil || ev.Item.ID != "second" {
			t.Errorf("expected the latest event to survive, got %+v", ev.Item)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event delivered")
	}
}

func TestChannelCloseEndsStream(t *testing.T) {
	ps := newPushServer(t)
	ch := dialTest(t, ps.wsURL())
	ps.accepted(t)

	ch.Close()

	select {
	case _, ok := <-ch.Events():
		if ok {
			t.Error("expected closed event stream")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event stream not closed after Close")
	}
}

func TestChannelDoesNotReconnect(t *testing.T) {
	ps := newPushServer(t)
	ch := dialTest(t, ps.wsURL())
	conn := ps.accepted(t)

	_ = conn.Close(websocket.StatusGoingAway, "server going down")

	// Stream ends; the channel must not dial again on its own.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-ch.Events():
			if !ok {
				goto closed
			}
		case <-deadline:
			t.Fatal("event stream not closed after server closure")
		}
	}
closed:
	time.Sleep(300 * time.Millisecond)
	if got := ps.accepts.Load(); got != 1 {
		t.Errorf("channel must not reconnect on its own, saw %d connections", got)
	}
}
