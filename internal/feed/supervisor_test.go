package feed

import (
	"context"
	"testing"
	"time"

	"github.com/coder/websocket"
)

func TestSupervisorRedialsAfterClosure(t *testing.T) {
	ps := newPushServer(t)

	sup := Supervise(context.Background(), ps.wsURL(), feedLogger())
	defer sup.Close()

	// First connection: push one item, then drop the connection.
	conn := ps.accepted(t)
	ps.push(t, conn, `{"id":"one"}`)

	select {
	case ev := <-sup.Events():
		if ev.Item == nil || ev.Item.ID != "one" {
			t.Fatalf("unexpected first event: %+v", ev.Item)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event from first connection")
	}

	_ = conn.Close(websocket.StatusGoingAway, "restart")

	// The supervisor re-dials on its own; the second connection delivers.
	conn2 := ps.accepted(t)
	ps.push(t, conn2, `{"id":"two"}`)

	select {
	case ev := <-sup.Events():
		if ev.Item == nil || ev.Item.ID != "two" {
			t.Fatalf("unexpected second event: %+v", ev.Item)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("no event after reconnect")
	}

	if got := ps.accepts.Load(); got < 2 {
		t.Errorf("expected at least 2 connections, saw %d", got)
	}
}

func TestSupervisorCloseEndsStream(t *testing.T) {
	ps := newPushServer(t)

	sup := Supervise(context.Background(), ps.wsURL(), feedLogger())
	ps.accepted(t)

	sup.Close()

	select {
	case _, ok := <-sup.Events():
		if ok {
			t.Error("expected closed event stream")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event stream not closed after Close")
	}
}

func TestSupervisorStopsWithParentContext(t *testing.T) {
	ps := newPushServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	sup := Supervise(ctx, ps.wsURL(), feedLogger())
	ps.accepted(t)

	cancel()

	select {
	case _, ok := <-sup.Events():
		if ok {
			t.Error("expected closed event stream")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event stream not closed after context cancellation")
	}
	sup.Close()
}
