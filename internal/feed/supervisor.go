package feed

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Supervisor keeps a push subscription alive across connection loss.
//
// The Channel contract deliberately excludes reconnection; consumers that
// need "always live" data wrap one in a Supervisor, which re-dials with
// exponential backoff and forwards events into its own single-slot stream.
// The two layers stay decoupled: a supervised channel is still opened and
// torn down through the ordinary Dial/Close contract.
type Supervisor struct {
	url    string
	logger *log.Logger

	events chan Event

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Supervise starts a supervised subscription to url. The returned supervisor
// must be Closed when the consuming view goes away.
func Supervise(ctx context.Context, url string, logger *log.Logger) *Supervisor {
	if logger == nil {
		logger = log.New(os.Stderr, "[feed] ", log.LstdFlags)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s := &Supervisor{
		url:    url,
		logger: logger,
		events: make(chan Event, 1),
		ctx:    runCtx,
		cancel: cancel,
	}

	s.wg.Add(1)
	go s.run()

	return s
}

// Events returns the supervised event stream. Single-slot, like the
// underlying channel's. Closed when the supervisor is closed.
func (s *Supervisor) Events() <-chan Event {
	return s.events
}

// Close stops supervising and tears down any live connection.
func (s *Supervisor) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *Supervisor) run() {
	defer s.wg.Done()
	defer close(s.events)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 0 // retry for as long as the view is active

	for {
		if s.ctx.Err() != nil {
			return
		}

		ch, err := Dial(s.ctx, s.url, s.logger)
		if err != nil {
			wait := bo.NextBackOff()
			s.logger.Printf("dial %s failed, retrying in %v: %v", s.url, wait.Round(time.Millisecond), err)
			if !s.sleep(wait) {
				return
			}
			continue
		}

		bo.Reset()
		s.forward(ch)
		ch.Close()

		if s.ctx.Err() != nil {
			return
		}
		if !s.sleep(bo.NextBackOff()) {
			return
		}
	}
}

// forward relays events until the channel's stream ends or the supervisor is
// closed.
func (s *Supervisor) forward(ch *Channel) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case ev, ok := <-ch.Events():
			if !ok {
				return
			}
			s.publish(ev)
		}
	}
}

// publish mirrors the channel's single-slot semantics.
func (s *Supervisor) publish(ev Event) {
	select {
	case s.events <- ev:
	default:
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- ev:
		default:
		}
	}
}

// sleep waits for d, returning false when the supervisor was closed first.
func (s *Supervisor) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-s.ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
