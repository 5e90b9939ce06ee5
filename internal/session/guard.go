// Package session holds the client's view of the authenticated session.
//
// A single Guard owns the session state; nothing else mutates it. Consumers
// that need to react to sign-in/sign-out (views guarding admin-only
// surfaces) subscribe for change notifications instead of polling, and every
// subscription carries an explicit unsubscribe.
package session

import (
	"context"
	"log"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/teknohive/fessctl/internal/api"
)

// User is the authenticated identity.
type User struct {
	ID      string
	Name    string
	Email   string
	Picture string
	IsAdmin bool
}

// State is the session state at one point in time.
type State struct {
	User          *User
	Authenticated bool
}

// IsAdmin reports whether the session carries the admin role.
func (s State) IsAdmin() bool {
	return s.Authenticated && s.User != nil && s.User.IsAdmin
}

// Identity is the remote identity surface the guard checks against.
type Identity interface {
	SessionCheck(ctx context.Context) (api.SessionStatus, error)
	Logout(ctx context.Context) error
}

// Guard is the sole owner and mutator of session state.
type Guard struct {
	identity Identity
	logger   *log.Logger

	// synthID identifies sessions the server confirmed with a non-JSON
	// body. Generated once so repeated checks see the same identifier.
	synthID string

	mu      sync.Mutex
	state   State
	nextSub int
	subs    map[int]chan State
}

// New creates a guard in the unauthenticated state.
func New(identity Identity, logger *log.Logger) *Guard {
	if logger == nil {
		logger = log.New(os.Stderr, "[session] ", log.LstdFlags)
	}
	return &Guard{
		identity: identity,
		logger:   logger,
		synthID:  uuid.NewString(),
		subs:     make(map[int]chan State),
	}
}

// State returns the current session state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// CheckStatus performs a credentialed check against the identity endpoint and
// commits the outcome.
//
// The call is re-entrant: overlapping calls each commit on completion, so the
// settled state is whichever check resolved last. Errors commit the
// unauthenticated state; there is no lingering intermediate condition.
func (g *Guard) CheckStatus(ctx context.Context) (State, error) {
	status, err := g.identity.SessionCheck(ctx)
	if err != nil {
		g.logger.Printf("session check failed: %v", err)
		return g.commit(State{}), err
	}

	if !status.Authenticated {
		return g.commit(State{}), nil
	}

	user := g.toUser(status.User)
	return g.commit(State{User: user, Authenticated: true}), nil
}

// toUser maps the wire identity, synthesizing a minimal record when the
// server confirmed the session without a JSON body.
func (g *Guard) toUser(u *api.SessionUser) *User {
	if u == nil {
		return &User{ID: g.synthID}
	}
	return &User{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Picture: u.Picture,
		IsAdmin: u.IsAdmin,
	}
}

// SignOut performs the best-effort server-side logout and clears local state.
// Local state is cleared even when the server call fails; the returned error
// is informational.
func (g *Guard) SignOut(ctx context.Context) error {
	err := g.identity.Logout(ctx)
	if err != nil {
		g.logger.Printf("server logout failed, clearing local session anyway: %v", err)
	}
	g.commit(State{})
	return err
}

// Subscribe registers for state-change notifications. Delivery is single-slot
// per subscriber: a slow consumer observes the latest state, not every
// intermediate one. The returned function cancels the subscription; callers
// must invoke it when the consuming view goes away.
func (g *Guard) Subscribe() (<-chan State, func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.nextSub
	g.nextSub++
	ch := make(chan State, 1)
	g.subs[id] = ch

	cancel := func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if _, ok := g.subs[id]; ok {
			delete(g.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// commit stores the new state and notifies subscribers.
func (g *Guard) commit(st State) State {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state = st
	for _, ch := range g.subs {
		select {
		case ch <- st:
		default:
			// Slot occupied: replace the stale value with the latest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- st:
			default:
			}
		}
	}
	return st
}

// RequireAuth returns ErrAuthRequired when there is no session.
func (g *Guard) RequireAuth() error {
	if !g.State().Authenticated {
		return api.ErrAuthRequired
	}
	return nil
}

// RequireAdmin returns ErrAuthRequired without a session and ErrAuthForbidden
// for a session without the admin role.
func (g *Guard) RequireAdmin() error {
	st := g.State()
	if !st.Authenticated {
		return api.ErrAuthRequired
	}
	if !st.IsAdmin() {
		return api.ErrAuthForbidden
	}
	return nil
}
