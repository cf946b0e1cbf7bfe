// Package state holds the process-wide authentication state of the client.
//
// The Provider is an explicit, injectable container — never an ambient
// global. It is initialized once from the session store at startup and
// mutated only through its Login/Logout actions, which update the store and
// the exposed state together, so the two can never disagree. Staleness is
// resolved lazily: there is no background refresh and no expiry timer.
package state

import (
	"context"
	"sync"

	"github.com/publimatch/publimatch-cli/internal/client/api"
	"github.com/publimatch/publimatch-cli/internal/client/services"
	"github.com/publimatch/publimatch-cli/internal/client/session"
)

// Snapshot is the view of the auth state handed to subscribers.
type Snapshot struct {
	Authenticated bool
	User          *api.User
}

// Provider exposes the current auth state and the actions that change it.
type Provider struct {
	auth services.AuthService

	mu   sync.RWMutex
	user *api.User

	subMu sync.Mutex
	subs  []func(Snapshot)
}

// NewProvider builds the provider and initializes it from the session store.
// A read failure is not fatal: the client starts unauthenticated and the
// user logs in again.
func NewProvider(ctx context.Context, auth services.AuthService, store session.Store) (*Provider, error) {
	p := &Provider{auth: auth}

	sess, ok, err := store.Read(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		u := sess.User
		p.user = &u
	}
	return p, nil
}

// Authenticated reports whether a user is currently logged in.
func (p *Provider) Authenticated() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.user != nil
}

// User returns a copy of the current user profile, or nil when logged out.
func (p *Provider) User() *api.User {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.user == nil {
		return nil
	}
	u := *p.user
	return &u
}

// Subscribe registers fn to be called after every state change. Callbacks
// run synchronously on the mutating goroutine, outside the state lock.
func (p *Provider) Subscribe(fn func(Snapshot)) {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	p.subs = append(p.subs, fn)
}

func (p *Provider) notify() {
	snap := Snapshot{Authenticated: p.Authenticated(), User: p.User()}

	p.subMu.Lock()
	subs := make([]func(Snapshot), len(p.subs))
	copy(subs, p.subs)
	p.subMu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// Login authenticates through the auth service and reflects the result. On
// failure the state is explicitly logged out (the service has already
// cleared the store) before the error is returned, so state and store agree
// on every exit path.
func (p *Provider) Login(ctx context.Context, creds api.Credentials) error {
	sess, err := p.auth.Login(ctx, creds)

	p.mu.Lock()
	if err != nil {
		p.user = nil
	} else {
		u := sess.User
		p.user = &u
	}
	p.mu.Unlock()

	p.notify()
	return err
}

// Logout clears the store (via the auth service) and the exposed state.
func (p *Provider) Logout(ctx context.Context) {
	p.auth.Logout(ctx)

	p.mu.Lock()
	p.user = nil
	p.mu.Unlock()

	p.notify()
}
