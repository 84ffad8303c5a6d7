// Package session mirrors the asynchronous identity provider into a
// synchronously readable, process-wide session snapshot.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/koverin/shopstore/internal/domain"
)

// Store is the single point of truth for "who is signed in". One instance
// exists per process; it owns exactly one subscription to the provider's
// state-change stream and overwrites its snapshot on every event, last
// delivered wins.
//
// Login and Logout delegate to the provider and resolve when the provider
// confirms the request. They never mutate the snapshot themselves — the
// snapshot changes only when the provider's own change event arrives, so a
// caller must not assume the snapshot is already updated when Login returns.
// Callers that need the updated snapshot should wait for a Subscribe
// notification instead.
type Store struct {
	provider domain.Provider

	mu          sync.Mutex
	initialized bool
	closed      bool
	unsubscribe func()
	current     domain.Session

	nextSubID int
	subs      []subscriber
}

type subscriber struct {
	id int
	fn func(domain.Session)
}

// NewStore creates a session store in the Uninitialized phase.
func NewStore(provider domain.Provider) *Store {
	return &Store{
		provider: provider,
		current:  domain.Session{Phase: domain.SessionUninitialized},
	}
}

// Initialize registers the upstream provider subscription. The first event
// received moves the session out of Uninitialized. Calling Initialize again
// is a no-op; nothing else guards against a duplicate subscription, so the
// guard here is explicit.
func (s *Store) Initialize() {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return
	}
	s.initialized = true
	s.mu.Unlock()

	// Register outside the lock: providers may deliver the initial state
	// from within OnStateChange.
	unsub := s.provider.OnStateChange(s.apply)

	s.mu.Lock()
	if s.closed {
		// Close ran while the subscription was being registered; drop it
		// instead of leaking an upstream listener.
		s.mu.Unlock()
		unsub()
		return
	}
	s.unsubscribe = unsub
	s.mu.Unlock()
}

// Close drops the upstream subscription. Intended for process teardown and
// per-test stores.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Login delegates a credential exchange to the provider. A nil return means
// the provider accepted the request, not that the session snapshot has
// already updated. Failures carry a *domain.AuthError.
func (s *Store) Login(ctx context.Context, email, password string) error {
	return wrapAuthErr(s.provider.SignIn(ctx, email, password))
}

// Logout delegates sign-out to the provider, with the same completion
// semantics as Login.
func (s *Store) Logout(ctx context.Context) error {
	return wrapAuthErr(s.provider.SignOut(ctx))
}

// CurrentUser returns the identity from the latest snapshot, or nil when
// anonymous or uninitialized.
func (s *Store) CurrentUser() *domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.User
}

// Current returns the latest session snapshot.
func (s *Store) Current() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers a listener notified once per session transition, in
// registration order. Listeners must not call back into the store.
func (s *Store) Subscribe(fn func(domain.Session)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// apply overwrites the snapshot with a provider event and fans out to
// subscribers in registration order.
func (s *Store) apply(identity *domain.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if identity != nil {
		s.current = domain.Session{Phase: domain.SessionAuthenticated, User: identity}
	} else {
		s.current = domain.Session{Phase: domain.SessionAnonymous}
	}

	for _, sub := range s.subs {
		sub.fn(s.current)
	}
}

func wrapAuthErr(err error) error {
	if err == nil {
		return nil
	}
	var ae *domain.AuthError
	if errors.As(err, &ae) {
		return err
	}
	return &domain.AuthError{Code: domain.AuthCodeUnknown, Err: err}
}
