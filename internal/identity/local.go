// Package identity provides the identity provider the session store
// bridges. LocalProvider implements the provider contract against the
// application's own account database.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/koverin/shopstore/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// LocalProvider verifies credentials against the account repository and
// reports sign-in state through an asynchronous change-event stream, the
// same shape the session store would see from a hosted identity service:
// events are delivered on a dispatch goroutine, never from inside SignIn or
// SignOut, and every new subscriber receives the current state first.
type LocalProvider struct {
	accounts   domain.AccountRepository
	bcryptCost int

	mu        sync.Mutex
	current   *domain.Identity
	nextSubID int
	subs      []subscriber

	// sendMu gates event enqueueing against Close: senders hold the read
	// side for the duration of the send, Close takes the write side before
	// closing the channel.
	sendMu sync.RWMutex
	closed bool

	events chan event
	done   chan struct{}
}

type subscriber struct {
	id int
	fn func(*domain.Identity)
}

type event struct {
	identity *domain.Identity
	target   int // subscriber id for an initial-state replay, or broadcast
}

const broadcast = -1

// NewLocalProvider creates a provider and starts its event dispatcher.
func NewLocalProvider(accounts domain.AccountRepository, bcryptCost int) *LocalProvider {
	p := &LocalProvider{
		accounts:   accounts,
		bcryptCost: bcryptCost,
		events:     make(chan event, 16),
		done:       make(chan struct{}),
	}
	go p.dispatch()
	return p
}

// Close stops the event dispatcher. Pending events are delivered first.
// Close is idempotent; calls into the provider after Close still verify
// credentials but their state-change events are discarded.
func (p *LocalProvider) Close() {
	p.sendMu.Lock()
	if p.closed {
		p.sendMu.Unlock()
		<-p.done
		return
	}
	p.closed = true
	p.sendMu.Unlock()

	close(p.events)
	<-p.done
}

// SignIn verifies the credentials and, on success, queues an authenticated
// state-change event. The returned error is always a *domain.AuthError.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) error {
	account, err := p.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.AuthError{Code: domain.AuthCodeInvalidCredential}
		}
		return &domain.AuthError{Code: domain.AuthCodeNetwork, Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return &domain.AuthError{Code: domain.AuthCodeInvalidCredential}
	}

	p.setCurrent(identityOf(account))
	return nil
}

// SignUp creates an account and signs it in, mirroring the
// create-then-signed-in behavior of hosted providers.
func (p *LocalProvider) SignUp(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{Email: email, PasswordHash: string(hash)}
	if err := p.accounts.Create(ctx, account); err != nil {
		return fmt.Errorf("create account: %w", err)
	}

	p.setCurrent(identityOf(account))
	return nil
}

// SignOut clears the signed-in state and queues an anonymous event.
func (p *LocalProvider) SignOut(ctx context.Context) error {
	p.setCurrent(nil)
	return nil
}

// OnStateChange registers a state listener. The current state (possibly
// nil) is delivered to the new listener asynchronously before any
// subsequent transitions.
func (p *LocalProvider) OnStateChange(fn func(*domain.Identity)) func() {
	p.mu.Lock()
	id := p.nextSubID
	p.nextSubID++
	p.subs = append(p.subs, subscriber{id: id, fn: fn})
	current := p.current
	p.mu.Unlock()

	p.enqueue(event{identity: current, target: id})

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, s := range p.subs {
			if s.id == id {
				p.subs = append(p.subs[:i], p.subs[i+1:]...)
				return
			}
		}
	}
}

func (p *LocalProvider) setCurrent(identity *domain.Identity) {
	p.mu.Lock()
	p.current = identity
	p.mu.Unlock()
	p.enqueue(event{identity: identity, target: broadcast})
}

// enqueue queues an event for dispatch, dropping it if the provider has been
// closed. Holding the read lock across the send keeps Close from closing the
// channel underneath an in-flight sender.
func (p *LocalProvider) enqueue(ev event) {
	p.sendMu.RLock()
	defer p.sendMu.RUnlock()
	if p.closed {
		return
	}
	p.events <- ev
}

// dispatch delivers events one at a time, preserving their order, to
// subscribers in registration order.
func (p *LocalProvider) dispatch() {
	defer close(p.done)
	for ev := range p.events {
		p.mu.Lock()
		subs := make([]subscriber, len(p.subs))
		copy(subs, p.subs)
		p.mu.Unlock()

		for _, s := range subs {
			if ev.target == broadcast || ev.target == s.id {
				s.fn(ev.identity)
			}
		}
	}
}

func identityOf(account *domain.Account) *domain.Identity {
	uid := account.UID
	if uid == "" {
		uid = strconv.FormatInt(account.ID, 10)
	}
	return &domain.Identity{UID: uid, Email: account.Email}
}

var _ domain.Provider = (*LocalProvider)(nil)
