package domain

import (
	"context"
	"fmt"
)

// Identity is the signed-in user as reported by the identity provider.
type Identity struct {
	UID   string
	Email string
}

// Provider is the external identity provider contract. SignIn and SignOut
// resolve when the provider confirms the request; neither mutates the
// session snapshot directly. State reaches observers only through the
// OnStateChange stream, which also delivers the current state (possibly nil)
// to every new subscriber.
type Provider interface {
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	OnStateChange(fn func(*Identity)) (unsubscribe func())
}

// AuthCode classifies provider failures.
type AuthCode string

const (
	AuthCodeInvalidCredential AuthCode = "invalid-credential"
	AuthCodeNetwork           AuthCode = "network"
	AuthCodeUnknown           AuthCode = "unknown"
)

// AuthError is a provider-level login/logout failure.
type AuthError struct {
	Code AuthCode
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("auth: %s", e.Code)
}

func (e *AuthError) Unwrap() error { return e.Err }
