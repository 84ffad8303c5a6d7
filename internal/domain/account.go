package domain

import (
	"context"
	"time"
)

// Account is a credential record held by the local identity provider.
type Account struct {
	ID           int64
	UID          string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountRepository defines persistence operations for provider accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id int64) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
}
