package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/koverin/shopstore/internal/domain"
)

const tokenTTL = 24 * time.Hour

// AuthService issues and validates the JWT tokens that carry a signed-in
// account through the HTTP surface. Credential verification itself lives in
// the identity provider; this service only mints tokens for accounts the
// provider has already accepted.
type AuthService struct {
	accounts  domain.AccountRepository
	jwtSecret []byte
}

// NewAuthService creates a new AuthService.
func NewAuthService(accounts domain.AccountRepository, jwtSecret string) *AuthService {
	return &AuthService{accounts: accounts, jwtSecret: []byte(jwtSecret)}
}

// IssueToken returns a signed JWT for the given account.
func (s *AuthService) IssueToken(account *domain.Account) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(account.ID, 10),
		"uid":   account.UID,
		"email": account.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT token string.
// Returns the account ID from the sub claim.
func (s *AuthService) ValidateToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return 0, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, domain.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, domain.ErrUnauthorized
	}

	accountID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, domain.ErrUnauthorized
	}

	return accountID, nil
}

// GetAccountByID retrieves an account by its ID.
func (s *AuthService) GetAccountByID(ctx context.Context, id int64) (*domain.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// GetAccountByEmail retrieves an account by its email.
func (s *AuthService) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return s.accounts.GetByEmail(ctx, email)
}
