package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/badoux/checkmail"
)

var ErrInvalidEmail = errors.New("email address is not valid")

const maxEmailLength = 254

// User mirrors the profile the identity provider reports for a subject.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type UserRepository interface {
	Upsert(ctx context.Context, user *User) error
	FindByID(ctx context.Context, userID string) (*User, error)
}

// AccountBootstrapper is the slice of the account service sign-in
// finalization needs.
type AccountBootstrapper interface {
	EnsureDefaultAccounts(ctx context.Context, userID string) error
}

type Service interface {
	AccessTokenMiddleware() func(http.Handler) http.Handler
	// FinalizeSignIn upserts the user's profile from a verified token and
	// makes sure the default accounts exist. Idempotent; the front end
	// calls it after every provider sign-in.
	FinalizeSignIn(ctx context.Context, tokenString string) (*User, error)
}

type service struct {
	verifier TokenVerifier
	users    UserRepository
	accounts AccountBootstrapper
}

func NewService(verifier TokenVerifier, users UserRepository, accounts AccountBootstrapper) Service {
	return &service{
		verifier: verifier,
		users:    users,
		accounts: accounts,
	}
}

func (s *service) FinalizeSignIn(ctx context.Context, tokenString string) (*User, error) {
	claims, err := s.verifier.Claims(tokenString)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(strings.ToLower(claims.Email))
	if email != "" {
		if len(email) > maxEmailLength {
			return nil, ErrInvalidEmail
		}
		if err := checkmail.ValidateFormat(email); err != nil {
			return nil, ErrInvalidEmail
		}
	}

	user := &User{
		ID:        claims.Subject,
		Email:     email,
		Name:      claims.Name,
		Picture:   claims.Picture,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, err
	}
	if err := s.accounts.EnsureDefaultAccounts(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}
