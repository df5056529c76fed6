package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/retinascan/retinascan/internal/platform/auth"
)

var (
	// ErrBadCredentials covers both unknown usernames and wrong passwords so
	// login responses do not reveal which one failed.
	ErrBadCredentials = errors.New("invalid username or password")
	// ErrBadAdminKey is returned when registration is attempted without the
	// clinic admin key.
	ErrBadAdminKey = errors.New("invalid admin key")
)

type Service struct {
	repo        Repository
	jwtSecret   []byte
	adminSecret string
}

func NewService(repo Repository, jwtSecret []byte, adminSecret string) *Service {
	return &Service{repo: repo, jwtSecret: jwtSecret, adminSecret: adminSecret}
}

// Register creates a clinician account. Account creation is gated on the
// clinic admin key rather than open self-signup.
func (s *Service) Register(ctx context.Context, username, password, adminKey string) (*User, error) {
	if s.adminSecret == "" || adminKey != s.adminSecret {
		return nil, ErrBadAdminKey
	}

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{Username: username, PasswordHash: string(hash)}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and returns a signed session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrBadCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrBadCredentials
	}

	return auth.IssueToken(s.jwtSecret, u.Username, time.Now())
}
