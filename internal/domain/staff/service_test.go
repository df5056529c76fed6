package staff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/retinascan/retinascan/internal/platform/auth"
)

// -- Mock Repository --

type mockRepo struct {
	users map[string]*User
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: make(map[string]*User)}
}

func (m *mockRepo) Create(_ context.Context, u *User) error {
	if _, ok := m.users[u.Username]; ok {
		return ErrUserExists
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	m.users[u.Username] = u
	return nil
}

func (m *mockRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// -- Tests --

var testSecret = []byte("test-secret")

func newTestService() *Service {
	return NewService(newMockRepo(), testSecret, "clinic-admin-key")
}

func TestRegister_And_Login(t *testing.T) {
	svc := newTestService()

	u, err := svc.Register(context.Background(), "Dr.Smith", "correct-horse-battery", "clinic-admin-key")
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if u.Username != "dr.smith" {
		t.Errorf("expected lowercased username, got %s", u.Username)
	}
	if u.PasswordHash == "correct-horse-battery" {
		t.Error("password must not be stored in plaintext")
	}

	token, err := svc.Login(context.Background(), "DR.SMITH", "correct-horse-battery")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	claims, err := auth.ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseToken() error: %v", err)
	}
	if claims.Username != "dr.smith" {
		t.Errorf("expected dr.smith in claims, got %s", claims.Username)
	}
}

func TestRegister_RequiresAdminKey(t *testing.T) {
	svc := newTestService()

	if _, err := svc.Register(context.Background(), "dr.smith", "correct-horse-battery", "wrong"); !errors.Is(err, ErrBadAdminKey) {
		t.Errorf("expected ErrBadAdminKey, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "dr.smith", "correct-horse-battery", ""); !errors.Is(err, ErrBadAdminKey) {
		t.Errorf("expected ErrBadAdminKey for empty key, got %v", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := newTestService()

	if _, err := svc.Register(context.Background(), "dr.smith", "correct-horse-battery", "clinic-admin-key"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if _, err := svc.Register(context.Background(), "DR.Smith", "another-password-1", "clinic-admin-key"); !errors.Is(err, ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := newTestService()

	if _, err := svc.Register(context.Background(), "dr.smith", "short", "clinic-admin-key"); err == nil {
		t.Error("expected an error for short password")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := newTestService()

	if _, err := svc.Register(context.Background(), "dr.smith", "correct-horse-battery", "clinic-admin-key"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	if _, err := svc.Login(context.Background(), "dr.smith", "wrong-password"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("expected ErrBadCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody", "correct-horse-battery"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("expected ErrBadCredentials for unknown user, got %v", err)
	}
}
