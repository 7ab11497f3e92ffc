package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/palavramestre/internal/store"
)

type memUsers struct {
	byID map[string]store.User
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]store.User{}} }

func (m *memUsers) CreateUser(ctx context.Context, u store.User) error {
	for _, x := range m.byID {
		if x.Username == u.Username {
			return store.ErrConflict
		}
	}
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) UserByUsername(ctx context.Context, name string) (*store.User, error) {
	for _, x := range m.byID {
		if x.Username == name {
			u := x
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memUsers) UserByID(ctx context.Context, id string) (*store.User, error) {
	if x, ok := m.byID[id]; ok {
		return &x, nil
	}
	return nil, store.ErrNotFound
}

func TestSignupLoginVerify(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemUsers(), "secret", time.Hour)

	u, err := svc.Signup(ctx, " ana_1 ", "correct horse")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if u.Username != "ana_1" || u.PasswordHash == "correct horse" {
		t.Fatalf("unexpected user %+v", u)
	}
	if _, err := svc.Signup(ctx, "ana_1", "another pass"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("duplicate signup: %v, want %v", err, ErrUsernameTaken)
	}
	if _, err := svc.Login(ctx, "ana_1", "wrong pass!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password: %v, want %v", err, ErrInvalidCredentials)
	}
	if _, err := svc.Login(ctx, "nobody", "whatever1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: %v, want %v", err, ErrInvalidCredentials)
	}
	logged, err := svc.Login(ctx, "ana_1", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	tok, exp, err := svc.Sign(logged)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if time.Until(exp) > time.Hour {
		t.Fatalf("expiry %v beyond ttl", exp)
	}
	got, err := svc.Verify(ctx, tok)
	if err != nil || got.ID != u.ID {
		t.Fatalf("Verify = %+v, %v", got, err)
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	svc := NewService(users, "secret", time.Hour)
	u, err := svc.Signup(ctx, "bia", "password1")
	if err != nil {
		t.Fatal(err)
	}
	tok, _, _ := svc.Sign(u)

	other := NewService(users, "other-secret", time.Hour)
	if _, err := other.Verify(ctx, tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret: %v, want %v", err, ErrInvalidToken)
	}
	if _, err := svc.Verify(ctx, "not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage: %v, want %v", err, ErrInvalidToken)
	}

	expired := NewService(users, "secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, _, _ := expired.Sign(u)
	if _, err := svc.Verify(ctx, old); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired: %v, want %v", err, ErrInvalidToken)
	}

	delete(users.byID, u.ID)
	if _, err := svc.Verify(ctx, tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("deleted user: %v, want %v", err, ErrInvalidToken)
	}
}

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		user, pass string
		ok         bool
	}{
		{"ana", "12345678", true},
		{"an", "12345678", false},
		{"ana!", "12345678", false},
		{"ana", "short", false},
	}
	for _, tt := range tests {
		err := validateSignup(tt.user, tt.pass)
		if (err == nil) != tt.ok {
			t.Errorf("validateSignup(%q, %q) = %v, want ok=%v", tt.user, tt.pass, err, tt.ok)
		}
	}
}
