package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
	"time"

	"github.com/kiarashjv/task-management-system/internal/domain"
	"github.com/kiarashjv/task-management-system/internal/security"
	"golang.org/x/crypto/bcrypt"
)

// mockUserRepository is a mock implementation of UserRepository
type mockUserRepository struct {
	users         map[string]*domain.User
	usernameIndex map[string]*domain.User
	getError      error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:         make(map[string]*domain.User),
		usernameIndex: make(map[string]*domain.User),
	}
}

func (r *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.users[user.ID] = user
	r.usernameIndex[user.Username] = user
	return nil
}

func (r *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if r.getError != nil {
		return nil, r.getError
	}
	return r.users[id], nil
}

func (r *mockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if r.getError != nil {
		return nil, r.getError
	}
	return r.usernameIndex[username], nil
}

func (r *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	r.users[user.ID] = user
	r.usernameIndex[user.Username] = user
	return nil
}

func (r *mockUserRepository) Delete(ctx context.Context, id string) error {
	user := r.users[id]
	if user != nil {
		delete(r.usernameIndex, user.Username)
		delete(r.users, id)
	}
	return nil
}

func (r *mockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func (r *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, exists := r.usernameIndex[username]
	return exists, nil
}

func (r *mockUserRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

// testCodec builds a token codec with a throwaway RSA key pair
func testCodec(t *testing.T) *security.TokenCodec {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("failed to marshal public key: %v", err)
	}
	privateDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("failed to marshal private key: %v", err)
	}

	keys, err := security.LoadKeyPair(
		pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER}),
		pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privateDER}),
	)
	if err != nil {
		t.Fatalf("LoadKeyPair() error = %v", err)
	}

	return security.NewTokenCodec(keys, "self", time.Hour)
}

func seedUser(t *testing.T, repo *mockUserRepository, username, password string, roles ...domain.Role) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error = %v", err)
	}
	user := &domain.User{
		ID:           username + "-id",
		Username:     username,
		PasswordHash: string(hash),
		Email:        username + "@example.com",
		Roles:        roles,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestAuthService_Authenticate(t *testing.T) {
	repo := newMockUserRepository()
	seedUser(t, repo, "alice", "secret", domain.RoleUser)
	svc := NewAuthService(repo, testCodec(t))
	ctx := context.Background()

	t.Run("valid credentials return a token", func(t *testing.T) {
		token, err := svc.Authenticate(ctx, "alice", "secret")
		if err != nil {
			t.Fatalf("Authenticate() error = %v", err)
		}
		if token == "" {
			t.Error("Authenticate() returned an empty token")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "alice", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Authenticate() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown user gets the same error as a wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody", "secret")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Authenticate() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("store failure propagates as-is", func(t *testing.T) {
		storeErr := errors.New("connection refused")
		repo.getError = storeErr
		defer func() { repo.getError = nil }()

		_, err := svc.Authenticate(ctx, "alice", "secret")
		if !errors.Is(err, storeErr) {
			t.Errorf("Authenticate() error = %v, want %v", err, storeErr)
		}
		if errors.Is(err, ErrInvalidCredentials) {
			t.Error("Authenticate() masked a store failure as invalid credentials")
		}
	})
}

func TestAuthService_VerifyToken(t *testing.T) {
	repo := newMockUserRepository()
	seedUser(t, repo, "admin", "admin", domain.RoleAdmin)
	svc := NewAuthService(repo, testCodec(t))
	ctx := context.Background()

	t.Run("login then verify resolves the principal", func(t *testing.T) {
		token, err := svc.Authenticate(ctx, "admin", "admin")
		if err != nil {
			t.Fatalf("Authenticate() error = %v", err)
		}

		principal, err := svc.VerifyToken(ctx, token)
		if err != nil {
			t.Fatalf("VerifyToken() error = %v", err)
		}
		if principal.Username != "admin" {
			t.Errorf("VerifyToken() username = %q, want %q", principal.Username, "admin")
		}
		if !principal.HasRole(domain.RoleAdmin) {
			t.Error("VerifyToken() principal lacks ADMIN role")
		}

		decision, err := security.RequireAnyRole(domain.RoleAdmin)(ctx, principal)
		if err != nil {
			t.Fatalf("rule error = %v", err)
		}
		if !decision.Allow {
			t.Error("admin principal was denied by RequireAnyRole(ADMIN)")
		}
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := svc.VerifyToken(ctx, "not-a-token")
		if !errors.Is(err, security.ErrInvalidToken) {
			t.Errorf("VerifyToken() error = %v, want ErrInvalidToken", err)
		}
	})
}
