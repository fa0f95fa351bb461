package security

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kiarashjv/task-management-system/internal/domain"
)

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec(testKeyPair(t), "self", time.Hour)

	claims := codec.NewClaims("alice", []domain.Role{domain.RoleAdmin, domain.RoleUser})
	token, err := codec.Encode(claims)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	decoded, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if decoded.Subject != "alice" {
		t.Errorf("Decode() subject = %q, want %q", decoded.Subject, "alice")
	}
	if decoded.Issuer != "self" {
		t.Errorf("Decode() issuer = %q, want %q", decoded.Issuer, "self")
	}
	if len(decoded.Roles) != 2 || decoded.Roles[0] != domain.RoleAdmin || decoded.Roles[1] != domain.RoleUser {
		t.Errorf("Decode() roles = %v, want [ADMIN USER]", decoded.Roles)
	}

	ttl := decoded.ExpiresAt.Sub(decoded.IssuedAt)
	if ttl != time.Hour {
		t.Errorf("Decode() ttl = %v, want 1h", ttl)
	}
}

func TestTokenCodec_TamperedSignature(t *testing.T) {
	codec := NewTokenCodec(testKeyPair(t), "self", time.Hour)

	token, err := codec.Encode(codec.NewClaims("alice", []domain.Role{domain.RoleUser}))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	// Flip a character in the signature segment
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token format: %d segments", len(parts))
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := codec.Decode(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Decode() error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenCodec_ForeignKey(t *testing.T) {
	codec := NewTokenCodec(testKeyPair(t), "self", time.Hour)
	other := NewTokenCodec(testKeyPair(t), "self", time.Hour)

	token, err := other.Encode(other.NewClaims("alice", []domain.Role{domain.RoleUser}))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if _, err := codec.Decode(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Decode() error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenCodec_Expired(t *testing.T) {
	keys := testKeyPair(t)
	expired := NewTokenCodec(keys, "self", -time.Minute)
	codec := NewTokenCodec(keys, "self", time.Hour)

	token, err := expired.Encode(expired.NewClaims("alice", []domain.Role{domain.RoleUser}))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if _, err := codec.Decode(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Decode() error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenCodec_WrongIssuer(t *testing.T) {
	keys := testKeyPair(t)
	foreign := NewTokenCodec(keys, "someone-else", time.Hour)
	codec := NewTokenCodec(keys, "self", time.Hour)

	token, err := foreign.Encode(foreign.NewClaims("alice", []domain.Role{domain.RoleUser}))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if _, err := codec.Decode(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Decode() error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenCodec_RejectsNonRSA(t *testing.T) {
	codec := NewTokenCodec(testKeyPair(t), "self", time.Hour)

	now := time.Now()
	hmacToken := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "self",
			Subject:   "alice",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Roles: "ADMIN",
	})
	signed, err := hmacToken.SignedString([]byte("shared-secret"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	if _, err := codec.Decode(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Decode() error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenCodec_MalformedToken(t *testing.T) {
	codec := NewTokenCodec(testKeyPair(t), "self", time.Hour)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c"} {
		if _, err := codec.Decode(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Decode(%q) error = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestTokenCodec_DropsUnknownRoles(t *testing.T) {
	keys := testKeyPair(t)
	codec := NewTokenCodec(keys, "self", time.Hour)

	// A validly signed token carrying a role name outside the enum
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "self",
			Subject:   "alice",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Roles: "ADMIN SUPERVISOR",
	})
	signed, err := token.SignedString(keys.Private())
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	decoded, err := codec.Decode(signed)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(decoded.Roles) != 1 || decoded.Roles[0] != domain.RoleAdmin {
		t.Errorf("Decode() roles = %v, want [ADMIN]", decoded.Roles)
	}
}
