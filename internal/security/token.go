package security

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kiarashjv/task-management-system/internal/domain"
	"github.com/kiarashjv/task-management-system/internal/logger"
	"go.uber.org/zap"
)

// ErrInvalidToken covers every decode failure: bad signature, malformed
// token, expiry, wrong issuer. Collapsed on purpose so callers cannot tell
// which check rejected the token.
var ErrInvalidToken = errors.New("invalid token")

// ClaimSet is the set of facts embedded in a signed token
type ClaimSet struct {
	Subject   string
	Roles     []domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
	Issuer    string
}

// tokenClaims is the wire shape. Roles travel as a single space-joined
// string claim.
type tokenClaims struct {
	jwt.RegisteredClaims
	Roles string `json:"roles"`
}

// TokenCodec encodes and decodes signed tokens with a fixed RSA key pair,
// issuer and TTL. Stateless; safe for concurrent use.
type TokenCodec struct {
	keys   *KeyPair
	issuer string
	ttl    time.Duration
}

// NewTokenCodec creates a TokenCodec
func NewTokenCodec(keys *KeyPair, issuer string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{
		keys:   keys,
		issuer: issuer,
		ttl:    ttl,
	}
}

// NewClaims builds a claim set for the given subject and roles,
// issued now and expiring after the codec TTL.
func (c *TokenCodec) NewClaims(subject string, roles []domain.Role) ClaimSet {
	now := time.Now()
	return ClaimSet{
		Subject:   subject,
		Roles:     roles,
		IssuedAt:  now,
		ExpiresAt: now.Add(c.ttl),
		Issuer:    c.issuer,
	}
}

// Encode serializes and signs the claim set with RS256
func (c *TokenCodec) Encode(claims ClaimSet) (string, error) {
	names := make([]string, 0, len(claims.Roles))
	for _, role := range claims.Roles {
		names = append(names, string(role))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    claims.Issuer,
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
		Roles: strings.Join(names, " "),
	})

	return token.SignedString(c.keys.Private())
}

// Decode verifies the token signature, expiry and issuer and returns the
// claim set. The signature is checked before any payload field is trusted;
// every rejection returns ErrInvalidToken.
func (c *TokenCodec) Decode(tokenString string) (*ClaimSet, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &tokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, ErrInvalidToken
			}
			return c.keys.Public(), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	roles, unknown := ParseRoles(claims.Roles)
	for _, name := range unknown {
		logger.Get().Warn("dropping unknown role in verified token",
			zap.String("role", name),
			zap.String("subject", claims.Subject),
		)
	}

	out := &ClaimSet{
		Subject: claims.Subject,
		Roles:   roles,
		Issuer:  claims.Issuer,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
