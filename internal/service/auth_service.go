package service

import (
	"context"
	"errors"

	"github.com/kiarashjv/task-management-system/internal/repository"
	"github.com/kiarashjv/task-management-system/internal/security"
	"github.com/kiarashjv/task-management-system/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown username and for a wrong
// password alike, so callers cannot enumerate usernames.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService issues and verifies identity tokens
type AuthService interface {
	// Authenticate validates the credentials and returns a signed token
	Authenticate(ctx context.Context, username, password string) (string, error)
	// VerifyToken verifies a presented token and resolves the principal
	VerifyToken(ctx context.Context, token string) (*security.Principal, error)
}

// authService implements AuthService
type authService struct {
	userRepo repository.UserRepository
	codec    *security.TokenCodec
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, codec *security.TokenCodec) AuthService {
	return &authService{
		userRepo: userRepo,
		codec:    codec,
	}
}

// Authenticate validates the credentials and returns a signed token
func (s *authService) Authenticate(ctx context.Context, username, password string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.authenticate")
	defer span.End()

	span.SetAttributes(attribute.String("username", username))

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	if user == nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return "", ErrInvalidCredentials
	}

	claims := s.codec.NewClaims(user.Username, user.Roles)
	token, err := s.codec.Encode(claims)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	span.SetStatus(codes.Ok, "")
	return token, nil
}

// VerifyToken verifies a presented token and resolves the principal
func (s *authService) VerifyToken(ctx context.Context, token string) (*security.Principal, error) {
	_, span := telemetry.StartSpan(ctx, "service.auth.verify_token")
	defer span.End()

	claims, err := s.codec.Decode(token)
	if err != nil {
		span.SetStatus(codes.Error, "invalid token")
		return nil, err
	}

	span.SetAttributes(attribute.String("subject", claims.Subject))
	span.SetStatus(codes.Ok, "")
	return security.NewPrincipal(claims), nil
}
