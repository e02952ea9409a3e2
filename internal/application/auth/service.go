package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"topoplan/internal/config"
	"topoplan/internal/domain/auth"
	"topoplan/internal/infrastructure/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 8

// Service handles local accounts and token issuance
type Service struct {
	config   *config.AuthConfig
	userRepo auth.Repository
	secret   []byte
	// signupMu makes the first-user check and the insert atomic
	signupMu sync.Mutex
}

// NewService creates a new authentication service. Without a configured
// secret a random one is generated, so tokens do not survive a restart.
func NewService(cfg *config.AuthConfig, userRepo auth.Repository) *Service {
	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			panic(fmt.Sprintf("failed to generate token secret: %v", err))
		}
		log.Warn().Msg("AUTH_JWT_SECRET not set, using an ephemeral token secret")
	}
	return &Service{config: cfg, userRepo: userRepo, secret: secret}
}

// Signup creates an account. The first account becomes administrator.
func (s *Service) Signup(ctx context.Context, creds auth.Credentials) (*auth.Session, error) {
	username := validation.NormalizeUsername(creds.Username)
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("%w: %v", auth.ErrInvalidName, err)
	}
	if len(creds.Password) < MinPasswordLength {
		return nil, auth.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	s.signupMu.Lock()
	defer s.signupMu.Unlock()

	now := time.Now().UTC()
	user := &auth.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         auth.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
		LastLoginAt:  now,
	}

	// First user becomes administrator
	if first, err := s.userRepo.GetFirstUser(); err != nil || first == nil {
		user.Role = auth.RoleAdministrator
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Str("user_id", user.ID).Str("username", username).Str("role", string(user.Role)).Msg("user signed up")
	return s.newSession(user)
}

// Login checks a username and password and issues a token
func (s *Service) Login(ctx context.Context, creds auth.Credentials) (*auth.Session, error) {
	user, err := s.userRepo.GetUserByUsername(validation.NormalizeUsername(creds.Username))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	user.LastLoginAt = time.Now().UTC()
	if err := s.userRepo.UpdateUser(user); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record login time")
	}
	return s.newSession(user)
}

// IssueToken signs an access token for the user
func (s *Service) IssueToken(user *auth.User) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(s.config.TokenLifetime())
	claims := auth.Claims{
		Name: user.Username,
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			ID:        uuid.New().String(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// ValidateToken verifies signature, issuer and expiry and returns the claims
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	claims := &auth.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, auth.ErrInvalidToken
	}
	return claims, nil
}

// Authenticate resolves a token to its user
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*auth.User, error) {
	claims, err := s.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetUser(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}
	return user, nil
}

// ListUsers returns every account
func (s *Service) ListUsers(ctx context.Context) ([]*auth.User, error) {
	return s.userRepo.ListUsers()
}

func (s *Service) newSession(user *auth.User) (*auth.Session, error) {
	token, expires, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &auth.Session{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Token:     token,
		ExpiresAt: expires,
	}, nil
}
