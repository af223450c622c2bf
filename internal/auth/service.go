// Package auth signs admins in and verifies the bearer tokens they present.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
)

var (
	// ErrInvalidCredentials is returned when email or password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned when no accepted key verifies the token.
	ErrInvalidToken = errors.New("invalid access token")
	// ErrTokenRevoked is returned for tokens invalidated by logout.
	ErrTokenRevoked = errors.New("access token has been revoked")
)

// tokenLeeway is the clock skew Parse tolerates on exp and nbf.
const tokenLeeway = 30 * time.Second

// UserRepository is the user storage the service needs.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Count(ctx context.Context) (int64, error)
}

// RevocationStore remembers revoked token ids until they would expire anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Key is one accepted issuer/secret pair. The first key signs new tokens;
// the rest only verify, which lets a secret be rotated without logging
// everyone out.
type Key struct {
	Issuer string
	Secret []byte
}

// Config configures token issuance and verification.
type Config struct {
	Keys     []Key
	Audience string
	TTL      time.Duration
}

// Claims is the payload carried by access tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Session is the outcome of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

// DefaultAdmin describes the account created on an empty user store.
type DefaultAdmin struct {
	Email    string
	Password string
	Name     string
}

type Service struct {
	users   UserRepository
	revoked RevocationStore
	cfg     Config
	now     func() time.Time
}

func NewService(users UserRepository, revoked RevocationStore, cfg Config) (*Service, error) {
	if len(cfg.Keys) == 0 || len(cfg.Keys[0].Secret) == 0 {
		return nil, errors.New("at least one signing secret is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if revoked == nil {
		revoked = NewMemoryRevocationStore()
	}
	return &Service{users: users, revoked: revoked, cfg: cfg, now: time.Now}, nil
}

// Login checks the credentials and issues a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(*user)
}

func (s *Service) issue(user domain.User) (*Session, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.TTL)
	key := s.cfg.Keys[0]
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			Issuer:    key.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}
	if s.cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{s.cfg.Audience}
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key.Secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	user.PasswordHash = ""
	return &Session{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}

// Parse tries every accepted key in order and returns the claims of the
// first one that verifies signature, issuer, audience and validity window.
func (s *Service) Parse(ctx context.Context, tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	for _, key := range s.cfg.Keys {
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
			}
			return key.Secret, nil
		}, jwt.WithLeeway(tokenLeeway), jwt.WithTimeFunc(s.now))
		if err != nil || !token.Valid {
			continue
		}
		if key.Issuer != "" && claims.Issuer != key.Issuer {
			continue
		}
		if claims.Subject == "" || claims.ID == "" {
			continue
		}
		if s.cfg.Audience != "" && !contains(claims.Audience, s.cfg.Audience) {
			continue
		}

		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// Logout revokes a token id until expiresAt plus the parse leeway, the last
// moment Parse would still accept it. A zero expiresAt falls back to a full
// TTL from now.
func (s *Service) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return ErrInvalidToken
	}
	if expiresAt.IsZero() {
		expiresAt = s.now().Add(s.cfg.TTL)
	}
	return s.revoked.Revoke(ctx, tokenID, expiresAt.Add(tokenLeeway))
}

// CurrentUser loads the user a token was issued to.
func (s *Service) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := *user
	out.PasswordHash = ""
	return &out, nil
}

// EnsureAdmin creates admin when the user store is empty. It reports
// whether an account was created.
func (s *Service) EnsureAdmin(ctx context.Context, admin DefaultAdmin) (bool, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	user, err := NewUser(admin.Email, admin.Password, admin.Name, domain.RoleAdmin, s.now())
	if err != nil {
		return false, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return false, fmt.Errorf("create default admin: %w", err)
	}
	return true, nil
}

// NewUser builds a user with a bcrypt hash of password.
func NewUser(email, password, name, role string, now time.Time) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.NewValidationError("email and password are required")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		name = "Admin"
	}
	return &domain.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    now.UTC(),
	}, nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(bytes), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
