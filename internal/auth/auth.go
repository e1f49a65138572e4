package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrClientExists       = errors.New("client already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrClientNotFound     = errors.New("client not found")
	ErrUnknownScope       = errors.New("unknown scope")
)

// Scopes a client can be granted.
const (
	// ScopeCompare allows comparing factors and holdings.
	ScopeCompare = "compare"
	// ScopeCombine allows adding and uniting holdings.
	ScopeCombine = "combine"
)

// KnownScopes lists every grantable scope.
var KnownScopes = []string{ScopeCompare, ScopeCombine}

// Client is an API consumer authorized for some scopes
type Client struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SecretHash string    `json:"-"`
	Scopes     []string  `json:"scopes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Claims represents the JWT claims
type Claims struct {
	ClientID string   `json:"client_id"`
	Name     string   `json:"name"`
	Scopes   []string `json:"scopes"`
	jwt.RegisteredClaims
}

// HasScope reports whether the token grants scope.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	Create(ctx context.Context, client *Client) error
	GetByID(ctx context.Context, id string) (*Client, error)
	GetByName(ctx context.Context, name string) (*Client, error)
}

// Service defines the authentication service interface
type Service interface {
	Register(ctx context.Context, name, secret string, scopes []string) (*Client, error)
	IssueToken(ctx context.Context, name, secret string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Config holds authentication configuration
type Config struct {
	SecretKey     string
	TokenDuration time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		SecretKey:     "change-me-in-production",
		TokenDuration: 24 * time.Hour,
	}
}

// JWTService implements the Service interface
type JWTService struct {
	config Config
	repo   ClientRepository
}

// NewJWTService creates a new JWT-based authentication service
func NewJWTService(config Config, repo ClientRepository) *JWTService {
	if config.SecretKey == "" {
		config.SecretKey = DefaultConfig().SecretKey
	}
	if config.TokenDuration == 0 {
		config.TokenDuration = DefaultConfig().TokenDuration
	}
	return &JWTService{
		config: config,
		repo:   repo,
	}
}

// Register creates a new client with a hashed secret. Without scopes the
// client may only compare.
func (s *JWTService) Register(ctx context.Context, name, secret string, scopes []string) (*Client, error) {
	if len(scopes) == 0 {
		scopes = []string{ScopeCompare}
	}
	for _, scope := range scopes {
		if !slices.Contains(KnownScopes, scope) {
			return nil, ErrUnknownScope
		}
	}

	existing, err := s.repo.GetByName(ctx, name)
	switch {
	case err == nil && existing != nil:
		return nil, ErrClientExists
	case err != nil && !errors.Is(err, ErrClientNotFound):
		return nil, fmt.Errorf("failed to look up client: %w", err)
	}

	hashed, err := HashSecret(secret)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	client := &Client{
		Name:       name,
		SecretHash: hashed,
		Scopes:     slices.Clone(scopes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

// IssueToken authenticates a client and returns a JWT token
func (s *JWTService) IssueToken(ctx context.Context, name, secret string) (string, error) {
	client, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if !CheckSecret(secret, client.SecretHash) {
		return "", ErrInvalidCredentials
	}

	return s.generateToken(client)
}

// ValidateToken validates a JWT token and returns the claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.SecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *JWTService) generateToken(client *Client) (string, error) {
	claims := &Claims{
		ClientID: client.ID,
		Name:     client.Name,
		Scopes:   client.Scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   client.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.config.TokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.SecretKey))
}

// HashSecret hashes a client secret using bcrypt
func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckSecret compares a secret with a hash
func CheckSecret(secret, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	return err == nil
}
