package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTTL = 55 * time.Minute

var ErrUnauthorized = errors.New("could not validate credentials")

// Claims are the claims carried by an access token. UserId is required.
type Claims struct {
	UserId string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 access tokens. It keeps no state
// beyond the signing secret, tokens cannot be revoked before they expire.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("token signing secret must not be empty")
	}
	return &TokenService{secret: []byte(secret), now: time.Now}, nil
}

func (s *TokenService) Issue(claims Claims) (string, error) {
	return s.IssueWithTTL(claims, DefaultTTL)
}

// IssueWithTTL signs the claims with an expiry ttl from now. A non positive
// ttl produces a token that is already expired.
func (s *TokenService) IssueWithTTL(claims Claims, ttl time.Duration) (string, error) {
	now := s.now().UTC()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return token, nil
}

// Verify checks the signature and expiry of the token and returns its user id.
func (s *TokenService) Verify(token string) (string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		slog.Debug("token verification failed", "error", err)
		return "", fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	if claims.UserId == "" {
		return "", fmt.Errorf("%w: token is missing user_id claim", ErrUnauthorized)
	}

	return claims.UserId, nil
}
