package services

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const (
	// TokenSubject is the "sub" claim of session tokens.
	TokenSubject = "userInfo"
	// DefaultTokenTTL is the validity of a session token.
	DefaultTokenTTL = 365 * 24 * time.Hour
)

// Claims is the payload of a session token.
type Claims struct {
	UserIdx int64 `json:"userIdx"`
	jwt.StandardClaims
}

// TokenService issues and verifies session tokens.
type TokenService struct {
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewTokenService creates a new TokenService. A non-positive ttl falls back to DefaultTokenTTL.
func NewTokenService(jwtSecret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  ttl,
		now:       time.Now,
	}
}

// Issue signs a token carrying userIdx.
func (s *TokenService) Issue(userIdx int64) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserIdx: userIdx,
		StandardClaims: jwt.StandardClaims{
			Subject:   TokenSubject,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.tokenTTL).Unix(),
		},
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// Verify parses and validates a token, returning its claims if valid.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
