package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"catalog_api/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	UserIDKey = "userID"
	TokenKey  = "token"
)

var (
	ErrEmptySecret             = errors.New("token secret is empty")
	ErrInvalidToken            = errors.New("invalid token")
	ErrExpiredToken            = errors.New("token expired")
	ErrRevokedToken            = errors.New("token revoked")
	ErrTokenNotProvided        = errors.New("token not provided")
	ErrTokenAlreadyInvalidated = errors.New("token already invalidated")
)

type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenService issues, verifies and invalidates bearer tokens. It is built
// once at startup and shared by every request.
type TokenService struct {
	secret   []byte
	ttl      time.Duration
	denylist Denylist
	metrics  *observability.Metrics
	now      func() time.Time
}

func NewTokenService(secret string, ttl time.Duration, denylist Denylist, metrics *observability.Metrics) *TokenService {
	return &TokenService{
		secret:   []byte(secret),
		ttl:      ttl,
		denylist: denylist,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Issue creates a signed token bound to userID.
func (s *TokenService) Issue(userID int64) (string, error) {
	token, err := s.generateToken(userID, s.ttl)
	if err != nil {
		return "", err
	}
	s.metrics.TokenIssued()
	return token, nil
}

func (s *TokenService) generateToken(userID int64, duration time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrEmptySecret
	}
	now := s.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// parse checks signature and time claims but not the denylist.
func (s *TokenService) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		if len(s.secret) == 0 {
			return nil, ErrEmptySecret
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Verify validates a token and rejects it if it was invalidated.
func (s *TokenService) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.denylist.Contains(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check denylist: %w", err)
	}
	if revoked {
		return nil, ErrRevokedToken
	}

	return claims, nil
}

// Invalidate denylists the token until it would have expired anyway.
func (s *TokenService) Invalidate(ctx context.Context, tokenString string) error {
	if tokenString == "" {
		return ErrTokenNotProvided
	}

	claims, err := s.parse(tokenString)
	if err != nil {
		if errors.Is(err, ErrExpiredToken) {
			return ErrTokenAlreadyInvalidated
		}
		return err
	}

	added, err := s.denylist.Add(ctx, claims.ID, claims.ExpiresAt.Time)
	if err != nil {
		return fmt.Errorf("add to denylist: %w", err)
	}
	if !added {
		return ErrTokenAlreadyInvalidated
	}

	s.metrics.TokenRevoked()
	return nil
}

// GetUserIDFromContext extracts userID from Gin context
func GetUserIDFromContext(c *gin.Context) (int64, error) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, fmt.Errorf("user ID not found in context")
	}

	id, ok := userID.(int64)
	if !ok {
		return 0, fmt.Errorf("invalid user ID type")
	}

	return id, nil
}
