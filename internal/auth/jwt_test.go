package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"catalog_api/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func newTestService() *TokenService {
	return NewTokenService(testSecret, 15*time.Minute, NewMemoryDenylist(), nil)
}

func TestIssue(t *testing.T) {
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	svc := NewTokenService(testSecret, 15*time.Minute, NewMemoryDenylist(), metrics)

	token, err := svc.Issue(123)

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.TokensIssuedTotal))

	claims, err := svc.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(123), claims.UserID)
	assert.Equal(t, "123", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	svc := newTestService()

	first, err := svc.Issue(1)
	require.NoError(t, err)
	second, err := svc.Issue(1)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerify_InvalidSecret(t *testing.T) {
	token, err := newTestService().Issue(789)
	require.NoError(t, err)

	other := NewTokenService("wrong-secret", 15*time.Minute, NewMemoryDenylist(), nil)
	claims, err := other.Verify(context.Background(), token)

	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_ExpiredToken(t *testing.T) {
	svc := newTestService()
	token, err := svc.generateToken(101, -1*time.Hour)
	require.NoError(t, err)

	claims, err := svc.Verify(context.Background(), token)

	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerify_MalformedToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "Empty token",
			token: "",
		},
		{
			name:  "Random string",
			token: "not-a-valid-jwt-token",
		},
		{
			name:  "Incomplete JWT",
			token: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9",
		},
	}

	svc := newTestService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.Verify(context.Background(), tt.token)

			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		UserID: 999,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "abc",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	parsed, err := newTestService().Verify(context.Background(), tokenString)

	assert.Nil(t, parsed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_MissingTokenID(t *testing.T) {
	claims := Claims{
		UserID: 5,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = newTestService().Verify(context.Background(), tokenString)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestInvalidate(t *testing.T) {
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	svc := NewTokenService(testSecret, 15*time.Minute, NewMemoryDenylist(), metrics)
	ctx := context.Background()

	token, err := svc.Issue(42)
	require.NoError(t, err)

	require.NoError(t, svc.Invalidate(ctx, token))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.TokensRevokedTotal))

	_, err = svc.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrRevokedToken)

	err = svc.Invalidate(ctx, token)
	assert.ErrorIs(t, err, ErrTokenAlreadyInvalidated)
}

func TestInvalidate_LeavesOtherTokensValid(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.Issue(42)
	require.NoError(t, err)
	second, err := svc.Issue(42)
	require.NoError(t, err)

	require.NoError(t, svc.Invalidate(ctx, first))

	claims, err := svc.Verify(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
}

func TestInvalidate_Failures(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	assert.ErrorIs(t, svc.Invalidate(ctx, ""), ErrTokenNotProvided)
	assert.ErrorIs(t, svc.Invalidate(ctx, "garbage"), ErrInvalidToken)

	expired, err := svc.generateToken(1, -time.Minute)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Invalidate(ctx, expired), ErrTokenAlreadyInvalidated)
}

func TestInvalidate_ConcurrentLogoutSucceedsOnce(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	token, err := svc.Issue(7)
	require.NoError(t, err)

	var ok, already int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := svc.Invalidate(ctx, token)
			switch {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case errors.Is(err, ErrTokenAlreadyInvalidated):
				atomic.AddInt32(&already, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok)
	assert.Equal(t, int32(9), already)
}

type failingDenylist struct{}

func (failingDenylist) Add(context.Context, string, time.Time) (bool, error) {
	return false, errors.New("redis down")
}

func (failingDenylist) Contains(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestDenylistFailureSurfaces(t *testing.T) {
	svc := NewTokenService(testSecret, time.Minute, failingDenylist{}, nil)
	token, err := svc.Issue(1)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), token)
	assert.ErrorContains(t, err, "check denylist")

	err = svc.Invalidate(context.Background(), token)
	assert.ErrorContains(t, err, "add to denylist")
}

func TestTokenExpiration(t *testing.T) {
	svc := newTestService()
	current := time.Now()
	svc.now = func() time.Time { return current }

	token, err := svc.generateToken(888, time.Minute)
	require.NoError(t, err)

	claims, err := svc.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(888), claims.UserID)

	current = current.Add(2 * time.Minute)

	claims, err = svc.Verify(context.Background(), token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestGetUserIDFromContext_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Set(UserIDKey, int64(123))

	userID, err := GetUserIDFromContext(c)

	require.NoError(t, err)
	assert.Equal(t, int64(123), userID)
}

func TestGetUserIDFromContext_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	userID, err := GetUserIDFromContext(c)

	assert.Error(t, err)
	assert.Equal(t, int64(0), userID)
	assert.Contains(t, err.Error(), "user ID not found in context")
}

func TestGetUserIDFromContext_InvalidType(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Set(UserIDKey, "not-an-int")

	userID, err := GetUserIDFromContext(c)

	assert.Error(t, err)
	assert.Equal(t, int64(0), userID)
	assert.Contains(t, err.Error(), "invalid user ID type")
}

func BenchmarkIssue(b *testing.B) {
	svc := newTestService()
	for i := 0; i < b.N; i++ {
		svc.Issue(123)
	}
}

func BenchmarkVerify(b *testing.B) {
	svc := newTestService()
	token, _ := svc.Issue(123)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		svc.Verify(context.Background(), token)
	}
}

func TestEmptySecret_RejectsTokens(t *testing.T) {
	svc := NewTokenService("", time.Hour, NewMemoryDenylist(), nil)

	_, err := svc.Issue(1)
	assert.ErrorIs(t, err, ErrEmptySecret)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 99,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "x",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte{})
	require.NoError(t, err)

	claims, err := svc.Verify(context.Background(), forged)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
