package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/courseapi/internal/app/models"
	"github.com/yigit/courseapi/internal/pkg/apperrors"
)

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "course-api-test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestService()
	user := &models.User{ID: 42, Username: "alice"}

	token, expiresAt, err := svc.GenerateToken(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestGenerateToken_UniquePerCall(t *testing.T) {
	svc := newTestService()
	user := &models.User{ID: 1, Username: "alice"}

	first, _, err := svc.GenerateToken(user)
	require.NoError(t, err)
	second, _, err := svc.GenerateToken(user)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestService()
	token, _, err := svc.GenerateToken(&models.User{ID: 1, Username: "alice"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestValidateToken_Rejects(t *testing.T) {
	svc := newTestService()
	token, _, err := svc.GenerateToken(&models.User{ID: 1, Username: "alice"})
	require.NoError(t, err)

	otherSecret := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "course-api-test"})
	otherIssuer := NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "someone-else"})

	tests := []struct {
		name  string
		svc   *JWTService
		token string
	}{
		{"empty", svc, "  "},
		{"garbage", svc, "not.a.jwt"},
		{"wrong secret", otherSecret, token},
		{"wrong issuer", otherIssuer, token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.svc.ValidateToken(tt.token)
			assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def", "abc.def", false},
		{"bearer abc.def", "abc.def", false},
		{"  Bearer   abc  ", "abc", false},
		{"Bearer ", "", true},
		{"Basic dXNlcjpwYXNz", "", true},
		{"abc.def", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ExtractBearerToken(tt.header)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidFormat, tt.header)
			continue
		}
		require.NoError(t, err, tt.header)
		assert.Equal(t, tt.want, got)
	}
}
