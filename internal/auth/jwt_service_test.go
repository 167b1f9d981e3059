package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	require.Error(t, err)
	require.EqualError(t, err, "jwt: secret must be provided")
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	current := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return current }

	svc, err := NewJWTService(JWTConfig{
		Secret:         "super-secret",
		Issuer:         "studylog",
		AccessTokenTTL: time.Hour,
		Clock:          now,
	})
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(AccessTokenInput{
		AccountID: "account-123",
		SessionID: "session-456",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)

	require.Equal(t, "account-123", claims.AccountID)
	require.Equal(t, "session-456", claims.SessionID)
	require.Equal(t, "studylog", claims.Issuer)
}

func TestValidateAccessTokenRejectsExpired(t *testing.T) {
	current := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	svc, err := NewJWTService(JWTConfig{
		Secret:         "super-secret",
		Issuer:         "studylog",
		AccessTokenTTL: time.Minute,
		Clock:          func() time.Time { return current },
	})
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(AccessTokenInput{AccountID: "account-123"})
	require.NoError(t, err)

	// A fresh service whose clock sits beyond the TTL must reject the token.
	later, err := NewJWTService(JWTConfig{
		Secret:         "super-secret",
		Issuer:         "studylog",
		AccessTokenTTL: time.Minute,
		Clock:          func() time.Time { return current.Add(2 * time.Minute) },
	})
	require.NoError(t, err)

	_, err = later.ValidateAccessToken(token)
	require.Error(t, err)
}

func TestValidateAccessTokenRejectsWrongSecret(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "secret-a", Issuer: "studylog"})
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(AccessTokenInput{AccountID: "account-123"})
	require.NoError(t, err)

	other, err := NewJWTService(JWTConfig{Secret: "secret-b", Issuer: "studylog"})
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	require.Error(t, err)
}

func TestValidateAccessTokenRejectsWrongIssuer(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "secret", Issuer: "someone-else"})
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(AccessTokenInput{AccountID: "account-123"})
	require.NoError(t, err)

	validator, err := NewJWTService(JWTConfig{Secret: "secret", Issuer: "studylog"})
	require.NoError(t, err)

	_, err = validator.ValidateAccessToken(token)
	require.Error(t, err)
}

func TestGenerateAccessTokenRequiresAccountID(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "secret"})
	require.NoError(t, err)

	_, err = svc.GenerateAccessToken(AccessTokenInput{})
	require.Error(t, err)
}
