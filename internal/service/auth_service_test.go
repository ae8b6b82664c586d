package service

import (
	"parkhaus/internal/auth"
	"parkhaus/internal/errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestSignupAndLogin(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(store, testSecret)

	require.NoError(t, svc.Signup("driver@parkhaus.test", "pw123456", "+4915550001", auth.RoleDriver))
	require.NoError(t, svc.Signup("admin@parkhaus.test", "pw123456", "", auth.RoleAdmin))

	token, err := svc.Login("driver@parkhaus.test", "pw123456", auth.RoleDriver)
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, auth.RoleDriver, claims["role"])
	assert.NotEmpty(t, claims["sub"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(store, testSecret)
	require.NoError(t, svc.Signup("driver@parkhaus.test", "pw123456", "", auth.RoleDriver))

	_, err := svc.Login("driver@parkhaus.test", "wrong", auth.RoleDriver)
	assert.True(t, errors.IsKind(err, errors.KindForbidden))

	_, err = svc.Login("nobody@parkhaus.test", "pw123456", auth.RoleDriver)
	assert.True(t, errors.IsKind(err, errors.KindForbidden))

	// Role and account type must match.
	_, err = svc.Login("driver@parkhaus.test", "pw123456", auth.RoleAdmin)
	assert.True(t, errors.IsKind(err, errors.KindForbidden))
}

func TestSignupValidation(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(store, testSecret)

	assert.True(t, errors.IsKind(svc.Signup("", "pw", "", auth.RoleDriver), errors.KindValidation))
	assert.True(t, errors.IsKind(svc.Signup("a@b.c", "", "", auth.RoleDriver), errors.KindValidation))
	assert.True(t, errors.IsKind(svc.Signup("a@b.c", "pw", "", "owner"), errors.KindValidation))

	require.NoError(t, svc.Signup("a@b.c", "pw123456", "", auth.RoleDriver))
	assert.True(t, errors.IsKind(svc.Signup("a@b.c", "pw123456", "", auth.RoleDriver), errors.KindConflict))
}
