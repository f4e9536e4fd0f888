package authenticating

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/rokt-tap/internal/domain"
	"github.com/vfg2006/rokt-tap/pkg/clock"
)

var referenceNow = time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC)

func TestNewService_SemSecretKey(t *testing.T) {
	_, err := NewService("", nil)
	assert.ErrorIs(t, err, ErrMissingSecretKey)
}

func TestGenerateAndValidateToken(t *testing.T) {
	clk := clock.NewFake(referenceNow)
	service, err := NewService("segredo", clk)
	require.NoError(t, err)

	token, err := service.GenerateToken("ops", domain.RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, domain.RoleAdmin, claims.Role)

	clk.Advance(2 * time.Hour)
	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestGenerateToken_RoleInvalida(t *testing.T) {
	service, err := NewService("segredo", clock.NewFake(referenceNow))
	require.NoError(t, err)

	_, err = service.GenerateToken("ops", "root", time.Hour)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestValidateToken_AssinaturaErrada(t *testing.T) {
	clk := clock.NewFake(referenceNow)
	other, err := NewService("outro-segredo", clk)
	require.NoError(t, err)
	token, err := other.GenerateToken("ops", domain.RoleViewer, time.Hour)
	require.NoError(t, err)

	service, err := NewService("segredo", clk)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_AlgoritmoNone(t *testing.T) {
	clk := clock.NewFake(referenceNow)
	claims := &domain.Claims{
		Role: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(referenceNow.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	service, err := NewService("segredo", clk)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
