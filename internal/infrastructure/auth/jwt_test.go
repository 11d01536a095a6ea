package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/auth"
)

func TestJWTManagerGenerateAndVerify(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("super-secret", time.Minute)

	token, err := manager.Generate(&domain.Operator{ID: "op-1", Role: domain.RoleAdmin})
	require.NoError(t, err)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "op-1", claims.OperatorID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, &domain.Operator{ID: "op-1", Role: domain.RoleAdmin}, claims.Operator())
	assert.True(t, claims.Role.CanManageMarkets())
}

func TestJWTManagerGenerateRejectsUnknownRole(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("secret", time.Minute)

	_, err := manager.Generate(&domain.Operator{ID: "op-1", Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = manager.Generate(&domain.Operator{Role: domain.RolePlayer})
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestJWTManagerVerifyErrors(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("secret", time.Minute)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		OperatorID: "op-1",
		Role:       domain.RolePlayer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Minute)),
		},
	})
	expiredToken, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = manager.Verify(expiredToken)
	assert.ErrorIs(t, err, domain.ErrExpiredToken)

	other := auth.NewJWTManager("other-secret", time.Minute)
	foreign, err := other.Generate(&domain.Operator{ID: "op-2", Role: domain.RoleAdmin})
	require.NoError(t, err)

	_, err = manager.Verify(foreign)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = manager.Verify("not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, auth.Claims{OperatorID: "op-3", Role: domain.RoleAdmin})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = manager.Verify(unsigned)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestJWTManagerVerifyRequiresIssuer(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("secret", time.Minute)

	for _, issuer := range []string{"", "someone-else"} {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
			OperatorID: "op-1",
			Role:       domain.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    issuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		})
		signed, err := token.SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = manager.Verify(signed)
		assert.ErrorIs(t, err, domain.ErrInvalidToken, "issuer %q", issuer)
	}
}
