package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
)

// Issuer is stamped on every token and required on verification.
const Issuer = "buteco"

// Claims is the payload of an operator token.
type Claims struct {
	OperatorID string      `json:"operator_id"`
	Role       domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Operator converts the claims into the authenticated caller.
func (c *Claims) Operator() *domain.Operator {
	return &domain.Operator{ID: c.OperatorID, Role: c.Role}
}

// JWTManager signs and verifies HS256 operator tokens.
type JWTManager struct {
	now    func() time.Time
	secret []byte
	ttl    time.Duration
}

// NewJWTManager creates a JWTManager whose tokens live for ttl.
func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{now: time.Now, secret: []byte(secret), ttl: ttl}
}

// Generate signs a token for an operator.
func (m *JWTManager) Generate(op *domain.Operator) (string, error) {
	if op.ID == "" || !op.Role.IsValid() {
		return "", fmt.Errorf("%w: operator needs an id and a known role", domain.ErrInvalidToken)
	}

	issuedAt := jwt.NewNumericDate(m.now())
	claims := Claims{
		OperatorID: op.ID,
		Role:       op.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   op.ID,
			IssuedAt:  issuedAt,
			NotBefore: issuedAt,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses a token. Expired tokens yield domain.ErrExpiredToken, every
// other failure domain.ErrInvalidToken.
func (m *JWTManager) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithTimeFunc(m.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, domain.ErrExpiredToken
	case err != nil, !claims.Role.IsValid():
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}
