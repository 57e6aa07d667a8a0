package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"eventhub/internal/domain"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	Email string          `json:"email"`
	Role  domain.RoleName `json:"role"`
}

// JWT issues and verifies HS256 access tokens.
type JWT struct {
	secret []byte
}

// NewJWT returns a token issuer and verifier that signs with the given secret.
func NewJWT(secret string) *JWT {
	return &JWT{secret: []byte(secret)}
}

// Issue signs a token for the account. The role claim is informational; authorization
// re-resolves the role from the store on every request.
func (j *JWT) Issue(accountID, email string, role domain.RoleName, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Email: email,
		Role:  role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify checks the signature and expiry and returns the account ID in the subject claim.
func (j *JWT) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(*jwt.Token) (interface{}, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}

var (
	_ domain.TokenIssuer   = (*JWT)(nil)
	_ domain.TokenVerifier = (*JWT)(nil)
)
