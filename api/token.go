package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rpupo63/portfolio-api/errs"
)

// IssueAdminToken signs an HS256 token accepted by the admin routes
func IssueAdminToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errs.NewEnvironmentVariableError("ADMIN_JWT_SECRET")
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errs.NewInternalErrorWithCause("sign admin token", err)
	}
	return signed, nil
}
