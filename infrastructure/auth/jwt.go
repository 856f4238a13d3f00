// Package auth verifies bearer tokens issued by the identity service and
// turns them into user.Identity values.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/domain/shared"
	"storefront/domain/user"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by storefront tokens
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuthenticator HS256 implementation of user.Authenticator
type JWTAuthenticator struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTAuthenticator(secret, issuer string, ttl time.Duration) *JWTAuthenticator {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWTAuthenticator{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Authenticate validates signature, expiry and issuer.
// Every failure wraps shared.ErrUnauthorized.
func (a *JWTAuthenticator) Authenticate(ctx context.Context, credential string) (user.Identity, error) {
	if credential == "" {
		return user.Identity{}, shared.NewUnauthorizedError("missing credential")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(credential, &claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return user.Identity{}, shared.NewUnauthorizedError(reason(err))
	}
	if !token.Valid || claims.Subject == "" {
		return user.Identity{}, shared.NewUnauthorizedError("invalid token")
	}

	return user.Identity{
		ID:       claims.Subject,
		Username: claims.Username,
		Role:     user.ParseRole(claims.Role),
	}, nil
}

// IssueToken mints a token for id. Used by tests and the local token helper;
// production tokens come from the identity service.
func (a *JWTAuthenticator) IssueToken(id user.Identity) (string, error) {
	now := a.now()
	claims := Claims{
		Username: id.Username,
		Role:     string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func reason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "token expired"
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return "unexpected issuer"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "bad signature"
	default:
		return "invalid token"
	}
}

var _ user.Authenticator = (*JWTAuthenticator)(nil)
