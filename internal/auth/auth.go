// Package auth implements the authentication boundary: issuing and verifying
// JWT bearer tokens and the middleware that gates protected routes.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v4"

	"github.com/brainly-app/brainly/internal/models"
)

// ErrInvalidToken is returned by ParseToken when the token is malformed,
// its signature does not match, or it was signed with a different secret.
var ErrInvalidToken = errors.New("invalid authentication token")

// Claims represents the JWT claims used by the system.
// The user ID is the sole application claim; no expiry is set or enforced,
// which matches the current scope of the service.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// ContextKey is a custom type for storing values in context to avoid collisions.
type ContextKey string

// UserIDKey is the context key used to store and retrieve the authenticated user's ID.
const UserIDKey ContextKey = "userID"

// Auth issues and verifies bearer tokens and gates protected routes.
type Auth struct {
	// signingSecretKey is the process-wide key used to sign JWTs.
	// It is injected at construction and never mutated afterwards.
	signingSecretKey []byte
}

// New creates a new Auth service with the given JWT signing secret.
func New(signingSecretKey []byte) *Auth {
	return &Auth{
		signingSecretKey: signingSecretKey,
	}
}

// BuildToken issues a signed token carrying the given user ID as its
// sole claim.
func (a *Auth) BuildToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: userID})

	tokenString, err := token.SignedString(a.signingSecretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the token signature and returns the user ID it carries.
// Any malformed or tampered token yields ErrInvalidToken.
func (a *Auth) ParseToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return a.signingSecretKey, nil
		},
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}

// AuthenticateUser is an HTTP middleware that gates protected routes.
// The Authorization header is expected to contain the raw token value,
// without any "Bearer " prefix; the full header value is passed verbatim
// to ParseToken. Requests without a valid token receive a 403 and never
// reach the downstream handler.
func (a *Auth) AuthenticateUser(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		tokenString := request.Header.Get("Authorization")

		userID, err := a.ParseToken(tokenString)
		if err != nil {
			response.Header().Set("Content-Type", "application/json")
			response.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(response).Encode(models.MessageResponse{Message: "You are not logged in"})

			return
		}

		ctx := context.WithValue(request.Context(), UserIDKey, userID)
		h.ServeHTTP(response, request.WithContext(ctx))
	}

	return http.HandlerFunc(middleware)
}

// UserIDFromContext extracts the authenticated user ID attached by
// AuthenticateUser.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)

	return userID, ok && userID != ""
}
