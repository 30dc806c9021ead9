// Package authenticator declares the middleware contract the router expects
// from the authentication layer.
package authenticator

import "net/http"

// Authenticator gates protected routes behind a valid bearer token.
type Authenticator interface {
	AuthenticateUser(h http.Handler) http.Handler
}
