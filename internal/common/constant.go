// Package common contains shared constants and sentinel errors used across
// taskboard components.
package common

// AuthCookieName is the HTTP-only cookie carrying the session token.
const AuthCookieName = "auth_token"

// AuthorizationHeaderName and BearerScheme describe the header form of the
// session token accepted from API clients.
const (
	AuthorizationHeaderName = "Authorization"
	BearerScheme            = "Bearer"
)

// RequestIDHeaderName is echoed back on every HTTP response.
const RequestIDHeaderName = "X-Request-ID"

// EnvironmentProduction enables the Secure cookie attribute.
const EnvironmentProduction = "production"
