// Package client talks to the taskboard REST API.
//
// # Overview
//
// API is the transport-agnostic contract used by the client services.
// HTTPClient implements it over net/http: it keeps the bearer token in
// memory, stores the session cookie in a cookie jar, and decodes the
// {success, data, error, message} envelope every endpoint answers with.
//
// # Error Handling
//
// Non-2xx answers become *APIError, which matches ErrUnauthorized (401/403)
// and ErrNotFound (404) via errors.Is. Transport failures wrap
// ErrUnavailable.
package client
