// Package client talks to a diary sync server.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface): deliver one
//     encoded update to a sync URL and report whether it was accepted.
//  2. A concrete HTTP implementation (see HTTPClient) that issues
//     GET <server-url><base64 update>, retries network errors and 5xx
//     responses with jittered backoff, and tags each request with an
//     X-Request-ID header.
//
// # Error Handling
//
// A response with status below 500 counts as delivered, including 4xx: the
// server has seen the update and resending it would not help. Anything else
// is reported as ErrUnavailable, which wraps common.ErrTransport so callers
// can match either with errors.Is.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Send honours context cancellation
// between and during attempts.
package client
