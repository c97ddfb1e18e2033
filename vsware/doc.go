// Package vsware is a typed client for the VSware parent portal.
//
// A Client owns one Session (cookie jar plus the bearer token captured at login) and exposes
// one method per portal endpoint. Every method issues exactly one request and decodes the body
// into a response shape; HTTP status codes are reported on the Response but never acted upon.
//
// Typical use is Setup, then Login, then any number of read calls. Login is expected to run
// once before other calls; the bearer token is written there and only read afterwards.
package vsware
