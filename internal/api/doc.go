// Package api is the REST client for the EduPredict backend.
//
// Client wraps a resty client configured with the backend base URL, a request
// timeout and a per-request X-Request-ID. Authentication comes from a
// TokenSource; a 401 from any endpoint other than login calls the configured
// unauthorized handler so the session can be torn down. List endpoints take a
// listview.PageRequest and translate it to skip/limit query parameters; the
// backend returns no total count.
package api
