// Package session owns the authenticated session of the edupredict CLI.
//
// A Session holds the bearer token issued by the backend and the identity it
// was validated against. The Manager is the only writer: it restores the
// persisted token at startup, validates it with the backend, and mutates it on
// login, logout and when the backend answers 401. Other packages receive the
// Manager as a TokenSource and never read the session file themselves.
package session
