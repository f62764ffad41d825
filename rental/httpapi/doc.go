// Package httpapi exposes the rental commands and queries over HTTP.
//
// Every request except /health and /metrics carries a bearer JWT (HS256).
// The subject is the acting actor, the role claim gates the admin routes.
// Whether an actor is active and holds the role a command needs is still decided by the command handlers.
package httpapi
