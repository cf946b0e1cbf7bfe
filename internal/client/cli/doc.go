// Package cli implements the interactive PubliMatch client: a REPL that
// authenticates against the platform API, keeps the session in a local
// SQLite database, and navigates between pages through the route guard.
package cli
