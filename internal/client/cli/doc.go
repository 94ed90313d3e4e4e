// Package cli provides the interactive crowdops session client.
//
// It wires configuration, the encrypted session store and its storage
// backend, structured logging and optional Prometheus metrics, then runs a
// small REPL:
//
//   - login   store an access token and the user's profile
//   - whoami  show the cached profile and token expiry
//   - token   report whether a usable token is cached
//   - call    issue an authenticated GET request
//   - logout  drop everything cached for this session
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
