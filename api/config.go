// Package api provides the local stub deal service: an in-memory pipeline
// behind the same HTTP surface the hosted backend exposes, so the console
// and the client SDK can be exercised without credentials.
package api

// Config is the stub service configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8090")
	ListenAddr string

	// FixturesPath optionally points at a JSON fixtures file to seed the
	// store from. Empty means the built-in seed data.
	FixturesPath string

	// Watch reloads the store whenever the fixtures file changes on disk.
	Watch bool
}
