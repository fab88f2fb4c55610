package config

const (
	defaultBackendURL     = "http://localhost:8090"
	defaultTimeoutSeconds = 30

	defaultSearchTTLSeconds = 60

	defaultStubListen = ":8090"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Backend: BackendConfig{
			URL:            defaultBackendURL,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Search: SearchConfig{
			CacheTTLSeconds: defaultSearchTTLSeconds,
		},
		Stub: StubConfig{
			Listen: defaultStubListen,
		},
	}
}
