package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --backend
// on "zakops deals", "zakops search", and "zakops chat").
type Flag struct {
	// Name is the long flag name (e.g. "backend").
	Name string

	// Shorthand is the one-letter short flag (e.g. "b"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "backend.url").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddUintFlag,
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagBackendURL = "backend"
	FlagAPIKey     = "api-key"
	FlagTimeout    = "timeout"
	FlagSearchTTL  = "search-ttl"
	FlagStubListen = "listen"
	FlagFixtures   = "fixtures"
)

// Flags is the default flag registry used by the zakops commands.
var Flags = FlagSet{
	FlagBackendURL: {
		Name:        "backend",
		Shorthand:   "b",
		ViperKey:    "backend.url",
		Description: "Deal service base URL",
	},
	FlagAPIKey: {
		Name:        "api-key",
		ViperKey:    "backend.api_key",
		Description: "Bearer token for the deal service",
	},
	FlagTimeout: {
		Name:        "timeout",
		ViperKey:    "backend.timeout_seconds",
		Description: "Request timeout in seconds for non-streaming calls",
	},
	FlagSearchTTL: {
		Name:        "search-ttl",
		ViperKey:    "search.cache_ttl_seconds",
		Description: "Seconds search results stay cached client-side",
	},
	FlagStubListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "stub.listen",
		Description: "Address for the stub deal service to listen on",
	},
	FlagFixtures: {
		Name:        "fixtures",
		Shorthand:   "f",
		ViperKey:    "stub.fixtures",
		Description: "Path to a JSON fixtures file for the stub deal service",
	},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddUintFlag registers a uint flag on cmd from the given FlagSet.
func AddUintFlag(cmd *cobra.Command, fs FlagSet, registryKey string, target *uint) {
	def, ok := fs[registryKey]
	if !ok {
		return
	}

	defaultVal := defaultUint(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().UintVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().UintVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// defaultUint returns the default uint value for a viper key from NewDefaultConfig.
func defaultUint(viperKey string) uint {
	v := viper.New()
	setViperDefaults(v)
	return v.GetUint(viperKey)
}
