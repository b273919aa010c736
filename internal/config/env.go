package config

import "os"

// Environment variable names for overrides. Credentials are overridable so
// the secret never needs to live in the config file.
const (
	EnvConfig       = "GRAPHSHEET_CONFIG"
	EnvTenantID     = "GRAPHSHEET_TENANT_ID"
	EnvClientID     = "GRAPHSHEET_CLIENT_ID"
	EnvClientSecret = "GRAPHSHEET_CLIENT_SECRET"
)

// EnvOverrides holds values derived from environment variables.
type EnvOverrides struct {
	ConfigPath   string
	TenantID     string
	ClientID     string
	ClientSecret string
}

// ReadEnvOverrides reads environment variables and returns any overrides found.
func ReadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		ConfigPath:   os.Getenv(EnvConfig),
		TenantID:     os.Getenv(EnvTenantID),
		ClientID:     os.Getenv(EnvClientID),
		ClientSecret: os.Getenv(EnvClientSecret),
	}
}

// ApplyEnvOverrides copies set environment values onto cfg. Empty values
// leave the file-provided fields untouched.
func ApplyEnvOverrides(cfg *Config, env EnvOverrides) {
	if env.TenantID != "" {
		cfg.TenantID = env.TenantID
	}

	if env.ClientID != "" {
		cfg.ClientID = env.ClientID
	}

	if env.ClientSecret != "" {
		cfg.ClientSecret = env.ClientSecret
	}
}
