package config

// Default values for configuration options. These are "layer 0" of the
// override chain and match the Graph API's published throttling guidance:
// conservative request rates and a retry budget that survives brief
// throttling windows without hammering the tenant.
const (
	DefaultGraphBaseURL = "https://graph.microsoft.com/v1.0"

	defaultScope             = "https://graph.microsoft.com/.default"
	defaultRequestTimeout    = "60s"
	defaultMaxRetries        = 5
	defaultInitialBackoff    = "1s"
	defaultMaxBackoff        = "60s"
	defaultRequestsPerSecond = 10.0
	defaultBurst             = 15
	defaultLogLevel          = "info"
	defaultLogFormat         = "auto"
	defaultHeaderRow         = 1
)

// DefaultConfig returns a Config populated with all default values. It is
// the starting point for TOML decoding so unset fields retain defaults.
func DefaultConfig() *Config {
	return &Config{
		GraphBaseURL: DefaultGraphBaseURL,
		Scopes:       []string{defaultScope},
		Network: NetworkConfig{
			RequestTimeout:    defaultRequestTimeout,
			MaxRetries:        defaultMaxRetries,
			InitialBackoff:    defaultInitialBackoff,
			MaxBackoff:        defaultMaxBackoff,
			RequestsPerSecond: defaultRequestsPerSecond,
			Burst:             defaultBurst,
		},
		Logging: LoggingConfig{
			LogLevel:  defaultLogLevel,
			LogFormat: defaultLogFormat,
		},
	}
}
