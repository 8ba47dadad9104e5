package config

import "time"

// APIConfig holds HTTP server configuration
type APIConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"min=1,max=65535"`

	// Environment: development, staging or production
	Environment string `mapstructure:"environment" validate:"oneof=development staging production"`

	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// CORSOrigins lists allowed origins; empty means same-origin only
	CORSOrigins []string `mapstructure:"cors_origins"`

	// PIDFile enforces a single server instance when set
	PIDFile string `mapstructure:"pid_file"`
}

// RateLimitConfig throttles inbound requests per process
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"min=0"`
	Burst             int     `mapstructure:"burst" validate:"min=0"`
}
