package config

// LoggingConfig controls the structured logger
type LoggingConfig struct {
	// Level: debug, info, warn or error
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`

	// Format: json or text
	Format string `mapstructure:"format" validate:"oneof=json text"`
}
