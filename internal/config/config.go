package config

// Handler modes select how much diagnostic detail error responses carry.
const (
	// ModeLenient echoes the raw body prefix and received keys in 400 responses
	// and the converter's message in 500 responses.
	ModeLenient = "lenient"

	// ModeStrict returns fixed messages and accepts only a top-level markdown field.
	ModeStrict = "strict"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	Handler   HandlerConfig   `mapstructure:"handler"   validate:"required"`
	Converter ConverterConfig `mapstructure:"converter" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                int    `mapstructure:"port"                  validate:"required,gt=0,lt=65536"`
	LogLevel            string `mapstructure:"log_level"             validate:"required,oneof=debug info warn error"`
	MaxBodyBytes        int64  `mapstructure:"max_body_bytes"        validate:"required,gt=0"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"  validate:"required,gt=0"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
}

// AuthConfig contains the shared secret expected in the Authorization header.
type AuthConfig struct {
	APIKey string `mapstructure:"api_key" validate:"required"`
}

// HandlerConfig selects the conversion handler's error disclosure policy.
type HandlerConfig struct {
	Mode string `mapstructure:"mode" validate:"required,oneof=lenient strict"`
}

// ConverterConfig contains Markdown parser settings.
type ConverterConfig struct {
	Extensions []string `mapstructure:"extensions" validate:"dive,oneof=gfm table strikethrough linkify tasklist"`
}
