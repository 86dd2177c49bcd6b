package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by LoadWithViper.
const EnvPrefix = "RICHTEXT"

// Default values applied before any file or environment source is read.
const (
	DefaultPort                = 8080
	DefaultLogLevel            = "info"
	DefaultMaxBodyBytes        = 1 << 20
	DefaultReadTimeoutSeconds  = 15
	DefaultWriteTimeoutSeconds = 30
	DefaultHandlerMode         = ModeLenient
)

// DefaultExtensions are the goldmark extensions enabled when none are configured.
var DefaultExtensions = []string{"gfm"}

// LoadDotEnv loads a .env file from the working directory into the process
// environment. Variables that are already set win. A missing file is not an
// error; a file that cannot be read or parsed is.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load .env file: %w", err)
}

// LoadWithViper populates a Config from the given viper instance, applying
// defaults and environment bindings first. Callers that bind CLI flags or set
// a config file do so on v before calling.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	return load(v)
}

// LoadWithoutAuth is LoadWithViper for commands that never serve HTTP and so
// do not need the API key.
func LoadWithoutAuth(v *viper.Viper) (*Config, error) {
	return load(v, "Auth.APIKey")
}

func load(v *viper.Viper, skip ...string) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// API_KEY is the name the secret carries in existing deployments.
	if err := v.BindEnv("auth.api_key", EnvPrefix+"_AUTH_API_KEY", "API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind auth.api_key: %w", err)
	}

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Comma separated env values arrive as a single element.
	cfg.Converter.Extensions = splitList(cfg.Converter.Extensions)
	if len(cfg.Converter.Extensions) == 0 {
		cfg.Converter.Extensions = append([]string(nil), DefaultExtensions...)
	}
	cfg.Handler.Mode = strings.ToLower(strings.TrimSpace(cfg.Handler.Mode))

	validate := validator.New()
	var err error
	if len(skip) > 0 {
		err = validate.StructExcept(cfg, skip...)
	} else {
		err = validate.Struct(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("server.max_body_bytes", DefaultMaxBodyBytes)
	v.SetDefault("server.read_timeout_seconds", DefaultReadTimeoutSeconds)
	v.SetDefault("server.write_timeout_seconds", DefaultWriteTimeoutSeconds)
	v.SetDefault("handler.mode", DefaultHandlerMode)
	v.SetDefault("converter.extensions", DefaultExtensions)
	// Registered so AutomaticEnv can resolve the key during Unmarshal.
	v.SetDefault("auth.api_key", "")
}

func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
