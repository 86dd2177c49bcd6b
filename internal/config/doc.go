// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, .env files, config files). It
// provides type-safe access to the settings needed by the server and the
// converter while keeping configuration details out of request handling.
package config
