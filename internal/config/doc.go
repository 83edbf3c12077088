// Package config handles configuration loading, parsing, and validation.
// Settings come from defaults, an optional config file, MEDCARDS_ prefixed
// environment variables (optionally seeded from a .env file) and command line
// flags, and are validated with struct tags before use.
package config
