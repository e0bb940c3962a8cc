// Package config defines kvshardd's configuration structure and
// validation:
//
//   - spec.go: Config struct definition
//   - default.go: default configuration values
//   - verify.go: validation (directory existence, range checks)
//   - sanitize.go: log sanitization (hide the encryption key)
//
// Configuration is loaded via internal/confloader and supports layered
// sources: defaults, an optional YAML file, and environment variables.
package config
