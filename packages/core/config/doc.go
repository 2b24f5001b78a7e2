// Package config loads gwtspec settings from a project file.
//
// It provides functionality for:
//   - Loading configuration from .gwtspec.yaml, gwtspec.yaml, .gwtspec.json or .gwtspecrc
//   - Validating the file against a JSON Schema before decoding
//   - Default configuration values and merging of command line overrides
package config
