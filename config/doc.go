// Package config loads rowpipe configuration.
//
// Viper reads an optional YAML file, then environment variables override it.
// Only variables carrying the ROWPIPE_ prefix are bound, with underscores
// mapped onto nested keys (ROWPIPE_OUTPUT_FORMAT sets output.format).
// A .env file next to the config file is loaded with godotenv first.
//
// # Usage
//
//	cfg, err := config.Load("rowpipe", config.WithConfigFile(path))
package config
