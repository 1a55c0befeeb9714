// Package config provides configuration loading and validation for locator
// hosts.
//
// It uses Viper to load configuration from a YAML file, a .env file and
// environment variables. Environment variables use the LOCATOR_ prefix with
// underscore-separated paths (e.g., LOCATOR_CONTAINER_VALIDATION_MODE).
//
// # Usage
//
//	var cfg config.ServiceConfig
//	err := config.LoadConfig("locator", &cfg, config.WithDefaults(config.DefaultValues()))
package config
