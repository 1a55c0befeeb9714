// Package logger provides structured logging for locator using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("di")
//	log.Info("container locked", logger.Fields("registrations", 12))
package logger
