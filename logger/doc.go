// Package logger provides structured logging using zerolog.
//
// Logs go to stderr by default so that stdout stays reserved for pipeline
// output. Console and JSON formats are supported. Components tag their
// entries with WithComponent.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//	  output: "stderr"
//
// # Usage
//
//	log := logger.WithComponent("runner").WithContext(ctx)
//	log.Info("run finished", logger.Fields(logger.FieldElements, 42))
package logger
