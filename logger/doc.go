// Package logger wraps zerolog with the conventions used across the option
// stores: map-based fields, component tagging, and a process-wide default.
//
//	log := logger.New(&logger.Config{Level: "debug", Format: "json"}, "options")
//	log.WithComponent("database").Info("option set", logger.Fields("key", "color"))
//
// Output may be stdout, stderr, or a file path; file output is rotated by
// lumberjack.
package logger
