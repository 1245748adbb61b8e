// Package logger provides the process-wide human-readable startup/shutdown
// logging used by the cmd/ entrypoints. Subsystem packages use
// github.com/hashicorp/go-hclog directly and are named per component; this
// package only covers the plain banner-style lines a main() prints before
// and after the structured loggers are wired up.
package logger

import (
	"log"
	"os"
)

var std = log.New(os.Stdout, "", log.LstdFlags)

// Info prints a plain informational line.
func Info(format string, args ...interface{}) {
	std.Printf("INFO: "+format, args...)
}

// Warn prints a plain warning line.
func Warn(format string, args ...interface{}) {
	std.Printf("WARN: "+format, args...)
}

// Error prints a plain error line.
func Error(format string, args ...interface{}) {
	std.Printf("ERROR: "+format, args...)
}

// Fatal prints an error line and exits the process.
func Fatal(format string, args ...interface{}) {
	std.Fatalf("FATAL: "+format, args...)
}
