// Package logger provides leveled console logging for mspkeys commands.
//
// Verbosity is controlled by two flags shared by every command group:
//
//   - --verbose: shows info messages
//   - --debug: shows info and debug messages
//
// Warnings and errors are always written to stderr.
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Loaded keystore with %d entries", n)
//
// Nothing that passes through a Logger may contain secret material. Callers
// log identity ids, protection modes and file paths only.
package logger
