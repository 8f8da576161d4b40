// Package utils provides small operating system helpers shared by the
// command and workflow layers.
//
// # System Utilities
//
//   - GetUsername: returns the current system username
//   - GetHostname: returns the system hostname
//   - FileMode: reports the permission bits of a file
//
// # I/O Utilities
//
//   - ReadStdin: reads piped data from standard input
//   - TrimLineEnding: strips one trailing newline in place
//
// # Terminal Utilities
//
// Hidden input for passwords and private keys, read from stdin when it is a
// terminal and from the controlling terminal otherwise. Returned buffers
// belong to the caller, which wipes them.
package utils
