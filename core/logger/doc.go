// Package logger is a standardized event logging framework for the shell.
//
// Events are appended to a newline delimited JSON log, one protobuf Struct
// per line, so sessions can be audited and summarized after the fact.
package logger
