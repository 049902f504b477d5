// Package common provides shared helpers for tool handlers: argument
// extraction and the instrumentation middleware.
package common
