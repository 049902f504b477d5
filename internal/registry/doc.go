// Package registry holds the shared tool catalog. Every transport
// dispatches through the same registry, so the tool set, argument
// validation, and result envelopes are identical whether a call
// arrives over stdio or HTTP.
package registry
