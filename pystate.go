// ABOUTME: Main pystate package providing version information and package documentation
// ABOUTME: This is the root package for reading interpreter state out of a target process

// Package pystate reads the runtime state of a CPython interpreter from the
// memory of another process or from a captured snapshot.
//
// A Target pairs a byte fetcher with the structure layout of one
// interpreter version. Each reader fetches exactly one entity and returns its
// capability view from package layout; following the addresses a view
// exposes, such as the next thread or the calling frame, is left to the
// caller.
package pystate

// Version is the semantic version of the pystate library
const Version = "0.1.0-dev"
