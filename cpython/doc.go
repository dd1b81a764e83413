// ABOUTME: Package documentation for the per-version structure decoders
// ABOUTME: Importing the package registers every supported layout

// Package cpython describes the in-memory structures of CPython 2.7 and
// 3.3 through 3.12 on 64-bit little-endian targets.
//
// Each release is modelled with plain Go structs whose field order, widths
// and explicit padding reproduce the C layout, so the fetch size of an
// entity is simply the encoded size of its struct. Decoding copies the
// fetched bytes into the struct and reduces it to one of the capability
// views in package layout. Releases that share a structure share its
// decoder.
//
// Importing this package for its side effects registers the layouts:
//
//	import _ "github.com/prateek/pystate/cpython"
package cpython
