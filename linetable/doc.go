// ABOUTME: Package documentation for the line table decoders
// ABOUTME: Summarizes the three encodings and their stopping rules

// Package linetable maps a bytecode offset to a source line for the three
// generations of CPython line tables: the classic co_lnotab pairs (up to
// 3.9), the 3.10 co_linetable pairs, and the 3.11+ compact location table.
//
// All three are delta encoded, so lookups scan forward from the code
// object's first line. The pair formats stop strictly after lasti; the
// compact format stops on reaching it. The comparisons differ on purpose and
// must not be unified.
package linetable
