// Package codec converts diaries, entries and updates to and from their
// compact binary representation and the base64 text forms used for
// persistence and URL transport.
//
// # Wire format
//
// The binary form is protobuf-compatible. Field numbers are fixed:
//
//	Entry:  1 timestamp (uint64)   2 event (enum)   3 private storage (map)
//	        4 related (uint64)     5 comment (string)
//	Diary:  1 entries   2 private storage   3 preferred day length
//	        4 server    5 server entries sent   6 server entries offset
//	Update: 1 entries   2 start   3 delete count   4 reset
//
// Zero values are omitted on encode. Unknown fields are skipped on decode; a
// known field carrying the wrong wire type, a truncated buffer or an event
// number outside the enumeration is rejected with common.ErrDecode.
//
// # Text forms
//
// Persisted diaries are wrapped as Diary("<base64>"). Updates travel bare, as
// standard-alphabet base64 appended to the server URL.
package codec
