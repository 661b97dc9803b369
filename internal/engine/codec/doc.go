// Package codec converts between UTF-8 bytes and codepoints.
//
// Encoding is a direct application of the UTF-8 range rules. Decoding is a
// streaming machine: a Decoder is fed one byte at a time and reports a
// codepoint exactly when a sequence completes. Malformed input never faults.
// A stray continuation byte or an invalid leading byte decodes to
// utf8.RuneError, a sequence interrupted by a new leading byte is dropped,
// and a sequence truncated by the end of input yields nothing.
package codec
