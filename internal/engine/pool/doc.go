// Package pool provides size-classed storage for the short-lived rune
// buffers that editing produces.
//
// RunePool recycles line and scratch slices through one sync.Pool per
// power-of-two class. Arena holds bounded, fixed-capacity rune chunks that
// are linked into chains by Handle rather than by pointer; undo records keep
// their removed and inserted text in such chains so that no single node grows
// without bound. Freed chunks return to the free list of their class.
package pool
