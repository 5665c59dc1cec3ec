// Package asm wraps the AArch64 barrier, cache maintenance, TLB
// maintenance and system register instructions needed for MMU bring-up.
//
// On arm64 every function is a thin assembly body executing the named
// instruction. On any other architecture the functions operate on shadow
// register state so host-side tools and tests can run the full bring-up
// sequence and inspect what would have been programmed.
//
// Barriers deliberately stay separate functions instead of being folded
// into the register writers: the table walk and cache maintenance rules
// require the caller to control the exact ordering.
package asm
