// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cfg

// Func owns the dense block slice for one procedure and a small pool of
// reusable scratch slices: the postorder and SCC walks allocate and free
// boolean scratch slices on every call, so pooling them avoids per-call
// garbage for functions processed repeatedly (e.g. when liveness is
// rebuilt after every coalesce round).
type Func struct {
	Entry  *Block
	Blocks []*Block

	Cache cache

	cachedPostorder []*Block
	cachedSCCs      [][]*Block
}

// NewFunc allocates an empty function. Callers build up Blocks and wire
// edges with AddEdge, then call SetEntry.
func NewFunc() *Func {
	return &Func{}
}

// NewBlock appends and returns a new block owned by f.
func (f *Func) NewBlock() *Block {
	b := &Block{ID: BlockID(len(f.Blocks)), f: f}
	f.Blocks = append(f.Blocks, b)
	return b
}

// SetEntry designates f's entry block. Must be called before any analysis
// pass runs.
func (f *Func) SetEntry(b *Block) { f.Entry = b }

// NumBlocks returns the number of blocks, i.e. the domain size for any
// BlockID-indexed slice or bitset.
func (f *Func) NumBlocks() int { return len(f.Blocks) }

// InvalidateCFG discards every structure cached from the block graph. Call
// this after mutating Preds/Succs/Blocks directly (outside of AddEdge)
// so that stale postorder/SCC caches are never observed.
func (f *Func) InvalidateCFG() {
	f.cachedPostorder = nil
	f.cachedSCCs = nil
}

// Fatalf reports a programmer-contract violation or SSA-integrity anomaly
// that leaves the procedure unsafe to continue compiling. It is the single
// funnel for both error classes: the caller is expected to recover() at
// the pass boundary if it wants to turn this into its own
// internal-compiler-error report.
func (f *Func) Fatalf(format string, args ...any) {
	panic(newInternalError(format, args...))
}

// cache is a small pool of scratch slices keyed by length, avoiding an
// allocation on every alloc/free round trip for the common case where the
// same Func is re-analyzed repeatedly (e.g. liveness recomputed after each
// coalesce round).
type cache struct {
	boolSlices [][]bool
}

func (c *cache) allocBoolSlice(n int) []bool {
	for i, s := range c.boolSlices {
		if cap(s) >= n {
			c.boolSlices[i] = c.boolSlices[len(c.boolSlices)-1]
			c.boolSlices = c.boolSlices[:len(c.boolSlices)-1]
			s = s[:n]
			for j := range s {
				s[j] = false
			}
			return s
		}
	}
	return make([]bool, n)
}

func (c *cache) freeBoolSlice(s []bool) {
	c.boolSlices = append(c.boolSlices, s)
}
