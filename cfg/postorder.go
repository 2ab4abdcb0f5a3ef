// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cfg

// This file computes postorder traversal of a CFG. No pass in this module
// needs a dominator tree, only reachability-order block walks and SCC
// decomposition for loopy CFGs, so postorder is all the ordering machinery
// carried here.

// Postorder computes a postorder traversal ordering for the blocks in f.
// Unreachable blocks do not appear.
func (f *Func) Postorder() []*Block {
	if f.cachedPostorder != nil {
		return f.cachedPostorder
	}
	f.cachedPostorder = postorderForValidBlocks(f, f.Entry, nil)
	return f.cachedPostorder
}

type blockAndIndex struct {
	b     *Block
	index int // number of successor edges of b already explored
}

// postorderForValidBlocks performs an explicit-stack DFS postorder starting
// at entry, optionally restricted to a "valid" subset (used by SCC ordering
// to confine the walk to one strongly connected component).
func postorderForValidBlocks(f *Func, entry *Block, valid []bool) []*Block {
	seen := f.Cache.allocBoolSlice(f.NumBlocks())
	defer f.Cache.freeBoolSlice(seen)

	order := make([]*Block, 0, len(f.Blocks))

	s := make([]blockAndIndex, 0, 32)
	s = append(s, blockAndIndex{b: entry})
	seen[entry.Index()] = true
	for len(s) > 0 {
		tos := len(s) - 1
		x := s[tos]
		b := x.b
		if i := x.index; i < len(b.Succs) {
			s[tos].index++
			bb := b.Succs[i].Block
			if (valid == nil || valid[bb.Index()]) && !seen[bb.Index()] {
				seen[bb.Index()] = true
				s = append(s, blockAndIndex{b: bb})
			}
			continue
		}
		s = s[:tos]
		order = append(order, b)
	}
	return order
}
