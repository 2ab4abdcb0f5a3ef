// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cfg

import "iter"

// This file implements strongly connected component (SCC) detection over
// the CFG using the Kosaraju-Sharir algorithm.
//
// Kosaraju-Sharir was chosen over Tarjan's single-pass algorithm because it
// is straightforward to implement iteratively and requires no auxiliary
// data on graph nodes. The first DFS pass is Func.Postorder, which is
// cached on f, so a caller that already computed postorder pays nothing
// extra for it.
//
// Properties:
//   - The first SCC contains only the entry block.
//   - Unreachable blocks are excluded from the result.
//   - The topological order of the kernel DAG may not be unique; this does
//     not affect correctness for live-range computation.
//   - Block order within each SCC is unspecified.
func (f *Func) SCCs() iter.Seq[[]*Block] {
	return func(yield func([]*Block) bool) {
		po := f.Postorder()

		seen := make([]bool, f.NumBlocks())
		reachable := make([]bool, f.NumBlocks())
		for _, b := range po {
			reachable[b.Index()] = true
		}

		queue := make([]*Block, 0, len(po))

		for i := len(po) - 1; i >= 0; i-- {
			leader := po[i]
			if seen[leader.Index()] {
				continue
			}

			scc := make([]*Block, 0, 4)
			queue = append(queue, leader)
			seen[leader.Index()] = true

			for len(queue) > 0 {
				b := queue[0]
				queue = queue[1:]
				scc = append(scc, b)

				for _, e := range b.Preds {
					pred := e.Block
					if reachable[pred.Index()] && !seen[pred.Index()] {
						seen[pred.Index()] = true
						queue = append(queue, pred)
					}
				}
			}

			if !yield(scc) {
				return
			}
		}
	}
}

// SCCPartition returns all SCCs as a slice for callers that need random
// access or need to know the count up front, caching the result on f.
// Prefer Func.SCCs when only a single traversal is needed.
func (f *Func) SCCPartition() [][]*Block {
	if f.cachedSCCs != nil {
		return f.cachedSCCs
	}
	var result [][]*Block
	for scc := range f.SCCs() {
		result = append(result, scc)
	}
	f.cachedSCCs = result
	return result
}

// AlternatingOrders finds postorder and reverse-postorder walks confined to
// one SCC: one postorder pass visits toward the component's entry, one
// reverse pass visits back out toward its exits. This is a general CFG
// utility, not wired into the liveness solver — the solver's plain worklist
// already reaches fixed point regardless of visitation order (see
// live.CalculateLiveOnEntry) — and is exercised directly by this package's
// own tests.
func AlternatingOrders(scc []*Block) (exitward, entryward []*Block) {
	switch len(scc) {
	case 1:
		return scc, scc
	case 2:
		return scc, []*Block{scc[1], scc[0]}
	default:
		return sccOrdersDFS(scc)
	}
}

func sccOrdersDFS(scc []*Block) (exitward, entryward []*Block) {
	entry := scc[0]
	f := entry.f

	valid := f.Cache.allocBoolSlice(f.NumBlocks())
	defer f.Cache.freeBoolSlice(valid)
	for _, b := range scc {
		valid[b.Index()] = true
	}

	entryward = postorderForValidBlocks(f, entry, valid)
	exitward = postorderForValidBlocks(f, entryward[0], valid)
	return
}
