// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package live

import (
	"github.com/gossa/outofssa/cfg"
	"github.com/gossa/outofssa/ir"
	"github.com/gossa/outofssa/varmap"
)

// CalculateLiveOnEntry builds the live-on-entry sets for every partition in
// m, against the statements and phis recorded in prog. It performs the
// initial per-block use/def scan and then the backward worklist propagation
// to fixed point.
func CalculateLiveOnEntry(m *varmap.Map, prog *ir.Program) *Info {
	info := &Info{
		mapVersion: m.Version(),
		livein:     make([]BlockSet, m.NumRaw()),
		seeds:      make([][]*cfg.Block, m.NumRaw()),
	}

	scanInitialLiveness(m, prog, info)
	propagateWorklist(m, info)

	return info
}

// scanInitialLiveness performs the per-block initial scan: phi arguments
// first (two-pass, to get cross-phi references right), then non-phi
// statements in forward order.
func scanInitialLiveness(m *varmap.Map, prog *ir.Program, info *Info) {
	f := m.Func()
	var saw BlockSet // reused per block; holds partitions seen-defined in the current block ("saw_def")

	for _, b := range f.Blocks {
		saw.ClearAll()

		// Pass 1: phi arguments, checked against the argument's actual
		// defining block (not the in-progress local "saw_def" set) to
		// decide whether to even consider marking live-in. An argument
		// defined in the edge's source block, whether by a statement or by
		// one of that block's own phis, needs no live-in marking there.
		for _, phi := range prog.Phis(b) {
			for i, arg := range phi.Args {
				if arg == ir.NoVersion {
					continue // not an SSA reference (e.g. a constant operand)
				}
				e := phi.Edge(i)
				vi := m.Versions().Info(arg)
				if vi.DefBlock != e.Block {
					addLiveinIfNotDef(m, info, &saw, arg, e.Block)
				}
			}
		}

		// Pass 2: only now mark every phi result as defined in b. This
		// split is essential: a later phi's argument naming an earlier
		// phi's result in the same block refers to the value incoming on
		// that edge, not the just-computed result.
		for _, phi := range prog.Phis(b) {
			setIfValid(m, &saw, phi.Result)
		}

		for _, stmt := range prog.Stmts(b) {
			for _, u := range stmt.Uses {
				addLiveinIfNotDef(m, info, &saw, u, b)
			}
			for _, d := range stmt.Defs {
				setIfValid(m, &saw, d)
			}
		}
	}
}

// addLiveinIfNotDef marks v's partition live-in at block unless it is
// already recorded as defined-in-block-so-far (saw).
func addLiveinIfNotDef(m *varmap.Map, info *Info, saw *BlockSet, v ir.Version, block *cfg.Block) {
	if v == ir.NoVersion || block == m.Func().Entry {
		return
	}
	p := m.PartitionOf(v)
	if saw.Has(int(p)) {
		return
	}
	if info.livein[p].SetIfAbsent(block.Index()) {
		info.global.Set(int(p))
		info.seeds[p] = append(info.seeds[p], block)
	}
}

// setIfValid records v's partition as defined in the current block's
// saw_def scratch set.
func setIfValid(m *varmap.Map, saw *BlockSet, v ir.Version) {
	if v == ir.NoVersion {
		return
	}
	p := m.PartitionOf(v)
	saw.Set(int(p))
}

// propagateWorklist closes the live-in sets backward: for every partition
// with a nonempty initial live-in set, push its known live-in blocks and
// repeatedly expand to predecessors, except across the entry block and
// across the block defining the partition's representative version
// (liveness does not flow past a definition).
func propagateWorklist(m *varmap.Map, info *Info) {
	f := m.Func()
	var stack []*cfg.Block

	for _, pInt := range info.Global() {
		p := varmap.Partition(pInt)
		stack = append(stack[:0], info.seeds[pInt]...)

		var defBlock *cfg.Block
		if repV, ok := m.RepVersion(p); ok {
			vi := m.Versions().Info(repV)
			defBlock = vi.DefBlock
		}

		for len(stack) > 0 {
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			for _, e := range b.Preds {
				s := e.Block
				if s == f.Entry || s == defBlock {
					continue
				}
				if info.livein[pInt].SetIfAbsent(s.Index()) {
					stack = append(stack, s)
				}
			}
		}
	}
}
