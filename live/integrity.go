// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package live

import (
	"fmt"
	"io"

	"github.com/gossa/outofssa/cfg"
	"github.com/gossa/outofssa/ir"
	"github.com/gossa/outofssa/varmap"
)

// CheckIntegrity runs the optional SSA-integrity checks: for every
// successor of the entry block, every partition live on entry there must
// either have a default definition of its underlying declaration, or be a
// phi argument on that edge; and no statement may touch the same
// declaration as both a virtual operand and a real operand. A violation
// means an earlier optimization created an inconsistency the procedure
// cannot be safely compiled with — each is reported to sink and the whole
// check is then raised as a fatal internal error via m.Func().Fatalf.
func CheckIntegrity(info *Info, m *varmap.Map, prog *ir.Program, sink io.Writer) {
	f := m.Func()
	violations := 0

	for _, e := range f.Entry.Succs {
		succ := e.Block
		for pInt := range info.livein {
			if !info.livein[pInt].Has(succ.Index()) {
				continue
			}
			p := varmap.Partition(pInt)
			if hasDefaultDef(m, p) || isPhiArgOnEdge(prog, succ, e, p, m) {
				continue
			}
			violations++
			fmt.Fprintf(sink, "integrity: partition %d live on entry to block %d with no default def and no phi argument on edge from entry\n", pInt, succ.Index())
		}
	}

	violations += checkVirtualRealOverlap(f, prog, sink)

	if violations > 0 {
		f.Fatalf("live: %d SSA-integrity violation(s) detected", violations)
	}
}

// checkVirtualRealOverlap flags any statement where a declaration named as
// a virtual operand (VirtualUse or VMustDef) is also named as a real
// operand, which would leave the partition map unable to tell which of the
// two operand kinds actually governs the declaration's liveness.
func checkVirtualRealOverlap(f *cfg.Func, prog *ir.Program, sink io.Writer) int {
	violations := 0
	for _, b := range f.Blocks {
		for _, stmt := range prog.Stmts(b) {
			if len(stmt.RealOperands) == 0 {
				continue
			}
			virtual := stmt.VirtualOperands(ir.VirtualUse | ir.VMustDef)
			if len(virtual) == 0 {
				continue
			}
			real := make(map[*ir.Decl]bool, len(stmt.RealOperands))
			for _, d := range stmt.RealOperands {
				real[d] = true
			}
			for _, d := range virtual {
				if !real[d] {
					continue
				}
				violations++
				fmt.Fprintf(sink, "integrity: declaration %s used as both a virtual and a real operand in block %d\n", d.Name, b.Index())
			}
		}
	}
	return violations
}

func hasDefaultDef(m *varmap.Map, p varmap.Partition) bool {
	d := m.UnderlyingDecl(p)
	return d != nil && d.DefaultDef != nil
}

func isPhiArgOnEdge(prog *ir.Program, block *cfg.Block, entryEdge cfg.Edge, p varmap.Partition, m *varmap.Map) bool {
	for _, phi := range prog.Phis(block) {
		for i, arg := range phi.Args {
			if arg == ir.NoVersion {
				continue
			}
			e := phi.Edge(i)
			if e.Block != entryEdge.Block {
				continue
			}
			if m.PartitionOf(arg) == p {
				return true
			}
		}
	}
	return false
}
