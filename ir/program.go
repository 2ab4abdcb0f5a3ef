// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import "github.com/gossa/outofssa/cfg"

// Program ties a cfg.Func to the phi-lists and statement-lists hung off
// each of its blocks, plus the version table recording every SSA version's
// defining statement and underlying declaration. It is the single value the
// analysis packages (varmap, live, tpa, conflict, coalesce) take as input.
type Program struct {
	CFG      *cfg.Func
	Versions *VersionTable

	phis  [][]*Phi // indexed by BlockID
	stmts [][]*Stmt
}

// NewProgram allocates a Program over an already-built cfg.Func.
func NewProgram(f *cfg.Func, versions *VersionTable) *Program {
	n := f.NumBlocks()
	return &Program{
		CFG:      f,
		Versions: versions,
		phis:     make([][]*Phi, n),
		stmts:    make([][]*Stmt, n),
	}
}

// SetPhis installs b's phi list. Each Phi's Edges must align with
// b's cfg.Block.Preds (Phi.Edges[i] == b's Preds[i]), so that every phi
// argument resolves to a predecessor edge.
func (p *Program) SetPhis(b *cfg.Block, phis []*Phi) {
	p.phis[b.Index()] = phis
}

// SetStmts installs b's non-phi statement list, in forward program order.
func (p *Program) SetStmts(b *cfg.Block, stmts []*Stmt) {
	p.stmts[b.Index()] = stmts
}

// Phis returns b's phi-nodes.
func (p *Program) Phis(b *cfg.Block) []*Phi { return p.phis[b.Index()] }

// Stmts returns b's non-phi statements in forward order. Callers that need
// reverse order (the conflict-graph backward sweep) iterate the returned
// slice back to front themselves — reverse traversal is a property of the
// caller's loop, not of the stored representation, exactly as a real
// compiler's block statement list supports both directions without storing
// two copies.
func (p *Program) Stmts(b *cfg.Block) []*Stmt { return p.stmts[b.Index()] }
