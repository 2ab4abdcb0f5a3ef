// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cfgtest is a small declarative builder for constructing cfg.Func/
// ir.Program fixtures in tests: name blocks and variables by string, wire
// edges by name, and let the builder handle the dense-ID bookkeeping.
package cfgtest

import (
	"github.com/gossa/outofssa/cfg"
	"github.com/gossa/outofssa/ir"
)

// Builder accumulates a CFG, a version table, and a program (phi/statement
// lists) for one test fixture.
type Builder struct {
	F        *cfg.Func
	Versions *ir.VersionTable

	blocks  map[string]*cfg.Block
	decls   map[string]*ir.Decl
	nextVer ir.Version

	phis  map[*cfg.Block][]*ir.Phi
	stmts map[*cfg.Block][]*ir.Stmt
}

// New starts an empty fixture.
func New() *Builder {
	return &Builder{
		F:        cfg.NewFunc(),
		Versions: ir.NewVersionTable(0),
		blocks:   make(map[string]*cfg.Block),
		decls:    make(map[string]*ir.Decl),
		phis:     make(map[*cfg.Block][]*ir.Phi),
		stmts:    make(map[*cfg.Block][]*ir.Stmt),
	}
}

// Block returns the named block, creating it on first reference.
func (b *Builder) Block(name string) *cfg.Block {
	blk, ok := b.blocks[name]
	if !ok {
		blk = b.F.NewBlock()
		b.blocks[name] = blk
	}
	return blk
}

// Entry marks name as the function's entry block.
func (b *Builder) Entry(name string) *cfg.Block {
	blk := b.Block(name)
	b.F.SetEntry(blk)
	return blk
}

// Edge wires a CFG edge from -> to.
func (b *Builder) Edge(from, to string) {
	cfg.AddEdge(b.Block(from), b.Block(to))
}

// Decl returns the named declaration, creating a plain (non-excluded) one
// on first reference. Callers that need Volatile/Parameter/etc. set should
// mutate the returned pointer before any Def/Param call registers a
// version against it.
func (b *Builder) Decl(name string) *ir.Decl {
	d, ok := b.decls[name]
	if !ok {
		d = &ir.Decl{Name: name}
		b.decls[name] = d
	}
	return d
}

// Def registers a new SSA version of decl defined by stmt in block, and
// returns the version. stmt may be nil for a phi result (phis are wired via
// Phi, not Def).
func (b *Builder) Def(decl *ir.Decl, block *cfg.Block, stmt *ir.Stmt) ir.Version {
	b.nextVer++
	v := b.nextVer
	b.Versions.Set(v, ir.VersionInfo{Def: stmt, DefBlock: block, Decl: decl})
	return v
}

// Param registers a version with no defining statement at all (an incoming
// parameter's initial value, or any other version whose def is outside the
// procedure being analyzed).
func (b *Builder) Param(decl *ir.Decl) ir.Version {
	b.nextVer++
	v := b.nextVer
	b.Versions.Set(v, ir.VersionInfo{Decl: decl})
	return v
}

// DefStmt creates a statement in block that uses the given versions and
// defines one new version of decl, wiring the version's VersionInfo.Def
// back to the same statement (the common case: a real assignment, not a
// phi or a bare parameter). Returns the new version and its statement.
func (b *Builder) DefStmt(decl *ir.Decl, block *cfg.Block, uses []ir.Version) (ir.Version, *ir.Stmt) {
	s := &ir.Stmt{Uses: uses}
	v := b.Def(decl, block, s)
	s.Defs = []ir.Version{v}
	b.stmts[block] = append(b.stmts[block], s)
	return v, s
}

// Stmt appends a plain (non-copy) statement to block's forward statement
// list.
func (b *Builder) Stmt(block *cfg.Block, uses, defs []ir.Version) *ir.Stmt {
	s := &ir.Stmt{Uses: uses, Defs: defs}
	b.stmts[block] = append(b.stmts[block], s)
	return s
}

// Copy appends a copy statement lhs := rhs to block's forward statement
// list.
func (b *Builder) Copy(block *cfg.Block, lhs, rhs ir.Version) *ir.Stmt {
	s := &ir.Stmt{Uses: []ir.Version{rhs}, Defs: []ir.Version{lhs}, Copy: &ir.CopyInfo{LHS: lhs, RHS: rhs}}
	b.stmts[block] = append(b.stmts[block], s)
	return s
}

// Phi appends a phi node to block, whose Args must align 1:1 with block's
// current Preds (the same ordering AddEdge built up).
func (b *Builder) Phi(block *cfg.Block, result ir.Version, args []ir.Version) *ir.Phi {
	edges := make([]cfg.Edge, len(block.Preds))
	copy(edges, block.Preds)
	p := &ir.Phi{Result: result, Args: args, Edges: edges}
	b.phis[block] = append(b.phis[block], p)
	return p
}

// Finish builds the ir.Program from everything recorded so far.
func (b *Builder) Finish() *ir.Program {
	prog := ir.NewProgram(b.F, b.Versions)
	for _, blk := range b.blocks {
		prog.SetPhis(blk, b.phis[blk])
		prog.SetStmts(blk, b.stmts[blk])
	}
	return prog
}
