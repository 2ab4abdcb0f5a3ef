// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cfg is a minimal, self-contained control-flow-graph
// representation: a dense, ID-indexed graph that the analysis passes in
// sibling packages walk directly. It is not a general-purpose SSA builder;
// a host compiler embedding the varmap/live/tpa/conflict/coalesce packages
// would normally adapt its own CFG to look like this rather than
// constructing one of these.
package cfg

// BlockID is a dense index into a Func's block slice.
type BlockID int32

// Edge identifies one endpoint of a CFG edge together with the index of
// that edge within the endpoint's own edge slice. For a predecessor edge
// stored in Block.Preds, Pos is the index of this block within
// Edge.Block.Succs, and vice versa for a successor edge. This lets callers
// recover "the i'th phi argument corresponds to predecessor edge e"
// without a separate lookup.
type Edge struct {
	Block *Block
	Pos   int
}

// Block is one basic block in a CFG.
type Block struct {
	ID    BlockID
	Preds []Edge
	Succs []Edge

	f *Func
}

// Index returns the dense index used to size per-block slices and bitsets.
func (b *Block) Index() int { return int(b.ID) }

// Func returns the owning function.
func (b *Block) Func() *Func { return b.f }

// AddEdge wires a successor edge from `from` to `to` and the matching
// predecessor edge on `to`, keeping Pos consistent on both sides.
func AddEdge(from, to *Block) {
	succPos := len(from.Succs)
	predPos := len(to.Preds)
	from.Succs = append(from.Succs, Edge{Block: to, Pos: predPos})
	to.Preds = append(to.Preds, Edge{Block: from, Pos: succPos})
}
