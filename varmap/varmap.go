// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package varmap implements the out-of-SSA partition map: a union-find over
// SSA versions, with bidirectional version<->partition lookup and a later
// compaction pass that renumbers partitions densely without disturbing
// membership. Everything keyed by a dense integer domain (versions, raw
// partition ids) lives in plain ID-indexed slices rather than maps.
package varmap

import (
	"github.com/gossa/outofssa/cfg"
	"github.com/gossa/outofssa/ir"
)

// Partition identifies a set of SSA versions that will share backing
// storage. Before Compact, Partition values are raw union-find root IDs;
// after Compact, ToCompact/ToRaw translate between the dense
// post-compaction space and the raw space the union-find itself still
// operates in (compaction never touches union-find internals, only the
// external numbering derivatives see).
type Partition int32

// NoPartition is the sentinel "absent" partition, returned when an operand
// cannot be resolved (an unregistered SSA version, or a declaration not yet
// associated with any partition).
const NoPartition Partition = -1

// Operand is either an SSA version or a real (non-SSA) declaration already
// associated with a partition via ChangePartitionVar or a prior Union.
type Operand struct {
	Version ir.Version
	Decl    *ir.Decl
}

// VersionOperand wraps an SSA version as an Operand.
func VersionOperand(v ir.Version) Operand { return Operand{Version: v} }

// DeclOperand wraps a real declaration as an Operand. The declaration must
// already be associated with a partition (via ChangePartitionVar or a prior
// Union naming it) or resolution fails.
func DeclOperand(d *ir.Decl) Operand { return Operand{Decl: d} }

func (o Operand) isReal() bool { return o.Decl != nil }

// repVar is the representative variable recorded for a partition: either
// the SSA version first registered for it, or (after ChangePartitionVar or
// a union that promoted a real declaration) the declaration itself.
type repVar struct {
	version ir.Version
	decl    *ir.Decl
	set     bool
}

func (r repVar) isReal() bool { return r.decl != nil }

// declState is the side-data a host compiler would bolt onto a
// declaration's own annotation record; kept here instead so re-running the
// analysis on the same IR never observes stale flags.
type declState struct {
	partition     Partition
	hasPartition  bool
	escapedSSA    bool // out_of_ssa_tag
	rootProcessed bool
	rootClassIdx  int
}

// Map is the union-find partition map over SSA versions.
type Map struct {
	f *cfg.Func

	numRaw int // size passed to Init; also the raw ID domain size

	parent []int32 // union-find parent, indexed by raw id
	rank   []uint8
	size   []int32 // number of versions unioned into the tree rooted at this raw id (only meaningful at roots)

	repVars []repVar // indexed by raw id; only meaningful at roots
	refs    []int32  // indexed by version-1, optional reference count

	versions *ir.VersionTable
	decls    map[*ir.Decl]*declState

	compactToRaw  []Partition
	rawToCompact  []Partition
	numPartitions int

	version int // bumped on every Compact; derivatives assert against this
}

// Init allocates N singleton partitions, one per SSA version backed by
// versions. Size is versions.Len().
func Init(f *cfg.Func, versions *ir.VersionTable) *Map {
	n := versions.Len()
	m := &Map{
		f:        f,
		numRaw:   n,
		parent:   make([]int32, n),
		rank:     make([]uint8, n),
		size:     make([]int32, n),
		repVars:  make([]repVar, n),
		refs:     make([]int32, n),
		versions: versions,
		decls:    make(map[*ir.Decl]*declState),
	}
	for i := 0; i < n; i++ {
		m.parent[i] = int32(i)
		m.size[i] = 1
	}
	return m
}

// Version bumps every time Compact runs. live.Info and tpa.TPA record the
// Version they were built against, and Info.LiveOnExit and TPA.Compact
// refuse to run once it has moved on; conflict.Graph and coalesce.List do
// not record it.
func (m *Map) Version() int { return m.version }

func (m *Map) declState(d *ir.Decl) *declState {
	st, ok := m.decls[d]
	if !ok {
		st = &declState{partition: NoPartition}
		m.decls[d] = st
	}
	return st
}

func (m *Map) find(raw int32) int32 {
	root := raw
	for m.parent[root] != root {
		root = m.parent[root]
	}
	// path compression
	for m.parent[raw] != root {
		next := m.parent[raw]
		m.parent[raw] = root
		raw = next
	}
	return root
}

// Resolve returns p's current union-find root. Partition values handed out
// by Union, a coalesce list, or any other component built before a later
// merge can go stale the moment that merge happens (the merged-away
// partition keeps existing as a non-root raw id); callers that hold onto a
// Partition across a Union call must re-resolve it through Resolve before
// using it as a lookup key again.
func (m *Map) Resolve(p Partition) Partition {
	return Partition(m.find(int32(p)))
}

// PartitionOf resolves a registered SSA version to its current raw
// partition. Fatal if v lies outside the version table the map was built
// from; a version inside the table resolves whether or not Register was
// called for it.
func (m *Map) PartitionOf(v ir.Version) Partition {
	idx := int32(v) - 1
	if idx < 0 || int(idx) >= m.numRaw {
		m.f.Fatalf("varmap: version %d out of range", v)
	}
	return Partition(m.find(idx))
}

// resolve resolves an Operand to its current raw partition, or
// (NoPartition, false) if it cannot be resolved (an unassociated
// declaration).
func (m *Map) resolve(op Operand) (Partition, bool) {
	if op.isReal() {
		st, ok := m.decls[op.Decl]
		if !ok || !st.hasPartition {
			return NoPartition, false
		}
		return Partition(m.find(int32(st.partition))), true
	}
	return m.PartitionOf(op.Version), true
}

// Register records v as the representative variable of its partition if no
// representative is recorded yet. isUse optionally increments a per-version
// reference counter.
func (m *Map) Register(v ir.Version, isUse bool) {
	idx := int32(v) - 1
	if idx < 0 || int(idx) >= m.numRaw {
		m.f.Fatalf("varmap: register: version %d out of range", v)
	}
	if isUse {
		m.refs[idx]++
	}
	root := m.find(idx)
	if !m.repVars[root].set {
		m.repVars[root] = repVar{version: v, set: true}
	}
}

// Union resolves v1 and v2 (each either an SSA version or a real
// declaration already owning a partition) and unions their partitions.
// Returns NoPartition if either operand cannot be resolved.
//
// If either operand is a real declaration, it becomes a candidate
// representative variable for the merged partition; if both are real, a
// user-visible declaration is preferred over a compiler-ignored one, so a
// real variable's name survives over a temporary's.
func (m *Map) Union(v1, v2 Operand) Partition {
	p1, ok1 := m.resolve(v1)
	p2, ok2 := m.resolve(v2)
	if !ok1 || !ok2 {
		return NoPartition
	}
	r1, r2 := int32(p1), int32(p2)
	if r1 == r2 {
		return Partition(r1)
	}

	// Decide which root becomes the new representative's home, preferring
	// the one with the higher rank for union-by-rank; ties broken toward
	// r1 for determinism.
	if m.rank[r1] < m.rank[r2] {
		r1, r2 = r2, r1
	} else if m.rank[r1] == m.rank[r2] {
		m.rank[r1]++
	}
	winnerVar := m.chooseRepVar(m.repVars[r1], m.repVars[r2])

	m.parent[r2] = r1
	m.size[r1] += m.size[r2]
	m.repVars[r1] = winnerVar
	if winnerVar.isReal() {
		st := m.declState(winnerVar.decl)
		st.hasPartition = true
		st.partition = Partition(r1)
	}
	return Partition(r1)
}

// chooseRepVar implements the "prefer user-visible over compiler-ignored"
// tie-break when both operands carry a real declaration, and otherwise
// prefers any real declaration over a bare SSA version.
func (m *Map) chooseRepVar(a, b repVar) repVar {
	switch {
	case a.isReal() && b.isReal():
		aIgnored := a.decl.IgnoredName
		bIgnored := b.decl.IgnoredName
		if aIgnored && !bIgnored {
			return b
		}
		return a
	case a.isReal():
		return a
	case b.isReal():
		return b
	case a.set:
		return a
	default:
		return b
	}
}

// ChangePartitionVar sets the representative variable of p's raw partition
// to var (a real declaration) and records on the declaration's side-data
// that it has escaped SSA and now owns p.
func (m *Map) ChangePartitionVar(d *ir.Decl, p Partition) {
	root := m.find(int32(p))
	m.repVars[root] = repVar{decl: d, set: true}
	st := m.declState(d)
	st.hasPartition = true
	st.partition = Partition(root)
	st.escapedSSA = true
}

// HasEscapedSSA reports whether d has been bound to a partition via
// ChangePartitionVar.
func (m *Map) HasEscapedSSA(d *ir.Decl) bool {
	st, ok := m.decls[d]
	return ok && st.escapedSSA
}

// RepVersion returns the representative SSA version for p if its
// representative is an SSA version rather than a real declaration.
func (m *Map) RepVersion(p Partition) (ir.Version, bool) {
	root := m.find(int32(p))
	rv := m.repVars[root]
	if rv.isReal() || !rv.set {
		return 0, false
	}
	return rv.version, true
}

// RepDecl returns the representative real declaration for p, if its
// representative has been promoted to a real (non-SSA) declaration.
func (m *Map) RepDecl(p Partition) (*ir.Decl, bool) {
	root := m.find(int32(p))
	rv := m.repVars[root]
	if !rv.isReal() {
		return nil, false
	}
	return rv.decl, true
}

// UnderlyingDecl returns the declaration a partition's representative
// versions over, whether the representative is itself a real declaration
// or an SSA version of one.
func (m *Map) UnderlyingDecl(p Partition) *ir.Decl {
	root := m.find(int32(p))
	rv := m.repVars[root]
	if rv.isReal() {
		return rv.decl
	}
	if rv.set {
		return m.versions.Info(rv.version).Decl
	}
	return nil
}

// Size returns the number of SSA versions unioned into p so far. This is a
// pure union-find notion and is distinct from a partition's root-variable
// class size (see Compact's NoSingleDefs, which counts live partitions
// sharing an underlying declaration rather than prior union count).
func (m *Map) Size(p Partition) int32 {
	return m.size[m.find(int32(p))]
}

// NumRaw returns the raw (pre-compaction) ID domain size, i.e. the size
// passed to Init.
func (m *Map) NumRaw() int { return m.numRaw }

// Func returns the owning CFG, for components that need to walk it (live,
// conflict).
func (m *Map) Func() *cfg.Func { return m.f }

// Versions returns the version table backing this map.
func (m *Map) Versions() *ir.VersionTable { return m.versions }

// Roots iterates every raw ID currently serving as a union-find root, i.e.
// every live (pre-compaction) partition.
func (m *Map) Roots() []Partition {
	seen := make(map[int32]bool, m.numRaw)
	var out []Partition
	for i := int32(0); i < int32(m.numRaw); i++ {
		root := m.find(i)
		if !seen[root] {
			seen[root] = true
			out = append(out, Partition(root))
		}
	}
	return out
}
