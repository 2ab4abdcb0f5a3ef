// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tpa implements the tree-partition associator: grouping
// partitions into equivalence classes by root variable or by type,
// confining which pairs the coalescer is even allowed to consider. Class
// membership is a set of singly linked lists threaded through slices
// indexed by dense partition IDs rather than pointer-heavy node structs.
package tpa

import (
	"iter"
	"sort"

	"github.com/gossa/outofssa/ir"
	"github.com/gossa/outofssa/varmap"
)

// ClassID identifies one TPA equivalence class.
type ClassID int32

// None is the sentinel "no class" / "end of list" value.
const None ClassID = -1

// Kind distinguishes the two ways a TPA can be built.
type Kind int

const (
	// KindRootVar groups partitions by underlying declaration.
	KindRootVar Kind = iota
	// KindTypeVar groups partitions by type, excluding partitions whose
	// representative is observable in ways coalescing would change.
	KindTypeVar
)

// TPA is a tree-partition associator: a set of classes, each a singly
// linked list of partition IDs, plus the reverse partition->class map.
type TPA struct {
	m          *varmap.Map
	mapVersion int
	kind       Kind

	firstPartition  []varmap.Partition // indexed by ClassID
	nextPartition   []varmap.Partition // indexed by raw partition ID
	partitionToTree []ClassID          // indexed by raw partition ID

	numTrees         int // current (possibly compacted) class count
	uncompactedCount int // class count before the most recent Compact
}

func newTPA(m *varmap.Map, kind Kind) *TPA {
	n := m.NumRaw()
	t := &TPA{
		m:               m,
		mapVersion:      m.Version(),
		kind:            kind,
		nextPartition:   make([]varmap.Partition, n),
		partitionToTree: make([]ClassID, n),
	}
	for i := range t.nextPartition {
		t.nextPartition[i] = varmap.NoPartition
		t.partitionToTree[i] = None
	}
	return t
}

// Kind reports whether this TPA was built by root variable or by type.
func (t *TPA) Kind() Kind { return t.kind }

// assertFresh panics if the partition map has been recompacted since this
// TPA was built; derivatives must be rebuilt after recompaction.
func (t *TPA) assertFresh() {
	if t.m.Version() != t.mapVersion {
		t.m.Func().Fatalf("tpa: stale TPA used after varmap.Map was recompacted")
	}
}

func descendingRoots(m *varmap.Map) []varmap.Partition {
	roots := m.Roots()
	sort.Slice(roots, func(i, j int) bool { return roots[i] > roots[j] })
	return roots
}

// RootVar groups every partition sharing the same underlying declaration
// (i.e. the same variable stripped of its SSA versioning) into one class.
// Iteration runs from the highest partition ID down so that, by prepending
// to each class's list as we go, the resulting lists end up in ascending
// partition-ID order.
func RootVar(m *varmap.Map) *TPA {
	t := newTPA(m, KindRootVar)
	declClass := make(map[*ir.Decl]ClassID)

	for _, p := range descendingRoots(m) {
		d := m.UnderlyingDecl(p)
		if d == nil {
			continue
		}
		class, ok := declClass[d]
		if !ok {
			class = ClassID(len(t.firstPartition))
			t.firstPartition = append(t.firstPartition, varmap.NoPartition)
			declClass[d] = class
		}
		t.link(class, p)
	}
	t.numTrees = len(t.firstPartition)
	return t
}

// TypeVar groups partitions by their underlying declaration's type,
// excluding any partition whose representative declaration is a volatile,
// a parameter, a function return value, a register, has a user-visible
// (non-ignored) name, or has been assigned fixed storage — coalescing any
// of those would change observable behavior.
func TypeVar(m *varmap.Map) *TPA {
	t := newTPA(m, KindTypeVar)
	typeClass := make(map[*ir.Type]ClassID)

	for _, p := range descendingRoots(m) {
		d := m.UnderlyingDecl(p)
		if d == nil || excludedFromTypeVar(d) {
			continue
		}
		class, ok := typeClass[d.Type]
		if !ok {
			class = ClassID(len(t.firstPartition))
			t.firstPartition = append(t.firstPartition, varmap.NoPartition)
			typeClass[d.Type] = class
		}
		t.link(class, p)
	}
	t.numTrees = len(t.firstPartition)
	return t
}

func excludedFromTypeVar(d *ir.Decl) bool {
	return d.Volatile || d.Parameter || d.ReturnValue || d.Register || !d.IgnoredName || d.HasStorage
}

func (t *TPA) link(class ClassID, p varmap.Partition) {
	t.partitionToTree[p] = class
	t.nextPartition[p] = t.firstPartition[class]
	t.firstPartition[class] = p
}

// ClassOf returns p's class, or None if p belongs to no class (excluded, or
// never a member to begin with).
func (t *TPA) ClassOf(p varmap.Partition) ClassID {
	if int(p) < 0 || int(p) >= len(t.partitionToTree) {
		return None
	}
	return t.partitionToTree[p]
}

// NumClasses returns the current class count (post-Compact if Compact has
// run).
func (t *TPA) NumClasses() int { return t.numTrees }

// Members iterates class's partitions in list order.
func (t *TPA) Members(class ClassID) iter.Seq[varmap.Partition] {
	return func(yield func(varmap.Partition) bool) {
		for p := t.firstPartition[class]; p != varmap.NoPartition; p = t.nextPartition[p] {
			if !yield(p) {
				return
			}
		}
	}
}

// First returns class's first member, or NoPartition if the class is
// empty.
func (t *TPA) First(class ClassID) varmap.Partition {
	return t.firstPartition[class]
}

// Next returns the next partition after p in its class's list, or
// NoPartition at the end.
func (t *TPA) Next(p varmap.Partition) varmap.Partition {
	return t.nextPartition[p]
}

// RemovePartition unlinks p from class's list in O(|class|).
func (t *TPA) RemovePartition(class ClassID, p varmap.Partition) {
	cur := t.firstPartition[class]
	if cur == p {
		t.firstPartition[class] = t.nextPartition[p]
		t.partitionToTree[p] = None
		t.nextPartition[p] = varmap.NoPartition
		return
	}
	for cur != varmap.NoPartition {
		next := t.nextPartition[cur]
		if next == p {
			t.nextPartition[cur] = t.nextPartition[p]
			t.partitionToTree[p] = None
			t.nextPartition[p] = varmap.NoPartition
			return
		}
		cur = next
	}
}
