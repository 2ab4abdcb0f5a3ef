// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package varmap

import (
	"sort"

	"github.com/gossa/outofssa/ir"
)

// CompactFlags controls Compact's filtering of which raw partitions survive
// into the dense post-compaction numbering.
type CompactFlags uint8

const (
	// NoSingleDefs excludes partitions whose root-variable class — every
	// live partition sharing the same underlying declaration, coalesced or
	// not — has only one member. This is a root-var-class notion, not a
	// union-find one: two never-unioned SSA versions of the same
	// declaration each have Size 1 individually, but share a 2-member
	// root-var class and are exactly the still-coalescable candidates the
	// flag is meant to keep.
	NoSingleDefs CompactFlags = 1 << iota
)

// rootVarClassSizes counts, for each live partition in roots, how many live
// partitions share its underlying declaration. A partition with no
// underlying declaration (no SSA version or real declaration ever
// registered onto it) forms its own singleton class of one.
func (m *Map) rootVarClassSizes(roots []Partition) map[Partition]int {
	counts := make(map[*ir.Decl]int, len(roots))
	for _, r := range roots {
		if d := m.UnderlyingDecl(r); d != nil {
			counts[d]++
		}
	}
	sizes := make(map[Partition]int, len(roots))
	for _, r := range roots {
		d := m.UnderlyingDecl(r)
		if d == nil {
			sizes[r] = 1
			continue
		}
		sizes[r] = counts[d]
	}
	return sizes
}

// Compact rebuilds dense partition IDs in [0, NumPartitions). Compaction
// never changes union-find membership, only the external numbering;
// ToCompact/ToRaw expose the retained translation. Any derivative built
// before a Compact call (tpa.TPA, conflict.Graph, coalesce.List) must be
// rebuilt afterward; tpa.TPA detects a bumped Version, conflict.Graph and
// coalesce.List do not.
func (m *Map) Compact(flags CompactFlags) {
	roots := m.Roots()
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })

	var rootVarSizes map[Partition]int
	if flags&NoSingleDefs != 0 {
		rootVarSizes = m.rootVarClassSizes(roots)
	}

	kept := roots[:0]
	for _, r := range roots {
		if flags&NoSingleDefs != 0 && rootVarSizes[r] == 1 {
			continue
		}
		kept = append(kept, r)
	}

	compactToRaw := make([]Partition, len(kept))
	rawToCompact := make([]Partition, m.numRaw)
	for i := range rawToCompact {
		rawToCompact[i] = NoPartition
	}
	for compact, raw := range kept {
		compactToRaw[compact] = raw
		rawToCompact[raw] = Partition(compact)

		if d, ok := m.RepDecl(raw); ok {
			st := m.declState(d)
			st.partition = Partition(compact)
		}
	}

	m.compactToRaw = compactToRaw
	m.rawToCompact = rawToCompact
	m.numPartitions = len(kept)
	m.version++
}

// NumPartitions returns the dense partition count after the most recent
// Compact call. Zero before the first Compact.
func (m *Map) NumPartitions() int { return m.numPartitions }

// ToCompact translates a raw partition ID into its dense post-compaction
// ID, or NoPartition if p was excluded (e.g. by NoSingleDefs) or Compact
// has not run.
func (m *Map) ToCompact(p Partition) Partition {
	root := Partition(m.find(int32(p)))
	if m.rawToCompact == nil || int(root) >= len(m.rawToCompact) {
		return NoPartition
	}
	return m.rawToCompact[root]
}

// ToRaw translates a dense post-compaction ID back to its raw partition ID.
func (m *Map) ToRaw(compact Partition) Partition {
	return m.compactToRaw[compact]
}
