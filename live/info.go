// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package live implements the live-info store and the backward data-flow
// liveness solver for the out-of-SSA pipeline: per-partition live-on-entry
// bitsets seeded by an in-block use/def scan, closed to fixed point by a
// worklist over predecessor edges, and per-block live-on-exit sets derived
// from them on demand.
package live

import (
	"github.com/gossa/outofssa/cfg"
	"github.com/gossa/outofssa/varmap"
)

// PartitionSet and BlockSet are both plain BitSets; the names exist only to
// document which integer domain (partitions vs. block indices) a given
// BitSet value is indexed over.
type PartitionSet = BitSet
type BlockSet = BitSet

// Info is the live-info store: per-partition live-on-entry bitsets, the
// "global" set of partitions with any nonempty live range, and (built
// lazily) per-block live-on-exit bitsets.
type Info struct {
	mapVersion int // varmap.Map.Version() this Info was built against

	livein []BlockSet // indexed by raw partition ID
	global PartitionSet
	seeds  [][]*cfg.Block // seeds[p] = blocks initially marked live-in to p, for worklist seeding

	liveout      []PartitionSet // indexed by BlockID, built on demand
	liveoutBuilt bool
}

// LiveIn returns the set of block indices where partition p is live on
// entry.
func (info *Info) LiveIn(p varmap.Partition) *BlockSet {
	return &info.livein[p]
}

// IsGlobal reports whether p appears in any block's live-in set.
func (info *Info) IsGlobal(p varmap.Partition) bool {
	return info.global.Has(int(p))
}

// Global iterates every partition with a nonempty live range.
func (info *Info) Global() []int {
	seq := info.global.All()
	var out []int
	for p := range seq {
		out = append(out, p)
	}
	return out
}
