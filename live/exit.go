// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package live

import (
	"github.com/gossa/outofssa/cfg"
	"github.com/gossa/outofssa/ir"
	"github.com/gossa/outofssa/varmap"
)

// LiveOnExit returns the set of partitions live on exit from b, building
// (and caching) the full live-on-exit table on first use. Fatal if the
// partition map has been recompacted since this Info was built.
func (info *Info) LiveOnExit(m *varmap.Map, prog *ir.Program, b *cfg.Block) *PartitionSet {
	if m.Version() != info.mapVersion {
		m.Func().Fatalf("live: stale Info used after varmap.Map was recompacted")
	}
	info.ensureLiveOut(m, prog)
	return &info.liveout[b.Index()]
}

func (info *Info) ensureLiveOut(m *varmap.Map, prog *ir.Program) {
	if info.liveoutBuilt {
		return
	}
	f := m.Func()
	info.liveout = make([]PartitionSet, f.NumBlocks())

	// Every phi-argument on a real edge (s -> b), s != entry, is live on
	// exit from s: the value must exist at the end of s to be picked up by
	// the phi.
	for _, b := range f.Blocks {
		for _, phi := range prog.Phis(b) {
			for i, arg := range phi.Args {
				if arg == ir.NoVersion {
					continue
				}
				e := phi.Edge(i)
				if e.Block == f.Entry {
					continue
				}
				p := m.PartitionOf(arg)
				info.liveout[e.Block.Index()].Set(int(p))
			}
		}
	}

	// Every partition p live on entry to b is live on exit from every
	// non-entry predecessor of b.
	for pInt := range info.livein {
		bs := &info.livein[pInt]
		if bs.Empty() {
			continue
		}
		for idx := range bs.All() {
			b := f.Blocks[idx]
			for _, e := range b.Preds {
				if e.Block == f.Entry {
					continue
				}
				info.liveout[e.Block.Index()].Set(pInt)
			}
		}
	}

	info.liveoutBuilt = true
}
