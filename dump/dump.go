// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dump renders the pipeline's structures — partition map,
// live-info, TPA, coalesce list — as plain text on a caller-supplied
// io.Writer. Output is sorted before printing so it never depends on map
// iteration order.
package dump

import (
	"fmt"
	"io"
	"slices"

	"github.com/gossa/outofssa/coalesce"
	"github.com/gossa/outofssa/live"
	"github.com/gossa/outofssa/tpa"
	"github.com/gossa/outofssa/varmap"
)

// PartitionMap writes, for every live (pre-compaction) partition, its
// representative name and raw member count.
func PartitionMap(w io.Writer, m *varmap.Map) {
	roots := m.Roots()
	slices.Sort(roots)
	fmt.Fprintf(w, "partition map (%d partitions):\n", len(roots))
	for _, p := range roots {
		fmt.Fprintf(w, "  p%d: %s (size %d)\n", p, repName(m, p), m.Size(p))
	}
}

func repName(m *varmap.Map, p varmap.Partition) string {
	if d, ok := m.RepDecl(p); ok {
		return d.Name
	}
	if v, ok := m.RepVersion(p); ok {
		return fmt.Sprintf("ssa_%d", v)
	}
	return "<unregistered>"
}

// LiveInfo writes, for every block, the set of partitions live on entry.
func LiveInfo(w io.Writer, m *varmap.Map, info *live.Info, blocks int) {
	fmt.Fprintf(w, "live-info (%d blocks):\n", blocks)
	for b := 0; b < blocks; b++ {
		var in []int32
		for _, p := range m.Roots() {
			if info.LiveIn(p).Has(b) {
				in = append(in, int32(p))
			}
		}
		slices.Sort(in)
		fmt.Fprintf(w, "  block %d: live-in = %v\n", b, in)
	}
}

// TPA writes every current class and its members, in class order.
func TPA(w io.Writer, t *tpa.TPA) {
	fmt.Fprintf(w, "tpa (kind=%v, %d classes, %d before last compact):\n", t.Kind(), t.NumClasses(), t.UncompactedCount())
	for class := tpa.ClassID(0); class < tpa.ClassID(t.NumClasses()); class++ {
		var members []int32
		for p := range t.Members(class) {
			members = append(members, int32(p))
		}
		slices.Sort(members)
		fmt.Fprintf(w, "  class %d: %v\n", class, members)
	}
}

// CoalesceList writes every candidate currently held by l (via Snapshot,
// which does not drain it), sorted descending by cost for deterministic
// output.
func CoalesceList(w io.Writer, l *coalesce.List) {
	sorted := l.Snapshot()
	fmt.Fprintf(w, "coalesce list (%d candidates):\n", len(sorted))
	slices.SortFunc(sorted, func(a, b *coalesce.Pair) int {
		if a.Cost != b.Cost {
			if a.Cost > b.Cost {
				return -1
			}
			return 1
		}
		if a.P != b.P {
			return int(a.P - b.P)
		}
		return int(a.Q - b.Q)
	})
	for _, p := range sorted {
		fmt.Fprintf(w, "  p%d <-> p%d (cost %d)\n", p.P, p.Q, p.Cost)
	}
}
