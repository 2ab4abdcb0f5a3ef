// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tpa

import "github.com/gossa/outofssa/varmap"

// Compact swaps singleton (and empty) classes to the tail of the class
// list and truncates the active range, so later passes iterating "all
// classes worth coalescing over" can stop at NumClasses instead of
// skip-testing every class. The uncompacted count is retained so a caller
// that needs the full pre-compaction set (e.g. a diagnostic dump) can
// still walk it.
func (t *TPA) Compact() {
	t.assertFresh()
	t.uncompactedCount = len(t.firstPartition)

	i, j := 0, len(t.firstPartition)-1
	for i <= j {
		if t.classSize(ClassID(i)) <= 1 {
			t.swap(ClassID(i), ClassID(j))
			j--
			continue
		}
		i++
	}
	t.numTrees = i
}

// UncompactedCount returns the class count as of construction, recorded by
// the most recent Compact call; it is zero if Compact has not run.
func (t *TPA) UncompactedCount() int { return t.uncompactedCount }

func (t *TPA) classSize(class ClassID) int {
	n := 0
	for p := t.firstPartition[class]; p != varmap.NoPartition; p = t.nextPartition[p] {
		n++
		if n > 1 {
			return n
		}
	}
	return n
}

func (t *TPA) swap(a, b ClassID) {
	if a == b {
		return
	}
	t.firstPartition[a], t.firstPartition[b] = t.firstPartition[b], t.firstPartition[a]
	t.retag(a)
	t.retag(b)
}

func (t *TPA) retag(class ClassID) {
	for p := t.firstPartition[class]; p != varmap.NoPartition; p = t.nextPartition[p] {
		t.partitionToTree[p] = class
	}
}
