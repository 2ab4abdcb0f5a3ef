// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coalesce

import (
	"github.com/gossa/outofssa/tpa"
	"github.com/gossa/outofssa/varmap"
)

// Graph is the subset of conflict.Graph's behavior the coalescer depends
// on. Declared locally, rather than importing package conflict directly,
// because conflict.Build takes a *List as an output parameter — conflict
// depends on coalesce, so coalesce cannot depend back on conflict. Any
// *conflict.Graph satisfies this interface structurally.
type Graph interface {
	Conflicts(a, b varmap.Partition) bool
	Merge(keep, drop varmap.Partition)
}

// Run performs the coalescing pass. With a non-nil list it
// repeatedly pops the best remaining candidate and unions it if the two
// partitions still belong to the same TPA class and do not conflict.
// Without a list it walks every TPA class directly, greedily unioning each
// member into the class's surviving representative.
//
// Either way, a successful union merges the two partitions in m, merges
// their adjacency in g, and removes the losing partition from t so later
// candidates referencing it resolve through m instead.
func Run(m *varmap.Map, g Graph, t *tpa.TPA, list *List) {
	if list != nil {
		runWithList(m, g, t, list)
		return
	}
	runGreedy(m, g, t)
}

func runWithList(m *varmap.Map, g Graph, t *tpa.TPA, list *List) {
	for {
		pair := list.PopBest()
		if pair == NoBestCoalesce {
			return
		}
		// The list drives its own cursor via PopBest; the survivor is of no
		// further interest here.
		tryCoalesce(m, g, t, pair.P, pair.Q)
	}
}

// runGreedy drains each TPA class one round at a time: every round
// re-reads the class's current first member y and tries it against every
// other remaining member, folding each successful union into y. The
// varmap's union-by-rank may keep the other operand's representative, so
// y is re-pointed at the survivor after every successful attempt and the
// remaining members are tried against the merged partition, not the
// original first. Members that conflict stay in the class and get their
// own round later, against whatever is left by then.
//
// At the end of the round the combined partition is retired from the
// class. This happens after the inner walk rather than when y is taken,
// because RemovePartition also clears the partition's class mapping and
// tryCoalesce's class check must still see y as a member while the walk
// runs. Every round removes at least one member, so the loop terminates
// with the class empty.
//
// A member whose representative has already been unified with y's by some
// earlier attempt is dead weight in the list; it is removed on sight
// rather than skipped, so later rounds never re-visit it.
func runGreedy(m *varmap.Map, g Graph, t *tpa.TPA) {
	for class := tpa.ClassID(0); class < tpa.ClassID(t.NumClasses()); class++ {
		for {
			y := t.First(class)
			if y == varmap.NoPartition {
				break
			}
			z := t.Next(y)
			for z != varmap.NoPartition {
				next := t.Next(z)
				if m.Resolve(y) == m.Resolve(z) {
					t.RemovePartition(class, z)
				} else if survivor, ok := tryCoalesce(m, g, t, y, z); ok {
					y = survivor
				}
				z = next
			}
			t.RemovePartition(class, y)
		}
	}
}

// tryCoalesce attempts to union p1 and p2, requiring them to share a TPA
// class and not already conflict. p1 and p2 are re-resolved through m's
// union-find before any of those checks, since a prior union earlier in the
// same pass (most relevantly, a with-list entry popped out of order) can
// have merged one of them away — their raw id survives but RemovePartition
// has already nulled its TPA class, so checking the unresolved id would
// reject a perfectly good pair as classless. On success tryCoalesce merges
// conflict-graph adjacency, removes the losing partition from its TPA class,
// and reports the surviving partition so callers that track a list cursor
// through p1 or p2 can follow it past the merge.
func tryCoalesce(m *varmap.Map, g Graph, t *tpa.TPA, p1, p2 varmap.Partition) (varmap.Partition, bool) {
	p1 = m.Resolve(p1)
	p2 = m.Resolve(p2)

	class := t.ClassOf(p1)
	if class == tpa.None || t.ClassOf(p2) != class {
		return varmap.NoPartition, false
	}
	if p1 == p2 {
		return varmap.NoPartition, false
	}
	if g.Conflicts(p1, p2) {
		return varmap.NoPartition, false
	}

	survivor := m.Union(partitionOperand(m, p1), partitionOperand(m, p2))
	loser := p1
	if survivor == p1 {
		loser = p2
	}

	g.Merge(survivor, loser)
	t.RemovePartition(class, loser)
	return survivor, true
}

// partitionOperand resolves p to the Operand that re-enters it into Union:
// its promoted real declaration if it has one, otherwise its representative
// SSA version.
func partitionOperand(m *varmap.Map, p varmap.Partition) varmap.Operand {
	if d, ok := m.RepDecl(p); ok {
		return varmap.DeclOperand(d)
	}
	v, _ := m.RepVersion(p)
	return varmap.VersionOperand(v)
}
