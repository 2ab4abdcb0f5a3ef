// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conflict

import (
	"github.com/gossa/outofssa/coalesce"
	"github.com/gossa/outofssa/ir"
	"github.com/gossa/outofssa/live"
	"github.com/gossa/outofssa/tpa"
	"github.com/gossa/outofssa/varmap"
)

// Build performs the single backward sweep that populates both outputs:
// for every block, walk its statements in reverse starting from
// live-on-exit, recording a conflict between a definition and every other
// same-TPA-class partition simultaneously live, and (if withList)
// recording copy statements as coalesce candidates. With or without a
// list, a copy never conflicts its two endpoints with each other; its
// destination still conflicts with every other same-class partition live
// across it.
// Graph and List are built together because the sweep that builds one is
// exactly the sweep that builds the other.
func Build(m *varmap.Map, info *live.Info, prog *ir.Program, t *tpa.TPA, withList bool) (*Graph, *coalesce.List) {
	f := m.Func()
	g := New()
	var cl *coalesce.List
	if withList {
		cl = coalesce.New(f)
	}

	s := newSweep(g, t, m.NumRaw())

	for _, b := range f.Blocks {
		s.resetBlock()
		for p := range info.LiveOnExit(m, prog, b).All() {
			s.addLive(varmap.Partition(p))
		}

		stmts := prog.Stmts(b)
		for i := len(stmts) - 1; i >= 0; i-- {
			stmt := stmts[i]

			if lhs, rhs, ok := stmt.IsCopy(); ok {
				p1 := m.PartitionOf(lhs)
				p2 := m.PartitionOf(rhs)
				if cl != nil {
					cl.Add(p1, p2, 1)
				}
				// A copy does not itself create interference between its
				// two endpoints: temporarily drop p2 from live so the
				// def-processing of p1 below can't conflict them purely
				// because this statement exists.
				if s.live.Has(int(p2)) {
					s.removeLive(p2)
				}
				s.conflictDefWithClass(p1)
				s.removeLive(p1)
				s.addLive(p2)
				continue
			}

			for _, d := range stmt.Defs {
				p := m.PartitionOf(d)
				s.conflictDefWithClass(p)
				s.removeLive(p)
			}
			for _, u := range stmt.Uses {
				s.addLive(m.PartitionOf(u))
			}
		}

		// Phi results not otherwise live at the top of the block still
		// conflict against whatever their class has live: an unused phi
		// result still occupies storage for the duration of its class's
		// overlapping live ranges.
		for _, phi := range prog.Phis(b) {
			p := m.PartitionOf(phi.Result)
			if s.live.Has(int(p)) {
				continue
			}
			s.conflictDefWithClass(p)
		}
	}

	return g, cl
}

// sweep holds the scratch state reused across every block's backward walk:
// the current live set, plus a per-TPA-class linked sublist of "partitions
// in this class currently live" so conflictDefWithClass costs O(class
// size) rather than O(live set size).
type sweep struct {
	g *Graph

	live      live.PartitionSet
	classHead map[tpa.ClassID]varmap.Partition
	classNext []varmap.Partition // indexed by raw partition id, valid only while the partition is linked into classHead
	touched   []tpa.ClassID
	t         *tpa.TPA
}

func newSweep(g *Graph, t *tpa.TPA, numRaw int) *sweep {
	s := &sweep{
		g:         g,
		t:         t,
		classHead: make(map[tpa.ClassID]varmap.Partition),
		classNext: make([]varmap.Partition, numRaw),
	}
	for i := range s.classNext {
		s.classNext[i] = varmap.NoPartition
	}
	return s
}

func (s *sweep) resetBlock() {
	s.live.ClearAll()
	for _, c := range s.touched {
		delete(s.classHead, c)
	}
	s.touched = s.touched[:0]
}

func (s *sweep) addLive(p varmap.Partition) {
	if s.live.Has(int(p)) {
		return
	}
	s.live.Set(int(p))
	class := s.t.ClassOf(p)
	if class == tpa.None {
		return
	}
	if _, ok := s.classHead[class]; !ok {
		s.touched = append(s.touched, class)
		s.classNext[p] = varmap.NoPartition
	} else {
		s.classNext[p] = s.classHead[class]
	}
	s.classHead[class] = p
}

func (s *sweep) removeLive(p varmap.Partition) {
	if !s.live.Has(int(p)) {
		return
	}
	s.live.Clear(int(p))
	class := s.t.ClassOf(p)
	if class == tpa.None {
		return
	}
	head := s.classHead[class]
	if head == p {
		next := s.classNext[p]
		if next == varmap.NoPartition {
			delete(s.classHead, class)
		} else {
			s.classHead[class] = next
		}
		return
	}
	for cur := head; cur != varmap.NoPartition; cur = s.classNext[cur] {
		if s.classNext[cur] == p {
			s.classNext[cur] = s.classNext[p]
			return
		}
	}
}

// conflictDefWithClass records a conflict between d and every partition
// currently live that shares d's TPA class. Partitions excluded from every
// class (ClassOf == tpa.None) never conflict with anything here:
// coalescing, and therefore the conflicts that gate it, is only ever
// considered within one TPA class.
func (s *sweep) conflictDefWithClass(d varmap.Partition) {
	class := s.t.ClassOf(d)
	if class == tpa.None {
		return
	}
	head, ok := s.classHead[class]
	if !ok {
		return
	}
	for y := head; y != varmap.NoPartition; y = s.classNext[y] {
		if y == d {
			continue
		}
		s.g.Add(d, y)
	}
}
