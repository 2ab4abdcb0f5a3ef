// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coalesce implements the coalesce list — a cost-weighted priority
// list of candidate partition pairs derived from copy statements — and the
// coalescer driver that consumes it (or, without a list, greedily walks
// each TPA class), unioning non-interfering partitions in the varmap.
package coalesce

import (
	"container/heap"
	"slices"
	"sort"

	"github.com/gossa/outofssa/varmap"
)

// Pair is one coalesce candidate: partitions P < Q with accumulated cost.
type Pair struct {
	P, Q varmap.Partition
	Cost int64
}

type mode int

const (
	addMode mode = iota
	sortedMode
)

// List is the coalesce list. In add mode it accumulates and merges
// candidates per first-partition, sorted by second partition. Calling
// Sort transitions it, one-way, to sorted mode, after which PopBest
// returns candidates in non-increasing cost order and further Add calls
// are a programmer-contract violation.
type List struct {
	f fatalfer

	mode   mode
	chains map[varmap.Partition][]*Pair // keyed by P, kept sorted by Q ascending

	heap pairHeap // populated on Sort, drained by PopBest
}

// fatalfer is the minimal surface List needs to report a contract
// violation; cfg.Func satisfies it.
type fatalfer interface{ Fatalf(format string, args ...any) }

// New returns an empty coalesce list in add mode. owner is used only to
// report a Fatalf-class error if Add is called after Sort.
func New(owner fatalfer) *List {
	return &List{f: owner, chains: make(map[varmap.Partition][]*Pair)}
}

// Add records a candidate coalesce between p1 and p2 with weight v,
// normalizing so P < Q, merging (accumulating cost) if the pair already
// exists, inserting otherwise. Fatal if the list has already been sorted.
func (l *List) Add(p1, p2 varmap.Partition, v int64) {
	if l.mode == sortedMode {
		l.f.Fatalf("coalesce: Add called on a sorted coalesce list")
	}
	if p1 == p2 {
		return
	}
	if p1 > p2 {
		p1, p2 = p2, p1
	}
	chain := l.chains[p1]
	idx := sort.Search(len(chain), func(i int) bool { return chain[i].Q >= p2 })
	if idx < len(chain) && chain[idx].Q == p2 {
		chain[idx].Cost += v
		return
	}
	pair := &Pair{P: p1, Q: p2, Cost: v}
	chain = append(chain, nil)
	copy(chain[idx+1:], chain[idx:])
	chain[idx] = pair
	l.chains[p1] = chain
}

// Sort flattens every per-P chain into one cost-sorted list and transitions
// the list to sorted mode. One-way: Add may not be called again until the
// list is rebuilt from scratch.
func (l *List) Sort() {
	if l.mode == sortedMode {
		l.f.Fatalf("coalesce: Sort called twice on the same coalesce list")
	}
	var flat []*Pair
	for _, chain := range l.chains {
		flat = append(flat, chain...)
	}

	switch len(flat) {
	case 0, 1:
		// nothing to order
	case 2:
		if flat[0].Cost < flat[1].Cost {
			flat[0], flat[1] = flat[1], flat[0]
		}
	default:
		sort.Slice(flat, func(i, j int) bool { return flat[i].Cost > flat[j].Cost })
	}

	l.heap = pairHeap(flat)
	heap.Init(&l.heap)
	l.mode = sortedMode
	l.chains = nil
}

// NoBestCoalesce is returned by PopBest once the list is empty.
var NoBestCoalesce *Pair = nil

// PopBest returns and removes the highest-cost remaining candidate, or
// NoBestCoalesce if the list is empty. Fatal if called before Sort.
func (l *List) PopBest() *Pair {
	if l.mode != sortedMode {
		l.f.Fatalf("coalesce: PopBest called before Sort")
	}
	if l.heap.Len() == 0 {
		return NoBestCoalesce
	}
	return heap.Pop(&l.heap).(*Pair)
}

// Snapshot returns every candidate currently held by l, in either mode,
// without mutating or draining it — for diagnostic dumps, which must be
// able to inspect a list without destroying it for the coalescer that
// runs afterward.
func (l *List) Snapshot() []*Pair {
	if l.mode == sortedMode {
		return slices.Clone([]*Pair(l.heap))
	}
	var out []*Pair
	for _, chain := range l.chains {
		out = append(out, chain...)
	}
	return out
}

// pairHeap is a max-heap on Cost, used by Sort/PopBest for the sorted-mode
// "repeatedly take the best candidate" contract — container/heap is the
// idiomatic stdlib fit for exactly this access pattern.
type pairHeap []*Pair

func (h pairHeap) Len() int           { return len(h) }
func (h pairHeap) Less(i, j int) bool { return h[i].Cost > h[j].Cost }
func (h pairHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *pairHeap) Push(x any)        { *h = append(*h, x.(*Pair)) }
func (h *pairHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
