// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package conflict implements the conflict graph — symmetric adjacency of
// partitions that are simultaneously live — and the single backward sweep
// that builds it together with the coalesce list: walking each block
// backward once is cheaper than walking it twice.
package conflict

import "github.com/gossa/outofssa/varmap"

// Graph is a symmetric, sparse adjacency of partitions simultaneously live
// at some program point.
type Graph struct {
	adj map[varmap.Partition]map[varmap.Partition]struct{}
}

// New returns an empty conflict graph.
func New() *Graph {
	return &Graph{adj: make(map[varmap.Partition]map[varmap.Partition]struct{})}
}

func (g *Graph) neighbors(p varmap.Partition) map[varmap.Partition]struct{} {
	n, ok := g.adj[p]
	if !ok {
		n = make(map[varmap.Partition]struct{})
		g.adj[p] = n
	}
	return n
}

// Add records that a and b conflict (are simultaneously live). A no-op if
// a == b.
func (g *Graph) Add(a, b varmap.Partition) {
	if a == b {
		return
	}
	g.neighbors(a)[b] = struct{}{}
	g.neighbors(b)[a] = struct{}{}
}

// Conflicts reports whether a and b are recorded as conflicting.
func (g *Graph) Conflicts(a, b varmap.Partition) bool {
	if a == b {
		return false
	}
	n, ok := g.adj[a]
	if !ok {
		return false
	}
	_, ok = n[b]
	return ok
}

// Neighbors iterates the partitions conflicting with p.
func (g *Graph) Neighbors(p varmap.Partition) []varmap.Partition {
	n := g.adj[p]
	out := make([]varmap.Partition, 0, len(n))
	for q := range n {
		out = append(out, q)
	}
	return out
}

// Merge unions drop's neighborhood into keep's and removes drop from the
// graph entirely, used when the coalescer unions two partitions: the
// surviving partition must conflict with everything either one did.
func (g *Graph) Merge(keep, drop varmap.Partition) {
	if keep == drop {
		return
	}
	dropNeighbors := g.adj[drop]
	for q := range dropNeighbors {
		if q == keep {
			continue
		}
		g.Add(keep, q)
		delete(g.adj[q], drop)
	}
	delete(g.adj, drop)
	delete(g.adj[keep], drop)
	delete(g.adj[keep], keep)
}
