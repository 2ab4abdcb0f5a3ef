// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package outofssa is the root facade tying together the out-of-SSA
// live-range analysis and coalescing pipeline: partition map (varmap),
// liveness (live), tree-partition associator (tpa), conflict graph
// (conflict), coalesce list and coalescer (coalesce), and diagnostic dumps
// (dump).
//
// This module owns no global state: every pipeline run is scoped to the
// *varmap.Map and *ir.Program a caller passes in, and every derivative it
// builds (live.Info, tpa.TPA, conflict.Graph, coalesce.List) is returned
// rather than cached behind the caller's back.
package outofssa

import (
	"io"

	"github.com/gossa/outofssa/cfg"
	"github.com/gossa/outofssa/coalesce"
	"github.com/gossa/outofssa/conflict"
	"github.com/gossa/outofssa/ir"
	"github.com/gossa/outofssa/live"
	"github.com/gossa/outofssa/tpa"
	"github.com/gossa/outofssa/varmap"
)

// InternalError is the type every Fatalf-class panic in this module
// carries, re-exported here so a caller embedding the pipeline in a larger
// compiler can recover() at its pass boundary without importing the cfg
// package directly.
type InternalError = cfg.InternalError

// TPAKind selects which of tpa.RootVar/tpa.TypeVar builds the associator a
// pipeline run coalesces over.
type TPAKind = tpa.Kind

const (
	// ByRootVar groups partitions by underlying declaration.
	ByRootVar = tpa.KindRootVar
	// ByType groups partitions by declaration type, excluding anything
	// observable (parameters, volatiles, named locals, ...).
	ByType = tpa.KindTypeVar
)

// Options configures one pipeline run.
type Options struct {
	// Kind selects the TPA flavor to coalesce over.
	Kind TPAKind
	// CompactFlags is passed to the final Map.Compact call.
	CompactFlags varmap.CompactFlags
	// WithCoalesceList selects the with-list coalescer, popping candidates
	// by recorded copy cost; false selects the greedy per-class mode.
	WithCoalesceList bool
	// CheckIntegrity runs live.CheckIntegrity before coalescing begins,
	// raising a Fatalf (InternalError panic) if any SSA-integrity
	// violation is found.
	CheckIntegrity bool
	// Sink receives integrity-check diagnostics. Defaults to io.Discard if
	// nil; dumps are the caller's own responsibility via the dump package,
	// not driven by Run.
	Sink io.Writer
}

// Result is every structure a pipeline run built, for a caller that wants
// to dump or inspect them before or after the final Compact.
type Result struct {
	Map   *varmap.Map
	Live  *live.Info
	TPA   *tpa.TPA
	Graph *conflict.Graph
	List  *coalesce.List
}

// Run executes the full pipeline: liveness, the (optional) integrity check
// over it, TPA construction, the conflict-graph/coalesce-list backward sweep,
// coalescing, and a final Map.Compact. m must already have every SSA
// version registered (m.Register) and any pre-existing real-declaration
// unions applied (m.Union), mirroring how a host compiler's own driver
// populates var_map while walking the procedure being destructed out of
// SSA — that walk is the caller's, not this package's, since only the
// caller knows how to tell a copy statement from any other.
func Run(m *varmap.Map, prog *ir.Program, opts Options) *Result {
	sink := opts.Sink
	if sink == nil {
		sink = io.Discard
	}

	info := live.CalculateLiveOnEntry(m, prog)
	if opts.CheckIntegrity {
		live.CheckIntegrity(info, m, prog, sink)
	}

	var t *tpa.TPA
	switch opts.Kind {
	case tpa.KindTypeVar:
		t = tpa.TypeVar(m)
	default:
		t = tpa.RootVar(m)
	}
	t.Compact()

	g, cl := conflict.Build(m, info, prog, t, opts.WithCoalesceList)
	if cl != nil {
		cl.Sort()
	}
	coalesce.Run(m, g, t, cl)

	m.Compact(opts.CompactFlags)

	return &Result{Map: m, Live: info, TPA: t, Graph: g, List: cl}
}
