// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package live_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gossa/outofssa/cfg"
	"github.com/gossa/outofssa/internal/cfgtest"
	"github.com/gossa/outofssa/ir"
	"github.com/gossa/outofssa/live"
	"github.com/gossa/outofssa/varmap"
)

// TestCheckIntegrityFlagsVirtualRealOperandOverlap: a statement naming the
// same declaration in both VirtualUses and RealOperands must be caught and
// reported, then escalated to a fatal internal error.
func TestCheckIntegrityFlagsVirtualRealOperandOverlap(t *testing.T) {
	b := cfgtest.New()
	entry := b.Entry("entry")
	x := b.Decl("x")

	v := b.Param(x)
	stmt := b.Stmt(entry, []ir.Version{v}, nil)
	stmt.VirtualUses = []*ir.Decl{x}
	stmt.RealOperands = []*ir.Decl{x}

	m := varmap.Init(b.F, b.Versions)
	m.Register(v, false)
	prog := b.Finish()

	info := live.CalculateLiveOnEntry(m, prog)

	var sink bytes.Buffer
	var internalErr *cfg.InternalError
	func() {
		defer func() {
			r := recover()
			if r == nil {
				t.Fatalf("expected CheckIntegrity to panic with an internal error")
			}
			ie, ok := r.(*cfg.InternalError)
			if !ok {
				t.Fatalf("expected a *cfg.InternalError panic, got %T: %v", r, r)
			}
			internalErr = ie
		}()
		live.CheckIntegrity(info, m, prog, &sink)
	}()

	if internalErr == nil {
		t.Fatalf("recover produced no internal error")
	}
	if !strings.Contains(sink.String(), "virtual and a real operand") {
		t.Fatalf("expected sink to report the virtual/real overlap, got: %q", sink.String())
	}
}

// TestCheckIntegrityAllowsDisjointVirtualAndRealOperands checks the
// negative case: a statement with both virtual and real operands, but
// touching different declarations, must not trip the overlap check.
func TestCheckIntegrityAllowsDisjointVirtualAndRealOperands(t *testing.T) {
	b := cfgtest.New()
	entry := b.Entry("entry")
	x := b.Decl("x")
	mem := b.Decl("mem")

	v := b.Param(x)
	stmt := b.Stmt(entry, []ir.Version{v}, nil)
	stmt.VirtualUses = []*ir.Decl{mem}
	stmt.RealOperands = []*ir.Decl{x}

	m := varmap.Init(b.F, b.Versions)
	m.Register(v, false)
	prog := b.Finish()

	info := live.CalculateLiveOnEntry(m, prog)

	var sink bytes.Buffer
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("CheckIntegrity should not have flagged disjoint virtual/real operands: %v (sink: %q)", r, sink.String())
		}
	}()
	live.CheckIntegrity(info, m, prog, &sink)
}
