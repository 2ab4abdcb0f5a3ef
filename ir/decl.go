// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ir is the minimal SSA-IR stand-in consumed by the analysis
// packages (varmap, live, tpa, conflict, coalesce): versions, the
// declarations they version, phi-nodes, and statements. A host compiler
// embedding the analysis packages would adapt its own IR to look like this
// rather than depend on it directly.
package ir

// Decl is an underlying (non-SSA) declaration: the thing SSA versions are
// versions *of*. The scratch fields a host compiler would bolt onto the
// declaration's own annotation record (partition id, escaped-SSA tag, ...)
// are deliberately NOT stored here; they live in auxiliary tables owned by
// whichever analysis needs them (varmap.Map, tpa), keyed by *Decl, so that
// re-running the analysis on the same IR twice never observes stale
// scratch state left over from a previous run.
type Decl struct {
	Name string
	Type *Type

	// Classification bits type_var_init excludes partitions for. A real
	// compiler derives these from its own variable-annotation machinery;
	// here they're plain fields since this IR has no other consumer.
	Volatile    bool
	Parameter   bool
	ReturnValue bool
	Register    bool
	HasStorage  bool // e.g. address-taken, or otherwise assigned a fixed slot

	// DefaultDef is the statement (if any) that default-initializes this
	// declaration before any real definition — used by the optional
	// integrity check in live.CheckIntegrity.
	DefaultDef *Stmt

	// IgnoredName reports whether the declaration's name is a compiler-
	// generated placeholder rather than something user-visible. type_var_init
	// excludes declarations with a *non*-ignored (i.e. real, user-visible)
	// name; this flag is the direct input to that rule.
	IgnoredName bool
}

// Type identifies a declaration's type for type_var_init's grouping key.
// Two declarations share a TPA class under TypeVar iff they point at the
// same *Type value.
type Type struct {
	Name string
}
