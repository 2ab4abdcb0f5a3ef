// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import "github.com/gossa/outofssa/cfg"

// Version is an SSA version: one definition of one variable. IDs run
// [1, N]; 0 (NoVersion) is reserved so a zero-valued Version is never
// mistaken for a real one.
type Version int32

// NoVersion is the zero value, used where a slot may legitimately hold no
// SSA reference at all (e.g. a phi argument backed directly by a real,
// non-SSA declaration).
const NoVersion Version = 0

// VersionInfo is everything the analysis core needs to know about one SSA
// version: where it was defined, and which declaration it versions.
type VersionInfo struct {
	Def      *Stmt      // the defining statement; nil for a phi result or a version defined outside the procedure
	DefBlock *cfg.Block // the block owning the defining statement or phi; nil iff the version has no definition in this CFG (e.g. a parameter's initial value)
	Decl     *Decl
}

// VersionTable maps every registered SSA version to its VersionInfo. It is
// dense (a slice indexed by Version-1) because version IDs are allocated
// contiguously by construction.
type VersionTable struct {
	infos []VersionInfo // infos[v-1] is VersionInfo for Version(v)
}

// NewVersionTable allocates a table sized for SSA versions [1, n].
func NewVersionTable(n int) *VersionTable {
	return &VersionTable{infos: make([]VersionInfo, n)}
}

// Set records the VersionInfo for v, extending the table if necessary.
func (t *VersionTable) Set(v Version, info VersionInfo) {
	idx := int(v) - 1
	if idx >= len(t.infos) {
		grown := make([]VersionInfo, idx+1)
		copy(grown, t.infos)
		t.infos = grown
	}
	t.infos[idx] = info
}

// Info returns the VersionInfo registered for v. Panics if v was never set.
func (t *VersionTable) Info(v Version) VersionInfo {
	idx := int(v) - 1
	if idx < 0 || idx >= len(t.infos) {
		panic("ir: version not registered in table")
	}
	return t.infos[idx]
}

// Len returns the highest Version ID the table was sized for, which is
// also the number of versions it holds (IDs run [1, Len]).
func (t *VersionTable) Len() int { return len(t.infos) }
