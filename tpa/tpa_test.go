// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tpa_test

import (
	"testing"

	"github.com/gossa/outofssa/internal/cfgtest"
	"github.com/gossa/outofssa/ir"
	"github.com/gossa/outofssa/tpa"
	"github.com/gossa/outofssa/varmap"
)

func TestRootVarGroupsByUnderlyingDecl(t *testing.T) {
	b := cfgtest.New()
	entry := b.Entry("entry")
	x := b.Decl("x")
	y := b.Decl("y")

	vx1 := b.Def(x, entry, nil)
	vx2 := b.Param(x)
	vy := b.Def(y, entry, nil)

	m := varmap.Init(b.F, b.Versions)
	for _, v := range []ir.Version{vx1, vx2, vy} {
		m.Register(v, false)
	}

	t1 := tpa.RootVar(m)

	px1 := m.PartitionOf(vx1)
	px2 := m.PartitionOf(vx2)
	py := m.PartitionOf(vy)

	if t1.ClassOf(px1) != t1.ClassOf(px2) {
		t.Fatalf("x's two distinct SSA versions should land in the same root-var class")
	}
	if t1.ClassOf(px1) == t1.ClassOf(py) {
		t.Fatalf("x and y should be in different root-var classes")
	}
}

func TestTypeVarExcludesObservableDecls(t *testing.T) {
	b := cfgtest.New()
	entry := b.Entry("entry")

	namedType := &ir.Type{Name: "int"}

	userVar := b.Decl("count")
	userVar.Type = namedType

	tmp1 := b.Decl("t0")
	tmp1.Type = namedType
	tmp1.IgnoredName = true

	tmp2 := b.Decl("t1")
	tmp2.Type = namedType
	tmp2.IgnoredName = true

	param := b.Decl("t2")
	param.Type = namedType
	param.IgnoredName = true
	param.Parameter = true

	vUser := b.Def(userVar, entry, nil)
	vTmp1 := b.Def(tmp1, entry, nil)
	vTmp2 := b.Def(tmp2, entry, nil)
	vParam := b.Param(param)

	m := varmap.Init(b.F, b.Versions)
	for _, v := range []ir.Version{vUser, vTmp1, vTmp2, vParam} {
		m.Register(v, false)
	}

	tt := tpa.TypeVar(m)

	pUser := m.PartitionOf(vUser)
	pTmp1 := m.PartitionOf(vTmp1)
	pTmp2 := m.PartitionOf(vTmp2)
	pParam := m.PartitionOf(vParam)

	if tt.ClassOf(pUser) != tpa.None {
		t.Errorf("a user-visible (non-ignored name) declaration must be excluded from TypeVar")
	}
	if tt.ClassOf(pParam) != tpa.None {
		t.Errorf("a parameter must be excluded from TypeVar even with an ignored name")
	}
	if tt.ClassOf(pTmp1) == tpa.None || tt.ClassOf(pTmp1) != tt.ClassOf(pTmp2) {
		t.Errorf("two ignored, non-parameter temporaries sharing a type should share a TypeVar class")
	}
}

func TestCompactSwapsSingletonsToTail(t *testing.T) {
	b := cfgtest.New()
	entry := b.Entry("entry")
	x := b.Decl("x")
	y := b.Decl("y")
	z := b.Decl("z")

	vx1 := b.Def(x, entry, nil)
	vx2 := b.Param(x)
	vy := b.Def(y, entry, nil) // singleton class
	vz := b.Def(z, entry, nil) // singleton class

	m := varmap.Init(b.F, b.Versions)
	for _, v := range []ir.Version{vx1, vx2, vy, vz} {
		m.Register(v, false)
	}
	// vx1 and vx2 stay separate partitions, so x's root-var class has two
	// members; a union would leave it a singleton class like y's and z's.

	t1 := tpa.RootVar(m)
	if t1.NumClasses() != 3 {
		t.Fatalf("expected 3 classes before compact (x, y, z), got %d", t1.NumClasses())
	}

	t1.Compact()
	if t1.NumClasses() != 1 {
		t.Fatalf("expected only x's multi-member class to survive compaction, got %d", t1.NumClasses())
	}
	if t1.UncompactedCount() != 3 {
		t.Fatalf("expected UncompactedCount to retain the pre-compact count of 3, got %d", t1.UncompactedCount())
	}

	px := m.PartitionOf(vx1)
	if t1.ClassOf(px) == tpa.None || int(t1.ClassOf(px)) >= t1.NumClasses() {
		t.Fatalf("x's surviving class must be within the compacted range")
	}
}

func TestRemovePartitionUnlinksFromClass(t *testing.T) {
	b := cfgtest.New()
	entry := b.Entry("entry")
	x := b.Decl("x")

	vx1 := b.Def(x, entry, nil)
	vx2 := b.Param(x)

	m := varmap.Init(b.F, b.Versions)
	m.Register(vx1, false)
	m.Register(vx2, false)

	t1 := tpa.RootVar(m)
	class := t1.ClassOf(m.PartitionOf(vx1))

	var before []varmap.Partition
	for p := range t1.Members(class) {
		before = append(before, p)
	}
	if len(before) != 2 {
		t.Fatalf("expected 2 members before removal, got %d", len(before))
	}

	t1.RemovePartition(class, m.PartitionOf(vx2))

	var after []varmap.Partition
	for p := range t1.Members(class) {
		after = append(after, p)
	}
	if len(after) != 1 {
		t.Fatalf("expected 1 member after removal, got %d", len(after))
	}
	if t1.ClassOf(m.PartitionOf(vx2)) != tpa.None {
		t.Fatalf("removed partition should report None as its class")
	}
}
