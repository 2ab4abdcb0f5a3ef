// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dump_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gossa/outofssa/coalesce"
	"github.com/gossa/outofssa/dump"
	"github.com/gossa/outofssa/internal/cfgtest"
	"github.com/gossa/outofssa/ir"
	"github.com/gossa/outofssa/live"
	"github.com/gossa/outofssa/tpa"
	"github.com/gossa/outofssa/varmap"
)

func buildFixture() (*cfgtest.Builder, *varmap.Map, *ir.Program, ir.Version, ir.Version) {
	b := cfgtest.New()
	entry := b.Entry("entry")
	x := b.Decl("x")

	v1 := b.Def(x, entry, nil)
	v2 := b.Param(x)
	b.Copy(entry, v1, v2)
	b.Stmt(entry, []ir.Version{v1}, nil)

	m := varmap.Init(b.F, b.Versions)
	m.Register(v1, false)
	m.Register(v2, true)
	return b, m, b.Finish(), v1, v2
}

func TestPartitionMapNamesEveryRoot(t *testing.T) {
	_, m, _, _, _ := buildFixture()

	var buf bytes.Buffer
	dump.PartitionMap(&buf, m)

	out := buf.String()
	if !strings.Contains(out, "partition map (2 partitions):") {
		t.Fatalf("header missing or wrong partition count:\n%s", out)
	}
	if !strings.Contains(out, "ssa_1") || !strings.Contains(out, "ssa_2") {
		t.Fatalf("both representative versions should be named:\n%s", out)
	}
}

func TestPartitionMapNamesRealDeclAfterPromotion(t *testing.T) {
	b, m, _, v1, _ := buildFixture()

	real := b.Decl("x.slot")
	m.ChangePartitionVar(real, m.PartitionOf(v1))

	var buf bytes.Buffer
	dump.PartitionMap(&buf, m)
	if !strings.Contains(buf.String(), "x.slot") {
		t.Fatalf("a partition promoted to a real declaration should dump under its name:\n%s", buf.String())
	}
}

func TestLiveInfoListsEveryBlock(t *testing.T) {
	_, m, prog, _, _ := buildFixture()
	info := live.CalculateLiveOnEntry(m, prog)

	var buf bytes.Buffer
	dump.LiveInfo(&buf, m, info, m.Func().NumBlocks())

	out := buf.String()
	if !strings.Contains(out, "live-info (1 blocks):") {
		t.Fatalf("header missing:\n%s", out)
	}
	if !strings.Contains(out, "block 0:") {
		t.Fatalf("every block should get a line:\n%s", out)
	}
}

func TestTPAListsClassMembers(t *testing.T) {
	_, m, _, _, _ := buildFixture()
	tt := tpa.RootVar(m)

	var buf bytes.Buffer
	dump.TPA(&buf, tt)

	out := buf.String()
	if !strings.Contains(out, "1 classes") {
		t.Fatalf("both versions of x should share one root-var class:\n%s", out)
	}
	if !strings.Contains(out, "class 0: [0 1]") {
		t.Fatalf("class members should list both partitions in ascending order:\n%s", out)
	}
}

// TestCoalesceListSnapshotSurvivesDumping checks that dumping a list in
// either mode leaves it usable: in add mode further Adds still work, and in
// sorted mode PopBest still drains the same candidates the dump showed.
func TestCoalesceListSnapshotSurvivesDumping(t *testing.T) {
	b, m, _, v1, v2 := buildFixture()

	list := coalesce.New(b.F)
	list.Add(m.PartitionOf(v1), m.PartitionOf(v2), 3)

	var addMode bytes.Buffer
	dump.CoalesceList(&addMode, list)
	if !strings.Contains(addMode.String(), "(cost 3)") {
		t.Fatalf("add-mode dump should show the candidate's accumulated cost:\n%s", addMode.String())
	}

	list.Add(m.PartitionOf(v1), m.PartitionOf(v2), 2)
	list.Sort()

	var sortedMode bytes.Buffer
	dump.CoalesceList(&sortedMode, list)
	if !strings.Contains(sortedMode.String(), "(cost 5)") {
		t.Fatalf("sorted-mode dump should show the merged cost:\n%s", sortedMode.String())
	}

	if pair := list.PopBest(); pair == coalesce.NoBestCoalesce || pair.Cost != 5 {
		t.Fatalf("dumping must not drain the list; PopBest should still see the candidate")
	}
}
