// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import "github.com/gossa/outofssa/cfg"

// Phi is a join-point renaming operator: Result is defined by picking
// Args[i] along the CFG edge Edges[i]. Edges is aligned with the owning
// block's cfg.Block.Preds by construction, so Edge(i) is a plain index
// into Preds rather than a separate lookup.
type Phi struct {
	Result Version
	Args   []Version
	Edges  []cfg.Edge
}

// NumArgs returns the number of incoming arguments.
func (p *Phi) NumArgs() int { return len(p.Args) }

// Arg returns the i'th incoming SSA version.
func (p *Phi) Arg(i int) Version { return p.Args[i] }

// Edge returns the predecessor edge the i'th argument arrives on.
func (p *Phi) Edge(i int) cfg.Edge { return p.Edges[i] }
