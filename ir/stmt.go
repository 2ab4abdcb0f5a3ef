// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

// OperandMask selects which operand kinds Operands and VirtualOperands
// yield. The analysis core only ever needs Use and Def; VirtualUse and
// VMustDef exist solely so Stmt can carry enough information for the
// virtual/real overlap sanity check — memory SSA proper is out of scope.
type OperandMask uint8

const (
	Use OperandMask = 1 << iota
	Def
	VirtualUse
	VMustDef
)

// CopyInfo marks a Stmt as a plain partition-to-partition copy, letting the
// conflict-graph builder special-case it for coalesce-candidate recording.
type CopyInfo struct {
	LHS Version
	RHS Version
}

// Stmt is one non-phi statement: a list of real used versions, a list of
// real defined versions, and (if it is a copy) the copy's endpoints. Virtual
// operands are tracked separately and only consulted by the integrity
// check, never by liveness or coalescing — a real compiler's memory-SSA
// virtual operands are out of scope here.
type Stmt struct {
	Uses []Version
	Defs []Version

	VirtualUses  []*Decl
	VirtualDefs  []*Decl // VMUSTDEF targets
	RealOperands []*Decl // real (non-virtual) operand decls also touched, for the virtual/real overlap sanity check

	Copy *CopyInfo
}

// IsCopy reports whether s is a plain copy and returns its endpoints.
func (s *Stmt) IsCopy() (lhs, rhs Version, ok bool) {
	if s.Copy == nil {
		return 0, 0, false
	}
	return s.Copy.LHS, s.Copy.RHS, true
}

// Operands yields every version touched by s under the given mask. Only Use
// and Def are meaningful for Version-typed operands; VirtualUse/VMustDef
// operate over Decls and are exposed via VirtualOperands instead.
func (s *Stmt) Operands(mask OperandMask) []Version {
	var out []Version
	if mask&Use != 0 {
		out = append(out, s.Uses...)
	}
	if mask&Def != 0 {
		out = append(out, s.Defs...)
	}
	return out
}

// VirtualOperands returns the declarations touched by s under the given
// virtual mask (VirtualUse and/or VMustDef).
func (s *Stmt) VirtualOperands(mask OperandMask) []*Decl {
	var out []*Decl
	if mask&VirtualUse != 0 {
		out = append(out, s.VirtualUses...)
	}
	if mask&VMustDef != 0 {
		out = append(out, s.VirtualDefs...)
	}
	return out
}
