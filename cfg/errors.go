// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cfg

import "fmt"

// InternalError signals a programmer-contract violation or an SSA-integrity
// anomaly that makes it unsafe to continue compiling the current
// procedure. It is never returned through a normal error return; Fatalf
// panics with it so that an embedding compiler can recover() at its pass
// boundary and fold it into its own ICE reporting.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string { return e.Msg }

func newInternalError(format string, args ...any) *InternalError {
	return &InternalError{Msg: fmt.Sprintf(format, args...)}
}
