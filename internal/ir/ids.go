// Package ir holds the identifiers shared by the HIR and LIR layers.
//
// Both representations name values with SSA identifiers handed out by
// NextSSA. An identifier is process-unique, so trees produced by independent
// upstream passes can be combined without renumbering.
package ir

import (
	"fmt"
	"sync/atomic"
)

// SSAID names a single value. Zero is the "no value" sentinel.
type SSAID uint32

// NoSSAID is the invalid SSA identifier.
const NoSSAID SSAID = 0

var globalSSA uint32

// NextSSA returns a fresh, process-unique SSA identifier.
func NextSSA() SSAID {
	return SSAID(atomic.AddUint32(&globalSSA, 1))
}

// IsValid returns true if the ID is valid (non-zero).
func (id SSAID) IsValid() bool { return id != NoSSAID }

func (id SSAID) String() string {
	if !id.IsValid() {
		return "%_"
	}
	return fmt.Sprintf("%%%d", uint32(id))
}

// LambdaEnvIdx indexes the module's closure-environment table.
type LambdaEnvIdx uint32

func (i LambdaEnvIdx) String() string {
	return fmt.Sprintf("env%d", uint32(i))
}
