package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lowering
	LowerInfo        Code = 1000
	LowerUnsupported Code = 1001
	LowerInvariant   Code = 1002
	LowerIncomplete  Code = 1003
	LowerLambda      Code = 1004

	// SSA validation
	SSAInfo            Code = 2000
	SSADoubleAssign    Code = 2001
	SSAUseOfUnassigned Code = 2002

	// Graph structure
	CFGInfo              Code = 3000
	CFGBadTarget         Code = 3001
	CFGPhiNotPredecessor Code = 3002
	CFGEmptyTarget       Code = 3003

	// Configuration
	ProjInfo          Code = 4000
	ProjConfigInvalid Code = 4001
	ProjUnknownPass   Code = 4002

	// Observability
	ObsInfo    Code = 5000
	ObsTimings Code = 5001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:          "Unknown error",
		LowerInfo:            "Lowering information",
		LowerUnsupported:     "Construct cannot be lowered",
		LowerInvariant:       "Malformed HIR",
		LowerIncomplete:      "Construct lowered partially",
		LowerLambda:          "Lifted lambda",
		SSAInfo:              "SSA information",
		SSADoubleAssign:      "SSA value assigned more than once",
		SSAUseOfUnassigned:   "Use of unassigned SSA value",
		CFGInfo:              "Control-flow information",
		CFGBadTarget:         "Jump to nonexistent block",
		CFGPhiNotPredecessor: "Phi entry from a block that is not a predecessor",
		CFGEmptyTarget:       "Jump target left empty",
		ProjInfo:             "Project information",
		ProjConfigInvalid:    "Invalid configuration",
		ProjUnknownPass:      "Unknown pass",
		ObsInfo:              "Observability information",
		ObsTimings:           "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SSA%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
