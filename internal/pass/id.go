package pass

import "fmt"

// ID names a pass. The set is closed.
type ID uint8

const (
	Invalid ID = iota
	Resolution
	TypeDefCycles
	TypeInference
	CaptureAnalysis
	SafetyCheck
	CodeGen
)

var idNames = [...]string{
	Invalid:         "invalid",
	Resolution:      "resolution",
	TypeDefCycles:   "typedef-cycles",
	TypeInference:   "type-inference",
	CaptureAnalysis: "capture-analysis",
	SafetyCheck:     "safety-check",
	CodeGen:         "codegen",
}

func (id ID) String() string {
	if int(id) < len(idNames) {
		return idNames[id]
	}
	return fmt.Sprintf("pass(%d)", uint8(id))
}

// ParseID maps a pass name as printed by String back to its ID.
func ParseID(s string) (ID, error) {
	for i, name := range idNames {
		if i != int(Invalid) && name == s {
			return ID(i), nil //nolint:gosec // bounded by idNames
		}
	}
	return Invalid, fmt.Errorf("unknown pass %q", s)
}

// ResultKind classifies what a pass produced.
type ResultKind uint8

const (
	ResultUnit ResultKind = iota
	ResultDiagnostics
	ResultTypedOutput
	ResultCodeOutput
	ResultUnmetDependencies
)

func (k ResultKind) String() string {
	switch k {
	case ResultUnit:
		return "unit"
	case ResultDiagnostics:
		return "diagnostics"
	case ResultTypedOutput:
		return "typed-output"
	case ResultCodeOutput:
		return "code-output"
	case ResultUnmetDependencies:
		return "unmet-dependencies"
	}
	return "invalid"
}

// Result is the outcome of one pass.
type Result struct {
	Kind ResultKind
	// Diagnostics counts what the pass reported.
	Diagnostics int
	// Missing lists dependencies that had not completed.
	Missing []ID
}
