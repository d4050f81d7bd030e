package pass

import (
	"fmt"
	"strings"
)

// FaultKind classifies pipeline wiring defects.
type FaultKind uint8

const (
	FaultUnmetDependencies FaultKind = iota + 1
	FaultGeneratedWithErrors
	FaultDependencyCycle
	FaultUnknownDependency
	FaultDuplicatePass
)

func (k FaultKind) String() string {
	switch k {
	case FaultUnmetDependencies:
		return "unmet dependencies"
	case FaultGeneratedWithErrors:
		return "code generation with outstanding errors"
	case FaultDependencyCycle:
		return "dependency cycle"
	case FaultUnknownDependency:
		return "unknown dependency"
	case FaultDuplicatePass:
		return "duplicate pass"
	}
	return "fault"
}

// Fault is an internal consistency failure of the pipeline. It is never a
// diagnostic: it is raised with panic and means the pipeline is miswired.
type Fault struct {
	Kind   FaultKind
	Pass   ID
	Others []ID
}

func (f *Fault) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "internal fault: %s in pass %s", f.Kind, f.Pass)
	if len(f.Others) > 0 {
		names := make([]string, len(f.Others))
		for i, id := range f.Others {
			names[i] = id.String()
		}
		fmt.Fprintf(&sb, " (%s)", strings.Join(names, ", "))
	}
	return sb.String()
}

func raise(kind FaultKind, id ID, others ...ID) {
	panic(&Fault{Kind: kind, Pass: id, Others: others})
}

// AsFault extracts a Fault from a recovered panic value.
func AsFault(r any) (*Fault, bool) {
	f, ok := r.(*Fault)
	return f, ok
}
