package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo notes facts about the lowering, such as a lifted lambda.
	SevInfo Severity = iota
	// SevWarning marks output that was produced but is incomplete.
	SevWarning
	// SevError marks a function or graph that failed a check.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// AtLeast keeps the diagnostics of severity floor or above, in order. The
// input slice is not modified.
func AtLeast(items []*Diagnostic, floor Severity) []*Diagnostic {
	out := make([]*Diagnostic, 0, len(items))
	for _, d := range items {
		if d.Severity >= floor {
			out = append(out, d)
		}
	}
	return out
}
