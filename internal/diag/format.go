package diag

import (
	"strings"
)

// FormatShort renders one line per diagnostic, plus one indented line per
// note when includeNotes is set:
//
//	f/1:bb2:0: ERROR SSA2001: double assignment of %7
func FormatShort(diags []*Diagnostic, includeNotes bool) string {
	var sb strings.Builder
	for _, d := range diags {
		if d == nil {
			continue
		}
		sb.WriteString(d.Primary.String())
		sb.WriteString(": ")
		sb.WriteString(d.Severity.String())
		sb.WriteByte(' ')
		sb.WriteString(d.Code.ID())
		sb.WriteString(": ")
		sb.WriteString(d.Message)
		sb.WriteByte('\n')
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			sb.WriteString("  note: ")
			if n.Loc != (Location{}) {
				sb.WriteString(n.Loc.String())
				sb.WriteString(": ")
			}
			sb.WriteString(n.Msg)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
