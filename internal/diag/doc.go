// Package diag defines the diagnostic model shared by the lowering driver,
// the LIR validators and the CLI.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity: Info, Warning or Error (severity.go).
//   - Code: compact numeric identifier with a stable string form (codes.go).
//   - Message: short human oriented text.
//   - Primary: the Location of the finding inside the lowered module, that
//     is the function, and where relevant the block and the op or phi.
//   - Notes: optional secondary locations with additional context.
//
// # Emitting diagnostics
//
// Producers report through a Reporter so emission stays decoupled from
// storage. BagReporter collects into a Bag, which supports limits, sorting,
// deduplication and merging. ReportBuilder chains notes before Emit.
//
// Rendering lives in FormatShort; colouring is left to the CLI.
package diag
