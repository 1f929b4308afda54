package diag

// Severity ranks how urgently a diagnostic should be surfaced. The resolver
// itself never raises errors for soft failures (see codes.go); these levels
// exist for the advisory diagnostics it does emit (duplicate names, shadowing,
// unresolved imports) and for whatever a downstream rule reports.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
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
	default:
		return "UNKNOWN"
	}
}
