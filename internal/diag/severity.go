package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevError is the only severity the front-end emits.
	SevError Severity = iota + 2
)

func (s Severity) String() string {
	if s == SevError {
		return "ERROR"
	}
	return "UNKNOWN"
}
