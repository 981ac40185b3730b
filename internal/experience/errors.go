package experience

import "fmt"

// Load stages reported by LoadError
const (
	StageRead     = "read"
	StageSchema   = "schema"
	StageDecode   = "decode"
	StageValidate = "validate"
)

// LoadError reports which stage of loading a candidate bank failed
type LoadError struct {
	Path  string // empty when parsing bytes
	Stage string
	Cause error
}

func (e *LoadError) Error() string {
	source := "candidate bank"
	if e.Path != "" {
		source = fmt.Sprintf("candidate bank %s", e.Path)
	}
	return fmt.Sprintf("%s: %s failed: %v", source, e.Stage, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
