package circuit

import (
	"fmt"

	"github.com/starkandwayne/goutils/ansi"
	"github.com/wayneeseguin/circuiteval/log"
)

// ErrorType tags the error kinds of spec §7, distinct from the in-band
// wire `err` bit: these are for the handful of error conditions a
// human operator needs to see, the way the teacher's GraftError (pkg/
// graft/errors.go) tags its own error categories.
type ErrorType string

const (
	// ParseError is an ill-formed equation or query line (spec §7).
	ParseError ErrorType = "parse_error"
	// SemanticError is a duplicate definition or dependency cycle (spec §7).
	SemanticError ErrorType = "semantic_error"
	// SystemError is a pipe/fork/read/write/poll/allocation failure — in
	// this Go rendition, a channel or goroutine bookkeeping failure (spec
	// §7, "System failure").
	SystemError ErrorType = "system_error"
)

// CircuitError is the base error type for circuiteval, the domain analogue
// of the teacher's GraftError.
type CircuitError struct {
	Type    ErrorType
	Message string
	Label   string // the input line's label, when known
	Cause   error
}

func (e *CircuitError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("%s at %s: %s", e.Type, e.Label, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *CircuitError) Unwrap() error { return e.Cause }

// NewParseError builds a ParseError.
func NewParseError(label, message string, cause error) *CircuitError {
	return &CircuitError{Type: ParseError, Label: label, Message: message, Cause: cause}
}

// NewSemanticError builds a SemanticError.
func NewSemanticError(label, message string) *CircuitError {
	return &CircuitError{Type: SemanticError, Label: label, Message: message}
}

// NewSystemError builds a SystemError.
func NewSystemError(message string, cause error) *CircuitError {
	return &CircuitError{Type: SystemError, Message: message, Cause: cause}
}

// Fatal prints a colored diagnostic to stderr the way cmd/graft/main.go's
// bail() does, for a system failure that must abort the whole run (spec
// §7: "the offending process prints a diagnostic ... and exits the whole
// run").
func Fatal(err error) {
	log.PrintfStdErr(ansi.Sprintf("@R{circuiteval: %s}\n", err))
}
