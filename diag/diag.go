// Package diag defines the assembler's per-line diagnostics and the ordered
// collector that gates overall success.
package diag

import (
	"errors"
	"fmt"
)

// Kind tags a diagnostic with the class of failure it reports.
type Kind string

const (
	KindUnknownMnemonic                    Kind = "UnknownMnemonic"
	KindInvalidRegister                    Kind = "InvalidRegister"
	KindOperandCountMismatch               Kind = "OperandCountMismatch"
	KindImmediateOutOfRange                Kind = "ImmediateOutOfRange"
	KindShiftAmountOutOfRange              Kind = "ShiftAmountOutOfRange"
	KindUndefinedSymbol                    Kind = "UndefinedSymbol"
	KindInvalidMemoryOperandSyntax         Kind = "InvalidMemoryOperandSyntax"
	KindMisalignedOrOutOfRangeBranchOrJump Kind = "MisalignedOrOutOfRangeBranchOrJump"
	KindInvalidLiteralOrLabel              Kind = "InvalidLiteralOrLabel"
)

// Error is a tagged assembly failure before it is bound to a source line.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Errorf builds a tagged Error with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Diagnostic records one failed source line.
type Diagnostic struct {
	Line    int    `json:"line"`
	Source  string `json:"source"`
	Kind    Kind   `json:"kind,omitempty"`
	Message string `json:"message"`
}

// Collector accumulates diagnostics in arrival order. Diagnostics are never
// discarded; a non-empty collector makes the whole assembly fail.
type Collector struct {
	diags []*Diagnostic
}

// Report binds an error to its source line and appends it.
func (c *Collector) Report(line int, source string, err error) {
	d := &Diagnostic{Line: line, Source: source, Message: err.Error()}
	var tagged *Error
	if errors.As(err, &tagged) {
		d.Kind = tagged.Kind
	}
	c.diags = append(c.diags, d)
}

// HasErrors reports whether any diagnostic has been collected.
func (c *Collector) HasErrors() bool {
	return len(c.diags) > 0
}

// Diagnostics returns the collected diagnostics in arrival order.
func (c *Collector) Diagnostics() []*Diagnostic {
	return c.diags
}
