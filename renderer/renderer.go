package renderer

import (
	"io"

	"github.com/rvkit/rv32asm/diag"
)

// Renderer defines the interface for rendering assembly diagnostics in
// different formats.
type Renderer interface {
	// Render takes the collected diagnostics and writes them in the
	// desired format to the provided writer.
	Render(diags []*diag.Diagnostic, output io.Writer) error

	// Format returns the name of the output format (e.g., "json", "text").
	Format() string
}
