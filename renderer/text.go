// Package renderer provides a way to render assembly diagnostics in
// different formats.
package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/rvkit/rv32asm/diag"
	"github.com/rvkit/rv32asm/profile"
)

// TextRenderer formats the diagnostic report in a structured text format.
type TextRenderer struct {
	profile *profile.TargetProfile
}

// NewTextRenderer creates a new instance of TextRenderer.
func NewTextRenderer(profile *profile.TargetProfile) Renderer {
	return &TextRenderer{profile: profile}
}

// Render formats and writes the diagnostic report. Diagnostics arrive in
// source-line order and are printed in that order.
func (r *TextRenderer) Render(diags []*diag.Diagnostic, output io.Writer) error {
	if len(diags) == 0 {
		return nil
	}

	var report strings.Builder

	report.WriteString("==============================\n")
	report.WriteString("RV32I Assembly Report\n")
	report.WriteString("==============================\n\n")
	report.WriteString(fmt.Sprintf("Target: %s\n", r.profile.Name))
	report.WriteString(fmt.Sprintf("Text base: 0x%08X\n", r.profile.TextBase))
	report.WriteString(fmt.Sprintf("Data base: 0x%08X\n", r.profile.DataBase))
	report.WriteString(fmt.Sprintf("Errors: %d\n\n", len(diags)))
	report.WriteString("------------------------------\n")

	for _, d := range diags {
		report.WriteString(fmt.Sprintf("line %d: %s\n", d.Line, strings.TrimSpace(d.Source)))
		if d.Kind != "" {
			report.WriteString(fmt.Sprintf("  -> [%s] %s\n", d.Kind, d.Message))
		} else {
			report.WriteString(fmt.Sprintf("  -> %s\n", d.Message))
		}
	}

	report.WriteString("------------------------------\n")
	report.WriteString("Assembly failed; no output was produced.\n")

	_, err := output.Write([]byte(report.String()))
	return err
}

// Format returns the format type.
func (r *TextRenderer) Format() string {
	return "text"
}
