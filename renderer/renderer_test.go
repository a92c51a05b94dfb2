package renderer

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvkit/rv32asm/diag"
	"github.com/rvkit/rv32asm/profile"
)

func sampleDiags() []*diag.Diagnostic {
	return []*diag.Diagnostic{
		{
			Line:    2,
			Source:  "addi t0, t0",
			Kind:    diag.KindOperandCountMismatch,
			Message: "addi expects 3 operands, got 2",
		},
		{
			Line:    5,
			Source:  "beq t0, t1, nowhere",
			Kind:    diag.KindUndefinedSymbol,
			Message: "undefined symbol \"nowhere\"",
		},
	}
}

func TestTextRenderer(t *testing.T) {
	r := NewTextRenderer(profile.Default())
	assert.Equal(t, "text", r.Format())

	var buf bytes.Buffer
	require.NoError(t, r.Render(sampleDiags(), &buf))

	out := buf.String()
	assert.Contains(t, out, "RV32I Assembly Report")
	assert.Contains(t, out, "Target: rv32i-bare")
	assert.Contains(t, out, "Errors: 2")
	assert.Contains(t, out, "line 2: addi t0, t0")
	assert.Contains(t, out, "[OperandCountMismatch] addi expects 3 operands, got 2")
	assert.Contains(t, out, "line 5: beq t0, t1, nowhere")
	assert.Contains(t, out, "Assembly failed; no output was produced.")
}

func TestTextRendererNoDiagnostics(t *testing.T) {
	r := NewTextRenderer(profile.Default())

	var buf bytes.Buffer
	require.NoError(t, r.Render(nil, &buf))
	assert.Empty(t, buf.String())
}

func TestJSONRenderer(t *testing.T) {
	r := NewJSONRenderer()
	assert.Equal(t, "json", r.Format())

	var buf bytes.Buffer
	require.NoError(t, r.Render(sampleDiags(), &buf))

	var decoded []*diag.Diagnostic
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleDiags(), decoded)
}
