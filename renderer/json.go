package renderer

import (
	"encoding/json"
	"io"

	"github.com/rvkit/rv32asm/diag"
)

// JSONRenderer renders diagnostics in JSON format.
type JSONRenderer struct{}

func NewJSONRenderer() Renderer {
	return &JSONRenderer{}
}

func (r *JSONRenderer) Render(diags []*diag.Diagnostic, output io.Writer) error {
	return json.NewEncoder(output).Encode(diags)
}

func (r *JSONRenderer) Format() string {
	return "json"
}
