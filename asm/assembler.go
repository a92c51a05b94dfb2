// Package asm implements the two-pass RV32I assembly core: pass 1 builds
// the symbol table by address accounting, pass 2 expands, resolves and
// encodes every instruction into the little-endian text-segment buffer.
package asm

import (
	"encoding/binary"
	"strconv"

	"github.com/rvkit/rv32asm/diag"
	"github.com/rvkit/rv32asm/profile"
)

// Segment identifies the active output segment.
type Segment int

const (
	SegmentText Segment = iota
	SegmentData
)

// Assembler threads the symbol table, segment cursor and output buffers
// through two sequential traversals of one source file. Instances are not
// reusable across files; construct one per input.
type Assembler struct {
	prof    *profile.TargetProfile
	symbols map[string]uint32
	text    []byte
	data    []byte
	segment Segment
	addr    uint32
	diags   diag.Collector
}

// New returns an assembler for one source file. A nil profile selects the
// default segment bases.
func New(prof *profile.TargetProfile) *Assembler {
	if prof == nil {
		prof = profile.Default()
	}
	return &Assembler{
		prof:    prof,
		symbols: make(map[string]uint32),
	}
}

// Assemble runs both passes over the source lines and returns the text
// segment machine code. When any line fails it returns nil code and the
// collected diagnostics; pass 2 is skipped entirely if pass 1 reported
// errors, since its address accounting cannot be trusted.
func (a *Assembler) Assemble(lines []string) ([]byte, []*diag.Diagnostic) {
	a.firstPass(lines)
	if !a.diags.HasErrors() {
		a.secondPass(lines)
	}
	if a.diags.HasErrors() {
		return nil, a.diags.Diagnostics()
	}
	return a.text, nil
}

// BuildSymbols runs only the first pass and returns the symbol table.
func (a *Assembler) BuildSymbols(lines []string) (map[string]uint32, []*diag.Diagnostic) {
	a.firstPass(lines)
	if a.diags.HasErrors() {
		return nil, a.diags.Diagnostics()
	}
	return a.Symbols(), nil
}

// Symbols returns a copy of the label table built by pass 1.
func (a *Assembler) Symbols() map[string]uint32 {
	out := make(map[string]uint32, len(a.symbols))
	for name, addr := range a.symbols {
		out[name] = addr
	}
	return out
}

// Data returns the bytes emitted by .word directives into the data
// segment. The data segment is never part of the Assemble result.
func (a *Assembler) Data() []byte {
	return a.data
}

// firstPass assigns addresses to labels by simulating instruction-count
// accounting without encoding anything. Operand validation is deferred to
// pass 2, but a malformed pseudo-instruction is reported here since its
// expansion length decides the address of every later label.
func (a *Assembler) firstPass(lines []string) {
	a.segment = SegmentText
	a.addr = a.prof.TextBase

	for i, raw := range lines {
		ln := parseLine(i+1, raw)
		if ln.label != "" {
			if _, defined := a.symbols[ln.label]; !defined { // first definition wins
				a.symbols[ln.label] = a.addr
			}
		}
		if ln.directive != "" {
			if err := a.applyDirective(ln, true); err != nil {
				a.diags.Report(ln.number, ln.original, err)
			}
			continue
		}
		if ln.mnemonic == "" || a.segment != SegmentText {
			continue
		}
		seq, err := expand(ln.mnemonic, ln.operands)
		if err != nil {
			a.diags.Report(ln.number, ln.original, err)
			continue
		}
		a.addr += uint32(4 * len(seq))
	}
}

// secondPass generates machine code against the now-complete symbol table.
// A failure aborts only the current line's remaining expansion; the cursor
// still advances by the full expanded length so later lines resolve
// exactly as pass 1 counted them.
func (a *Assembler) secondPass(lines []string) {
	a.segment = SegmentText
	a.addr = a.prof.TextBase
	a.text = nil

	for i, raw := range lines {
		ln := parseLine(i+1, raw)
		if ln.directive != "" {
			if err := a.applyDirective(ln, false); err != nil {
				a.diags.Report(ln.number, ln.original, err)
			}
			continue
		}
		if ln.mnemonic == "" || a.segment != SegmentText {
			continue
		}
		seq, err := expand(ln.mnemonic, ln.operands)
		if err != nil {
			a.diags.Report(ln.number, ln.original, err)
			continue
		}
		// Every instruction of a sequence encodes against the sequence's
		// start address: an auipc pair resolves both halves from the
		// auipc's pc, and no expansion places a branch or jump after its
		// first slot.
		start := a.addr
		for _, ins := range seq {
			word, err := a.encode(ins, start)
			if err != nil {
				a.diags.Report(ln.number, ln.original, err)
				break
			}
			a.text = binary.LittleEndian.AppendUint32(a.text, word)
		}
		a.addr = start + uint32(4*len(seq))
	}
}

// applyDirective handles .text, .data and .word. Segment directives accept
// an optional base-address override; switching resets the cursor to the
// segment base. Unrecognized directives are ignored. Data bytes are only
// materialized in pass 2; pass 1 just accounts addresses.
func (a *Assembler) applyDirective(ln sourceLine, firstPass bool) *diag.Error {
	switch ln.directive {
	case ".text":
		base, err := directiveBase(ln, a.prof.TextBase)
		if err != nil {
			return err
		}
		a.segment = SegmentText
		a.addr = base
	case ".data":
		base, err := directiveBase(ln, a.prof.DataBase)
		if err != nil {
			return err
		}
		a.segment = SegmentData
		a.addr = base
	case ".word":
		if a.segment != SegmentData {
			return diag.Errorf(diag.KindInvalidLiteralOrLabel,
				".word is only valid in the .data segment")
		}
		if len(ln.operands) == 0 {
			return diag.Errorf(diag.KindInvalidLiteralOrLabel,
				".word requires at least one value")
		}
		for _, op := range ln.operands {
			value, err := strconv.ParseInt(op, 0, 64)
			if err != nil {
				return diag.Errorf(diag.KindInvalidLiteralOrLabel,
					"invalid .word value: '%s'", op)
			}
			if value < -2147483648 || value > 4294967295 {
				return diag.Errorf(diag.KindImmediateOutOfRange,
					".word value %d does not fit in 32 bits", value)
			}
			if !firstPass {
				a.data = binary.LittleEndian.AppendUint32(a.data, uint32(value))
			}
			a.addr += 4
		}
	}
	return nil
}

func directiveBase(ln sourceLine, fallback uint32) (uint32, *diag.Error) {
	if len(ln.operands) == 0 {
		return fallback, nil
	}
	if len(ln.operands) > 1 {
		return 0, diag.Errorf(diag.KindInvalidLiteralOrLabel,
			"malformed directive: '%s'", ln.original)
	}
	base, err := strconv.ParseUint(ln.operands[0], 0, 32)
	if err != nil {
		return 0, diag.Errorf(diag.KindInvalidLiteralOrLabel,
			"invalid segment base address: '%s'", ln.operands[0])
	}
	return uint32(base), nil
}
