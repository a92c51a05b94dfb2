package asm

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/rvkit/rv32asm/diag"
	"github.com/rvkit/rv32asm/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(code []byte) []uint32 {
	out := make([]uint32, 0, len(code)/4)
	for i := 0; i+4 <= len(code); i += 4 {
		out = append(out, binary.LittleEndian.Uint32(code[i:]))
	}
	return out
}

func assemble(t *testing.T, source string) ([]uint32, *Assembler) {
	t.Helper()
	a := New(nil)
	code, diags := a.Assemble(strings.Split(source, "\n"))
	require.Empty(t, diags)
	return words(code), a
}

func TestAssembleLoop(t *testing.T) {
	source := `
.text
start: addi x1, x0, 0    # counter
loop:  addi x1, x1, 1
       beq  x1, x2, done # forward reference
       jal  x0, loop
done:  ret
`
	code, a := assemble(t, source)
	assert.Equal(t, []uint32{
		0x00000093, // addi x1, x0, 0
		0x00108093, // addi x1, x1, 1
		0x00208463, // beq x1, x2, +8
		0xFF9FF06F, // jal x0, -8
		0x00008067, // jalr x0, ra, 0
	}, code)

	symbols := a.Symbols()
	assert.Equal(t, uint32(0), symbols["start"])
	assert.Equal(t, uint32(4), symbols["loop"])
	assert.Equal(t, uint32(16), symbols["done"])
}

func TestAssembleSelfBranch(t *testing.T) {
	code, _ := assemble(t, "loop: beq x0, x0, loop")
	require.Len(t, code, 1)
	// Offset zero: only the func3 and opcode fields are set.
	assert.Equal(t, uint32(0x00000063), code[0])
}

func TestAssembleLoadImmediate(t *testing.T) {
	code, _ := assemble(t, "li x1, 100000")
	require.Len(t, code, 2)
	assert.Equal(t, uint32(0x000180B7), code[0]) // lui x1, 24
	assert.Equal(t, uint32(0x6A008093), code[1]) // addi x1, x1, 1696

	// Reconstruct: high<<12 plus the sign-extended low half.
	high := int32(code[0]) >> 12
	low := int32(code[1]) >> 20
	assert.Equal(t, int32(100000), high<<12+low)

	code, _ = assemble(t, "li x1, 0x1000")
	assert.Equal(t, []uint32{0x000010B7}, code)

	code, _ = assemble(t, "li x5, 2047")
	assert.Equal(t, []uint32{0x7FF00293}, code)

	code, _ = assemble(t, "li x5, -2048")
	assert.Equal(t, []uint32{0x80000293}, code)
}

func TestAssembleCall(t *testing.T) {
	source := `
call target
target: nop
`
	code, a := assemble(t, source)
	assert.Equal(t, []uint32{
		0x00000097, // auipc ra, 0   (target is 8 bytes past the auipc)
		0x008080E7, // jalr ra, 8(ra)
		0x00000013, // nop -> addi x0, x0, 0
	}, code)
	assert.Equal(t, uint32(8), a.Symbols()["target"])
}

// The auipc/jalr pair must transfer control to the called label exactly:
// ra picks up the auipc's pc plus the upper offset, and the jalr adds the
// signed low half.
func TestAssembleCallLandsOnTarget(t *testing.T) {
	source := `
call target
nop
target: nop
`
	code, a := assemble(t, source)
	require.Len(t, code, 4)
	target := a.Symbols()["target"]

	ra := uint32(0) + code[0]>>12<<12 // auipc at address 0
	dest := int64(ra) + int64(int32(code[1])>>20)
	assert.Equal(t, int64(target), dest)

	// Backward call: the pair sits past its target.
	source = `
target: nop
call target
`
	code, a = assemble(t, source)
	require.Len(t, code, 3)
	target = a.Symbols()["target"]

	ra = uint32(4) + code[1]>>12<<12 // auipc at address 4
	dest = int64(ra) + int64(int32(code[2])>>20)
	assert.Equal(t, int64(target), dest)
}

// li with a label operand materializes the label's exact address through
// its auipc/addi pair.
func TestAssembleLoadAddress(t *testing.T) {
	source := `
nop
li x1, target
target: nop
`
	code, a := assemble(t, source)
	require.Len(t, code, 4)

	base := uint32(4) + code[1]>>12<<12 // auipc at address 4
	addr := int64(base) + int64(int32(code[2])>>20)
	assert.Equal(t, int64(a.Symbols()["target"]), addr)
}

func TestAssembleDataSegment(t *testing.T) {
	source := `
.data
val:  .word 1, 0x2
next: .word -1
.text
main: nop
`
	_, a := assemble(t, source)
	symbols := a.Symbols()
	assert.Equal(t, uint32(0x10000000), symbols["val"])
	assert.Equal(t, uint32(0x10000008), symbols["next"])
	assert.Equal(t, uint32(0), symbols["main"])
	assert.Equal(t, []byte{
		0x01, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x00,
		0xFF, 0xFF, 0xFF, 0xFF,
	}, a.Data())
}

func TestAssembleSegmentBaseOverride(t *testing.T) {
	source := `
.text 0x100
entry: j entry
`
	code, a := assemble(t, source)
	assert.Equal(t, uint32(0x100), a.Symbols()["entry"])
	// Self-jump still encodes offset zero.
	assert.Equal(t, []uint32{0x0000006F}, code)
}

func TestAssembleProfileBases(t *testing.T) {
	prof := &profile.TargetProfile{Name: "custom", TextBase: 0x80000000, DataBase: 0x90000000}
	a := New(prof)
	_, diags := a.Assemble([]string{"entry: nop", ".data", "v: .word 7"})
	require.Empty(t, diags)
	assert.Equal(t, uint32(0x80000000), a.Symbols()["entry"])
	assert.Equal(t, uint32(0x90000000), a.Symbols()["v"])
}

func TestAssembleDeterministic(t *testing.T) {
	source := `
li x1, 0x12345
loop: addi x1, x1, -1
bnez x1, loop
ret
`
	lines := strings.Split(source, "\n")
	first, diags := New(nil).Assemble(lines)
	require.Empty(t, diags)
	second, diags := New(nil).Assemble(lines)
	require.Empty(t, diags)
	assert.Equal(t, first, second)
}

func TestAssembleLabelRedefinition(t *testing.T) {
	source := `
dup: nop
dup: nop
`
	_, a := assemble(t, source)
	// First definition wins.
	assert.Equal(t, uint32(0), a.Symbols()["dup"])
}

func TestAssembleUndefinedSymbol(t *testing.T) {
	a := New(nil)
	code, diags := a.Assemble([]string{"j undefined_label"})
	assert.Nil(t, code)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.KindUndefinedSymbol, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "undefined_label")
	assert.Equal(t, 1, diags[0].Line)
}

func TestAssembleCollectsAllErrors(t *testing.T) {
	source := []string{
		"addi x1, x0, 10",
		"addi x1, x0, 99999", // out of range
		"add x1, x2",         // arity
		"lw x5, nope",        // memory syntax
	}
	code, diags := New(nil).Assemble(source)
	assert.Nil(t, code)
	require.Len(t, diags, 3)
	assert.Equal(t, diag.KindImmediateOutOfRange, diags[0].Kind)
	assert.Equal(t, 2, diags[0].Line)
	assert.Equal(t, diag.KindOperandCountMismatch, diags[1].Kind)
	assert.Equal(t, 3, diags[1].Line)
	assert.Equal(t, diag.KindInvalidMemoryOperandSyntax, diags[2].Kind)
	assert.Equal(t, 4, diags[2].Line)
}

func TestAssembleSkipsSecondPassOnFirstPassFailure(t *testing.T) {
	source := []string{
		"li x1,",            // expansion failure in pass 1
		"j undefined_label", // would fail in pass 2, which must not run
	}
	code, diags := New(nil).Assemble(source)
	assert.Nil(t, code)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.KindInvalidLiteralOrLabel, diags[0].Kind)
	assert.Equal(t, 1, diags[0].Line)
}

func TestAssembleWordOutsideData(t *testing.T) {
	code, diags := New(nil).Assemble([]string{".word 1"})
	assert.Nil(t, code)
	require.Len(t, diags, 1) // pass 2 is skipped after a pass 1 failure
	assert.Equal(t, diag.KindInvalidLiteralOrLabel, diags[0].Kind)
}

func TestBuildSymbols(t *testing.T) {
	a := New(nil)
	symbols, diags := a.BuildSymbols([]string{"a: nop", "b: call a"})
	require.Empty(t, diags)
	assert.Equal(t, map[string]uint32{"a": 0, "b": 4}, symbols)
}
