package asm

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/rvkit/rv32asm/diag"
	"github.com/rvkit/rv32asm/isa"
)

var identRegex = regexp.MustCompile(`^[A-Za-z_]\w*$`)

// expanded is one base instruction produced by pseudo-instruction
// expansion. pcrel marks the second half of an auipc pair, whose %lo
// operand resolves against the pair's base address instead of the symbol's
// absolute address.
type expanded struct {
	mnemonic string
	operands []string
	pcrel    bool
}

func one(mnemonic string, operands ...string) []expanded {
	return []expanded{{mnemonic: mnemonic, operands: operands}}
}

// zeroBranch maps the conditional zero-branch pseudos to their two-register
// base forms. blez and bgtz swap operand order so the comparison direction
// stays correct.
var zeroBranch = map[string]string{
	"beqz": "beq", "bnez": "bne",
	"bltz": "blt", "bgez": "bge",
	"blez": "bge", "bgtz": "blt",
}

// expand rewrites a pseudo-instruction into its base-ISA sequence; base
// mnemonics pass through unchanged. The function depends only on its
// arguments, which keeps the instruction count identical across both
// passes.
func expand(mnemonic string, ops []string) ([]expanded, *diag.Error) {
	// Fast path: everything except the pseudos and the dual-use jumps
	// passes through untouched.
	if !isa.IsPseudo(mnemonic) && mnemonic != "jal" && mnemonic != "jalr" {
		return []expanded{{mnemonic: mnemonic, operands: ops}}, nil
	}

	need := func(n int) *diag.Error {
		if len(ops) != n {
			return diag.Errorf(diag.KindOperandCountMismatch,
				"'%s' expects %d operand(s), got %d", mnemonic, n, len(ops))
		}
		return nil
	}

	switch mnemonic {
	case "nop":
		if err := need(0); err != nil {
			return nil, err
		}
		return one("addi", "x0", "x0", "0"), nil
	case "mv":
		if err := need(2); err != nil {
			return nil, err
		}
		return one("addi", ops[0], ops[1], "0"), nil
	case "not":
		if err := need(2); err != nil {
			return nil, err
		}
		return one("xori", ops[0], ops[1], "-1"), nil
	case "neg":
		if err := need(2); err != nil {
			return nil, err
		}
		return one("sub", ops[0], "x0", ops[1]), nil
	case "j":
		if err := need(1); err != nil {
			return nil, err
		}
		return one("jal", "x0", ops[0]), nil
	case "jal":
		if len(ops) == 1 {
			return one("jal", "ra", ops[0]), nil
		}
	case "ret":
		if err := need(0); err != nil {
			return nil, err
		}
		return one("jalr", "x0", "ra", "0"), nil
	case "call":
		if err := need(1); err != nil {
			return nil, err
		}
		label := ops[0]
		return []expanded{
			{mnemonic: "auipc", operands: []string{"ra", fmt.Sprintf("%%hi(%s)", label)}},
			{mnemonic: "jalr", operands: []string{"ra", fmt.Sprintf("%%lo(%s)(ra)", label)}, pcrel: true},
		}, nil
	case "seqz":
		if err := need(2); err != nil {
			return nil, err
		}
		return one("sltiu", ops[0], ops[1], "1"), nil
	case "snez":
		if err := need(2); err != nil {
			return nil, err
		}
		return one("sltu", ops[0], "x0", ops[1]), nil
	case "sltz":
		if err := need(2); err != nil {
			return nil, err
		}
		return one("slt", ops[0], ops[1], "x0"), nil
	case "sgtz":
		if err := need(2); err != nil {
			return nil, err
		}
		return one("slt", ops[0], "x0", ops[1]), nil
	case "jr":
		if err := need(1); err != nil {
			return nil, err
		}
		return one("jalr", "x0", ops[0], "0"), nil
	case "jalr":
		if len(ops) == 1 {
			return one("jalr", "ra", ops[0], "0"), nil
		}
	case "li":
		if err := need(2); err != nil {
			return nil, err
		}
		return expandLoadImmediate(ops[0], ops[1])
	}

	if base, ok := zeroBranch[mnemonic]; ok {
		if err := need(2); err != nil {
			return nil, err
		}
		rs, target := ops[0], ops[1]
		if mnemonic == "blez" || mnemonic == "bgtz" {
			return one(base, "x0", rs, target), nil
		}
		return one(base, rs, "x0", target), nil
	}

	return []expanded{{mnemonic: mnemonic, operands: ops}}, nil
}

// expandLoadImmediate lowers li. Values fitting a signed 12-bit immediate
// become a single addi; larger values split into lui plus an optional addi
// using the standard rounding rule, so that high<<12 plus the sign-extended
// low half reconstructs the value. A non-numeric operand is treated as a
// label and materialized PC-relative via auipc/addi.
func expandLoadImmediate(rd, imm string) ([]expanded, *diag.Error) {
	if imm == "" {
		return nil, diag.Errorf(diag.KindInvalidLiteralOrLabel,
			"'li' requires an immediate value or label")
	}

	value, err := strconv.ParseInt(imm, 0, 64)
	if err != nil {
		if !identRegex.MatchString(imm) {
			return nil, diag.Errorf(diag.KindInvalidLiteralOrLabel,
				"invalid immediate or label: '%s'", imm)
		}
		return []expanded{
			{mnemonic: "auipc", operands: []string{rd, fmt.Sprintf("%%hi(%s)", imm)}},
			{mnemonic: "addi", operands: []string{rd, rd, fmt.Sprintf("%%lo(%s)", imm)}, pcrel: true},
		}, nil
	}

	if value < math.MinInt32 || value > math.MaxUint32 {
		return nil, diag.Errorf(diag.KindImmediateOutOfRange,
			"immediate %d does not fit in 32 bits", value)
	}
	// Unsigned spellings above 0x7FFFFFFF load the same bit pattern as
	// their negative two's-complement value.
	value = int64(int32(uint32(value)))
	if value >= -2048 && value <= 2047 {
		return one("addi", rd, "x0", strconv.FormatInt(value, 10)), nil
	}

	high := (value + 0x800) >> 12
	low := value & 0xFFF
	if low >= 0x800 {
		low -= 0x1000 // sign-extended so the addi immediate stays in range
	}
	seq := one("lui", rd, strconv.FormatInt(high, 10))
	if low != 0 {
		seq = append(seq, expanded{mnemonic: "addi", operands: []string{rd, rd, strconv.FormatInt(low, 10)}})
	}
	return seq, nil
}
