package asm

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rvkit/rv32asm/diag"
	"github.com/rvkit/rv32asm/isa"
)

var (
	hiRegex  = regexp.MustCompile(`^%hi\((\w+)\)$`)
	loRegex  = regexp.MustCompile(`^%lo\((\w+)\)$`)
	memRegex = regexp.MustCompile(`^(.+)\((.+)\)$`)
)

// register resolves a register operand to its 0-31 index.
func (a *Assembler) register(op string) (uint32, *diag.Error) {
	if idx, ok := isa.RegisterIndex(op); ok {
		return idx, nil
	}
	return 0, diag.Errorf(diag.KindInvalidRegister, "invalid register: '%s'", op)
}

// immediate resolves an immediate-or-symbol operand at the given pc.
// Symbols and %hi/%lo wrappers resolve to the symbol address minus pc when
// relative is set (branches, jumps, auipc and the expander's auipc pairs,
// which pass the pair's base address as pc) and to the absolute address
// otherwise (lui, arithmetic, loads, stores). %hi applies the +0x800
// rounding bias and %lo sign-extends the low half, so an instruction pair
// reconstructs the exact value. Literals parse in any Go base prefix.
func (a *Assembler) immediate(op string, pc uint32, relative bool) (int32, *diag.Error) {
	sym := op
	wrapper := byte(0)
	if m := hiRegex.FindStringSubmatch(op); m != nil {
		sym, wrapper = m[1], 'h'
	} else if m := loRegex.FindStringSubmatch(op); m != nil {
		sym, wrapper = m[1], 'l'
	}

	if addr, ok := a.symbols[sym]; ok {
		offset := int64(addr)
		if relative {
			offset -= int64(pc)
		}
		switch wrapper {
		case 'h':
			return int32((offset + 0x800) >> 12), nil
		case 'l':
			low := offset & 0xFFF
			if low >= 0x800 {
				low -= 0x1000
			}
			return int32(low), nil
		}
		return int32(offset), nil
	}

	value, err := strconv.ParseInt(op, 0, 64)
	if err != nil || value < math.MinInt32 || value > math.MaxUint32 {
		return 0, diag.Errorf(diag.KindUndefinedSymbol, "undefined symbol: '%s'", sym)
	}
	if relative {
		return int32(value - int64(pc)), nil
	}
	return int32(uint32(value)), nil
}

// memory splits an `offset(base)` operand on its outermost parentheses and
// resolves both halves. relative carries through to the offset half for the
// jalr of a call pair.
func (a *Assembler) memory(op string, pc uint32, relative bool) (imm int32, base uint32, err *diag.Error) {
	m := memRegex.FindStringSubmatch(op)
	if m == nil {
		return 0, 0, diag.Errorf(diag.KindInvalidMemoryOperandSyntax,
			"invalid memory operand: '%s'", op)
	}
	imm, err = a.immediate(strings.TrimSpace(m[1]), pc, relative)
	if err != nil {
		return 0, 0, err
	}
	base, err = a.register(strings.TrimSpace(m[2]))
	if err != nil {
		return 0, 0, err
	}
	return imm, base, nil
}
