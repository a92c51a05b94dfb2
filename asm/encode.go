package asm

import (
	"github.com/rvkit/rv32asm/diag"
	"github.com/rvkit/rv32asm/isa"
)

// encode assembles one expanded base instruction at pc into its 32-bit
// word. Operand arity and register validity are checked here; immediates
// arrive as text and are resolved against the symbol table.
func (a *Assembler) encode(ins expanded, pc uint32) (uint32, *diag.Error) {
	desc, ok := isa.Lookup(ins.mnemonic)
	if !ok {
		return 0, diag.Errorf(diag.KindUnknownMnemonic, "unknown mnemonic: '%s'", ins.mnemonic)
	}
	if err := checkArity(ins.mnemonic, desc, ins.operands); err != nil {
		return 0, err
	}

	switch desc.Format {
	case isa.FormatR:
		return a.encodeR(desc, ins.operands)
	case isa.FormatI:
		return a.encodeI(ins, desc, pc)
	case isa.FormatS:
		return a.encodeS(desc, ins.operands, pc)
	case isa.FormatB:
		return a.encodeB(desc, ins.operands, pc)
	case isa.FormatU:
		return a.encodeU(ins.mnemonic, desc, ins.operands, pc)
	case isa.FormatJ:
		return a.encodeJ(desc, ins.operands, pc)
	}
	return 0, diag.Errorf(diag.KindUnknownMnemonic, "no encoder for format %s", desc.Format)
}

// checkArity validates the syntactic operand count per mnemonic. Loads and
// stores take one composite memory operand, so their counts are lower than
// the field count of their formats. jalr accepts both its three-operand
// base form and the two-operand memory form produced by the call
// expansion.
func checkArity(mnemonic string, desc isa.Descriptor, ops []string) *diag.Error {
	var want int
	switch {
	case mnemonic == "ecall" || mnemonic == "ebreak":
		want = 0
	case mnemonic == "jalr":
		if len(ops) == 2 || len(ops) == 3 {
			return nil
		}
		want = 3
	case isa.IsLoad(mnemonic):
		want = 2
	case desc.Format == isa.FormatS || desc.Format == isa.FormatU || desc.Format == isa.FormatJ:
		want = 2
	default: // R, B and the remaining I-type arithmetic
		want = 3
	}
	if len(ops) != want {
		return diag.Errorf(diag.KindOperandCountMismatch,
			"'%s' expects %d operand(s), got %d", mnemonic, want, len(ops))
	}
	return nil
}

func (a *Assembler) encodeR(desc isa.Descriptor, ops []string) (uint32, *diag.Error) {
	rd, err := a.register(ops[0])
	if err != nil {
		return 0, err
	}
	rs1, err := a.register(ops[1])
	if err != nil {
		return 0, err
	}
	rs2, err := a.register(ops[2])
	if err != nil {
		return 0, err
	}
	return desc.Funct7<<25 | rs2<<20 | rs1<<15 | desc.Funct3<<12 | rd<<7 | desc.Opcode, nil
}

func (a *Assembler) encodeI(ins expanded, desc isa.Descriptor, pc uint32) (uint32, *diag.Error) {
	mnemonic, ops := ins.mnemonic, ins.operands

	// ecall encodes immediate 0, ebreak immediate 1, with rs1 = rd = 0.
	if desc.Opcode == isa.OpcodeSystem {
		var imm uint32
		if mnemonic == "ebreak" {
			imm = 1
		}
		return imm<<20 | desc.Funct3<<12 | desc.Opcode, nil
	}

	rd, err := a.register(ops[0])
	if err != nil {
		return 0, err
	}

	// Loads and the two-operand jalr form take rd, imm(rs1).
	if isa.IsLoad(mnemonic) || (mnemonic == "jalr" && len(ops) == 2) {
		imm, rs1, err := a.memory(ops[1], pc, ins.pcrel)
		if err != nil {
			return 0, err
		}
		if imm < -2048 || imm > 2047 {
			return 0, diag.Errorf(diag.KindImmediateOutOfRange,
				"immediate %d out of range for '%s' (-2048 to 2047)", imm, mnemonic)
		}
		return uint32(imm)&0xFFF<<20 | rs1<<15 | desc.Funct3<<12 | rd<<7 | desc.Opcode, nil
	}

	rs1, err := a.register(ops[1])
	if err != nil {
		return 0, err
	}

	if mnemonic == "slli" || mnemonic == "srli" || mnemonic == "srai" {
		shamt, err := a.immediate(ops[2], pc, false)
		if err != nil {
			return 0, err
		}
		if shamt < 0 || shamt > 31 {
			return 0, diag.Errorf(diag.KindShiftAmountOutOfRange,
				"shift amount %d out of range for '%s' (0 to 31)", shamt, mnemonic)
		}
		return desc.Funct7<<25 | uint32(shamt)<<20 | rs1<<15 | desc.Funct3<<12 | rd<<7 | desc.Opcode, nil
	}

	imm, err := a.immediate(ops[2], pc, ins.pcrel)
	if err != nil {
		return 0, err
	}
	if imm < -2048 || imm > 2047 {
		return 0, diag.Errorf(diag.KindImmediateOutOfRange,
			"immediate %d out of range for '%s' (-2048 to 2047)", imm, mnemonic)
	}
	return uint32(imm)&0xFFF<<20 | rs1<<15 | desc.Funct3<<12 | rd<<7 | desc.Opcode, nil
}

func (a *Assembler) encodeS(desc isa.Descriptor, ops []string, pc uint32) (uint32, *diag.Error) {
	rs2, err := a.register(ops[0])
	if err != nil {
		return 0, err
	}
	imm, rs1, err := a.memory(ops[1], pc, false)
	if err != nil {
		return 0, err
	}
	if imm < -2048 || imm > 2047 {
		return 0, diag.Errorf(diag.KindImmediateOutOfRange,
			"store offset %d out of range (-2048 to 2047)", imm)
	}
	u := uint32(imm)
	return (u>>5)&0x7F<<25 | rs2<<20 | rs1<<15 | desc.Funct3<<12 | u&0x1F<<7 | desc.Opcode, nil
}

func (a *Assembler) encodeB(desc isa.Descriptor, ops []string, pc uint32) (uint32, *diag.Error) {
	rs1, err := a.register(ops[0])
	if err != nil {
		return 0, err
	}
	rs2, err := a.register(ops[1])
	if err != nil {
		return 0, err
	}
	imm, err := a.immediate(ops[2], pc, true)
	if err != nil {
		return 0, err
	}
	if imm < -4096 || imm > 4094 || imm%2 != 0 {
		return 0, diag.Errorf(diag.KindMisalignedOrOutOfRangeBranchOrJump,
			"branch offset %d misaligned or out of range (-4096 to 4094, even)", imm)
	}
	u := uint32(imm)
	return (u>>12)&0x1<<31 | (u>>5)&0x3F<<25 | rs2<<20 | rs1<<15 |
		desc.Funct3<<12 | (u>>1)&0xF<<8 | (u>>11)&0x1<<7 | desc.Opcode, nil
}

func (a *Assembler) encodeU(mnemonic string, desc isa.Descriptor, ops []string, pc uint32) (uint32, *diag.Error) {
	rd, err := a.register(ops[0])
	if err != nil {
		return 0, err
	}
	// auipc is the PC-relative half of address materialization; lui takes
	// the value as-is.
	imm, err := a.immediate(ops[1], pc, mnemonic == "auipc")
	if err != nil {
		return 0, err
	}
	if imm < -524288 || imm > 1048575 {
		return 0, diag.Errorf(diag.KindImmediateOutOfRange,
			"immediate %d out of range for '%s' (20 bits)", imm, mnemonic)
	}
	return uint32(imm)&0xFFFFF<<12 | rd<<7 | desc.Opcode, nil
}

func (a *Assembler) encodeJ(desc isa.Descriptor, ops []string, pc uint32) (uint32, *diag.Error) {
	rd, err := a.register(ops[0])
	if err != nil {
		return 0, err
	}
	imm, err := a.immediate(ops[1], pc, true)
	if err != nil {
		return 0, err
	}
	if imm < -1048576 || imm > 1048574 || imm%2 != 0 {
		return 0, diag.Errorf(diag.KindMisalignedOrOutOfRangeBranchOrJump,
			"jump offset %d misaligned or out of range (-1048576 to 1048574, even)", imm)
	}
	u := uint32(imm)
	return (u>>20)&0x1<<31 | (u>>1)&0x3FF<<21 | (u>>11)&0x1<<20 |
		(u>>12)&0xFF<<12 | rd<<7 | desc.Opcode, nil
}
