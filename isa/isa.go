// Package isa holds the static RV32I tables: register names, instruction
// formats and the per-mnemonic opcode/funct constants used by the encoder.
package isa

import (
	"fmt"
	"strings"
)

// Format identifies one of the six RV32I instruction encodings.
type Format int

const (
	FormatR Format = iota // register-register
	FormatI               // immediate, loads, jalr, system
	FormatS               // stores
	FormatB               // conditional branches
	FormatU               // lui, auipc
	FormatJ               // jal
)

func (f Format) String() string {
	switch f {
	case FormatR:
		return "R"
	case FormatI:
		return "I"
	case FormatS:
		return "S"
	case FormatB:
		return "B"
	case FormatU:
		return "U"
	case FormatJ:
		return "J"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// RV32I opcode constants.
const (
	OpcodeOp     uint32 = 0b0110011
	OpcodeOpImm  uint32 = 0b0010011
	OpcodeLoad   uint32 = 0b0000011
	OpcodeStore  uint32 = 0b0100011
	OpcodeBranch uint32 = 0b1100011
	OpcodeJAL    uint32 = 0b1101111
	OpcodeJALR   uint32 = 0b1100111
	OpcodeLUI    uint32 = 0b0110111
	OpcodeAUIPC  uint32 = 0b0010111
	OpcodeSystem uint32 = 0b1110011
)

// Descriptor ties a base mnemonic to its format and encoding constants.
type Descriptor struct {
	Format Format
	Opcode uint32
	Funct3 uint32
	Funct7 uint32
}

var descriptors = map[string]Descriptor{
	// R-type
	"add":  {FormatR, OpcodeOp, 0b000, 0b0000000},
	"sub":  {FormatR, OpcodeOp, 0b000, 0b0100000},
	"sll":  {FormatR, OpcodeOp, 0b001, 0b0000000},
	"slt":  {FormatR, OpcodeOp, 0b010, 0b0000000},
	"sltu": {FormatR, OpcodeOp, 0b011, 0b0000000},
	"xor":  {FormatR, OpcodeOp, 0b100, 0b0000000},
	"srl":  {FormatR, OpcodeOp, 0b101, 0b0000000},
	"sra":  {FormatR, OpcodeOp, 0b101, 0b0100000},
	"or":   {FormatR, OpcodeOp, 0b110, 0b0000000},
	"and":  {FormatR, OpcodeOp, 0b111, 0b0000000},

	// I-type arithmetic and shifts
	"addi":  {FormatI, OpcodeOpImm, 0b000, 0},
	"slli":  {FormatI, OpcodeOpImm, 0b001, 0b0000000},
	"slti":  {FormatI, OpcodeOpImm, 0b010, 0},
	"sltiu": {FormatI, OpcodeOpImm, 0b011, 0},
	"xori":  {FormatI, OpcodeOpImm, 0b100, 0},
	"srli":  {FormatI, OpcodeOpImm, 0b101, 0b0000000},
	"srai":  {FormatI, OpcodeOpImm, 0b101, 0b0100000},
	"ori":   {FormatI, OpcodeOpImm, 0b110, 0},
	"andi":  {FormatI, OpcodeOpImm, 0b111, 0},

	// I-type loads
	"lb":  {FormatI, OpcodeLoad, 0b000, 0},
	"lh":  {FormatI, OpcodeLoad, 0b001, 0},
	"lw":  {FormatI, OpcodeLoad, 0b010, 0},
	"lbu": {FormatI, OpcodeLoad, 0b100, 0},
	"lhu": {FormatI, OpcodeLoad, 0b101, 0},

	// I-type jumps and system
	"jalr":   {FormatI, OpcodeJALR, 0b000, 0},
	"ecall":  {FormatI, OpcodeSystem, 0b000, 0},
	"ebreak": {FormatI, OpcodeSystem, 0b000, 0},

	// S-type
	"sb": {FormatS, OpcodeStore, 0b000, 0},
	"sh": {FormatS, OpcodeStore, 0b001, 0},
	"sw": {FormatS, OpcodeStore, 0b010, 0},

	// B-type
	"beq":  {FormatB, OpcodeBranch, 0b000, 0},
	"bne":  {FormatB, OpcodeBranch, 0b001, 0},
	"blt":  {FormatB, OpcodeBranch, 0b100, 0},
	"bge":  {FormatB, OpcodeBranch, 0b101, 0},
	"bltu": {FormatB, OpcodeBranch, 0b110, 0},
	"bgeu": {FormatB, OpcodeBranch, 0b111, 0},

	// U-type
	"lui":   {FormatU, OpcodeLUI, 0, 0},
	"auipc": {FormatU, OpcodeAUIPC, 0, 0},

	// J-type
	"jal": {FormatJ, OpcodeJAL, 0, 0},
}

// Lookup returns the encoding descriptor for a base mnemonic.
func Lookup(mnemonic string) (Descriptor, bool) {
	desc, ok := descriptors[mnemonic]
	return desc, ok
}

// IsLoad reports whether the mnemonic is one of the five load instructions,
// which take a composite memory operand instead of a bare immediate.
func IsLoad(mnemonic string) bool {
	desc, ok := descriptors[mnemonic]
	return ok && desc.Opcode == OpcodeLoad
}

var registers = make(map[string]uint32, 64)

func init() {
	abiNames := []string{
		"zero", "ra", "sp", "gp", "tp",
		"t0", "t1", "t2",
		"s0", "s1",
		"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7",
		"s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11",
		"t3", "t4", "t5", "t6",
	}
	for i, name := range abiNames {
		registers[name] = uint32(i)
		registers[fmt.Sprintf("x%d", i)] = uint32(i)
	}
	registers["fp"] = 8 // frame pointer, alias of s0
}

// RegisterIndex resolves an x-name or ABI alias to its 0-31 index.
// The lookup is case-insensitive.
func RegisterIndex(name string) (uint32, bool) {
	idx, ok := registers[strings.ToLower(name)]
	return idx, ok
}

var pseudoMnemonics = map[string]bool{
	"nop": true, "mv": true, "not": true, "neg": true,
	"j": true, "ret": true, "call": true, "li": true,
	"seqz": true, "snez": true, "sltz": true, "sgtz": true,
	"jr": true,
	"beqz": true, "bnez": true, "bltz": true, "bgez": true,
	"blez": true, "bgtz": true,
}

// IsPseudo reports whether the mnemonic always expands to base
// instructions. jal and jalr are dual-use and are not listed here; their
// one-operand forms are handled by the expander directly.
func IsPseudo(mnemonic string) bool {
	return pseudoMnemonics[mnemonic]
}
