// Package encoder turns parsed TLCS-900/H instructions into machine
// code. Encoders are stateless: everything they need arrives through
// the Context (output sink, program counter, pass state) and the
// operand vector.
package encoder

import (
	"strings"

	"github.com/tlcs900/tlcs900asm/parser"
)

// Context is the encoder's view of the assembler: the output sink plus
// the pass state that drives length selection. Emitting advances PC
// whether or not bytes are written (sizing passes only count).
type Context interface {
	EmitByte(b byte)
	EmitWord(w uint16)
	Emit24(v uint32)
	EmitLong(v uint32)
	PC() uint32
	Pass() int
	SizingPass() bool
	MaxMode() bool
	Errorf(format string, args ...any)
	Warnf(format string, args ...any)
}

type encodeFunc func(ctx Context, ops []parser.Operand) bool

// instructionTable maps mnemonics to encoders. Lookup is a linear scan
// with case-insensitive comparison; the table is cold.
var instructionTable = []struct {
	name   string
	encode encodeFunc
}{
	{"NOP", encodeNOP},
	{"EI", encodeEI},
	{"DI", encodeDI},
	{"HALT", encodeHALT},
	{"SCF", encodeSCF},
	{"RCF", encodeRCF},
	{"CCF", encodeCCF},
	{"ZCF", encodeZCF},
	{"PUSH", encodePUSH},
	{"PUSHW", sized(parser.SizeWord, encodePUSH)},
	{"POP", encodePOP},
	{"LINK", encodeLINK},
	{"UNLK", encodeUNLK},
	{"RET", encodeRET},
	{"RETI", encodeRETI},
	{"RETD", encodeRETD},
	{"SWI", encodeSWI},
	{"JP", encodeJP},
	{"JR", encodeJR},
	{"JRL", encodeJRL},
	{"CALL", encodeCALL},
	{"CALR", encodeCALR},
	{"DJNZ", encodeDJNZ},
	{"LD", encodeLD},
	{"LDW", sized(parser.SizeWord, encodeLD)},
	{"LDA", encodeLDA},
	{"LDC", encodeLDC},
	{"LDI", blockOp(memLDI, parser.SizeByte)},
	{"LDIR", blockOp(memLDIR, parser.SizeByte)},
	{"LDIW", blockOp(memLDI, parser.SizeWord)},
	{"LDIRW", blockOp(memLDIR, parser.SizeWord)},
	{"LDD", blockOp(memLDD, parser.SizeByte)},
	{"LDDR", blockOp(memLDDR, parser.SizeByte)},
	{"LDDW", blockOp(memLDD, parser.SizeWord)},
	{"LDDRW", blockOp(memLDDR, parser.SizeWord)},
	{"EX", encodeEX},
	{"ADD", arithOp(opADD)},
	{"ADDW", sized(parser.SizeWord, arithOp(opADD))},
	{"ADC", arithOp(opADC)},
	{"SUB", arithOp(opSUB)},
	{"SUBW", sized(parser.SizeWord, arithOp(opSUB))},
	{"SBC", arithOp(opSBC)},
	{"CP", arithOp(opCP)},
	{"CPW", sized(parser.SizeWord, arithOp(opCP))},
	{"AND", arithOp(opAND)},
	{"ANDW", sized(parser.SizeWord, arithOp(opAND))},
	{"OR", arithOp(opOR)},
	{"ORW", sized(parser.SizeWord, arithOp(opOR))},
	{"XOR", arithOp(opXOR)},
	{"XORW", sized(parser.SizeWord, arithOp(opXOR))},
	{"INC", stepOp(rowbINC, rowwINC)},
	{"INCW", sized(parser.SizeWord, stepOp(rowbINC, rowwINC))},
	{"DEC", stepOp(rowbDEC, rowwDEC)},
	{"DECW", sized(parser.SizeWord, stepOp(rowbDEC, rowwDEC))},
	{"NEG", encodeNEG},
	{"CPL", encodeCPL},
	{"DAA", encodeDAA},
	{"MUL", mulOp(mulFamMUL)},
	{"MULS", mulOp(mulFamMULS)},
	{"DIV", mulOp(mulFamDIV)},
	{"DIVS", mulOp(mulFamDIVS)},
	{"EXTZ", extOp(rowwEXTZ)},
	{"EXTS", extOp(rowwEXTS)},
	{"BS1F", bitSearchOp(rowwBS1F)},
	{"BS1B", bitSearchOp(rowwBS1B)},
	{"SCC", encodeSCC},
	{"RLC", shiftOp(shRLC)},
	{"RRC", shiftOp(shRRC)},
	{"RL", shiftOp(shRL)},
	{"RR", shiftOp(shRR)},
	{"SLA", shiftOp(shSLA)},
	{"SRA", shiftOp(shSRA)},
	{"SLL", shiftOp(shSLL)},
	{"SRL", shiftOp(shSRL)},
	{"BIT", bitOp(bopBIT)},
	{"SET", bitOp(bopSET)},
	{"RES", bitOp(bopRES)},
	{"TSET", bitOp(bopTSET)},
	{"CHG", bitOp(bopCHG)},
	{"STCF", bitOp(bopSTCF)},
	{"LDCF", bitOp(bopLDCF)},
	{"XORCF", bitOp(bopXORCF)},
}

// Lookup reports whether a mnemonic has an encoder
func Lookup(mnemonic string) bool {
	for i := range instructionTable {
		if strings.EqualFold(mnemonic, instructionTable[i].name) {
			return true
		}
	}
	return false
}

// Encode dispatches one instruction. Returns false if the mnemonic is
// unknown (the caller may still try macro expansion) or the operand
// combination was rejected; rejections are reported through the
// context. Operand checks made before emission leave PC unchanged; a
// memory operand whose register the addressing-mode byte cannot encode
// is rejected after its prefix byte was emitted, so PC has moved by one.
func Encode(ctx Context, mnemonic string, ops []parser.Operand) bool {
	for i := range instructionTable {
		if strings.EqualFold(mnemonic, instructionTable[i].name) {
			return instructionTable[i].encode(ctx, ops)
		}
	}
	return false
}

// sized wraps an encoder, forcing the data size of register-free
// operands (memory destinations, immediates) to the given size. This
// implements the W-suffixed mnemonics.
func sized(size parser.Size, fn encodeFunc) encodeFunc {
	return func(ctx Context, ops []parser.Operand) bool {
		forced := make([]parser.Operand, len(ops))
		copy(forced, ops)
		for i := range forced {
			if forced[i].Size == parser.SizeNone {
				forced[i].Size = size
			}
		}
		return fn(ctx, forced)
	}
}

// ccAndTarget splits an optional leading condition operand, defaulting
// to CondT (always).
func ccAndTarget(ops []parser.Operand) (parser.ConditionCode, []parser.Operand) {
	if len(ops) >= 2 && ops[0].Mode == parser.ModeCondition {
		return ops[0].CC, ops[1:]
	}
	return parser.CondT, ops
}

func isMem(mode parser.AddressingMode) bool {
	switch mode {
	case parser.ModeRegIndirect, parser.ModeRegIndirectInc, parser.ModeRegIndirectDec,
		parser.ModeIndexed, parser.ModeIndexedReg, parser.ModeDirect:
		return true
	}
	return false
}
