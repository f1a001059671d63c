package encoder

import "github.com/tlcs900/tlcs900asm/parser"

func encodeNOP(ctx Context, ops []parser.Operand) bool {
	ctx.EmitByte(opNOP)
	return true
}

// encodeEI enables interrupts at the given level; without an operand
// all levels are enabled.
func encodeEI(ctx Context, ops []parser.Operand) bool {
	level := int64(0)
	if len(ops) >= 1 && ops[0].Mode == parser.ModeImmediate {
		level = ops[0].Value & 7
	}
	ctx.EmitByte(opEI)
	ctx.EmitByte(byte(level))
	return true
}

// DI is EI at the masking level
func encodeDI(ctx Context, ops []parser.Operand) bool {
	ctx.EmitByte(opEI)
	ctx.EmitByte(7)
	return true
}

func encodeHALT(ctx Context, ops []parser.Operand) bool {
	ctx.EmitByte(opHALT)
	return true
}

func encodeSCF(ctx Context, ops []parser.Operand) bool {
	ctx.EmitByte(opSCF)
	return true
}

func encodeRCF(ctx Context, ops []parser.Operand) bool {
	ctx.EmitByte(opRCF)
	return true
}

func encodeCCF(ctx Context, ops []parser.Operand) bool {
	ctx.EmitByte(opCCF)
	return true
}

func encodeZCF(ctx Context, ops []parser.Operand) bool {
	ctx.EmitByte(opZCF)
	return true
}

func encodePUSH(ctx Context, ops []parser.Operand) bool {
	if len(ops) < 1 || ops[0].Mode != parser.ModeRegister {
		ctx.Errorf("PUSH requires a register operand")
		return false
	}
	reg := ops[0].Reg

	switch reg {
	case parser.RegF:
		ctx.EmitByte(opPushF)
		return true
	case parser.RegSR:
		ctx.EmitByte(opPushSR)
		return true
	}

	switch ops[0].Size {
	case parser.SizeWord:
		if code := parser.Reg16Code(reg); code >= 0 {
			ctx.EmitByte(opPushRR + byte(code))
			return true
		}
	case parser.SizeLong:
		if code := parser.Reg32Code(reg); code >= 0 {
			ctx.EmitByte(opPushXRR + byte(code))
			return true
		}
	case parser.SizeByte:
		if code := parser.Reg8Code(reg); code >= 0 {
			ctx.EmitByte(opByteRow + byte(code>>1))
			ctx.EmitByte(rowbPUSH + byte(code&1))
			return true
		}
	}

	ctx.Errorf("invalid PUSH operand %s", parser.RegisterName(reg))
	return false
}

func encodePOP(ctx Context, ops []parser.Operand) bool {
	if len(ops) < 1 || ops[0].Mode != parser.ModeRegister {
		ctx.Errorf("POP requires a register operand")
		return false
	}
	reg := ops[0].Reg

	switch reg {
	case parser.RegF:
		ctx.EmitByte(opPopF)
		return true
	case parser.RegSR:
		ctx.EmitByte(opPopSR)
		return true
	}

	switch ops[0].Size {
	case parser.SizeWord:
		if code := parser.Reg16Code(reg); code >= 0 {
			ctx.EmitByte(opPopRR + byte(code))
			return true
		}
	case parser.SizeLong:
		if code := parser.Reg32Code(reg); code >= 0 {
			ctx.EmitByte(opPopXRR + byte(code))
			return true
		}
	case parser.SizeByte:
		if code := parser.Reg8Code(reg); code >= 0 {
			ctx.EmitByte(opByteRow + byte(code>>1))
			ctx.EmitByte(rowbPOP + byte(code&1))
			return true
		}
	}

	ctx.Errorf("invalid POP operand %s", parser.RegisterName(reg))
	return false
}

// encodeLINK allocates a stack frame: LINK xrr, d16
func encodeLINK(ctx Context, ops []parser.Operand) bool {
	if len(ops) < 2 || ops[0].Mode != parser.ModeRegister || ops[1].Mode != parser.ModeImmediate {
		ctx.Errorf("LINK requires a register and a displacement")
		return false
	}
	code := parser.Reg32Code(ops[0].Reg)
	if code < 0 {
		ctx.Errorf("LINK register must be a 32-bit register")
		return false
	}
	ctx.EmitByte(opLongRow + byte(code))
	ctx.EmitByte(rowwLINK)
	ctx.EmitWord(uint16(ops[1].Value))
	return true
}

func encodeUNLK(ctx Context, ops []parser.Operand) bool {
	if len(ops) < 1 || ops[0].Mode != parser.ModeRegister {
		ctx.Errorf("UNLK requires a register")
		return false
	}
	code := parser.Reg32Code(ops[0].Reg)
	if code < 0 {
		ctx.Errorf("UNLK register must be a 32-bit register")
		return false
	}
	ctx.EmitByte(opLongRow + byte(code))
	ctx.EmitByte(rowwUNLK)
	return true
}

func encodeEX(ctx Context, ops []parser.Operand) bool {
	if len(ops) < 2 {
		ctx.Errorf("EX requires two operands")
		return false
	}

	// EX F, F' swaps the flag banks
	if ops[0].Reg == parser.RegF && ops[1].Reg == parser.RegFPrime {
		ctx.EmitByte(opEXFF)
		return true
	}

	if ops[0].Mode != parser.ModeRegister || ops[1].Mode != parser.ModeRegister {
		ctx.Errorf("unsupported EX operand combination")
		return false
	}

	if ops[0].Size == parser.SizeByte && ops[1].Size == parser.SizeByte {
		d := parser.Reg8Code(ops[0].Reg)
		s := parser.Reg8Code(ops[1].Reg)
		if d >= 0 && s >= 0 {
			ctx.EmitByte(opByteRow + byte(s>>1))
			ctx.EmitByte(rowbEX + packByte(s, d))
			return true
		}
	}

	if ops[0].Size == parser.SizeWord && ops[1].Size == parser.SizeWord {
		d := parser.Reg16Code(ops[0].Reg)
		s := parser.Reg16Code(ops[1].Reg)
		if d >= 0 && s >= 0 {
			ctx.EmitByte(opWordRow + byte(s))
			ctx.EmitByte(rowwEXrr + byte(d))
			return true
		}
	}

	ctx.Errorf("unsupported EX operand combination")
	return false
}

// packByte folds a byte source's element bit and a full destination
// code into the low nibble-and-a-bit layout the pair rows use.
func packByte(src, dst int) byte {
	return byte((src&1)<<3 | (dst>>1)<<1 | dst&1)
}
