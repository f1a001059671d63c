package encoder

import "github.com/tlcs900/tlcs900asm/parser"

// jumpTarget16 reports whether a jump target may take the 16-bit
// address form; unknown or label-derived values keep the 24-bit form so
// the chosen length never grows between iterations.
func jumpTarget16(op *parser.Operand) bool {
	if op.AddrSize == 16 {
		return true
	}
	if op.AddrSize != 0 {
		return false
	}
	return op.Known && op.Constant && uint32(op.Value)&0xFFFFFF <= 0xFFFF
}

func encodeJP(ctx Context, ops []parser.Operand) bool {
	if len(ops) < 1 {
		ctx.Errorf("JP requires an operand")
		return false
	}
	cc, rest := ccAndTarget(ops)
	target := rest[0]

	if isMem(target.Mode) && target.Mode != parser.ModeDirect {
		// JP (mem) - indirect jump through memory
		if cc != parser.CondT {
			ctx.Errorf("conditional JP not supported with indirect addressing")
			return false
		}
		ctx.EmitByte(opCtlMem)
		if !emitModeByte(ctx, &target) {
			return false
		}
		ctx.EmitByte(ctlJP)
		return true
	}

	if target.Mode != parser.ModeImmediate && target.Mode != parser.ModeDirect {
		ctx.Errorf("invalid JP operand")
		return false
	}

	short := jumpTarget16(&target)
	if cc == parser.CondT {
		if short {
			ctx.EmitByte(opJP16)
			ctx.EmitWord(uint16(target.Value))
		} else {
			ctx.EmitByte(opJP24)
			ctx.Emit24(uint32(target.Value))
		}
		return true
	}

	ctx.EmitByte(opCond)
	if short {
		ctx.EmitByte(byte(condFamJP16<<4) | byte(cc))
		ctx.EmitWord(uint16(target.Value))
	} else {
		ctx.EmitByte(byte(condFamJP24<<4) | byte(cc))
		ctx.Emit24(uint32(target.Value))
	}
	return true
}

func encodeJR(ctx Context, ops []parser.Operand) bool {
	if len(ops) < 1 {
		ctx.Errorf("JR requires an operand")
		return false
	}
	cc, rest := ccAndTarget(ops)
	target := rest[0]
	if target.Mode != parser.ModeImmediate {
		ctx.Errorf("JR requires an immediate target")
		return false
	}

	offset := target.Value - int64(ctx.PC()+2)
	if ctx.Pass() == 2 && target.Known && (offset < -128 || offset > 127) {
		ctx.Errorf("JR offset %d out of range (use JRL for longer jumps)", offset)
		return false
	}
	ctx.EmitByte(opJR + byte(cc))
	ctx.EmitByte(byte(offset))
	return true
}

func encodeJRL(ctx Context, ops []parser.Operand) bool {
	if len(ops) < 1 {
		ctx.Errorf("JRL requires an operand")
		return false
	}
	cc, rest := ccAndTarget(ops)
	target := rest[0]
	if target.Mode != parser.ModeImmediate {
		ctx.Errorf("JRL requires an immediate target")
		return false
	}

	offset := target.Value - int64(ctx.PC()+3)
	ctx.EmitByte(opJRL + byte(cc))
	ctx.EmitWord(uint16(offset))
	return true
}

func encodeCALL(ctx Context, ops []parser.Operand) bool {
	if len(ops) < 1 {
		ctx.Errorf("CALL requires an operand")
		return false
	}
	cc, rest := ccAndTarget(ops)
	target := rest[0]

	if isMem(target.Mode) && target.Mode != parser.ModeDirect {
		if cc != parser.CondT {
			ctx.Errorf("conditional CALL not supported with indirect addressing")
			return false
		}
		ctx.EmitByte(opCtlMem)
		if !emitModeByte(ctx, &target) {
			return false
		}
		ctx.EmitByte(ctlCALL)
		return true
	}

	if target.Mode != parser.ModeImmediate && target.Mode != parser.ModeDirect {
		ctx.Errorf("invalid CALL operand")
		return false
	}

	short := jumpTarget16(&target)
	if cc == parser.CondT {
		if short {
			ctx.EmitByte(opCALL16)
			ctx.EmitWord(uint16(target.Value))
		} else {
			ctx.EmitByte(opCALL24)
			ctx.Emit24(uint32(target.Value))
		}
		return true
	}

	ctx.EmitByte(opCond)
	if short {
		ctx.EmitByte(byte(condFamCALL16<<4) | byte(cc))
		ctx.EmitWord(uint16(target.Value))
	} else {
		ctx.EmitByte(byte(condFamCALL24<<4) | byte(cc))
		ctx.Emit24(uint32(target.Value))
	}
	return true
}

func encodeCALR(ctx Context, ops []parser.Operand) bool {
	if len(ops) < 1 || ops[0].Mode != parser.ModeImmediate {
		ctx.Errorf("CALR requires an immediate target")
		return false
	}
	offset := ops[0].Value - int64(ctx.PC()+3)
	ctx.EmitByte(opCALR)
	ctx.EmitWord(uint16(offset))
	return true
}

func encodeDJNZ(ctx Context, ops []parser.Operand) bool {
	if len(ops) < 2 {
		ctx.Errorf("DJNZ requires a register and a target")
		return false
	}
	if ops[0].Mode != parser.ModeRegister || ops[1].Mode != parser.ModeImmediate {
		ctx.Errorf("DJNZ requires a register and an immediate target")
		return false
	}

	offset := ops[1].Value - int64(ctx.PC()+3)
	if ctx.Pass() == 2 && ops[1].Known && (offset < -128 || offset > 127) {
		ctx.Errorf("DJNZ offset %d out of range", offset)
		return false
	}
	switch ops[0].Size {
	case parser.SizeByte:
		code := parser.Reg8Code(ops[0].Reg)
		if code < 0 {
			ctx.Errorf("invalid DJNZ register %s", parser.RegisterName(ops[0].Reg))
			return false
		}
		ctx.EmitByte(opByteRow + byte(code>>1))
		ctx.EmitByte(rowbDJNZ + byte(code&1))
	case parser.SizeWord:
		code := parser.Reg16Code(ops[0].Reg)
		if code < 0 {
			ctx.Errorf("invalid DJNZ register %s", parser.RegisterName(ops[0].Reg))
			return false
		}
		ctx.EmitByte(opWordRow + byte(code))
		ctx.EmitByte(rowwDJNZ)
	default:
		ctx.Errorf("DJNZ register must be byte or word sized")
		return false
	}

	ctx.EmitByte(byte(offset))
	return true
}

func encodeRET(ctx Context, ops []parser.Operand) bool {
	if len(ops) >= 1 && ops[0].Mode == parser.ModeCondition {
		if ops[0].CC == parser.CondT {
			ctx.EmitByte(opRET)
			return true
		}
		ctx.EmitByte(opCond)
		ctx.EmitByte(byte(condFamRET<<4) | byte(ops[0].CC))
		return true
	}
	ctx.EmitByte(opRET)
	return true
}

func encodeRETI(ctx Context, ops []parser.Operand) bool {
	ctx.EmitByte(opRETI)
	return true
}

func encodeRETD(ctx Context, ops []parser.Operand) bool {
	if len(ops) < 1 || ops[0].Mode != parser.ModeImmediate {
		ctx.Errorf("RETD requires a displacement")
		return false
	}
	ctx.EmitByte(opRETD)
	ctx.EmitWord(uint16(ops[0].Value))
	return true
}

func encodeSWI(ctx Context, ops []parser.Operand) bool {
	if len(ops) < 1 || ops[0].Mode != parser.ModeImmediate {
		ctx.Errorf("SWI requires an interrupt number")
		return false
	}
	ctx.EmitByte(opSWI + byte(ops[0].Value&7))
	return true
}

// encodeSCC sets a register to the value of a condition predicate
func encodeSCC(ctx Context, ops []parser.Operand) bool {
	if len(ops) < 2 || ops[0].Mode != parser.ModeCondition || ops[1].Mode != parser.ModeRegister {
		ctx.Errorf("SCC requires a condition and a register")
		return false
	}
	cc := ops[0].CC
	switch ops[1].Size {
	case parser.SizeByte:
		code := parser.Reg8Code(ops[1].Reg)
		if code < 0 {
			break
		}
		ctx.EmitByte(opByteRow + byte(code>>1))
		ctx.EmitByte(rowbSCC + byte(code&1))
		ctx.EmitByte(byte(cc))
		return true
	case parser.SizeWord:
		code := parser.Reg16Code(ops[1].Reg)
		if code < 0 {
			break
		}
		ctx.EmitByte(opWordRow + byte(code))
		ctx.EmitByte(rowwSCC + byte(cc))
		return true
	}
	ctx.Errorf("invalid SCC register %s", parser.RegisterName(ops[1].Reg))
	return false
}
