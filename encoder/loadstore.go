package encoder

import "github.com/tlcs900/tlcs900asm/parser"

func encodeLD(ctx Context, ops []parser.Operand) bool {
	if len(ops) < 2 {
		ctx.Errorf("LD requires two operands")
		return false
	}
	dst := ops[0]
	src := ops[1]

	switch {
	case dst.Mode == parser.ModeRegister && src.Mode == parser.ModeImmediate:
		return encodeLDRegImm(ctx, &dst, &src)
	case dst.Mode == parser.ModeRegister && src.Mode == parser.ModeRegister:
		return encodeLDRegReg(ctx, &dst, &src)
	case dst.Mode == parser.ModeRegister && isMem(src.Mode):
		return encodeLDRegMem(ctx, &dst, &src)
	case isMem(dst.Mode) && src.Mode == parser.ModeRegister:
		return encodeLDMemReg(ctx, &dst, &src)
	case isMem(dst.Mode) && src.Mode == parser.ModeImmediate:
		return encodeLDMemImm(ctx, &dst, &src)
	}

	ctx.Errorf("unsupported LD operand combination")
	return false
}

func encodeLDRegImm(ctx Context, dst, src *parser.Operand) bool {
	switch dst.Size {
	case parser.SizeByte:
		if code := parser.Reg8Code(dst.Reg); code >= 0 {
			ctx.EmitByte(opLDr8Imm + byte(code))
			ctx.EmitByte(byte(src.Value))
			return true
		}
	case parser.SizeWord:
		code := parser.Reg16Code(dst.Reg)
		if code < 0 {
			break
		}
		// Small known constants take the two-byte register-row form;
		// anything unresolved keeps the full immediate so the size
		// cannot grow once chosen.
		if src.Known && src.Constant && src.Value >= 0 && src.Value <= 7 {
			ctx.EmitByte(opWordRow + byte(code))
			ctx.EmitByte(rowwLDn3 + byte(src.Value))
			return true
		}
		ctx.EmitByte(opLDrrImm + byte(code))
		ctx.EmitWord(uint16(src.Value))
		return true
	case parser.SizeLong:
		if code := parser.Reg32Code(dst.Reg); code >= 0 {
			ctx.EmitByte(opLDxrrImm + byte(code))
			ctx.EmitLong(uint32(src.Value))
			return true
		}
	}
	ctx.Errorf("invalid LD destination register %s", parser.RegisterName(dst.Reg))
	return false
}

func encodeLDRegReg(ctx Context, dst, src *parser.Operand) bool {
	if dst.Size != src.Size {
		ctx.Errorf("LD register size mismatch: %s vs %s", dst.Size, src.Size)
		return false
	}
	switch dst.Size {
	case parser.SizeByte:
		d := parser.Reg8Code(dst.Reg)
		s := parser.Reg8Code(src.Reg)
		if d >= 0 && s >= 0 {
			ctx.EmitByte(opByteRow + byte(s>>1))
			ctx.EmitByte(rowbLD + packByte(s, d))
			return true
		}
	case parser.SizeWord:
		d := parser.Reg16Code(dst.Reg)
		s := parser.Reg16Code(src.Reg)
		if d >= 0 && s >= 0 {
			ctx.EmitByte(opWordRow + byte(s))
			ctx.EmitByte(rowwLDrr + byte(d))
			return true
		}
	case parser.SizeLong:
		d := parser.Reg32Code(dst.Reg)
		s := parser.Reg32Code(src.Reg)
		if d >= 0 && s >= 0 {
			ctx.EmitByte(opLongRow + byte(s))
			ctx.EmitByte(rowwLDrr + byte(d))
			return true
		}
	}
	ctx.Errorf("unsupported LD register pair %s, %s",
		parser.RegisterName(dst.Reg), parser.RegisterName(src.Reg))
	return false
}

func encodeLDRegMem(ctx Context, dst, src *parser.Operand) bool {
	code := -1
	switch dst.Size {
	case parser.SizeByte:
		code = parser.Reg8Code(dst.Reg)
	case parser.SizeWord:
		code = parser.Reg16Code(dst.Reg)
	case parser.SizeLong:
		code = parser.Reg32Code(dst.Reg)
	}
	if code < 0 {
		ctx.Errorf("invalid LD destination register %s", parser.RegisterName(dst.Reg))
		return false
	}
	if !emitSrcMem(ctx, src, dst.Size) {
		return false
	}
	ctx.EmitByte(memLD + byte(code))
	return true
}

func encodeLDMemReg(ctx Context, dst, src *parser.Operand) bool {
	var base byte
	code := -1
	switch src.Size {
	case parser.SizeByte:
		base = dstLDr8
		code = parser.Reg8Code(src.Reg)
	case parser.SizeWord:
		base = dstLDr16
		code = parser.Reg16Code(src.Reg)
	case parser.SizeLong:
		base = dstLDr32
		code = parser.Reg32Code(src.Reg)
	}
	if code < 0 {
		ctx.Errorf("invalid LD source register %s", parser.RegisterName(src.Reg))
		return false
	}
	if !emitDstMem(ctx, dst) {
		return false
	}
	ctx.EmitByte(base + byte(code))
	return true
}

func encodeLDMemImm(ctx Context, dst, src *parser.Operand) bool {
	word := dst.Size == parser.SizeWord

	// Constant 8-bit direct addresses have dedicated short opcodes
	if dst.Mode == parser.ModeDirect && directWidth(dst) == 8 {
		if word {
			ctx.EmitByte(opLDWmn8)
			ctx.EmitByte(byte(dst.Value))
			ctx.EmitWord(uint16(src.Value))
		} else {
			ctx.EmitByte(opLDmn8)
			ctx.EmitByte(byte(dst.Value))
			ctx.EmitByte(byte(src.Value))
		}
		return true
	}

	if !emitDstMem(ctx, dst) {
		return false
	}
	if word {
		ctx.EmitByte(dstLDImm16)
		ctx.EmitWord(uint16(src.Value))
	} else {
		ctx.EmitByte(dstLDImm8)
		ctx.EmitByte(byte(src.Value))
	}
	return true
}

// encodeLDA loads the effective address of a memory operand
func encodeLDA(ctx Context, ops []parser.Operand) bool {
	if len(ops) < 2 || ops[0].Mode != parser.ModeRegister || !isMem(ops[1].Mode) {
		ctx.Errorf("LDA requires a register and a memory operand")
		return false
	}
	var base byte
	code := -1
	switch ops[0].Size {
	case parser.SizeWord:
		base = dstLDA16
		code = parser.Reg16Code(ops[0].Reg)
	case parser.SizeLong:
		base = dstLDA32
		code = parser.Reg32Code(ops[0].Reg)
	}
	if code < 0 {
		ctx.Errorf("LDA destination must be a word or long register")
		return false
	}
	mem := ops[1]
	if !emitDstMem(ctx, &mem) {
		return false
	}
	ctx.EmitByte(base + byte(code))
	return true
}

// encodeLDC moves between a register and a control register named by
// number. The op base follows the register's natural width.
func encodeLDC(ctx Context, ops []parser.Operand) bool {
	if len(ops) < 2 {
		ctx.Errorf("LDC requires two operands")
		return false
	}

	var reg parser.Operand
	var cr parser.Operand
	var toControl bool
	switch {
	case ops[0].Mode == parser.ModeImmediate && ops[1].Mode == parser.ModeRegister:
		cr, reg = ops[0], ops[1]
		toControl = true
	case ops[0].Mode == parser.ModeRegister && ops[1].Mode == parser.ModeImmediate:
		reg, cr = ops[0], ops[1]
		toControl = false
	default:
		ctx.Errorf("LDC requires a register and a control-register number")
		return false
	}

	var opTo, opFrom byte
	var prefix byte
	low := byte(0)
	switch reg.Size {
	case parser.SizeByte:
		code := parser.Reg8Code(reg.Reg)
		if code < 0 {
			ctx.Errorf("invalid LDC register %s", parser.RegisterName(reg.Reg))
			return false
		}
		prefix = opByteRow + byte(code>>1)
		low = byte(code & 1)
		opTo, opFrom = rowbLDCto, rowbLDCfrom
	case parser.SizeWord:
		code := parser.Reg16Code(reg.Reg)
		if code < 0 {
			ctx.Errorf("invalid LDC register %s", parser.RegisterName(reg.Reg))
			return false
		}
		prefix = opWordRow + byte(code)
		opTo, opFrom = rowwLDCt, rowwLDCf
	case parser.SizeLong:
		code := parser.Reg32Code(reg.Reg)
		if code < 0 {
			ctx.Errorf("invalid LDC register %s", parser.RegisterName(reg.Reg))
			return false
		}
		prefix = opLongRow + byte(code)
		opTo, opFrom = rowwLDCt, rowwLDCf
	default:
		ctx.Errorf("invalid LDC register %s", parser.RegisterName(reg.Reg))
		return false
	}

	ctx.EmitByte(prefix)
	if toControl {
		ctx.EmitByte(opTo + low)
	} else {
		ctx.EmitByte(opFrom + low)
	}
	ctx.EmitByte(byte(cr.Value))
	return true
}

// blockOp builds the implicit block-transfer encoders (LDI, LDIR, LDD,
// LDDR and their word forms). They ride the (XHL)-indirect source
// prefix of their data size.
func blockOp(op byte, size parser.Size) encodeFunc {
	return func(ctx Context, ops []parser.Operand) bool {
		fam := srcFamilies[size]
		ctx.EmitByte(fam.ind + byte(parser.Reg32Code(parser.RegXHL)))
		ctx.EmitByte(op)
		return true
	}
}
