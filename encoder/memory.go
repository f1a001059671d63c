package encoder

import "github.com/tlcs900/tlcs900asm/parser"

// directWidth picks the direct-address encoding width in bits. An
// explicit :N suffix wins. Otherwise an unknown value takes the
// maximal 24-bit form so the sizing pass stays conservative; a known
// value shortens to 8 bits only when it is a true constant, because a
// label-derived value near the low end could still move during
// relaxation and re-expand the form.
func directWidth(op *parser.Operand) int {
	if op.AddrSize != 0 {
		return op.AddrSize
	}
	if !op.Known {
		return 24
	}
	v := uint32(op.Value) & 0xFFFFFF
	switch {
	case op.Constant && v <= 0xFF:
		return 8
	case v <= 0xFFFF:
		return 16
	default:
		return 24
	}
}

// disp8OK reports whether an indexed displacement may use the 8-bit
// form. Same discipline as directWidth: only explicit hints or known
// constants shrink.
func disp8OK(op *parser.Operand) bool {
	switch op.AddrSize {
	case 8:
		return true
	case 16, 24:
		return false
	}
	return op.Known && op.Constant && op.Value >= -128 && op.Value <= 127
}

// srcBases holds the prefix bytes for one data-size family of
// source-memory operations.
type srcBases struct {
	ind, idx, dir, esc byte
}

var srcFamilies = map[parser.Size]srcBases{
	parser.SizeByte: {opSrcByteInd, opSrcByteIdx, opSrcByteDir, opSrcByteDir + escOffset},
	parser.SizeWord: {opSrcWordInd, opSrcWordIdx, opSrcWordDir, opSrcWordDir + escOffset},
	parser.SizeLong: {opSrcLongInd, opSrcLongIdx, opSrcLongDir, opSrcLongDir + escOffset},
}

// emitSrcMem emits the addressing prefix (and any address bytes) for a
// memory operand read at the given data size. The compact single-byte
// forms cover simple indirect and 8-bit indexed addressing on the eight
// primary 32-bit registers; everything else goes through the generic
// escape with a full mode byte.
func emitSrcMem(ctx Context, op *parser.Operand, size parser.Size) bool {
	fam, ok := srcFamilies[size]
	if !ok {
		ctx.Errorf("missing data size for memory operand")
		return false
	}

	switch op.Mode {
	case parser.ModeRegIndirect:
		if code := parser.Reg32Code(op.Reg); code >= 0 {
			ctx.EmitByte(fam.ind + byte(code))
			return true
		}
		ctx.EmitByte(fam.esc)
		return emitModeByte(ctx, op)

	case parser.ModeIndexed:
		code := parser.Reg32Code(op.Reg)
		if code >= 0 && disp8OK(op) {
			ctx.EmitByte(fam.idx + byte(code))
			ctx.EmitByte(byte(op.Value))
			return true
		}
		ctx.EmitByte(fam.esc)
		return emitModeByte(ctx, op)

	case parser.ModeDirect:
		switch directWidth(op) {
		case 8:
			ctx.EmitByte(fam.dir)
			ctx.EmitByte(byte(op.Value))
		case 16:
			ctx.EmitByte(fam.dir + 1)
			ctx.EmitWord(uint16(op.Value))
		default:
			ctx.EmitByte(fam.dir + 2)
			ctx.Emit24(uint32(op.Value))
		}
		return true

	case parser.ModeRegIndirectInc, parser.ModeRegIndirectDec, parser.ModeIndexedReg:
		ctx.EmitByte(fam.esc)
		return emitModeByte(ctx, op)
	}

	ctx.Errorf("unsupported addressing mode for memory operand")
	return false
}

// emitDstMem emits the destination prefix for stores, immediate stores
// and LDA. Data size is carried by the following op byte, so there is a
// single prefix family.
func emitDstMem(ctx Context, op *parser.Operand) bool {
	if op.Mode == parser.ModeDirect {
		switch directWidth(op) {
		case 8:
			ctx.EmitByte(opDstDir8)
			ctx.EmitByte(byte(op.Value))
		case 16:
			ctx.EmitByte(opDstDir16)
			ctx.EmitWord(uint16(op.Value))
		default:
			ctx.EmitByte(opDstDir24)
			ctx.Emit24(uint32(op.Value))
		}
		return true
	}
	ctx.EmitByte(opDstEsc)
	return emitModeByte(ctx, op)
}

// emitModeByte writes the generic addressing-mode byte used after the
// escapes, the bit prefix and the control-flow memory escape.
func emitModeByte(ctx Context, op *parser.Operand) bool {
	switch op.Mode {
	case parser.ModeRegIndirect:
		if code := parser.Reg32Code(op.Reg); code >= 0 {
			ctx.EmitByte(modeInd32 + byte(code))
			return true
		}
		if code := parser.Reg16Code(op.Reg); code >= 0 {
			ctx.EmitByte(modeInd16 + byte(code))
			return true
		}
		ctx.Errorf("invalid register %s for indirect addressing", parser.RegisterName(op.Reg))
		return false

	case parser.ModeRegIndirectInc:
		if code := parser.Reg32Code(op.Reg); code >= 0 {
			ctx.EmitByte(modePostIn + byte(code))
			return true
		}
		ctx.Errorf("invalid register %s for post-increment", parser.RegisterName(op.Reg))
		return false

	case parser.ModeRegIndirectDec:
		if code := parser.Reg32Code(op.Reg); code >= 0 {
			ctx.EmitByte(modePreDec + byte(code))
			return true
		}
		ctx.Errorf("invalid register %s for pre-decrement", parser.RegisterName(op.Reg))
		return false

	case parser.ModeIndexed:
		code := parser.Reg32Code(op.Reg)
		if code < 0 {
			ctx.Errorf("invalid register %s for indexed addressing", parser.RegisterName(op.Reg))
			return false
		}
		if disp8OK(op) {
			ctx.EmitByte(modeIdx8 + byte(code))
			ctx.EmitByte(byte(op.Value))
		} else {
			ctx.EmitByte(modeIdx16 + byte(code))
			ctx.EmitWord(uint16(op.Value))
		}
		return true

	case parser.ModeIndexedReg:
		code := parser.Reg32Code(op.Reg)
		idx := parser.Reg8Code(op.IndexReg)
		if code < 0 || idx < 0 {
			ctx.Errorf("invalid registers for register-indexed addressing")
			return false
		}
		ctx.EmitByte(modeIdxReg + byte(code))
		ctx.EmitByte(byte(idx))
		return true

	case parser.ModeDirect:
		switch directWidth(op) {
		case 8:
			ctx.EmitByte(modeDir8)
			ctx.EmitByte(byte(op.Value))
		case 16:
			ctx.EmitByte(modeDir16)
			ctx.EmitWord(uint16(op.Value))
		default:
			ctx.EmitByte(modeDir24)
			ctx.Emit24(uint32(op.Value))
		}
		return true
	}

	ctx.Errorf("unsupported addressing mode")
	return false
}
