package encoder

import "github.com/tlcs900/tlcs900asm/parser"

// arithID selects one of the two-operand arithmetic/logical operations;
// the tables below carry its op bases for each encoding shape.
type arithID int

const (
	opADD arithID = iota
	opADC
	opSUB
	opSBC
	opAND
	opOR
	opXOR
	opCP
)

var arithName = map[arithID]string{
	opADD: "ADD", opADC: "ADC", opSUB: "SUB", opSBC: "SBC",
	opAND: "AND", opOR: "OR", opXOR: "XOR", opCP: "CP",
}

// immediate-form base, shared by the byte (base+low), word and long rows
var arithImmBase = map[arithID]byte{
	opADD: rowbADDi, opADC: rowbADCi, opSUB: rowbSUBi, opSBC: rowbSBCi,
	opAND: rowbANDi, opOR: rowbORi, opXOR: rowbXORi, opCP: rowbCPi,
}

// three-byte byte-register pair form (base+low, then destination code);
// ADD alone keeps the packed two-byte form.
var arithByteRRBase = map[arithID]byte{
	opADC: rowbADCrr, opSUB: rowbSUBrr, opSBC: rowbSBCrr,
	opAND: rowbANDrr, opOR: rowbORrr, opXOR: rowbXORrr, opCP: rowbCPrr,
}

// word/long register-register form (base + destination code)
var arithWordRRBase = map[arithID]byte{
	opADD: rowwADDr, opADC: rowwADCr, opSUB: rowwSUBr, opSBC: rowwSBCr,
	opAND: rowwANDr, opOR: rowwORrr, opXOR: rowwXORr, opCP: rowwCPr,
}

// memory-source form (base + destination register code)
var arithMemBase = map[arithID]byte{
	opADD: memADD, opADC: memADC, opSUB: memSUB, opSBC: memSBC,
	opAND: memAND, opOR: memOR, opXOR: memXOR, opCP: memCP,
}

func arithOp(id arithID) encodeFunc {
	return func(ctx Context, ops []parser.Operand) bool {
		if len(ops) < 2 {
			ctx.Errorf("%s requires two operands", arithName[id])
			return false
		}
		dst := ops[0]
		src := ops[1]

		if dst.Mode != parser.ModeRegister {
			ctx.Errorf("unsupported %s operand combination", arithName[id])
			return false
		}

		switch {
		case src.Mode == parser.ModeImmediate:
			return arithRegImm(ctx, id, &dst, &src)
		case src.Mode == parser.ModeRegister:
			return arithRegReg(ctx, id, &dst, &src)
		case isMem(src.Mode):
			return arithRegMem(ctx, id, &dst, &src)
		}
		ctx.Errorf("unsupported %s operand combination", arithName[id])
		return false
	}
}

func arithRegImm(ctx Context, id arithID, dst, src *parser.Operand) bool {
	base := arithImmBase[id]
	switch dst.Size {
	case parser.SizeByte:
		if code := parser.Reg8Code(dst.Reg); code >= 0 {
			ctx.EmitByte(opByteRow + byte(code>>1))
			ctx.EmitByte(base + byte(code&1))
			ctx.EmitByte(byte(src.Value))
			return true
		}
	case parser.SizeWord:
		if code := parser.Reg16Code(dst.Reg); code >= 0 {
			ctx.EmitByte(opWordRow + byte(code))
			ctx.EmitByte(base)
			ctx.EmitWord(uint16(src.Value))
			return true
		}
	case parser.SizeLong:
		if code := parser.Reg32Code(dst.Reg); code >= 0 {
			ctx.EmitByte(opLongRow + byte(code))
			ctx.EmitByte(base)
			ctx.EmitLong(uint32(src.Value))
			return true
		}
	}
	ctx.Errorf("invalid %s register %s", arithName[id], parser.RegisterName(dst.Reg))
	return false
}

func arithRegReg(ctx Context, id arithID, dst, src *parser.Operand) bool {
	if dst.Size != src.Size {
		ctx.Errorf("%s register size mismatch: %s vs %s", arithName[id], dst.Size, src.Size)
		return false
	}
	switch dst.Size {
	case parser.SizeByte:
		d := parser.Reg8Code(dst.Reg)
		s := parser.Reg8Code(src.Reg)
		if d < 0 || s < 0 {
			break
		}
		ctx.EmitByte(opByteRow + byte(s>>1))
		if id == opADD {
			ctx.EmitByte(rowbADDrr + packByte(s, d))
			return true
		}
		ctx.EmitByte(arithByteRRBase[id] + byte(s&1))
		ctx.EmitByte(byte(d))
		return true
	case parser.SizeWord:
		d := parser.Reg16Code(dst.Reg)
		s := parser.Reg16Code(src.Reg)
		if d < 0 || s < 0 {
			break
		}
		ctx.EmitByte(opWordRow + byte(s))
		ctx.EmitByte(arithWordRRBase[id] + byte(d))
		return true
	case parser.SizeLong:
		d := parser.Reg32Code(dst.Reg)
		s := parser.Reg32Code(src.Reg)
		if d < 0 || s < 0 {
			break
		}
		ctx.EmitByte(opLongRow + byte(s))
		ctx.EmitByte(arithWordRRBase[id] + byte(d))
		return true
	}
	ctx.Errorf("unsupported %s register pair %s, %s", arithName[id],
		parser.RegisterName(dst.Reg), parser.RegisterName(src.Reg))
	return false
}

func arithRegMem(ctx Context, id arithID, dst, src *parser.Operand) bool {
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
		ctx.Errorf("invalid %s register %s", arithName[id], parser.RegisterName(dst.Reg))
		return false
	}
	if !emitSrcMem(ctx, src, dst.Size) {
		return false
	}
	ctx.EmitByte(arithMemBase[id] + byte(code))
	return true
}

// stepOp builds INC and DEC: `INC r`, `INC n, r` or `INC r, n`, the
// count defaulting to 1.
func stepOp(byteBase, wordBase byte) encodeFunc {
	return func(ctx Context, ops []parser.Operand) bool {
		if len(ops) < 1 {
			ctx.Errorf("INC/DEC requires an operand")
			return false
		}
		reg := ops[0]
		count := int64(1)
		if reg.Mode == parser.ModeImmediate && len(ops) >= 2 && ops[1].Mode == parser.ModeRegister {
			count = reg.Value
			reg = ops[1]
		} else if len(ops) >= 2 && ops[1].Mode == parser.ModeImmediate {
			count = ops[1].Value
		}
		if reg.Mode != parser.ModeRegister {
			ctx.Errorf("INC/DEC requires a register operand")
			return false
		}

		switch reg.Size {
		case parser.SizeByte:
			if code := parser.Reg8Code(reg.Reg); code >= 0 {
				ctx.EmitByte(opByteRow + byte(code>>1))
				ctx.EmitByte(byteBase + byte(code&1))
				ctx.EmitByte(byte(count))
				return true
			}
		case parser.SizeWord:
			if code := parser.Reg16Code(reg.Reg); code >= 0 {
				ctx.EmitByte(opWordRow + byte(code))
				ctx.EmitByte(wordBase)
				ctx.EmitByte(byte(count))
				return true
			}
		case parser.SizeLong:
			if code := parser.Reg32Code(reg.Reg); code >= 0 {
				ctx.EmitByte(opLongRow + byte(code))
				ctx.EmitByte(wordBase)
				ctx.EmitByte(byte(count))
				return true
			}
		}
		ctx.Errorf("invalid INC/DEC register %s", parser.RegisterName(reg.Reg))
		return false
	}
}

func encodeNEG(ctx Context, ops []parser.Operand) bool {
	return unaryReg(ctx, "NEG", ops, rowbNEG, rowwNEG)
}

func encodeCPL(ctx Context, ops []parser.Operand) bool {
	return unaryReg(ctx, "CPL", ops, rowbCPL, rowwCPL)
}

func unaryReg(ctx Context, name string, ops []parser.Operand, byteBase, wordOp byte) bool {
	if len(ops) < 1 || ops[0].Mode != parser.ModeRegister {
		ctx.Errorf("%s requires a register operand", name)
		return false
	}
	switch ops[0].Size {
	case parser.SizeByte:
		if code := parser.Reg8Code(ops[0].Reg); code >= 0 {
			ctx.EmitByte(opByteRow + byte(code>>1))
			ctx.EmitByte(byteBase + byte(code&1))
			return true
		}
	case parser.SizeWord:
		if code := parser.Reg16Code(ops[0].Reg); code >= 0 {
			ctx.EmitByte(opWordRow + byte(code))
			ctx.EmitByte(wordOp)
			return true
		}
	case parser.SizeLong:
		if code := parser.Reg32Code(ops[0].Reg); code >= 0 {
			ctx.EmitByte(opLongRow + byte(code))
			ctx.EmitByte(wordOp)
			return true
		}
	}
	ctx.Errorf("invalid %s register %s", name, parser.RegisterName(ops[0].Reg))
	return false
}

// encodeDAA adjusts a byte register after BCD arithmetic
func encodeDAA(ctx Context, ops []parser.Operand) bool {
	if len(ops) < 1 || ops[0].Mode != parser.ModeRegister || ops[0].Size != parser.SizeByte {
		ctx.Errorf("DAA requires a byte register")
		return false
	}
	code := parser.Reg8Code(ops[0].Reg)
	if code < 0 {
		ctx.Errorf("invalid DAA register %s", parser.RegisterName(ops[0].Reg))
		return false
	}
	ctx.EmitByte(opByteRow + byte(code>>1))
	ctx.EmitByte(rowbDAA + byte(code&1))
	return true
}

// mulOp builds MUL/MULS/DIV/DIVS: a word destination with a byte
// register or byte immediate source.
func mulOp(family int) encodeFunc {
	return func(ctx Context, ops []parser.Operand) bool {
		if len(ops) < 2 || ops[0].Mode != parser.ModeRegister {
			ctx.Errorf("MUL/DIV requires a register destination and a source")
			return false
		}
		dcode := parser.Reg16Code(ops[0].Reg)
		if dcode < 0 {
			ctx.Errorf("MUL/DIV destination must be a word register")
			return false
		}

		switch {
		case ops[1].Mode == parser.ModeRegister && ops[1].Size == parser.SizeByte:
			scode := parser.Reg8Code(ops[1].Reg)
			if scode < 0 {
				break
			}
			ctx.EmitByte(opByteRow + byte(scode>>1))
			ctx.EmitByte(rowbMUL + byte(scode&1))
			ctx.EmitByte(byte(family<<4) | byte(dcode))
			return true
		case ops[1].Mode == parser.ModeImmediate:
			ctx.EmitByte(opWordRow + byte(dcode))
			ctx.EmitByte(rowwMULi + byte(family))
			ctx.EmitByte(byte(ops[1].Value))
			return true
		}
		ctx.Errorf("unsupported MUL/DIV source operand")
		return false
	}
}

// extOp builds EXTZ and EXTS: zero or sign extension in place
func extOp(op byte) encodeFunc {
	return func(ctx Context, ops []parser.Operand) bool {
		if len(ops) < 1 || ops[0].Mode != parser.ModeRegister {
			ctx.Errorf("EXTZ/EXTS requires a register")
			return false
		}
		switch ops[0].Size {
		case parser.SizeWord:
			if code := parser.Reg16Code(ops[0].Reg); code >= 0 {
				ctx.EmitByte(opWordRow + byte(code))
				ctx.EmitByte(op)
				return true
			}
		case parser.SizeLong:
			if code := parser.Reg32Code(ops[0].Reg); code >= 0 {
				ctx.EmitByte(opLongRow + byte(code))
				ctx.EmitByte(op)
				return true
			}
		}
		ctx.Errorf("EXTZ/EXTS requires a word or long register")
		return false
	}
}

// bitSearchOp builds BS1F/BS1B: find first set bit, `BS1F A, rr`
func bitSearchOp(op byte) encodeFunc {
	return func(ctx Context, ops []parser.Operand) bool {
		if len(ops) < 2 || ops[0].Reg != parser.RegA || ops[1].Mode != parser.ModeRegister {
			ctx.Errorf("BS1F/BS1B requires A and a word register")
			return false
		}
		code := parser.Reg16Code(ops[1].Reg)
		if code < 0 {
			ctx.Errorf("BS1F/BS1B source must be a word register")
			return false
		}
		ctx.EmitByte(opWordRow + byte(code))
		ctx.EmitByte(op)
		return true
	}
}
