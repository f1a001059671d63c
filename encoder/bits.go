package encoder

import "github.com/tlcs900/tlcs900asm/parser"

var bitMemBase = [8]byte{
	bopBIT: bitMemBIT, bopSET: bitMemSET, bopRES: bitMemRES, bopCHG: bitMemCHG,
	bopTSET: bitMemTSET, bopSTCF: bitMemSTCF, bopLDCF: bitMemLDCF, bopXORCF: bitMemXORCF,
}

// bitOp builds the bit-manipulation encoders: `OP bit, r` or
// `OP bit, (mem)`. Register forms carry the bit number in a trailing
// byte; memory forms fold it into the op byte.
func bitOp(index int) encodeFunc {
	return func(ctx Context, ops []parser.Operand) bool {
		if len(ops) < 2 || ops[0].Mode != parser.ModeImmediate {
			ctx.Errorf("bit operation requires a bit number and an operand")
			return false
		}
		bit := ops[0].Value
		target := ops[1]

		if target.Mode == parser.ModeRegister {
			switch target.Size {
			case parser.SizeByte:
				if bit < 0 || bit > 7 {
					ctx.Errorf("bit number %d out of range for byte register", bit)
					return false
				}
				code := parser.Reg8Code(target.Reg)
				if code < 0 {
					break
				}
				ctx.EmitByte(opByteRow + byte(code>>1))
				ctx.EmitByte(rowbBit + byte(2*index) + byte(code&1))
				ctx.EmitByte(byte(bit))
				return true
			case parser.SizeWord:
				if bit < 0 || bit > 15 {
					ctx.Errorf("bit number %d out of range for word register", bit)
					return false
				}
				code := parser.Reg16Code(target.Reg)
				if code < 0 {
					break
				}
				ctx.EmitByte(opWordRow + byte(code))
				ctx.EmitByte(rowwBit + byte(index))
				ctx.EmitByte(byte(bit))
				return true
			}
			ctx.Errorf("invalid register %s for bit operation", parser.RegisterName(target.Reg))
			return false
		}

		if isMem(target.Mode) {
			if bit < 0 || bit > 7 {
				ctx.Errorf("bit number %d out of range for memory operand", bit)
				return false
			}
			ctx.EmitByte(opBitPrefix)
			if !emitModeByte(ctx, &target) {
				return false
			}
			ctx.EmitByte(bitMemBase[index] + byte(bit))
			return true
		}

		ctx.Errorf("unsupported bit operation operand")
		return false
	}
}

// shiftOp builds the shift/rotate encoders. Forms: `OP r` (count 1),
// `OP n, r` (count 1-16) and `OP A, r` (count taken from A, encoded as
// count byte 0).
func shiftOp(index int) encodeFunc {
	return func(ctx Context, ops []parser.Operand) bool {
		if len(ops) < 1 {
			ctx.Errorf("shift requires an operand")
			return false
		}

		count := int64(1)
		target := ops[0]
		if len(ops) >= 2 {
			switch {
			case ops[0].Mode == parser.ModeImmediate:
				count = ops[0].Value
				if count < 1 || count > 16 {
					ctx.Errorf("shift count %d out of range (1-16)", count)
					return false
				}
			case ops[0].Mode == parser.ModeRegister && ops[0].Reg == parser.RegA:
				count = 0 // dynamic count from A
			default:
				ctx.Errorf("shift count must be an immediate or A")
				return false
			}
			target = ops[1]
		}

		if target.Mode != parser.ModeRegister {
			ctx.Errorf("shift target must be a register")
			return false
		}

		switch target.Size {
		case parser.SizeByte:
			if code := parser.Reg8Code(target.Reg); code >= 0 {
				ctx.EmitByte(opByteRow + byte(code>>1))
				ctx.EmitByte(rowbSh + byte(2*index) + byte(code&1))
				ctx.EmitByte(byte(count))
				return true
			}
		case parser.SizeWord:
			if code := parser.Reg16Code(target.Reg); code >= 0 {
				ctx.EmitByte(opWordRow + byte(code))
				ctx.EmitByte(rowwSh + byte(index))
				ctx.EmitByte(byte(count))
				return true
			}
		case parser.SizeLong:
			if code := parser.Reg32Code(target.Reg); code >= 0 {
				ctx.EmitByte(opLongRow + byte(code))
				ctx.EmitByte(rowwSh + byte(index))
				ctx.EmitByte(byte(count))
				return true
			}
		}
		ctx.Errorf("invalid shift register %s", parser.RegisterName(target.Reg))
		return false
	}
}
