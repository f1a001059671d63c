package asm

// The output sink is a sparse byte buffer addressed from the first ORG.
// Emission always advances the program counter; bytes are only written
// during the emitting pass, so sizing iterations just count.

const initialOutputSize = 65536

// setBase fixes the output base address. Only the first ORG before any
// emission takes effect; later ORGs address into the same image.
func (a *Assembler) setBase(base uint32) {
	if len(a.output) == 0 {
		a.outputBase = base
	}
}

// EmitByte writes one byte at the current PC and advances it
func (a *Assembler) EmitByte(b byte) {
	if a.pass != 2 {
		a.pc++
		return
	}

	offset := int(a.pc - a.outputBase)
	if offset < 0 {
		a.Errorf("emission at $%06X below output base $%06X", a.pc, a.outputBase)
		a.pc++
		return
	}

	// Zero-fill any gap up to the write position
	if offset >= len(a.output) {
		if cap(a.output) <= offset {
			newCap := cap(a.output)
			if newCap < initialOutputSize {
				newCap = initialOutputSize
			}
			for newCap <= offset {
				newCap *= 2
			}
			grown := make([]byte, len(a.output), newCap)
			copy(grown, a.output)
			a.output = grown
		}
		a.output = a.output[:offset+1]
	}

	a.output[offset] = b
	a.pc++
}

// EmitWord writes a 16-bit value, low byte first
func (a *Assembler) EmitWord(w uint16) {
	a.EmitByte(byte(w))
	a.EmitByte(byte(w >> 8))
}

// Emit24 writes a 24-bit address, low byte first
func (a *Assembler) Emit24(v uint32) {
	a.EmitByte(byte(v))
	a.EmitByte(byte(v >> 8))
	a.EmitByte(byte(v >> 16))
}

// EmitLong writes a 32-bit value, low byte first
func (a *Assembler) EmitLong(v uint32) {
	a.EmitByte(byte(v))
	a.EmitByte(byte(v >> 8))
	a.EmitByte(byte(v >> 16))
	a.EmitByte(byte(v >> 24))
}

func (a *Assembler) emitFill(count int64, value byte) {
	for i := int64(0); i < count; i++ {
		a.EmitByte(value)
	}
}

func (a *Assembler) emitString(s string) {
	for i := 0; i < len(s); i++ {
		a.EmitByte(s[i])
	}
}

// Output returns the assembled image; the first byte is the byte at
// OutputBase.
func (a *Assembler) Output() []byte {
	return a.output
}

// OutputBase returns the image's base address
func (a *Assembler) OutputBase() uint32 {
	return a.outputBase
}
