package encoder

// First-byte opcode map.
//
// The TLCS-900/H layers prefixes and operation bytes:
//
//	00-1F  singles and short control forms
//	20-57  register compact rows (immediate loads, PUSH/POP)
//	60-6F  JR cc, d8       70-7F  JRL cc, d16
//	80-AF  compact memory rows: prefix merges the addressing mode for
//	       the eight 32-bit registers (indirect / 8-bit indexed) per
//	       data size
//	B0     bit/memory-with-immediate prefix (+ mode byte + op byte)
//	B4     control-flow memory escape (JP/CALL through memory)
//	C0-C3  byte-data direct loads (8/16/24-bit address) and the
//	       generic source escape; D0-D3 word, E0-E3 long
//	C8-CB  byte register-pair rows    D8-DF word rows   E8-EF long rows
//	F0-F3  store/LDA direct prefixes (8/16/24-bit address) and the
//	       generic destination escape
//	F8-FF  SWI 0-7
const (
	opNOP    = 0x00
	opPushSR = 0x02
	opPopSR  = 0x03
	opCond   = 0x04 // conditional RET/JP/CALL extension
	opHALT   = 0x05
	opEI     = 0x06 // followed by interrupt level; DI is level 7
	opRETI   = 0x07
	opLDmn8  = 0x08 // LD (n8), imm8
	opLDWmn8 = 0x0A // LDW (n8), imm16
	opRCF    = 0x0C
	opSCF    = 0x0D
	opRET    = 0x0E
	opRETD   = 0x0F // + d16
	opCCF    = 0x10
	opZCF    = 0x11
	opJP16   = 0x12 // + addr16
	opJP24   = 0x13 // + addr24
	opCALL16 = 0x14 // + addr16
	opCALL24 = 0x15 // + addr24
	opEXFF   = 0x16 // EX F, F'
	opCALR   = 0x17 // + d16
	opPushF  = 0x18
	opPushA  = 0x19
	opPopF   = 0x1A
	opPopA   = 0x1B

	opLDr8Imm  = 0x20 // + r8 code, imm8
	opPushRR   = 0x28 // + rr code
	opLDrrImm  = 0x30 // + rr code, imm16
	opPushXRR  = 0x38 // + xrr code
	opLDxrrImm = 0x40 // + xrr code, imm32
	opPopRR    = 0x48 // + rr code
	opPopXRR   = 0x50 // + xrr code

	opJR  = 0x60 // + cc, d8
	opJRL = 0x70 // + cc, d16

	// Compact source-memory rows, one byte per (data size, mode):
	// +code merges the 32-bit register; the +8 row is 8-bit indexed.
	opSrcByteInd = 0x80
	opSrcByteIdx = 0x88
	opSrcWordInd = 0x90
	opSrcWordIdx = 0x98
	opSrcLongInd = 0xA0
	opSrcLongIdx = 0xA8

	opBitPrefix = 0xB0 // bit/mem-with-immediate, + mode byte + op byte
	opCtlMem    = 0xB4 // JP/CALL (mem), + mode byte + op byte

	// Direct-address source prefixes: base + 0/1/2 for 8/16/24-bit
	// addresses; +3 is the generic escape carrying a full mode byte.
	opSrcByteDir = 0xC0
	opSrcWordDir = 0xD0
	opSrcLongDir = 0xE0
	escOffset    = 3

	opByteRow = 0xC8 // + pair code (W/A, B/C, D/E, H/L)
	opWordRow = 0xD8 // + rr code
	opLongRow = 0xE8 // + xrr code

	// Destination prefixes: stores, immediate stores, LDA.
	opDstDir8  = 0xF0
	opDstDir16 = 0xF1
	opDstDir24 = 0xF2
	opDstEsc   = 0xF3

	opSWI = 0xF8 // + interrupt number 0-7
)

// Conditional control-flow families inside the opCond extension byte:
// second byte is family<<4 | cc.
const (
	condFamRET    = 0
	condFamJP16   = 1
	condFamJP24   = 2
	condFamCALL16 = 3
	condFamCALL24 = 4
)

// Mode bytes following the generic escapes (and the bit prefix).
const (
	modeInd32  = 0x00 // + xrr code
	modeInd16  = 0x08 // + rr code
	modePostIn = 0x40 // + xrr code
	modePreDec = 0x48 // + xrr code
	modeIdx8   = 0x50 // + xrr code, d8
	modeIdx16  = 0x58 // + xrr code, d16
	modeIdxReg = 0x60 // + xrr code, r8 code byte
	modeDir8   = 0xC0 // + addr8
	modeDir16  = 0xD0 // + addr16
	modeDir24  = 0xE0 // + addr24
)

// Op bytes after a source-memory prefix. Register codes are relative to
// the prefix's data-size family.
const (
	memLDI  = 0x10
	memLDIR = 0x11
	memLDD  = 0x12
	memLDDR = 0x13

	memLD = 0x20 // + reg code

	memADD = 0x80 // + reg code
	memADC = 0x90
	memSUB = 0xA0
	memSBC = 0xB0
	memAND = 0xC0
	memXOR = 0xD0
	memOR  = 0xE0
	memCP  = 0xF0
)

// Op bytes after a destination prefix.
const (
	dstLDImm8  = 0x00 // + imm8
	dstLDImm16 = 0x02 // + imm16
	dstLDA16   = 0x28 // + rr code
	dstLDA32   = 0x38 // + xrr code
	dstLDr8    = 0x40 // + r8 code
	dstLDr16   = 0x50 // + rr code
	dstLDr32   = 0x60 // + xrr code
)

// Op bytes after the control-flow memory escape.
const (
	ctlJP   = 0xD8
	ctlCALL = 0xE8
)

// Bit-operation bases after the bit prefix and mode byte; the bit
// number occupies the low three bits.
const (
	bitMemBIT   = 0x30
	bitMemSET   = 0x38
	bitMemRES   = 0x40
	bitMemCHG   = 0x48
	bitMemTSET  = 0x50
	bitMemSTCF  = 0x58
	bitMemLDCF  = 0x60
	bitMemXORCF = 0x68
)

// Byte register row (after opByteRow + pair): the op byte folds in the
// element-select low bit of the register code.
const (
	rowbEX   = 0x00 // + packed src/dst
	rowbDAA  = 0x10 // + low
	rowbPUSH = 0x14 // + low
	rowbPOP  = 0x16 // + low
	rowbCPL  = 0x18 // + low
	rowbNEG  = 0x1A // + low
	rowbDJNZ = 0x1C // + low, d8
	rowbLD   = 0x20 // + packed src/dst

	// Three-byte register-register forms: base + low, then the
	// destination code in a trailing byte.
	rowbADCrr = 0x32
	rowbSUBrr = 0x34
	rowbSBCrr = 0x36
	rowbANDrr = 0x38
	rowbORrr  = 0x3A
	rowbXORrr = 0x3C
	rowbCPrr  = 0x3E

	rowbINC = 0x60 // + low, count
	rowbSCC = 0x62 // + low, cc
	rowbMUL = 0x64 // + low, (family<<4)|rr code
	rowbDEC = 0x68 // + low, count

	rowbLDCto   = 0x76 // + low, cr  (LDC cr, r)
	rowbLDCfrom = 0x78 // + low, cr  (LDC r, cr)

	rowbADDrr = 0x80 // + packed src/dst
	rowbBit   = 0x90 // + 2*op index + low, bit number
	rowbSh    = 0xE0 // + 2*shift index + low, count (0 = by A)

	rowbADDi = 0xC8 // + low, imm8
	rowbSUBi = 0xCA
	rowbANDi = 0xCC
	rowbORi  = 0xCE
	rowbXORi = 0xD0
	rowbADCi = 0xD2
	rowbSBCi = 0xD4
	rowbCPi  = 0xF8
)

// MUL-family selectors in the rowbMUL extension byte.
const (
	mulFamMUL  = 0
	mulFamMULS = 1
	mulFamDIV  = 2
	mulFamDIVS = 3
)

// Word and long register rows (after opWordRow/opLongRow + code).
const (
	rowwCPL  = 0x06
	rowwNEG  = 0x07
	rowwMULi = 0x08 // + family, imm8
	rowwLINK = 0x0C // + d16 (long row)
	rowwUNLK = 0x0D // (long row)
	rowwBS1F = 0x0E
	rowwBS1B = 0x0F
	rowwEXTZ = 0x12
	rowwEXTS = 0x13
	rowwDJNZ = 0x1C // + d8 (word row)
	rowwLDrr = 0x28 // + dst code
	rowwLDi  = 0x30 // + imm16/imm32
	rowwORrr = 0x40 // + dst code
	rowwXORr = 0x48 // + dst code
	rowwLDCt = 0x56 // + cr
	rowwLDCf = 0x58 // + cr
	rowwINC  = 0x60 // + count
	rowwDEC  = 0x68 // + count
	rowwSCC  = 0x70 // + cc
	rowwADDr = 0x80 // + dst code
	rowwADCr = 0x88 // + dst code
	rowwBit  = 0x90 // + op index, bit number
	rowwSUBr = 0xA0 // + dst code
	rowwSBCr = 0xB0 // + dst code
	rowwEXrr = 0xB8 // + dst code
	rowwANDr = 0xC0 // + dst code
	rowwLDn3 = 0xA8 // + 0-7 (LD rr, small constant)
	rowwADDi = 0xC8 // + imm16/imm32
	rowwSUBi = 0xCA
	rowwANDi = 0xCC
	rowwORi  = 0xCE
	rowwXORi = 0xD0
	rowwADCi = 0xD2
	rowwSBCi = 0xD4
	rowwSh   = 0xE8 // + shift index, count (0 = by A)
	rowwCPr  = 0xF0 // + dst code
	rowwCPi  = 0xF8
)

// Shift and bit operation indices shared by register rows and the
// memory forms.
const (
	shRLC = 0
	shRRC = 1
	shRL  = 2
	shRR  = 3
	shSLA = 4
	shSRA = 5
	shSLL = 6
	shSRL = 7

	bopBIT   = 0
	bopSET   = 1
	bopRES   = 2
	bopCHG   = 3
	bopTSET  = 4
	bopSTCF  = 5
	bopLDCF  = 6
	bopXORCF = 7
)
