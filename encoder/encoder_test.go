package encoder_test

import (
	"fmt"
	"testing"

	"github.com/tlcs900/tlcs900asm/encoder"
	"github.com/tlcs900/tlcs900asm/parser"
)

// testMachine implements both the parser and encoder contexts so
// operands can be parsed from source text and encoded in one step.
type testMachine struct {
	symbols *parser.SymbolTable
	bytes   []byte
	pc      uint32
	pass    int
	sizing  bool
	errors  []string
}

func newMachine() *testMachine {
	return &testMachine{symbols: parser.NewSymbolTable(), pass: 2}
}

func (m *testMachine) EmitByte(b byte) {
	m.bytes = append(m.bytes, b)
	m.pc++
}
func (m *testMachine) EmitWord(w uint16) {
	m.EmitByte(byte(w))
	m.EmitByte(byte(w >> 8))
}
func (m *testMachine) Emit24(v uint32) {
	m.EmitByte(byte(v))
	m.EmitByte(byte(v >> 8))
	m.EmitByte(byte(v >> 16))
}
func (m *testMachine) EmitLong(v uint32) {
	m.Emit24(v)
	m.EmitByte(byte(v >> 24))
}
func (m *testMachine) PC() uint32                  { return m.pc }
func (m *testMachine) Pass() int                   { return m.pass }
func (m *testMachine) SizingPass() bool            { return m.sizing }
func (m *testMachine) MaxMode() bool               { return true }
func (m *testMachine) Symbols() *parser.SymbolTable { return m.symbols }
func (m *testMachine) Errorf(format string, args ...any) {
	m.errors = append(m.errors, fmt.Sprintf(format, args...))
}
func (m *testMachine) Warnf(format string, args ...any) {}

func (m *testMachine) parseOperands(t *testing.T, text string) []parser.Operand {
	t.Helper()
	if text == "" {
		return nil
	}
	lex := parser.NewLexer(text, 1, m)
	var ops []parser.Operand
	for {
		op, ok := parser.ParseOperand(m, lex)
		if !ok {
			t.Fatalf("operand parse failed for %q: %v", text, m.errors)
		}
		ops = append(ops, op)
		if lex.Peek().Type != parser.TokenComma {
			break
		}
		lex.Next()
	}
	return ops
}

func (m *testMachine) encode(t *testing.T, mnemonic, operands string) []byte {
	t.Helper()
	ops := m.parseOperands(t, operands)
	if !encoder.Encode(m, mnemonic, ops) {
		t.Fatalf("encode %s %s failed: %v", mnemonic, operands, m.errors)
	}
	return m.bytes
}

func expectBytes(t *testing.T, got, want []byte) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got % X, want % X", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got % X, want % X", got, want)
		}
	}
}

func TestEncodeVectors(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
		operands string
		pc       uint32
		want     []byte
	}{
		{"NOP", "NOP", "", 0, []byte{0x00}},
		{"EI level", "EI", "3", 0, []byte{0x06, 0x03}},
		{"DI", "DI", "", 0, []byte{0x06, 0x07}},
		{"HALT", "HALT", "", 0, []byte{0x05}},
		{"SCF", "SCF", "", 0, []byte{0x0D}},
		{"RCF", "RCF", "", 0, []byte{0x0C}},
		{"CCF", "CCF", "", 0, []byte{0x10}},
		{"ZCF", "ZCF", "", 0, []byte{0x11}},

		{"PUSH WA", "PUSH", "WA", 0, []byte{0x28}},
		{"PUSH HL", "PUSH", "HL", 0, []byte{0x2B}},
		{"PUSH XIX", "PUSH", "XIX", 0, []byte{0x3C}},
		{"POP BC", "POP", "BC", 0, []byte{0x49}},
		{"POP XSP", "POP", "XSP", 0, []byte{0x57}},
		{"PUSH A", "PUSH", "A", 0, []byte{0xC8, 0x15}},
		{"POP B", "POP", "B", 0, []byte{0xC9, 0x16}},
		{"PUSH F", "PUSH", "F", 0, []byte{0x18}},
		{"POP F", "POP", "F", 0, []byte{0x1A}},
		{"PUSH SR", "PUSH", "SR", 0, []byte{0x02}},
		{"POP SR", "POP", "SR", 0, []byte{0x03}},

		{"LD r8 imm", "LD", "A, #5", 0, []byte{0x21, 0x05}},
		{"LD W imm", "LD", "W, #$FF", 0, []byte{0x20, 0xFF}},
		{"LD rr imm", "LD", "WA, #$1234", 0, []byte{0x30, 0x34, 0x12}},
		{"LD rr small const", "LD", "BC, #2", 0, []byte{0xD9, 0xAA}},
		{"LD xrr imm32", "LD", "XWA, #$12345678", 0, []byte{0x40, 0x78, 0x56, 0x34, 0x12}},
		{"LD r8 r8", "LD", "A, B", 0, []byte{0xC9, 0x21}},
		{"LD rr rr", "LD", "WA, BC", 0, []byte{0xD9, 0x28}},
		{"LD xrr xrr", "LD", "XDE, XHL", 0, []byte{0xEB, 0x2A}},

		{"LD byte from indirect", "LD", "A, (XHL)", 0, []byte{0x83, 0x21}},
		{"LD word from indexed8", "LD", "WA, (XIX+4)", 0, []byte{0x9C, 0x04, 0x20}},
		{"LD byte from direct8 const", "LD", "A, ($80)", 0, []byte{0xC0, 0x80, 0x21}},
		{"LD byte from direct16 const", "LD", "A, ($1234)", 0, []byte{0xC1, 0x34, 0x12, 0x21}},
		{"LD long from direct8 const", "LD", "XDE, ($80)", 0, []byte{0xE0, 0x80, 0x22}},
		{"LD word from 16-bit base", "LD", "WA, (HL)", 0, []byte{0xD3, 0x0B, 0x20}},
		{"LD from postinc", "LD", "A, (XHL+)", 0, []byte{0xC3, 0x43, 0x21}},
		{"LD store predec", "LD", "(-XHL), A", 0, []byte{0xF3, 0x4B, 0x41}},
		{"LD store indirect", "LD", "(XHL), A", 0, []byte{0xF3, 0x03, 0x41}},
		{"LD store word reg", "LD", "($1000), WA", 0, []byte{0xF1, 0x00, 0x10, 0x50}},
		{"LD imm to direct8", "LD", "($42), #$37", 0, []byte{0x08, 0x42, 0x37}},
		{"LDW imm to direct8", "LDW", "($42), #$1234", 0, []byte{0x0A, 0x42, 0x34, 0x12}},
		{"LD imm to direct16", "LD", "($100), #$37", 0, []byte{0xF1, 0x00, 0x01, 0x00, 0x37}},
		{"LD indexed reg", "LD", "A, (XIX+A)", 0, []byte{0xC3, 0x64, 0x01, 0x21}},
		{"LD explicit wide hint", "LD", "A, ($40:16)", 0, []byte{0xC1, 0x40, 0x00, 0x21}},

		{"LDA word", "LDA", "WA, ($1234)", 0, []byte{0xF1, 0x34, 0x12, 0x28}},
		{"LDA long indexed", "LDA", "XBC, (XIX+2)", 0, []byte{0xF3, 0x54, 0x02, 0x39}},

		{"LDI", "LDI", "", 0, []byte{0x83, 0x10}},
		{"LDIR", "LDIR", "", 0, []byte{0x83, 0x11}},
		{"LDDW", "LDDW", "", 0, []byte{0x93, 0x12}},
		{"LDDRW", "LDDRW", "", 0, []byte{0x93, 0x13}},

		{"ADD r8 imm", "ADD", "A, #1", 0, []byte{0xC8, 0xC9, 0x01}},
		{"ADD r8 r8", "ADD", "A, B", 0, []byte{0xC9, 0x81}},
		{"ADD rr rr", "ADD", "WA, BC", 0, []byte{0xD9, 0x80}},
		{"ADD rr imm", "ADD", "HL, #$1000", 0, []byte{0xDB, 0xC8, 0x00, 0x10}},
		{"ADD xrr imm", "ADD", "XWA, #1", 0, []byte{0xE8, 0xC8, 0x01, 0x00, 0x00, 0x00}},
		{"ADD from mem", "ADD", "A, (XHL)", 0, []byte{0x83, 0x81}},
		{"ADC r8 r8", "ADC", "A, B", 0, []byte{0xC9, 0x32, 0x01}},
		{"SUB r8 imm", "SUB", "A, #1", 0, []byte{0xC8, 0xCB, 0x01}},
		{"SBC rr rr", "SBC", "DE, HL", 0, []byte{0xDB, 0xB2}},
		{"AND rr imm", "AND", "WA, #$FF", 0, []byte{0xD8, 0xCC, 0xFF, 0x00}},
		{"OR r8 imm", "OR", "C, #4", 0, []byte{0xC9, 0xCF, 0x04}},
		{"XOR r8 imm", "XOR", "A, #$FF", 0, []byte{0xC8, 0xD1, 0xFF}},
		{"CP r8 imm", "CP", "A, #2", 0, []byte{0xC8, 0xF9, 0x02}},
		{"CP word from mem", "CP", "WA, (XDE)", 0, []byte{0x92, 0xF0}},

		{"INC A", "INC", "A", 0, []byte{0xC8, 0x61, 0x01}},
		{"INC 4 WA", "INC", "4, WA", 0, []byte{0xD8, 0x60, 0x04}},
		{"DEC BC by 2", "DEC", "BC, 2", 0, []byte{0xD9, 0x68, 0x02}},
		{"NEG A", "NEG", "A", 0, []byte{0xC8, 0x1B}},
		{"NEG WA", "NEG", "WA", 0, []byte{0xD8, 0x07}},
		{"CPL B", "CPL", "B", 0, []byte{0xC9, 0x18}},
		{"DAA A", "DAA", "A", 0, []byte{0xC8, 0x11}},
		{"EXTZ WA", "EXTZ", "WA", 0, []byte{0xD8, 0x12}},
		{"EXTS XHL", "EXTS", "XHL", 0, []byte{0xEB, 0x13}},
		{"BS1F", "BS1F", "A, HL", 0, []byte{0xDB, 0x0E}},
		{"BS1B", "BS1B", "A, DE", 0, []byte{0xDA, 0x0F}},

		{"MUL reg src", "MUL", "WA, B", 0, []byte{0xC9, 0x64, 0x00}},
		{"MULS reg src", "MULS", "BC, A", 0, []byte{0xC8, 0x65, 0x11}},
		{"DIV imm src", "DIV", "HL, #10", 0, []byte{0xDB, 0x0A, 0x0A}},
		{"DIVS imm src", "DIVS", "WA, #3", 0, []byte{0xD8, 0x0B, 0x03}},

		{"EX flag banks", "EX", "F, F'", 0, []byte{0x16}},
		{"EX bytes", "EX", "A, B", 0, []byte{0xC9, 0x01}},
		{"EX words", "EX", "WA, BC", 0, []byte{0xD9, 0xB8}},

		{"LINK", "LINK", "XIX, 4", 0, []byte{0xEC, 0x0C, 0x04, 0x00}},
		{"UNLK", "UNLK", "XIX", 0, []byte{0xEC, 0x0D}},

		{"JR backward", "JR", "0", 0, []byte{0x68, 0xFE}},
		{"JR NZ", "JR", "NZ, 0", 0, []byte{0x6E, 0xFE}},
		{"JR at pc", "JR", "$1000", 0x1001, []byte{0x68, 0xFD}},
		{"JRL", "JRL", "0", 0, []byte{0x78, 0xFD, 0xFF}},
		{"JRL cc", "JRL", "ULT, 0", 0, []byte{0x77, 0xFD, 0xFF}},
		{"JP 16-bit const", "JP", "$1234", 0, []byte{0x12, 0x34, 0x12}},
		{"JP 24-bit const", "JP", "$123456", 0, []byte{0x13, 0x56, 0x34, 0x12}},
		{"JP conditional", "JP", "NZ, $1234", 0, []byte{0x04, 0x1E, 0x34, 0x12}},
		{"JP indirect", "JP", "(XHL)", 0, []byte{0xB4, 0x03, 0xD8}},
		{"CALL 16-bit", "CALL", "$1234", 0, []byte{0x14, 0x34, 0x12}},
		{"CALL 24-bit", "CALL", "$123456", 0, []byte{0x15, 0x56, 0x34, 0x12}},
		{"CALL conditional", "CALL", "Z, $1234", 0, []byte{0x04, 0x36, 0x34, 0x12}},
		{"CALL indirect", "CALL", "(XIX)", 0, []byte{0xB4, 0x04, 0xE8}},
		{"CALR", "CALR", "$10", 0, []byte{0x17, 0x0D, 0x00}},
		{"RET", "RET", "", 0, []byte{0x0E}},
		{"RET cc", "RET", "NZ", 0, []byte{0x04, 0x0E}},
		{"RET T stays short", "RET", "T", 0, []byte{0x0E}},
		{"RETI", "RETI", "", 0, []byte{0x07}},
		{"RETD", "RETD", "4", 0, []byte{0x0F, 0x04, 0x00}},
		{"SWI", "SWI", "3", 0, []byte{0xFB}},
		{"DJNZ", "DJNZ", "A, 0", 0, []byte{0xC8, 0x1D, 0xFD}},
		{"DJNZ word", "DJNZ", "BC, 0", 0, []byte{0xD9, 0x1C, 0xFD}},

		{"SCC byte", "SCC", "Z, A", 0, []byte{0xC8, 0x63, 0x06}},
		{"SCC word", "SCC", "NZ, WA", 0, []byte{0xD8, 0x7E}},

		{"BIT reg", "BIT", "3, A", 0, []byte{0xC8, 0x91, 0x03}},
		{"SET reg", "SET", "2, B", 0, []byte{0xC9, 0x92, 0x02}},
		{"RES word reg", "RES", "12, WA", 0, []byte{0xD8, 0x92, 0x0C}},
		{"SET mem", "SET", "2, (XHL)", 0, []byte{0xB0, 0x03, 0x3A}},
		{"BIT direct", "BIT", "1, ($20)", 0, []byte{0xB0, 0xC0, 0x20, 0x31}},
		{"TSET mem", "TSET", "0, (XIX+3)", 0, []byte{0xB0, 0x54, 0x03, 0x50}},
		{"STCF reg", "STCF", "4, C", 0, []byte{0xC9, 0x9B, 0x04}},
		{"LDCF reg", "LDCF", "1, A", 0, []byte{0xC8, 0x9D, 0x01}},
		{"XORCF reg", "XORCF", "0, A", 0, []byte{0xC8, 0x9F, 0x00}},
		{"CHG mem", "CHG", "7, (XBC)", 0, []byte{0xB0, 0x01, 0x4F}},

		{"RLC count", "RLC", "4, B", 0, []byte{0xC9, 0xE0, 0x04}},
		{"SLA implicit 1", "SLA", "A", 0, []byte{0xC8, 0xE9, 0x01}},
		{"SRL by A", "SRL", "A, C", 0, []byte{0xC9, 0xEF, 0x00}},
		{"RR word", "RR", "2, HL", 0, []byte{0xDB, 0xEB, 0x02}},
		{"SRA long", "SRA", "1, XDE", 0, []byte{0xEA, 0xED, 0x01}},

		{"LDC to control", "LDC", "#2, WA", 0, []byte{0xD8, 0x56, 0x02}},
		{"LDC from control", "LDC", "A, #1", 0, []byte{0xC8, 0x79, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMachine()
			m.pc = tt.pc
			got := m.encode(t, tt.mnemonic, tt.operands)
			expectBytes(t, got, tt.want)
		})
	}
}

// Unknown values must take maximal encodings so relaxation only ever
// shrinks.
func TestEncodeSizingConservative(t *testing.T) {
	m := newMachine()
	m.pass = 1
	m.sizing = true

	// "future" is undefined: the direct store must take the 24-bit form
	got := m.encode(t, "LD", "(future), #1")
	expectBytes(t, got, []byte{0xF2, 0x00, 0x00, 0x00, 0x00, 0x01})
}

func TestEncodeLabelNotShortened(t *testing.T) {
	m := newMachine()
	// A label at $40 is known but not constant: 8-bit form is out
	m.symbols.Define("buf", parser.SymbolLabel, 0x40, "t.asm", 1, true)
	got := m.encode(t, "LD", "(buf), #1")
	expectBytes(t, got, []byte{0xF1, 0x40, 0x00, 0x00, 0x01})
}

func TestEncodeEquShortened(t *testing.T) {
	m := newMachine()
	m.symbols.Define("PORT", parser.SymbolEqu, 0x40, "t.asm", 1, true)
	got := m.encode(t, "LD", "(PORT), #1")
	expectBytes(t, got, []byte{0x08, 0x40, 0x01})
}

func TestEncodeIndexedUnknownDisplacement(t *testing.T) {
	m := newMachine()
	m.pass = 1
	got := m.encode(t, "LD", "A, (XIX+offset)")
	expectBytes(t, got, []byte{0xC3, 0x5C, 0x00, 0x00, 0x21})
}

func TestEncodeJROutOfRange(t *testing.T) {
	m := newMachine()
	ops := m.parseOperands(t, "$5000")
	if encoder.Encode(m, "JR", ops) {
		t.Fatal("expected JR range failure in the emitting pass")
	}
	if len(m.errors) == 0 {
		t.Fatal("expected a reported error")
	}
	if len(m.bytes) != 0 {
		t.Errorf("failed instruction must not emit, got % X", m.bytes)
	}
}

func TestEncodeUnknownMnemonic(t *testing.T) {
	m := newMachine()
	if encoder.Encode(m, "BOGUS", nil) {
		t.Fatal("unknown mnemonic should not encode")
	}
	if len(m.errors) != 0 {
		t.Error("unknown mnemonic must not report; the caller tries macros first")
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"NOP", "nop", "Ld", "djnz", "XORCF", "LDIRW"} {
		if !encoder.Lookup(name) {
			t.Errorf("Lookup(%q) = false", name)
		}
	}
	if encoder.Lookup("MOV") {
		t.Error("MOV is not a TLCS-900 mnemonic")
	}
}
