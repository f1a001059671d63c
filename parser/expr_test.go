package parser

import (
	"fmt"
	"testing"
)

// testCtx implements Context over a bare symbol table
type testCtx struct {
	testReporter
	symbols *SymbolTable
	pc      uint32
	pass    int
}

func newTestCtx() *testCtx {
	return &testCtx{symbols: NewSymbolTable(), pass: 1}
}

func (c *testCtx) Symbols() *SymbolTable { return c.symbols }
func (c *testCtx) PC() uint32            { return c.pc }
func (c *testCtx) Pass() int             { return c.pass }

func (c *testCtx) Errorf(format string, args ...any) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

func evalString(t *testing.T, ctx *testCtx, input string) (Result, bool) {
	t.Helper()
	lex := NewLexer(input, 1, ctx)
	return EvalExpr(ctx, lex)
}

func TestExprArithmetic(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"1+2", 3},
		{"10-4", 6},
		{"3*4", 12},
		{"20/5", 4},
		{"17%5", 2},
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"-5", -5},
		{"~0", -1},
		{"!0", 1},
		{"!7", 0},
		{"1<<4", 16},
		{"256>>4", 16},
		{"$FF & $0F", 0x0F},
		{"$F0 | $0F", 0xFF},
		{"$FF ^ $0F", 0xF0},
		{"3 < 4", 1},
		{"4 <= 4", 1},
		{"5 > 6", 0},
		{"5 >= 5", 1},
		{"3 == 3", 1},
		{"3 != 3", 0},
		{"1 && 2", 1},
		{"0 || 5", 1},
		{"0 && 1 || 1", 1},
		{"'A' + 1", 0x42},
	}

	ctx := newTestCtx()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res, ok := evalString(t, ctx, tt.input)
			if !ok {
				t.Fatalf("eval failed: %v", ctx.errors)
			}
			if res.Value != tt.want {
				t.Errorf("= %d, want %d", res.Value, tt.want)
			}
			if !res.Known || !res.Constant {
				t.Errorf("known=%v constant=%v, want both true", res.Known, res.Constant)
			}
		})
	}
}

func TestExprBuiltins(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"LOW($123456)", 0x56},
		{"HIGH($123456)", 0x34},
		{"BANK($123456)", 0x12},
		{"low($FF)", 0xFF},
		{"HI($1234)", 0x12},
	}
	ctx := newTestCtx()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res, ok := evalString(t, ctx, tt.input)
			if !ok {
				t.Fatalf("eval failed: %v", ctx.errors)
			}
			if res.Value != tt.want {
				t.Errorf("= $%X, want $%X", res.Value, tt.want)
			}
		})
	}
}

func TestExprDivisionByZero(t *testing.T) {
	for _, input := range []string{"1/0", "1%0"} {
		t.Run(input, func(t *testing.T) {
			ctx := newTestCtx()
			if _, ok := evalString(t, ctx, input); ok {
				t.Fatal("expected failure")
			}
			if len(ctx.errors) == 0 {
				t.Error("expected a reported error")
			}
		})
	}
}

func TestExprPCNotConstant(t *testing.T) {
	ctx := newTestCtx()
	ctx.pc = 0x1000
	res, ok := evalString(t, ctx, "$ + 2")
	if !ok {
		t.Fatal("eval failed")
	}
	if res.Value != 0x1002 {
		t.Errorf("= $%X, want $1002", res.Value)
	}
	if !res.Known || res.Constant {
		t.Errorf("known=%v constant=%v, want known non-constant", res.Known, res.Constant)
	}
}

func TestExprSymbolKinds(t *testing.T) {
	ctx := newTestCtx()
	ctx.symbols.Define("VAL", SymbolEqu, 0x42, "t.asm", 1, true)
	ctx.symbols.Define("VAR", SymbolSet, 7, "t.asm", 2, true)
	ctx.symbols.Define("start", SymbolLabel, 0x1000, "t.asm", 3, true)

	res, ok := evalString(t, ctx, "VAL * 2")
	if !ok || res.Value != 0x84 {
		t.Fatalf("VAL*2 = %d ok=%v", res.Value, ok)
	}
	if !res.Constant {
		t.Error("Equ-derived expression should be constant")
	}

	res, _ = evalString(t, ctx, "VAR + 1")
	if !res.Constant {
		t.Error("Set-derived expression should be constant")
	}

	res, ok = evalString(t, ctx, "start + 4")
	if !ok || res.Value != 0x1004 {
		t.Fatalf("start+4 = %d ok=%v", res.Value, ok)
	}
	if res.Constant {
		t.Error("label-derived expression must not be constant")
	}
	if !res.Known {
		t.Error("defined label should be known")
	}
}

func TestExprUndefinedSymbol(t *testing.T) {
	ctx := newTestCtx()
	res, ok := evalString(t, ctx, "nowhere + 1")
	if !ok {
		t.Fatal("pass 1 must tolerate undefined symbols")
	}
	if res.Known || res.Constant {
		t.Errorf("known=%v constant=%v, want both false", res.Known, res.Constant)
	}

	ctx.pass = 2
	if _, ok := evalString(t, ctx, "nowhere + 1"); ok {
		t.Fatal("pass 2 must reject undefined symbols")
	}
	if len(ctx.errors) == 0 {
		t.Error("expected an undefined-symbol error")
	}
}

func TestExprCaseInsensitiveSymbols(t *testing.T) {
	ctx := newTestCtx()
	ctx.symbols.Define("Foo", SymbolEqu, 9, "t.asm", 1, true)
	for _, name := range []string{"FOO", "foo", "Foo"} {
		res, ok := evalString(t, ctx, name)
		if !ok || res.Value != 9 {
			t.Errorf("%s = %d ok=%v, want 9", name, res.Value, ok)
		}
	}
}
