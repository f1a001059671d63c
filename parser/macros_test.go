package parser

import (
	"reflect"
	"testing"
)

func TestMacroCollectAndExpand(t *testing.T) {
	st := NewSymbolTable()
	var mc MacroCollector

	if err := mc.Start("STORE", "addr, val"); err != nil {
		t.Fatal(err)
	}
	mc.AddLine("\tLD (addr), #val")
	mc.AddLine("\tINC A")
	if err := mc.Finish(st, "t.asm", 5, true); err != nil {
		t.Fatal(err)
	}

	sym := st.Lookup("store")
	if sym == nil || sym.Kind != SymbolMacro {
		t.Fatal("macro not stored")
	}

	lines := ExpandMacro(sym, []string{"$100", "42"})
	want := []string{"\tLD ($100), #42", "\tINC A"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("expanded = %q, want %q", lines, want)
	}
}

func TestMacroWordBoundarySubstitution(t *testing.T) {
	sym := &Symbol{
		Kind:        SymbolMacro,
		MacroParams: []string{"n"},
		MacroBody:   []string{"LD A, #n ; not nn or n_x", "DB nn, n_x, n"},
	}
	lines := ExpandMacro(sym, []string{"7"})
	if lines[0] != "LD A, #7 ; not nn or n_x" {
		t.Errorf("got %q", lines[0])
	}
	if lines[1] != "DB nn, n_x, 7" {
		t.Errorf("got %q", lines[1])
	}
}

func TestMacroMissingArgsExpandEmpty(t *testing.T) {
	sym := &Symbol{
		Kind:        SymbolMacro,
		MacroParams: []string{"a", "b"},
		MacroBody:   []string{"DB a, b"},
	}
	lines := ExpandMacro(sym, []string{"1"})
	if lines[0] != "DB 1, " {
		t.Errorf("got %q", lines[0])
	}
}

func TestMacroNestedDefinitionRejected(t *testing.T) {
	var mc MacroCollector
	if err := mc.Start("ONE", ""); err != nil {
		t.Fatal(err)
	}
	if err := mc.Start("TWO", ""); err == nil {
		t.Error("nested definition should fail")
	}
}

func TestEndmWithoutMacro(t *testing.T) {
	var mc MacroCollector
	if err := mc.Finish(NewSymbolTable(), "t.asm", 1, true); err == nil {
		t.Error("ENDM without MACRO should fail")
	}
}

func TestIsEndm(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"ENDM", true},
		{"  endm", true},
		{"\tENDM ; done", true},
		{"ENDMACRO", false},
		{"LD A, #1", false},
	}
	for _, tt := range tests {
		if got := IsEndm(tt.line); got != tt.want {
			t.Errorf("IsEndm(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestSplitMacroArgs(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"1, 2, 3", []string{"1", "2", "3"}},
		{"(1,2), 3", []string{"(1,2)", "3"}},
		{"a", []string{"a"}},
		{"", nil},
		{"x, y ; comment", []string{"x", "y"}},
	}
	for _, tt := range tests {
		got := SplitMacroArgs(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitMacroArgs(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
