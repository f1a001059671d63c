package parser

import "testing"

type testReporter struct {
	errors   []string
	warnings []string
}

func (r *testReporter) Errorf(format string, args ...any) {
	r.errors = append(r.errors, format)
}

func (r *testReporter) Warnf(format string, args ...any) {
	r.warnings = append(r.warnings, format)
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"decimal", "123", 123},
		{"dollar hex", "$1A3", 0x1A3},
		{"0x hex", "0x1A3", 0x1A3},
		{"upper 0X hex", "0XFF", 0xFF},
		{"H suffix hex", "1A3H", 0x1A3},
		{"lower h suffix", "0ffh", 0xFF},
		{"percent binary", "%1011", 11},
		{"B suffix binary", "1011B", 11},
		{"zero", "0", 0},
		{"large hex", "$FFFFFF", 0xFFFFFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex := NewLexer(tt.input, 1, &testReporter{})
			tok := lex.Next()
			if tok.Type != TokenNumber {
				t.Fatalf("got %v, want number", tok.Type)
			}
			if tok.Value != tt.want {
				t.Errorf("value = %d, want %d", tok.Value, tt.want)
			}
		})
	}
}

func TestLexerCharLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"single char", "'A'", 0x41},
		{"two chars big-endian", "'AB'", 0x4142},
		{"four chars", "'ABCD'", 0x41424344},
		{"escaped newline", `'\n'`, 0x0A},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex := NewLexer(tt.input, 1, &testReporter{})
			tok := lex.Next()
			if tok.Type != TokenChar {
				t.Fatalf("got %v, want character", tok.Type)
			}
			if tok.Value != tt.want {
				t.Errorf("value = $%X, want $%X", tok.Value, tt.want)
			}
		})
	}
}

func TestLexerDollarAlone(t *testing.T) {
	lex := NewLexer("$", 1, &testReporter{})
	if tok := lex.Next(); tok.Type != TokenDollar {
		t.Errorf("got %v, want '$'", tok.Type)
	}
}

func TestLexerOperators(t *testing.T) {
	lex := NewLexer("<< >> <= >= == != && || ( ) , : # ~ ^", 1, &testReporter{})
	want := []TokenType{
		TokenLShift, TokenRShift, TokenLess, TokenGreater,
		TokenEquals, TokenExclaim, TokenAmpersand, TokenPipe,
		TokenLParen, TokenRParen, TokenComma, TokenColon,
		TokenHash, TokenTilde, TokenCaret,
	}
	for i, w := range want {
		tok := lex.Next()
		if tok.Type != w {
			t.Errorf("token %d: got %v, want %v", i, tok.Type, w)
		}
	}
	if tok := lex.Next(); tok.Type != TokenEOF {
		t.Errorf("trailing token %v, want EOF", tok.Type)
	}
}

func TestLexerComment(t *testing.T) {
	lex := NewLexer("NOP ; this is a comment", 1, &testReporter{})
	if tok := lex.Next(); tok.Type != TokenIdentifier || tok.Text != "NOP" {
		t.Fatalf("got %v %q", tok.Type, tok.Text)
	}
	if tok := lex.Next(); tok.Type != TokenEOF {
		t.Errorf("comment not skipped, got %v", tok.Type)
	}
}

func TestLexerSaveRestore(t *testing.T) {
	lex := NewLexer("A, B, C", 1, &testReporter{})
	lex.Next() // A

	saved := lex.Save()
	lex.Next() // ,
	lex.Next() // B
	lex.Restore(saved)

	if tok := lex.Next(); tok.Type != TokenComma {
		t.Errorf("after restore got %v, want ','", tok.Type)
	}
	if tok := lex.Next(); tok.Text != "B" {
		t.Errorf("after restore got %q, want B", tok.Text)
	}
}

func TestLexerPrimeRegister(t *testing.T) {
	lex := NewLexer("F'", 1, &testReporter{})
	tok := lex.Next()
	if tok.Type != TokenIdentifier || tok.Text != "F'" {
		t.Errorf("got %v %q, want identifier F'", tok.Type, tok.Text)
	}
}

func TestLexerDottedIdentifier(t *testing.T) {
	lex := NewLexer("DC.B 5", 1, &testReporter{})
	if tok := lex.Next(); tok.Text != "DC.B" {
		t.Errorf("got %q, want DC.B", tok.Text)
	}
}

func TestLexerRest(t *testing.T) {
	lex := NewLexer("BLINK 1, (2+3), x", 1, &testReporter{})
	lex.Next()       // BLINK
	_ = lex.Peek()   // peek must not eat into Rest
	if rest := lex.Rest(); rest != "1, (2+3), x" {
		t.Errorf("Rest() = %q", rest)
	}
}

func TestLexerModuloVsBinary(t *testing.T) {
	// % followed by a non-binary digit is the modulo operator
	lex := NewLexer("7 % 2", 1, &testReporter{})
	lex.Next()
	if tok := lex.Next(); tok.Type != TokenPercent {
		t.Errorf("got %v, want '%%'", tok.Type)
	}
}
