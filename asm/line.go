package asm

import (
	"strings"

	"github.com/tlcs900/tlcs900asm/encoder"
	"github.com/tlcs900/tlcs900asm/parser"
)

// stripComment drops a trailing comment from raw line text
func stripComment(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		return s[:i]
	}
	return s
}

// parseLine dispatches one source line: label handling, directive or
// instruction, macro collection and expansion. Errors are reported and
// swallowed so the next line always gets its chance.
func (a *Assembler) parseLine(line string) {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" || trimmed[0] == ';' {
		return
	}

	// While a macro definition is open, everything except ENDM is body
	if a.macro.Collecting() && !parser.IsEndm(line) {
		a.macro.AddLine(line)
		return
	}

	lex := parser.NewLexer(line, a.curLine, a)
	tok := lex.Next()

	var label, mnemonic string

	if tok.Type == parser.TokenIdentifier {
		next := lex.Peek()
		switch {
		case next.Type == parser.TokenColon:
			// Label with colon, any column
			label = tok.Text
			lex.Next()
			tok = lex.Next()
		case line[0] != ' ' && line[0] != '\t':
			// Identifier at column 1 without colon: still a label,
			// unless it is itself a mnemonic or directive. EQU, SET,
			// '=' and MACRO always claim the preceding identifier.
			switch {
			case next.Type == parser.TokenIdentifier && consumesLabel(next.Text):
				label = tok.Text
				tok = lex.Next()
				mnemonic = tok.Text
			case next.Type == parser.TokenEquals && next.Text == "=":
				label = tok.Text
				tok = lex.Next()
			case a.isMnemonicLike(tok.Text):
				mnemonic = tok.Text
			default:
				label = tok.Text
				tok = lex.Next()
			}
		default:
			mnemonic = tok.Text
		}
	}

	if label != "" && mnemonic == "" && tok.Type == parser.TokenIdentifier {
		mnemonic = tok.Text
	}

	// Bare label line
	if tok.Type == parser.TokenEOF || tok.Type == parser.TokenNewline {
		if label != "" {
			a.defineLabel(label)
		}
		return
	}

	// label = expr is an alternate EQU spelling
	if tok.Type == parser.TokenEquals && tok.Text == "=" {
		res, ok := parser.EvalExpr(a, lex)
		if !ok {
			return
		}
		if label == "" {
			a.Errorf("'=' requires a label")
			return
		}
		a.defineSymbol(label, parser.SymbolEqu, res.Value)
		return
	}

	if mnemonic == "" {
		a.Errorf("expected instruction or directive")
		return
	}

	// Directives that consume the label define it themselves; any other
	// line defines its label at the current PC first. SET and RES are
	// also instruction mnemonics: SET without a label is the bit
	// instruction, and RES followed by two operands is.
	ambiguousInstr := (strings.EqualFold(mnemonic, "SET") && label == "") ||
		(strings.EqualFold(mnemonic, "RES") && strings.Contains(stripComment(lex.Rest()), ","))
	if isDirective(mnemonic) && !ambiguousInstr {
		if !consumesLabel(mnemonic) && label != "" {
			a.defineLabel(label)
		}
		a.handleDirective(mnemonic, label, lex)
		return
	}

	if label != "" {
		a.defineLabel(label)
	}

	if encoder.Lookup(mnemonic) {
		ops, ok := a.parseOperands(lex)
		if !ok {
			return
		}
		encoder.Encode(a, mnemonic, ops)
		return
	}

	// Unknown mnemonic: macro invocation, or nothing at all
	if sym := a.symbols.Lookup(mnemonic); sym != nil && sym.Kind == parser.SymbolMacro {
		a.expandMacro(sym, lex.Rest())
		return
	}
	a.Errorf("unknown instruction or macro %q", mnemonic)
}

// isMnemonicLike reports whether a name would dispatch as something
// other than a label: an instruction, a directive or a defined macro.
func (a *Assembler) isMnemonicLike(name string) bool {
	if encoder.Lookup(name) || isDirective(name) {
		return true
	}
	sym := a.symbols.Lookup(name)
	return sym != nil && sym.Kind == parser.SymbolMacro
}

// parseOperands reads up to MaxOperands comma-separated operands
func (a *Assembler) parseOperands(lex *parser.Lexer) ([]parser.Operand, bool) {
	var ops []parser.Operand
	for len(ops) < MaxOperands {
		if lex.AtEnd() {
			break
		}
		op, ok := parser.ParseOperand(a, lex)
		if !ok {
			return nil, false
		}
		ops = append(ops, op)

		if lex.Peek().Type == parser.TokenComma {
			lex.Next()
			continue
		}
		break
	}
	if !lex.AtEnd() {
		a.Errorf("unexpected %s after operands", lex.Peek().Type)
		return nil, false
	}
	return ops, true
}

func (a *Assembler) defineLabel(name string) {
	a.defineSymbol(name, parser.SymbolLabel, int64(a.pc))
}

func (a *Assembler) defineSymbol(name string, kind parser.SymbolKind, value int64) {
	_, err := a.symbols.Define(name, kind, value, a.curFile, a.curLine, a.strictDefines())
	if err != nil {
		a.Errorf("%v", err)
	}
}

// expandMacro substitutes arguments into a macro body and feeds the
// expanded lines back through the dispatcher.
func (a *Assembler) expandMacro(sym *parser.Symbol, argText string) {
	if a.macroDepth >= parser.MaxMacroDepth {
		a.Errorf("macro expansion too deep (max %d)", parser.MaxMacroDepth)
		return
	}
	args := parser.SplitMacroArgs(argText)
	a.macroDepth++
	savedLine := a.curLine
	for _, line := range parser.ExpandMacro(sym, args) {
		a.parseLine(line)
		a.curLine = savedLine
	}
	a.macroDepth--
}
