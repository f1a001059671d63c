package asm

import (
	"os"
	"strings"

	"github.com/tlcs900/tlcs900asm/parser"
)

// directiveNames groups every recognized spelling under its handler key
var directiveNames = map[string]string{
	"ORG": "org",
	"EQU": "equ",
	"SET": "set",
	"DB": "db", "DEFB": "db", "DC.B": "db", "FCB": "db", "BYT": "db", ".BYTE": "db",
	"DW": "dw", "DEFW": "dw", "DC.W": "dw", "FDB": "dw", "WOR": "dw", ".WORD": "dw", "DATA": "dw",
	"DD": "dd", "DEFL": "dd", "DC.L": "dd", ".LONG": "dd",
	"DS": "ds", "DEFS": "ds", "RMB": "ds", "RES": "ds", ".BLKB": "ds",
	"ALIGN":    "align",
	"INCLUDE":  "include",
	"BINCLUDE": "binclude", "INCBIN": "binclude",
	"CPU": "cpu", ".CPU": "cpu",
	"MAXMODE": "maxmode",
	"END":     "end",
	"PAGE": "listing", "NEWPAGE": "listing", "LISTING": "listing",
	"PRTINIT": "listing", "PRTEXIT": "listing",
	"MACRO": "macro",
	"ENDM":  "endm",
}

// consumesLabel reports whether a directive claims the line's label for
// itself instead of defining it at the current PC.
func consumesLabel(name string) bool {
	switch strings.ToUpper(name) {
	case "EQU", "SET", "MACRO":
		return true
	}
	return false
}

func isDirective(name string) bool {
	_, ok := directiveNames[strings.ToUpper(name)]
	return ok
}

// handleDirective executes one directive. The label has already been
// defined at PC unless the directive consumes it.
func (a *Assembler) handleDirective(name, label string, lex *parser.Lexer) {
	switch directiveNames[strings.ToUpper(name)] {
	case "org":
		a.handleOrg(lex)
	case "equ":
		a.handleEqu(label, parser.SymbolEqu, lex)
	case "set":
		a.handleEqu(label, parser.SymbolSet, lex)
	case "db":
		a.handleDB(lex)
	case "dw":
		a.handleDW(lex)
	case "dd":
		a.handleDD(lex)
	case "ds":
		a.handleDS(lex)
	case "align":
		a.handleAlign(lex)
	case "include":
		a.handleInclude(lex)
	case "binclude":
		a.handleBinclude(lex)
	case "cpu":
		a.handleCPU(lex)
	case "maxmode":
		a.handleMaxMode(lex)
	case "end":
		// Optional start address, currently ignored
	case "listing":
		// Listing control has no effect on the binary
	case "macro":
		a.handleMacro(label, lex)
	case "endm":
		if err := a.macro.Finish(a.symbols, a.curFile, a.curLine, a.strictDefines()); err != nil {
			a.Errorf("%v", err)
		}
	}
}

func (a *Assembler) handleOrg(lex *parser.Lexer) {
	res, ok := parser.EvalExpr(a, lex)
	if !ok {
		a.Errorf("invalid ORG expression")
		return
	}
	if !res.Known {
		if a.pass == 2 {
			a.Errorf("ORG value must be known")
		}
		return
	}
	newPC := uint32(res.Value)
	if a.pass == 2 && len(a.output) > 0 && newPC >= a.outputBase &&
		newPC < a.outputBase+uint32(len(a.output)) {
		a.Warnf("ORG $%06X moves back into already emitted output", newPC)
	}
	a.pc = newPC
	a.org = newPC
	a.setBase(newPC)
}

func (a *Assembler) handleEqu(label string, kind parser.SymbolKind, lex *parser.Lexer) {
	if label == "" {
		a.Errorf("%s requires a label", kind)
		return
	}
	res, ok := parser.EvalExpr(a, lex)
	if !ok {
		return
	}
	a.defineSymbol(label, kind, res.Value)
}

func (a *Assembler) handleDB(lex *parser.Lexer) {
	for {
		tok := lex.Peek()
		switch tok.Type {
		case parser.TokenString, parser.TokenChar:
			lex.Next()
			a.emitString(tok.Text)
		default:
			res, ok := parser.EvalExpr(a, lex)
			if !ok {
				return
			}
			a.EmitByte(byte(res.Value))
		}
		if lex.Peek().Type != parser.TokenComma {
			return
		}
		lex.Next()
	}
}

func (a *Assembler) handleDW(lex *parser.Lexer) {
	for {
		res, ok := parser.EvalExpr(a, lex)
		if !ok {
			return
		}
		a.EmitWord(uint16(res.Value))
		if lex.Peek().Type != parser.TokenComma {
			return
		}
		lex.Next()
	}
}

func (a *Assembler) handleDD(lex *parser.Lexer) {
	for {
		res, ok := parser.EvalExpr(a, lex)
		if !ok {
			return
		}
		a.EmitLong(uint32(res.Value))
		if lex.Peek().Type != parser.TokenComma {
			return
		}
		lex.Next()
	}
}

func (a *Assembler) handleDS(lex *parser.Lexer) {
	res, ok := parser.EvalExpr(a, lex)
	if !ok {
		return
	}
	fill := byte(0)
	if lex.Peek().Type == parser.TokenComma {
		lex.Next()
		fillRes, ok := parser.EvalExpr(a, lex)
		if !ok {
			return
		}
		fill = byte(fillRes.Value)
	}
	if res.Value < 0 {
		a.Errorf("negative DS count %d", res.Value)
		return
	}
	// An unknown count reserves nothing this iteration; the relaxation
	// loop converges once the symbol resolves.
	if res.Known {
		a.emitFill(res.Value, fill)
	}
}

func (a *Assembler) handleAlign(lex *parser.Lexer) {
	res, ok := parser.EvalExpr(a, lex)
	if !ok {
		return
	}
	boundary := res.Value
	if boundary <= 0 || boundary&(boundary-1) != 0 {
		a.Errorf("ALIGN boundary must be a power of 2")
		return
	}
	mask := uint32(boundary) - 1
	padding := (uint32(boundary) - (a.pc & mask)) & mask
	a.emitFill(int64(padding), 0)
}

// directiveFilename reads a quoted or bare filename argument
func (a *Assembler) directiveFilename(lex *parser.Lexer) (string, bool) {
	tok := lex.Peek()
	switch tok.Type {
	case parser.TokenString, parser.TokenChar:
		lex.Next()
		return tok.Text, true
	case parser.TokenIdentifier:
		// Bare filename: take raw text up to a comma or comment
		rest := strings.TrimSpace(lex.Rest())
		if i := strings.IndexAny(rest, ",;"); i >= 0 {
			defer a.skipToComma(lex)
			return strings.TrimSpace(rest[:i]), true
		}
		a.skipRest(lex)
		return rest, true
	}
	return "", false
}

func (a *Assembler) skipRest(lex *parser.Lexer) {
	for !lex.AtEnd() {
		lex.Next()
	}
}

func (a *Assembler) skipToComma(lex *parser.Lexer) {
	for !lex.AtEnd() && lex.Peek().Type != parser.TokenComma {
		lex.Next()
	}
}

func (a *Assembler) handleInclude(lex *parser.Lexer) {
	filename, ok := a.directiveFilename(lex)
	if !ok {
		a.Errorf("INCLUDE requires a filename")
		return
	}
	a.includeFile(filename)
}

// handleBinclude splices raw bytes from a file, with an optional
// offset and length.
func (a *Assembler) handleBinclude(lex *parser.Lexer) {
	filename, ok := a.directiveFilename(lex)
	if !ok {
		a.Errorf("BINCLUDE requires a filename")
		return
	}

	offset := int64(0)
	length := int64(-1)
	if lex.Peek().Type == parser.TokenComma {
		lex.Next()
		res, ok := parser.EvalExpr(a, lex)
		if !ok {
			return
		}
		offset = res.Value
		if lex.Peek().Type == parser.TokenComma {
			lex.Next()
			res, ok := parser.EvalExpr(a, lex)
			if !ok {
				return
			}
			length = res.Value
		}
	}

	data, err := os.ReadFile(a.resolvePath(filename))
	if err != nil {
		a.Errorf("cannot open binary file %q", filename)
		return
	}
	if offset < 0 || offset >= int64(len(data)) {
		a.Errorf("BINCLUDE offset %d beyond file size %d", offset, len(data))
		return
	}
	if length < 0 || offset+length > int64(len(data)) {
		length = int64(len(data)) - offset
	}
	for _, b := range data[offset : offset+length] {
		a.EmitByte(b)
	}
}

func (a *Assembler) handleCPU(lex *parser.Lexer) {
	tok := lex.Next()
	if tok.Type != parser.TokenIdentifier && tok.Type != parser.TokenString {
		a.Errorf("CPU requires a processor name")
		return
	}
	name := strings.ToUpper(tok.Text)
	switch {
	case name == "TLCS900", name == "TLCS-900", name == "TLCS900H",
		name == "TMP94C241", strings.HasPrefix(name, "900"):
		// Supported family
	default:
		a.Warnf("unknown CPU %q, assuming TLCS-900", tok.Text)
	}
	a.skipRest(lex)
}

func (a *Assembler) handleMaxMode(lex *parser.Lexer) {
	tok := lex.Peek()
	if tok.Type != parser.TokenIdentifier {
		a.maxMode = true
		return
	}
	lex.Next()
	switch strings.ToUpper(tok.Text) {
	case "ON":
		a.maxMode = true
	case "OFF":
		a.maxMode = false
	default:
		a.Errorf("MAXMODE expects ON or OFF")
	}
}

func (a *Assembler) handleMacro(label string, lex *parser.Lexer) {
	if label == "" {
		a.Errorf("MACRO requires a name")
		return
	}
	params := strings.TrimSpace(lex.Rest())
	if i := strings.IndexByte(params, ';'); i >= 0 {
		params = strings.TrimSpace(params[:i])
	}
	a.skipRest(lex)
	if err := a.macro.Start(label, params); err != nil {
		a.Errorf("%v", err)
	}
}
