package parser

import (
	"fmt"
	"strings"
)

const (
	// MaxMacroParams bounds the parameter list of one macro
	MaxMacroParams = 16
	// MaxMacroDepth bounds nested macro expansion
	MaxMacroDepth = 16
)

// MacroCollector accumulates the body of a MACRO..ENDM definition. The
// line dispatcher routes raw lines here while a definition is open, so
// the body is recorded verbatim and re-expanded identically every pass.
type MacroCollector struct {
	active bool
	name   string
	params []string
	body   []string
}

// Collecting reports whether a macro definition is open
func (mc *MacroCollector) Collecting() bool {
	return mc.active
}

// Name returns the name of the macro being collected
func (mc *MacroCollector) Name() string {
	return mc.name
}

// Start opens a macro definition. The parameter list is comma or space
// separated.
func (mc *MacroCollector) Start(name, paramList string) error {
	if mc.active {
		return fmt.Errorf("nested macro definitions not allowed")
	}
	var params []string
	for _, p := range strings.FieldsFunc(paramList, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	}) {
		params = append(params, p)
	}
	if len(params) > MaxMacroParams {
		return fmt.Errorf("macro %q has %d parameters, max %d", name, len(params), MaxMacroParams)
	}
	mc.active = true
	mc.name = name
	mc.params = params
	mc.body = nil
	return nil
}

// AddLine appends a raw body line
func (mc *MacroCollector) AddLine(line string) {
	mc.body = append(mc.body, line)
}

// Finish stores the collected macro in the symbol table and resets the
// collector.
func (mc *MacroCollector) Finish(st *SymbolTable, file string, line int, strict bool) error {
	if !mc.active {
		return fmt.Errorf("ENDM without MACRO")
	}
	sym, err := st.Define(mc.name, SymbolMacro, 0, file, line, strict)
	if err == nil {
		sym.MacroParams = mc.params
		sym.MacroBody = mc.body
	}
	mc.active = false
	mc.name = ""
	mc.params = nil
	mc.body = nil
	return err
}

// IsEndm reports whether a raw line is an ENDM directive (possibly
// preceded by whitespace, followed by whitespace or a comment).
func IsEndm(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	if len(trimmed) < 4 || !strings.EqualFold(trimmed[:4], "ENDM") {
		return false
	}
	if len(trimmed) == 4 {
		return true
	}
	switch trimmed[4] {
	case ' ', '\t', ';':
		return true
	}
	return false
}

// ExpandMacro substitutes arguments into a macro body and returns the
// expanded lines. Missing arguments substitute as empty strings.
func ExpandMacro(sym *Symbol, args []string) []string {
	expanded := make([]string, 0, len(sym.MacroBody))
	for _, line := range sym.MacroBody {
		expanded = append(expanded, substituteParams(line, sym.MacroParams, args))
	}
	return expanded
}

// substituteParams replaces whole-word occurrences of each parameter
// name with its argument, case-insensitively.
func substituteParams(line string, params, args []string) string {
	var sb strings.Builder
	for i := 0; i < len(line); {
		replaced := false
		for p, param := range params {
			if len(param) == 0 || i+len(param) > len(line) {
				continue
			}
			if !strings.EqualFold(line[i:i+len(param)], param) {
				continue
			}
			// Whole-word check on both sides
			if i > 0 && isWordChar(line[i-1]) {
				continue
			}
			if i+len(param) < len(line) && isWordChar(line[i+len(param)]) {
				continue
			}
			if p < len(args) {
				sb.WriteString(args[p])
			}
			i += len(param)
			replaced = true
			break
		}
		if !replaced {
			sb.WriteByte(line[i])
			i++
		}
	}
	return sb.String()
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// SplitMacroArgs splits a macro invocation's argument string on commas,
// respecting parenthesis nesting so expressions pass through intact.
func SplitMacroArgs(s string) []string {
	var args []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ';':
			if depth == 0 {
				s = s[:i]
				i = len(s)
			}
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" {
		args = append(args, tail)
	}
	return args
}
