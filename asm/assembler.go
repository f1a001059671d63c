// Package asm holds the assembler state, the size-relaxation driver and
// the line dispatcher that feed the instruction encoder.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tlcs900/tlcs900asm/parser"
)

const (
	// MaxIterations bounds the relaxation loop; reaching it warns but
	// does not abort.
	MaxIterations = 10
	// MaxIncludeDepth bounds nested INCLUDE files
	MaxIncludeDepth = 16
	// MaxLineLength bounds one source line, in bytes
	MaxLineLength = 4096
	// MaxOperands bounds the operand vector of one instruction
	MaxOperands = 4
	// maxErrors abandons the current file once exceeded
	maxErrors = 10000
)

// Assembler is the process-scope assembly state. It is created empty,
// driven to a size fixpoint by Assemble, and then emits. The symbol
// table persists across iterations; the output buffer is rebuilt each
// time.
type Assembler struct {
	pc  uint32
	org uint32

	pass       int
	sizingPass bool
	maxMode    bool

	output     []byte
	outputBase uint32

	symbols    *parser.SymbolTable
	macro      parser.MacroCollector
	macroDepth int

	curFile      string
	curLine      int
	includeDepth int

	diags     parser.ErrorList
	abandoned bool

	Verbose bool
	// MaxIter bounds the relaxation loop; zero means MaxIterations.
	MaxIter int
	stderr  io.Writer
	stdout  io.Writer
}

// New creates an empty assembler. The TMP94C241 runs in MAX mode by
// default.
func New() *Assembler {
	return &Assembler{
		symbols: parser.NewSymbolTable(),
		maxMode: true,
		stderr:  os.Stderr,
		stdout:  os.Stdout,
	}
}

// Symbols returns the symbol table
func (a *Assembler) Symbols() *parser.SymbolTable { return a.symbols }

// PC returns the current program counter
func (a *Assembler) PC() uint32 { return a.pc }

// Pass returns the current pass number (1 or 2)
func (a *Assembler) Pass() int { return a.pass }

// SizingPass reports whether this is the conservative first iteration
func (a *Assembler) SizingPass() bool { return a.sizingPass }

// MaxMode reports whether 24-bit address semantics are active
func (a *Assembler) MaxMode() bool { return a.maxMode }

// ErrorCount returns the number of errors reported in the current pass
func (a *Assembler) ErrorCount() int { return len(a.diags.Errors) }

// WarningCount returns the number of warnings reported in the current
// pass
func (a *Assembler) WarningCount() int { return len(a.diags.Warnings) }

// Diagnostics returns the errors and warnings collected during the most
// recent pass.
func (a *Assembler) Diagnostics() *parser.ErrorList { return &a.diags }

// Errorf reports an error against the current source position. The
// diagnostic is printed immediately and collected; errors never unwind,
// the line dispatcher simply continues with the next line.
func (a *Assembler) Errorf(format string, args ...any) {
	pos := parser.Position{Filename: a.curFile, Line: a.curLine}
	msg := fmt.Sprintf(format, args...)
	err := parser.NewError(pos, classifyKind(msg), msg)
	a.diags.AddError(err)
	fmt.Fprintln(a.stderr, err.Error())
}

// Warnf reports a warning against the current source position
func (a *Assembler) Warnf(format string, args ...any) {
	pos := parser.Position{Filename: a.curFile, Line: a.curLine}
	warn := &parser.Warning{Pos: pos, Message: fmt.Sprintf(format, args...)}
	a.diags.AddWarning(warn)
	fmt.Fprintln(a.stderr, warn.String())
}

// classifyKind buckets a diagnostic message into the error taxonomy.
// Every message below is authored in this module, so matching on the
// phrasing is stable.
func classifyKind(msg string) parser.ErrorKind {
	switch {
	case strings.Contains(msg, "undefined symbol"):
		return parser.ErrorUndefinedSymbol
	case strings.Contains(msg, "already defined"):
		return parser.ErrorDuplicateSymbol
	case strings.Contains(msg, "division by zero"), strings.Contains(msg, "modulo by zero"):
		return parser.ErrorDivisionByZero
	case strings.Contains(msg, "out of range"):
		return parser.ErrorOutOfRange
	case strings.Contains(msg, "unknown instruction"):
		return parser.ErrorUnknownInstruction
	case strings.Contains(msg, "too deep"), strings.Contains(msg, "too many"),
		strings.Contains(msg, "too long"):
		return parser.ErrorResource
	case strings.Contains(msg, "cannot open"), strings.Contains(msg, "read error"),
		strings.Contains(msg, "beyond file size"):
		return parser.ErrorFileIO
	case strings.Contains(msg, "unterminated"), strings.Contains(msg, "unexpected character"),
		strings.Contains(msg, "invalid digit"), strings.Contains(msg, "character literal"):
		return parser.ErrorLexical
	case strings.Contains(msg, "requires a label"), strings.Contains(msg, "requires a filename"),
		strings.Contains(msg, "power of 2"), strings.Contains(msg, "expects ON or OFF"),
		strings.Contains(msg, "ORG"), strings.Contains(msg, "DS count"),
		strings.Contains(msg, "ENDM"), strings.Contains(msg, "macro"):
		return parser.ErrorInvalidDirective
	case strings.Contains(msg, "register"), strings.Contains(msg, "operand"),
		strings.Contains(msg, "addressing"), strings.Contains(msg, "requires"),
		strings.Contains(msg, "bit number"), strings.Contains(msg, "shift count"):
		return parser.ErrorInvalidOperand
	default:
		return parser.ErrorSyntax
	}
}

// resetPass clears the per-iteration state. Symbols and macros persist.
func (a *Assembler) resetPass(pass int, sizing bool) {
	a.pass = pass
	a.sizingPass = sizing
	a.pc = 0
	a.org = 0
	a.output = nil
	a.outputBase = 0
	a.diags = parser.ErrorList{}
	a.abandoned = false
	a.macroDepth = 0
	a.macro = parser.MacroCollector{}
}

// strictDefines reports whether duplicate definitions are errors: only
// on the first sizing iteration, where each definition is textually
// fresh.
func (a *Assembler) strictDefines() bool {
	return a.pass == 1 && a.sizingPass
}

// Assemble drives the whole source through sizing iterations until the
// final PC stops moving, then runs the emitting pass. Returns an error
// when the emitting pass (or any sizing pass) reported errors; the
// partial image remains readable through Output for inspection.
func (a *Assembler) Assemble(filename string) error {
	hadPass1Errors := false
	lastPC := uint32(0)
	iteration := 0
	maxIter := a.MaxIter
	if maxIter <= 0 {
		maxIter = MaxIterations
	}

	for {
		iteration++
		if a.Verbose {
			fmt.Fprintf(a.stdout, "Pass 1 (iteration %d): %s\n", iteration, filename)
		}

		a.resetPass(1, iteration == 1)
		if err := a.processFile(filename); err != nil {
			return err
		}
		if a.diags.HasErrors() {
			hadPass1Errors = true
		}

		if iteration > 1 && a.pc == lastPC {
			if a.Verbose {
				fmt.Fprintf(a.stdout, "  sizes stabilized at iteration %d (PC=$%06X)\n", iteration, a.pc)
			}
			break
		}
		lastPC = a.pc

		if iteration >= maxIter {
			fmt.Fprintf(a.stderr, "warning: sizes did not stabilize after %d iterations\n", maxIter)
			break
		}
	}

	if hadPass1Errors {
		fmt.Fprintf(a.stderr, "pass 1 had errors, continuing to pass 2\n")
	}

	if a.Verbose {
		fmt.Fprintf(a.stdout, "Pass 2: %s\n", filename)
	}
	sizingPC := a.pc
	a.resetPass(2, false)
	if err := a.processFile(filename); err != nil {
		return err
	}

	if a.pc != sizingPC && !hadPass1Errors {
		fmt.Fprintf(a.stderr, "warning: emitting pass PC $%06X differs from sizing PC $%06X\n", a.pc, sizingPC)
	}

	if a.diags.HasErrors() || hadPass1Errors {
		return fmt.Errorf("assembly failed with %d errors", a.ErrorCount())
	}

	if a.Verbose {
		fmt.Fprintf(a.stdout, "Assembly complete: %d bytes generated\n", len(a.output))
	}
	return nil
}

// AssembleString runs the driver over in-memory source, for tests and
// tooling.
func (a *Assembler) AssembleString(name, source string) error {
	dir, err := os.MkdirTemp("", "tlcs900asm")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(source), 0o600); err != nil {
		return err
	}
	return a.Assemble(path)
}

// processFile runs the line dispatcher over one file. INCLUDE re-enters
// here with the include depth bumped; the file handle is scoped to this
// frame and closed on every path out.
func (a *Assembler) processFile(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		if a.includeDepth > 0 {
			a.Errorf("cannot open file %q", filename)
			return nil
		}
		return fmt.Errorf("cannot open file %q: %w", filename, err)
	}
	defer f.Close()

	prevFile, prevLine := a.curFile, a.curLine
	a.curFile = filename
	a.curLine = 0
	defer func() {
		a.curFile, a.curLine = prevFile, prevLine
	}()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), MaxLineLength)

	for scanner.Scan() {
		a.curLine++
		a.parseLine(scanner.Text())

		if a.ErrorCount() > maxErrors {
			a.Errorf("too many errors, abandoning file")
			a.abandoned = true
			break
		}
		if a.abandoned {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		a.Errorf("read error: %v", err)
	}
	return nil
}

// includeFile handles the INCLUDE directive: resolve the path relative
// to the including file and process it in place.
func (a *Assembler) includeFile(filename string) bool {
	if a.includeDepth >= MaxIncludeDepth {
		a.Errorf("include nesting too deep (max %d)", MaxIncludeDepth)
		return false
	}
	resolved := a.resolvePath(filename)
	a.includeDepth++
	defer func() { a.includeDepth-- }()
	if err := a.processFile(resolved); err != nil {
		a.Errorf("%v", err)
		return false
	}
	return true
}

// resolvePath composes a directive's filename with the directory of the
// file currently being read.
func (a *Assembler) resolvePath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(filepath.Dir(a.curFile), filename)
}

// WriteOutput writes the raw image: the first byte of the file is the
// byte at OutputBase.
func (a *Assembler) WriteOutput(filename string) error {
	if len(a.output) == 0 {
		fmt.Fprintf(a.stderr, "warning: no output generated\n")
	}
	if err := os.WriteFile(filename, a.output, 0o644); err != nil {
		return fmt.Errorf("cannot write output file: %w", err)
	}
	if a.Verbose {
		fmt.Fprintf(a.stdout, "Wrote %d bytes to %s (base address $%06X)\n",
			len(a.output), filename, a.outputBase)
	}
	return nil
}

// SetDiagnosticWriter redirects diagnostics, primarily for tests
func (a *Assembler) SetDiagnosticWriter(w io.Writer) {
	a.stderr = w
	a.stdout = w
}
