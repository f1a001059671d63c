package parser

import (
	"fmt"
	"sort"
	"strings"
)

// SymbolKind represents the kind of a symbol
type SymbolKind int

const (
	SymbolLabel SymbolKind = iota
	SymbolEqu
	SymbolSet
	SymbolMacro
	SymbolSection
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolLabel:
		return "LABEL"
	case SymbolEqu:
		return "EQU"
	case SymbolSet:
		return "SET"
	case SymbolMacro:
		return "MACRO"
	case SymbolSection:
		return "SECTION"
	default:
		return "?"
	}
}

// Symbol is one entry in the symbol table. Macro symbols additionally
// carry their parameter names and raw body lines.
type Symbol struct {
	Name       string
	Kind       SymbolKind
	Value      int64
	Defined    bool
	Referenced bool
	File       string
	Line       int

	MacroParams []string
	MacroBody   []string

	next *Symbol
}

const symbolTableSize = 4096

// SymbolTable is a case-insensitive hash table with collision chaining.
// It persists across relaxation iterations; only values shift as sizes
// converge.
type SymbolTable struct {
	buckets [symbolTableSize]*Symbol
	count   int
}

// NewSymbolTable creates an empty symbol table
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{}
}

// fnv1a hashes the uppercase-folded bytes of a name
func fnv1a(name string) uint32 {
	hash := uint32(2166136261)
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		hash ^= uint32(c)
		hash *= 16777619
	}
	return hash
}

// Lookup finds a symbol by name, case-insensitively
func (st *SymbolTable) Lookup(name string) *Symbol {
	h := fnv1a(name) % symbolTableSize
	for sym := st.buckets[h]; sym != nil; sym = sym.next {
		if strings.EqualFold(sym.Name, name) {
			return sym
		}
	}
	return nil
}

// Define creates or updates a symbol. Rules:
//   - Set symbols (old or new kind) overwrite freely.
//   - Redefining a defined symbol is an error when strict — the first
//     sizing iteration, where every definition is textually fresh.
//   - Otherwise the value updates silently; later iterations and the
//     emitting pass legitimately redefine every label as relaxation
//     shifts addresses.
func (st *SymbolTable) Define(name string, kind SymbolKind, value int64, file string, line int, strict bool) (*Symbol, error) {
	if existing := st.Lookup(name); existing != nil {
		if existing.Kind == SymbolSet || kind == SymbolSet {
			existing.Kind = kind
			existing.Value = value
			existing.Defined = true
			return existing, nil
		}
		if existing.Defined && strict {
			return nil, fmt.Errorf("symbol %q already defined at %s:%d",
				name, existing.File, existing.Line)
		}
		existing.Value = value
		existing.Defined = true
		return existing, nil
	}

	sym := &Symbol{
		Name:    name,
		Kind:    kind,
		Value:   value,
		Defined: true,
		File:    file,
		Line:    line,
	}
	h := fnv1a(name) % symbolTableSize
	sym.next = st.buckets[h]
	st.buckets[h] = sym
	st.count++
	return sym, nil
}

// Value returns a symbol's value, marking it referenced. The second
// result reports whether the symbol exists and is defined.
func (st *SymbolTable) Value(name string) (int64, bool) {
	sym := st.Lookup(name)
	if sym == nil {
		return 0, false
	}
	sym.Referenced = true
	return sym.Value, sym.Defined
}

// IsDefined reports whether a name resolves to a defined symbol
func (st *SymbolTable) IsDefined(name string) bool {
	sym := st.Lookup(name)
	return sym != nil && sym.Defined
}

// Len returns the number of symbols in the table
func (st *SymbolTable) Len() int {
	return st.count
}

// All returns every symbol sorted by name
func (st *SymbolTable) All() []*Symbol {
	syms := make([]*Symbol, 0, st.count)
	for _, head := range st.buckets {
		for sym := head; sym != nil; sym = sym.next {
			syms = append(syms, sym)
		}
	}
	sort.Slice(syms, func(i, j int) bool {
		return strings.ToUpper(syms[i].Name) < strings.ToUpper(syms[j].Name)
	})
	return syms
}

// Dump formats the table for the symbols listing
func (st *SymbolTable) Dump() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-32s %-8s %s\n", "Name", "Kind", "Value")
	fmt.Fprintf(&sb, "%-32s %-8s %s\n", "----", "----", "-----")
	for _, sym := range st.All() {
		fmt.Fprintf(&sb, "%-32s %-8s $%08X\n", sym.Name, sym.Kind, uint32(sym.Value))
	}
	return sb.String()
}
