// Package tui provides a read-only post-assembly browser: a hex dump
// of the output image next to the resolved symbol table.
package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/tlcs900/tlcs900asm/parser"
)

// Browser displays an assembled image and its symbols
type Browser struct {
	App        *tview.Application
	MainLayout *tview.Flex

	HexView    *tview.TextView
	SymbolView *tview.TextView
	StatusBar  *tview.TextView

	image        []byte
	base         uint32
	bytesPerLine int
}

// NewBrowser creates a browser over an assembled image
func NewBrowser(image []byte, base uint32, symbols *parser.SymbolTable, bytesPerLine int) *Browser {
	if bytesPerLine <= 0 {
		bytesPerLine = 16
	}
	b := &Browser{
		App:          tview.NewApplication(),
		image:        image,
		base:         base,
		bytesPerLine: bytesPerLine,
	}

	b.HexView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	b.HexView.SetBorder(true).SetTitle(" Image ")

	b.SymbolView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	b.SymbolView.SetBorder(true).SetTitle(" Symbols ")

	b.StatusBar = tview.NewTextView().SetDynamicColors(true)
	b.StatusBar.SetText(fmt.Sprintf(" %d bytes at $%06X — Tab switches panes, q quits", len(image), base))

	b.HexView.SetText(b.formatHexDump())
	b.SymbolView.SetText(formatSymbols(symbols))

	panes := tview.NewFlex().
		AddItem(b.HexView, 0, 3, true).
		AddItem(b.SymbolView, 0, 2, false)
	b.MainLayout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(panes, 0, 1, true).
		AddItem(b.StatusBar, 1, 0, false)

	b.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyEscape,
			event.Rune() == 'q', event.Rune() == 'Q':
			b.App.Stop()
			return nil
		case event.Key() == tcell.KeyTab:
			if b.HexView.HasFocus() {
				b.App.SetFocus(b.SymbolView)
			} else {
				b.App.SetFocus(b.HexView)
			}
			return nil
		}
		return event
	})

	return b
}

// Run blocks until the user quits
func (b *Browser) Run() error {
	return b.App.SetRoot(b.MainLayout, true).Run()
}

// formatHexDump renders the image with addresses from the output base
func (b *Browser) formatHexDump() string {
	var sb strings.Builder
	for start := 0; start < len(b.image); start += b.bytesPerLine {
		end := start + b.bytesPerLine
		if end > len(b.image) {
			end = len(b.image)
		}
		fmt.Fprintf(&sb, "[yellow]$%06X[white]  ", b.base+uint32(start))
		for i := start; i < end; i++ {
			fmt.Fprintf(&sb, "%02X ", b.image[i])
		}
		for i := end; i < start+b.bytesPerLine; i++ {
			sb.WriteString("   ")
		}
		sb.WriteString(" [green]")
		for i := start; i < end; i++ {
			c := b.image[i]
			if c < 0x20 || c > 0x7E {
				c = '.'
			}
			sb.WriteByte(c)
		}
		sb.WriteString("[white]\n")
	}
	return sb.String()
}

func formatSymbols(symbols *parser.SymbolTable) string {
	var sb strings.Builder
	for _, sym := range symbols.All() {
		if sym.Kind == parser.SymbolMacro {
			fmt.Fprintf(&sb, "[blue]%-24s[white] %-6s\n", sym.Name, sym.Kind)
			continue
		}
		fmt.Fprintf(&sb, "[blue]%-24s[white] %-6s $%08X\n", sym.Name, sym.Kind, uint32(sym.Value))
	}
	return sb.String()
}
