// tlcs900asm is a two-pass assembler for the TLCS-900/H family
// (TMP94C241), consuming ASL-compatible source and emitting a raw
// binary image.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tlcs900/tlcs900asm/asm"
	"github.com/tlcs900/tlcs900asm/config"
	"github.com/tlcs900/tlcs900asm/tui"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		cfg = config.Default()
	}

	var (
		outputFile string
		verbose    bool
		openTUI    bool
	)

	rootCmd := &cobra.Command{
		Use:           "tlcs900asm [flags] input.asm",
		Short:         "TLCS-900/TMP94C241 assembler",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if outputFile == "" {
				outputFile = defaultOutput(input, cfg.Output.Extension)
			}

			as := asm.New()
			as.Verbose = verbose || cfg.Assembler.Verbose
			as.MaxIter = cfg.Assembler.MaxIterations

			if err := as.Assemble(input); err != nil {
				if len(as.Output()) > 0 {
					fmt.Fprintf(os.Stderr, "partial output: %d bytes generated (with errors)\n",
						len(as.Output()))
				}
				return err
			}

			if err := as.WriteOutput(outputFile); err != nil {
				return err
			}

			if openTUI || cfg.Browser.Enabled {
				browser := tui.NewBrowser(as.Output(), as.OutputBase(), as.Symbols(),
					cfg.Browser.BytesPerLine)
				if err := browser.Run(); err != nil {
					return err
				}
			}
			return nil
		},
	}
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: input with "+cfg.Output.Extension+")")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().BoolVar(&openTUI, "tui", false, "browse the assembled image and symbols")

	symbolsCmd := &cobra.Command{
		Use:           "symbols input.asm",
		Short:         "Assemble and dump the symbol table",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			as := asm.New()
			if err := as.Assemble(args[0]); err != nil {
				return err
			}
			fmt.Print(as.Symbols().Dump())
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tlcs900asm %s\n", Version)
			if Commit != "unknown" {
				fmt.Printf("commit: %s\n", Commit)
			}
		},
	}

	rootCmd.AddCommand(symbolsCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// defaultOutput swaps the input extension for the configured output
// suffix.
func defaultOutput(input, ext string) string {
	if i := strings.LastIndexByte(input, '.'); i > strings.LastIndexByte(input, '/') {
		return input[:i] + ext
	}
	return input + ext
}
