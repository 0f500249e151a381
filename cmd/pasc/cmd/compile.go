package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pasc-lang/pasc/pkg/pasc"
	"github.com/spf13/cobra"
)

var outputFile string

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a pasc source file to assembly",
	Long: `Compile a program to JVM-family assembly text and save it as a .j file.

Examples:
  # Compile a program to assembly
  pasc compile program.pasc

  # Compile with a custom output file
  pasc compile program.pasc -o out.j`,
	Args: cobra.ExactArgs(1),
	RunE: compileFile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: <input>.j)")
}

func compileFile(cmd *cobra.Command, args []string) error {
	filename := args[0]
	verbose, _ := cmd.Flags().GetBool("verbose")

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	source := string(content)

	if verbose {
		fmt.Fprintf(os.Stderr, "Compiling %s...\n", filename)
	}

	_, listing, err := pasc.Compile(source, filename)
	if err != nil {
		exitWithError("%s", formatCompilerError(err))
	}

	outFile := outputFile
	if outFile == "" {
		ext := filepath.Ext(filename)
		if ext != "" {
			outFile = strings.TrimSuffix(filename, ext) + ".j"
		} else {
			outFile = filename + ".j"
		}
	}

	out := strings.Join(listing, "\n") + "\n"
	if err := os.WriteFile(outFile, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outFile, err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Assembly written to %s (%d lines)\n", outFile, len(listing))
	} else {
		fmt.Printf("Compiled %s -> %s\n", filename, outFile)
	}

	return nil
}
