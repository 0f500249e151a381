package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pasc-lang/pasc/pkg/pasc"
	"github.com/spf13/cobra"
)

var parseSource string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a pasc source file and print its AST",
	Long: `Parse source code and print the Abstract Syntax Tree as a box-drawing
tree, rooted at the Program node.

If no file is provided, reads from stdin. Use -e to parse a snippet
from the command line instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseSource, "expression", "e", "", "parse a program given on the command line")
}

func runParse(_ *cobra.Command, args []string) error {
	var (
		source string
		name   string
	)

	switch {
	case parseSource != "":
		source = parseSource
		name = "<expression>"
	case len(args) > 0:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		source = string(data)
		name = args[0]
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		source = string(data)
		name = "<stdin>"
	}

	prog, err := pasc.Parse(source, name)
	if err != nil {
		exitWithError("%s", formatCompilerError(err))
	}

	fmt.Println(strings.Join(pasc.FormatTree(prog), "\n"))
	return nil
}
