package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pasc-lang/pasc/pkg/pasc"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Parse and compile one program per line",
	Long: `Start an interactive loop that reads a whole program from each
line of input, compiles it, and prints the resulting assembly listing
(or the diagnostic, on failure).

Each line is a complete, self-contained "Program ... end." unit; there
is no incremental statement-at-a-time evaluation.`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, _ []string) error {
	in := bufio.NewScanner(cmd.InOrStdin())
	in.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "pasc repl - one program per line, 'exit' to quit")

	for {
		fmt.Fprint(out, ">>> ")
		if !in.Scan() {
			return textScannerErr(in)
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		_, listing, err := pasc.Compile(line, "<repl>")
		if err != nil {
			fmt.Fprintln(out, formatCompilerError(err))
			continue
		}
		fmt.Fprintln(out, strings.Join(listing, "\n"))
	}
}

func textScannerErr(in *bufio.Scanner) error {
	if err := in.Err(); err != nil && err != io.EOF {
		return err
	}
	return nil
}
