package cmd

import (
	"fmt"
	"os"

	"github.com/pasc-lang/pasc/internal/errors"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "pasc",
	Short: "Pascal-subset compiler front end",
	Long: `pasc parses a small Pascal-like source language and emits JVM-family
assembly text: a class header, static fields, static methods, and the
branch labels for if/while control flow. A for loop is emitted as its
initial assignment, bound and body, without loop labels or branches.

The source is parsed into a syntax tree first; scope/type checking and
code emission then happen together in a single walk of that tree. It
does not assemble the output into a class file, nor does it run it.`,
	Version: Version,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}

// formatCompilerError renders err with source context and a caret when it
// is a *errors.CompilerError, falling back to its plain message otherwise.
func formatCompilerError(err error) string {
	if ce, ok := err.(*errors.CompilerError); ok {
		return ce.Format(true)
	}
	return err.Error()
}
