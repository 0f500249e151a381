// Command pasc is the CLI front end for the compiler core: parsing,
// printing the AST, and emitting assembly listings.
package main

import (
	"fmt"
	"os"

	"github.com/pasc-lang/pasc/cmd/pasc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
