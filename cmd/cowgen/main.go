// Command cowgen scans a package for struct types with cow.Shared[X]
// fields and generates Step<Field> helper functions for them.
package main

import (
	"fmt"
	"os"

	"github.com/spinewalk/cow/gen"
)

func main() {
	if err := gen.Main(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
