package gen

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// buildID is set by a linker flag.
var buildID = "dev"

// Main is the entry point for the cowgen tool, invoked from
// cmd/cowgen's main().
func Main() error {
	var cfg config
	rootCmd := &cobra.Command{
		Use: "cowgen",
		Short: `cowgen generates Step<Field> helpers for struct types holding
cow.Shared[X] fields.
https://github.com/spinewalk/cow`,
		Example: `
cowgen Node
  Scans the package in the current directory for a struct type named
  Node and writes node_cow.go with a Step<Field> function for each of
  its cow.Shared[X] fields.

cowgen -d ./tree -o generated.go Node Leaf
  As above, but scans ./tree and writes every requested type's helpers
  into one combined file.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.typeNames = args
			g, err := newGeneration(cfg)
			if err != nil {
				return err
			}
			return g.Execute()
		},
	}

	rootCmd.Flags().StringVarP(&cfg.dir, "dir", "d", ".",
		"the directory to operate in")

	rootCmd.Flags().StringVarP(&cfg.outFile, "out", "o", "",
		"overrides the output file name")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "version",
			Short: "print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Printf("cowgen version %s; %s", buildID, runtime.Version())
			},
		})

	return rootCmd.Execute()
}
