package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/parser"
)

// detectCommand creates the detect command, which prints the dialect the
// header scan would pick without running a full parse.
func (c *CLI) detectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [file]",
		Short: "Detect the diagram dialect of a file or stdin",
		Long: `Detect scans the first meaningful line of the input and prints the
diagram dialect a full parse would use. Reads stdin when no file is given
or the file is "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			source, err := readSource(path)
			if err != nil {
				return err
			}

			detected := parser.DetectDiagramType(source)
			if detected == ir.DiagramUnknown {
				printWarning("No known dialect header found; a full parse would fall back to %s", ir.DiagramFlowchart)
			}
			fmt.Println(detected)
			return nil
		},
	}
}
