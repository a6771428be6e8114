package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/layout"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/pipeline"
)

// layoutCommand creates the layout command, which parses the input and
// computes deterministic node geometry as JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts parseOpts
	var trace bool

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Compute a deterministic layered layout",
		Long: `Layout parses the input and computes node boxes, edge routes, and
cluster bounds, printed as JSON. With --trace the output also carries one
geometry snapshot per layout phase. Reads stdin when no file is given or
the file is "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runLayout(cmd, path, &opts, trace)
		},
	}

	registerPipelineFlags(cmd, &opts)
	cmd.Flags().BoolVar(&trace, "trace", false, "include one snapshot per layout phase")
	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, path string, opts *parseOpts, trace bool) error {
	source, err := readSource(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	pipeOpts := opts.pipelineOptions()
	pipeOpts.Trace = trace
	pipeOpts.Formats = []string{pipeline.FormatJSON}
	result, err := runner.Execute(cmd.Context(), source, pipeOpts)
	if err != nil {
		return err
	}

	out := struct {
		Layout    *layout.Layout    `json:"layout"`
		Snapshots []layout.Snapshot `json:"snapshots,omitempty"`
	}{Layout: result.Layout, Snapshots: result.Snapshots}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if err := writeArtifact(opts.output, append(data, '\n')); err != nil {
		return err
	}

	for _, w := range result.Parse.Warnings {
		printWarning("%s", w)
	}
	if opts.output != "" {
		printSuccess("Computed %s layout (%.0fx%.0f)", result.Detected, result.Layout.Bounds.Width, result.Layout.Bounds.Height)
		printFile(opts.output)
		printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)
	}
	return nil
}
