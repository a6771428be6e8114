package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/pipeline"
)

// renderCommand creates the render command, which runs the full pipeline
// and writes the exported artifact.
func (c *CLI) renderCommand() *cobra.Command {
	var opts parseOpts
	var format string
	var detailed bool

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a diagram to JSON, DOT, SVG, or PNG",
		Long: `Render parses the input, computes the layout, and exports it in the
requested format. JSON and DOT are pure data hand-offs; SVG and PNG run
the embedded Graphviz engine over the layout-pinned DOT. Reads stdin when
no file is given or the file is "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runRender(cmd, path, &opts, format, detailed)
		},
	}

	registerPipelineFlags(cmd, &opts)
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatDOT, "output format: json, dot, svg, png")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include shapes, classes, and members in node labels")
	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts *parseOpts, format string, detailed bool) error {
	source, err := readSource(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	// Graphviz rendering can take a while on large diagrams.
	var spin *Spinner
	if opts.output != "" && (format == pipeline.FormatSVG || format == pipeline.FormatPNG) {
		spin = newSpinnerWithContext(cmd.Context(), "Rendering "+strings.ToUpper(format))
		spin.Start()
	}

	pipeOpts := opts.pipelineOptions()
	pipeOpts.Detailed = detailed
	pipeOpts.Formats = []string{format}
	result, err := runner.Execute(cmd.Context(), source, pipeOpts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	if err := writeArtifact(opts.output, result.Artifacts[format]); err != nil {
		return err
	}

	for _, w := range result.Parse.Warnings {
		printWarning("%s", w)
	}
	if opts.output != "" {
		printSuccess("Rendered %s diagram as %s", result.Detected, format)
		printFile(opts.output)
		printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	}
	return nil
}
