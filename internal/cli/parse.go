package cli

import (
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/pipeline"
)

// parseOpts holds the command-line flags shared by the pipeline commands.
type parseOpts struct {
	output  string // output file path, stdout when empty
	dialect string // dialect override, auto-detect when empty
	refresh bool   // recompute even when a cached result exists
	noCache bool   // skip the cache entirely
}

func (o *parseOpts) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Dialect: o.dialect,
		Refresh: o.refresh,
	}
}

// registerPipelineFlags attaches the flags every pipeline command shares.
func registerPipelineFlags(cmd *cobra.Command, opts *parseOpts) {
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.dialect, "dialect", "d", "", "dialect override (default: auto-detect)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if a cached result exists")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
}

// parseCommand creates the parse command, which converts diagram text into
// the typed intermediate representation as JSON.
func (c *CLI) parseCommand() *cobra.Command {
	var opts parseOpts

	cmd := &cobra.Command{
		Use:   "parse [files...]",
		Short: "Parse diagram text into its intermediate representation",
		Long: `Parse converts Mermaid-style or Graphviz DOT diagram text into a typed
intermediate representation, printed as JSON. Reads stdin when no file is
given or a file is "-". With multiple files, each input is written next to
its source as <name>.json and progress is shown interactively.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return c.runBatchParse(cmd, args, &opts)
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runParse(cmd, path, &opts)
		},
	}

	registerPipelineFlags(cmd, &opts)
	return cmd
}

func (c *CLI) runParse(cmd *cobra.Command, path string, opts *parseOpts) error {
	source, err := readSource(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	parsed, cached, err := runner.ParseWithCacheInfo(cmd.Context(), source, opts.pipelineOptions())
	if err != nil {
		return err
	}

	data, err := ir.MarshalDiagram(parsed.IR)
	if err != nil {
		return err
	}
	if err := writeArtifact(opts.output, append(data, '\n')); err != nil {
		return err
	}

	for _, w := range parsed.Warnings {
		printWarning("%s", w)
	}
	if opts.output != "" {
		printSuccess("Parsed %s diagram", parsed.IR.Type)
		printFile(opts.output)
		printStats(len(parsed.IR.Nodes), len(parsed.IR.Edges), cached)
		if path != "" {
			printNextStep("Compute the layout", appName+" layout "+path)
		}
	}
	return nil
}
