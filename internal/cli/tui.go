package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

// =============================================================================
// BatchParseModel - Interactive multi-file parse progress
// =============================================================================

// batchResult records the outcome of parsing one input file.
type batchResult struct {
	path    string
	outPath string
	nodes   int
	edges   int
	typ     ir.DiagramType
	cached  bool
	err     error
}

// batchDoneMsg is emitted when one file finishes parsing.
type batchDoneMsg batchResult

// batchTickMsg advances the spinner animation.
type batchTickMsg struct{}

// batchParseFn parses a single file and reports the result.
type batchParseFn func(path string) batchResult

// BatchParseModel is the bubbletea model that drives a multi-file parse,
// processing files sequentially and showing per-file progress.
type BatchParseModel struct {
	Files   []string
	Results []batchResult
	frame   int
	parse   batchParseFn
}

// NewBatchParseModel creates a batch parse model over the given files.
func NewBatchParseModel(files []string, parse batchParseFn) BatchParseModel {
	return BatchParseModel{Files: files, parse: parse}
}

func (m BatchParseModel) Init() tea.Cmd {
	return tea.Batch(m.parseCmd(m.Files[0]), batchTick())
}

func batchTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return batchTickMsg{}
	})
}

func (m BatchParseModel) parseCmd(path string) tea.Cmd {
	return func() tea.Msg {
		return batchDoneMsg(m.parse(path))
	}
}

func (m BatchParseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case batchTickMsg:
		m.frame++
		return m, batchTick()
	case batchDoneMsg:
		m.Results = append(m.Results, batchResult(msg))
		if len(m.Results) == len(m.Files) {
			return m, tea.Quit
		}
		return m, m.parseCmd(m.Files[len(m.Results)])
	}
	return m, nil
}

func (m BatchParseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Parsing %d diagrams", len(m.Files))))
	b.WriteString("\n\n")

	for i, path := range m.Files {
		switch {
		case i < len(m.Results):
			r := m.Results[i]
			if r.err != nil {
				b.WriteString(styleIconError.Render(iconError) + " " + path)
				b.WriteString(StyleDim.Render("  " + r.err.Error()))
			} else {
				status := iconFresh
				if r.cached {
					status = iconCached
				}
				b.WriteString(styleIconSuccess.Render(iconSuccess) + " " + path)
				b.WriteString(StyleDim.Render(fmt.Sprintf("  %s · %d nodes · %d edges · %s", r.typ, r.nodes, r.edges, status)))
			}
		case i == len(m.Results):
			frame := spinnerFrames[m.frame%len(spinnerFrames)]
			b.WriteString(styleIconSpinner.Render(frame) + " " + StyleDim.Render(path))
		default:
			b.WriteString("  " + StyleDim.Render(path))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// Batch Parse Entry Point
// =============================================================================

// runBatchParse parses several files sequentially, writing each IR next to
// its source as <name>.json, with interactive progress.
func (c *CLI) runBatchParse(cmd *cobra.Command, files []string, opts *parseOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	pipeOpts := opts.pipelineOptions()
	parseOne := func(path string) batchResult {
		r := batchResult{path: path, outPath: jsonSibling(path)}
		source, err := readSource(path)
		if err != nil {
			r.err = err
			return r
		}
		parsed, cached, err := runner.ParseWithCacheInfo(cmd.Context(), source, pipeOpts)
		if err != nil {
			r.err = err
			return r
		}
		data, err := ir.MarshalDiagram(parsed.IR)
		if err != nil {
			r.err = err
			return r
		}
		if err := writeArtifact(r.outPath, append(data, '\n')); err != nil {
			r.err = err
			return r
		}
		r.typ = parsed.IR.Type
		r.nodes = len(parsed.IR.Nodes)
		r.edges = len(parsed.IR.Edges)
		r.cached = cached
		return r
	}

	model := NewBatchParseModel(files, parseOne)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return err
	}

	results := final.(BatchParseModel).Results
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			printError("%s: %v", r.path, r.err)
		} else {
			printFile(r.outPath)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to parse", failed, len(files))
	}
	printSuccess("Parsed %d diagrams", len(results))
	return nil
}

// jsonSibling returns path with its extension replaced by .json.
func jsonSibling(path string) string {
	if i := strings.LastIndex(path, "."); i > strings.LastIndex(path, "/") {
		return path[:i] + ".json"
	}
	return path + ".json"
}
