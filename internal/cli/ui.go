package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Palette
// =============================================================================

// Terminal palette for pipeline output. Accent carries headings and the
// spinner, status colors follow the usual traffic-light reading, and muted
// shades keep per-stage detail lines from shouting over the results.
var (
	colorAccent  = lipgloss.Color("36")  // teal, headings and spinner
	colorOK      = lipgloss.Color("35")  // green, success and cache hits
	colorCaution = lipgloss.Color("220") // amber, parser warnings
	colorFail    = lipgloss.Color("167") // soft red, errors
	colorAction  = lipgloss.Color("75")  // light blue, follow-up commands
	colorBright  = lipgloss.Color("255") // white, file paths and values
	colorMuted   = lipgloss.Color("245") // gray, stat lines
	colorFaint   = lipgloss.Color("240") // dim gray, detail text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for headings in the picker and command output.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorFaint)

	// StyleValue for paths and data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorBright)

	// StyleWarning for parser warning lines.
	StyleWarning = lipgloss.NewStyle().Foreground(colorCaution)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorOK)
	styleIconError   = lipgloss.NewStyle().Foreground(colorFail)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorCaution)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorMuted)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)

	styleCached   = lipgloss.NewStyle().Foreground(colorOK)
	styleComputed = lipgloss.NewStyle().Foreground(colorMuted)

	styleCommand = lipgloss.NewStyle().Foreground(colorAction)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Lines
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

// printWarning surfaces a parser or pipeline warning without failing the run.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile points at an artifact the command wrote.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints one aligned key: value row.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorMuted).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printStats summarizes a diagram on one line: node and edge counts plus
// whether the result came from the cache.
func printStats(nodeCount, edgeCount int, cached bool) {
	var parts []string
	if nodeCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d nodes", nodeCount)))
	}
	if edgeCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d edges", edgeCount)))
	}
	if cached {
		parts = append(parts, styleCached.Render(iconCached))
	} else {
		parts = append(parts, styleComputed.Render(iconFresh))
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests the follow-up command for the artifact just made.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printInline prints dim text without a trailing newline.
func printInline(format string, args ...any) {
	fmt.Print(StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printNewline() {
	fmt.Println()
}
