package cli

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/necklace/pkg/groups"
	"github.com/matzehuels/necklace/pkg/trial"
)

// stdout receives all command output; tests replace it.
var stdout io.Writer = os.Stdout

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for failures.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleTableHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleTableBorder = lipgloss.NewStyle().Foreground(colorDim)
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
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, styleIconError.Render(iconError)+" "+msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, "  "+StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(stdout, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Fprintln(stdout)
}

// =============================================================================
// Domain Output
// =============================================================================

// printGroupSet prints one line per group with its size.
func printGroupSet(gs *groups.GroupSet) {
	for _, g := range gs.Groups() {
		printKeyValue(g.Name, fmt.Sprintf("%s %s",
			StyleNumber.Render(strconv.Itoa(g.Size())),
			StyleDim.Render(strings.Join(g.Labels(), " "))))
	}
}

// printSequence prints labels colored by validity of each junction. Labels
// that repeat the group of their predecessor are shown in red.
func printSequence(labels, groupTags []string) {
	var b strings.Builder
	for i, l := range labels {
		if i > 0 {
			b.WriteString(StyleDim.Render(" "))
		}
		if i > 0 && groupTags[i] == groupTags[i-1] {
			b.WriteString(StyleError.Render(l))
		} else {
			b.WriteString(StyleValue.Render(l))
		}
	}
	fmt.Fprintln(stdout, "  "+b.String())
}

// printRunStats prints report totals on a single line.
func printRunStats(r *trial.Report, cached bool) {
	parts := []string{
		fmt.Sprintf("%d trials", r.Trials),
		fmt.Sprintf("%d distinct rings", r.Distinct()),
		r.Duration.Round(time.Millisecond).String(),
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	line += StyleDim.Render(" · ") + statusStyle.Render(status)
	fmt.Fprintln(stdout, line)
}

// printReport prints the outcome counts, the start group table and the most
// frequent rings.
func printReport(r *trial.Report) {
	printKeyValue("valid", fmt.Sprintf("%d / %d", r.Valid, r.Trials))
	if r.Invalid > 0 {
		printWarning("%d sequences broke the adjacency rule", r.Invalid)
	}
	printKeyValue("cycles", fmt.Sprintf("%d (%.2f%%)", r.Cycles, 100*r.CycleRate()))
	printKeyValue("non-cycles", strconv.Itoa(r.NonCycles))
	printNewline()

	fmt.Fprintln(stdout, StyleTitle.Render("Start groups"))
	fmt.Fprintln(stdout, startTable(r).Render())
	printNewline()

	if len(r.Top) > 0 {
		fmt.Fprintln(stdout, StyleTitle.Render(fmt.Sprintf("Top %d rings", len(r.Top))))
		fmt.Fprintln(stdout, topTable(r).Render())
	}
}

func startTable(r *trial.Report) *table.Table {
	names := make([]string, 0, len(r.StartGroups))
	for g := range r.StartGroups {
		names = append(names, g)
	}
	for g := range r.ExpectedStarts {
		if _, ok := r.StartGroups[g]; !ok {
			names = append(names, g)
		}
	}
	slices.Sort(names)

	rows := make([][]string, len(names))
	for i, g := range names {
		rows[i] = []string{
			g,
			strconv.Itoa(r.StartGroups[g]),
			fmt.Sprintf("%.4f", r.StartShare(g)),
			fmt.Sprintf("%.4f", r.ExpectedStarts[g]),
		}
	}
	return newTable("Group", "Count", "Share", "Expected").Rows(rows...)
}

func topTable(r *trial.Report) *table.Table {
	rows := make([][]string, len(r.Top))
	for i, f := range r.Top {
		share := 0.0
		if r.Cycles > 0 {
			share = float64(f.Count) / float64(r.Cycles)
		}
		rows[i] = []string{strconv.Itoa(i + 1), f.Key, strconv.Itoa(f.Count), fmt.Sprintf("%.4f", share)}
	}
	return newTable("#", "Ring", "Count", "Share").Rows(rows...)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			if col == 0 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
}
