package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	tt "github.com/gnoswap-labs/dracula/internal/types"
)

// maxFileWidth bounds the file column; longer names are truncated.
const maxFileWidth = 60

type align uint8

const (
	alignLeft align = iota
	alignRight
)

type column struct {
	title string
	align align
	cell  func(tt.FileStat) string
}

func summaryColumns(mode tt.Mode) []column {
	cols := []column{
		{"File", alignLeft, func(s tt.FileStat) string { return s.Filename }},
		{"Language", alignLeft, func(s tt.FileStat) string { return s.Language }},
		{"Lines", alignRight, func(s tt.FileStat) string { return strconv.Itoa(s.Lines) }},
	}
	if mode.Native() {
		cols = append(cols, column{"Meaningful", alignRight, func(s tt.FileStat) string {
			return strconv.Itoa(s.Meaningful)
		}})
	}
	if mode.Tree() {
		cols = append(cols, column{"Executable", alignRight, func(s tt.FileStat) string {
			if s.Unknown {
				return markUnknown
			}
			return strconv.Itoa(len(s.Executable))
		}})
	}
	return cols
}

// GenerateSummary renders one row per file followed by the totals. Columns
// are chosen by mode.
func GenerateSummary(stats []tt.FileStat, mode tt.Mode) string {
	cols := summaryColumns(mode)
	summary := tt.Summarize(stats)

	rows := make([][]string, 0, len(stats))
	for _, st := range stats {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = c.cell(st)
		}
		row[0] = runewidth.Truncate(row[0], maxFileWidth, "...")
		rows = append(rows, row)
	}

	total := []string{"Total", plural(summary.Files, "file"), strconv.Itoa(summary.Lines)}
	if mode.Native() {
		total = append(total, strconv.Itoa(summary.Meaningful))
	}
	if mode.Tree() {
		total = append(total, strconv.Itoa(summary.Executable))
	}

	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = runewidth.StringWidth(c.title)
	}
	for _, row := range append(rows, total) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var sb strings.Builder
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	sb.WriteString(headerStyle.Sprint(renderRow(titles, cols, widths)))
	sb.WriteString("\n")

	for _, row := range rows {
		line := renderRow(row, cols, widths)
		name := row[0]
		// color only the name, after padding on the plain text
		sb.WriteString(fileStyle.Sprint(name))
		sb.WriteString(line[len(name):])
		sb.WriteString("\n")
	}

	ruleWidth := 0
	for _, w := range widths {
		ruleWidth += w
	}
	ruleWidth += 2 * (len(widths) - 1)
	sb.WriteString(lineStyle.Sprint(strings.Repeat("-", ruleWidth)))
	sb.WriteString("\n")
	sb.WriteString(headerStyle.Sprint(renderRow(total, cols, widths)))
	sb.WriteString("\n")

	if summary.Unknown > 0 {
		sb.WriteString(unknownStyle.Sprintf("%s without a syntax tree answer\n", plural(summary.Unknown, "file")))
	}
	return sb.String()
}

func renderRow(cells []string, cols []column, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		if cols[i].align == alignRight {
			parts[i] = runewidth.FillLeft(cell, widths[i])
		} else {
			parts[i] = runewidth.FillRight(cell, widths[i])
		}
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

// GenerateLineList renders line numbers as a comma separated list, or "-"
// when there are none.
func GenerateLineList(lines []int) string {
	if len(lines) == 0 {
		return "-"
	}
	parts := make([]string, len(lines))
	for i, n := range lines {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// GenerateStatLine is a one-line description of a file stat.
func GenerateStatLine(stat tt.FileStat, mode tt.Mode) string {
	return fmt.Sprintf("%s: %s", fileStyle.Sprint(stat.Filename), counts(stat, mode))
}
