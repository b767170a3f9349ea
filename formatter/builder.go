package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"

	tt "github.com/gnoswap-labs/dracula/internal/types"
)

const tabWidth = 8

// line markers
const (
	markMeaningful = "M"
	markExecutable = "E"
	markUnknown    = "?"
	markNone       = "."
	markOff        = " "
)

var (
	headerStyle     = color.New(color.FgHiWhite, color.Bold)
	languageStyle   = color.New(color.FgYellow, color.Bold)
	fileStyle       = color.New(color.FgCyan, color.Bold)
	lineStyle       = color.New(color.FgHiBlue, color.Bold)
	meaningfulStyle = color.New(color.FgGreen, color.Bold)
	unknownStyle    = color.New(color.FgRed, color.Bold)
	codeStyle       = color.New(color.FgWhite)
	skippedStyle    = color.New(color.Faint)
)

type SourceData struct {
	Filename        string
	Language        string
	Counts          string
	MaxLineNumWidth int
	Lines           []string
	Native          []string
	Tree            []string
}

const sourceTemplate = `{{header .Filename .Language .Counts .MaxLineNumWidth}}
{{snippet .Lines .Native .Tree .MaxLineNumWidth -}}
`

// GenerateAnnotatedSource renders src one line at a time, prefixed by its
// 1-based number and two markers: M for a meaningful line, E for an
// executable one. A line that is neither shows a dot in the column; a file
// the syntax tree could not classify shows ? in the executable column.
func GenerateAnnotatedSource(stat tt.FileStat, src string, mode tt.Mode) string {
	lines := splitLines(src)

	data := SourceData{
		Filename:        stat.Filename,
		Language:        stat.Language,
		Counts:          counts(stat, mode),
		MaxLineNumWidth: calculateMaxLineNumWidth(len(lines)),
		Lines:           lines,
		Native:          nativeMarks(stat, mode, len(lines)),
		Tree:            treeMarks(stat, mode, len(lines)),
	}

	funcMap := template.FuncMap{
		"header":  header,
		"snippet": codeSnippet,
	}
	tmpl := template.Must(template.New("source").Funcs(funcMap).Parse(sourceTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting source: %v", err)
	}
	return buf.String()
}

func counts(stat tt.FileStat, mode tt.Mode) string {
	parts := []string{plural(stat.Lines, "line")}
	if mode.Native() {
		parts = append(parts, fmt.Sprintf("%d meaningful", stat.Meaningful))
	}
	if mode.Tree() {
		if stat.Unknown {
			parts = append(parts, "executable unknown")
		} else {
			parts = append(parts, fmt.Sprintf("%d executable", len(stat.Executable)))
		}
	}
	return strings.Join(parts, ", ")
}

func nativeMarks(stat tt.FileStat, mode tt.Mode, n int) []string {
	marks := make([]string, n)
	if !mode.Native() {
		fill(marks, markOff)
		return marks
	}
	fill(marks, markNone)
	for _, idx := range stat.Indices {
		if idx >= 0 && idx < n {
			marks[idx] = markMeaningful
		}
	}
	return marks
}

func treeMarks(stat tt.FileStat, mode tt.Mode, n int) []string {
	marks := make([]string, n)
	switch {
	case !mode.Tree():
		fill(marks, markOff)
		return marks
	case stat.Unknown:
		fill(marks, markUnknown)
		return marks
	}
	fill(marks, markNone)
	for _, line := range stat.Executable {
		if line >= 1 && line <= n {
			marks[line-1] = markExecutable
		}
	}
	return marks
}

func fill(s []string, v string) {
	for i := range s {
		s[i] = v
	}
}

// utils functions used in the text templates

func header(filename, language, counts string, maxLineNumWidth int) string {
	endString := fileStyle.Sprint(filename)
	if language != "" {
		endString += " (" + languageStyle.Sprint(language) + ")"
	}
	endString += "\n"

	padding := strings.Repeat(" ", maxLineNumWidth)
	endString += lineStyle.Sprintf("%s --> ", padding)
	endString += counts
	return endString
}

func codeSnippet(lines, native, tree []string, maxLineNumWidth int) string {
	bar := strings.Repeat(" ", maxLineNumWidth+4)
	endString := lineStyle.Sprintf("%s|\n", bar)

	for i, line := range lines {
		lineNum := fmt.Sprintf("%*d", maxLineNumWidth, i+1)
		endString += lineStyle.Sprint(lineNum) + " "
		endString += markStyle(native[i]).Sprint(native[i])
		endString += markStyle(tree[i]).Sprint(tree[i])
		endString += lineStyle.Sprint(" | ")

		text := expandTabs(line)
		if native[i] == markMeaningful || tree[i] == markExecutable {
			endString += codeStyle.Sprintf("%s\n", text)
		} else {
			endString += skippedStyle.Sprintf("%s\n", text)
		}
	}

	return endString
}

func markStyle(mark string) *color.Color {
	switch mark {
	case markMeaningful, markExecutable:
		return meaningfulStyle
	case markUnknown:
		return unknownStyle
	default:
		return skippedStyle
	}
}

func splitLines(src string) []string {
	if src == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(src, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func calculateMaxLineNumWidth(endLine int) int {
	return len(fmt.Sprintf("%d", endLine))
}

// expandTabs replaces tabs with spaces up to the next tab stop.
func expandTabs(line string) string {
	if !strings.ContainsRune(line, '\t') {
		return line
	}
	var sb strings.Builder
	visualColumn := 0
	for _, ch := range line {
		if ch == '\t' {
			n := tabWidth - (visualColumn % tabWidth)
			sb.WriteString(strings.Repeat(" ", n))
			visualColumn += n
			continue
		}
		sb.WriteRune(ch)
		visualColumn++
	}
	return sb.String()
}
