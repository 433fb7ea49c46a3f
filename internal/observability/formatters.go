// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/cold-outreach/internal/drafting"
	"github.com/jonathan/cold-outreach/internal/normalize"
	"github.com/jonathan/cold-outreach/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// innerWidth is the usable text width inside a box
	innerWidth = boxWidth - 4
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

var lineBreakMarker = regexp.MustCompile(`(?i)<br\s*/?>`)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content. Long lines are
// truncated unless wrap is set.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string, wrap bool) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if wrap {
			for _, w := range wrapLine(line, innerWidth) {
				fmt.Fprintf(p.out, "│ %s │\n", pad(w))
			}
			continue
		}
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, innerWidth)))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad right-pads s to innerWidth runes; fmt width counts bytes for %s.
func pad(s string) string {
	if n := utf8.RuneCountInString(s); n < innerWidth {
		return s + strings.Repeat(" ", innerWidth-n)
	}
	return s
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// wrapLine splits a line at word boundaries. Words longer than width are truncated.
func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, word := range words {
		word = truncate(word, width)
		switch {
		case current == "":
			current = word
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= width:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	return append(lines, current)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// PrintJobDetails outputs the extracted job details.
func (p *Printer) PrintJobDetails(details *types.JobDetails) {
	if details == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:    %s\n", orDash(details.CompanyName)))
	sb.WriteString(fmt.Sprintf("Role:       %s\n", orDash(details.RoleTitle)))
	sb.WriteString(fmt.Sprintf("Recruiter:  %s\n", orDash(details.RecruiterName)))
	if details.JobURL != "" {
		sb.WriteString(fmt.Sprintf("URL:        %s\n", details.JobURL))
	}
	sb.WriteString(fmt.Sprintf("Description: %d words", normalize.WordCount(details.JobDescription)))

	p.printBox("JOB DETAILS", sb.String(), false)
}

// PrintEmail outputs a drafted email with line-break markers rendered as
// newlines, followed by its word count and any warnings.
func (p *Printer) PrintEmail(result *drafting.Result, length types.Length) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString("Subject: " + result.Email.Subject + "\n\n")
	sb.WriteString(lineBreakMarker.ReplaceAllString(result.Email.Body, "\n"))

	title := "DRAFTED EMAIL"
	if result.Fallback {
		title += " (unparsed response)"
	}
	p.printBox(title, sb.String(), true)

	r := length.Range()
	//nolint:errcheck // writing to stdout; errors are not recoverable
	fmt.Fprintf(p.out, "Words: %d (target %d-%d for %s)\n",
		normalize.WordCount(result.Email.Body), r.Min, r.Max, length.OrDefault())
	p.PrintWarnings(result.Warnings)
}

// PrintWarnings lists advisory warnings.
func (p *Printer) PrintWarnings(warnings []drafting.Warning) {
	for _, w := range warnings {
		//nolint:errcheck // writing to stdout; errors are not recoverable
		fmt.Fprintf(p.out, "⚠ %s: %s\n", w.Code, w.Message)
	}
}

// PrintSubject outputs a revised subject line.
func (p *Printer) PrintSubject(previous, revised string) {
	var sb strings.Builder
	sb.WriteString("Before: " + orDash(previous) + "\n")
	sb.WriteString("After:  " + orDash(revised))
	p.printBox("SUBJECT LINE", sb.String(), true)
}

// PrintTemplateFields outputs a templatized email and its placeholders.
func (p *Printer) PrintTemplateFields(fields *types.TemplateFields) {
	if fields == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString("Title:   " + fields.Title + "\n")
	sb.WriteString("Tags:    " + strings.Join(fields.Tags, ", ") + "\n")
	sb.WriteString("Subject: " + fields.Subject + "\n")

	names := normalize.Placeholders(fields.Subject + "\n" + fields.Body)
	sb.WriteString(fmt.Sprintf("\nPlaceholders (%d):\n", len(names)))
	count := min(len(names), maxItemsToShow*2)
	for _, name := range names[:count] {
		sb.WriteString("  • {{" + name + "}}\n")
	}
	if len(names) > count {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(names)-count))
	}

	p.printBox("EMAIL TEMPLATE", strings.TrimSuffix(sb.String(), "\n"), false)
}

// PrintTemplates outputs a table of saved templates.
func (p *Printer) PrintTemplates(list []types.Template) {
	if len(list) == 0 {
		p.printBox("TEMPLATES", "No templates found", false)
		return
	}

	var sb strings.Builder
	for i, t := range list {
		sb.WriteString(fmt.Sprintf("%s  [%s]\n", t.Title, orDash(t.Category)))
		sb.WriteString(fmt.Sprintf("  id: %s  used: %d  score: %d\n", t.ID, t.UsageCount, t.AIResponseScore))
		if len(t.Tags) > 0 {
			sb.WriteString("  tags: " + strings.Join(t.Tags, ", ") + "\n")
		}
		if i < len(list)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(fmt.Sprintf("TEMPLATES (%d)", len(list)), strings.TrimSuffix(sb.String(), "\n"), false)
}

// PrintPersonalInfo outputs a summary of an analyzed resume.
func (p *Printer) PrintPersonalInfo(info *types.PersonalInfo) {
	if info == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString("Name: " + orDash(info.Name) + "\n\n")

	if len(info.Skills) > 0 {
		count := min(len(info.Skills), maxItemsToShow*2)
		sb.WriteString("Skills: " + strings.Join(info.Skills[:count], ", "))
		if len(info.Skills) > count {
			sb.WriteString(fmt.Sprintf(" (+%d)", len(info.Skills)-count))
		}
		sb.WriteString("\n")
	}

	if len(info.Experience) > 0 {
		sb.WriteString("\nExperience:\n")
		count := min(len(info.Experience), maxItemsToShow)
		for _, e := range info.Experience[:count] {
			sb.WriteString(fmt.Sprintf("  • %s at %s\n", e.Role, e.Company))
		}
		if len(info.Experience) > count {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(info.Experience)-count))
		}
	}

	sb.WriteString(fmt.Sprintf("\nProjects: %d  Education: %d  Links: %d",
		len(info.Projects), len(info.Education), len(info.Links)))

	p.printBox("RESUME PROFILE", sb.String(), true)
}
