// Package observability provides logging and formatted CLI output.
package observability

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jonathan/resume-studio/internal/registry"
	"github.com/jonathan/resume-studio/internal/resume"
	"github.com/jonathan/resume-studio/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted human-readable output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintTemplates outputs one line per template with its flags.
func (p *Printer) PrintTemplates(title string, templates []types.Template) {
	var sb strings.Builder
	if len(templates) == 0 {
		sb.WriteString("No templates found")
	}
	for i, t := range templates {
		sb.WriteString(fmt.Sprintf("%-24s %s", t.ID, flags(t)))
		if i < len(templates)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox(strings.ToUpper(title), sb.String())
}

func flags(t types.Template) string {
	var out []string
	if t.Popular {
		out = append(out, "popular")
	}
	if t.Featured {
		out = append(out, "featured")
	}
	if t.Premium {
		out = append(out, "premium")
	}
	if t.ATSOptimized {
		out = append(out, "ats")
	}
	if len(out) == 0 {
		return ""
	}
	return "[" + strings.Join(out, ",") + "]"
}

// PrintTemplate outputs the details of one template.
func (p *Printer) PrintTemplate(t types.Template) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("ID:        %s\n", t.ID))
	sb.WriteString(fmt.Sprintf("Name:      %s\n", t.Name))
	sb.WriteString(fmt.Sprintf("Category:  %s\n", t.Category))
	sb.WriteString(fmt.Sprintf("Layout:    %s\n", t.Component))
	if f := flags(t); f != "" {
		sb.WriteString(fmt.Sprintf("Flags:     %s\n", f))
	}
	if t.Description != "" {
		sb.WriteString(fmt.Sprintf("\n%s\n", t.Description))
	}

	if len(t.Features) > 0 {
		sb.WriteString("\nFeatures:\n")
		count := min(len(t.Features), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", t.Features[i]))
		}
		if len(t.Features) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(t.Features)-maxItemsToShow))
		}
	}

	sb.WriteString("\nSections:\n")
	sb.WriteString("  " + strings.Join(t.Config.Sections.Order, " → "))

	p.printBox("TEMPLATE", sb.String())
}

// PrintCategories outputs each category with its template count.
func (p *Printer) PrintCategories(categories []types.Category) {
	var sb strings.Builder
	for i, c := range categories {
		sb.WriteString(fmt.Sprintf("%-14s %2d  %s", c.ID, c.Count, c.Name))
		if i < len(categories)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("CATEGORIES", sb.String())
}

// PrintStats outputs registry totals.
func (p *Printer) PrintStats(stats registry.Stats) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Total:          %d\n", stats.Total))
	sb.WriteString(fmt.Sprintf("Popular:        %d\n", stats.Popular))
	sb.WriteString(fmt.Sprintf("Featured:       %d\n", stats.Featured))
	sb.WriteString(fmt.Sprintf("Premium:        %d\n", stats.Premium))
	sb.WriteString(fmt.Sprintf("ATS optimized:  %d\n", stats.ATSOptimized))

	if len(stats.ByCategory) > 0 {
		sb.WriteString("\nBy category:\n")
		keys := make([]string, 0, len(stats.ByCategory))
		for k := range stats.ByCategory {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %-14s %d\n", k, stats.ByCategory[k]))
		}
	}

	p.printBox("TEMPLATE STATS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReport outputs resume validation errors and warnings.
func (p *Printer) PrintReport(report resume.Report) {
	var sb strings.Builder

	if report.OK() && len(report.Warnings) == 0 {
		sb.WriteString("✓ Resume is complete")
	}
	if len(report.Errors) > 0 {
		sb.WriteString(fmt.Sprintf("Errors (%d):\n", len(report.Errors)))
		for _, e := range report.Errors {
			sb.WriteString(fmt.Sprintf("  ✗ %s\n", e))
		}
		if len(report.Warnings) > 0 {
			sb.WriteString("\n")
		}
	}
	if len(report.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("Warnings (%d):\n", len(report.Warnings)))
		for _, w := range report.Warnings {
			sb.WriteString(fmt.Sprintf("  ! %s\n", w))
		}
	}

	p.printBox("RESUME VALIDATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintExport outputs the outcome of a PDF export.
func (p *Printer) PrintExport(path, method string, pages int, warnings []string) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("File:    %s\n", path))
	sb.WriteString(fmt.Sprintf("Method:  %s\n", method))
	sb.WriteString(fmt.Sprintf("Pages:   %d", pages))

	if len(warnings) > 0 {
		sb.WriteString("\n\nWarnings:\n")
		count := min(len(warnings), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  ! %s\n", warnings[i]))
		}
		if len(warnings) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(warnings)-maxItemsToShow))
		}
	}

	p.printBox("PDF EXPORT", strings.TrimSuffix(sb.String(), "\n"))
}
