package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/ironsheep/motif-tracer/internal/trace"
)

// summaryMarkdown describes a finished trace as a markdown report.
func summaryMarkdown(source string, res *trace.Result, resp trace.Response) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", source)
	fmt.Fprintf(&sb, "| | |\n|---|---|\n")
	fmt.Fprintf(&sb, "| canvas | %d x %d %s |\n", res.Width, res.Height, res.Format)
	fmt.Fprintf(&sb, "| strategy | %s |\n", res.Strategy)
	fmt.Fprintf(&sb, "| layout | %s |\n", res.Layout)
	fmt.Fprintf(&sb, "| variance | %.1f |\n", res.Variance)
	fmt.Fprintf(&sb, "| contours | %d |\n", res.Contours)
	fmt.Fprintf(&sb, "| badges | %d |\n", len(res.Badges))
	fmt.Fprintf(&sb, "| banners | %d |\n", len(res.Banners))
	if resp.ID != "" {
		fmt.Fprintf(&sb, "| stored as | `%s` |\n", resp.ID)
	}

	if res.Warning != "" {
		fmt.Fprintf(&sb, "\n> **warning:** %s\n", res.Warning)
	}
	if resp.StorageError != "" {
		fmt.Fprintf(&sb, "\n> **storage:** %s\n", resp.StorageError)
	}
	return sb.String()
}

// printSummary renders md for a terminal, or writes it unchanged when w is
// not one.
func printSummary(w io.Writer, md string) error {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		_, err := io.WriteString(w, md)
		return err
	}

	width := 80
	if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
		width = cols
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
