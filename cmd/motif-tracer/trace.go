package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ironsheep/motif-tracer/internal/imaging"
	"github.com/ironsheep/motif-tracer/internal/preview"
	"github.com/ironsheep/motif-tracer/internal/trace"
	"github.com/ironsheep/motif-tracer/internal/vectorize"
)

type traceFlags struct {
	output  string
	layout  string
	preset  string
	ink     string
	maxSide int
	asJSON  bool
	preview string
	summary bool
}

func newTraceCmd(a *app) *cobra.Command {
	f := &traceFlags{}

	cmd := &cobra.Command{
		Use:   "trace <image>",
		Short: "Trace an image file into SVG",
		Long: `Trace an image file into SVG.

The SVG is written to stdout unless -o names a file. With --json the full
response (ok, svg, badges, banners, warning, strategy) is printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd, a, f, args[0])
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write the SVG (or JSON) to this file")
	cmd.Flags().StringVar(&f.layout, "layout", "", "Shape grouping: badges_banners or flat (default from config)")
	cmd.Flags().StringVar(&f.preset, "preset", "", "Trace preset: solid, outline or detailed (default from config)")
	cmd.Flags().StringVar(&f.ink, "ink", "", "Ink color as hex, e.g. #1a1a1a (default from config)")
	cmd.Flags().IntVar(&f.maxSide, "max-side", -1, "Downscale images whose longer side exceeds this; 0 disables")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Print the JSON response instead of the bare SVG")
	cmd.Flags().StringVar(&f.preview, "preview", "", "Also render the traced paths to this image file (.png, .jpg, .gif, .bmp, .tif)")
	cmd.Flags().BoolVar(&f.summary, "summary", false, "Print a summary of the trace to stderr")
	return cmd
}

func runTrace(cmd *cobra.Command, a *app, f *traceFlags, path string) error {
	if f.ink != "" {
		ink, err := trace.ParseInk(f.ink)
		if err != nil {
			return err
		}
		a.cfg.Trace.Ink = ink
	}
	if f.maxSide >= 0 {
		a.cfg.Trace.MaxSide = f.maxSide
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	svc, cleanup := a.newService(nil)
	defer cleanup()

	resp, res := svc.Trace(cmd.Context(), vectorize.Request{
		Image:  data,
		Layout: f.layout,
		Preset: f.preset,
		Source: filepath.Base(path),
	})
	if !resp.OK {
		failure := fmt.Errorf("trace failed: %s", resp.Error)
		if f.asJSON {
			if err := writeOutput(cmd.OutOrStdout(), f.output, func(w io.Writer) error { return encodeJSON(w, resp) }); err != nil {
				return errors.Join(failure, err)
			}
		}
		return failure
	}

	err = writeOutput(cmd.OutOrStdout(), f.output, func(w io.Writer) error {
		if f.asJSON {
			return encodeJSON(w, resp)
		}
		_, err := io.WriteString(w, res.SVG+"\n")
		return err
	})
	if err != nil {
		return err
	}

	if f.preview != "" {
		img, err := preview.Render(res)
		if err != nil {
			return fmt.Errorf("failed to render preview: %w", err)
		}
		// The format follows the file extension.
		if err := imaging.Save(img, f.preview); err != nil {
			return fmt.Errorf("failed to write preview: %w", err)
		}
	}

	if f.summary {
		md := summaryMarkdown(filepath.Base(path), res, resp)
		if err := printSummary(cmd.ErrOrStderr(), md); err != nil {
			return err
		}
	}
	return nil
}

// writeOutput calls write with the named file, or with stdout when name is empty.
func writeOutput(stdout io.Writer, name string, write func(io.Writer) error) error {
	if name == "" {
		return write(stdout)
	}
	file, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := write(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	return file.Close()
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
