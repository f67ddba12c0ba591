package main

import (
	"context"
	"fmt"
	"os"

	"github.com/timewarpfm/timewarp/internal/formatter"
	"github.com/timewarpfm/timewarp/internal/shared"
	"github.com/urfave/cli/v3"
)

// Chart fetches a dated chart and prints its entries without resolving them.
func (r *Runner) Chart(ctx context.Context, cmd *cli.Command) error {
	date, err := r.resolveDate(cmd)
	if err != nil {
		return err
	}

	entries, err := r.extractor.Fetch(ctx, date)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		return r.writePlain("No chart entries found for %s\n", date)
	}

	format := cmd.String("format")
	outputFile := cmd.String("output")

	if format == "json" && outputFile == "" {
		return r.writeJSON(entries, true)
	}

	var data []byte
	switch format {
	case "json":
		if err := r.writeJSONFile(outputFile, entries); err != nil {
			return err
		}
		return r.writePlain("✓ Chart written to %s\n", outputFile)
	case "csv":
		if data, err = formatter.ChartToCSV(entries); err != nil {
			return err
		}
	case "markdown":
		data = formatter.ChartToMarkdown(entries)
	case "text":
		data = formatter.ChartToText(entries)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		return r.writePlain("✓ Chart written to %s\n", outputFile)
	}

	return r.writePlain("%s", data)
}

func (r *Runner) writeJSONFile(path string, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	saved := r.output
	r.output = f
	defer func() { r.output = saved }()

	return r.writeJSON(data, true)
}
