package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ganot/docflow/internal/domain/item"
	"github.com/ganot/docflow/internal/export"
)

type resolveOptions struct {
	baseDate string
	output   string
	name     string
}

func newResolveCmd() *cobra.Command {
	var opts resolveOptions
	cmd := &cobra.Command{
		Use:   "resolve [file]",
		Short: "Resolve the dates of an extracted item batch without storing it",
		Long: `Reads a JSON array of extracted items from file, or stdin when no file
is given, resolves their relative dates and prints the resolved items, the
timeline events or an iCalendar file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return runResolve(in, cmd.OutOrStdout(), opts, time.Now())
		},
	}
	cmd.Flags().StringVar(&opts.baseDate, "base-date", "", "fallback anchor date, YYYY-MM-DD or DD/MM/YYYY")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "items", "items, events or ics")
	cmd.Flags().StringVar(&opts.name, "name", "", "calendar name for ics output")
	return cmd
}

func runResolve(in io.Reader, out io.Writer, opts resolveOptions, now time.Time) error {
	switch opts.output {
	case "items", "events", "ics":
	default:
		return fmt.Errorf("unknown output %q: want items, events or ics", opts.output)
	}

	var drafts []item.Draft
	if err := json.NewDecoder(in).Decode(&drafts); err != nil {
		return fmt.Errorf("decode items: %w", err)
	}
	base, err := item.ParseBaseDate(opts.baseDate)
	if err != nil {
		return err
	}
	items, summary, err := item.Resolve(drafts, base)
	if err != nil {
		return err
	}

	switch opts.output {
	case "items":
		return writeJSON(out, map[string]any{"items": items, "summary": summary})
	case "events":
		return writeJSON(out, map[string]any{"events": item.Events(items)})
	default:
		_, err := io.WriteString(out, export.Calendar(item.Events(items), export.Options{Name: opts.name, Now: now}))
		return err
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
