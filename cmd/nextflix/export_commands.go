package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/baliomega/nextflix/internal/config"
	"github.com/baliomega/nextflix/internal/engine"
	"github.com/baliomega/nextflix/internal/export"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var formats []string
	var stdout bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the collection as CSV, JSON, or text",
		Long: "Writes nextflix-collection-YYYY-MM-DD.{csv,json,txt} into the export\n" +
			"directory. With --stdout a single format is printed instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed := make([]export.Format, 0, len(formats))
			for _, value := range formats {
				for _, part := range strings.Split(value, ",") {
					if strings.TrimSpace(part) == "" {
						continue
					}
					format, err := export.ParseFormat(part)
					if err != nil {
						return err
					}
					parsed = append(parsed, format)
				}
			}
			if stdout && len(parsed) != 1 {
				return fmt.Errorf("--stdout needs exactly one --format")
			}

			return ctx.withEngine(cmd, func(_ context.Context, eng *engine.Engine) error {
				if stdout {
					payload, err := eng.Export(parsed[0])
					if err != nil {
						return err
					}
					_, err = cmd.OutOrStdout().Write(payload)
					return err
				}
				paths, err := eng.WriteExports(parsed...)
				if err != nil {
					return describeError(err)
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{"files": paths, "count": len(eng.Entries())})
				}
				for _, path := range paths {
					fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "Formats to write: csv, json, txt (default all)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print one format to stdout instead of writing a file")
	return cmd
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Merge a JSON export into the collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve import path: %w", err)
			}
			return ctx.withEngine(cmd, func(c context.Context, eng *engine.Engine) error {
				report, err := eng.ImportFile(c, path)
				if err != nil {
					return describeError(err)
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, report)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %s: %d added, %d updated, %d unchanged, %d skipped\n",
					path, report.Added, report.Updated, report.Unchanged, report.Skipped)
				return nil
			})
		},
	}
}

func newFilterCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:       "filter [on|off]",
		Short:     "Show or set the explicit-content filter",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(cmd, func(c context.Context, eng *engine.Engine) error {
				if len(args) == 1 {
					var enabled bool
					switch strings.ToLower(strings.TrimSpace(args[0])) {
					case "on", "true", "enable", "enabled":
						enabled = true
					case "off", "false", "disable", "disabled":
						enabled = false
					default:
						return fmt.Errorf("unknown filter state %q (want on or off)", args[0])
					}
					if err := eng.SetContentFilter(c, enabled); err != nil {
						return describeError(err)
					}
				}
				enabled := eng.ContentFilterEnabled()
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]bool{"enabled": enabled})
				}
				state := "off"
				if enabled {
					state = "on"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Content filter is %s\n", state)
				return nil
			})
		},
	}
}
