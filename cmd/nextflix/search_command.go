package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/baliomega/nextflix/internal/engine"
	"github.com/baliomega/nextflix/internal/media"
)

const unavailableNotice = "Search is unavailable right now; showing no results."

type searchRow struct {
	media.Result
	InCollection bool   `json:"inCollection"`
	EntryID      string `json:"entryId,omitempty"`
	Rating       string `json:"rating,omitempty"`
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search TMDB for movies and series",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return ctx.withEngine(cmd, func(c context.Context, eng *engine.Engine) error {
				results, err := eng.Search(c, query)
				if err != nil && !engine.IsUnavailable(err) {
					return describeError(err)
				}
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), unavailableNotice)
				}

				rows := make([]searchRow, 0, len(results))
				for _, r := range results {
					row := searchRow{Result: r}
					if existing, ok := eng.FindExisting(r); ok {
						row.InCollection = true
						row.EntryID = existing.LocalID
						row.Rating = string(existing.Rating)
					}
					rows = append(rows, row)
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, rows)
				}
				if len(rows) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No results for %q\n", query)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderSearchTable(rows))
				return nil
			})
		},
	}
}

func renderSearchTable(rows []searchRow) string {
	table := make([][]string, 0, len(rows))
	for i, r := range rows {
		saved := "-"
		if r.InCollection {
			saved = media.Rating(r.Rating).Label()
		}
		table = append(table, []string{
			strconv.Itoa(i + 1),
			r.Title,
			r.Kind.Label(),
			media.Year(r.ReleaseDate),
			formatScore(r.ProviderRating),
			r.Director,
			saved,
		})
	}
	return renderTable([]column{
		numCol("#"), col("Title"), col("Type"), col("Year"), numCol("TMDB"), col("Director"), col("Saved"),
	}, table)
}

func formatScore(score float64) string {
	if score <= 0 {
		return "-"
	}
	return strconv.FormatFloat(score, 'f', 1, 64)
}
