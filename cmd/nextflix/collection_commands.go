package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/baliomega/nextflix/internal/collection"
	"github.com/baliomega/nextflix/internal/engine"
	"github.com/baliomega/nextflix/internal/media"
	"github.com/baliomega/nextflix/internal/services"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var pick int
	var ratingFlag string

	cmd := &cobra.Command{
		Use:   "add <query>",
		Short: "Search and add a result to the collection",
		Long: "Runs a search and adds the chosen result. If the title is already in the\n" +
			"collection its rating is updated instead of creating a duplicate.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := engine.ResolveRating(ratingFlag)
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			return ctx.withEngine(cmd, func(c context.Context, eng *engine.Engine) error {
				results, err := eng.Search(c, query)
				if err != nil {
					return describeError(err)
				}
				if pick < 1 || pick > len(results) {
					return services.Wrap(services.ErrNotFound, "cli", "add",
						fmt.Sprintf("no result #%d for %q (%d results)", pick, query, len(results)), nil)
				}
				entry, created, err := eng.AddOrRate(c, results[pick-1], rating)
				if err != nil {
					return describeError(err)
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{"entry": entry, "created": created})
				}
				verb := "Rated"
				switch {
				case created:
					verb = "Added"
				case rating == media.RatingNone:
					verb = "Already saved:"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s) as %s [id %s]\n",
					verb, entry.Title, entry.Kind.Label(), entry.Rating.Label(), entry.LocalID)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&pick, "pick", "n", 1, "Result number to add")
	cmd.Flags().StringVarP(&ratingFlag, "rating", "r", "", "Rating: love, up, down, or none")
	return cmd
}

func newRateCommand(ctx *commandContext) *cobra.Command {
	var toggle bool

	cmd := &cobra.Command{
		Use:   "rate <id> <love|up|down|none>",
		Short: "Set the rating of a collection entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := engine.ResolveRating(args[1])
			if err != nil {
				return err
			}
			return ctx.withEngine(cmd, func(c context.Context, eng *engine.Engine) error {
				rate := eng.UpdateRating
				if toggle {
					rate = eng.ToggleRating
				}
				entry, found, err := rate(c, args[0], rating)
				if err != nil {
					return describeError(err)
				}
				if !found {
					return services.Wrap(services.ErrNotFound, "cli", "rate", fmt.Sprintf("no entry with id %s", args[0]), nil)
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, entry)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", entry.Title, entry.Rating.Label())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&toggle, "toggle", false, "Clear the rating if the entry already has it")
	return cmd
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove an entry from the collection",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(cmd, func(c context.Context, eng *engine.Engine) error {
				entry, _ := eng.Entry(args[0])
				removed, err := eng.Delete(c, args[0])
				if err != nil {
					return describeError(err)
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{"id": args[0], "removed": removed})
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "No entry with id %s; nothing removed\n", args[0])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", entry.Title)
				return nil
			})
		},
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var typeFlag, ratingFlag, searchFlag, sortFlag string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(cmd, func(_ context.Context, eng *engine.Engine) error {
				opts, err := eng.ParseView(typeFlag, ratingFlag, searchFlag, sortFlag)
				if err != nil {
					return err
				}
				entries := eng.Project(opts)
				if ctx.jsonOutput() {
					return writeJSON(cmd, entries)
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					if len(eng.Entries()) == 0 {
						fmt.Fprintln(out, "Your collection is empty; add titles with `nextflix add <query>`")
					} else {
						fmt.Fprintln(out, "No entries match the filters")
					}
					return nil
				}
				fmt.Fprintln(out, renderEntryTable(entries, eng.Now()))
				fmt.Fprintf(out, "%s of %s titles\n", humanize.Comma(int64(len(entries))), humanize.Comma(int64(len(eng.Entries()))))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&typeFlag, "type", "t", "all", "Filter by type: all, movie, series")
	cmd.Flags().StringVarP(&ratingFlag, "rating", "r", "all", "Filter by rating: all, love, up, down")
	cmd.Flags().StringVarP(&searchFlag, "search", "s", "", "Match title, overview, cast, or genres")
	cmd.Flags().StringVar(&sortFlag, "sort", "", "Sort: dateWatched, title, year, rating (default from config)")
	return cmd
}

func renderEntryTable(entries []collection.Entry, now time.Time) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.LocalID,
			e.Title,
			e.Kind.Label(),
			e.Year(),
			e.Rating.Label(),
			formatScore(e.ProviderRating),
			addedLabel(e.DateAdded, now),
		})
	}
	return renderTable([]column{
		col("ID"), col("Title"), col("Type"), col("Year"), col("Rating"), numCol("TMDB"), col("Added"),
	}, rows)
}

// addedLabel renders a date-only timestamp relative to now.
func addedLabel(date string, now time.Time) string {
	added, err := time.ParseInLocation(collection.DateLayout, date, now.Location())
	if err != nil {
		return date
	}
	if added.Format(collection.DateLayout) == now.Format(collection.DateLayout) {
		return "today"
	}
	return humanize.RelTime(added, now, "ago", "from now")
}
