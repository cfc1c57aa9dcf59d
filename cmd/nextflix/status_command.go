package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/baliomega/nextflix/internal/engine"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show provider, storage, and collection health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(cmd, func(c context.Context, eng *engine.Engine) error {
				st, err := eng.Status(c)
				if err != nil {
					return describeError(err)
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, st)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, strings.Join(renderStatus(st, ctx.configPath, ctx.configSeen, eng.Now, shouldColorize(out)), "\n"))
				if len(st.Keys) > 0 {
					fmt.Fprintln(out, renderKeyTable(st, eng.Now))
				}
				return nil
			})
		},
	}
}

func renderStatus(st engine.Status, configPath string, configSeen bool, now nowFunc, colorize bool) []string {
	lines := []string{renderSectionHeader("Configuration", colorize)}
	if configSeen {
		lines = append(lines, renderStatusLine("Config", statusOK, configPath, colorize))
	} else {
		lines = append(lines, renderStatusLine("Config", statusInfo, "defaults (no file at "+configPath+")", colorize))
	}

	lines = append(lines, renderSectionHeader("Provider", colorize))
	if st.Offline {
		lines = append(lines, renderStatusLine("Search", statusWarn, "offline catalogue; set tmdb.api_key for live results", colorize))
	} else {
		lines = append(lines, renderStatusLine("Search", statusOK, st.Provider, colorize))
	}
	switch st.Breaker {
	case "":
	case "closed":
		lines = append(lines, renderStatusLine("Breaker", statusOK, st.Breaker, colorize))
	case "open":
		lines = append(lines, renderStatusLine("Breaker", statusError, "open; provider calls are failing fast", colorize))
	default:
		lines = append(lines, renderStatusLine("Breaker", statusWarn, st.Breaker, colorize))
	}

	lines = append(lines, renderSectionHeader("Collection", colorize))
	lines = append(lines, renderStatusLine("Storage", statusOK, st.Storage, colorize))
	lines = append(lines, renderStatusLine("Entries", statusInfo, humanize.Comma(int64(st.Entries)), colorize))
	lines = append(lines, renderStatusLine("By type", statusInfo, fmt.Sprintf("%s movies, %s series",
		humanize.Comma(int64(st.Stats.Movies)), humanize.Comma(int64(st.Stats.Series))), colorize))
	lines = append(lines, renderStatusLine("By rating", statusInfo, fmt.Sprintf("%d loved, %d liked, %d not for me, %d unrated",
		st.Stats.Loved, st.Stats.Liked, st.Stats.NotForMe, st.Stats.Unrated), colorize))
	lastAdded := "never"
	if !st.LastAdded.IsZero() {
		lastAdded = humanize.RelTime(st.LastAdded, now(), "ago", "from now")
	}
	lines = append(lines, renderStatusLine("Last added", statusInfo, lastAdded, colorize))
	lines = append(lines, renderStatusLine("Content filter", statusInfo, yesNo(st.ContentFilter), colorize))
	lines = append(lines, renderStatusLine("Export dir", statusInfo, st.ExportDir, colorize))

	if st.Load.Malformed {
		lines = append(lines, renderStatusLine("Stored data", statusError,
			"unreadable payload preserved under "+st.Load.PreservedKey, colorize))
	} else if st.Load.Repaired() {
		lines = append(lines, renderStatusLine("Stored data", statusWarn, fmt.Sprintf(
			"repaired on load (%d ratings cleared, %d kinds fixed, %d ids assigned, %d dropped)",
			st.Load.ClearedRatings, st.Load.RepairedKinds, st.Load.AssignedIDs, st.Load.Dropped), colorize))
	}
	if st.Backfilled > 0 {
		lines = append(lines, renderStatusLine("Backfill", statusInfo,
			fmt.Sprintf("%d entries gained missing fields", st.Backfilled), colorize))
	}
	return lines
}

func renderKeyTable(st engine.Status, now nowFunc) string {
	rows := make([][]string, 0, len(st.Keys))
	for _, key := range st.Keys {
		updated := "-"
		if !key.UpdatedAt.IsZero() {
			updated = humanize.RelTime(key.UpdatedAt, now(), "ago", "from now")
		}
		writes := "-"
		if key.Writes > 0 {
			writes = humanize.Comma(int64(key.Writes))
		}
		rows = append(rows, []string{key.Key, humanize.Bytes(uint64(key.Bytes)), updated, writes})
	}
	return renderTable([]column{col("Key"), numCol("Size"), col("Updated"), numCol("Writes")}, rows)
}
