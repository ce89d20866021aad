package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "tradecoach/internal/errors"
	"tradecoach/internal/models"
	"tradecoach/internal/store"
)

func newJournalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Trading journal",
		Long:  "Record and review trading journal notes alongside your analysis.",
	}

	cmd.AddCommand(newJournalAddCmd(app))
	cmd.AddCommand(newJournalListCmd(app))
	return cmd
}

func newJournalAddCmd(app *App) *cobra.Command {
	var tags []string
	var mood string

	cmd := &cobra.Command{
		Use:   "add <note>",
		Short: "Add a journal entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.Wrap(apperrors.ErrDatabaseError, "store unavailable")
			}

			now := time.Now()
			entry := &models.JournalEntry{
				ID:        fmt.Sprintf("jnl-%d", now.UnixMilli()),
				Date:      now,
				Content:   strings.Join(args, " "),
				Tags:      tags,
				Mood:      mood,
				CreatedAt: now,
			}
			if err := app.Store.SaveJournalEntry(cmd.Context(), entry); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(entry)
			}
			output.Success("Journal entry saved (%s).", entry.ID)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&tags, "tags", nil, "comma-separated tags")
	cmd.Flags().StringVar(&mood, "mood", "", "mood at the time of writing")
	return cmd
}

func newJournalListCmd(app *App) *cobra.Command {
	var limit int
	var search string
	var tags []string
	var since string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.Wrap(apperrors.ErrDatabaseError, "store unavailable")
			}

			filter := store.JournalFilter{
				Limit:  limit,
				Search: search,
				Tags:   tags,
			}
			if since != "" {
				t, err := time.ParseInLocation("2006-01-02", since, time.Local)
				if err != nil {
					return apperrors.Wrapf(err, "invalid --since date %q", since)
				}
				filter.StartDate = t
			}

			entries, err := app.Store.GetJournal(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(entries)
			}
			if len(entries) == 0 {
				output.Dim("No journal entries.")
				return nil
			}

			for _, e := range entries {
				header := FormatDateTime(e.Date)
				if e.Mood != "" {
					header += "  (" + e.Mood + ")"
				}
				if len(e.Tags) > 0 {
					header += "  [" + strings.Join(e.Tags, ", ") + "]"
				}
				output.Bold(header)
				output.Printf("  %s\n", e.Content)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to list")
	cmd.Flags().StringVar(&search, "search", "", "only entries containing this text")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "only entries with all of these tags")
	cmd.Flags().StringVar(&since, "since", "", "only entries on or after this date (YYYY-MM-DD)")
	return cmd
}
