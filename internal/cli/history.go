package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"zenbox/internal/i18n"
	"zenbox/internal/logging"
	"zenbox/internal/storage"
)

func newHistoryCommand(env *environment) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent breathing sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			translator := env.translator()

			history, err := env.openHistory()
			if err != nil {
				return err
			}
			defer history.Close()

			entries, err := history.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			totals, err := history.Totals(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, translator.T("history_empty"))
				return nil
			}
			fmt.Fprintln(out, renderHistory(entries))
			fmt.Fprintln(out, translator.T("history_totals", map[string]any{
				"Sessions":  totals.Sessions,
				"Completed": totals.CompletedSessions,
				"Cycles":    totals.CompletedCycles,
			}))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of sessions to list")
	return cmd
}

// translator returns the translator for the saved locale, falling back to English.
func (env *environment) translator() *i18n.Translator {
	locale := i18n.DefaultLocale
	if store, err := env.settingsStore(); err == nil {
		if current, err := store.Load(); err == nil {
			locale = current.Locale
		}
	}
	translator, err := i18n.New(locale)
	if err != nil {
		env.logger.Warn("load translations failed", logging.Err(err))
		return i18n.MustNew(i18n.DefaultLocale)
	}
	return translator
}

func renderHistory(entries []storage.HistoryEntry) string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		status := "abandoned"
		if entry.Completed {
			status = "completed"
		}
		rows = append(rows, []string{
			entry.StartedAt.Local().Format("2006-01-02 15:04"),
			entry.Duration().Round(time.Second).String(),
			strconv.Itoa(entry.PhaseDuration) + "s",
			fmt.Sprintf("%d/%d", entry.CompletedCycles, entry.TotalCycles),
			status,
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))).
		Headers("STARTED", "LENGTH", "PHASE", "CYCLES", "STATUS").
		Rows(rows...).
		String()
}
