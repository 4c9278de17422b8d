package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/attestiz/internal/store"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Browse results stored in the SQLite database",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions with their scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openResultsStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		sums, err := st.EventRepo().SessionSummaries(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-36s  %-24s  %-16s  %7s  %-16s\n", "SESSION", "NAME", "POSITION", "SCORE", "LAST ANSWER")
		fmt.Fprintln(out, strings.Repeat("─", 107))
		for _, s := range sums {
			fmt.Fprintf(out, "%-36s  %-24s  %-16s  %7s  %-16s\n",
				s.SessionID, clip(s.FullName, 24), clip(s.Position, 16),
				fmt.Sprintf("%d/%d", s.Correct, s.Answered),
				s.LastAt.Local().Format("2006-01-02 15:04"))
		}
		fmt.Fprintf(out, "\n%d sessions\n", len(sums))
		return nil
	},
}

var resultsShowCmd = &cobra.Command{
	Use:   "show SESSION_ID",
	Short: "Show every answer of one session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openResultsStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.EventRepo().QueryAnswerEvents(cmd.Context(), store.QueryOpts{SessionID: args[0]})
		if err != nil {
			return fmt.Errorf("query answers: %w", err)
		}
		if len(events) == 0 {
			return fmt.Errorf("no answers recorded for session %q", args[0])
		}

		out := cmd.OutOrStdout()
		first := events[0]
		fmt.Fprintf(out, "%s (%s), user %d\n", first.FullName, first.Position, first.UserID)
		correct := 0
		for i, ev := range events {
			mark := "✗"
			if ev.Correct {
				mark = "✓"
				correct++
			}
			fmt.Fprintf(out, "\n%d. %s [block %d, %s] %s\n", i+1, mark, ev.Block, ev.QuestionType, ev.Timestamp.Local().Format(time.DateTime))
			fmt.Fprintf(out, "   %s\n", ev.Prompt)
			fmt.Fprintf(out, "   answer:  %s\n", ev.UserAnswer)
			if !ev.Correct {
				fmt.Fprintf(out, "   correct: %s\n", ev.CorrectAnswer)
			}
		}
		fmt.Fprintf(out, "\n%d/%d correct\n", correct, len(events))
		return nil
	},
}

// openResultsStore opens the results database. The config file is optional
// here when --db is given.
func openResultsStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		if p, _ := cmd.Flags().GetString("db"); p == "" {
			return nil, err
		}
	}
	p, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	resultsListCmd.Flags().Int("limit", 20, "Maximum number of sessions to list")

	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsShowCmd)
}
