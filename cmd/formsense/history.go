package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/formsense/formsense/pkg/config"
	"github.com/formsense/formsense/pkg/store"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent coaching sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := store.Open(config.HistoryPath())
			if err != nil {
				return err
			}
			defer st.Close()

			records, err := st.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No sessions recorded yet.")
				return nil
			}
			for _, r := range records {
				mark := " "
				if r.Completed() {
					mark = "✓"
				}
				fmt.Printf("%s %s  %-30s %d/%d exercises  goal: %s\n",
					mark,
					r.EndedAt.Local().Format("2006-01-02 15:04"),
					r.Plan.Title,
					r.ExercisesCompleted, len(r.Plan.Exercises),
					r.Goal)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum sessions to list")
	return cmd
}
