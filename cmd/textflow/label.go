package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ysenarath/textflow/internal/domain/project"
	"github.com/ysenarath/textflow/internal/sqlite"
)

func newLabelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Manage project label sets",
	}
	cmd.AddCommand(newLabelCreateCmd())
	return cmd
}

func newLabelCreateCmd() *cobra.Command {
	var (
		projectID int64
		value     string
		display   string
		order     int
		color     string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a label to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			svc := project.NewService(
				sqlite.NewProjectRepository(a.db),
				sqlite.NewLabelRepository(a.db),
				a.logger,
			)
			label, err := svc.CreateLabel(cmd.Context(), project.CreateLabelRequest{
				ProjectID: projectID,
				Value:     value,
				Label:     display,
				Order:     order,
				Color:     color,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created label %d (%s)\n", label.ID, label.Value)
			return nil
		},
	}
	cmd.Flags().Int64Var(&projectID, "project", 0, "project id")
	cmd.Flags().StringVar(&value, "value", "", "label value (letters, digits, _ and -)")
	cmd.Flags().StringVar(&display, "label", "", "display text (defaults to value)")
	cmd.Flags().IntVar(&order, "order", 1, "display order")
	cmd.Flags().StringVar(&color, "color", "", "display color")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}
