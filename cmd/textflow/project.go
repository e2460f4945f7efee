package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ysenarath/textflow/internal/domain/project"
	"github.com/ysenarath/textflow/internal/sqlite"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage annotation projects",
	}
	cmd.AddCommand(newProjectCreateCmd(), newProjectListCmd())
	return cmd
}

func newProjectCreateCmd() *cobra.Command {
	var (
		name       string
		typ        string
		redundancy int
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
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
			proj, err := svc.Create(cmd.Context(), project.CreateRequest{
				Name:       name,
				Type:       project.Type(typ),
				Redundancy: redundancy,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created project %d (%s)\n", proj.ID, proj.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "project name")
	cmd.Flags().StringVar(&typ, "type", string(project.TypeSequenceLabeling),
		"project type: sequence_labeling or document_classification")
	cmd.Flags().IntVar(&redundancy, "redundancy", 1, "annotators required per document")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
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
			projects, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range projects {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\tredundancy=%d\n", p.ID, p.Name, p.Type, p.Redundancy)
			}
			return nil
		},
	}
}
