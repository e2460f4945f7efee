package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ysenarath/textflow/internal/jobs"
	"github.com/ysenarath/textflow/internal/sqlite"
)

func newDocumentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "document",
		Short: "Manage project documents",
	}
	cmd.AddCommand(newDocumentUploadCmd(), newDocumentDeleteCmd())
	return cmd
}

func newDocumentUploadCmd() *cobra.Command {
	var (
		projectID int64
		path      string
	)
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload documents from a CSV or JSONL file",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening upload file: %w", err)
			}
			defer file.Close()

			records, err := jobs.ParseUpload(file, filepath.Base(path))
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return fmt.Errorf("no records in %s", path)
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			documents := sqlite.NewDocumentRepository(a.db)
			if err := jobs.UploadDocuments(documents, projectID, records)(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %d documents to project %d\n", len(records), projectID)
			return nil
		},
	}
	cmd.Flags().Int64Var(&projectID, "project", 0, "project id")
	cmd.Flags().StringVar(&path, "file", "", "path to .csv or .jsonl file")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newDocumentDeleteCmd() *cobra.Command {
	var projectID int64
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete every document in a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			documents := sqlite.NewDocumentRepository(a.db)
			if err := jobs.DeleteDocuments(documents, projectID)(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted documents of project %d\n", projectID)
			return nil
		},
	}
	cmd.Flags().Int64Var(&projectID, "project", 0, "project id")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
