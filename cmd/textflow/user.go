package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ysenarath/textflow/internal/domain/user"
	"github.com/ysenarath/textflow/internal/sqlite"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage annotator accounts",
	}
	cmd.AddCommand(newUserCreateCmd(), newUserAssignCmd())
	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an annotator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			u := &user.User{Username: username}
			if err := sqlite.NewUserRepository(a.db).Create(cmd.Context(), u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s)\n", u.ID, u.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "account username")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newUserAssignCmd() *cobra.Command {
	var (
		userID    int64
		projectID int64
		role      string
	)
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign a user to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := user.Role(role)
			if !r.Valid() {
				return fmt.Errorf("invalid role %q", role)
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			assignment := &user.Assignment{UserID: userID, ProjectID: projectID, Role: r}
			if err := sqlite.NewAssignmentRepository(a.db).Upsert(cmd.Context(), assignment); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "assigned user %d to project %d as %s\n", userID, projectID, r)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "user id")
	cmd.Flags().Int64Var(&projectID, "project", 0, "project id")
	cmd.Flags().StringVar(&role, "role", string(user.RoleDefault), "role: default, manager, or admin")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
