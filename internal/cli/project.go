package cli

import (
	"fmt"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

func newProjectsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "projects <owner>",
		Short: "List an owner's project boards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := client.ListProjects(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			return printProjects(projects)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of projects (0 = all)")
	return cmd
}

func newProjectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "project <owner> <number|title>",
		Short: "Show one project board",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := client.GetProject(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if project == nil {
				return fmt.Errorf("project %q not found for owner %q", args[1], args[0])
			}
			return printProject(project)
		},
	}
}

func newColumnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns <owner> <project>",
		Short: "List the board's status columns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			columns, err := client.ListColumns(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printColumns(columns)
		},
	}
}

func newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <owner> <project>",
		Short: "Open the board in a browser",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := client.GetProject(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if project == nil {
				return fmt.Errorf("project %q not found for owner %q", args[1], args[0])
			}
			return browser.OpenURL(project.URL)
		},
	}
}

func newReposCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repos <owner>",
		Short: "List an owner's repositories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repos, err := client.ListRepos(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printRepos(repos)
		},
	}
}
