package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/robby/ghb/gh"
)

func newIssuesCmd() *cobra.Command {
	var (
		state string
		repo  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "issues <owner> <project>",
		Short: "List the issues linked to a board",
		Long: `List the issues linked to a board via issue search, cross-referenced
against the board's linkage. Draft notes never appear here; use "items"
for those.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			issues, err := client.ListProjectIssues(cmd.Context(), args[0], args[1], gh.ProjectIssueOptions{
				State: state,
				Repo:  repo,
				Limit: limit,
			})
			if err != nil {
				return err
			}
			return printProjectIssues(issues)
		},
	}
	cmd.Flags().StringVar(&state, "state", "open", "issue state: open, closed or all")
	cmd.Flags().StringVar(&repo, "repo", "", "restrict to one repository (name or owner/name)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of search results (0 = all)")
	return cmd
}

func newIssueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Work with individual issues",
	}
	cmd.AddCommand(
		newIssueCreateCmd(),
		newIssueShowCmd(),
		newIssueCloseCmd(),
		newIssueCommentCmd(),
	)
	return cmd
}

func newIssueCreateCmd() *cobra.Command {
	var (
		title   string
		body    string
		project string
		owner   string
	)

	cmd := &cobra.Command{
		Use:   "create <owner/repo>",
		Short: "Create an issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			issue, err := client.CreateIssue(cmd.Context(), args[0], title, body)
			if err != nil {
				return err
			}

			// Optionally put the new issue on a board right away.
			if project != "" {
				boardOwner := owner
				if boardOwner == "" {
					boardOwner, _, _ = splitOwnerRepo(args[0])
				}
				projectID, err := resolveProjectID(cmd, boardOwner, project)
				if err != nil {
					return err
				}
				if _, err := client.AddItemToProject(cmd.Context(), projectID, issue.ID); err != nil {
					return err
				}
			}

			if jsonOut {
				return printJSON(issue)
			}
			fmt.Printf("created %s#%d\n", issue.Repo, issue.Number)
			fmt.Println(issue.URL)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "issue title")
	cmd.Flags().StringVar(&body, "body", "", "issue body")
	cmd.Flags().StringVar(&project, "project", "", "also add the issue to this board (number or title)")
	cmd.Flags().StringVar(&owner, "owner", "", "board owner when it differs from the repository owner")
	cobra.CheckErr(cmd.MarkFlagRequired("title"))
	return cmd
}

func splitOwnerRepo(ownerRepo string) (string, string, bool) {
	for i, r := range ownerRepo {
		if r == '/' {
			return ownerRepo[:i], ownerRepo[i+1:], true
		}
	}
	return "", "", false
}

func parseIssueNumber(arg string) (int, error) {
	number, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid issue number %q", arg)
	}
	return number, nil
}

func newIssueShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <owner/repo> <number>",
		Short: "Show an issue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseIssueNumber(args[1])
			if err != nil {
				return err
			}
			issue, err := client.GetIssue(cmd.Context(), args[0], number)
			if err != nil {
				return err
			}
			if issue == nil {
				return fmt.Errorf("issue %s#%d not found", args[0], number)
			}
			return printIssueDetails(issue)
		},
	}
}

func newIssueCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <owner/repo> <number>",
		Short: "Close an issue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseIssueNumber(args[1])
			if err != nil {
				return err
			}
			issue, err := client.GetIssue(cmd.Context(), args[0], number)
			if err != nil {
				return err
			}
			if issue == nil {
				return fmt.Errorf("issue %s#%d not found", args[0], number)
			}
			if err := client.CloseIssue(cmd.Context(), issue.ID); err != nil {
				return err
			}
			if !jsonOut {
				fmt.Printf("closed %s#%d\n", args[0], number)
			}
			return nil
		},
	}
}

func newIssueCommentCmd() *cobra.Command {
	var body string

	cmd := &cobra.Command{
		Use:   "comment <owner/repo> <number>",
		Short: "Comment on an issue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseIssueNumber(args[1])
			if err != nil {
				return err
			}
			issue, err := client.GetIssue(cmd.Context(), args[0], number)
			if err != nil {
				return err
			}
			if issue == nil {
				return fmt.Errorf("issue %s#%d not found", args[0], number)
			}
			comment, err := client.AddComment(cmd.Context(), issue.ID, body)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(comment)
			}
			fmt.Println(comment.URL)
			return nil
		},
	}
	cmd.Flags().StringVar(&body, "body", "", "comment body")
	cobra.CheckErr(cmd.MarkFlagRequired("body"))
	return cmd
}

func newCommentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comments <owner/repo> <number>",
		Short: "List an issue's comments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseIssueNumber(args[1])
			if err != nil {
				return err
			}
			comments, err := client.ListComments(cmd.Context(), args[0], number)
			if err != nil {
				return err
			}
			return printComments(comments)
		},
	}
}
