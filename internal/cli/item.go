package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newItemsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "items <owner> <project>",
		Short: "List the board's items",
		Long: `List the board's items by walking the project container directly.
Unlike "issues", this path includes draft notes and pull requests.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := client.ListItems(cmd.Context(), args[0], args[1], limit)
			if err != nil {
				return err
			}
			return printItems(items)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of items (0 = all)")
	return cmd
}

func newItemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "item <item-id>",
		Short: "Show one board item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := client.GetItem(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if details == nil {
				return fmt.Errorf("item %q not found", args[0])
			}
			return printItemDetails(details)
		},
	}
}

func newMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <owner> <project> <item-id> <column>",
		Short: "Move an item to a column",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.MoveItem(cmd.Context(), args[0], args[1], args[2], args[3]); err != nil {
				return err
			}
			if !jsonOut {
				fmt.Printf("moved %s to %s\n", args[2], args[3])
			}
			return nil
		},
	}
}

// resolveProjectID turns an owner and project identifier into the board
// node ID for the item-level mutations.
func resolveProjectID(cmd *cobra.Command, owner, identifier string) (string, error) {
	project, err := client.GetProject(cmd.Context(), owner, identifier)
	if err != nil {
		return "", err
	}
	if project == nil {
		return "", fmt.Errorf("project %q not found for owner %q", identifier, owner)
	}
	return project.ID, nil
}

func newArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <owner> <project> <item-id>",
		Short: "Archive a board item",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := resolveProjectID(cmd, args[0], args[1])
			if err != nil {
				return err
			}
			if err := client.ArchiveItem(cmd.Context(), projectID, args[2]); err != nil {
				return err
			}
			if !jsonOut {
				fmt.Printf("archived %s\n", args[2])
			}
			return nil
		},
	}
}

func newDeleteItemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-item <owner> <project> <item-id>",
		Short: "Remove an item from the board",
		Long:  "Remove an item from the board. The underlying issue or pull request is untouched.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := resolveProjectID(cmd, args[0], args[1])
			if err != nil {
				return err
			}
			if err := client.DeleteItem(cmd.Context(), projectID, args[2]); err != nil {
				return err
			}
			if !jsonOut {
				fmt.Printf("deleted %s\n", args[2])
			}
			return nil
		},
	}
}
