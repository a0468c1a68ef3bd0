package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/robby/ghb/domain"
)

var (
	cyan   = color.New(color.FgHiCyan).SprintFunc()
	green  = color.New(color.FgHiGreen).SprintFunc()
	red    = color.New(color.FgHiRed).SprintFunc()
	yellow = color.New(color.FgHiYellow).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTable returns a borderless left-aligned table on stdout.
func newTable(headers []string) *tablewriter.Table {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header(headers)
	return table
}

func stateColor(state string) string {
	switch strings.ToUpper(state) {
	case "OPEN":
		return green(state)
	case "CLOSED", "MERGED":
		return red(state)
	default:
		return state
	}
}

// statusLabel renders a possibly-absent status for human output.
func statusLabel(status *string) string {
	if status == nil {
		return faint("-")
	}
	return *status
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func printProjects(projects []domain.Project) error {
	if jsonOut {
		return printJSON(projects)
	}
	table := newTable([]string{"NUMBER", "TITLE", "URL"})
	for _, p := range projects {
		table.Append([]string{fmt.Sprintf("%d", p.Number), cyan(p.Title), faint(p.URL)})
	}
	return table.Render()
}

func printProject(p *domain.Project) error {
	if jsonOut {
		return printJSON(p)
	}
	fmt.Printf("%s #%d\n", cyan(p.Title), p.Number)
	if p.Description != "" {
		fmt.Println(p.Description)
	}
	fmt.Println(faint(p.URL))
	return nil
}

func printColumns(columns []domain.ProjectColumn) error {
	if jsonOut {
		return printJSON(columns)
	}
	table := newTable([]string{"COLUMN", "OPTION ID"})
	for _, c := range columns {
		table.Append([]string{cyan(c.Name), faint(c.OptionID)})
	}
	return table.Render()
}

func printItems(items []domain.ProjectItem) error {
	if jsonOut {
		return printJSON(items)
	}
	table := newTable([]string{"ITEM ID", "TYPE", "TITLE", "STATUS", "REPO"})
	for _, item := range items {
		table.Append([]string{
			faint(item.ItemID),
			item.ContentType,
			truncate(item.Title, 60),
			yellow(statusLabel(item.Status)),
			item.Repo,
		})
	}
	return table.Render()
}

func printItemDetails(details *domain.ProjectItemDetails) error {
	if jsonOut {
		return printJSON(details)
	}
	fmt.Printf("%s (%s)\n", cyan(details.Title), details.ContentType)
	fmt.Printf("item id: %s\n", details.ItemID)
	if details.ContentID != "" {
		fmt.Printf("content id: %s\n", details.ContentID)
	}
	fmt.Printf("status: %s\n", statusLabel(details.Status))
	if details.IsArchived {
		fmt.Println(yellow("archived"))
	}
	if details.Project != nil {
		fmt.Printf("project: %s #%d\n", details.Project.Title, details.Project.Number)
	}
	if details.URL != "" {
		fmt.Println(faint(details.URL))
	}
	return nil
}

func printIssueDetails(issue *domain.IssueDetails) error {
	if jsonOut {
		return printJSON(issue)
	}
	fmt.Printf("%s #%d %s\n", cyan(issue.Title), issue.Number, stateColor(issue.State))
	if issue.Author != "" {
		fmt.Printf("opened by %s at %s\n", issue.Author, issue.CreatedAt)
	}
	if issue.Body != "" {
		fmt.Println()
		fmt.Println(issue.Body)
	}
	fmt.Println(faint(issue.URL))
	return nil
}

func printProjectIssues(issues []domain.ProjectIssue) error {
	if jsonOut {
		return printJSON(issues)
	}
	table := newTable([]string{"NUMBER", "TITLE", "STATE", "STATUS", "REPO"})
	for _, pi := range issues {
		table.Append([]string{
			fmt.Sprintf("#%d", pi.Issue.Number),
			truncate(pi.Issue.Title, 60),
			stateColor(pi.Issue.State),
			yellow(statusLabel(pi.Status)),
			pi.Issue.Repo,
		})
	}
	return table.Render()
}

func printComments(comments []domain.Comment) error {
	if jsonOut {
		return printJSON(comments)
	}
	for i, c := range comments {
		if i > 0 {
			fmt.Println()
		}
		author := c.Author
		if author == "" {
			author = "(deleted user)"
		}
		fmt.Printf("%s %s\n", cyan(author), faint(c.CreatedAt))
		fmt.Println(c.Body)
	}
	return nil
}

func printRepos(repos []domain.Repo) error {
	if jsonOut {
		return printJSON(repos)
	}
	table := newTable([]string{"NAME", "DESCRIPTION", "URL"})
	for _, r := range repos {
		table.Append([]string{cyan(r.Name), truncate(r.Description, 50), faint(r.URL)})
	}
	return table.Render()
}
