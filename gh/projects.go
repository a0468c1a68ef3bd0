package gh

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/robby/ghb/domain"
)

type projectNode struct {
	ID               string `json:"id"`
	Number           int    `json:"number"`
	Title            string `json:"title"`
	URL              string `json:"url"`
	ShortDescription string `json:"shortDescription"`
}

func (n projectNode) toDomain() domain.Project {
	return domain.Project{
		ID:          n.ID,
		Number:      n.Number,
		Title:       n.Title,
		URL:         n.URL,
		Description: n.ShortDescription,
	}
}

// ListProjects lists the boards of an owner, trying the organization
// scope first and falling back to the user scope when the organization
// yields nothing. limit 0 returns all boards.
func (c *Client) ListProjects(ctx context.Context, owner string, limit int) ([]domain.Project, error) {
	projects, _, err := resolveInOwnerScope(c.log, func(s ownerScope) ([]domain.Project, bool, error) {
		list, err := c.listProjectsInScope(ctx, s, owner, limit)
		if err != nil {
			return nil, false, err
		}
		return list, len(list) > 0, nil
	})
	return projects, err
}

func (c *Client) listProjectsInScope(ctx context.Context, s ownerScope, owner string, limit int) ([]domain.Project, error) {
	document := fmt.Sprintf(`
		query($login: String!, $first: Int!, $after: String) {
			owner: %s(login: $login) {
				projectsV2(first: $first, after: $after) {
					pageInfo {
						hasNextPage
						endCursor
					}
					nodes {
						id
						number
						title
						url
						shortDescription
					}
				}
			}
		}
	`, s.root)

	return collect(ctx, limit, func(ctx context.Context, after *string) ([]domain.Project, pageInfo, error) {
		var resp struct {
			Owner *struct {
				ProjectsV2 struct {
					PageInfo pageInfo      `json:"pageInfo"`
					Nodes    []projectNode `json:"nodes"`
				} `json:"projectsV2"`
			} `json:"owner"`
		}

		vars := map[string]any{"login": owner, "first": 100, "after": after}
		if err := c.exec(ctx, document, vars, &resp); err != nil {
			return nil, pageInfo{}, fmt.Errorf("failed to list projects: %w", err)
		}
		if resp.Owner == nil {
			return nil, pageInfo{}, nil
		}

		page := make([]domain.Project, 0, len(resp.Owner.ProjectsV2.Nodes))
		for _, node := range resp.Owner.ProjectsV2.Nodes {
			page = append(page, node.toDomain())
		}
		return page, resp.Owner.ProjectsV2.PageInfo, nil
	})
}

// GetProject resolves a board by number or title. A numeric identifier
// always routes to the by-number lookup; anything else is matched
// case-insensitively against board titles after trimming whitespace,
// first match winning. Returns nil when no board matches.
func (c *Client) GetProject(ctx context.Context, owner, identifier string) (*domain.Project, error) {
	if number, err := strconv.Atoi(strings.TrimSpace(identifier)); err == nil {
		return c.getProjectByNumber(ctx, owner, number)
	}

	projects, err := c.ListProjects(ctx, owner, 0)
	if err != nil {
		return nil, err
	}

	want := strings.TrimSpace(identifier)
	for _, p := range projects {
		if strings.EqualFold(strings.TrimSpace(p.Title), want) {
			return &p, nil
		}
	}
	return nil, nil
}

func (c *Client) getProjectByNumber(ctx context.Context, owner string, number int) (*domain.Project, error) {
	project, found, err := resolveInOwnerScope(c.log, func(s ownerScope) (*domain.Project, bool, error) {
		document := fmt.Sprintf(`
			query($login: String!, $number: Int!) {
				owner: %s(login: $login) {
					projectV2(number: $number) {
						id
						number
						title
						url
						shortDescription
					}
				}
			}
		`, s.root)

		var resp struct {
			Owner *struct {
				ProjectV2 *projectNode `json:"projectV2"`
			} `json:"owner"`
		}

		vars := map[string]any{"login": owner, "number": number}
		if err := c.exec(ctx, document, vars, &resp); err != nil {
			return nil, false, fmt.Errorf("failed to get project: %w", err)
		}
		if resp.Owner == nil || resp.Owner.ProjectV2 == nil {
			return nil, false, nil
		}
		p := resp.Owner.ProjectV2.toDomain()
		return &p, true, nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return project, nil
}

// requireProject resolves a board or fails with a precondition error.
func (c *Client) requireProject(ctx context.Context, owner, identifier string) (*domain.Project, error) {
	project, err := c.GetProject(ctx, owner, identifier)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, &PreconditionError{
			Message: fmt.Sprintf("project %q not found for owner %q", identifier, owner),
		}
	}
	return project, nil
}

// ListColumns returns the options of the board's status field, in the
// order the board configures them. The board's fields are paged through
// in full; a board without the configured status field yields no columns.
func (c *Client) ListColumns(ctx context.Context, owner, identifier string) ([]domain.ProjectColumn, error) {
	project, err := c.requireProject(ctx, owner, identifier)
	if err != nil {
		return nil, err
	}
	return c.listColumnsByProjectID(ctx, project.ID)
}

type fieldNode struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Options []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"options"`
}

func (c *Client) listColumnsByProjectID(ctx context.Context, projectID string) ([]domain.ProjectColumn, error) {
	document := `
		query($projectId: ID!, $first: Int!, $after: String) {
			node(id: $projectId) {
				... on ProjectV2 {
					fields(first: $first, after: $after) {
						pageInfo {
							hasNextPage
							endCursor
						}
						nodes {
							... on ProjectV2SingleSelectField {
								id
								name
								options {
									id
									name
								}
							}
						}
					}
				}
			}
		}
	`

	fields, err := collect(ctx, 0, func(ctx context.Context, after *string) ([]fieldNode, pageInfo, error) {
		var resp struct {
			Node *struct {
				Fields struct {
					PageInfo pageInfo    `json:"pageInfo"`
					Nodes    []fieldNode `json:"nodes"`
				} `json:"fields"`
			} `json:"node"`
		}

		vars := map[string]any{"projectId": projectID, "first": 50, "after": after}
		if err := c.exec(ctx, document, vars, &resp); err != nil {
			return nil, pageInfo{}, fmt.Errorf("failed to list project fields: %w", err)
		}
		if resp.Node == nil {
			return nil, pageInfo{}, nil
		}
		return resp.Node.Fields.Nodes, resp.Node.Fields.PageInfo, nil
	})
	if err != nil {
		return nil, err
	}

	// Non-single-select fields come back as empty objects from the
	// inline fragment; only the configured status field matters, matched
	// case-sensitively.
	for _, f := range fields {
		if f.Name != c.statusField() {
			continue
		}
		columns := make([]domain.ProjectColumn, 0, len(f.Options))
		for _, opt := range f.Options {
			columns = append(columns, domain.ProjectColumn{
				FieldID:  f.ID,
				OptionID: opt.ID,
				Name:     opt.Name,
			})
		}
		return columns, nil
	}
	return nil, nil
}
