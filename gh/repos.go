package gh

import (
	"context"
	"fmt"

	"github.com/robby/ghb/domain"
)

// ListRepos lists every repository of an owner, organization scope
// first, falling back to the user scope when the organization has none.
func (c *Client) ListRepos(ctx context.Context, owner string) ([]domain.Repo, error) {
	repos, _, err := resolveInOwnerScope(c.log, func(s ownerScope) ([]domain.Repo, bool, error) {
		list, err := c.listReposInScope(ctx, s, owner)
		if err != nil {
			return nil, false, err
		}
		return list, len(list) > 0, nil
	})
	return repos, err
}

func (c *Client) listReposInScope(ctx context.Context, s ownerScope, owner string) ([]domain.Repo, error) {
	document := fmt.Sprintf(`
		query($login: String!, $first: Int!, $after: String) {
			owner: %s(login: $login) {
				repositories(first: $first, after: $after) {
					pageInfo {
						hasNextPage
						endCursor
					}
					nodes {
						name
						url
						description
					}
				}
			}
		}
	`, s.root)

	return collect(ctx, 0, func(ctx context.Context, after *string) ([]domain.Repo, pageInfo, error) {
		var resp struct {
			Owner *struct {
				Repositories struct {
					PageInfo pageInfo `json:"pageInfo"`
					Nodes    []struct {
						Name        string `json:"name"`
						URL         string `json:"url"`
						Description string `json:"description"`
					} `json:"nodes"`
				} `json:"repositories"`
			} `json:"owner"`
		}

		vars := map[string]any{"login": owner, "first": 100, "after": after}
		if err := c.exec(ctx, document, vars, &resp); err != nil {
			return nil, pageInfo{}, fmt.Errorf("failed to list repositories: %w", err)
		}
		if resp.Owner == nil {
			return nil, pageInfo{}, nil
		}

		page := make([]domain.Repo, 0, len(resp.Owner.Repositories.Nodes))
		for _, node := range resp.Owner.Repositories.Nodes {
			page = append(page, domain.Repo{
				Name:        node.Name,
				URL:         node.URL,
				Description: node.Description,
			})
		}
		return page, resp.Owner.Repositories.PageInfo, nil
	})
}
