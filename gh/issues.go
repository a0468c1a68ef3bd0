package gh

import (
	"context"
	"fmt"
	"strings"

	"github.com/robby/ghb/domain"
)

type issueNode struct {
	ID         string `json:"id"`
	Number     int    `json:"number"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	State      string `json:"state"`
	URL        string `json:"url"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
	Author     *struct {
		Login string `json:"login"`
	} `json:"author"`
	Repository *struct {
		NameWithOwner string `json:"nameWithOwner"`
	} `json:"repository"`
}

func (n issueNode) toDomain() domain.IssueDetails {
	details := domain.IssueDetails{
		Issue: domain.Issue{
			ID:     n.ID,
			Number: n.Number,
			Title:  n.Title,
			Body:   n.Body,
			State:  n.State,
			URL:    n.URL,
		},
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
	// Deleted accounts come back as a null author.
	if n.Author != nil {
		details.Author = n.Author.Login
	}
	if n.Repository != nil {
		details.Repo = n.Repository.NameWithOwner
	}
	return details
}

// CreateIssue creates an issue in owner/name form repository and returns
// the created issue.
func (c *Client) CreateIssue(ctx context.Context, ownerRepo, title, body string) (*domain.Issue, error) {
	owner, name, err := splitRepo(ownerRepo)
	if err != nil {
		return nil, err
	}

	repoID, err := c.getRepositoryID(ctx, owner, name)
	if err != nil {
		return nil, err
	}

	document := `
		mutation($repositoryId: ID!, $title: String!, $body: String) {
			createIssue(input: {repositoryId: $repositoryId, title: $title, body: $body}) {
				issue {
					id
					number
					title
					body
					state
					url
					repository {
						nameWithOwner
					}
				}
			}
		}
	`

	var resp struct {
		CreateIssue struct {
			Issue issueNode `json:"issue"`
		} `json:"createIssue"`
	}

	vars := map[string]any{"repositoryId": repoID, "title": title, "body": body}
	if err := c.exec(ctx, document, vars, &resp); err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	issue := resp.CreateIssue.Issue.toDomain().Issue
	return &issue, nil
}

func (c *Client) getRepositoryID(ctx context.Context, owner, name string) (string, error) {
	document := `
		query($owner: String!, $name: String!) {
			repository(owner: $owner, name: $name) {
				id
			}
		}
	`

	var resp struct {
		Repository *struct {
			ID string `json:"id"`
		} `json:"repository"`
	}

	vars := map[string]any{"owner": owner, "name": name}
	if err := c.exec(ctx, document, vars, &resp); err != nil {
		return "", fmt.Errorf("failed to resolve repository: %w", err)
	}
	if resp.Repository == nil {
		return "", &PreconditionError{
			Message: fmt.Sprintf("repository %s/%s not found", owner, name),
		}
	}
	return resp.Repository.ID, nil
}

// GetIssue fetches an issue with its audit fields. Returns nil when the
// issue does not exist.
func (c *Client) GetIssue(ctx context.Context, ownerRepo string, number int) (*domain.IssueDetails, error) {
	owner, name, err := splitRepo(ownerRepo)
	if err != nil {
		return nil, err
	}

	document := `
		query($owner: String!, $name: String!, $number: Int!) {
			repository(owner: $owner, name: $name) {
				issue(number: $number) {
					id
					number
					title
					body
					state
					url
					createdAt
					updatedAt
					author {
						login
					}
					repository {
						nameWithOwner
					}
				}
			}
		}
	`

	var resp struct {
		Repository *struct {
			Issue *issueNode `json:"issue"`
		} `json:"repository"`
	}

	vars := map[string]any{"owner": owner, "name": name, "number": number}
	if err := c.exec(ctx, document, vars, &resp); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}
	if resp.Repository == nil || resp.Repository.Issue == nil {
		return nil, nil
	}

	details := resp.Repository.Issue.toDomain()
	return &details, nil
}

// CloseIssue closes an issue by its content node ID.
func (c *Client) CloseIssue(ctx context.Context, issueID string) error {
	document := `
		mutation($issueId: ID!) {
			closeIssue(input: {issueId: $issueId}) {
				issue {
					id
					state
				}
			}
		}
	`

	var resp struct {
		CloseIssue struct {
			Issue struct {
				ID    string `json:"id"`
				State string `json:"state"`
			} `json:"issue"`
		} `json:"closeIssue"`
	}

	if err := c.exec(ctx, document, map[string]any{"issueId": issueID}, &resp); err != nil {
		return fmt.Errorf("failed to close issue: %w", err)
	}
	return nil
}

// AddComment comments on an issue or pull request by its content node ID
// and returns the created comment.
func (c *Client) AddComment(ctx context.Context, subjectID, body string) (*domain.Comment, error) {
	document := `
		mutation($subjectId: ID!, $body: String!) {
			addComment(input: {subjectId: $subjectId, body: $body}) {
				commentEdge {
					node {
						id
						url
						body
						createdAt
						updatedAt
						author {
							login
						}
					}
				}
			}
		}
	`

	var resp struct {
		AddComment struct {
			CommentEdge struct {
				Node commentNode `json:"node"`
			} `json:"commentEdge"`
		} `json:"addComment"`
	}

	vars := map[string]any{"subjectId": subjectID, "body": body}
	if err := c.exec(ctx, document, vars, &resp); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	comment := resp.AddComment.CommentEdge.Node.toDomain()
	return &comment, nil
}

type commentNode struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	Author    *struct {
		Login string `json:"login"`
	} `json:"author"`
}

func (n commentNode) toDomain() domain.Comment {
	comment := domain.Comment{
		ID:        n.ID,
		URL:       n.URL,
		Body:      n.Body,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
	if n.Author != nil {
		comment.Author = n.Author.Login
	}
	return comment
}

// ListComments lists the comments of an issue or pull request in the
// order the service returns them.
func (c *Client) ListComments(ctx context.Context, ownerRepo string, number int) ([]domain.Comment, error) {
	owner, name, err := splitRepo(ownerRepo)
	if err != nil {
		return nil, err
	}

	document := `
		query($owner: String!, $name: String!, $number: Int!, $first: Int!, $after: String) {
			repository(owner: $owner, name: $name) {
				issueOrPullRequest(number: $number) {
					... on Issue {
						comments(first: $first, after: $after) {
							pageInfo {
								hasNextPage
								endCursor
							}
							nodes {
								id
								url
								body
								createdAt
								updatedAt
								author {
									login
								}
							}
						}
					}
					... on PullRequest {
						comments(first: $first, after: $after) {
							pageInfo {
								hasNextPage
								endCursor
							}
							nodes {
								id
								url
								body
								createdAt
								updatedAt
								author {
									login
								}
							}
						}
					}
				}
			}
		}
	`

	nodes, err := collect(ctx, 0, func(ctx context.Context, after *string) ([]commentNode, pageInfo, error) {
		var resp struct {
			Repository *struct {
				IssueOrPullRequest *struct {
					Comments struct {
						PageInfo pageInfo      `json:"pageInfo"`
						Nodes    []commentNode `json:"nodes"`
					} `json:"comments"`
				} `json:"issueOrPullRequest"`
			} `json:"repository"`
		}

		vars := map[string]any{
			"owner": owner, "name": name, "number": number,
			"first": 100, "after": after,
		}
		if err := c.exec(ctx, document, vars, &resp); err != nil {
			return nil, pageInfo{}, fmt.Errorf("failed to list comments: %w", err)
		}
		if resp.Repository == nil || resp.Repository.IssueOrPullRequest == nil {
			return nil, pageInfo{}, nil
		}
		page := resp.Repository.IssueOrPullRequest.Comments
		return page.Nodes, page.PageInfo, nil
	})
	if err != nil {
		return nil, err
	}

	comments := make([]domain.Comment, 0, len(nodes))
	for _, node := range nodes {
		comments = append(comments, node.toDomain())
	}
	return comments, nil
}

// ProjectIssueOptions filters ListProjectIssues. State is "open",
// "closed" or "all" (empty means "open"); Repo narrows the search to one
// repository, given as a bare name or owner/name; Limit 0 collects every
// search page up to the service's own result ceiling.
type ProjectIssueOptions struct {
	State string
	Repo  string
	Limit int
}

// searchIssueNode extends an issue with its board linkage list.
type searchIssueNode struct {
	issueNode
	ProjectItems struct {
		Nodes []struct {
			ID      string `json:"id"`
			Project struct {
				ID string `json:"id"`
			} `json:"project"`
			FieldValues struct {
				Nodes []rawFieldValue `json:"nodes"`
			} `json:"fieldValues"`
		} `json:"nodes"`
	} `json:"projectItems"`
}

// ListProjectIssues lists the issues linked to a board by searching the
// owner's issues and cross-referencing each result's own board linkage.
// This reverse path survives integration setups where direct container
// traversal comes back empty; the tradeoffs are the search index's fixed
// result ceiling and that draft notes never appear (use ListItems for
// those).
func (c *Client) ListProjectIssues(ctx context.Context, owner, identifier string, opts ProjectIssueOptions) ([]domain.ProjectIssue, error) {
	project, err := c.requireProject(ctx, owner, identifier)
	if err != nil {
		return nil, err
	}

	search, err := buildIssueSearch(owner, opts)
	if err != nil {
		return nil, err
	}

	document := `
		query($q: String!, $first: Int!, $after: String) {
			search(query: $q, type: ISSUE, first: $first, after: $after) {
				pageInfo {
					hasNextPage
					endCursor
				}
				nodes {
					... on Issue {
						id
						number
						title
						body
						state
						url
						createdAt
						updatedAt
						author {
							login
						}
						repository {
							nameWithOwner
						}
						projectItems(first: 20) {
							nodes {
								id
								project {
									id
								}
								fieldValues(first: 20) {
									nodes {
										... on ProjectV2ItemFieldSingleSelectValue {
											name
											field {
												... on ProjectV2SingleSelectField {
													name
												}
											}
										}
									}
								}
							}
						}
					}
				}
			}
		}
	`

	nodes, err := collect(ctx, opts.Limit, func(ctx context.Context, after *string) ([]searchIssueNode, pageInfo, error) {
		var resp struct {
			Search struct {
				PageInfo pageInfo          `json:"pageInfo"`
				Nodes    []searchIssueNode `json:"nodes"`
			} `json:"search"`
		}

		vars := map[string]any{"q": search, "first": 50, "after": after}
		if err := c.exec(ctx, document, vars, &resp); err != nil {
			return nil, pageInfo{}, fmt.Errorf("failed to search issues: %w", err)
		}
		return resp.Search.Nodes, resp.Search.PageInfo, nil
	})
	if err != nil {
		return nil, err
	}

	issues := make([]domain.ProjectIssue, 0, len(nodes))
	for _, node := range nodes {
		if node.ID == "" {
			continue // non-issue search hit, decoded as an empty fragment
		}
		for _, link := range node.ProjectItems.Nodes {
			if link.Project.ID != project.ID {
				continue
			}
			pi := domain.ProjectIssue{
				Issue:         node.issueNode.toDomain(),
				ProjectItemID: link.ID,
			}
			for _, fv := range link.FieldValues.Nodes {
				if fv.Field.Name == c.statusField() {
					name := fv.Name
					pi.Status = &name
					break
				}
			}
			issues = append(issues, pi)
			break
		}
		// Issues with no link to the target board are skipped silently.
	}
	return issues, nil
}

// buildIssueSearch assembles the search qualifier string.
func buildIssueSearch(owner string, opts ProjectIssueOptions) (string, error) {
	terms := []string{"org:" + owner, "is:issue"}

	switch opts.State {
	case "", "open":
		terms = append(terms, "is:open")
	case "closed":
		terms = append(terms, "is:closed")
	case "all":
		// no state qualifier
	default:
		return "", &PreconditionError{
			Message:      fmt.Sprintf("unknown state %q", opts.State),
			Alternatives: []string{"open", "closed", "all"},
		}
	}

	if opts.Repo != "" {
		repo := opts.Repo
		if !strings.Contains(repo, "/") {
			repo = owner + "/" + repo
		}
		terms = append(terms, "repo:"+repo)
	}

	return strings.Join(terms, " "), nil
}
