package gh

import (
	"context"
	"fmt"
	"strings"

	"github.com/robby/ghb/domain"
)

// rawFieldValue is one entry of an item's field-value list. Values of
// non-single-select fields decode as empty entries and are skipped.
type rawFieldValue struct {
	Name  string `json:"name"` // option name for single-select values
	Field struct {
		Name string `json:"name"`
	} `json:"field"`
}

// rawContent is the polymorphic content union behind a board item.
// A nil rawContent means the caller's credentials cannot see the
// underlying issue or pull request at all.
type rawContent struct {
	Typename   string `json:"__typename"`
	ID         string `json:"id"`
	Title      string `json:"title"`
	Number     int    `json:"number"`
	URL        string `json:"url"`
	State      string `json:"state"`
	Repository *struct {
		NameWithOwner string `json:"nameWithOwner"`
	} `json:"repository"`
}

type rawItem struct {
	ID          string `json:"id"`
	IsArchived  bool   `json:"isArchived"`
	FieldValues struct {
		Nodes []rawFieldValue `json:"nodes"`
	} `json:"fieldValues"`
	Content *rawContent `json:"content"`
}

// itemFragment is the shared selection for board items. The content
// union is flattened immediately after decoding; nothing above
// normalizeItem ever touches the raw tagged shape.
const itemFragment = `
	id
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
	content {
		__typename
		... on Issue {
			id
			title
			number
			url
			state
			repository {
				nameWithOwner
			}
		}
		... on PullRequest {
			id
			title
			number
			url
			state
			repository {
				nameWithOwner
			}
		}
		... on DraftIssue {
			id
			title
		}
	}
`

// normalizeItem flattens a raw board item into a domain.ProjectItem.
// Absent content is the permission-redaction case and is reported with
// the REDACTED placeholder; present content with a blank title gets the
// "No Title" placeholder instead. Status is taken from the field-value
// entry whose field name equals statusField exactly; no entry means a
// nil status.
func normalizeItem(raw rawItem, statusField string) domain.ProjectItem {
	item := domain.ProjectItem{ItemID: raw.ID}

	for _, fv := range raw.FieldValues.Nodes {
		if fv.Field.Name == statusField {
			name := fv.Name
			item.Status = &name
			break
		}
	}

	if raw.Content == nil {
		item.ContentType = domain.ContentTypeRedacted
		item.Title = domain.TitleRedacted
		return item
	}

	item.ContentID = raw.Content.ID
	item.Title = raw.Content.Title
	if strings.TrimSpace(item.Title) == "" {
		item.Title = domain.TitleNone
	}

	switch raw.Content.Typename {
	case "Issue":
		item.ContentType = domain.ContentTypeIssue
	case "PullRequest":
		item.ContentType = domain.ContentTypePullRequest
	case "DraftIssue":
		item.ContentType = domain.ContentTypeDraftIssue
		return item // drafts have no number, repository or state
	default:
		// Content block present but no known discriminator matched;
		// treat like a draft, keeping the placeholder title.
		item.ContentType = domain.ContentTypeDraftIssue
		return item
	}

	item.Number = raw.Content.Number
	item.URL = raw.Content.URL
	item.State = raw.Content.State
	if raw.Content.Repository != nil {
		item.Repo = raw.Content.Repository.NameWithOwner
	}
	return item
}

// ListItems lists a board's items via direct container traversal,
// normalized per the configured status field. limit 0 returns all items.
// Draft notes appear here but never in ListProjectIssues.
func (c *Client) ListItems(ctx context.Context, owner, identifier string, limit int) ([]domain.ProjectItem, error) {
	project, err := c.requireProject(ctx, owner, identifier)
	if err != nil {
		return nil, err
	}

	document := `
		query($projectId: ID!, $first: Int!, $after: String) {
			node(id: $projectId) {
				... on ProjectV2 {
					items(first: $first, after: $after) {
						pageInfo {
							hasNextPage
							endCursor
						}
						nodes {` + itemFragment + `}
					}
				}
			}
		}
	`

	raws, err := collect(ctx, limit, func(ctx context.Context, after *string) ([]rawItem, pageInfo, error) {
		var resp struct {
			Node *struct {
				Items struct {
					PageInfo pageInfo  `json:"pageInfo"`
					Nodes    []rawItem `json:"nodes"`
				} `json:"items"`
			} `json:"node"`
		}

		vars := map[string]any{"projectId": project.ID, "first": 100, "after": after}
		if err := c.exec(ctx, document, vars, &resp); err != nil {
			return nil, pageInfo{}, fmt.Errorf("failed to list items: %w", err)
		}
		if resp.Node == nil {
			return nil, pageInfo{}, nil
		}
		return resp.Node.Items.Nodes, resp.Node.Items.PageInfo, nil
	})
	if err != nil {
		return nil, err
	}

	items := make([]domain.ProjectItem, 0, len(raws))
	for _, raw := range raws {
		items = append(items, normalizeItem(raw, c.statusField()))
	}
	return items, nil
}

// GetItem fetches a single board item by its item node ID, including the
// archive flag and a back-reference to the owning board. Returns nil
// when the ID resolves to nothing.
func (c *Client) GetItem(ctx context.Context, itemID string) (*domain.ProjectItemDetails, error) {
	document := `
		query($itemId: ID!) {
			node(id: $itemId) {
				... on ProjectV2Item {
					isArchived
					project {
						id
						number
						title
						url
						shortDescription
					}` + itemFragment + `
				}
			}
		}
	`

	var resp struct {
		Node *struct {
			rawItem
			Project *projectNode `json:"project"`
		} `json:"node"`
	}

	if err := c.exec(ctx, document, map[string]any{"itemId": itemID}, &resp); err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if resp.Node == nil || resp.Node.ID == "" {
		return nil, nil
	}

	details := &domain.ProjectItemDetails{
		ProjectItem: normalizeItem(resp.Node.rawItem, c.statusField()),
		IsArchived:  resp.Node.IsArchived,
	}
	if resp.Node.Project != nil {
		p := resp.Node.Project.toDomain()
		details.Project = &p
	}
	return details, nil
}

// AddItemToProject links existing content (an issue or pull request node
// ID) to a board and returns the new item's ID.
func (c *Client) AddItemToProject(ctx context.Context, projectID, contentID string) (string, error) {
	document := `
		mutation($projectId: ID!, $contentId: ID!) {
			addProjectV2ItemById(input: {projectId: $projectId, contentId: $contentId}) {
				item {
					id
				}
			}
		}
	`

	var resp struct {
		AddProjectV2ItemByID struct {
			Item struct {
				ID string `json:"id"`
			} `json:"item"`
		} `json:"addProjectV2ItemById"`
	}

	vars := map[string]any{"projectId": projectID, "contentId": contentID}
	if err := c.exec(ctx, document, vars, &resp); err != nil {
		return "", fmt.Errorf("failed to add item to project: %w", err)
	}
	return resp.AddProjectV2ItemByID.Item.ID, nil
}

// MoveItem sets the item's status field to the named column. The column
// name is matched case-insensitively against the board's options; an
// unknown name fails with the valid column names enumerated.
func (c *Client) MoveItem(ctx context.Context, owner, identifier, itemID, column string) error {
	project, err := c.requireProject(ctx, owner, identifier)
	if err != nil {
		return err
	}

	columns, err := c.listColumnsByProjectID(ctx, project.ID)
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		return &PreconditionError{
			Message: fmt.Sprintf("project %q has no %q field", project.Title, c.statusField()),
		}
	}

	var target *domain.ProjectColumn
	names := make([]string, 0, len(columns))
	for i, col := range columns {
		names = append(names, col.Name)
		if target == nil && strings.EqualFold(col.Name, column) {
			target = &columns[i]
		}
	}
	if target == nil {
		return &PreconditionError{
			Message:      fmt.Sprintf("unknown column %q", column),
			Alternatives: names,
		}
	}

	return c.updateItemField(ctx, project.ID, itemID, target.FieldID, target.OptionID)
}

// updateItemField updates a board item's single-select field value.
func (c *Client) updateItemField(ctx context.Context, projectID, itemID, fieldID, optionID string) error {
	document := `
		mutation($projectId: ID!, $itemId: ID!, $fieldId: ID!, $value: ProjectV2FieldValue!) {
			updateProjectV2ItemFieldValue(
				input: {
					projectId: $projectId
					itemId: $itemId
					fieldId: $fieldId
					value: $value
				}
			) {
				projectV2Item {
					id
				}
			}
		}
	`

	vars := map[string]any{
		"projectId": projectID,
		"itemId":    itemID,
		"fieldId":   fieldID,
		"value":     map[string]any{"singleSelectOptionId": optionID},
	}

	var resp struct {
		UpdateProjectV2ItemFieldValue struct {
			ProjectV2Item struct {
				ID string `json:"id"`
			} `json:"projectV2Item"`
		} `json:"updateProjectV2ItemFieldValue"`
	}

	if err := c.exec(ctx, document, vars, &resp); err != nil {
		return fmt.Errorf("failed to update item field: %w", err)
	}
	return nil
}

// ArchiveItem archives a board item. The item stays on the board but is
// hidden from the default view.
func (c *Client) ArchiveItem(ctx context.Context, projectID, itemID string) error {
	document := `
		mutation($projectId: ID!, $itemId: ID!) {
			archiveProjectV2Item(input: {projectId: $projectId, itemId: $itemId}) {
				item {
					id
				}
			}
		}
	`

	var resp struct {
		ArchiveProjectV2Item struct {
			Item struct {
				ID string `json:"id"`
			} `json:"item"`
		} `json:"archiveProjectV2Item"`
	}

	vars := map[string]any{"projectId": projectID, "itemId": itemID}
	if err := c.exec(ctx, document, vars, &resp); err != nil {
		return fmt.Errorf("failed to archive item: %w", err)
	}
	return nil
}

// DeleteItem removes a board item. The underlying issue or pull request
// is untouched.
func (c *Client) DeleteItem(ctx context.Context, projectID, itemID string) error {
	document := `
		mutation($projectId: ID!, $itemId: ID!) {
			deleteProjectV2Item(input: {projectId: $projectId, itemId: $itemId}) {
				deletedItemId
			}
		}
	`

	var resp struct {
		DeleteProjectV2Item struct {
			DeletedItemID string `json:"deletedItemId"`
		} `json:"deleteProjectV2Item"`
	}

	vars := map[string]any{"projectId": projectID, "itemId": itemID}
	if err := c.exec(ctx, document, vars, &resp); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}
