// Package domain defines the normalized record types for GitHub Projects v2.
// These types are flat values independent of the GraphQL response shapes;
// everything above the client layer operates on them, never on raw unions.
package domain

// Project represents a GitHub Project v2 board.
type Project struct {
	ID          string `json:"id"`          // GitHub project node ID
	Number      int    `json:"number"`      // Project number within the owner's namespace
	Title       string `json:"title"`       // Project title
	URL         string `json:"url"`         // Web URL of the board
	Description string `json:"description"` // Short description, may be empty
}

// ProjectColumn is one option of the board's status field. All columns of
// the same board share one FieldID; OptionID is the value needed to move
// an item into the column.
type ProjectColumn struct {
	FieldID  string `json:"fieldId"`
	OptionID string `json:"optionId"`
	Name     string `json:"name"`
}

// Issue represents an issue as returned by creation and direct fetches.
type Issue struct {
	ID     string `json:"id"` // GitHub issue node ID (content ID, not a project item ID)
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body,omitempty"`
	State  string `json:"state"` // OPEN or CLOSED
	URL    string `json:"url"`
	Repo   string `json:"repo,omitempty"` // nameWithOwner, e.g. "octocat/hello"
}

// IssueDetails is an Issue plus audit fields requested by detail queries.
type IssueDetails struct {
	Issue
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	Author    string `json:"author,omitempty"` // login, empty when the author account is gone
}

// Comment represents a comment on an issue or pull request, in the order
// the service returned it.
type Comment struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	Author    string `json:"author,omitempty"`
}

// ProjectItem is a normalized board entry. ItemID identifies the entry on
// the board (move/archive/delete); for issues and pull requests the
// underlying content keeps its own node ID in ContentID (comment/close).
// Status is nil when the item has no value in the status field.
type ProjectItem struct {
	ItemID      string  `json:"itemId"`
	ContentID   string  `json:"contentId,omitempty"`
	ContentType string  `json:"contentType"` // Issue, PullRequest, DraftIssue or Redacted
	Title       string  `json:"title"`
	Number      int     `json:"number,omitempty"` // 0 for drafts and redacted items
	Repo        string  `json:"repo,omitempty"`
	URL         string  `json:"url,omitempty"`
	State       string  `json:"state,omitempty"`
	Status      *string `json:"status"`
}

// ProjectItemDetails is a ProjectItem plus the archive flag and a
// back-reference to the owning board. Project is nil when the caller's
// credentials cannot see the board.
type ProjectItemDetails struct {
	ProjectItem
	IsArchived bool     `json:"isArchived"`
	Project    *Project `json:"project"`
}

// ProjectIssue pairs an issue with its board linkage, as produced by the
// search-based project issue listing.
type ProjectIssue struct {
	Issue         IssueDetails `json:"issue"`
	ProjectItemID string       `json:"projectItemId"`
	Status        *string      `json:"status"`
}

// Repo represents a repository owned by an organization or user.
type Repo struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// ContentType values for ProjectItem.
const (
	ContentTypeIssue       = "Issue"
	ContentTypePullRequest = "PullRequest"
	ContentTypeDraftIssue  = "DraftIssue"
	ContentTypeRedacted    = "Redacted"
)

// Placeholder titles used by the item normalizer.
const (
	// TitleNone is reported when content exists but carries a blank title.
	TitleNone = "No Title"
	// TitleRedacted is reported when the item's content is hidden from the
	// caller's credentials entirely.
	TitleRedacted = "REDACTED"
)

// DefaultStatusField is the field name used to resolve item status when
// the caller does not configure one.
const DefaultStatusField = "Status"
