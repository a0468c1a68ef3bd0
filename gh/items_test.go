package gh

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robby/ghb/domain"
)

func statusValue(field, option string) rawFieldValue {
	fv := rawFieldValue{Name: option}
	fv.Field.Name = field
	return fv
}

func TestNormalizeItem_Issue(t *testing.T) {
	raw := rawItem{
		ID: "PVTI_1",
		Content: &rawContent{
			Typename: "Issue",
			ID:       "I_1",
			Title:    "Fix login",
			Number:   12,
			URL:      "https://github.com/acme/web/issues/12",
			State:    "OPEN",
		},
	}
	raw.Content.Repository = &struct {
		NameWithOwner string `json:"nameWithOwner"`
	}{NameWithOwner: "acme/web"}
	raw.FieldValues.Nodes = []rawFieldValue{statusValue("Status", "In Progress")}

	item := normalizeItem(raw, "Status")

	assert.Equal(t, "PVTI_1", item.ItemID)
	assert.Equal(t, "I_1", item.ContentID)
	assert.Equal(t, domain.ContentTypeIssue, item.ContentType)
	assert.Equal(t, "Fix login", item.Title)
	assert.Equal(t, 12, item.Number)
	assert.Equal(t, "acme/web", item.Repo)
	require.NotNil(t, item.Status)
	assert.Equal(t, "In Progress", *item.Status)
}

func TestNormalizeItem_DraftWithBlankTitleGetsPlaceholder(t *testing.T) {
	raw := rawItem{
		ID:      "PVTI_2",
		Content: &rawContent{Typename: "DraftIssue", ID: "DI_2", Title: "   "},
	}

	item := normalizeItem(raw, "Status")

	assert.Equal(t, domain.ContentTypeDraftIssue, item.ContentType)
	assert.Equal(t, domain.TitleNone, item.Title)
	assert.Zero(t, item.Number)
	assert.Empty(t, item.Repo)
}

func TestNormalizeItem_AbsentContentIsRedacted(t *testing.T) {
	raw := rawItem{ID: "PVTI_3"}

	item := normalizeItem(raw, "Status")

	assert.Equal(t, domain.ContentTypeRedacted, item.ContentType)
	assert.Equal(t, domain.TitleRedacted, item.Title)
	assert.Empty(t, item.ContentID)
}

func TestNormalizeItem_OtherFieldIsNotPickedUpAsStatus(t *testing.T) {
	raw := rawItem{
		ID:      "PVTI_4",
		Content: &rawContent{Typename: "Issue", ID: "I_4", Title: "T"},
	}
	raw.FieldValues.Nodes = []rawFieldValue{statusValue("Priority", "P1")}

	item := normalizeItem(raw, "Status")

	assert.Nil(t, item.Status)
}

func TestNormalizeItem_StatusFieldNameIsCaseSensitive(t *testing.T) {
	raw := rawItem{
		ID:      "PVTI_5",
		Content: &rawContent{Typename: "Issue", ID: "I_5", Title: "T"},
	}
	raw.FieldValues.Nodes = []rawFieldValue{statusValue("status", "Todo")}

	item := normalizeItem(raw, "Status")

	assert.Nil(t, item.Status)
}

const roadmapByNumber = `{
	"owner": {"projectV2": {"id": "PVT_1", "number": 1, "title": "Roadmap", "url": "u"}}
}`

func TestListItems_NormalizesEveryNode(t *testing.T) {
	tr := &scriptedTransport{steps: []step{
		{contains: "projectV2(number:", data: roadmapByNumber},
		{contains: "items(", data: `{
			"node": {"items": {
				"pageInfo": {"hasNextPage": false, "endCursor": ""},
				"nodes": [
					{
						"id": "PVTI_a",
						"fieldValues": {"nodes": [
							{},
							{"name": "Done", "field": {"name": "Status"}}
						]},
						"content": {"__typename": "Issue", "id": "I_a", "title": "A", "number": 1, "url": "u", "state": "OPEN"}
					},
					{"id": "PVTI_b", "fieldValues": {"nodes": []}, "content": null}
				]
			}}
		}`},
	}}
	client := newTestClient(tr)

	items, err := client.ListItems(context.Background(), "acme", "1", 0)

	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NotNil(t, items[0].Status)
	assert.Equal(t, "Done", *items[0].Status)
	assert.Equal(t, domain.ContentTypeRedacted, items[1].ContentType)
	assert.Nil(t, items[1].Status)
}

func TestGetItem_IncludesArchiveFlagAndProjectBackref(t *testing.T) {
	tr := &scriptedTransport{steps: []step{
		{contains: "isArchived", data: `{
			"node": {
				"id": "PVTI_x",
				"isArchived": true,
				"project": {"id": "PVT_1", "number": 1, "title": "Roadmap", "url": "u"},
				"fieldValues": {"nodes": []},
				"content": null
			}
		}`},
	}}
	client := newTestClient(tr)

	details, err := client.GetItem(context.Background(), "PVTI_x")

	require.NoError(t, err)
	require.NotNil(t, details)
	assert.True(t, details.IsArchived)
	require.NotNil(t, details.Project)
	assert.Equal(t, "PVT_1", details.Project.ID)
	// Redacted content is a valid state, not an error.
	assert.Equal(t, domain.TitleRedacted, details.Title)
}

func TestGetItem_UnknownIDIsNil(t *testing.T) {
	tr := &scriptedTransport{steps: []step{{contains: "node(", data: `{"node": null}`}}}
	client := newTestClient(tr)

	details, err := client.GetItem(context.Background(), "PVTI_missing")

	require.NoError(t, err)
	assert.Nil(t, details)
}

func TestMoveItem_UnknownColumnEnumeratesAlternatives(t *testing.T) {
	tr := &scriptedTransport{steps: []step{
		{contains: "projectV2(number:", data: roadmapByNumber},
		{contains: "fields(", data: statusFieldPage},
	}}
	client := newTestClient(tr)

	err := client.MoveItem(context.Background(), "acme", "1", "PVTI_a", "Shipped")

	var pe *PreconditionError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Error(), "Todo")
	assert.Contains(t, pe.Error(), "In Progress")
	assert.Contains(t, pe.Error(), "Done")
}

func TestMoveItem_MatchesColumnCaseInsensitively(t *testing.T) {
	tr := &scriptedTransport{steps: []step{
		{contains: "projectV2(number:", data: roadmapByNumber},
		{contains: "fields(", data: statusFieldPage},
		{contains: "updateProjectV2ItemFieldValue", data: `{
			"updateProjectV2ItemFieldValue": {"projectV2Item": {"id": "PVTI_a"}}
		}`},
	}}
	client := newTestClient(tr)

	err := client.MoveItem(context.Background(), "acme", "1", "PVTI_a", "in progress")

	require.NoError(t, err)
	last := tr.calls[len(tr.calls)-1]
	assert.Equal(t, "PVTI_a", last.variables["itemId"])
	assert.Equal(t, "F_status", last.variables["fieldId"])
	value := last.variables["value"].(map[string]any)
	assert.Equal(t, "O_doing", value["singleSelectOptionId"])
}

// boardTransport is a stateful double of one board: moving an item
// changes the status the next item listing reports.
type boardTransport struct {
	options map[string]string // option ID -> option name
	status  map[string]string // item ID -> option ID
}

func (b *boardTransport) Execute(ctx context.Context, document string, variables map[string]any, out any) error {
	var data string
	switch {
	case strings.Contains(document, "projectV2(number:"):
		data = roadmapByNumber
	case strings.Contains(document, "fields("):
		data = statusFieldPage
	case strings.Contains(document, "updateProjectV2ItemFieldValue"):
		value := variables["value"].(map[string]any)
		b.status[variables["itemId"].(string)] = value["singleSelectOptionId"].(string)
		data = `{"updateProjectV2ItemFieldValue": {"projectV2Item": {"id": "x"}}}`
	case strings.Contains(document, "items("):
		nodes := make([]string, 0, len(b.status))
		for itemID, optionID := range b.status {
			nodes = append(nodes, fmt.Sprintf(`{
				"id": %q,
				"fieldValues": {"nodes": [{"name": %q, "field": {"name": "Status"}}]},
				"content": {"__typename": "Issue", "id": "I_1", "title": "T", "number": 1, "url": "u", "state": "OPEN"}
			}`, itemID, b.options[optionID]))
		}
		data = fmt.Sprintf(`{"node": {"items": {
			"pageInfo": {"hasNextPage": false, "endCursor": ""},
			"nodes": [%s]
		}}}`, strings.Join(nodes, ","))
	default:
		return fmt.Errorf("unexpected document: %s", document)
	}
	return json.Unmarshal([]byte(data), out)
}

func TestMoveItem_NextListingReportsNewStatus(t *testing.T) {
	board := &boardTransport{
		options: map[string]string{"O_todo": "Todo", "O_doing": "In Progress", "O_done": "Done"},
		status:  map[string]string{"PVTI_a": "O_todo"},
	}
	client := newTestClient(board)
	ctx := context.Background()

	require.NoError(t, client.MoveItem(ctx, "acme", "1", "PVTI_a", "Done"))

	items, err := client.ListItems(ctx, "acme", "1", 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Status)
	assert.Equal(t, "Done", *items[0].Status)
}

func TestArchiveAndDeleteUseItemID(t *testing.T) {
	tr := &scriptedTransport{steps: []step{
		{contains: "archiveProjectV2Item", data: `{"archiveProjectV2Item": {"item": {"id": "PVTI_a"}}}`},
		{contains: "deleteProjectV2Item", data: `{"deleteProjectV2Item": {"deletedItemId": "PVTI_a"}}`},
	}}
	client := newTestClient(tr)
	ctx := context.Background()

	require.NoError(t, client.ArchiveItem(ctx, "PVT_1", "PVTI_a"))
	require.NoError(t, client.DeleteItem(ctx, "PVT_1", "PVTI_a"))

	for _, c := range tr.calls {
		assert.Equal(t, "PVTI_a", c.variables["itemId"])
		assert.Equal(t, "PVT_1", c.variables["projectId"])
	}
}
