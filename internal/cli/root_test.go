package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robby/ghb/auth"
	"github.com/robby/ghb/gh"
)

func TestErrorObjectFor_TransportError(t *testing.T) {
	err := fmt.Errorf("failed to list projects: %w", &gh.TransportError{
		Message: "boom",
		Status:  502,
		Errors:  []gh.GraphQLError{{Type: "INTERNAL", Message: "boom"}},
	})

	obj := errorObjectFor(err)

	assert.Equal(t, "TransportError", obj.Name)
	assert.Equal(t, 502, obj.Status)
	require.Len(t, obj.Errors, 1)
	assert.Equal(t, "INTERNAL", obj.Errors[0].Type)
	assert.Contains(t, obj.Message, "boom")
}

func TestErrorObjectFor_PreconditionError(t *testing.T) {
	obj := errorObjectFor(&gh.PreconditionError{
		Message:      "unknown column \"Shipped\"",
		Alternatives: []string{"Todo", "Done"},
	})

	assert.Equal(t, "PreconditionError", obj.Name)
	assert.Zero(t, obj.Status)
	assert.Contains(t, obj.Message, "Todo")
}

func TestErrorObjectFor_ConfigurationError(t *testing.T) {
	obj := errorObjectFor(auth.ErrNoCredentials)

	assert.Equal(t, "ConfigurationError", obj.Name)
}

func TestErrorObjectFor_PlainErrorHasNoName(t *testing.T) {
	obj := errorObjectFor(errors.New("something else"))

	assert.Empty(t, obj.Name)
	assert.Equal(t, "something else", obj.Message)

	// Optional fields stay out of the wire shape entirely.
	out, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.JSONEq(t, `{"message": "something else"}`, string(out))
}

func TestSplitOwnerRepo(t *testing.T) {
	owner, repo, ok := splitOwnerRepo("acme/web")
	assert.True(t, ok)
	assert.Equal(t, "acme", owner)
	assert.Equal(t, "web", repo)

	_, _, ok = splitOwnerRepo("no-slash")
	assert.False(t, ok)
}

func TestRootCommand_RegistersAllSubcommands(t *testing.T) {
	root := newRootCmd()

	want := []string{
		"projects", "project", "columns", "items", "item", "move",
		"archive", "delete-item", "issue", "issues", "comments",
		"repos", "open",
	}
	got := make(map[string]bool)
	for _, c := range root.Commands() {
		got[c.Name()] = true
	}
	for _, name := range want {
		assert.True(t, got[name], "missing subcommand %q", name)
	}
}
