package gh

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTransport(t *testing.T, handler http.HandlerFunc) *httpTransport {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tr := newHTTPTransport("test-token")
	tr.endpoint = srv.URL
	return tr
}

func TestHTTPTransport_DecodesData(t *testing.T) {
	var gotAuth string
	tr := testTransport(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, "viewer")
		assert.Equal(t, "alice", req.Variables["login"])

		w.Write([]byte(`{"data": {"viewer": {"login": "alice"}}}`))
	})

	var out struct {
		Viewer struct {
			Login string `json:"login"`
		} `json:"viewer"`
	}
	err := tr.Execute(context.Background(), "query { viewer { login } }", map[string]any{"login": "alice"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "alice", out.Viewer.Login)
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestHTTPTransport_ErrorsCarryTypeDiscriminator(t *testing.T) {
	tr := testTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"data": {"organization": null},
			"errors": [{"type": "NOT_FOUND", "message": "Could not resolve to an Organization with the login of 'nope'."}]
		}`))
	})

	err := tr.Execute(context.Background(), "query { organization(login: \"nope\") { id } }", nil, nil)

	require.Error(t, err)
	te, ok := err.(*TransportError)
	require.True(t, ok)
	require.Len(t, te.Errors, 1)
	assert.Equal(t, "NOT_FOUND", te.Errors[0].Type)
	assert.True(t, IsNotFound(err))
}

func TestHTTPTransport_PartialDataWithErrorsFailsWhole(t *testing.T) {
	tr := testTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"data": {"a": {"id": "1"}},
			"errors": [{"type": "FORBIDDEN", "message": "no access to b"}]
		}`))
	})

	var out map[string]any
	err := tr.Execute(context.Background(), "query { a { id } b { id } }", nil, &out)

	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	// Partial data is discarded, never surfaced.
	assert.Nil(t, out)
}

func TestHTTPTransport_NonOKStatus(t *testing.T) {
	tr := testTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	})

	err := tr.Execute(context.Background(), "query { viewer { login } }", nil, nil)

	require.Error(t, err)
	te, ok := err.(*TransportError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, te.Status)
	assert.Contains(t, te.Message, "upstream down")
}
