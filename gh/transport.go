package gh

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

const defaultEndpoint = "https://api.github.com/graphql"

// Transport executes a GraphQL document with variables and decodes the
// response data into out. Implementations return *TransportError for
// failures reported by the service.
type Transport interface {
	Execute(ctx context.Context, document string, variables map[string]any, out any) error
}

// GraphQLError is one entry of the structured error list a GraphQL
// response may carry alongside or instead of data.
type GraphQLError struct {
	Type    string `json:"type"` // e.g. "NOT_FOUND", "FORBIDDEN"
	Message string `json:"message"`
}

// TransportError is returned when the service rejects a request, either
// at the HTTP level (Status != 0) or with response-level errors.
type TransportError struct {
	Message string
	Status  int
	Errors  []GraphQLError
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("github: %s (status %d)", e.Message, e.Status)
	}
	return "github: " + e.Message
}

// IsNotFound reports whether err wraps a transport error carrying a
// NOT_FOUND entry in its structured error list. The owner-scope fallback
// uses this to decide when a failed lookup is safe to swallow.
func IsNotFound(err error) bool {
	var te *TransportError
	if !errors.As(err, &te) {
		return false
	}
	for _, ge := range te.Errors {
		if ge.Type == "NOT_FOUND" {
			return true
		}
	}
	return false
}

// httpTransport is the default Transport: a plain HTTP POST of
// {query, variables} authenticated by a static bearer token.
type httpTransport struct {
	endpoint string
	client   *http.Client
}

// newHTTPTransport builds a transport whose HTTP client injects the
// token via an oauth2 static token source.
func newHTTPTransport(token string) *httpTransport {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &httpTransport{
		endpoint: defaultEndpoint,
		client:   oauth2.NewClient(context.Background(), src),
	}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// Execute posts the document and decodes the data field into out. A
// response that carries errors fails as a whole; partial data is never
// surfaced.
func (t *httpTransport) Execute(ctx context.Context, document string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: document, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &TransportError{
			Message: strings.TrimSpace(string(msg)),
			Status:  resp.StatusCode,
		}
	}

	var gr graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(gr.Errors) > 0 {
		msgs := make([]string, 0, len(gr.Errors))
		for _, ge := range gr.Errors {
			msgs = append(msgs, ge.Message)
		}
		return &TransportError{
			Message: strings.Join(msgs, "; "),
			Errors:  gr.Errors,
		}
	}

	if out != nil {
		if err := json.Unmarshal(gr.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}

	return nil
}
