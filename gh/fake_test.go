package gh

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// step is one scripted exchange: the document must contain the given
// substring, and either data (a JSON object for the response data field)
// or err is returned.
type step struct {
	contains string
	data     string
	err      error
}

// scriptedTransport replays a fixed sequence of responses and records
// every request so tests can assert which documents were (not) sent.
type scriptedTransport struct {
	steps []step
	calls []call
}

type call struct {
	document  string
	variables map[string]any
}

func (f *scriptedTransport) Execute(ctx context.Context, document string, variables map[string]any, out any) error {
	f.calls = append(f.calls, call{document: document, variables: variables})

	if len(f.steps) == 0 {
		return fmt.Errorf("unexpected request: %s", document)
	}
	st := f.steps[0]
	f.steps = f.steps[1:]

	if st.contains != "" && !strings.Contains(document, st.contains) {
		return fmt.Errorf("expected document containing %q, got: %s", st.contains, document)
	}
	if st.err != nil {
		return st.err
	}
	if out != nil && st.data != "" {
		return json.Unmarshal([]byte(st.data), out)
	}
	return nil
}

func notFoundError(msg string) *TransportError {
	return &TransportError{
		Message: msg,
		Errors:  []GraphQLError{{Type: "NOT_FOUND", Message: msg}},
	}
}

func newTestClient(tr Transport) *Client {
	return New(Config{Transport: tr})
}
