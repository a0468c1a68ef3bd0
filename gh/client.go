// Package gh provides a GraphQL client for GitHub Projects v2 boards.
// It implements a deep module interface - simple methods hiding hand-built
// GraphQL documents, owner-scope fallback and cursor pagination.
package gh

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/robby/ghb/auth"
	"github.com/robby/ghb/domain"
)

// Config carries everything a Client needs. The zero value is usable
// when GITHUB_TOKEN is set in the environment.
type Config struct {
	// Auth selects the credential source; see auth.Config for priority.
	Auth auth.Config

	// StatusField is the name of the single-select field whose options
	// are the board columns. Matched case-sensitively against field
	// values. Defaults to "Status".
	StatusField string

	// Logger receives fallback diagnostics. Defaults to a disabled logger.
	Logger *zerolog.Logger

	// Transport overrides the default HTTP transport. Tests inject a
	// scripted transport here; when set, credential resolution is skipped.
	Transport Transport
}

// Client is a GitHub GraphQL API client for Projects v2 boards.
// All methods are strictly sequential; the only shared state is the
// memoized transport, initialized at most once across goroutines.
type Client struct {
	cfg Config
	log zerolog.Logger

	once sync.Once
	tr   Transport
	err  error
}

// New creates a client. No credential is resolved and no network call is
// made until the first operation runs.
func New(cfg Config) *Client {
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	return &Client{
		cfg: cfg,
		log: log.With().Str("component", "gh").Logger(),
	}
}

// statusField returns the configured status field name or the default.
func (c *Client) statusField() string {
	if c.cfg.StatusField != "" {
		return c.cfg.StatusField
	}
	return domain.DefaultStatusField
}

// transport resolves credentials and builds the transport exactly once.
// Concurrent first callers share the single in-flight resolution.
func (c *Client) transport(ctx context.Context) (Transport, error) {
	c.once.Do(func() {
		if c.cfg.Transport != nil {
			c.tr = c.cfg.Transport
			return
		}
		token, err := auth.Resolve(ctx, c.cfg.Auth)
		if err != nil {
			c.err = err
			return
		}
		c.tr = newHTTPTransport(token)
	})
	return c.tr, c.err
}

// exec runs one GraphQL document through the memoized transport.
func (c *Client) exec(ctx context.Context, document string, variables map[string]any, out any) error {
	tr, err := c.transport(ctx)
	if err != nil {
		return err
	}
	return tr.Execute(ctx, document, variables, out)
}
