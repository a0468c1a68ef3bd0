// Package auth resolves the GitHub bearer token used by the client.
// It implements a simple interface with multiple providers following the
// "deep modules" principle - simple interface, complex implementation hidden.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrNoCredentials is returned when no credential source is configured.
// It carries the full list of accepted sources so the caller can print
// an actionable message.
var ErrNoCredentials = errors.New(
	"no GitHub credentials found; provide one of:\n" +
		"  1. an explicit token (Config.Token or --token)\n" +
		"  2. app credentials (Config.AppID, Config.InstallationID, Config.PrivateKey)\n" +
		"  3. the GITHUB_TOKEN environment variable",
)

// Config selects a credential source. Field priority when several are
// set: Token, then the app credential triple, then GITHUB_TOKEN from the
// process environment. The zero value resolves only via the environment.
type Config struct {
	Token          string
	AppID          int64
	InstallationID int64
	PrivateKey     []byte // PEM-encoded RSA key for app authentication
}

// TokenProvider defines the interface for obtaining a bearer token.
// Implementations may use different sources (static values, app token
// exchange, environment variables).
type TokenProvider interface {
	ResolveToken(ctx context.Context) (string, error)
}

// StaticProvider returns a literal token supplied by the caller.
type StaticProvider struct {
	Token string
}

func (p *StaticProvider) ResolveToken(ctx context.Context) (string, error) {
	if p.Token == "" {
		return "", errors.New("static token is empty")
	}
	return p.Token, nil
}

// EnvProvider obtains tokens from the GITHUB_TOKEN environment variable.
// This is the last-resort source when nothing is configured explicitly.
type EnvProvider struct{}

func (p *EnvProvider) ResolveToken(ctx context.Context) (string, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return "", errors.New("GITHUB_TOKEN environment variable not set or empty")
	}
	return token, nil
}

// Resolve picks a provider for cfg and runs it once, returning a bearer
// token usable against the GraphQL endpoint. Missing credentials fail
// with ErrNoCredentials before any network call; a configured-but-broken
// source fails with its own error instead of falling through, so a bad
// app key is never papered over by a stale GITHUB_TOKEN.
func Resolve(ctx context.Context, cfg Config) (string, error) {
	provider, err := providerFor(cfg)
	if err != nil {
		return "", err
	}

	token, err := provider.ResolveToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to resolve GitHub token: %w", err)
	}
	return token, nil
}

func providerFor(cfg Config) (TokenProvider, error) {
	if cfg.Token != "" {
		return &StaticProvider{Token: cfg.Token}, nil
	}
	if cfg.AppID != 0 || cfg.InstallationID != 0 || len(cfg.PrivateKey) > 0 {
		return NewAppProvider(cfg.AppID, cfg.InstallationID, cfg.PrivateKey)
	}
	if os.Getenv("GITHUB_TOKEN") != "" {
		return &EnvProvider{}, nil
	}
	return nil, ErrNoCredentials
}
