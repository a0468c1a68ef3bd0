package auth

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultAPIBase = "https://api.github.com"

// AppProvider exchanges GitHub App credentials for an installation
// access token: it signs a short-lived RS256 JWT identifying the app,
// then posts it to the installation access-tokens endpoint.
type AppProvider struct {
	appID          int64
	installationID int64
	privateKey     *rsa.PrivateKey

	// apiBase and httpClient are overridable for tests.
	apiBase    string
	httpClient *http.Client
}

// NewAppProvider validates the app credential triple and parses the PEM
// key. All three values are required; a partial triple is a
// configuration error, not a fallback case.
func NewAppProvider(appID, installationID int64, privateKey []byte) (*AppProvider, error) {
	if appID == 0 || installationID == 0 || len(privateKey) == 0 {
		return nil, errors.New("app authentication requires app ID, installation ID and private key together")
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse app private key: %w", err)
	}

	return &AppProvider{
		appID:          appID,
		installationID: installationID,
		privateKey:     key,
		apiBase:        defaultAPIBase,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// signJWT creates the app-level JWT. Issued-at is backdated a minute to
// absorb clock skew between this host and the API.
func (p *AppProvider) signJWT() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now.Add(-60 * time.Second)),
		ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
		Issuer:    fmt.Sprintf("%d", p.appID),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(p.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign app JWT: %w", err)
	}
	return signed, nil
}

type installationTokenResponse struct {
	Token string `json:"token"`
}

// ResolveToken performs the installation token exchange. The caller is
// expected to memoize the result; this method itself caches nothing.
func (p *AppProvider) ResolveToken(ctx context.Context) (string, error) {
	appJWT, err := p.signJWT()
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/app/installations/%d/access_tokens", p.apiBase, p.installationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+appJWT)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("installation token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("installation token request failed (status %d): %s", resp.StatusCode, body)
	}

	var tr installationTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tr.Token == "" {
		return "", errors.New("installation token response contained no token")
	}

	return tr.Token, nil
}
