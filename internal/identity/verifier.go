package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// ErrInvalidAssertion is returned for every verification failure. The caller
// only learns that the assertion was rejected; the underlying cause is logged
// server-side by the auth service.
var ErrInvalidAssertion = errors.New("invalid identity assertion")

// Identity is the verified identity extracted from an external assertion.
// It is ephemeral: produced at login, never persisted.
type Identity struct {
	SubjectID   string
	Email       string
	DisplayName string
}

// Verifier validates an externally issued identity assertion.
type Verifier interface {
	Verify(ctx context.Context, assertion string) (*Identity, error)
}

// GoogleVerifier verifies Google-issued ID tokens against the tokeninfo
// endpoint. Verification is a single attempt; cryptographic failures are
// never retried.
type GoogleVerifier struct {
	tokenInfoURL string
	client       *http.Client
}

// NewGoogleVerifier creates a verifier. tokenInfoURL may be empty to use the
// Google default; timeout bounds the authority call.
func NewGoogleVerifier(tokenInfoURL string, timeout time.Duration) *GoogleVerifier {
	if tokenInfoURL == "" {
		tokenInfoURL = defaultTokenInfoURL
	}
	return &GoogleVerifier{
		tokenInfoURL: tokenInfoURL,
		client:       &http.Client{Timeout: timeout},
	}
}

// tokenInfoResponse is the subset of the tokeninfo payload we consume.
type tokenInfoResponse struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Verify calls the external authority and extracts the verified identity.
// Any failure collapses to ErrInvalidAssertion wrapped around the cause.
func (v *GoogleVerifier) Verify(ctx context.Context, assertion string) (*Identity, error) {
	if assertion == "" {
		return nil, ErrInvalidAssertion
	}

	reqURL := v.tokenInfoURL + "?id_token=" + url.QueryEscape(assertion)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAssertion, err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: authority unreachable: %w", ErrInvalidAssertion, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: authority returned status %d", ErrInvalidAssertion, resp.StatusCode)
	}

	var info tokenInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: malformed authority response: %w", ErrInvalidAssertion, err)
	}

	if info.Email == "" {
		return nil, fmt.Errorf("%w: authority response missing email", ErrInvalidAssertion)
	}

	return &Identity{
		SubjectID:   info.Sub,
		Email:       info.Email,
		DisplayName: info.Name,
	}, nil
}
