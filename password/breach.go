package password

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBreachBaseURL is the public k-anonymity range endpoint.
	DefaultBreachBaseURL = "https://api.pwnedpasswords.com/range"

	// DefaultBreachUserAgent identifies this client to the breach API,
	// which rejects anonymous requests.
	DefaultBreachUserAgent = "Conta2Go-Security-Check"

	defaultBreachTimeout = 5 * time.Second

	hashPrefixLen = 5
)

// BreachClient queries a breached-password range API using k-anonymity:
// only the first five hex characters of the candidate's SHA-1 are sent,
// and the match against the returned suffix list happens locally.
type BreachClient struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// BreachClientOption customizes a [BreachClient].
type BreachClientOption func(*BreachClient)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) BreachClientOption {
	return func(b *BreachClient) { b.httpClient = c }
}

// WithBaseURL overrides the range-endpoint base URL.
func WithBaseURL(url string) BreachClientOption {
	return func(b *BreachClient) { b.baseURL = strings.TrimRight(url, "/") }
}

// WithUserAgent overrides the client identifier header.
func WithUserAgent(ua string) BreachClientOption {
	return func(b *BreachClient) { b.userAgent = ua }
}

// NewBreachClient creates a client against the public breach database.
func NewBreachClient(opts ...BreachClientOption) *BreachClient {
	b := &BreachClient{
		httpClient: &http.Client{Timeout: defaultBreachTimeout},
		baseURL:    DefaultBreachBaseURL,
		userAgent:  DefaultBreachUserAgent,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// IsCompromised reports whether password appears in the breach corpus.
// Any transport error or non-2xx response returns (false, err): the caller
// treats the password as not breached (fail-open) and may log err.
func (b *BreachClient) IsCompromised(ctx context.Context, password string) (bool, error) {
	sum := sha1.Sum([]byte(password))
	digest := strings.ToUpper(hex.EncodeToString(sum[:]))
	prefix, suffix := digest[:hashPrefixLen], digest[hashPrefixLen:]

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/"+prefix, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", b.userAgent)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("breach api returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}

	for _, line := range strings.Split(string(body), "\n") {
		candidate, _, _ := strings.Cut(strings.TrimSpace(line), ":")
		if candidate == suffix {
			return true, nil
		}
	}
	return false, nil
}
