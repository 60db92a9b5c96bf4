package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultEndpoint is the public restricted-accounts registry, templated
// with the identifier.
const DefaultEndpoint = "https://mugbalim.boi.org.il/api/umbraco/api/IframeSearchById/he/%s"

// The registry rejects requests without a browser-like user agent.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Status is the outcome of a restriction lookup.
type Status string

const (
	// StatusNotProvided means the identifier was empty or not numeric;
	// no call was made.
	StatusNotProvided Status = "no identifier provided"
	// StatusClear means the registry reported no restriction.
	StatusClear Status = "clear"
	// StatusRestricted means the registry reported a restriction, or did
	// not explicitly clear it.
	StatusRestricted Status = "restriction found"
	// StatusError means the call failed (timeout, transport, non-2xx).
	StatusError Status = "communication error"
	// StatusUnexpected means the response could not be interpreted.
	StatusUnexpected Status = "unexpected error"
)

// Result is the per-applicant verification outcome. Detail carries the
// error text for StatusError and StatusUnexpected.
type Result struct {
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Client checks identifiers against the restriction registry. Lookups are
// blocking with a bounded timeout; failures degrade to an error status so
// the rest of a screening run still completes.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a registry client. endpoint must contain one %s verb
// for the identifier; empty means DefaultEndpoint.
func NewClient(endpoint string, log zerolog.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// Check looks up one identifier. It never returns an error; every failure
// mode maps to a Status. No retries are performed.
func (c *Client) Check(ctx context.Context, idNumber string) Result {
	if !isDigits(idNumber) {
		return Result{Status: StatusNotProvided}
	}

	url := fmt.Sprintf(c.endpoint, idNumber)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{Status: StatusUnexpected, Detail: err.Error()}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("id_number", idNumber).Msg("Registry lookup failed")
		return Result{Status: StatusError, Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn().Int("status", resp.StatusCode).Str("id_number", idNumber).Msg("Registry returned non-2xx")
		return Result{Status: StatusError, Detail: fmt.Sprintf("unexpected status code: %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Status: StatusError, Detail: err.Error()}
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Result{Status: StatusUnexpected, Detail: err.Error()}
	}

	// Only an explicit false clears the applicant; anything else counts
	// as a restriction.
	if restricted, ok := payload["isRestricted"].(bool); ok && !restricted {
		return Result{Status: StatusClear}
	}
	return Result{Status: StatusRestricted}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
