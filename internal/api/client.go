package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/osanchezp/casaflow/internal/models"
)

// Client talks to the movement backend over REST. Requests carry the
// configured bearer token. There is no retry policy: a failed request
// surfaces its error and the form re-enables.
type Client struct {
	baseURL string
	token   string
	hc      *http.Client
}

// NewClient creates a client for the given base URL and bearer token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		hc:      &http.Client{Timeout: 15 * time.Second},
	}
}

// FormConfig fetches the selector data for the movement form. Called once
// per form session.
func (c *Client) FormConfig(ctx context.Context) (*models.FormConfig, error) {
	var cfg models.FormConfig
	if err := c.do(ctx, http.MethodGet, "/movement-form-config", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Accounts fetches all accounts and keeps only the income-eligible ones
// (savings and cash). The filter is the client's, not the server's.
func (c *Client) Accounts(ctx context.Context) ([]models.Account, error) {
	var all []models.Account
	if err := c.do(ctx, http.MethodGet, "/accounts", nil, &all); err != nil {
		return nil, err
	}
	var out []models.Account
	for _, a := range all {
		if a.Type == models.AccountSavings || a.Type == models.AccountCash {
			out = append(out, a)
		}
	}
	return out, nil
}

// Movement fetches one movement for edit prefill.
func (c *Client) Movement(ctx context.Context, id string) (*models.Movement, error) {
	var m models.Movement
	if err := c.do(ctx, http.MethodGet, "/movements/"+id, nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Movements lists stored movements, newest first.
func (c *Client) Movements(ctx context.Context) ([]models.Movement, error) {
	var out []models.Movement
	if err := c.do(ctx, http.MethodGet, "/movements", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Submit sends a built payload to its endpoint: movements to
// POST /movements, incomes to POST /income. A *DegradedError return means
// the write persisted but downstream sync is pending.
func (c *Client) Submit(ctx context.Context, p Payload) error {
	switch body := p.(type) {
	case MovementPayload:
		return c.do(ctx, http.MethodPost, "/movements", body, nil)
	case IncomePayload:
		return c.do(ctx, http.MethodPost, "/income", body, nil)
	default:
		return fmt.Errorf("unhandled payload type %T", p)
	}
}

// Update patches the mutable fields of an existing movement.
func (c *Client) Update(ctx context.Context, id string, u models.MovementUpdate) error {
	return c.do(ctx, http.MethodPatch, "/movements/"+id, u, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf *bytes.Buffer
	if body != nil {
		buf = &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return wrapTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		var degraded struct {
			Warning string `json:"warning"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&degraded)
		return &DegradedError{Message: degraded.Warning}
	}
	if resp.StatusCode >= 400 {
		var serverErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&serverErr)
		if serverErr.Error == "" {
			serverErr.Error = http.StatusText(resp.StatusCode)
		}
		return &ServerError{Status: resp.StatusCode, Message: serverErr.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
