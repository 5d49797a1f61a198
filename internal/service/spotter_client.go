package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrLeadIDNotFound is returned when Spotter accepted a lead but its id could
// not be resolved, neither from the creation response nor by name lookup.
var ErrLeadIDNotFound = errors.New("spotter lead id not found")

// SpotterLead is the lead payload of the Spotter LeadsAdd endpoint.
type SpotterLead struct {
	Name        string `json:"name"`
	Industry    string `json:"industry"`
	Source      string `json:"source"`
	SubSource   string `json:"subSource"`
	DDIPhone    string `json:"ddiPhone"`
	Phone       string `json:"phone"`
	City        string `json:"city"`
	Description string `json:"description"`
}

// SpotterPerson is the payload of the Spotter personsAdd endpoint.
type SpotterPerson struct {
	LeadID      string `json:"leadId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	JobTitle    string `json:"jobTitle"`
	DDIPhone1   string `json:"ddiPhone1"`
	Phone1      string `json:"phone1"`
	MainContact bool   `json:"mainContact"`
}

// SpotterClient abstracts the Spotter CRM API.
type SpotterClient interface {
	AddLead(ctx context.Context, token string, lead SpotterLead) (leadID string, err error)
	FindLeadID(ctx context.Context, token, name string) (string, error)
	AddPerson(ctx context.Context, token string, person SpotterPerson) error
}

// HTTPDoer abstracts the HTTP transport for testing.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPSpotterClient talks to the Spotter REST API. The per-user API token is
// passed on every call via the token_exact header.
type HTTPSpotterClient struct {
	client  HTTPDoer
	baseURL string
}

// NewHTTPSpotterClient builds a Spotter client against the given base URL.
func NewHTTPSpotterClient(client HTTPDoer, baseURL string) *HTTPSpotterClient {
	if baseURL == "" {
		panic("spotter baseURL must not be empty")
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPSpotterClient{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// AddLead submits a lead with duplicity validation enabled and returns the
// created lead id when the response carries one.
func (c *HTTPSpotterClient) AddLead(ctx context.Context, token string, lead SpotterLead) (string, error) {
	payload := map[string]any{
		"duplicityValidation": true,
		"lead":                lead,
	}
	body, err := c.postJSON(ctx, token, "/LeadsAdd", payload)
	if err != nil {
		return "", err
	}
	return leadIDFromBody(body), nil
}

// FindLeadID resolves a lead id by exact lead name.
func (c *HTTPSpotterClient) FindLeadID(ctx context.Context, token, name string) (string, error) {
	filter := url.QueryEscape(fmt.Sprintf("lead eq '%s'", name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/Leads?$filter="+filter, nil)
	if err != nil {
		return "", fmt.Errorf("create spotter request: %w", err)
	}
	c.setHeaders(req, token)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("spotter request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("spotter error: %s", extractSpotterError(resp.Body))
	}

	var payload struct {
		Value []map[string]any `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("could not decode spotter response: %w", err)
	}
	if len(payload.Value) == 0 {
		return "", ErrLeadIDNotFound
	}
	if id := stringifyID(payload.Value[0]["id"]); id != "" {
		return id, nil
	}
	return "", ErrLeadIDNotFound
}

// AddPerson attaches a contact person to an existing lead.
func (c *HTTPSpotterClient) AddPerson(ctx context.Context, token string, person SpotterPerson) error {
	_, err := c.postJSON(ctx, token, "/personsAdd", person)
	return err
}

func (c *HTTPSpotterClient) postJSON(ctx context.Context, token, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create spotter request: %w", err)
	}
	c.setHeaders(req, token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spotter request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("spotter error: %s", extractSpotterError(resp.Body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read spotter response: %w", err)
	}
	return data, nil
}

func (c *HTTPSpotterClient) setHeaders(req *http.Request, token string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("token_exact", token)
}

// leadIDFromBody digs a lead id out of a LeadsAdd response. Spotter tenants
// differ on the shape, so several known keys are tried; "" means the caller
// must fall back to a name lookup.
func leadIDFromBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"id", "leadId"} {
		if id := stringifyID(payload[key]); id != "" {
			return id
		}
	}
	switch value := payload["value"].(type) {
	case map[string]any:
		return stringifyID(value["id"])
	case []any:
		if len(value) > 0 {
			if first, ok := value[0].(map[string]any); ok {
				return stringifyID(first["id"])
			}
		}
	default:
		return stringifyID(value)
	}
	return ""
}

func stringifyID(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func extractSpotterError(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return "spotter returned an error"
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return string(data)
}

var _ SpotterClient = (*HTTPSpotterClient)(nil)
