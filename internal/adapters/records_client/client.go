package records_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contracts"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

// Client talks to the persistence API on behalf of the wizard. The admin's
// token travels with every request.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) recordURL(kind domain.EntityKind, id string) string {
	u := c.baseURL + "/api/v1/" + kind.Segment()
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	return u
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}
	if token := contextkeys.TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceAPI, err)
	}
	return resp, nil
}

// statusError turns a non-2xx response into a domain error.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(body))
	var apiErr struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
		msg = apiErr.Error
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", domain.ErrRecordNotFound, msg)
	}
	return fmt.Errorf("%w: status %d: %s", domain.ErrPersistenceAPI, resp.StatusCode, msg)
}

func (c *Client) Fetch(ctx context.Context, kind domain.EntityKind, id string) (domain.Draft, error) {
	clientLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "RecordsClient",
		"method":    "Fetch",
		"kind":      kind,
		"record_id": id,
	})

	resp, err := c.doRequest(ctx, http.MethodGet, c.recordURL(kind, id), nil)
	if err != nil {
		clientLogger.Error("Failed to perform request to persistence API", err, nil)
		return domain.Draft{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := statusError(resp)
		clientLogger.Warn("Received non-OK response from persistence API", port.Fields{"status_code": resp.StatusCode})
		return domain.Draft{}, err
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		clientLogger.Error("Failed to decode record", err, nil)
		return domain.Draft{}, fmt.Errorf("%w: failed to decode record: %v", domain.ErrPersistenceAPI, err)
	}
	return contracts.DraftFromPayload(kind, payload)
}

func (c *Client) Create(ctx context.Context, kind domain.EntityKind, draft domain.Draft) (string, error) {
	clientLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "RecordsClient",
		"method":    "Create",
		"kind":      kind,
	})

	body, err := json.Marshal(contracts.DraftToPayload(kind, draft))
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, c.recordURL(kind, ""), bytes.NewReader(body))
	if err != nil {
		clientLogger.Error("Failed to perform request to persistence API", err, nil)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		err := statusError(resp)
		clientLogger.Warn("Persistence API rejected the record", port.Fields{"status_code": resp.StatusCode})
		return "", err
	}

	var created map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", domain.ErrPersistenceAPI, err)
	}
	id, _ := created[contracts.KeyID].(string)
	clientLogger.Info("Record created", port.Fields{"record_id": id})
	return id, nil
}

func (c *Client) Update(ctx context.Context, kind domain.EntityKind, id string, draft domain.Draft) error {
	clientLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "RecordsClient",
		"method":    "Update",
		"kind":      kind,
		"record_id": id,
	})

	body, err := json.Marshal(contracts.DraftToPayload(kind, draft))
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPatch, c.recordURL(kind, id), bytes.NewReader(body))
	if err != nil {
		clientLogger.Error("Failed to perform request to persistence API", err, nil)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		err := statusError(resp)
		clientLogger.Warn("Persistence API rejected the update", port.Fields{"status_code": resp.StatusCode})
		return err
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}
