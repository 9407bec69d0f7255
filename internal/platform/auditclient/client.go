// Package auditclient implements the audit.Client interface over HTTP,
// posting JSON records to the audit subsystem's ingest endpoint.
package auditclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/fundhub/contract-api/internal/audit"
	"github.com/fundhub/contract-api/internal/config"
)

// HTTPClient submits audit records to a remote audit service.
type HTTPClient struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewHTTPClient creates an HTTPClient from the audit configuration.
// If logger is nil, a default logger will be used.
func NewHTTPClient(cfg config.AuditConfig, logger *slog.Logger) *HTTPClient {
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPClient{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
		logger:   logger.With(slog.String("component", "audit_client")),
	}
}

// Ensure HTTPClient implements audit.Client.
var _ audit.Client = (*HTTPClient)(nil)

// Submit implements audit.Client.Submit.
// A non-2xx response is an error; the caller decides whether delivery failure
// is fatal to its own operation.
func (c *HTTPClient) Submit(ctx context.Context, record audit.Record) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode audit record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build audit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to submit audit record: %w", err)
	}
	defer func() {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close audit response body",
				slog.String("error", err.Error()))
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("audit service returned status %d", resp.StatusCode)
	}

	c.logger.Debug("audit record submitted",
		slog.String("action", string(record.Action)),
		slog.String("organization_id", record.OrganizationID.String()))
	return nil
}
