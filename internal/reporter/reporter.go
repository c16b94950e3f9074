// Package reporter delivers remote-control actions to the control server.
package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakehasgithubnow/MentraOS-Extended-App/pkg/model"
)

const requestTimeout = 5 * time.Second

// Client posts action events to a fixed endpoint. Delivery is best-effort:
// no retries, no queue. A dropped event is preferable to a stale one on a
// live control surface, so callers are expected to log and discard any
// returned error.
type Client struct {
	logger     *zap.Logger
	httpClient *http.Client
	endpoint   string
	userID     string
}

// NewClient creates a Client reporting for the given user to the given endpoint.
func NewClient(logger *zap.Logger, endpoint, userID string) *Client {
	return &Client{
		logger:     logger,
		httpClient: &http.Client{Timeout: requestTimeout},
		endpoint:   endpoint,
		userID:     userID,
	}
}

// Report sends a single action event. direction must be empty for select
// actions and "up" or "down" for cycle actions.
func (c *Client) Report(ctx context.Context, action, direction string) error {
	event := model.ActionEvent{
		UserID:    c.userID,
		Action:    action,
		Direction: direction,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	eventID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-ID", eventID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post event: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	c.logger.Debug("event delivered",
		zap.String("eventID", eventID),
		zap.String("action", action),
		zap.String("direction", direction))
	return nil
}
