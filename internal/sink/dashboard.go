package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/naka-gawa/pr-quality-stats/internal/domain"
)

// Dashboard pushes events to a dashboard's widget API:
// POST {base}/widgets/{id} with the payload and an auth_token field.
type Dashboard struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewDashboard creates a dashboard sink. A nil client means http.DefaultClient.
func NewDashboard(baseURL, authToken string, httpClient *http.Client, logger *slog.Logger) *Dashboard {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Dashboard{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		authToken:  authToken,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Emit builds and validates every request before the first POST, so only a
// transport failure can leave the dashboard with part of the event set.
func (d *Dashboard) Emit(ctx context.Context, events []domain.Event) error {
	reqs := make([]*http.Request, 0, len(events))
	for _, e := range events {
		req, err := d.newRequest(ctx, e)
		if err != nil {
			return err
		}
		reqs = append(reqs, req)
	}
	for i, req := range reqs {
		if err := d.send(req, events[i].ID); err != nil {
			return err
		}
	}
	d.logger.Info("events delivered to dashboard", "count", len(events))
	return nil
}

func (d *Dashboard) newRequest(ctx context.Context, e domain.Event) (*http.Request, error) {
	if e.ID == "" {
		return nil, errors.New("event without an ID")
	}
	payload := e.Payload()
	payload["auth_token"] = d.authToken
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event %s: %w", e.ID, err)
	}

	endpoint := d.baseURL + "/widgets/" + url.PathEscape(e.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request for event %s: %w", e.ID, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (d *Dashboard) send(req *http.Request, id string) error {
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send event %s: %w", id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("dashboard rejected event %s: %s: %s", id, resp.Status, strings.TrimSpace(string(msg)))
	}
	d.logger.Debug("event sent", "event", id)
	return nil
}
