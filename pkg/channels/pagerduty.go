package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/taskhub-io/taskhub-alerting/pkg/config"
	"github.com/taskhub-io/taskhub-alerting/pkg/models"
)

const defaultPagerDutyEndpoint = "https://events.pagerduty.com/v2/enqueue"

// pagerDutySeverities maps alert severities onto the PagerDuty Events API
// severity values
var pagerDutySeverities = map[models.Severity]string{
	models.SeverityCritical: "critical",
	models.SeverityHigh:     "error",
	models.SeverityMedium:   "warning",
	models.SeverityLow:      "info",
	models.SeverityInfo:     "info",
}

// PagerDutyChannel delivers critical alerts to PagerDuty through the
// Events v2 API. A missing routing key is a hard failure for this channel
// only.
type PagerDutyChannel struct {
	cfg    config.PagerDutyConfig
	client *http.Client
}

// pagerDutyEvent is the Events v2 request body
type pagerDutyEvent struct {
	RoutingKey  string           `json:"routing_key"`
	EventAction string           `json:"event_action"`
	DedupKey    string           `json:"dedup_key"`
	Payload     pagerDutyPayload `json:"payload"`
}

type pagerDutyPayload struct {
	Summary       string                 `json:"summary"`
	Source        string                 `json:"source"`
	Severity      string                 `json:"severity"`
	CustomDetails map[string]interface{} `json:"custom_details,omitempty"`
}

// NewPagerDutyChannel creates a PagerDuty channel from configuration
func NewPagerDutyChannel(cfg config.PagerDutyConfig) *PagerDutyChannel {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultPagerDutyEndpoint
	}
	return &PagerDutyChannel{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Name returns the channel name
func (c *PagerDutyChannel) Name() string {
	return "pagerduty"
}

// SupportsSeverity reports whether the channel accepts the severity.
// PagerDuty is reserved for critical incidents.
func (c *PagerDutyChannel) SupportsSeverity(severity models.Severity) bool {
	return severity == models.SeverityCritical
}

// Send triggers a PagerDuty incident for the alert
func (c *PagerDutyChannel) Send(ctx context.Context, alert *models.Alert) error {
	if strings.TrimSpace(c.cfg.RoutingKey) == "" {
		return errors.New("pagerduty routing key is not configured")
	}

	event := pagerDutyEvent{
		RoutingKey:  c.cfg.RoutingKey,
		EventAction: "trigger",
		DedupKey:    alert.ID,
		Payload: pagerDutyPayload{
			Summary:  fmt.Sprintf("%s: %s", strings.ToUpper(string(alert.Severity)), alert.Title),
			Source:   "taskhub-alerting",
			Severity: pagerDutySeverities[alert.Severity],
			CustomDetails: map[string]interface{}{
				"alert_id":   alert.ID,
				"error_type": alert.ErrorType,
				"message":    alert.Message,
				"request_id": alert.RequestID,
				"metadata":   alert.Metadata,
				"timestamp":  alert.CreatedAt.Format(time.RFC3339),
			},
		},
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode pagerduty event: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build pagerduty request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.client.Do(request)
	if err != nil {
		return fmt.Errorf("pagerduty send: %w", err)
	}
	defer response.Body.Close()
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return unexpectedHTTPStatusError("pagerduty", response)
	}
	return nil
}
