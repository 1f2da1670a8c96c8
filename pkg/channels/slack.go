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

// SlackChannel posts alerts to a Slack incoming webhook. It accepts
// medium, high and critical severities; a missing webhook URL is a hard
// failure for this channel only.
type SlackChannel struct {
	cfg    config.SlackConfig
	client *http.Client
}

// slackMessage is the webhook request body
type slackMessage struct {
	Channel     string            `json:"channel,omitempty"`
	Username    string            `json:"username,omitempty"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Attachments []slackAttachment `json:"attachments"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Text   string       `json:"text"`
	Fields []slackField `json:"fields"`
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// NewSlackChannel creates a Slack webhook channel from configuration
func NewSlackChannel(cfg config.SlackConfig) *SlackChannel {
	if cfg.Username == "" {
		cfg.Username = "Taskhub Alerts"
	}
	return &SlackChannel{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Name returns the channel name
func (c *SlackChannel) Name() string {
	return "slack"
}

// SupportsSeverity reports whether the channel accepts the severity
func (c *SlackChannel) SupportsSeverity(severity models.Severity) bool {
	return severity.AtLeast(models.SeverityMedium)
}

// Send posts the alert to the configured webhook
func (c *SlackChannel) Send(ctx context.Context, alert *models.Alert) error {
	if strings.TrimSpace(c.cfg.WebhookURL) == "" {
		return errors.New("slack webhook url is not configured")
	}

	fields := []slackField{
		{Title: "Error Type", Value: string(alert.ErrorType), Short: true},
		{Title: "Alert ID", Value: alert.ID, Short: true},
		{Title: "Time", Value: alert.CreatedAt.Format(time.RFC3339), Short: true},
	}
	if alert.RequestID != "" {
		fields = append(fields, slackField{Title: "Request ID", Value: alert.RequestID, Short: true})
	}
	if len(alert.Metadata) > 0 {
		pretty, err := json.MarshalIndent(alert.Metadata, "", "  ")
		if err == nil {
			fields = append(fields, slackField{Title: "Metadata", Value: "```" + string(pretty) + "```"})
		}
	}

	message := slackMessage{
		Channel:   c.cfg.Channel,
		Username:  c.cfg.Username,
		IconEmoji: ":rotating_light:",
		Attachments: []slackAttachment{
			{
				Color:  colorFor(alert.Severity),
				Title:  fmt.Sprintf("[%s] %s", strings.ToUpper(string(alert.Severity)), alert.Title),
				Text:   alert.Message,
				Fields: fields,
			},
		},
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("encode slack message: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build slack request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.client.Do(request)
	if err != nil {
		return fmt.Errorf("slack send: %w", err)
	}
	defer response.Body.Close()
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return unexpectedHTTPStatusError("slack", response)
	}
	return nil
}
