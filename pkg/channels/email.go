package channels

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/taskhub-io/taskhub-alerting/pkg/config"
	"github.com/taskhub-io/taskhub-alerting/pkg/models"
)

// EmailChannel is a placeholder for transactional email delivery. It
// validates its configuration and reports success without sending; the
// SMTP integration is pending.
type EmailChannel struct {
	cfg config.EmailConfig
}

// NewEmailChannel creates an email channel from configuration
func NewEmailChannel(cfg config.EmailConfig) *EmailChannel {
	return &EmailChannel{cfg: cfg}
}

// Name returns the channel name
func (c *EmailChannel) Name() string {
	return "email"
}

// SupportsSeverity reports whether the channel accepts the severity
func (c *EmailChannel) SupportsSeverity(severity models.Severity) bool {
	return severity.AtLeast(models.SeverityMedium)
}

// Send validates the recipient list and reports success. No mail is sent
// yet.
func (c *EmailChannel) Send(ctx context.Context, alert *models.Alert) error {
	if len(c.cfg.Recipients) == 0 {
		return errors.New("email recipients are not configured")
	}

	logrus.Infof("Email channel would deliver alert %s [%s] to %d recipient(s)",
		alert.ID, alert.Severity, len(c.cfg.Recipients))
	return nil
}
