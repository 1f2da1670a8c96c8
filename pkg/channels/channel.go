package channels

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/taskhub-io/taskhub-alerting/pkg/models"
)

// Channel is one interchangeable delivery backend for alerts. Each
// implementation declares which severities it accepts; the alert service
// never routes an alert to a channel that rejects its severity.
type Channel interface {
	Name() string
	SupportsSeverity(severity models.Severity) bool
	Send(ctx context.Context, alert *models.Alert) error
}

// severityColors maps severities to attachment colors for chat channels
var severityColors = map[models.Severity]string{
	models.SeverityCritical: "#d00000",
	models.SeverityHigh:     "#e85d04",
	models.SeverityMedium:   "#ffba08",
	models.SeverityLow:      "#4895ef",
	models.SeverityInfo:     "#8d99ae",
}

// colorFor returns the display color of a severity
func colorFor(severity models.Severity) string {
	if color, ok := severityColors[severity]; ok {
		return color
	}
	return "#8d99ae"
}

// unexpectedHTTPStatusError formats a non-2xx HTTP response with optional body
func unexpectedHTTPStatusError(prefix string, response *http.Response) error {
	if response == nil {
		return fmt.Errorf("%s status=0", prefix)
	}
	rawBody, readErr := io.ReadAll(response.Body)
	if readErr != nil {
		return fmt.Errorf("%s status=%d (read body error: %w)", prefix, response.StatusCode, readErr)
	}
	trimmedBody := strings.TrimSpace(string(rawBody))
	if trimmedBody == "" {
		return fmt.Errorf("%s status=%d", prefix, response.StatusCode)
	}
	return fmt.Errorf("%s status=%d body=%s", prefix, response.StatusCode, trimmedBody)
}
