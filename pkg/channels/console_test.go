package channels

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub-io/taskhub-alerting/pkg/models"
)

// TestConsoleChannelSupportsAllSeverities tests the severity predicate
func TestConsoleChannelSupportsAllSeverities(t *testing.T) {
	channel := NewConsoleChannel()

	for _, severity := range []models.Severity{
		models.SeverityCritical,
		models.SeverityHigh,
		models.SeverityMedium,
		models.SeverityLow,
		models.SeverityInfo,
	} {
		assert.True(t, channel.SupportsSeverity(severity))
	}
}

// TestConsoleChannelSend tests the formatted output block
func TestConsoleChannelSend(t *testing.T) {
	var buf bytes.Buffer
	channel := NewConsoleChannelWithWriter(&buf)

	alert := &models.Alert{
		ID:        "alert-1",
		ErrorType: models.ErrorTypeDatabaseConnectionLost,
		Severity:  models.SeverityCritical,
		Title:     "Database Down",
		Message:   "primary connection refused",
		Metadata:  map[string]interface{}{"host": "db-1"},
		RequestID: "req-42",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	err := channel.Send(context.Background(), alert)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "CRITICAL")
	assert.Contains(t, output, "Database Down")
	assert.Contains(t, output, "alert-1")
	assert.Contains(t, output, "database_connection_lost")
	assert.Contains(t, output, "req-42")
	assert.Contains(t, output, "host: db-1")
}
