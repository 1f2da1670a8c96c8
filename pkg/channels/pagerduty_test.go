package channels

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub-io/taskhub-alerting/pkg/config"
	"github.com/taskhub-io/taskhub-alerting/pkg/models"
)

// TestPagerDutySeverityFilter tests that only critical alerts are accepted
func TestPagerDutySeverityFilter(t *testing.T) {
	channel := NewPagerDutyChannel(config.PagerDutyConfig{RoutingKey: "rk"})

	assert.True(t, channel.SupportsSeverity(models.SeverityCritical))
	assert.False(t, channel.SupportsSeverity(models.SeverityHigh))
	assert.False(t, channel.SupportsSeverity(models.SeverityMedium))
	assert.False(t, channel.SupportsSeverity(models.SeverityLow))
	assert.False(t, channel.SupportsSeverity(models.SeverityInfo))
}

// TestPagerDutyMissingRoutingKey tests the hard configuration failure
func TestPagerDutyMissingRoutingKey(t *testing.T) {
	channel := NewPagerDutyChannel(config.PagerDutyConfig{})

	err := channel.Send(context.Background(), &models.Alert{ID: "a-1", Severity: models.SeverityCritical})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "routing key")
}

// TestPagerDutySendPayload tests the Events v2 request body
func TestPagerDutySendPayload(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	channel := NewPagerDutyChannel(config.PagerDutyConfig{
		RoutingKey: "test-routing-key",
		Endpoint:   server.URL,
	})

	alert := &models.Alert{
		ID:        "alert-1",
		ErrorType: models.ErrorTypeSecurityBreach,
		Severity:  models.SeverityCritical,
		Title:     "Breach",
		Message:   "Unauthorized access",
		Metadata:  map[string]interface{}{"userId": "u-1"},
		RequestID: "req-7",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	err := channel.Send(context.Background(), alert)
	require.NoError(t, err)

	assert.Equal(t, "test-routing-key", received["routing_key"])
	assert.Equal(t, "trigger", received["event_action"])
	assert.Equal(t, "alert-1", received["dedup_key"])

	payload := received["payload"].(map[string]interface{})
	assert.Equal(t, "CRITICAL: Breach", payload["summary"])
	assert.Equal(t, "taskhub-alerting", payload["source"])
	assert.Equal(t, "critical", payload["severity"])

	details := payload["custom_details"].(map[string]interface{})
	assert.Equal(t, "alert-1", details["alert_id"])
	assert.Equal(t, "security_breach", details["error_type"])
	assert.Equal(t, "req-7", details["request_id"])
	assert.Equal(t, "2026-03-01T12:00:00Z", details["timestamp"])
}

// TestPagerDutySendServerError tests non-2xx handling
func TestPagerDutySendServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad routing key", http.StatusBadRequest)
	}))
	defer server.Close()

	channel := NewPagerDutyChannel(config.PagerDutyConfig{
		RoutingKey: "rk",
		Endpoint:   server.URL,
	})

	err := channel.Send(context.Background(), &models.Alert{ID: "a-1", Severity: models.SeverityCritical})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=400")
}
