package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultIntervalMs = 5000

// ErrorEvent represents a submission to the alerting API
type ErrorEvent struct {
	ErrorType string                 `json:"errorType"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	RequestID string                 `json:"requestId,omitempty"`
}

// Alert represents an alert returned from the API
type Alert struct {
	ID        string    `json:"id"`
	ErrorType string    `json:"errorType"`
	Severity  string    `json:"severity"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	Resolved  bool      `json:"resolved"`
}

func main() {
	// Get configuration from environment variables
	gatewayURL := getEnv("ALERTING_URL", "http://localhost:8080")
	intervalMs, _ := strconv.Atoi(getEnv("INTERVAL_MS", fmt.Sprintf("%d", defaultIntervalMs)))
	checkAlerts, _ := strconv.ParseBool(getEnv("CHECK_ALERTS", "true"))
	alertCheckIntervalSec, _ := strconv.Atoi(getEnv("ALERT_CHECK_INTERVAL_SEC", "10"))

	client := &http.Client{Timeout: 10 * time.Second}

	logrus.Infof("Starting error event generation against %s, one event every %d ms", gatewayURL, intervalMs)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start alert checking in a separate goroutine if enabled
	if checkAlerts {
		go monitorAlerts(ctx, client, gatewayURL, time.Duration(alertCheckIntervalSec)*time.Second)
	}

	ticker := time.NewTicker(time.Duration(intervalMs) * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		event := generateEvent()
		if err := submitEvent(ctx, client, gatewayURL, event); err != nil {
			logrus.Errorf("Error submitting event: %v", err)
			continue
		}
		logrus.Infof("Submitted %s event: %s", event.ErrorType, event.Title)

		// Occasionally submit a critical event carrying secrets so the
		// masking pipeline has something to chew on.
		if rand.Intn(5) == 0 {
			breach := generateBreachEvent()
			if err := submitEvent(ctx, client, gatewayURL, breach); err != nil {
				logrus.Errorf("Error submitting breach event: %v", err)
			} else {
				logrus.Warnf("🔥 Submitted breach event (should trigger a critical alert)")
			}
		}
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// generateEvent produces a routine operational error event
func generateEvent() ErrorEvent {
	samples := []ErrorEvent{
		{
			ErrorType: "high_error_rate",
			Title:     "High Error Rate",
			Message:   "5xx rate on the projects API exceeded the configured threshold",
			Metadata: map[string]interface{}{
				"errorRate": 5.0 + rand.Float64()*10.0,
				"endpoint":  "/api/projects",
			},
		},
		{
			ErrorType: "slow_response_time",
			Title:     "Slow Response Time",
			Message:   "p95 latency on the tasks API is degrading",
			Metadata: map[string]interface{}{
				"p95Ms":    2000 + rand.Intn(3000),
				"endpoint": "/api/tasks",
			},
		},
		{
			ErrorType: "disk_space_low",
			Title:     "Disk Space Low",
			Message:   "attachment volume is filling up",
			Metadata: map[string]interface{}{
				"usedPercent": 90 + rand.Intn(9),
				"volume":      "/var/lib/taskhub",
			},
		},
		{
			ErrorType: "task_queue_backlog",
			Title:     "Task Queue Backlog",
			Message:   "background job queue depth is growing",
			Metadata: map[string]interface{}{
				"queueDepth": 1000 + rand.Intn(5000),
			},
		},
	}
	event := samples[rand.Intn(len(samples))]
	event.RequestID = fmt.Sprintf("req-%06d", rand.Intn(1000000))
	return event
}

// generateBreachEvent produces a critical event with sensitive metadata
func generateBreachEvent() ErrorEvent {
	return ErrorEvent{
		ErrorType: "security_breach",
		Title:     "Unauthorized Access Attempt",
		Message:   "Repeated failed logins followed by a token replay for admin@taskhub.io",
		Metadata: map[string]interface{}{
			"userEmail": "admin@taskhub.io",
			"token":     "eyJhbGciOiJIUzI1NiJ9.simulated.signature",
			"sourceIp":  fmt.Sprintf("203.0.113.%d", rand.Intn(255)),
		},
		RequestID: fmt.Sprintf("req-%06d", rand.Intn(1000000)),
	}
}

// submitEvent posts one error event to the alerting API
func submitEvent(ctx context.Context, client *http.Client, gatewayURL string, event ErrorEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gatewayURL+"/api/alerts", bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed POST request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return nil
}

// monitorAlerts polls the active alert list and reports newly seen alerts
func monitorAlerts(ctx context.Context, client *http.Client, gatewayURL string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Track which alerts have been seen
	seenAlerts := make(map[string]bool)

	logrus.Info("Starting alert monitoring...")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			resp, err := client.Get(gatewayURL + "/api/alerts")
			if err != nil {
				logrus.Errorf("Failed to get alerts: %v", err)
				continue
			}

			if resp.StatusCode != http.StatusOK {
				logrus.Errorf("Failed to get alerts, status: %d", resp.StatusCode)
				resp.Body.Close()
				continue
			}

			var alerts []Alert
			if err := json.NewDecoder(resp.Body).Decode(&alerts); err != nil {
				logrus.Errorf("Failed to decode alerts: %v", err)
				resp.Body.Close()
				continue
			}
			resp.Body.Close()

			for _, alert := range alerts {
				// Skip already seen alerts
				if seenAlerts[alert.ID] {
					continue
				}
				seenAlerts[alert.ID] = true

				logrus.Infof("🔔 NEW ALERT DETECTED:\n"+
					"  ID:         %s\n"+
					"  Error Type: %s\n"+
					"  Severity:   %s\n"+
					"  Title:      %s\n"+
					"  Created:    %s\n",
					alert.ID,
					alert.ErrorType,
					alert.Severity,
					alert.Title,
					alert.CreatedAt.Format(time.RFC3339),
				)

				// Randomly resolve some alerts
				if rand.Intn(3) == 0 {
					go resolveAlert(client, gatewayURL, alert.ID)
				}
			}
		}
	}
}

// resolveAlert resolves an alert with the API
func resolveAlert(client *http.Client, gatewayURL, alertID string) {
	resp, err := client.Post(gatewayURL+"/api/alerts/"+alertID+"/resolve", "application/json", nil)
	if err != nil {
		logrus.Errorf("Failed to resolve alert %s: %v", alertID, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		logrus.Infof("✅ Resolved alert %s", alertID)
	} else {
		logrus.Errorf("Failed to resolve alert %s, status: %d", alertID, resp.StatusCode)
	}
}
