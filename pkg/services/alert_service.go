package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/taskhub-io/taskhub-alerting/pkg/channels"
	"github.com/taskhub-io/taskhub-alerting/pkg/masking"
	"github.com/taskhub-io/taskhub-alerting/pkg/metrics"
	"github.com/taskhub-io/taskhub-alerting/pkg/models"
	"github.com/taskhub-io/taskhub-alerting/pkg/rules"
)

const (
	// DedupWindow is the global minimum spacing between two alerts sharing
	// the same (errorType, title) key, independent of any rule cooldown.
	DedupWindow = 5 * time.Minute
	// RetentionWindow is how long alert records are kept in memory before
	// opportunistic eviction.
	RetentionWindow = 24 * time.Hour
)

// AlertService classifies incoming error events, applies the dedup and
// cooldown policy, masks sensitive data and fans sanitized alerts out to
// the registered delivery channels. All state is in-memory and
// process-lifetime only.
type AlertService struct {
	catalog *rules.Catalog
	maskCfg masking.Config

	mu sync.Mutex
	// alerts is the bounded in-memory alert table, keyed by alert id
	alerts map[string]*models.Alert
	// lastTriggered stores the most recent trigger per dedup key
	// ("errorType:title")
	lastTriggered map[string]time.Time
	// lastByType stores the most recent trigger per error type, feeding
	// per-rule cooldown evaluation
	lastByType map[models.ErrorType]time.Time
	channels   []channels.Channel

	collector *metrics.Collector

	// now is swappable in tests
	now func() time.Time
}

// NewAlertService creates an alert service with an empty channel list
func NewAlertService(catalog *rules.Catalog, maskCfg masking.Config, collector *metrics.Collector) *AlertService {
	return &AlertService{
		catalog:       catalog,
		maskCfg:       maskCfg,
		alerts:        make(map[string]*models.Alert),
		lastTriggered: make(map[string]time.Time),
		lastByType:    make(map[models.ErrorType]time.Time),
		collector:     collector,
		now:           time.Now,
	}
}

// RegisterChannel appends a delivery channel. The channel list is
// append-only and populated at process start.
func (s *AlertService) RegisterChannel(channel channels.Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels = append(s.channels, channel)
	logrus.Infof("Registered alert channel: %s", channel.Name())
}

// Submit runs the full alerting pipeline for one classified error event.
// It never returns an error to the caller: policy suppression is a logged
// no-op and channel failures are captured per channel. Callers treat this
// as call-and-forget.
func (s *AlertService) Submit(ctx context.Context, errorType models.ErrorType, title, message string, metadata map[string]interface{}, requestID string) {
	severity := rules.SeverityFor(errorType)

	if _, ok := s.catalog.Lookup(errorType); !ok {
		logrus.Debugf("No enabled rule for error type %s, dropping event %q", errorType, title)
		s.collector.RecordSuppressed("no_rule")
		return
	}

	dedupKey := fmt.Sprintf("%s:%s", errorType, title)

	s.mu.Lock()
	now := s.now()
	if last, seen := s.lastTriggered[dedupKey]; seen && now.Sub(last) < DedupWindow {
		s.mu.Unlock()
		logrus.Debugf("Suppressing duplicate alert %q (last triggered %s ago)", dedupKey, now.Sub(last).Round(time.Second))
		s.collector.RecordSuppressed("dedup_window")
		return
	}

	maskedMetadata := maskMetadata(metadata, s.maskCfg)
	alert := &models.Alert{
		ID:        uuid.New().String(),
		ErrorType: errorType,
		Severity:  severity,
		Title:     masking.MaskString(title, s.maskCfg),
		Message:   masking.MaskString(message, s.maskCfg),
		Metadata:  maskedMetadata,
		RequestID: requestID,
		CreatedAt: now,
	}

	s.alerts[alert.ID] = alert
	s.lastTriggered[dedupKey] = now
	s.lastByType[errorType] = now
	s.evictExpiredLocked(now)
	matched := s.matchChannelsLocked(severity)
	s.mu.Unlock()

	s.collector.RecordTriggered(string(severity), string(errorType))
	s.logAlert(alert)
	s.dispatch(ctx, alert, matched)
}

// ShouldTrigger evaluates the rule for an error type against a current
// value, including the per-rule cooldown based on the most recent trigger
// the service has recorded for that type
func (s *AlertService) ShouldTrigger(errorType models.ErrorType, currentValue interface{}) bool {
	rule, ok := s.catalog.Lookup(errorType)
	if !ok {
		return false
	}

	s.mu.Lock()
	var lastTriggeredAt *time.Time
	if last, seen := s.lastByType[errorType]; seen {
		lastTriggeredAt = &last
	}
	now := s.now()
	s.mu.Unlock()

	return rules.ShouldTrigger(rule, currentValue, lastTriggeredAt, now)
}

// GetActiveAlerts returns a snapshot of all non-resolved alerts, newest
// first. The snapshot holds value copies: the internal records stay
// mutable under the mutex only.
func (s *AlertService) GetActiveAlerts() []models.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]models.Alert, 0, len(s.alerts))
	for _, alert := range s.alerts {
		if !alert.Resolved {
			active = append(active, *alert)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})
	return active
}

// GetAlertsBySeverity returns a snapshot of all non-resolved alerts of one
// severity, newest first
func (s *AlertService) GetAlertsBySeverity(severity models.Severity) []models.Alert {
	all := s.GetActiveAlerts()
	filtered := make([]models.Alert, 0, len(all))
	for _, alert := range all {
		if alert.Severity == severity {
			filtered = append(filtered, alert)
		}
	}
	return filtered
}

// ResolveAlert marks an alert resolved and stamps the resolution time.
// Resolution is advisory bookkeeping: an unknown id is a no-op.
func (s *AlertService) ResolveAlert(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert, ok := s.alerts[id]
	if !ok || alert.Resolved {
		return
	}
	resolvedAt := s.now()
	alert.Resolved = true
	alert.ResolvedAt = &resolvedAt
	logrus.Infof("Resolved alert %s (%s)", id, alert.ErrorType)
}

// Rules returns the active rule catalog
func (s *AlertService) Rules() []models.AlertRule {
	return s.catalog.Rules()
}

// logAlert emits the structured log line for a created alert. CRITICAL
// alerts log at error level, everything else at warn.
func (s *AlertService) logAlert(alert *models.Alert) {
	entry := logrus.WithFields(logrus.Fields{
		"component":  "alerting",
		"alert_id":   alert.ID,
		"error_type": alert.ErrorType,
		"severity":   alert.Severity,
		"request_id": alert.RequestID,
		"metadata":   alert.Metadata,
	})
	if alert.Severity == models.SeverityCritical {
		entry.Errorf("ALERT: %s - %s", alert.Title, alert.Message)
	} else {
		entry.Warnf("ALERT: %s - %s", alert.Title, alert.Message)
	}
}

// matchChannelsLocked filters the registered channels by severity. Caller
// must hold the mutex.
func (s *AlertService) matchChannelsLocked(severity models.Severity) []channels.Channel {
	matched := make([]channels.Channel, 0, len(s.channels))
	for _, channel := range s.channels {
		if channel.SupportsSeverity(severity) {
			matched = append(matched, channel)
		}
	}
	return matched
}

// dispatch fans the alert out to the matched channels concurrently and
// waits for every outcome. One channel's failure never interrupts the
// others.
func (s *AlertService) dispatch(ctx context.Context, alert *models.Alert, matched []channels.Channel) {
	if len(matched) == 0 {
		logrus.Warnf("No registered channel accepts severity %s for alert %s", alert.Severity, alert.ID)
		return
	}

	var wg sync.WaitGroup
	for _, channel := range matched {
		wg.Add(1)
		go func(ch channels.Channel) {
			defer wg.Done()
			if err := ch.Send(ctx, alert); err != nil {
				logrus.Errorf("Channel %s failed to deliver alert %s: %v", ch.Name(), alert.ID, err)
				s.collector.RecordChannelSend(ch.Name(), false)
				return
			}
			logrus.Debugf("Channel %s delivered alert %s", ch.Name(), alert.ID)
			s.collector.RecordChannelSend(ch.Name(), true)
		}(channel)
	}
	wg.Wait()
}

// evictExpiredLocked drops alerts older than the retention window and
// prunes trigger history that can no longer suppress anything. Caller must
// hold the mutex. Eviction is opportunistic: it runs on every new
// submission rather than on a background timer.
func (s *AlertService) evictExpiredLocked(now time.Time) {
	for id, alert := range s.alerts {
		if now.Sub(alert.CreatedAt) > RetentionWindow {
			delete(s.alerts, id)
		}
	}

	for key, last := range s.lastTriggered {
		if now.Sub(last) >= DedupWindow {
			delete(s.lastTriggered, key)
		}
	}

	// Per-type triggers feed the rule cooldown, which may outlast the
	// dedup window.
	for errorType, last := range s.lastByType {
		horizon := DedupWindow
		if rule, ok := s.catalog.Lookup(errorType); ok {
			if cooldown := time.Duration(rule.CooldownSeconds) * time.Second; cooldown > horizon {
				horizon = cooldown
			}
		}
		if now.Sub(last) >= horizon {
			delete(s.lastByType, errorType)
		}
	}
}

// maskMetadata sanitizes a metadata map, keeping the map shape for the
// common case
func maskMetadata(metadata map[string]interface{}, cfg masking.Config) map[string]interface{} {
	if len(metadata) == 0 {
		return nil
	}
	masked := masking.MaskObject(metadata, cfg)
	if m, ok := masked.(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{"masked": masked}
}
