package rules

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/taskhub-io/taskhub-alerting/pkg/models"
)

// Catalog holds the ordered table of alert rules. At most one enabled rule
// exists per error type; rules are configuration data and the catalog is
// never mutated after construction.
type Catalog struct {
	rules []models.AlertRule
}

// NewCatalog creates a catalog from an ordered rule list
func NewCatalog(ruleList []models.AlertRule) *Catalog {
	copied := make([]models.AlertRule, len(ruleList))
	copy(copied, ruleList)
	return &Catalog{rules: copied}
}

// DefaultCatalog returns the built-in rule table for the Taskhub error
// taxonomy. Rule severities agree with the static mapping by construction.
func DefaultCatalog() *Catalog {
	return NewCatalog([]models.AlertRule{
		{
			ErrorType: models.ErrorTypeSecurityBreach,
			Severity:  models.SeverityCritical,
			// Always alert: a breach is never throttled.
			CooldownSeconds: 0,
			Enabled:         true,
		},
		{
			ErrorType:       models.ErrorTypeDatabaseConnectionLost,
			Severity:        models.SeverityCritical,
			CooldownSeconds: 60,
			Enabled:         true,
		},
		{
			ErrorType:       models.ErrorTypeHighErrorRate,
			Severity:        models.SeverityHigh,
			Threshold:       5.0,
			Comparison:      models.ComparisonGreaterThan,
			SustainSeconds:  60,
			CooldownSeconds: 300,
			Enabled:         true,
		},
		{
			ErrorType:       models.ErrorTypePaymentFailure,
			Severity:        models.SeverityHigh,
			CooldownSeconds: 120,
			Enabled:         true,
		},
		{
			ErrorType:       models.ErrorTypeExternalServiceDown,
			Severity:        models.SeverityHigh,
			CooldownSeconds: 300,
			Enabled:         true,
		},
		{
			ErrorType:       models.ErrorTypeSlowResponseTime,
			Severity:        models.SeverityMedium,
			Threshold:       2000.0,
			Comparison:      models.ComparisonGreaterThan,
			SustainSeconds:  120,
			CooldownSeconds: 600,
			Enabled:         true,
		},
		{
			ErrorType:       models.ErrorTypeDiskSpaceLow,
			Severity:        models.SeverityMedium,
			Threshold:       90.0,
			Comparison:      models.ComparisonGreaterThan,
			CooldownSeconds: 1800,
			Enabled:         true,
		},
		{
			ErrorType:       models.ErrorTypeMemoryUsageHigh,
			Severity:        models.SeverityMedium,
			Threshold:       85.0,
			Comparison:      models.ComparisonGreaterThan,
			CooldownSeconds: 900,
			Enabled:         true,
		},
		{
			ErrorType:       models.ErrorTypeTaskQueueBacklog,
			Severity:        models.SeverityLow,
			Threshold:       "1000",
			Comparison:      models.ComparisonGreaterThan,
			CooldownSeconds: 900,
			Enabled:         true,
		},
		{
			// Disabled pending tuning of the spike detector upstream.
			ErrorType:       models.ErrorTypeLoginFailuresSpike,
			Severity:        models.SeverityHigh,
			Threshold:       20.0,
			Comparison:      models.ComparisonGreaterThan,
			CooldownSeconds: 600,
			Enabled:         false,
		},
	})
}

// Rules returns a copy of the ordered rule table
func (c *Catalog) Rules() []models.AlertRule {
	copied := make([]models.AlertRule, len(c.rules))
	copy(copied, c.rules)
	return copied
}

// Lookup returns the first enabled rule for the error type. The second
// return value is false when no rule is configured or the configured rule
// is disabled: for those types nothing is recorded and nothing is alerted.
func (c *Catalog) Lookup(errorType models.ErrorType) (models.AlertRule, bool) {
	for _, rule := range c.rules {
		if rule.ErrorType == errorType && rule.Enabled {
			return rule, true
		}
	}
	return models.AlertRule{}, false
}

// EvaluateThreshold reports whether the current value crosses the rule's
// threshold. Numeric thresholds (numbers or numeric strings) are normalized
// to float64 before comparison; string thresholds use substring containment.
// A rule without a threshold always passes.
func EvaluateThreshold(rule models.AlertRule, currentValue interface{}) bool {
	if rule.Threshold == nil {
		return true
	}

	thresholdNum, thresholdIsNum := toFloat(rule.Threshold)
	currentNum, currentIsNum := toFloat(currentValue)

	switch rule.Comparison {
	case models.ComparisonGreaterThan:
		return thresholdIsNum && currentIsNum && currentNum > thresholdNum
	case models.ComparisonLessThan:
		return thresholdIsNum && currentIsNum && currentNum < thresholdNum
	case models.ComparisonEquals:
		if thresholdIsNum && currentIsNum {
			return currentNum == thresholdNum
		}
		return toString(currentValue) == toString(rule.Threshold)
	case models.ComparisonContains:
		return strings.Contains(toString(currentValue), toString(rule.Threshold))
	default:
		return false
	}
}

// IsOnCooldown reports whether the rule is still inside its cooldown
// window. A cooldown of 0 or an absent last trigger is never on cooldown.
func IsOnCooldown(rule models.AlertRule, lastTriggeredAt *time.Time, now time.Time) bool {
	if rule.CooldownSeconds <= 0 || lastTriggeredAt == nil {
		return false
	}
	return now.Before(lastTriggeredAt.Add(time.Duration(rule.CooldownSeconds) * time.Second))
}

// ShouldTrigger combines the enabled flag, threshold evaluation and the
// cooldown gate into one decision
func ShouldTrigger(rule models.AlertRule, currentValue interface{}, lastTriggeredAt *time.Time, now time.Time) bool {
	if !rule.Enabled {
		return false
	}
	if !EvaluateThreshold(rule, currentValue) {
		return false
	}
	return !IsOnCooldown(rule, lastTriggeredAt, now)
}

// toFloat normalizes numbers and numeric strings to float64
func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// toString renders a threshold or value for string comparison
func toString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
