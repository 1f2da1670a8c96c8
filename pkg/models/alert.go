package models

import (
	"time"
)

// Severity represents the urgency tier of an error condition
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// severityRanks orders severities from least to most urgent
var severityRanks = map[Severity]int{
	SeverityInfo:     0,
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Rank returns the numeric ordering of a severity. Unknown severities rank
// below info so they never out-rank a real tier.
func (s Severity) Rank() int {
	if rank, ok := severityRanks[s]; ok {
		return rank
	}
	return -1
}

// AtLeast reports whether s is as urgent as other or more
func (s Severity) AtLeast(other Severity) bool {
	return s.Rank() >= other.Rank()
}

// IsValid reports whether s is one of the known severity tiers
func (s Severity) IsValid() bool {
	_, ok := severityRanks[s]
	return ok
}

// ErrorType identifies a kind of operational problem. The set is closed;
// callers classify their failures into one of these before submitting.
type ErrorType string

const (
	ErrorTypeDatabaseConnectionLost ErrorType = "database_connection_lost"
	ErrorTypeSecurityBreach         ErrorType = "security_breach"
	ErrorTypeHighErrorRate          ErrorType = "high_error_rate"
	ErrorTypePaymentFailure         ErrorType = "payment_failure"
	ErrorTypeExternalServiceDown    ErrorType = "external_service_down"
	ErrorTypeSlowResponseTime       ErrorType = "slow_response_time"
	ErrorTypeDiskSpaceLow           ErrorType = "disk_space_low"
	ErrorTypeMemoryUsageHigh        ErrorType = "memory_usage_high"
	ErrorTypeTaskQueueBacklog       ErrorType = "task_queue_backlog"
	ErrorTypeLoginFailuresSpike     ErrorType = "login_failures_spike"
)

// ErrorTypes lists every known error type
func ErrorTypes() []ErrorType {
	return []ErrorType{
		ErrorTypeDatabaseConnectionLost,
		ErrorTypeSecurityBreach,
		ErrorTypeHighErrorRate,
		ErrorTypePaymentFailure,
		ErrorTypeExternalServiceDown,
		ErrorTypeSlowResponseTime,
		ErrorTypeDiskSpaceLow,
		ErrorTypeMemoryUsageHigh,
		ErrorTypeTaskQueueBacklog,
		ErrorTypeLoginFailuresSpike,
	}
}

// IsValid reports whether e is one of the known error types
func (e ErrorType) IsValid() bool {
	for _, known := range ErrorTypes() {
		if e == known {
			return true
		}
	}
	return false
}

// Alert represents a single triggered notification. Title, Message and
// Metadata hold the post-masking values; the unmasked originals are never
// retained.
type Alert struct {
	ID         string                 `json:"id"`
	ErrorType  ErrorType              `json:"errorType"`
	Severity   Severity               `json:"severity"`
	Title      string                 `json:"title"`
	Message    string                 `json:"message"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	RequestID  string                 `json:"requestId,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
	Resolved   bool                   `json:"resolved"`
	ResolvedAt *time.Time             `json:"resolvedAt,omitempty"`
}
