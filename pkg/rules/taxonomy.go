package rules

import (
	"github.com/taskhub-io/taskhub-alerting/pkg/models"
)

// severityByType is the static ErrorType to Severity mapping. It is the
// authoritative source of an alert's severity at submission time and never
// changes at runtime.
var severityByType = map[models.ErrorType]models.Severity{
	models.ErrorTypeDatabaseConnectionLost: models.SeverityCritical,
	models.ErrorTypeSecurityBreach:         models.SeverityCritical,
	models.ErrorTypeHighErrorRate:          models.SeverityHigh,
	models.ErrorTypePaymentFailure:         models.SeverityHigh,
	models.ErrorTypeExternalServiceDown:    models.SeverityHigh,
	models.ErrorTypeLoginFailuresSpike:     models.SeverityHigh,
	models.ErrorTypeSlowResponseTime:       models.SeverityMedium,
	models.ErrorTypeDiskSpaceLow:           models.SeverityMedium,
	models.ErrorTypeMemoryUsageHigh:        models.SeverityMedium,
	models.ErrorTypeTaskQueueBacklog:       models.SeverityLow,
}

// SeverityFor resolves the severity of an error type from the static
// mapping. Unmapped types fall back to low; with the closed enum this is a
// defensive default that should not occur.
func SeverityFor(errorType models.ErrorType) models.Severity {
	if severity, ok := severityByType[errorType]; ok {
		return severity
	}
	return models.SeverityLow
}
