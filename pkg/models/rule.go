package models

// Comparison is the operator a rule uses to evaluate its threshold
type Comparison string

const (
	ComparisonGreaterThan Comparison = "greater_than"
	ComparisonLessThan    Comparison = "less_than"
	ComparisonEquals      Comparison = "equals"
	ComparisonContains    Comparison = "contains"
)

// AlertRule is one entry of the alerting rule catalog. Rules are
// configuration data: the catalog is populated at process start and never
// mutated at runtime.
//
// Severity here is the configured severity of the rule. Alerts are always
// stamped with the severity from the static ErrorType mapping, not this
// field; the two are kept in agreement in the default catalog.
type AlertRule struct {
	ErrorType ErrorType `json:"errorType"`
	Severity  Severity  `json:"severity"`
	// Threshold is numeric, a numeric string, or a plain string depending
	// on the comparison operator.
	Threshold       interface{} `json:"threshold,omitempty"`
	Comparison      Comparison  `json:"comparison,omitempty"`
	SustainSeconds  int         `json:"sustainSeconds,omitempty"`
	CooldownSeconds int         `json:"cooldownSeconds"` // 0 means no cooldown
	Enabled         bool        `json:"enabled"`
}

// SubmitAlertRequest represents the request payload for submitting an
// error event to the alerting pipeline
type SubmitAlertRequest struct {
	ErrorType ErrorType              `json:"errorType"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	RequestID string                 `json:"requestId,omitempty"`
}
