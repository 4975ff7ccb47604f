package entity

import "export-pilot/constants"

// DiagnosisResult is the verdict for one checklist item in one run.
// Reason and Guide are populated only on FAIL.
type DiagnosisResult struct {
	Status constants.CheckStatus `json:"status"`
	Reason string                `json:"reason,omitempty"`
	Guide  string                `json:"guide,omitempty"`
}

// DiagnosisSummary aggregates a result set by counting statuses.
type DiagnosisSummary struct {
	Pass int `json:"pass"`
	Fail int `json:"fail"`
}

// ActionItem is the dashboard remediation entry derived from a FAIL result.
type ActionItem struct {
	ID       string              `json:"id"`
	Priority constants.Priority  `json:"priority"`
	Type     constants.InputType `json:"type"`
	Task     string              `json:"task"`
	Status   string              `json:"status"`
}
