package constants

// RunStatus is the canonical status for rows in analysis_run.
type RunStatus string

// Stable values (store these exact strings in DB).
const (
	RunStatusNotRun   RunStatus = "NOT_RUN"  // created but not started
	RunStatusRunning  RunStatus = "RUNNING"  // simulated progress in flight
	RunStatusComplete RunStatus = "COMPLETE" // result stored
	RunStatusFailed   RunStatus = "FAILED"   // terminal failure
)

// RunKind distinguishes the three analysis flavors.
type RunKind string

const (
	RunKindDiagnosis RunKind = "DIAGNOSIS"
	RunKindDocs      RunKind = "DOCS"
	RunKindLabs      RunKind = "LABS"
)

// CheckStatus is the per-checklist-item verdict.
type CheckStatus string

const (
	CheckPass CheckStatus = "PASS"
	CheckFail CheckStatus = "FAIL"
)

// Priority for derived action items.
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
)

// InputType classifies which kind of project input a checklist item needs.
type InputType string

const (
	InputBOM InputType = "BOM"
	InputCAD InputType = "CAD"
	InputDOC InputType = "DOC"
)
