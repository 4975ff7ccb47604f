// Package diagnosis evaluates the compliance master schema against the files
// bound to the diagnosis input slots. The pass is a synchronous, full
// recomputation over the whole schema; it never raises an error — malformed
// schema entries degrade to placeholder values.
package diagnosis

import (
	"fmt"
	"strings"

	"export-pilot/constants"
	"export-pilot/internal/entity"
	"export-pilot/internal/matching"
	"export-pilot/internal/schema"
)

// Inputs are the files bound to the diagnosis upload slots. Nil means the
// slot is empty.
type Inputs struct {
	BOM *entity.FileRecord
	CAD *entity.FileRecord
}

// Report is the complete output of one diagnosis pass.
type Report struct {
	Market      constants.Market                  `json:"market"`
	Results     map[string]entity.DiagnosisResult `json:"results"`
	Summary     entity.DiagnosisSummary           `json:"summary"`
	ActionItems []entity.ActionItem               `json:"action_items"`
}

const (
	reasonCriteriaNotMet = "criteria not met"
	missingReasonFormat  = "required input missing (%s)"
)

// Run evaluates every checklist item and returns the verdict map keyed by
// item id. Given identical inputs the result is identical on every call.
func Run(m *schema.Master, market constants.Market, in Inputs) map[string]entity.DiagnosisResult {
	results := make(map[string]entity.DiagnosisResult)
	if m == nil {
		return results
	}

	var bomName, cadName string
	if in.BOM != nil {
		bomName = in.BOM.Name
	}
	if in.CAD != nil {
		cadName = in.CAD.Name
	}
	haystack := matching.Normalize(bomName) + matching.Normalize(cadName)

	for _, item := range m.Items() {
		source := strings.ToUpper(item.Source)
		needsBOM := strings.Contains(source, string(constants.InputBOM))
		needsCAD := strings.Contains(source, string(constants.InputCAD))

		var missing []string
		if needsBOM && in.BOM == nil {
			missing = append(missing, string(constants.InputBOM))
		}
		if needsCAD && in.CAD == nil {
			missing = append(missing, string(constants.InputCAD))
		}
		if len(missing) > 0 {
			results[item.ID] = entity.DiagnosisResult{
				Status: constants.CheckFail,
				Reason: fmt.Sprintf(missingReasonFormat, strings.Join(missing, ", ")),
				Guide:  schema.Guide(item, market),
			}
			continue
		}

		hit := false
		for _, k := range item.Keywords {
			if n := matching.Normalize(k); n != "" && strings.Contains(haystack, n) {
				hit = true
				break
			}
		}

		// Items with no automatable signal default to PASS, except at
		// blocker severity where auto-passing would be unsafe.
		pass := true
		if len(item.Keywords) > 0 {
			pass = hit
		} else {
			sev := strings.ToUpper(schema.PickRegulation(item, market).Severity)
			if strings.Contains(sev, "BLOCKER") {
				pass = false
			}
		}

		if pass {
			results[item.ID] = entity.DiagnosisResult{Status: constants.CheckPass}
		} else {
			results[item.ID] = entity.DiagnosisResult{
				Status: constants.CheckFail,
				Reason: reasonCriteriaNotMet,
				Guide:  schema.Guide(item, market),
			}
		}
	}

	return results
}

// Summarize counts statuses; nothing beyond the counts is stored.
func Summarize(results map[string]entity.DiagnosisResult) entity.DiagnosisSummary {
	var s entity.DiagnosisSummary
	for _, r := range results {
		switch r.Status {
		case constants.CheckPass:
			s.Pass++
		case constants.CheckFail:
			s.Fail++
		}
	}
	return s
}

// PriorityForSeverity maps a severity tag to an action-item priority by
// case-insensitive substring, first match wins.
func PriorityForSeverity(severity string) constants.Priority {
	s := strings.ToUpper(severity)
	switch {
	case strings.Contains(s, "CRITICAL"):
		return constants.PriorityCritical
	case strings.Contains(s, "BLOCKER"):
		return constants.PriorityHigh
	case strings.Contains(s, "HIGH"):
		return constants.PriorityHigh
	case strings.Contains(s, "MED"):
		return constants.PriorityMedium
	default:
		return constants.PriorityLow
	}
}

// InputTypeForSource classifies a checklist source tag the same way the
// scorer resolves required inputs.
func InputTypeForSource(source string) constants.InputType {
	s := strings.ToUpper(source)
	switch {
	case strings.Contains(s, string(constants.InputBOM)):
		return constants.InputBOM
	case strings.Contains(s, string(constants.InputCAD)):
		return constants.InputCAD
	default:
		return constants.InputDOC
	}
}

// BuildActionItems derives the dashboard remediation list: one pending item
// per FAIL, in schema order.
func BuildActionItems(m *schema.Master, market constants.Market, results map[string]entity.DiagnosisResult) []entity.ActionItem {
	items := make([]entity.ActionItem, 0)
	if m == nil {
		return items
	}
	for _, it := range m.Items() {
		r, ok := results[it.ID]
		if !ok || r.Status != constants.CheckFail {
			continue
		}

		task := it.Title
		if r.Reason != "" {
			task += " — " + r.Reason
		}
		if r.Guide != "" {
			task += " / " + r.Guide
		}

		items = append(items, entity.ActionItem{
			ID:       fmt.Sprintf("%s_%s", market, it.ID),
			Priority: PriorityForSeverity(schema.PickRegulation(it, market).Severity),
			Type:     InputTypeForSource(it.Source),
			Task:     task,
			Status:   "pending",
		})
	}
	return items
}

// NewReport runs a full pass and assembles the stored payload.
func NewReport(m *schema.Master, market constants.Market, in Inputs) Report {
	results := Run(m, market, in)
	return Report{
		Market:      market,
		Results:     results,
		Summary:     Summarize(results),
		ActionItems: BuildActionItems(m, market, results),
	}
}
