// Package schema loads the static compliance master schema. The schema is
// configuration: embedded at build time, validated once on load, never
// mutated afterwards.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"export-pilot/constants"
)

//go:embed masterschema.json
var masterJSON []byte

// Regulation is one market variant of a checklist item's requirement.
type Regulation struct {
	Market        string `json:"market"`
	Standard      string `json:"standard"`
	Criteria      string `json:"criteria"`
	FailCondition string `json:"fail_condition,omitempty"`
	Severity      string `json:"severity"`
}

// ChecklistItem is one atomic regulatory requirement.
type ChecklistItem struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Source      string       `json:"source"`
	Keywords    []string     `json:"keywords,omitempty"`
	Regulations []Regulation `json:"regulations"`
}

// CheckpointGroup groups checklist items for display. Groups carry no
// scoring semantics.
type CheckpointGroup struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Items []ChecklistItem `json:"items"`
}

// Master is the full compliance master schema.
type Master struct {
	Version             string            `json:"version"`
	Product             string            `json:"product"`
	CriticalCheckpoints []CheckpointGroup `json:"critical_checkpoints"`
}

// Items flattens all groups in authored order.
func (m *Master) Items() []ChecklistItem {
	var out []ChecklistItem
	for _, g := range m.CriticalCheckpoints {
		out = append(out, g.Items...)
	}
	return out
}

// Resolved is a regulation entry with placeholder defaults applied.
type Resolved struct {
	Standard      string
	Criteria      string
	FailCondition string
	Severity      string
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// PickRegulation resolves the regulation entry for a market: exact key match
// first, else the first entry whose key contains the market code, else the
// first entry at all. Missing entries and fields degrade to "-".
func PickRegulation(item ChecklistItem, market constants.Market) Resolved {
	code := strings.ToUpper(string(market))

	pick := func(r Regulation) Resolved {
		return Resolved{
			Standard:      orDash(r.Standard),
			Criteria:      orDash(r.Criteria),
			FailCondition: orDash(r.FailCondition),
			Severity:      orDash(r.Severity),
		}
	}

	for _, r := range item.Regulations {
		if strings.EqualFold(r.Market, code) {
			return pick(r)
		}
	}
	for _, r := range item.Regulations {
		if strings.Contains(strings.ToUpper(r.Market), code) {
			return pick(r)
		}
	}
	if len(item.Regulations) > 0 {
		return pick(item.Regulations[0])
	}
	return Resolved{Standard: "-", Criteria: "-", FailCondition: "-", Severity: "-"}
}

// Guide renders the remediation guidance line for an item and market. The
// FAIL clause is appended only when a fail condition exists.
func Guide(item ChecklistItem, market constants.Market) string {
	reg := PickRegulation(item, market)
	s := fmt.Sprintf("표준: %s / 요구사항: %s", reg.Standard, reg.Criteria)
	if reg.FailCondition != "-" {
		s += fmt.Sprintf(" / FAIL: %s", reg.FailCondition)
	}
	return s
}

// buildMasterJSONSchema returns the JSON-Schema the embedded document must
// satisfy, as a generic map.
func buildMasterJSONSchema() map[string]any {
	regulation := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"market":         map[string]any{"type": "string", "minLength": 2},
			"standard":       map[string]any{"type": "string"},
			"criteria":       map[string]any{"type": "string"},
			"fail_condition": map[string]any{"type": "string"},
			"severity":       map[string]any{"type": "string"},
		},
		"required": []string{"market", "standard", "criteria", "severity"},
	}
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"id":          map[string]any{"type": "string", "minLength": 1},
			"title":       map[string]any{"type": "string", "minLength": 1},
			"source":      map[string]any{"type": "string"},
			"keywords":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"regulations": map[string]any{"type": "array", "items": regulation},
		},
		"required": []string{"id", "title", "source", "regulations"},
	}
	group := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"id":    map[string]any{"type": "string", "minLength": 1},
			"title": map[string]any{"type": "string"},
			"items": map[string]any{"type": "array", "items": item, "minItems": 1},
		},
		"required": []string{"id", "items"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"version":              map[string]any{"type": "string"},
			"product":              map[string]any{"type": "string"},
			"critical_checkpoints": map[string]any{"type": "array", "items": group, "minItems": 1},
		},
		"required": []string{"version", "critical_checkpoints"},
	}
}

func validate(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("masterschema.schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	compiled, err := compiler.Compile("masterschema.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := compiled.Validate(v); err != nil {
		return fmt.Errorf("master schema does not match schema: %w", err)
	}
	return nil
}

// Load parses and validates the embedded compliance master schema.
func Load() (*Master, error) {
	if err := validate(buildMasterJSONSchema(), masterJSON); err != nil {
		return nil, err
	}
	var m Master
	if err := json.Unmarshal(masterJSON, &m); err != nil {
		return nil, fmt.Errorf("unmarshal master schema: %w", err)
	}
	return &m, nil
}

// MustLoad is Load for initialization paths that cannot proceed without the
// schema.
func MustLoad() *Master {
	m, err := Load()
	if err != nil {
		panic(err)
	}
	return m
}
