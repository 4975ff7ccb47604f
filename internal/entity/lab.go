package entity

// LabScoring holds the raw metric fields of a lab candidate. SuccessRate and
// TestField may arrive either as 0..1 fractions or 0..100 percentages; the
// scorer normalizes both.
type LabScoring struct {
	Cost        float64 `json:"cost" yaml:"cost"`               // 만원
	LeadTime    float64 `json:"lead_time" yaml:"leadTime"`      // days
	SuccessRate float64 `json:"success_rate" yaml:"successRate"`
	TestField   float64 `json:"test_field" yaml:"testField"`
}

// LabCandidate is one entry of the static test-lab reference list.
type LabCandidate struct {
	ID              string     `json:"id" yaml:"id"`
	Name            string     `json:"name" yaml:"name"`
	Chamber         string     `json:"chamber,omitempty" yaml:"chamber"`
	Distance        string     `json:"distance,omitempty" yaml:"distance"`
	CostDisplay     string     `json:"cost_display,omitempty" yaml:"costDisplay"`
	DurationDisplay string     `json:"duration_display,omitempty" yaml:"durationDisplay"`
	Tags            []string   `json:"tags,omitempty" yaml:"tags"`
	Accreditations  []string   `json:"accreditations,omitempty" yaml:"accreditations"`
	URL             string     `json:"url,omitempty" yaml:"url"`
	Summary         string     `json:"summary,omitempty" yaml:"summary"`
	Bullets         []string   `json:"bullets,omitempty" yaml:"bullets"`
	NextDocs        []string   `json:"next_docs,omitempty" yaml:"nextDocs"`
	Scoring         LabScoring `json:"scoring" yaml:"scoring"`
}

// LabScore is the normalized result for one candidate: four 0..100 sub-scores
// plus the weighted composite.
type LabScore struct {
	LabID     string `json:"lab_id"`
	Cost      int    `json:"cost"`
	LeadTime  int    `json:"lead_time"`
	Success   int    `json:"success"`
	FieldFit  int    `json:"field_fit"`
	Composite int    `json:"composite"`
}
