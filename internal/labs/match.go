package labs

import (
	"export-pilot/constants"
	"export-pilot/internal/entity"
	"export-pilot/internal/matching"
)

// SubmissionSlot is one required-document position of the lab matching step.
type SubmissionSlot struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Desc     string `json:"desc"`
	Required bool   `json:"required"`
}

// SubmissionSlots lists the five document slots, in display order.
var SubmissionSlots = []SubmissionSlot{
	{ID: "lab_spec", Category: "필수", Name: "제품사양서 (Product Spec)", Desc: "제품 제원 및 상세 사양 (.pdf)", Required: true},
	{ID: "lab_manual", Category: "필수", Name: "사용자 매뉴얼 (User Manual)", Desc: "설치 및 작동 가이드 (.pdf)", Required: true},
	{ID: "lab_circuit", Category: "필수", Name: "회로도/블록도 (Circuit/Block)", Desc: "전기 회로도 및 시스템 블록도 (.pdf, .dwg)", Required: true},
	{ID: "lab_bom", Category: "필수", Name: "부품리스트 (BOM)", Desc: "핵심 부품 목록 (.xlsx)", Required: true},
	{ID: "lab_testplan", Category: "선택", Name: "시험계획서 (Test Plan)", Desc: "자체 시험 계획 및 요구사항 (.docx)", Required: false},
}

// MinimumDocs is how many slots must be bound before matching may start.
const MinimumDocs = 3

// The lab call site uses the strict extension policy: wrong-extension files
// are excluded outright, and the project code earns a small bonus.
func labRule(keywords, exts []string) matching.Rule {
	return matching.Rule{
		Keywords:        keywords,
		AllowedExts:     exts,
		Policy:          matching.ExtensionFilter,
		BonusTokens:     []string{"rt100"},
		BonusTokenScore: 2,
	}
}

var slotRules = map[string]matching.Rule{
	"lab_spec":     labRule([]string{"제품사양서", "사양서", "spec", "rt100제품사양서", "rt100"}, []string{"pdf", "rtf", "doc", "docx"}),
	"lab_manual":   labRule([]string{"사용자매뉴얼", "매뉴얼", "manual", "rt100사용자매뉴얼", "rt100"}, []string{"pdf", "rtf", "doc", "docx"}),
	"lab_circuit":  labRule([]string{"회로도", "블록도", "circuit", "block", "rt100회로도", "rt100"}, []string{"pdf", "dwg", "dxf"}),
	"lab_bom":      labRule([]string{"bom", "부품", "부품리스트", "rt100트랙터bom", "rt100bom", "rt100"}, []string{"xlsx", "csv"}),
	"lab_testplan": labRule([]string{"시험계획서", "testplan", "시험계획", "plan", "rt100"}, []string{"doc", "docx", "pdf", "rtf"}),
}

// testplanFallback retries the optional slot with test-report keywords when
// no test plan exists in the repository.
var testplanFallback = labRule(
	[]string{"시험성적서", "testreport", "성적서", "report", "자율주행트랙터", "rt100"},
	[]string{"pdf", "rtf", "doc", "docx"},
)

// RuleForSlot exposes the matching rule of one slot; unknown ids yield a rule
// that matches nothing.
func RuleForSlot(slotID string) matching.Rule {
	if r, ok := slotRules[slotID]; ok {
		return r
	}
	return matching.Rule{}
}

// AutoFill binds the best repository file to every still-empty slot and
// returns the completed binding map. Already-bound slots are kept as is.
func AutoFill(files []entity.FileRecord, bound map[string]entity.FileRecord) map[string]entity.FileRecord {
	next := make(map[string]entity.FileRecord, len(SubmissionSlots))
	for k, v := range bound {
		next[k] = v
	}
	for _, slot := range SubmissionSlots {
		if _, ok := next[slot.ID]; ok {
			continue
		}
		hit := matching.SelectBest(files, slotRules[slot.ID])
		if hit == nil && slot.ID == "lab_testplan" {
			hit = matching.SelectBest(files, testplanFallback)
		}
		if hit == nil {
			continue
		}
		next[slot.ID] = *hit
	}
	return next
}

// CanStart reports whether enough documents are bound to begin matching.
func CanStart(bound map[string]entity.FileRecord) bool {
	return len(bound) >= MinimumDocs
}

// ScoredLab pairs a recommended lab with its normalized scores.
type ScoredLab struct {
	entity.LabCandidate
	Score     entity.LabScore `json:"score"`
	BestMatch bool            `json:"best_match"`
}

// MatchReport is the stored output of one lab matching run.
type MatchReport struct {
	Market   constants.Market `json:"market"`
	GaugeMax GaugeMax         `json:"gauge_max"`
	Labs     []ScoredLab      `json:"labs"`
}

// recommendCount is fixed at three candidates, in catalog order. The catalog
// order encodes the curated ranking; scoring drives the gauges, not the cut.
const recommendCount = 3

// NewReport recommends labs from the catalog and attaches normalized scores.
// The gauge ceilings are derived from the recommended set.
func NewReport(catalog []entity.LabCandidate, market constants.Market) MatchReport {
	n := recommendCount
	if n > len(catalog) {
		n = len(catalog)
	}
	picked := catalog[:n]

	g := ComputeGaugeMax(picked)
	scored := make([]ScoredLab, 0, n)
	for i, lab := range picked {
		scored = append(scored, ScoredLab{
			LabCandidate: lab,
			Score:        Score(lab, g),
			BestMatch:    i == 0,
		})
	}
	return MatchReport{Market: market, GaugeMax: g, Labs: scored}
}
