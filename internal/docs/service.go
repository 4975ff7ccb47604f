package docs

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"export-pilot/constants"
	"export-pilot/internal/entity"
	"export-pilot/internal/matching"
)

// ErrAutoFillUnsupported is returned for markets whose auto-fill rules are
// not wired yet. Only the EU flow ships rules today.
var ErrAutoFillUnsupported = errors.New("auto-fill rules exist only for the EU document flow")

// PackageStatus distinguishes a complete package from a draft one.
type PackageStatus string

const (
	StatusDraft PackageStatus = "DRAFT"
	StatusFinal PackageStatus = "FINAL"
)

// Report is the stored output of one generation run.
type Report struct {
	Market  constants.Market  `json:"market"`
	Status  PackageStatus     `json:"status"`
	Missing []string          `json:"missing,omitempty"` // names of absent required inputs
	Inputs  map[string]string `json:"inputs"`            // input id -> bound file name
	Outputs []Output          `json:"outputs"`
	Logs    []string          `json:"logs"`
}

// euSlotMap binds EU input requirements to well-known repository slot ids.
// Slot hits win over name matching.
var euSlotMap = map[string]string{
	"eu_tech_1":  "rt100_spec",
	"eu_tech_2":  "rt100_spec",
	"eu_tech_3":  "rt100_circuit",
	"eu_tech_4":  "rt100_test_report",
	"eu_tech_5":  "rt100_manual",
	"eu_admin_1": "eu_rep_contract",
}

// euKeywordHints are the strong per-requirement hints added on top of the
// requirement's own name and description tokens.
var euKeywordHints = map[string][]string{
	"eu_tech_1":  {"spec", "사양", "제품사양", "product", "specification", "pdf"},
	"eu_tech_2":  {"ehsr", "checklist", "체크리스트", "risk", "평가", "pdf", "xlsx"},
	"eu_tech_3":  {"circuit", "회로", "block", "도면", "drawing", "dwg", "pdf"},
	"eu_tech_4":  {"test", "report", "성적서", "시험", "pdf"},
	"eu_tech_5":  {"manual", "매뉴얼", "user", "guide", "pdf"},
	"eu_admin_1": {"doc", "declaration", "contract", "대리인", "계약", "pdf", "docx"},
}

var tokenSplit = regexp.MustCompile(`[\s/(),]+`)

// extension families recognized as keyword hints
var extFamilies = [][]string{
	{"pdf"},
	{"doc", "docx"},
	{"xlsx", "csv"},
	{"dwg", "dxf", "stp", "step"},
}

// ruleFor builds the docs-flow matching rule for one requirement: the
// requirement's display text is split into tokens, and extension tokens also
// become a soft +4 agreement bonus. Wrong extensions are never filtered here.
func ruleFor(req InputReq) matching.Rule {
	raw := []string{req.Name, req.Desc, "rt100"}
	raw = append(raw, euKeywordHints[req.ID]...)

	var tokens []string
	seen := make(map[string]struct{})
	for _, k := range raw {
		for _, t := range tokenSplit.Split(k, -1) {
			n := matching.Normalize(t)
			if n == "" {
				continue
			}
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			tokens = append(tokens, n)
		}
	}

	var exts []string
	for _, family := range extFamilies {
		hinted := false
		for _, e := range family {
			if _, ok := seen[e]; ok {
				hinted = true
				break
			}
		}
		if hinted {
			exts = append(exts, family...)
		}
	}

	return matching.Rule{
		Keywords:    tokens,
		AllowedExts: exts,
		Policy:      matching.ExtensionBonus,
		ExtBonus:    4,
	}
}

// AutoFill binds repository files to the still-empty EU input slots: an exact
// slot-id hit wins, otherwise the best name match. Bound entries are kept.
func AutoFill(market constants.Market, files []entity.FileRecord, bound map[string]string) (map[string]string, error) {
	if market != constants.MarketEU {
		return nil, ErrAutoFillUnsupported
	}

	bySlot := make(map[string]*entity.FileRecord)
	for i := range files {
		if files[i].SlotID != "" {
			if _, ok := bySlot[files[i].SlotID]; !ok {
				bySlot[files[i].SlotID] = &files[i]
			}
		}
	}

	next := make(map[string]string, len(bound))
	for k, v := range bound {
		next[k] = v
	}

	for _, req := range ConfigFor(market).Inputs() {
		if _, ok := next[req.ID]; ok {
			continue
		}
		var hit *entity.FileRecord
		if slotID := euSlotMap[req.ID]; slotID != "" {
			hit = bySlot[slotID]
		}
		if hit == nil {
			hit = matching.SelectBest(files, ruleFor(req))
		}
		if hit == nil {
			continue
		}
		next[req.ID] = hit.Name
	}
	return next, nil
}

// Generate assembles the document package result for the bound inputs. A
// package missing required inputs is produced anyway, marked as a draft.
func Generate(market constants.Market, bound map[string]string) Report {
	cfg := ConfigFor(market)

	var missing []string
	for _, req := range cfg.Inputs() {
		if !req.Required {
			continue
		}
		if _, ok := bound[req.ID]; !ok {
			missing = append(missing, req.Name)
		}
	}

	status := StatusFinal
	if len(missing) > 0 {
		status = StatusDraft
	}

	inputs := make(map[string]string, len(bound))
	for k, v := range bound {
		inputs[k] = v
	}

	outputs := make([]Output, len(cfg.GeneratedOutputs))
	copy(outputs, cfg.GeneratedOutputs)

	return Report{
		Market:  market,
		Status:  status,
		Missing: missing,
		Inputs:  inputs,
		Outputs: outputs,
		Logs: []string{
			"설계 데이터 분석 시작...",
			fmt.Sprintf("%s 규제 DB 매핑 중...", market),
			"위험성 평가 시나리오 생성...",
			"TCF 및 DoC 초안 작성 완료!",
		},
	}
}

// CanStart reports whether generation may begin: at least one input bound.
func CanStart(bound map[string]string) bool {
	return len(bound) > 0
}

// MissingSummary renders the draft warning line shown to users.
func MissingSummary(missing []string) string {
	if len(missing) == 0 {
		return ""
	}
	return fmt.Sprintf("필수 서류(%d건) 누락 → 초안(Draft)로 생성됩니다: %s", len(missing), strings.Join(missing, ", "))
}
