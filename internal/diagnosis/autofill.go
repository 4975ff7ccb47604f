package diagnosis

import (
	"export-pilot/constants"
	"export-pilot/internal/entity"
	"export-pilot/internal/matching"
)

// UploadSlot is one diagnosis upload position.
type UploadSlot struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Desc     string `json:"desc"`
}

// UploadSlots lists the two diagnosis inputs in display order.
var UploadSlots = []UploadSlot{
	{ID: constants.SlotDiagnosisCAD, Category: "설계", Name: "프로젝트 설계도면 CAD", Desc: "3D/2D 도면 파일 (.stp, .dwg, .step)"},
	{ID: constants.SlotDiagnosisBOM, Category: "부품", Name: "프로젝트 부품 BOM", Desc: "부품 명세서 (.xlsx, .csv)"},
}

// Dotted extension tokens keep their keyword role: a name containing the
// literal extension scores a keyword hit on top of the family bonus.
var slotRules = map[string]matching.Rule{
	constants.SlotDiagnosisCAD: {
		Keywords:    []string{"rt100", "트랙터", "cad", ".stp", ".step", ".dwg", ".dxf"},
		AllowedExts: []string{"stp", "step", "dwg", "dxf"},
		Policy:      matching.ExtensionBonus,
		ExtBonus:    3,
	},
	constants.SlotDiagnosisBOM: {
		Keywords:    []string{"rt100", "트랙터", "bom", "부품", "parts", ".xlsx", ".csv"},
		AllowedExts: []string{"xlsx", "csv"},
		Policy:      matching.ExtensionBonus,
		ExtBonus:    3,
	},
}

// RuleForSlot exposes the matching rule of one upload slot.
func RuleForSlot(slotID string) matching.Rule {
	return slotRules[slotID]
}

// AutoFill picks the best repository file per upload slot. A hit replaces any
// existing binding; a miss leaves the slot untouched.
func AutoFill(files []entity.FileRecord, bound map[string]entity.FileRecord) map[string]entity.FileRecord {
	next := make(map[string]entity.FileRecord, len(UploadSlots))
	for k, v := range bound {
		next[k] = v
	}
	for _, slot := range UploadSlots {
		if hit := matching.SelectBest(files, slotRules[slot.ID]); hit != nil {
			next[slot.ID] = *hit
		}
	}
	return next
}
