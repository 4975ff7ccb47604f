package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"export-pilot/constants"
	"export-pilot/internal/entity"
)

func records(ns ...string) []entity.FileRecord {
	out := make([]entity.FileRecord, len(ns))
	for i, n := range ns {
		out[i] = entity.FileRecord{Name: n}
	}
	return out
}

func TestAutoFillBindsBothSlots(t *testing.T) {
	files := records(
		"회의록.docx",
		"RT100_트랙터_설계.stp",
		"RT100_트랙터_BOM.xlsx",
	)

	bound := AutoFill(files, nil)

	require.Len(t, bound, 2)
	assert.Equal(t, "RT100_트랙터_설계.stp", bound[constants.SlotDiagnosisCAD].Name)
	assert.Equal(t, "RT100_트랙터_BOM.xlsx", bound[constants.SlotDiagnosisBOM].Name)
}

func TestAutoFillDottedExtensionKeyword(t *testing.T) {
	// ".dwg" in the name text scores as a keyword even before the extension
	// family bonus.
	files := records("drawing.dwg", "drawing.pdf")

	bound := AutoFill(files, nil)
	assert.Equal(t, "drawing.dwg", bound[constants.SlotDiagnosisCAD].Name)
}

func TestAutoFillReplacesExistingBinding(t *testing.T) {
	already := map[string]entity.FileRecord{
		constants.SlotDiagnosisCAD: {Name: "old.stp"},
	}
	files := records("RT100_트랙터_설계.stp")

	bound := AutoFill(files, already)
	assert.Equal(t, "RT100_트랙터_설계.stp", bound[constants.SlotDiagnosisCAD].Name)
}

func TestAutoFillKeepsBindingOnMiss(t *testing.T) {
	already := map[string]entity.FileRecord{
		constants.SlotDiagnosisBOM: {Name: "pinned.xlsx"},
	}

	bound := AutoFill(records("회의록.hwp"), already)

	require.Len(t, bound, 1)
	assert.Equal(t, "pinned.xlsx", bound[constants.SlotDiagnosisBOM].Name)
}

func TestRuleForSlot(t *testing.T) {
	r := RuleForSlot(constants.SlotDiagnosisBOM)
	assert.Contains(t, r.Keywords, "bom")
	assert.Equal(t, 3, r.ExtBonus)

	assert.Empty(t, RuleForSlot("nope").Keywords)
}
