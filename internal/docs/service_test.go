package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"export-pilot/constants"
	"export-pilot/internal/entity"
	"export-pilot/internal/matching"
)

func TestConfigFor(t *testing.T) {
	assert.Equal(t, "유럽 (CE)", ConfigFor(constants.MarketEU).Label)
	assert.Equal(t, "미국 (FCC/OSHA)", ConfigFor(constants.MarketUS).Label)

	// Out-of-set markets coerce to the default process.
	assert.Equal(t, ConfigFor(constants.DefaultMarket), ConfigFor(constants.Market("CN")))
}

func TestConfigInputsAndRequiredIDs(t *testing.T) {
	eu := ConfigFor(constants.MarketEU)
	require.Len(t, eu.Inputs(), 6)
	assert.Equal(t, "eu_tech_1", eu.Inputs()[0].ID)
	assert.Equal(t, "eu_admin_1", eu.Inputs()[5].ID)
	assert.Equal(t, []string{"eu_tech_1", "eu_tech_2", "eu_tech_3", "eu_tech_4", "eu_tech_5", "eu_admin_1"}, eu.RequiredIDs())

	us := ConfigFor(constants.MarketUS)
	assert.Len(t, us.RequiredIDs(), 4)
}

func TestAutoFillUnsupportedMarket(t *testing.T) {
	got, err := AutoFill(constants.MarketUS, nil, nil)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrAutoFillUnsupported)
}

func TestAutoFillSlotHitWins(t *testing.T) {
	files := []entity.FileRecord{
		{Name: "RT100_사용자매뉴얼.pdf"},
		{Name: "upload.bin", SlotID: "rt100_manual"},
	}

	got, err := AutoFill(constants.MarketEU, files, nil)
	require.NoError(t, err)
	assert.Equal(t, "upload.bin", got["eu_tech_5"])
}

func TestAutoFillKeepsBoundEntries(t *testing.T) {
	files := []entity.FileRecord{{Name: "RT100_제품사양서.pdf", SlotID: "rt100_spec"}}
	bound := map[string]string{"eu_tech_1": "pinned.pdf"}

	got, err := AutoFill(constants.MarketEU, files, bound)
	require.NoError(t, err)
	assert.Equal(t, "pinned.pdf", got["eu_tech_1"])
	// eu_tech_2 shares the same repository slot and is still empty.
	assert.Equal(t, "RT100_제품사양서.pdf", got["eu_tech_2"])
}

func TestAutoFillNameMatchFallback(t *testing.T) {
	files := []entity.FileRecord{{Name: "RT100_시험성적서.pdf"}}

	got, err := AutoFill(constants.MarketEU, files, nil)
	require.NoError(t, err)
	assert.Equal(t, "RT100_시험성적서.pdf", got["eu_tech_4"])
}

func TestAutoFillEmptyRepository(t *testing.T) {
	got, err := AutoFill(constants.MarketEU, nil, map[string]string{"eu_tech_1": "a.pdf"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"eu_tech_1": "a.pdf"}, got)
}

func TestRuleFor(t *testing.T) {
	r := ruleFor(ConfigFor(constants.MarketEU).TechnicalInputs[2])

	assert.Contains(t, r.Keywords, "회로도")
	assert.Contains(t, r.Keywords, "circuit")
	assert.Contains(t, r.Keywords, "rt100")
	assert.Contains(t, r.AllowedExts, "dwg")
	assert.Contains(t, r.AllowedExts, "dxf")
	assert.Contains(t, r.AllowedExts, "pdf")
	assert.Equal(t, matching.ExtensionBonus, r.Policy)
	assert.Equal(t, 4, r.ExtBonus)
}

func fullEUBindings() map[string]string {
	bound := make(map[string]string)
	for _, id := range ConfigFor(constants.MarketEU).RequiredIDs() {
		bound[id] = id + ".pdf"
	}
	return bound
}

func TestGenerateFinal(t *testing.T) {
	rep := Generate(constants.MarketEU, fullEUBindings())

	assert.Equal(t, StatusFinal, rep.Status)
	assert.Empty(t, rep.Missing)
	require.Len(t, rep.Outputs, 4)
	assert.Equal(t, "TCF", rep.Outputs[0].Type)
	assert.Equal(t, "EU_DOC_FINAL", rep.Outputs[1].File)
	assert.Len(t, rep.Logs, 4)
}

func TestGenerateDraftListsMissingByName(t *testing.T) {
	rep := Generate(constants.MarketEU, map[string]string{"eu_tech_1": "spec.pdf"})

	assert.Equal(t, StatusDraft, rep.Status)
	require.Len(t, rep.Missing, 5)
	assert.Equal(t, "위험성 평가 체크리스트 (EHSR)", rep.Missing[0])
	assert.Contains(t, rep.Missing, "유럽대리인 계약서 (EU Rep Contract)")
}

func TestGenerateUS(t *testing.T) {
	rep := Generate(constants.MarketUS, nil)

	assert.Equal(t, StatusDraft, rep.Status)
	assert.Len(t, rep.Missing, 4)
	require.Len(t, rep.Outputs, 2)
	assert.Equal(t, "SDoC", rep.Outputs[0].Type)
}

func TestGenerateCopiesInputs(t *testing.T) {
	bound := map[string]string{"eu_tech_1": "spec.pdf"}
	rep := Generate(constants.MarketEU, bound)

	bound["eu_tech_1"] = "mutated.pdf"
	assert.Equal(t, "spec.pdf", rep.Inputs["eu_tech_1"])
}

func TestCanStart(t *testing.T) {
	assert.False(t, CanStart(nil))
	assert.True(t, CanStart(map[string]string{"eu_tech_1": "a.pdf"}))
}

func TestMissingSummary(t *testing.T) {
	assert.Empty(t, MissingSummary(nil))

	s := MissingSummary([]string{"A", "B"})
	assert.Contains(t, s, "2건")
	assert.Contains(t, s, "A, B")
}