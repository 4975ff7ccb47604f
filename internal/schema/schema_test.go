package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"export-pilot/constants"
)

func findItem(t *testing.T, m *Master, id string) ChecklistItem {
	t.Helper()
	for _, it := range m.Items() {
		if it.ID == id {
			return it
		}
	}
	t.Fatalf("item %s not in master schema", id)
	return ChecklistItem{}
}

func TestLoad(t *testing.T) {
	m, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "2024.2", m.Version)
	require.Len(t, m.CriticalCheckpoints, 3)
	assert.Equal(t, "grp_machinery", m.CriticalCheckpoints[0].ID)
	assert.Len(t, m.Items(), 9)
}

func TestValidateRejectsBrokenDocument(t *testing.T) {
	err := validate(buildMasterJSONSchema(), []byte(`{"version":"x"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match schema")

	err = validate(buildMasterJSONSchema(), []byte(`not json`))
	assert.Error(t, err)
}

func TestPickRegulationExactMatch(t *testing.T) {
	m := MustLoad()
	item := findItem(t, m, "chk_emc_emission")

	eu := PickRegulation(item, constants.MarketEU)
	assert.Equal(t, "EMC Directive 2014/30/EU (EN ISO 14982)", eu.Standard)
	assert.Equal(t, "BLOCKER", eu.Severity)
	assert.Equal(t, "방출 한도 초과 시 출하 불가", eu.FailCondition)

	us := PickRegulation(item, constants.MarketUS)
	assert.Equal(t, "FCC Part 15 Subpart B", us.Standard)
	assert.Equal(t, "-", us.FailCondition)
}

func TestPickRegulationSubstringMatch(t *testing.T) {
	// chk_stability has no plain US entry; US_OSHA matches by containment.
	item := findItem(t, MustLoad(), "chk_stability")

	us := PickRegulation(item, constants.MarketUS)
	assert.Equal(t, "29 CFR 1928.51", us.Standard)
}

func TestPickRegulationFallsBackToFirstEntry(t *testing.T) {
	item := ChecklistItem{
		Regulations: []Regulation{{Market: "EU", Standard: "EN 1", Criteria: "c", Severity: "HIGH"}},
	}
	got := PickRegulation(item, constants.Market("JP"))
	assert.Equal(t, "EN 1", got.Standard)
}

func TestPickRegulationEmpty(t *testing.T) {
	got := PickRegulation(ChecklistItem{}, constants.MarketEU)
	assert.Equal(t, Resolved{Standard: "-", Criteria: "-", FailCondition: "-", Severity: "-"}, got)
}

func TestPickRegulationBlankFieldsBecomeDashes(t *testing.T) {
	item := ChecklistItem{
		Regulations: []Regulation{{Market: "EU", Standard: "  ", Criteria: "c", Severity: "LOW"}},
	}
	got := PickRegulation(item, constants.MarketEU)
	assert.Equal(t, "-", got.Standard)
	assert.Equal(t, "c", got.Criteria)
}

func TestGuide(t *testing.T) {
	m := MustLoad()

	withFail := Guide(findItem(t, m, "chk_emc_emission"), constants.MarketEU)
	assert.Equal(t, "표준: EMC Directive 2014/30/EU (EN ISO 14982) / 요구사항: 농업기계 전자파 방출/내성 한도 충족 / FAIL: 방출 한도 초과 시 출하 불가", withFail)

	withoutFail := Guide(findItem(t, m, "chk_stability"), constants.MarketEU)
	assert.Equal(t, "표준: EN ISO 3471 / 요구사항: ROPS 구조 강도 및 변형 한계", withoutFail)
}
