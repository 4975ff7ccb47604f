// Package docs drives the export document generation flow: per-market input
// requirements, repository auto-fill, and the draft/final package result.
package docs

import (
	"export-pilot/constants"
)

// InputReq is one required or optional input document of the generation flow.
type InputReq struct {
	ID       string `json:"id"`
	Section  string `json:"section"` // 기술 or 행정
	Name     string `json:"name"`
	Desc     string `json:"desc"`
	Required bool   `json:"required"`
}

// Output describes one generated document of the package.
type Output struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Desc string `json:"desc"`
	Size string `json:"size"`
	File string `json:"file,omitempty"` // download artifact key, when one exists
}

// ProcessConfig is the per-market document process definition.
type ProcessConfig struct {
	Label            string     `json:"label"`
	TechnicalInputs  []InputReq `json:"technical_inputs"`
	AdminInputs      []InputReq `json:"admin_inputs"`
	GeneratedOutputs []Output   `json:"generated_outputs"`
}

// Inputs returns technical and admin inputs combined, in display order.
func (c ProcessConfig) Inputs() []InputReq {
	out := make([]InputReq, 0, len(c.TechnicalInputs)+len(c.AdminInputs))
	out = append(out, c.TechnicalInputs...)
	out = append(out, c.AdminInputs...)
	return out
}

// RequiredIDs lists ids of the required inputs.
func (c ProcessConfig) RequiredIDs() []string {
	var ids []string
	for _, in := range c.Inputs() {
		if in.Required {
			ids = append(ids, in.ID)
		}
	}
	return ids
}

var processConfigs = map[constants.Market]ProcessConfig{
	constants.MarketEU: {
		Label: "유럽 (CE)",
		TechnicalInputs: []InputReq{
			{ID: "eu_tech_1", Section: "기술", Name: "제품사양서 (Product Specification)", Desc: "제품 제원, 정격, 모델 구분 (.pdf)", Required: true},
			{ID: "eu_tech_2", Section: "기술", Name: "위험성 평가 체크리스트 (EHSR)", Desc: "필수 보건안전요구사항 평가표 (.pdf, .xlsx)", Required: true},
			{ID: "eu_tech_3", Section: "기술", Name: "회로도/설계 도면", Desc: "전기 회로도 및 주요 설계 도면 (.pdf, .dwg)", Required: true},
			{ID: "eu_tech_4", Section: "기술", Name: "시험성적서 (Test Report)", Desc: "공인기관 발행 시험성적서 (.pdf)", Required: true},
			{ID: "eu_tech_5", Section: "기술", Name: "사용자 매뉴얼 (User Manual)", Desc: "EU 언어 요구사항 반영본 (.pdf)", Required: true},
		},
		AdminInputs: []InputReq{
			{ID: "eu_admin_1", Section: "행정", Name: "유럽대리인 계약서 (EU Rep Contract)", Desc: "EU 역내 대리인 지정 계약 (.pdf, .docx)", Required: true},
		},
		GeneratedOutputs: []Output{
			{Type: "TCF", Name: "RT100_Technical_Construction_File.pdf", Desc: "기술문서 파일 (TCF) — 2006/42/EC Annex VII", Size: "18.4 MB"},
			{Type: "DoC", Name: "EC_Declaration_of_Conformity_Final.pdf", Desc: "EC 적합성 선언서 (서명란 포함)", Size: "0.3 MB", File: "EU_DOC_FINAL"},
			{Type: "REPORT", Name: "RT100_Risk_Assessment_Report.pdf", Desc: "EN ISO 12100 위험성 평가 보고서", Size: "4.1 MB"},
			{Type: "LABEL", Name: "CE_Marking_Label_Guide.pdf", Desc: "CE 마킹 및 명판 표기 가이드", Size: "0.8 MB"},
		},
	},
	constants.MarketUS: {
		Label: "미국 (FCC/OSHA)",
		TechnicalInputs: []InputReq{
			{ID: "us_tech_1", Section: "기술", Name: "FCC 시험성적서 (Test Report)", Desc: "Part 15 시험 결과 (.pdf)", Required: true},
			{ID: "us_tech_2", Section: "기술", Name: "제품사양서 (Product Specification)", Desc: "제품 제원 및 모델 구분 (.pdf)", Required: true},
			{ID: "us_tech_3", Section: "기술", Name: "회로도/블록도", Desc: "RF 계통 블록도 포함 (.pdf, .dwg)", Required: true},
		},
		AdminInputs: []InputReq{
			{ID: "us_admin_1", Section: "행정", Name: "US Agent 지정서", Desc: "미국 내 책임자 지정 문서 (.pdf, .docx)", Required: true},
		},
		GeneratedOutputs: []Output{
			{Type: "SDoC", Name: "RT100_FCC_SDoC_Statement.pdf", Desc: "FCC 공급자 적합성 선언 (SDoC)", Size: "0.4 MB"},
			{Type: "LABEL", Name: "FCC_Compliance_Label_Guide.pdf", Desc: "FCC 라벨 및 사용자 고지문 가이드", Size: "0.6 MB"},
		},
	},
}

// ConfigFor returns the document process definition for a market. Unknown
// markets coerce to the default market's config.
func ConfigFor(market constants.Market) ProcessConfig {
	if c, ok := processConfigs[market]; ok {
		return c
	}
	return processConfigs[constants.DefaultMarket]
}
