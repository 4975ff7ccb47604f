// Package export produces XLSX artifacts for download: the checklist results
// workbook and the generated document package manifest.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"export-pilot/constants"
	"export-pilot/internal/diagnosis"
	"export-pilot/internal/docs"
	"export-pilot/internal/entity"
	"export-pilot/internal/schema"
)

// Service renders analysis output into XLSX bytes.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ChecklistXLSX returns a workbook with one row per checklist item: the
// resolved regulation for the diagnosed market, the O/X verdict, the reason
// and the remediation guidance. Items without a verdict yet are rendered with
// a dash status.
func (s *Service) ChecklistXLSX(m *schema.Master, rep *diagnosis.Report) ([]byte, error) {
	start := time.Now()

	market := constants.DefaultMarket
	results := map[string]entity.DiagnosisResult{}
	if rep != nil {
		market = constants.SafeMarket(string(rep.Market))
		if rep.Results != nil {
			results = rep.Results
		}
	}

	f := excelize.NewFile()
	const sheet = "Checklist"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Group",
		"ID",
		"Checkpoint",
		"Standard",
		"Criteria",
		"Severity",
		"Result",
		"Reason",
		"Guidance",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	items := 0
	if m != nil {
		for _, g := range m.CriticalCheckpoints {
			for _, item := range g.Items {
				reg := schema.PickRegulation(item, market)

				status, reason := "-", ""
				if res, ok := results[item.ID]; ok {
					if res.Status == constants.CheckPass {
						status = "O"
					} else {
						status = "X"
					}
					reason = res.Reason
				}

				write := func(col int, v any) {
					cell, _ := excelize.CoordinatesToCellName(col, row)
					_ = f.SetCellValue(sheet, cell, v)
				}

				write(1, g.Title)
				write(2, item.ID)
				write(3, item.Title)
				write(4, reg.Standard)
				write(5, reg.Criteria)
				write(6, reg.Severity)
				write(7, status)
				write(8, reason)
				write(9, schema.Guide(item, market))

				row++
				items++
			}
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 22) // group
	_ = f.SetColWidth(sheet, "B", "B", 20) // id
	_ = f.SetColWidth(sheet, "C", "C", 32) // checkpoint
	_ = f.SetColWidth(sheet, "D", "E", 28) // standard, criteria
	_ = f.SetColWidth(sheet, "F", "G", 10) // severity, result
	_ = f.SetColWidth(sheet, "H", "H", 34) // reason
	_ = f.SetColWidth(sheet, "I", "I", 60) // guidance

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.checklist.ok",
		"market", string(market),
		"rows", items,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// PackageXLSX returns a workbook for one document generation run: a manifest
// sheet with an overview row, the bound inputs and the generated outputs, plus
// a declaration preview sheet when the process produces a DoC or SDoC.
func (s *Service) PackageXLSX(rep *docs.Report) ([]byte, error) {
	if rep == nil {
		return nil, fmt.Errorf("nil package report")
	}
	start := time.Now()

	cfg := docs.ConfigFor(rep.Market)

	f := excelize.NewFile()
	const sheet = "Package"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{"Section", "Item", "Detail", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	put := func(section, item, detail, status string) {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, section)
		write(2, item)
		write(3, detail)
		write(4, status)
		row++
	}

	put("Overview", cfg.Label, fmt.Sprintf("outputs: %d", len(rep.Outputs)), string(rep.Status))

	for _, in := range cfg.Inputs() {
		name := rep.Inputs[in.ID]
		status := "bound"
		if name == "" {
			name = "-"
			status = "optional"
			if in.Required {
				status = "missing"
			}
		}
		put("Input", in.Name, name, status)
	}

	for _, out := range rep.Outputs {
		detail := out.Desc
		if out.Size != "" {
			detail = fmt.Sprintf("%s (%s)", out.Desc, out.Size)
		}
		put("Output", out.Name, detail, out.Type)
	}

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "B", 40)
	_ = f.SetColWidth(sheet, "C", "C", 52)
	_ = f.SetColWidth(sheet, "D", "D", 12)

	if err := writeDeclarationSheet(f, rep, cfg); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.package.ok",
		"market", string(rep.Market),
		"status", string(rep.Status),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// writeDeclarationSheet adds a conformity declaration preview next to the
// manifest. The market's declaration output (DoC or SDoC) feeds the sheet; a
// process without one leaves the workbook untouched.
func writeDeclarationSheet(f *excelize.File, rep *docs.Report, cfg docs.ProcessConfig) error {
	var decl *docs.Output
	for i := range rep.Outputs {
		if rep.Outputs[i].Type == "DoC" || rep.Outputs[i].Type == "SDoC" {
			decl = &rep.Outputs[i]
			break
		}
	}
	if decl == nil {
		return nil
	}

	const sheet = "Declaration"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	row := 1
	put := func(field string, value string) {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetCellValue(sheet, cell, field)
		cell, _ = excelize.CoordinatesToCellName(2, row)
		_ = f.SetCellValue(sheet, cell, value)
		row++
	}

	signature := "서명 대기"
	if rep.Status != docs.StatusFinal {
		signature = "초안 (필수 입력 미비)"
	}

	put("Document", decl.Name)
	put("Type", decl.Type)
	put("Process", cfg.Label)
	put("Basis", decl.Desc)
	put("Package", string(rep.Status))
	put("Signature", signature)

	_ = f.SetColWidth(sheet, "A", "A", 14)
	_ = f.SetColWidth(sheet, "B", "B", 52)
	return nil
}
