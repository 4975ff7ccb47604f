package constants

import "strings"

// Slot ids for the diagnosis upload step.
const (
	SlotDiagnosisCAD = "upload_cad"
	SlotDiagnosisBOM = "upload_bom"
)

// Extension families used by the matching bonus rules.
var (
	SpreadsheetExts = []string{"xlsx", "csv"}
	CADExts         = []string{"stp", "step", "dwg", "dxf"}
	DocumentExts    = []string{"pdf", "rtf", "doc", "docx"}
)

// AllowedExtensions holds the default allowed file extensions for repository
// directory ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"doc":  {},
	"docx": {},
	"xlsx": {},
	"csv":  {},
	"stp":  {},
	"step": {},
	"dwg":  {},
	"dxf":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
