package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/legalease/constants"
)

// ReportSuffix is appended to a document path to name its XLSX report.
const ReportSuffix = ".analysis.xlsx"

// AllowedExt checks if a file extension is one the analyzer accepts (txt, md, pdf).
func AllowedExt(ext string) bool {
	ext = constants.NormalizeExt(ext)
	_, ok := constants.AllowedExtensions[ext]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}

// ReportPath returns where the report for path is written.
func ReportPath(path string) string {
	return path + ReportSuffix
}
