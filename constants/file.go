package constants

import "strings"

// Source kinds accepted at intake.
const (
	SourcePaste  = "PASTE"
	SourceUpload = "UPLOAD"
	SourceSample = "SAMPLE"
)

// Document formats.
const (
	TEXT = "TEXT"
	PDF  = "PDF"
)

// Content types accepted for uploads.
const (
	ContentTypePlain    = "text/plain"
	ContentTypeMarkdown = "text/markdown"
	ContentTypePDF      = "application/pdf"
)

// SupportedContentTypes maps each accepted content type to its document format.
var SupportedContentTypes = map[string]string{
	ContentTypePlain:    TEXT,
	ContentTypeMarkdown: TEXT,
	ContentTypePDF:      PDF,
}

// AllowedExtensions holds the file extensions accepted for upload, keyed to their content type.
var AllowedExtensions = map[string]string{
	"txt":      ContentTypePlain,
	"md":       ContentTypeMarkdown,
	"markdown": ContentTypeMarkdown,
	"pdf":      ContentTypePDF,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// NormalizeContentType drops parameters ("; charset=utf-8") and lowercases.
func NormalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// MapContentTypeToFormat returns TEXT, PDF or "" for unsupported types.
func MapContentTypeToFormat(ct string) string {
	return SupportedContentTypes[NormalizeContentType(ct)]
}

// ContentTypeForExt resolves a file extension to a supported content type, or "".
func ContentTypeForExt(ext string) string {
	return AllowedExtensions[NormalizeExt(ext)]
}
