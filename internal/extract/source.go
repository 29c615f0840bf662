package extract

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/legalease/constants"
	"github.com/joseph-ayodele/legalease/internal/common"
)

// Upload is a file submitted for analysis.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Resolve returns the normalized content type and document format of u.
// The declared content type wins; the file extension is used when it is
// missing or generic. Unsupported uploads fail with UNSUPPORTED_FILE_TYPE.
func Resolve(u Upload) (contentType, format string, err error) {
	ct := constants.NormalizeContentType(u.ContentType)
	if ct == "" || ct == "application/octet-stream" {
		ct = constants.ContentTypeForExt(filepath.Ext(u.Name))
	}
	if ct == "" && len(u.Data) > 0 {
		ct = constants.NormalizeContentType(http.DetectContentType(u.Data))
	}
	format = constants.MapContentTypeToFormat(ct)
	if format == "" {
		return "", "", common.NewAppError(common.CodeUnsupportedFileType,
			"Please upload a PDF, TXT, or MD file.", fmt.Errorf("content type %q: %w", u.ContentType, common.ErrInvalidInput))
	}
	return ct, format, nil
}

// DecodeText returns the contents of a plain-text or markdown upload.
func DecodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", common.NewAppError(common.CodeExtractionFailed,
			"Could not read the text file.", fmt.Errorf("not valid UTF-8: %w", common.ErrInvalidInput))
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}
