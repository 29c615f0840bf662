package analysis

import (
	"context"
	"strings"

	"github.com/joseph-ayodele/legalease/constants"
	"github.com/joseph-ayodele/legalease/internal/common"
	"github.com/joseph-ayodele/legalease/internal/extract"
)

// AnalyzePaste analyzes pasted text. The text is trimmed; blank input is
// rejected with NO_TEXT and leaves the session untouched.
func (o *Orchestrator) AnalyzePaste(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		o.notifier.Notify(ctx, noticeNoText)
		return common.NewAppError(common.CodeNoText, noticeNoText.Title, common.ErrInvalidInput)
	}
	return o.start(ctx, intake{source: constants.SourcePaste, text: text})
}

// AnalyzeSample analyzes the built-in sample NDA.
func (o *Orchestrator) AnalyzeSample(ctx context.Context) error {
	return o.start(ctx, intake{source: constants.SourceSample, text: SampleDocument})
}

// AnalyzeUpload analyzes an uploaded file. Unsupported types are rejected
// before any extraction; extraction failures leave the session untouched.
// PDFs keep their bytes as the document view.
func (o *Orchestrator) AnalyzeUpload(ctx context.Context, u extract.Upload) error {
	ctx = common.WithSessionID(ctx, o.id)
	ct, format, err := extract.Resolve(u)
	if err != nil {
		o.logger.Warn("analysis.intake.unsupported", "name", u.Name, "content_type", u.ContentType)
		o.notifier.Notify(ctx, noticeUnsupported)
		return err
	}

	in := intake{source: constants.SourceUpload, contentType: ct}
	switch format {
	case constants.PDF:
		text, err := o.services.ExtractText(ctx, u.Data)
		if err != nil {
			o.logger.Warn("analysis.intake.extract_failed", "name", u.Name, "error", err)
			o.notifier.Notify(ctx, noticeFileError)
			return common.NewAppError(common.CodeExtractionFailed, noticeFileError.Description, err)
		}
		in.text = text
		in.binary = u.Data
	default:
		text, err := extract.DecodeText(u.Data)
		if err != nil {
			o.notifier.Notify(ctx, noticeFileError)
			return err
		}
		in.text = text
	}

	if strings.TrimSpace(in.text) == "" {
		o.notifier.Notify(ctx, noticeFileError)
		return common.NewAppError(common.CodeNoText, noticeFileError.Description, common.ErrInvalidInput)
	}
	return o.start(ctx, in)
}
