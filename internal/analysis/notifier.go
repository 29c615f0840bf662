package analysis

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/legalease/internal/common"
)

// Notification is a user-facing failure message.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Code        string `json:"code,omitempty"`
}

// Notifier receives every recoverable failure of a session.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	Logger *slog.Logger
}

func (l LogNotifier) Notify(ctx context.Context, n Notification) {
	common.LoggerFrom(ctx, l.Logger).Warn("analysis.notify",
		"title", n.Title,
		"description", n.Description,
		"code", n.Code,
	)
}

var (
	noticeNoText = Notification{
		Title:       "No Text Provided",
		Description: "Please paste some document text to analyze.",
		Code:        common.CodeNoText,
	}
	noticeUnsupported = Notification{
		Title:       "Unsupported File Type",
		Description: "Please upload a .txt, .md, or .pdf file.",
		Code:        common.CodeUnsupportedFileType,
	}
	noticeFileError = Notification{
		Title:       "File Processing Error",
		Description: "Could not read the content of the file.",
		Code:        common.CodeExtractionFailed,
	}
	noticeAnalysisFailed = Notification{
		Title:       "Analysis Failed",
		Description: "Could not analyze the document. Please try again.",
		Code:        common.CodeAnalysisFailed,
	}
	noticeQuestionFailed = Notification{
		Title:       "Question Failed",
		Description: "Could not get an answer. Please try again.",
		Code:        common.CodeQuestionFailed,
	}
	noticeExplanationFailed = Notification{
		Title:       "Explanation Failed",
		Description: "Could not explain the selected clause.",
		Code:        common.CodeExplanationFailed,
	}
)

// ExplanationErrorText replaces the explanation when the request fails.
const ExplanationErrorText = "Error fetching explanation."
