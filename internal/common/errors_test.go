package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestCodeOf(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewAppError(CodeNoText, "empty", nil))
	assert.Equal(t, CodeNoText, CodeOf(err))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.Equal(t, "", CodeOf(nil))
}

func TestAppErrorUnwrap(t *testing.T) {
	err := NewAppError(CodeAnalysisFailed, "analysis failed", ErrSuperseded)
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.Equal(t, "ANALYSIS_FAILED: analysis failed: superseded by a newer request", err.Error())
	assert.Equal(t, "NO_TEXT: blank", NewAppError(CodeNoText, "blank", nil).Error())
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"not found", WrapError(ErrNotFound, "session abc"), codes.NotFound},
		{"no document", ErrNoDocument, codes.FailedPrecondition},
		{"no selection", ErrNoSelection, codes.FailedPrecondition},
		{"superseded", ErrSuperseded, codes.Aborted},
		{"unsupported", NewAppError(CodeUnsupportedFileType, "docx", nil), codes.InvalidArgument},
		{"no text", NewAppError(CodeNoText, "blank", nil), codes.InvalidArgument},
		{"extraction", NewAppError(CodeExtractionFailed, "pdf", errors.New("boom")), codes.Unavailable},
		{"analysis", NewAppError(CodeAnalysisFailed, "x", nil), codes.Unavailable},
		{"question", NewAppError(CodeQuestionFailed, "x", nil), codes.Unavailable},
		{"explanation", NewAppError(CodeExplanationFailed, "x", nil), codes.Unavailable},
		{"passthrough", status.Error(codes.ResourceExhausted, "full"), codes.ResourceExhausted},
		{"unknown", errors.New("boom"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, status.Code(ToStatus(tt.err)))
		})
	}
	assert.NoError(t, ToStatus(nil))
}
