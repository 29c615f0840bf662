package server

import (
	"github.com/joseph-ayodele/legalease/internal/analysis"
	"github.com/joseph-ayodele/legalease/internal/selection"
)

// Intake sources on the wire.
const (
	IntakePaste  = "paste"
	IntakeUpload = "upload"
	IntakeSample = "sample"
)

type CreateSessionRequest struct{}

type SessionRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

type SessionResponse struct {
	SessionID string           `json:"sessionId"`
	Elapsed   string           `json:"elapsed"`
	Session   analysis.Session `json:"session"`
}

type IntakeRequest struct {
	SessionID   string `json:"sessionId" validate:"required"`
	Source      string `json:"source" validate:"required,oneof=paste upload sample"`
	Text        string `json:"text,omitempty"`
	FileName    string `json:"fileName,omitempty" validate:"required_if=Source upload"`
	ContentType string `json:"contentType,omitempty"`
	Data        []byte `json:"data,omitempty" validate:"required_if=Source upload"`
}

type AskQuestionRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	Question  string `json:"question" validate:"max=4000"`
}

type SelectRequest struct {
	SessionID string          `json:"sessionId" validate:"required"`
	Event     selection.Event `json:"event"`
}

type SelectResponse struct {
	Selected bool               `json:"selected"`
	Context  *selection.Context `json:"context,omitempty"`
}

type OpenViewResponse struct {
	HandleID    string `json:"handleId"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}

type ExportReportResponse struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Xlsx        []byte `json:"xlsx"`
}

type ListRunsRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	Limit     int    `json:"limit,omitempty" validate:"gte=0,lte=100"`
}

type ListRunsResponse struct {
	Runs []analysis.Run `json:"runs"`
}

type CloseSessionResponse struct{}
