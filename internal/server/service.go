package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/legalease/internal/analysis"
	"github.com/joseph-ayodele/legalease/internal/common"
	"github.com/joseph-ayodele/legalease/internal/export"
	"github.com/joseph-ayodele/legalease/internal/extract"
	"github.com/joseph-ayodele/legalease/internal/repository"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "legalease.v1.Analysis"

// AnalysisServer is the server API for the legalease.v1.Analysis service.
type AnalysisServer interface {
	CreateSession(context.Context, *CreateSessionRequest) (*SessionResponse, error)
	Intake(context.Context, *IntakeRequest) (*SessionResponse, error)
	GetSession(context.Context, *SessionRequest) (*SessionResponse, error)
	AskQuestion(context.Context, *AskQuestionRequest) (*SessionResponse, error)
	Select(context.Context, *SelectRequest) (*SelectResponse, error)
	ExplainSelection(context.Context, *SessionRequest) (*SessionResponse, error)
	OpenView(context.Context, *SessionRequest) (*OpenViewResponse, error)
	ExportReport(context.Context, *SessionRequest) (*ExportReportResponse, error)
	ListRuns(context.Context, *ListRunsRequest) (*ListRunsResponse, error)
	CloseSession(context.Context, *SessionRequest) (*CloseSessionResponse, error)
}

// AnalysisServiceDesc describes the service for grpc.Server.RegisterService.
var AnalysisServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AnalysisServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CreateSession", AnalysisServer.CreateSession),
		unary("Intake", AnalysisServer.Intake),
		unary("GetSession", AnalysisServer.GetSession),
		unary("AskQuestion", AnalysisServer.AskQuestion),
		unary("Select", AnalysisServer.Select),
		unary("ExplainSelection", AnalysisServer.ExplainSelection),
		unary("OpenView", AnalysisServer.OpenView),
		unary("ExportReport", AnalysisServer.ExportReport),
		unary("ListRuns", AnalysisServer.ListRuns),
		unary("CloseSession", AnalysisServer.CloseSession),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "legalease/v1/analysis",
}

// RegisterAnalysisServer registers srv on s.
func RegisterAnalysisServer(s grpc.ServiceRegistrar, srv AnalysisServer) {
	s.RegisterService(&AnalysisServiceDesc, srv)
}

func unary[Req, Resp any](name string, fn func(AnalysisServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			handle := func(ctx context.Context, req any) (any, error) {
				resp, err := fn(srv.(AnalysisServer), ctx, req.(*Req))
				if err != nil {
					return nil, common.ToStatus(err)
				}
				return resp, nil
			}
			if interceptor == nil {
				return handle(ctx, in)
			}
			return interceptor(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}, handle)
		},
	}
}

// AnalysisService implements AnalysisServer over a session registry.
type AnalysisService struct {
	sessions       *Registry
	exporter       *export.Service
	runs           repository.RunRepository // optional
	validate       *validator.Validate
	maxUploadBytes int
	logger         *slog.Logger
}

func NewAnalysisService(sessions *Registry, exporter *export.Service, runs repository.RunRepository, maxUploadBytes int, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		sessions:       sessions,
		exporter:       exporter,
		runs:           runs,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

func (s *AnalysisService) CreateSession(ctx context.Context, _ *CreateSessionRequest) (*SessionResponse, error) {
	o, err := s.sessions.Create()
	if err != nil {
		common.LoggerFrom(ctx, s.logger).Warn("session.create.failed", "error", err)
		return nil, status.Error(codes.ResourceExhausted, err.Error())
	}
	return sessionResponse(o.ID(), o.Snapshot()), nil
}

// Intake runs a full analysis and returns once the session settles.
func (s *AnalysisService) Intake(ctx context.Context, req *IntakeRequest) (*SessionResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	if s.maxUploadBytes > 0 && len(req.Data) > s.maxUploadBytes {
		return nil, status.Errorf(codes.InvalidArgument, "file exceeds %d bytes", s.maxUploadBytes)
	}
	o, err := s.sessions.Get(req.SessionID)
	if err != nil {
		return nil, err
	}
	logger := common.LoggerFrom(ctx, s.logger).With("session_id", req.SessionID, "source", req.Source)
	logger.Info("intake.start", "file_name", req.FileName, "bytes", len(req.Data)+len(req.Text))

	switch req.Source {
	case IntakePaste:
		err = o.AnalyzePaste(ctx, req.Text)
	case IntakeSample:
		err = o.AnalyzeSample(ctx)
	case IntakeUpload:
		err = o.AnalyzeUpload(ctx, extract.Upload{Name: req.FileName, ContentType: req.ContentType, Data: req.Data})
	}
	if err != nil {
		logger.Warn("intake.failed", "code", common.CodeOf(err), "error", err)
		return nil, err
	}
	return sessionResponse(o.ID(), o.Snapshot()), nil
}

func (s *AnalysisService) GetSession(_ context.Context, req *SessionRequest) (*SessionResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	o, err := s.sessions.Get(req.SessionID)
	if err != nil {
		return nil, err
	}
	return sessionResponse(o.ID(), o.Snapshot()), nil
}

func (s *AnalysisService) AskQuestion(ctx context.Context, req *AskQuestionRequest) (*SessionResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	o, err := s.sessions.Get(req.SessionID)
	if err != nil {
		return nil, err
	}
	if err := o.AskQuestion(ctx, req.Question); err != nil {
		return nil, err
	}
	return sessionResponse(o.ID(), o.Snapshot()), nil
}

func (s *AnalysisService) Select(_ context.Context, req *SelectRequest) (*SelectResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	o, err := s.sessions.Get(req.SessionID)
	if err != nil {
		return nil, err
	}
	sel, ok := o.HandleSelection(req.Event)
	if !ok {
		return &SelectResponse{}, nil
	}
	return &SelectResponse{Selected: true, Context: &sel}, nil
}

func (s *AnalysisService) ExplainSelection(ctx context.Context, req *SessionRequest) (*SessionResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	o, err := s.sessions.Get(req.SessionID)
	if err != nil {
		return nil, err
	}
	if err := o.ExplainSelection(ctx); err != nil {
		return nil, err
	}
	return sessionResponse(o.ID(), o.Snapshot()), nil
}

func (s *AnalysisService) OpenView(ctx context.Context, req *SessionRequest) (*OpenViewResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	o, err := s.sessions.Get(req.SessionID)
	if err != nil {
		return nil, err
	}
	h, data, err := o.OpenView(ctx)
	if err != nil {
		return nil, err
	}
	return &OpenViewResponse{HandleID: h.ID, ContentType: h.ContentType, Data: data}, nil
}

func (s *AnalysisService) ExportReport(ctx context.Context, req *SessionRequest) (*ExportReportResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	o, err := s.sessions.Get(req.SessionID)
	if err != nil {
		return nil, err
	}
	xlsx, err := s.exporter.ExportSessionXLSX(ctx, o.ID(), o.Snapshot())
	if err != nil {
		common.LoggerFrom(ctx, s.logger).Error("export.xlsx.failed", "session_id", o.ID(), "err", err)
		return nil, err
	}
	return &ExportReportResponse{
		FileName:    fmt.Sprintf("legalease-%s.xlsx", o.ID()),
		ContentType: export.ContentTypeXLSX,
		Xlsx:        xlsx,
	}, nil
}

func (s *AnalysisService) ListRuns(ctx context.Context, req *ListRunsRequest) (*ListRunsResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	if s.runs == nil {
		return nil, status.Error(codes.Unimplemented, "run ledger is not configured")
	}
	limit := req.Limit
	if limit == 0 {
		limit = 20
	}
	runs, err := s.runs.ListBySession(ctx, req.SessionID, limit)
	if err != nil {
		common.LoggerFrom(ctx, s.logger).Error("runs.list.failed", "session_id", req.SessionID, "err", err)
		return nil, fmt.Errorf("list runs: %w", errors.Join(common.ErrDatabase, err))
	}
	return &ListRunsResponse{Runs: runs}, nil
}

func (s *AnalysisService) CloseSession(ctx context.Context, req *SessionRequest) (*CloseSessionResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	if err := s.sessions.Close(ctx, req.SessionID); err != nil {
		return nil, err
	}
	return &CloseSessionResponse{}, nil
}

// check validates req and reports every failing field.
func (s *AnalysisService) check(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return status.Error(codes.InvalidArgument, strings.Join(msgs, "; "))
}

func sessionResponse(id string, s analysis.Session) *SessionResponse {
	return &SessionResponse{SessionID: id, Elapsed: s.ElapsedLabel(), Session: s}
}
