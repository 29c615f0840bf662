package server

import (
	"context"

	"google.golang.org/grpc"
)

// Client calls the legalease.v1.Analysis service with the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *Client, method string, in any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateSession(ctx context.Context, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c, "CreateSession", &CreateSessionRequest{}, opts...)
}

func (c *Client) Intake(ctx context.Context, in *IntakeRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c, "Intake", in, opts...)
}

func (c *Client) GetSession(ctx context.Context, sessionID string, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c, "GetSession", &SessionRequest{SessionID: sessionID}, opts...)
}

func (c *Client) AskQuestion(ctx context.Context, in *AskQuestionRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c, "AskQuestion", in, opts...)
}

func (c *Client) Select(ctx context.Context, in *SelectRequest, opts ...grpc.CallOption) (*SelectResponse, error) {
	return invoke[SelectResponse](ctx, c, "Select", in, opts...)
}

func (c *Client) ExplainSelection(ctx context.Context, sessionID string, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c, "ExplainSelection", &SessionRequest{SessionID: sessionID}, opts...)
}

func (c *Client) OpenView(ctx context.Context, sessionID string, opts ...grpc.CallOption) (*OpenViewResponse, error) {
	return invoke[OpenViewResponse](ctx, c, "OpenView", &SessionRequest{SessionID: sessionID}, opts...)
}

func (c *Client) ExportReport(ctx context.Context, sessionID string, opts ...grpc.CallOption) (*ExportReportResponse, error) {
	return invoke[ExportReportResponse](ctx, c, "ExportReport", &SessionRequest{SessionID: sessionID}, opts...)
}

func (c *Client) ListRuns(ctx context.Context, in *ListRunsRequest, opts ...grpc.CallOption) (*ListRunsResponse, error) {
	return invoke[ListRunsResponse](ctx, c, "ListRuns", in, opts...)
}

func (c *Client) CloseSession(ctx context.Context, sessionID string, opts ...grpc.CallOption) (*CloseSessionResponse, error) {
	return invoke[CloseSessionResponse](ctx, c, "CloseSession", &SessionRequest{SessionID: sessionID}, opts...)
}
