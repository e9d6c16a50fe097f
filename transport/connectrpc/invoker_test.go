package connectrpc

import (
	"errors"
	"net"
	"testing"

	"connectrpc.com/connect"

	"github.com/xmmersia/hubcore/transport"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind transport.Kind
	}{
		{
			"unavailable maps to unreachable",
			connect.NewError(connect.CodeUnavailable, errors.New("connection refused")),
			transport.KindUnreachable,
		},
		{
			"deadline maps to timeout",
			connect.NewError(connect.CodeDeadlineExceeded, errors.New("deadline exceeded")),
			transport.KindTimeout,
		},
		{
			"cancellation maps to timeout",
			connect.NewError(connect.CodeCanceled, errors.New("canceled")),
			transport.KindTimeout,
		},
		{
			"remote rejection maps to rejected",
			connect.NewError(connect.CodePermissionDenied, errors.New("skill disabled")),
			transport.KindRejected,
		},
		{
			"plain network error maps to unreachable",
			&net.OpError{Op: "dial", Err: errors.New("no route to host")},
			transport.KindUnreachable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failure, ok := transport.AsFailure(classify(tt.err))
			if !ok {
				t.Fatalf("classify() did not return a transport.Failure")
			}
			if failure.Kind != tt.wantKind {
				t.Errorf("classify() kind = %v, want %v", failure.Kind, tt.wantKind)
			}
		})
	}
}

func TestClassify_RejectionCarriesCode(t *testing.T) {
	err := connect.NewError(connect.CodeInvalidArgument, errors.New("missing worksheet id"))

	failure, ok := transport.AsFailure(classify(err))
	if !ok {
		t.Fatal("classify() did not return a transport.Failure")
	}
	if failure.Code != "invalid_argument" {
		t.Errorf("Code = %q, want %q", failure.Code, "invalid_argument")
	}
	if failure.Detail != "missing worksheet id" {
		t.Errorf("Detail = %q, want %q", failure.Detail, "missing worksheet id")
	}
}

func TestNormalize(t *testing.T) {
	if got := normalize(nil); got == nil || len(got) != 0 {
		t.Errorf("normalize(nil) = %v, want empty map", got)
	}

	params := map[string]any{"worksheet_id": "ws-1"}
	if got := normalize(params); got["worksheet_id"] != "ws-1" {
		t.Errorf("normalize() dropped params: %v", got)
	}
}
