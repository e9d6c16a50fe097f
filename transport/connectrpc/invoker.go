// Package connectrpc invokes agent skills over Connect RPC. Every agent
// exposes a single generic invocation procedure taking and returning a
// protobuf Struct, so no per-agent code generation is needed: the skill name
// and parameters travel inside the request struct and the response struct is
// the skill payload.
package connectrpc

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xmmersia/hubcore/transport"
)

// InvokeProcedure is the fully-qualified Connect procedure every agent
// serves for skill invocation.
const InvokeProcedure = "/xmmersia.hub.v1.SkillService/Invoke"

type skillClient = connect.Client[structpb.Struct, structpb.Struct]

// Invoker calls agent endpoints over Connect RPC. One client is created per
// endpoint and reused across calls. Safe for concurrent use.
type Invoker struct {
	httpClient connect.HTTPClient

	mu      sync.Mutex
	clients map[string]*skillClient
}

// NewInvoker creates an Invoker using the given HTTP client, or
// http.DefaultClient when nil.
func NewInvoker(httpClient connect.HTTPClient) *Invoker {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Invoker{
		httpClient: httpClient,
		clients:    make(map[string]*skillClient),
	}
}

// Invoke performs one skill call. Connect error codes are normalized onto
// the transport failure taxonomy: unavailable endpoints are Unreachable,
// deadline and cancellation are Timeout, everything else the agent answered
// with is Rejected.
func (i *Invoker) Invoke(ctx context.Context, endpoint, skill string, params map[string]any) (map[string]any, error) {
	request, err := structpb.NewStruct(map[string]any{
		"skill":  skill,
		"params": normalize(params),
	})
	if err != nil {
		return nil, transport.Rejected("invalid_params", err.Error())
	}

	response, err := i.client(endpoint).CallUnary(ctx, connect.NewRequest(request))
	if err != nil {
		return nil, classify(err)
	}

	return response.Msg.AsMap(), nil
}

func (i *Invoker) client(endpoint string) *skillClient {
	i.mu.Lock()
	defer i.mu.Unlock()

	if c, ok := i.clients[endpoint]; ok {
		return c
	}
	c := connect.NewClient[structpb.Struct, structpb.Struct](
		i.httpClient,
		endpoint+InvokeProcedure,
	)
	i.clients[endpoint] = c
	return c
}

func classify(err error) error {
	switch connect.CodeOf(err) {
	case connect.CodeUnavailable:
		return transport.Unreachable(err)
	case connect.CodeDeadlineExceeded, connect.CodeCanceled:
		return transport.Timeout(err)
	}

	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return transport.Rejected(connectErr.Code().String(), connectErr.Message())
	}

	// Plain network errors that connect did not wrap.
	return transport.Unreachable(err)
}

// normalize coerces params into a structpb-compatible map. A nil map becomes
// an empty object so agents always receive a params field.
func normalize(params map[string]any) map[string]any {
	if params == nil {
		return map[string]any{}
	}
	return params
}
