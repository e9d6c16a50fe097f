// Package mcp invokes agent skills over the Model Context Protocol. A skill
// call maps onto an MCP tool call against the agent's streamable HTTP
// endpoint; the tool result is decoded back into a payload map.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	mcpclient "github.com/mark3labs/mcp-go/client"
	clienttransport "github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/xmmersia/hubcore/transport"
)

const clientName = "hubcore"

// Invoker calls agent endpoints speaking MCP. Clients are created and
// initialized once per endpoint, then reused. Safe for concurrent use.
type Invoker struct {
	version string

	mu      sync.Mutex
	clients map[string]*mcpclient.Client
}

// NewInvoker creates an Invoker identifying itself with the given hub
// version during the MCP handshake.
func NewInvoker(version string) *Invoker {
	if version == "" {
		version = "0.0.0"
	}
	return &Invoker{
		version: version,
		clients: make(map[string]*mcpclient.Client),
	}
}

// Invoke performs one skill call as an MCP tool call.
func (i *Invoker) Invoke(ctx context.Context, endpoint, skill string, params map[string]any) (map[string]any, error) {
	cli, err := i.client(ctx, endpoint)
	if err != nil {
		return nil, classify(err)
	}

	request := mcp.CallToolRequest{}
	request.Params.Name = skill
	request.Params.Arguments = params

	result, err := cli.CallTool(ctx, request)
	if err != nil {
		return nil, classify(err)
	}
	if result.IsError {
		return nil, transport.Rejected("tool_error", textContent(result))
	}

	return decodePayload(result), nil
}

func (i *Invoker) client(ctx context.Context, endpoint string) (*mcpclient.Client, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if cli, ok := i.clients[endpoint]; ok {
		return cli, nil
	}

	tr, err := clienttransport.NewStreamableHTTP(endpoint)
	if err != nil {
		return nil, err
	}

	cli := mcpclient.NewClient(tr)
	if err := cli.Start(ctx); err != nil {
		return nil, err
	}

	initRequest := mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    clientName,
				Version: i.version,
			},
		},
	}
	if _, err := cli.Initialize(ctx, initRequest); err != nil {
		return nil, err
	}

	i.clients[endpoint] = cli
	return cli, nil
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return transport.Timeout(err)
	}
	return transport.Unreachable(err)
}

// decodePayload converts a tool result into a payload map. Text content
// holding a JSON object decodes into the payload directly; anything else is
// wrapped under a "text" key.
func decodePayload(result *mcp.CallToolResult) map[string]any {
	text := textContent(result)
	if text == "" {
		return map[string]any{}
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text), &payload); err == nil {
		return payload
	}
	return map[string]any{"text": text}
}

func textContent(result *mcp.CallToolResult) string {
	var parts []string
	for _, content := range result.Content {
		if tc, ok := content.(mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}
