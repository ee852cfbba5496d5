// Package mcpapp assembles the MCP surface of the relay: a server exposing
// the fetch_appid tool, bound to the forwarding core and served over
// streamable HTTP or stdio.
package mcpapp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/atlanticdynamic/appidrelay/internal/relay"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// ServerName is the implementation name announced during initialize.
	ServerName = "appidrelay"

	// ToolName is the single tool this server exposes.
	ToolName = "fetch_appid"

	toolDescription = "Fetch the appid for a database name and region from the upstream gateway"
)

// Args carries the tool arguments. Both fields are optional in the inferred
// schema so missing values reach Validate and come back as a typed
// validation envelope rather than an SDK-level rejection.
type Args struct {
	DBName string `json:"db_name,omitempty"`
	Region string `json:"region,omitempty"`
}

// NewServer compiles the MCP server: implementation metadata plus the
// fetch_appid tool wired to the relay.
func NewServer(rly *relay.Relay, version string, logger *slog.Logger) (*mcpsdk.Server, error) {
	if rly == nil {
		return nil, ErrNilRelay
	}
	if logger == nil {
		logger = slog.Default().WithGroup("mcp")
	}

	server := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    ServerName,
		Version: version,
	}, &mcpsdk.ServerOptions{HasTools: true})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        ToolName,
		Title:       "Fetch AppID",
		Description: toolDescription,
	}, fetchAppIDHandler(rly, logger))

	return server, nil
}

// fetchAppIDHandler adapts the relay to the SDK's typed tool handler. Domain
// failures become error envelopes in the tool result, never protocol errors,
// and a panic anywhere below becomes an InternalError envelope so one bad
// call cannot take the server down.
func fetchAppIDHandler(
	rly *relay.Relay,
	logger *slog.Logger,
) func(context.Context, *mcpsdk.CallToolRequest, Args) (*mcpsdk.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcpsdk.CallToolRequest, args Args) (result *mcpsdk.CallToolResult, _ any, _ error) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "Tool handler panicked",
					"tool", ToolName,
					"panic", rec)
				result = toolResult(relay.Fail(
					relay.ErrorKindInternal,
					fmt.Sprintf("internal failure handling tool call: %v", rec),
				))
			}
		}()

		req := relay.Request{DBName: args.DBName, Region: args.Region}
		if err := req.Validate(); err != nil {
			logger.WarnContext(ctx, "Tool call rejected",
				"tool", ToolName,
				"error_kind", relay.ErrorKindValidation,
				"error", err)
			return toolResult(relay.Fail(relay.ErrorKindValidation, err.Error())), nil, nil
		}

		res := rly.Handle(ctx, req)
		if res.OK() {
			// The upstream body also flows through the structured slot;
			// RawMessage keeps it byte-exact.
			return toolResult(res), json.RawMessage(res.Body), nil
		}
		return toolResult(res), nil, nil
	}
}

// toolResult flattens an outcome envelope into a tool result: the raw
// upstream JSON on success, the serialized failure with IsError set
// otherwise.
func toolResult(res *relay.Result) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(res.Payload())}},
		IsError: !res.OK(),
	}
}
