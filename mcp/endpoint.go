package mcp

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bloommama/bloomrag"
)

type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      mcp.RequestId   `json:"id"`
	Method  mcp.MCPMethod   `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

func errorResponse(id any, code int, message string) mcp.JSONRPCError {
	return mcp.JSONRPCError{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      mcp.NewRequestId(id),
		Error: struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Data    any    `json:"data,omitempty"`
		}{
			Code:    code,
			Message: message,
		},
	}
}

type MCPEndpoint func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage

const MCPSERVER_INSTRUCTIONS string = `Bloom Mama Knowledge exposes a verified postpartum health knowledge base, providing:

1. **Question Answering**: Ask free-text questions and get answers grounded in verified health sources
2. **Document Ingestion**: Add a web page to the knowledge base by URL
3. **Document Listing**: Inspect which sources are currently ingested

Available tools:
- ask_question: Answer a question, grounded in the ingested sources when possible
- ingest_document: Fetch, chunk and embed a page so it becomes retrievable
- list_documents: List all ingested documents with their status

Answers cite their source documents and defer medical concerns to healthcare providers.`

// Tools returns the tool list exposed over MCP.
func Tools() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool("ask_question",
			mcp.WithDescription("Answer a postpartum health question, grounded in the ingested knowledge base when relevant sources exist"),
			mcp.WithString("question",
				mcp.Required(),
				mcp.Description("The question to answer"),
			),
		),
		mcp.NewTool("ingest_document",
			mcp.WithDescription("Fetch a web page and ingest it into the knowledge base"),
			mcp.WithString("url",
				mcp.Required(),
				mcp.Description("URL of the page to ingest"),
			),
		),
		mcp.NewTool("list_documents",
			mcp.WithDescription("List all ingested documents"),
		),
	}
}

func InitializeEndpoint(svc bloomrag.Service) MCPEndpoint {
	return func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage {
		var params mcp.InitializeParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, mcp.INVALID_PARAMS, err.Error())
		}

		protocolVersion := mcp.LATEST_PROTOCOL_VERSION
		if clientVersion := params.ProtocolVersion; clientVersion != "" {
			if slices.Contains(mcp.ValidProtocolVersions, clientVersion) {
				protocolVersion = clientVersion
			}
		}

		result := &mcp.InitializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities: mcp.ServerCapabilities{
				Tools: &struct {
					ListChanged bool `json:"listChanged,omitempty"`
				}{},
			},
			ServerInfo: mcp.Implementation{
				Name:    "bloomrag",
				Version: "1.0.0",
			},
			Instructions: MCPSERVER_INSTRUCTIONS,
		}

		return mcp.JSONRPCResponse{
			JSONRPC: mcp.JSONRPC_VERSION,
			ID:      req.ID,
			Result:  result,
		}
	}
}

func PingEndpoint(svc bloomrag.Service) MCPEndpoint {
	return func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage {
		return mcp.JSONRPCResponse{
			JSONRPC: mcp.JSONRPC_VERSION,
			ID:      req.ID,
			Result:  struct{}{}, // empty response
		}
	}
}

func ListToolsEndpoint(svc bloomrag.Service) MCPEndpoint {
	return func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage {
		result := &mcp.ListToolsResult{
			Tools: Tools(),
		}

		return mcp.JSONRPCResponse{
			JSONRPC: mcp.JSONRPC_VERSION,
			ID:      req.ID,
			Result:  result,
		}
	}
}

func CallToolEndpoint(svc bloomrag.Service) MCPEndpoint {
	return func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage {
		var params mcp.CallToolParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, mcp.INVALID_PARAMS, err.Error())
		}

		args, _ := params.Arguments.(map[string]any)

		var result *mcp.CallToolResult

		switch params.Name {
		case "ask_question":
			question, _ := args["question"].(string)

			answer, err := svc.Answer(ctx, question)
			if err != nil {
				return errorResponse(req.ID, mcp.INTERNAL_ERROR, err.Error())
			}

			text := answer.Answer
			if len(answer.Sources) > 0 {
				text += "\n\nSources: " + strings.Join(answer.Sources, ", ")
			}

			result = mcp.NewToolResultText(text)

		case "ingest_document":
			url, _ := args["url"].(string)

			ingested, err := svc.IngestDocument(ctx, url)
			if err != nil {
				return errorResponse(req.ID, mcp.INTERNAL_ERROR, err.Error())
			}

			bs, err := json.Marshal(&bloomrag.IngestDocumentResponse{
				Success:       true,
				DocumentID:    ingested.DocumentID,
				Title:         ingested.Title,
				ChunksCreated: ingested.ChunksCreated,
			})
			if err != nil {
				return errorResponse(req.ID, mcp.INTERNAL_ERROR, err.Error())
			}

			result = mcp.NewToolResultText(string(bs))

		case "list_documents":
			docs, err := svc.ListDocuments(ctx)
			if err != nil {
				return errorResponse(req.ID, mcp.INTERNAL_ERROR, err.Error())
			}

			bs, err := json.Marshal(&docs)
			if err != nil {
				return errorResponse(req.ID, mcp.INTERNAL_ERROR, err.Error())
			}

			result = mcp.NewToolResultText(string(bs))

		default:
			return errorResponse(req.ID, mcp.INVALID_PARAMS, "unknown tool: "+params.Name)
		}

		return mcp.JSONRPCResponse{
			JSONRPC: mcp.JSONRPC_VERSION,
			ID:      req.ID,
			Result:  result,
		}
	}
}
