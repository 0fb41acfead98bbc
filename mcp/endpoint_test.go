package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"

	"github.com/bloommama/bloomrag"
	"github.com/bloommama/bloomrag/store"
)

type stubService struct {
	answer *bloomrag.AnswerResult
	ingest *bloomrag.IngestResult
	docs   []store.Document
	err    error
}

func (s *stubService) IngestDocument(ctx context.Context, url string) (*bloomrag.IngestResult, error) {
	return s.ingest, s.err
}

func (s *stubService) Answer(ctx context.Context, question string) (*bloomrag.AnswerResult, error) {
	return s.answer, s.err
}

func (s *stubService) ListDocuments(ctx context.Context) ([]store.Document, error) {
	return s.docs, s.err
}

func (s *stubService) DeleteDocument(ctx context.Context, documentID string) error {
	return s.err
}

func (s *stubService) Close() error {
	return nil
}

func TestUnmarshalInitializeRequest(t *testing.T) {
	assert := assert.New(t)

	input := []byte(`{
	  "jsonrpc": "2.0",
	  "id": 1,
	  "method": "initialize",
	  "params": {
	    "protocolVersion": "2024-11-05",
	    "capabilities": {
	      "roots": {
	        "listChanged": true
	      },
	      "sampling": {},
	      "elicitation": {}
	    },
	    "clientInfo": {
	      "name": "ExampleClient",
	      "title": "Example Client Display Name",
	      "version": "1.0.0"
	    }
	  }
	}`)

	var req JSONRPCRequest
	if err := json.Unmarshal(input, &req); err != nil {
		assert.Fail(err.Error())
		return
	}

	var params mcp.InitializeParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Equal(mcp.JSONRPC_VERSION, req.JSONRPC)
	assert.Equal(mcp.NewRequestId(int64(1)), req.ID)
	assert.Equal(mcp.MethodInitialize, req.Method)
	assert.Equal("2024-11-05", params.ProtocolVersion)
}

func TestUnmarshalCallToolRequest(t *testing.T) {
	assert := assert.New(t)

	input := []byte(`{
	  "jsonrpc": "2.0",
	  "id": 2,
	  "method": "tools/call",
	  "params": {
	    "name": "ask_question",
	    "arguments": {
	      "question": "How much sleep does a newborn need?"
	    }
	  }
	}`)

	var req JSONRPCRequest
	if err := json.Unmarshal(input, &req); err != nil {
		assert.Fail(err.Error())
		return
	}

	var params mcp.CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Equal(mcp.JSONRPC_VERSION, req.JSONRPC)
	assert.Equal(mcp.NewRequestId(int64(2)), req.ID)
	assert.Equal(mcp.MethodToolsCall, req.Method)
	assert.Equal("ask_question", params.Name)
	assert.Contains(params.Arguments, "question")
}

func TestListToolsEndpoint(t *testing.T) {
	assert := assert.New(t)

	endpoint := ListToolsEndpoint(&stubService{})

	req := JSONRPCRequest{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      mcp.NewRequestId(int64(1)),
		Method:  mcp.MethodToolsList,
	}

	resp, ok := endpoint(context.Background(), req).(mcp.JSONRPCResponse)
	if !ok {
		assert.Fail("expected a JSONRPCResponse")
		return
	}

	result, ok := resp.Result.(*mcp.ListToolsResult)
	if !ok {
		assert.Fail("expected a ListToolsResult")
		return
	}

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}

	assert.Equal([]string{"ask_question", "ingest_document", "list_documents"}, names)
}

func TestCallToolAskQuestion(t *testing.T) {
	assert := assert.New(t)

	svc := &stubService{
		answer: &bloomrag.AnswerResult{
			Answer:     "Newborns sleep 14 to 17 hours a day.",
			Sources:    []string{"Newborn Sleep Guide"},
			HasContext: true,
		},
	}

	endpoint := CallToolEndpoint(svc)

	req := JSONRPCRequest{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      mcp.NewRequestId(int64(3)),
		Method:  mcp.MethodToolsCall,
		Params:  json.RawMessage(`{"name":"ask_question","arguments":{"question":"How much sleep?"}}`),
	}

	resp, ok := endpoint(context.Background(), req).(mcp.JSONRPCResponse)
	if !ok {
		assert.Fail("expected a JSONRPCResponse")
		return
	}

	result, ok := resp.Result.(*mcp.CallToolResult)
	if !ok {
		assert.Fail("expected a CallToolResult")
		return
	}

	if !assert.Len(result.Content, 1) {
		return
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		assert.Fail("expected text content")
		return
	}

	assert.Contains(text.Text, "Newborns sleep 14 to 17 hours a day.")
	assert.Contains(text.Text, "Sources: Newborn Sleep Guide")
}

func TestCallToolIngestDocument(t *testing.T) {
	assert := assert.New(t)

	svc := &stubService{
		ingest: &bloomrag.IngestResult{
			DocumentID:    "d8e8fca2",
			Title:         "Newborn Sleep Guide",
			ChunksCreated: 3,
		},
	}

	endpoint := CallToolEndpoint(svc)

	req := JSONRPCRequest{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      mcp.NewRequestId(int64(4)),
		Method:  mcp.MethodToolsCall,
		Params:  json.RawMessage(`{"name":"ingest_document","arguments":{"url":"https://example.com/sleep"}}`),
	}

	resp, ok := endpoint(context.Background(), req).(mcp.JSONRPCResponse)
	if !ok {
		assert.Fail("expected a JSONRPCResponse")
		return
	}

	result, ok := resp.Result.(*mcp.CallToolResult)
	if !ok {
		assert.Fail("expected a CallToolResult")
		return
	}

	if !assert.Len(result.Content, 1) {
		return
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		assert.Fail("expected text content")
		return
	}

	assert.JSONEq(`{
		"success": true,
		"documentId": "d8e8fca2",
		"title": "Newborn Sleep Guide",
		"chunksCreated": 3
	}`, text.Text)
}

func TestCallToolUnknownTool(t *testing.T) {
	assert := assert.New(t)

	endpoint := CallToolEndpoint(&stubService{})

	req := JSONRPCRequest{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      mcp.NewRequestId(int64(5)),
		Method:  mcp.MethodToolsCall,
		Params:  json.RawMessage(`{"name":"get_weather","arguments":{}}`),
	}

	resp, ok := endpoint(context.Background(), req).(mcp.JSONRPCError)
	if !ok {
		assert.Fail("expected a JSONRPCError")
		return
	}

	assert.Equal(mcp.INVALID_PARAMS, resp.Error.Code)
	assert.Contains(resp.Error.Message, "get_weather")
}
