package http

import (
	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bloommama/bloomrag"

	mcpE "github.com/bloommama/bloomrag/mcp"
)

func AddRouters(r *gin.Engine, endpoints bloomrag.EndpointSet) {
	// RESTful API routes
	api := r.Group("/api")
	{
		api.POST("/documents", IngestDocumentHandler(endpoints.IngestDocument))
		api.GET("/documents", ListDocumentsHandler(endpoints.ListDocuments))
		api.DELETE("/documents/:document_id", DeleteDocumentHandler(endpoints.DeleteDocument))
		api.POST("/answers", AnswerHandler(endpoints.Answer))
	}
}

func AddStreamableRouters(r *gin.Engine, endpoints map[mcp.MCPMethod]mcpE.MCPEndpoint) {
	mcp := r.Group("/mcp")
	{
		mcp.POST("/", MCPStreamableHandler(endpoints))
	}
}
