package nats

import (
	"github.com/nats-io/nats.go/micro"

	"github.com/bloommama/bloomrag"
)

func AddEndpoints(group micro.Group, endpoints bloomrag.EndpointSet) {
	group.AddEndpoint("ingest_document", IngestDocumentHandler(endpoints.IngestDocument))
	group.AddEndpoint("answer", AnswerHandler(endpoints.Answer))
	group.AddEndpoint("list_documents", ListDocumentsHandler(endpoints.ListDocuments))
	group.AddEndpoint("delete_document", DeleteDocumentHandler(endpoints.DeleteDocument))
}
