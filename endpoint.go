package bloomrag

import (
	"context"
	"errors"

	"github.com/go-kit/kit/endpoint"
)

type EndpointSet struct {
	IngestDocument endpoint.Endpoint
	Answer         endpoint.Endpoint
	ListDocuments  endpoint.Endpoint
	DeleteDocument endpoint.Endpoint
}

type IngestDocumentRequest struct {
	URL string `json:"url"`
}

type IngestDocumentResponse struct {
	Success       bool   `json:"success"`
	DocumentID    string `json:"documentId"`
	Title         string `json:"title"`
	ChunksCreated int    `json:"chunksCreated"`
}

func IngestDocumentEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(IngestDocumentRequest)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		result, err := svc.IngestDocument(ctx, req.URL)
		if err != nil {
			return nil, err
		}

		return &IngestDocumentResponse{
			Success:       true,
			DocumentID:    result.DocumentID,
			Title:         result.Title,
			ChunksCreated: result.ChunksCreated,
		}, nil
	}
}

type AnswerRequest struct {
	Question string `json:"question"`
}

type AnswerResponse struct {
	Answer        string   `json:"answer"`
	Sources       []string `json:"sources,omitempty"`
	HasRAGContext bool     `json:"hasRagContext"`
}

func AnswerEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(AnswerRequest)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		result, err := svc.Answer(ctx, req.Question)
		if err != nil {
			return nil, err
		}

		return &AnswerResponse{
			Answer:        result.Answer,
			Sources:       result.Sources,
			HasRAGContext: result.HasContext,
		}, nil
	}
}

func ListDocumentsEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		return svc.ListDocuments(ctx)
	}
}

func DeleteDocumentEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		documentID, ok := request.(string)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		err := svc.DeleteDocument(ctx, documentID)
		return nil, err
	}
}
