package bloomrag

import (
	"context"
	"errors"

	"github.com/bloommama/bloomrag/store"
)

// ProxyMiddleware implements Service over a remote EndpointSet, for
// clients that talk to the service through a message transport.
func ProxyMiddleware(endpoints *EndpointSet) ServiceMiddleware {
	return func(next Service) Service {
		return &proxyMiddleware{
			endpoints: endpoints,
		}
	}
}

type proxyMiddleware struct {
	endpoints *EndpointSet
}

func (mw *proxyMiddleware) Close() error {
	return errors.New("method not implemented")
}

func (mw *proxyMiddleware) IngestDocument(ctx context.Context, url string) (*IngestResult, error) {
	req := IngestDocumentRequest{
		URL: url,
	}

	resp, err := mw.endpoints.IngestDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	result, ok := resp.(*IngestDocumentResponse)
	if !ok {
		return nil, errors.New("invalid response type")
	}

	return &IngestResult{
		DocumentID:    result.DocumentID,
		Title:         result.Title,
		ChunksCreated: result.ChunksCreated,
	}, nil
}

func (mw *proxyMiddleware) Answer(ctx context.Context, question string) (*AnswerResult, error) {
	req := AnswerRequest{
		Question: question,
	}

	resp, err := mw.endpoints.Answer(ctx, req)
	if err != nil {
		return nil, err
	}

	result, ok := resp.(*AnswerResponse)
	if !ok {
		return nil, errors.New("invalid response type")
	}

	return &AnswerResult{
		Answer:     result.Answer,
		Sources:    result.Sources,
		HasContext: result.HasRAGContext,
	}, nil
}

func (mw *proxyMiddleware) ListDocuments(ctx context.Context) ([]store.Document, error) {
	resp, err := mw.endpoints.ListDocuments(ctx, nil)
	if err != nil {
		return nil, err
	}

	docs, ok := resp.([]store.Document)
	if !ok {
		return nil, errors.New("invalid response type")
	}

	return docs, nil
}

func (mw *proxyMiddleware) DeleteDocument(ctx context.Context, id string) error {
	_, err := mw.endpoints.DeleteDocument(ctx, id)
	return err
}
