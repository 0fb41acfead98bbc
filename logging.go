package bloomrag

import (
	"context"

	"go.uber.org/zap"

	"github.com/bloommama/bloomrag/store"
)

func LoggingMiddleware(log *zap.Logger) ServiceMiddleware {
	log = log.With(
		zap.String("service", "bloomrag"),
	)

	return func(next Service) Service {
		log.Info("service initialized")

		return &loggingMiddleware{
			log:  log,
			next: next,
		}
	}
}

type loggingMiddleware struct {
	log  *zap.Logger
	next Service
}

func (mw *loggingMiddleware) Close() error {
	log := mw.log.With(
		zap.String("action", "close"),
	)

	err := mw.next.Close()
	if err != nil {
		log.Error(err.Error())
		return err
	}

	log.Info("service closed")
	return nil
}

func (mw *loggingMiddleware) IngestDocument(ctx context.Context, url string) (*IngestResult, error) {
	log := mw.log.With(
		zap.String("action", "ingest_document"),
		zap.String("url", url),
	)

	result, err := mw.next.IngestDocument(ctx, url)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Info("document ingested",
		zap.String("document_id", result.DocumentID),
		zap.Int("chunks_created", result.ChunksCreated),
	)
	return result, nil
}

func (mw *loggingMiddleware) Answer(ctx context.Context, question string) (*AnswerResult, error) {
	log := mw.log.With(
		zap.String("action", "answer"),
	)

	result, err := mw.next.Answer(ctx, question)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Info("question answered",
		zap.Bool("has_context", result.HasContext),
		zap.Int("sources", len(result.Sources)),
	)
	return result, nil
}

func (mw *loggingMiddleware) ListDocuments(ctx context.Context) ([]store.Document, error) {
	log := mw.log.With(
		zap.String("action", "list_documents"),
	)

	docs, err := mw.next.ListDocuments(ctx)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Info("documents listed", zap.Int("count", len(docs)))
	return docs, nil
}

func (mw *loggingMiddleware) DeleteDocument(ctx context.Context, id string) error {
	log := mw.log.With(
		zap.String("action", "delete_document"),
		zap.String("document_id", id),
	)

	err := mw.next.DeleteDocument(ctx, id)
	if err != nil {
		log.Error(err.Error())
		return err
	}

	log.Info("document deleted")
	return nil
}
