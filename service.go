package bloomrag

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bloommama/bloomrag/ai"
	"github.com/bloommama/bloomrag/chunk"
	"github.com/bloommama/bloomrag/scrape"
	"github.com/bloommama/bloomrag/store"
	"github.com/bloommama/bloomrag/vector"
)

// Service defines the core logic of the Bloom Mama RAG pipeline.
type Service interface {

	// Close gracefully shuts down the service and its stores.
	Close() error

	// IngestDocument fetches a page, splits it into overlapping
	// chunks, embeds them and replaces the document's stored chunks.
	IngestDocument(ctx context.Context, url string) (*IngestResult, error)

	// Answer retrieves the chunks most similar to the question and
	// conditions a chat completion on them. Retrieval failures
	// degrade to an ungrounded answer.
	Answer(ctx context.Context, question string) (*AnswerResult, error)

	// ListDocuments returns every ingested document.
	ListDocuments(ctx context.Context) ([]store.Document, error)

	// DeleteDocument removes a document and all of its chunks.
	DeleteDocument(ctx context.Context, id string) error
}

type ServiceMiddleware func(Service) Service

func NewService(cfg Config, documents store.DocumentStore, vdb vector.VectorDB, fetcher scrape.Fetcher, gateway ai.Client) (Service, error) {
	log := zap.L().With(
		zap.String("service", "bloomrag"),
	)

	cfg.ApplyDefaults()

	collection, err := vdb.Collection(cfg.Vector.Collection)
	if err != nil {
		return nil, err
	}

	return &service{
		cfg:        cfg,
		documents:  documents,
		collection: collection,
		fetcher:    fetcher,
		gateway:    gateway,
		ingestLock: make(map[string]*sync.Mutex),
		log:        log,
	}, nil
}

type service struct {
	cfg        Config
	documents  store.DocumentStore
	collection vector.Collection
	fetcher    scrape.Fetcher
	gateway    ai.Client

	// Per-URL locks serialize concurrent re-ingestion of the same
	// document, so one request's inserts cannot be wiped by
	// another's delete-all step.
	ingestLock map[string]*sync.Mutex
	ingestMux  sync.Mutex

	log *zap.Logger
}

func (svc *service) Close() error {
	return svc.documents.Close()
}

func (svc *service) IngestDocument(ctx context.Context, url string) (*IngestResult, error) {
	if strings.TrimSpace(url) == "" {
		return nil, ErrURLRequired
	}

	log := svc.log.With(
		zap.String("action", "ingest_document"),
		zap.String("url", url),
	)

	mu := svc.urlLock(url)
	mu.Lock()
	defer mu.Unlock()

	// A fetch failure aborts before any store mutation.
	page, err := svc.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := svc.documents.UpsertDocument(ctx, url, page.Title, store.StatusProcessing, time.Now())
	if err != nil {
		return nil, err
	}

	// Replace-all semantics: a document exclusively owns its chunks.
	if err := svc.collection.DeleteChunks(ctx, doc.ID); err != nil {
		log.Error(err.Error())
	}

	chunks := chunk.Split(page.Content, svc.cfg.Chunking.Size, svc.cfg.Chunking.Overlap)

	log.Info("content chunked",
		zap.Int("content_length", len(page.Content)),
		zap.Int("chunks", len(chunks)),
	)

	stored := 0
	for i, content := range chunks {
		embedding, err := svc.gateway.Embed(ctx, content)
		if err != nil {
			log.Warn("chunk skipped",
				zap.Int("ordinal", i),
				zap.Error(err),
			)
			continue
		}

		c := vector.Chunk{
			ID:         doc.ID + ":" + strconv.Itoa(i),
			DocumentID: doc.ID,
			Ordinal:    i,
			Content:    content,
			Embedding:  embedding,
		}

		if err := svc.collection.AddChunk(ctx, c); err != nil {
			log.Error("chunk insert failed",
				zap.Int("ordinal", i),
				zap.Error(err),
			)
			continue
		}

		stored++
	}

	status := store.StatusCompleted
	if len(chunks) > 0 && stored == 0 {
		// Nothing usable was stored, so the document must not claim
		// to be retrievable.
		status = store.StatusError
	}

	if err := svc.documents.UpdateStatus(ctx, doc.ID, status); err != nil {
		log.Error(err.Error())
	}

	return &IngestResult{
		DocumentID:    doc.ID,
		Title:         doc.Title,
		ChunksCreated: stored,
	}, nil
}

func (svc *service) Answer(ctx context.Context, question string) (*AnswerResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrQuestionRequired
	}

	log := svc.log.With(
		zap.String("action", "answer"),
	)

	contextText, sources := svc.retrieve(ctx, question, log)

	system := ungroundedSystemPrompt
	if contextText != "" {
		system = fmt.Sprintf(groundedSystemPrompt, contextText)
	}

	answer, err := svc.gateway.Complete(ctx, system, question)
	if err != nil {
		return nil, err
	}

	result := &AnswerResult{
		Answer:     answer,
		HasContext: contextText != "",
	}

	if len(sources) > 0 {
		result.Sources = sources
	}

	return result, nil
}

// retrieve embeds the question and collects the contents and source
// titles of the chunks above the similarity threshold. Any failure
// here degrades to an ungrounded answer instead of failing the
// request.
func (svc *service) retrieve(ctx context.Context, question string, log *zap.Logger) (string, []string) {
	embedding, err := svc.gateway.Embed(ctx, question)
	if err != nil {
		log.Warn("question embedding failed, answering without context", zap.Error(err))
		return "", nil
	}

	matches, err := svc.collection.QueryEmbedding(ctx, embedding, svc.cfg.Retrieval.TopK)
	if err != nil {
		log.Error(err.Error())
		return "", nil
	}

	var (
		contents []string
		sources  []string
		titles   = make(map[string]string)
		seen     = make(map[string]bool)
	)

	for _, match := range matches {
		if match.Similarity < svc.cfg.Retrieval.Threshold {
			continue
		}

		contents = append(contents, match.Content)

		title, ok := titles[match.DocumentID]
		if !ok {
			title = svc.sourceTitle(ctx, match.DocumentID, log)
			titles[match.DocumentID] = title
		}

		if !seen[title] {
			seen[title] = true
			sources = append(sources, title)
		}
	}

	log.Info("chunks retrieved", zap.Int("count", len(contents)))

	return strings.Join(contents, ContextDelimiter), sources
}

func (svc *service) sourceTitle(ctx context.Context, documentID string, log *zap.Logger) string {
	doc, err := svc.documents.FindDocument(ctx, documentID)
	if err != nil {
		log.Error(err.Error(), zap.String("document_id", documentID))
		return "Unknown source"
	}

	if doc.Title == "" {
		return "Unknown source"
	}

	return doc.Title
}

func (svc *service) ListDocuments(ctx context.Context) ([]store.Document, error) {
	return svc.documents.ListDocuments(ctx)
}

func (svc *service) DeleteDocument(ctx context.Context, id string) error {
	if id == "" {
		return ErrDocumentNotFound
	}

	if err := svc.documents.DeleteDocument(ctx, id); err != nil {
		return err
	}

	return svc.collection.DeleteChunks(ctx, id)
}

func (svc *service) urlLock(url string) *sync.Mutex {
	svc.ingestMux.Lock()
	defer svc.ingestMux.Unlock()

	mu, ok := svc.ingestLock[url]
	if !ok {
		mu = new(sync.Mutex)
		svc.ingestLock[url] = mu
	}

	return mu
}
