package chromem

import (
	"context"
	"strconv"

	"github.com/philippgille/chromem-go"

	"github.com/bloommama/bloomrag/vector"
)

func NewChromemVectorDB(cfg vector.Config) (vector.VectorDB, error) {
	var db *chromem.DB
	if !cfg.Persistent {
		db = chromem.NewDB()
	} else {
		d, err := chromem.NewPersistentDB(cfg.Path, false)
		if err != nil {
			return nil, err
		}

		db = d
	}

	return &chromemVectorDB{db}, nil
}

type chromemVectorDB struct {
	db *chromem.DB
}

func (vdb *chromemVectorDB) Collection(name string) (vector.Collection, error) {
	// Embeddings are always supplied by the caller, so no embedding
	// function is configured.
	c, err := vdb.db.GetOrCreateCollection(name, nil, nil)
	if err != nil {
		return nil, err
	}

	return &collection{c}, nil
}

type collection struct {
	collection *chromem.Collection
}

func (c *collection) AddChunk(ctx context.Context, chunk vector.Chunk) error {
	document := chromem.Document{
		ID: chunk.ID,
		Metadata: map[string]string{
			"document_id": chunk.DocumentID,
			"ordinal":     strconv.Itoa(chunk.Ordinal),
		},
		Embedding: chunk.Embedding,
		Content:   chunk.Content,
	}

	return c.collection.AddDocument(ctx, document)
}

func (c *collection) DeleteChunks(ctx context.Context, documentID string) error {
	if c.collection.Count() == 0 {
		return nil
	}

	where := map[string]string{
		"document_id": documentID,
	}

	return c.collection.Delete(ctx, where, nil)
}

func (c *collection) QueryEmbedding(ctx context.Context, embedding []float32, k int) ([]vector.Match, error) {
	if count := c.collection.Count(); k > count {
		k = count
	}

	if k <= 0 {
		return []vector.Match{}, nil
	}

	results, err := c.collection.QueryEmbedding(ctx, embedding, k, nil, nil)
	if err != nil {
		return nil, err
	}

	matches := make([]vector.Match, len(results))
	for i, result := range results {
		ordinal, _ := strconv.Atoi(result.Metadata["ordinal"])

		matches[i] = vector.Match{
			Chunk: vector.Chunk{
				ID:         result.ID,
				DocumentID: result.Metadata["document_id"],
				Ordinal:    ordinal,
				Content:    result.Content,
				Embedding:  result.Embedding,
			},
			Similarity: result.Similarity,
		}
	}

	return matches, nil
}
