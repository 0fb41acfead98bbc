// Package vector defines the chunk store with its similarity-search
// capability. The actual vector index is delegated to an embedded
// vector database behind the Collection interface.
package vector

import "context"

type Config struct {
	Persistent bool   `yaml:"persistent"`
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
}

type VectorDB interface {
	Collection(name string) (Collection, error)
}

type Collection interface {
	// AddChunk stores one chunk with its embedding. Inserts are
	// isolated per chunk.
	AddChunk(ctx context.Context, chunk Chunk) error

	// DeleteChunks removes every chunk owned by a document.
	DeleteChunks(ctx context.Context, documentID string) error

	// QueryEmbedding returns up to k chunks ranked by descending
	// similarity to the query embedding. Threshold filtering is the
	// caller's responsibility.
	QueryEmbedding(ctx context.Context, embedding []float32, k int) ([]Match, error)
}

// Chunk is a bounded span of a document's content with its embedding
// and 0-based position within the document.
type Chunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Ordinal    int       `json:"ordinal"`
	Content    string    `json:"content"`
	Embedding  []float32 `json:"embedding,omitempty"`
}

type Match struct {
	Chunk
	Similarity float32 `json:"similarity"`
}
