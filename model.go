package bloomrag

import (
	"errors"

	"github.com/bloommama/bloomrag/ai"
	"github.com/bloommama/bloomrag/chunk"
	"github.com/bloommama/bloomrag/scrape"
	"github.com/bloommama/bloomrag/store"
	"github.com/bloommama/bloomrag/vector"
)

var (
	ErrURLRequired      = errors.New("url is required")
	ErrQuestionRequired = errors.New("question is required")
	ErrDocumentNotFound = store.ErrDocumentNotFound
)

const (
	DefaultTopK      = 5
	DefaultThreshold = 0.5

	// ContextDelimiter separates retrieved chunks in the grounding
	// context handed to the chat completion.
	ContextDelimiter = "\n\n---\n\n"
)

type Config struct {
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	AI        ai.Config       `yaml:"ai"`
	Scrape    scrape.Config   `yaml:"scrape"`
	Store     store.Config    `yaml:"store"`
	Vector    vector.Config   `yaml:"vector"`
}

type ChunkingConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

type RetrievalConfig struct {
	TopK      int     `yaml:"topK"`
	Threshold float32 `yaml:"threshold"`
}

// ApplyDefaults fills unset fields with the fixed pipeline constants.
func (cfg *Config) ApplyDefaults() {
	if cfg.Chunking.Size <= 0 {
		cfg.Chunking.Size = chunk.DefaultSize
	}
	if cfg.Chunking.Overlap <= 0 {
		cfg.Chunking.Overlap = chunk.DefaultOverlap
	}
	if cfg.Retrieval.TopK <= 0 {
		cfg.Retrieval.TopK = DefaultTopK
	}
	if cfg.Retrieval.Threshold <= 0 {
		cfg.Retrieval.Threshold = DefaultThreshold
	}
	if cfg.Vector.Collection == "" {
		cfg.Vector.Collection = "health_documents"
	}
}

// IngestResult is the observable outcome of one ingestion request.
// ChunksCreated counts the chunks actually embedded and stored, which
// may be lower than the number of windows produced when individual
// chunks fail.
type IngestResult struct {
	DocumentID    string
	Title         string
	ChunksCreated int
}

// AnswerResult carries the generated answer, the titles of the source
// documents backing it (first-seen order, deduplicated), and whether
// retrieved context grounded the generation.
type AnswerResult struct {
	Answer     string
	Sources    []string
	HasContext bool
}
