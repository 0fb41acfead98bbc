package chromem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bloommama/bloomrag/vector"
)

func newTestCollection(t *testing.T) vector.Collection {
	t.Helper()

	vdb, err := NewChromemVectorDB(vector.Config{
		Persistent: false,
		Collection: "health_documents",
	})
	if err != nil {
		t.Fatal(err)
	}

	collection, err := vdb.Collection("health_documents")
	if err != nil {
		t.Fatal(err)
	}

	return collection
}

func addChunks(t *testing.T, collection vector.Collection, chunks []vector.Chunk) {
	t.Helper()

	ctx := context.Background()
	for _, chunk := range chunks {
		if err := collection.AddChunk(ctx, chunk); err != nil {
			t.Fatal(err)
		}
	}
}

func TestQueryEmbeddingRanksBySimilarity(t *testing.T) {
	assert := assert.New(t)

	collection := newTestCollection(t)
	addChunks(t, collection, []vector.Chunk{
		{ID: "a:0", DocumentID: "a", Ordinal: 0, Content: "rest and recovery", Embedding: []float32{1, 0, 0}},
		{ID: "a:1", DocumentID: "a", Ordinal: 1, Content: "sleep schedules", Embedding: []float32{0.8, 0.6, 0}},
		{ID: "b:0", DocumentID: "b", Ordinal: 0, Content: "feeding basics", Embedding: []float32{0, 1, 0}},
	})

	matches, err := collection.QueryEmbedding(context.Background(), []float32{1, 0, 0}, 3)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	if !assert.Len(matches, 3) {
		return
	}

	assert.Equal("a:0", matches[0].ID)
	assert.Equal("a:1", matches[1].ID)
	assert.Equal("b:0", matches[2].ID)

	assert.InDelta(1.0, matches[0].Similarity, 0.001)
	assert.InDelta(0.8, matches[1].Similarity, 0.001)
	assert.InDelta(0.0, matches[2].Similarity, 0.001)

	assert.Equal("a", matches[0].DocumentID)
	assert.Equal(0, matches[0].Ordinal)
	assert.Equal(1, matches[1].Ordinal)
	assert.Equal("rest and recovery", matches[0].Content)
}

func TestQueryEmbeddingClampsK(t *testing.T) {
	assert := assert.New(t)

	collection := newTestCollection(t)
	addChunks(t, collection, []vector.Chunk{
		{ID: "a:0", DocumentID: "a", Ordinal: 0, Content: "rest", Embedding: []float32{1, 0, 0}},
	})

	matches, err := collection.QueryEmbedding(context.Background(), []float32{1, 0, 0}, 5)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Len(matches, 1)
}

func TestQueryEmbeddingEmptyCollection(t *testing.T) {
	assert := assert.New(t)

	collection := newTestCollection(t)

	matches, err := collection.QueryEmbedding(context.Background(), []float32{1, 0, 0}, 5)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Empty(matches)
}

func TestDeleteChunksByDocument(t *testing.T) {
	assert := assert.New(t)

	collection := newTestCollection(t)
	addChunks(t, collection, []vector.Chunk{
		{ID: "a:0", DocumentID: "a", Ordinal: 0, Content: "rest", Embedding: []float32{1, 0, 0}},
		{ID: "a:1", DocumentID: "a", Ordinal: 1, Content: "sleep", Embedding: []float32{0, 1, 0}},
		{ID: "b:0", DocumentID: "b", Ordinal: 0, Content: "feeding", Embedding: []float32{0, 0, 1}},
	})

	if err := collection.DeleteChunks(context.Background(), "a"); err != nil {
		assert.Fail(err.Error())
		return
	}

	matches, err := collection.QueryEmbedding(context.Background(), []float32{0, 0, 1}, 5)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	if !assert.Len(matches, 1) {
		return
	}

	assert.Equal("b:0", matches[0].ID)
}

func TestDeleteChunksEmptyCollection(t *testing.T) {
	assert := assert.New(t)

	collection := newTestCollection(t)

	assert.NoError(collection.DeleteChunks(context.Background(), "a"))
}
