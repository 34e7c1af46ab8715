// Package store persists chunk embeddings in a chromem-go collection on
// local disk and serves nearest-neighbor queries over them.
package store

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/cloo-solutions/resumechat/internal/domain"
)

// ChromemIndex is a single-collection vector index. Rebuild drops and
// recreates the collection, so the index only ever reflects the latest
// upload. The collection is loaded lazily on first query, which lets a
// restarted process serve an index built by a previous run.
type ChromemIndex struct {
	mu         sync.RWMutex
	db         *chromem.DB
	collection *chromem.Collection
	path       string
	name       string
	inMemory   bool
	embed      chromem.EmbeddingFunc
}

// NewChromemIndex opens or creates a persistent index rooted at path.
func NewChromemIndex(path, name string, embed chromem.EmbeddingFunc) *ChromemIndex {
	return &ChromemIndex{path: path, name: name, embed: embed}
}

// NewInMemoryIndex creates an index that lives only for the process. Used
// in tests and for ephemeral runs.
func NewInMemoryIndex(name string, embed chromem.EmbeddingFunc) *ChromemIndex {
	return &ChromemIndex{name: name, inMemory: true, embed: embed}
}

func (x *ChromemIndex) ensureDB() (*chromem.DB, error) {
	if x.db != nil {
		return x.db, nil
	}
	if x.inMemory {
		x.db = chromem.NewDB()
		return x.db, nil
	}
	db, err := chromem.NewPersistentDB(x.path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store at %s: %w", x.path, err)
	}
	x.db = db
	return x.db, nil
}

// Rebuild replaces the collection with the given chunks. Chunks arrive with
// embeddings already attached; the collection's embedding func is only used
// for query-time embedding.
func (x *ChromemIndex) Rebuild(ctx context.Context, chunks []domain.Chunk) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	db, err := x.ensureDB()
	if err != nil {
		return err
	}

	if err := db.DeleteCollection(x.name); err != nil {
		return fmt.Errorf("failed to drop collection %s: %w", x.name, err)
	}
	collection, err := db.GetOrCreateCollection(x.name, nil, x.embed)
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", x.name, err)
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for _, c := range chunks {
		docs = append(docs, chromem.Document{
			ID:        c.ID,
			Content:   c.Content,
			Embedding: c.Embedding,
			Metadata: map[string]string{
				"document_id": c.DocumentID,
				"ordinal":     strconv.Itoa(c.Ordinal),
				"page":        strconv.Itoa(c.Page),
			},
		})
	}
	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}

	x.collection = collection
	return nil
}

// Query embeds the text and returns up to k nearest chunks, best first.
// Returns domain.ErrIndexMissing when no index has been built yet.
func (x *ChromemIndex) Query(ctx context.Context, text string, k int) ([]domain.Retrieved, error) {
	collection, err := x.loadCollection()
	if err != nil {
		return nil, err
	}

	count := collection.Count()
	if count == 0 {
		return nil, domain.ErrIndexMissing
	}
	if k > count {
		k = count
	}
	if k <= 0 {
		k = 1
	}

	results, err := collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryText: text,
		NResults:  k,
	})
	if err != nil {
		return nil, fmt.Errorf("vector query failed: %w", err)
	}

	retrieved := make([]domain.Retrieved, 0, len(results))
	for _, r := range results {
		ordinal, _ := strconv.Atoi(r.Metadata["ordinal"])
		page, _ := strconv.Atoi(r.Metadata["page"])
		retrieved = append(retrieved, domain.Retrieved{
			Chunk: domain.Chunk{
				ID:         r.ID,
				DocumentID: r.Metadata["document_id"],
				Ordinal:    ordinal,
				Page:       page,
				Content:    r.Content,
			},
			Similarity: r.Similarity,
		})
	}

	// The underlying store iterates a map, so equally similar chunks come
	// back in arbitrary order. Break ties by original chunk order.
	sort.SliceStable(retrieved, func(i, j int) bool {
		if retrieved[i].Similarity != retrieved[j].Similarity {
			return retrieved[i].Similarity > retrieved[j].Similarity
		}
		return retrieved[i].Chunk.Ordinal < retrieved[j].Chunk.Ordinal
	})

	return retrieved, nil
}

// loadCollection returns the live collection, attaching to one persisted by
// an earlier run if present.
func (x *ChromemIndex) loadCollection() (*chromem.Collection, error) {
	x.mu.RLock()
	if x.collection != nil {
		defer x.mu.RUnlock()
		return x.collection, nil
	}
	x.mu.RUnlock()

	x.mu.Lock()
	defer x.mu.Unlock()
	if x.collection != nil {
		return x.collection, nil
	}

	db, err := x.ensureDB()
	if err != nil {
		return nil, err
	}
	collection := db.GetCollection(x.name, x.embed)
	if collection == nil {
		return nil, domain.ErrIndexMissing
	}
	x.collection = collection
	return collection, nil
}
