// Package index builds and queries the semantic index over project
// documentation. The index is a local cache: built once into a fixed
// directory, reloaded on later runs, and rebuilt only if absent.
package index

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"sort"
	"sync"

	"github.com/abdullah-khaled0/voice-secretary/internal/domain"
)

// PlaceholderChunk is indexed when no document can be fetched, so queries
// never fail against an empty index.
const PlaceholderChunk = "No GitHub READMEs available"

// Embedder produces embedding vectors and identifies the model doing so.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	EmbeddingModel() string
}

// DocumentFetcher retrieves one document per repository identifier.
type DocumentFetcher interface {
	FetchReadme(ctx context.Context, repoName string) (*domain.Document, error)
}

// Result is one retrieved chunk, ordered by descending similarity.
type Result struct {
	Content  string
	RepoName string
	Score    float32
}

// SemanticIndex is safe for concurrent queries once built; building itself is
// serialized with an in-process mutex.
type SemanticIndex struct {
	dir      string
	embedder Embedder
	fetcher  DocumentFetcher
	chunkCfg ChunkConfig

	mu     sync.Mutex
	chunks []chunkRecord
	loaded bool
}

// New creates a SemanticIndex persisted under dir.
func New(dir string, embedder Embedder, fetcher DocumentFetcher) *SemanticIndex {
	return &SemanticIndex{
		dir:      dir,
		embedder: embedder,
		fetcher:  fetcher,
		chunkCfg: DefaultChunkConfig(),
	}
}

// EnsureBuilt loads the persisted index if present, otherwise fetches, chunks,
// embeds, and persists the given repositories. Fetch failures are logged and
// skipped; an entirely failed fetch pass degrades to a placeholder chunk.
func (s *SemanticIndex) EnsureBuilt(ctx context.Context, repos []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return nil
	}

	if _, err := os.Stat(s.dir); err == nil {
		return s.load()
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat index directory: %w", err)
	}

	return s.build(ctx, repos)
}

// Rebuild replaces the persisted index with a freshly built one. The old
// index keeps serving until the replacement is fully assembled, so a failed
// rebuild leaves queries untouched.
func (s *SemanticIndex) Rebuild(ctx context.Context, repos []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, docCount, err := s.assemble(ctx, repos)
	if err != nil {
		return err
	}

	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("failed to remove index directory: %w", err)
	}
	if err := s.persist(records); err != nil {
		// Presence means built: leave no partial directory, but keep the old
		// in-memory index serving.
		os.RemoveAll(s.dir)
		return err
	}

	s.chunks = records
	s.loaded = true
	log.Printf("semantic index rebuilt (%d chunks from %d documents)", len(records), docCount)
	return nil
}

// Query returns the top-k chunks by cosine similarity, descending. Ties keep
// index order. Never errors for a non-empty index unless embedding the query
// itself fails.
func (s *SemanticIndex) Query(ctx context.Context, text string, k int) ([]Result, error) {
	s.mu.Lock()
	chunks := s.chunks
	loaded := s.loaded
	s.mu.Unlock()

	if !loaded {
		return nil, domain.ErrIndexNotBuilt
	}
	if k <= 0 {
		return []Result{}, nil
	}

	queryVec, err := s.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeContext, "failed to embed query", err)
	}

	results := make([]Result, 0, len(chunks))
	for _, rec := range chunks {
		results = append(results, Result{
			Content:  rec.Content,
			RepoName: rec.RepoName,
			Score:    cosineSimilarity(queryVec, rec.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (s *SemanticIndex) load() error {
	st, err := openStore(s.dir)
	if err != nil {
		return err
	}
	defer st.Close()

	model, err := st.ReadManifestModel()
	if err != nil {
		return fmt.Errorf("persisted index is unreadable: %w", err)
	}
	if model != s.embedder.EmbeddingModel() {
		return fmt.Errorf("%w: index has %q, configured %q",
			domain.ErrIndexModelMismatch, model, s.embedder.EmbeddingModel())
	}

	chunks, err := st.LoadChunks()
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return errors.New("persisted index contains no chunks")
	}

	s.chunks = chunks
	s.loaded = true
	log.Printf("semantic index loaded from %s (%d chunks)", s.dir, len(chunks))
	return nil
}

func (s *SemanticIndex) build(ctx context.Context, repos []string) error {
	records, docCount, err := s.assemble(ctx, repos)
	if err != nil {
		return err
	}

	if err := s.persist(records); err != nil {
		// Leave no partial directory behind: presence means built.
		os.RemoveAll(s.dir)
		return err
	}

	s.chunks = records
	s.loaded = true
	log.Printf("semantic index built (%d chunks from %d documents)", len(records), docCount)
	return nil
}

// assemble fetches, chunks, and embeds without touching index state, so
// callers can swap the result in atomically.
func (s *SemanticIndex) assemble(ctx context.Context, repos []string) ([]chunkRecord, int, error) {
	log.Printf("building semantic index in %s from %d repositories", s.dir, len(repos))

	var docs []*domain.Document
	for _, repo := range repos {
		doc, err := s.fetcher.FetchReadme(ctx, repo)
		if err != nil {
			log.Printf("skipping repository %s: %v", repo, err)
			continue
		}
		docs = append(docs, doc)
	}

	var records []chunkRecord
	if len(docs) == 0 {
		log.Printf("no documents fetched, indexing placeholder chunk")
		records = append(records, chunkRecord{RepoName: "", Content: PlaceholderChunk})
	} else {
		for _, doc := range docs {
			for _, chunk := range chunkText(doc.Content, s.chunkCfg) {
				records = append(records, chunkRecord{RepoName: doc.RepoName, Content: chunk})
			}
		}
	}

	for i := range records {
		vec, err := s.embedder.GenerateEmbedding(ctx, records[i].Content)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to embed chunk for %q: %w", records[i].RepoName, err)
		}
		records[i].Embedding = vec
	}

	return records, len(docs), nil
}

func (s *SemanticIndex) persist(records []chunkRecord) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	st, err := openStore(s.dir)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.WriteManifest(s.embedder.EmbeddingModel()); err != nil {
		return err
	}
	for _, rec := range records {
		if err := st.InsertChunk(rec); err != nil {
			return err
		}
	}
	return nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
