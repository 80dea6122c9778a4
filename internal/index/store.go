package index

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// The index persists as a single sqlite file inside the index directory.
// Directory presence is the build marker; the manifest row records which
// embedding model the vectors belong to.
const indexFileName = "index.db"

const storeSchema = `
CREATE TABLE IF NOT EXISTS index_manifest (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	embedding_model TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS chunks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	repo_name TEXT NOT NULL,
	content TEXT NOT NULL,
	embedding BLOB NOT NULL
);
`

type chunkRecord struct {
	RepoName  string
	Content   string
	Embedding []float32
}

type store struct {
	db *sql.DB
}

func openStore(dir string) (*store, error) {
	db, err := sql.Open("sqlite", filepath.Join(dir, indexFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}

	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index schema: %w", err)
	}

	return &store{db: db}, nil
}

func (s *store) Close() error {
	return s.db.Close()
}

func (s *store) WriteManifest(embeddingModel string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO index_manifest (id, embedding_model, created_at) VALUES (1, ?, ?)`,
		embeddingModel, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to write index manifest: %w", err)
	}
	return nil
}

func (s *store) ReadManifestModel() (string, error) {
	var model string
	err := s.db.QueryRow(`SELECT embedding_model FROM index_manifest WHERE id = 1`).Scan(&model)
	if err != nil {
		return "", fmt.Errorf("failed to read index manifest: %w", err)
	}
	return model, nil
}

func (s *store) InsertChunk(rec chunkRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO chunks (repo_name, content, embedding) VALUES (?, ?, ?)`,
		rec.RepoName, rec.Content, encodeEmbedding(rec.Embedding),
	)
	if err != nil {
		return fmt.Errorf("failed to insert chunk: %w", err)
	}
	return nil
}

func (s *store) LoadChunks() ([]chunkRecord, error) {
	rows, err := s.db.Query(`SELECT repo_name, content, embedding FROM chunks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}
	defer rows.Close()

	var records []chunkRecord
	for rows.Next() {
		var rec chunkRecord
		var blob []byte
		if err := rows.Scan(&rec.RepoName, &rec.Content, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		rec.Embedding = decodeEmbedding(blob)
		records = append(records, rec)
	}

	return records, rows.Err()
}

func encodeEmbedding(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeEmbedding(buf []byte) []float32 {
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec
}
