package store

import (
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"time"
)

// VectorCache is a SQLite-backed embedding cache keyed by input text and
// model. It satisfies the embedding package's Cache interface; database/sql
// serializes access, so it is safe for the ranker's worker pool.
type VectorCache struct {
	db *DB
}

// NewVectorCache creates a cache over an open database.
func NewVectorCache(db *DB) *VectorCache {
	return &VectorCache{db: db}
}

// Get returns the cached vector for (text, model), if any.
func (v *VectorCache) Get(text, model string) ([]float32, bool) {
	var blob []byte
	var dimension int

	query := "SELECT vector, dimension FROM embeddings WHERE text_hash = ? AND model = ?"
	err := v.db.sqlDB.QueryRow(query, hashText(text), model).Scan(&blob, &dimension)
	if err != nil {
		return nil, false
	}

	vector, err := blobToVector(blob)
	if err != nil || len(vector) != dimension {
		return nil, false
	}

	return vector, true
}

// Put stores a vector for (text, model), replacing any previous entry.
func (v *VectorCache) Put(text, model string, vector []float32) error {
	if len(vector) == 0 {
		return fmt.Errorf("cannot cache empty vector")
	}

	blob, err := vectorToBlob(vector)
	if err != nil {
		return fmt.Errorf("failed to convert vector to blob: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO embeddings (text_hash, model, vector, dimension, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err = v.db.sqlDB.Exec(query, hashText(text), model, blob, len(vector),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert vector: %w", err)
	}

	return nil
}

// Purge removes cache entries older than the cutoff. Returns the number
// of rows deleted.
func (v *VectorCache) Purge(olderThan time.Time) (int64, error) {
	res, err := v.db.sqlDB.Exec(
		"DELETE FROM embeddings WHERE created_at < ?",
		olderThan.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func hashText(text string) string {
	sum := sha1.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

// vectorToBlob encodes a float32 vector as little-endian bytes.
func vectorToBlob(vector []float32) ([]byte, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("empty vector")
	}

	blob := make([]byte, len(vector)*4)
	for i, f := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(f))
	}
	return blob, nil
}

// blobToVector decodes little-endian bytes back into a float32 vector.
func blobToVector(blob []byte) ([]float32, error) {
	if len(blob) == 0 || len(blob)%4 != 0 {
		return nil, fmt.Errorf("invalid vector blob length: %d", len(blob))
	}

	vector := make([]float32, len(blob)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vector, nil
}
