package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/mimir-ai/pdfchat/internal/model"
)

// PgRegistry stores chunk embeddings in Postgres with the pgvector
// extension. Rows carry a user_id so each user's document lives in its
// own slice of the table.
type PgRegistry struct {
	db *sql.DB
}

func NewPgRegistry(conn string, dim int) (*PgRegistry, error) {
	db, err := sql.Open("postgres", conn)
	if err != nil {
		return nil, err
	}
	if err := ensureSchema(db, dim); err != nil {
		return nil, err
	}
	return &PgRegistry{db: db}, nil
}

// NewPgRegistryWithDB wraps an existing connection without touching the
// schema. Used by tests.
func NewPgRegistryWithDB(db *sql.DB) *PgRegistry {
	return &PgRegistry{db: db}
}

// Replace swaps the user's chunks in one transaction: delete everything
// they had, insert the new document.
func (s *PgRegistry) Replace(ctx context.Context, userID int, chunks []model.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE user_id = $1`, userID); err != nil {
		return err
	}
	for i, c := range chunks {
		vec := floatsToPgVectorLiteral(vectors[i])
		_, err := tx.ExecContext(ctx, `
			INSERT INTO chunks (user_id, chunk_id, text, embedding)
			VALUES ($1, $2, $3, $4::vector)
		`, userID, c.ID, c.Text, vec)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *PgRegistry) Search(ctx context.Context, userID int, vector []float32, topK int) ([]model.Chunk, error) {
	vec := floatsToPgVectorLiteral(vector)
	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk_id, text
		FROM chunks
		WHERE user_id = $1
		ORDER BY embedding <-> $2::vector
		LIMIT $3
	`, userID, vec, topK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []model.Chunk
	for rows.Next() {
		var c model.Chunk
		if err := rows.Scan(&c.ID, &c.Text); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (s *PgRegistry) Has(ctx context.Context, userID int) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM chunks WHERE user_id = $1)`, userID,
	).Scan(&exists)
	return exists, err
}

func floatsToPgVectorLiteral(v []float32) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, f := range v {
		sb.WriteString(fmt.Sprintf("%.6f", float64(f)))
		if i < len(v)-1 {
			sb.WriteString(",")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
