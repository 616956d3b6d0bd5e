package store

import (
	"database/sql"
	"fmt"
)

// ensureSchema creates the pgvector extension, the chunks table and the
// similarity index. dim must match the embedding model's output size.
func ensureSchema(db *sql.DB, dim int) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chunks (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL,
			chunk_id TEXT,
			text TEXT,
			embedding vector(%d)
		)`, dim),
		`CREATE INDEX IF NOT EXISTS chunks_user_id_idx ON chunks (user_id)`,
		`DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_class c
				JOIN pg_namespace n ON n.oid=c.relnamespace
				WHERE c.relname='chunks_embedding_ivfflat_idx'
			) THEN
				EXECUTE 'CREATE INDEX chunks_embedding_ivfflat_idx ON chunks USING ivfflat (embedding vector_cosine_ops) WITH (lists=100)';
			END IF;
		END $$;`,
	}

	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}

	// ANALYZE so ivfflat picks sane plans
	_, _ = db.Exec(`ANALYZE chunks`)
	return nil
}
