package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the documents table and its indexes if they don't exist.
// Dates are nullable: records saved without an issue or expiry date store NULL.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	createDocuments := `
		CREATE TABLE IF NOT EXISTS ` + tables.Documents + ` (
			id TEXT PRIMARY KEY,
			tipo TEXT NOT NULL,
			dados_cliente JSONB NOT NULL DEFAULT '{}'::jsonb,
			conteudo JSONB NOT NULL DEFAULT '{}'::jsonb,
			valor_total NUMERIC(14, 2) NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'rascunho',
			data_emissao DATE,
			data_validade DATE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createDocuments); err != nil {
		return fmt.Errorf("create %s: %w", tables.Documents, err)
	}

	index := indexName(tables.Documents, "created_at")
	createIndex := `CREATE INDEX IF NOT EXISTS ` + index + ` ON ` + tables.Documents + `(created_at DESC)`
	if _, err := pool.Exec(ctx, createIndex); err != nil {
		return fmt.Errorf("create index %s: %w", index, err)
	}

	return nil
}

// DropSchema drops the documents table
func DropSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+tables.Documents+" CASCADE"); err != nil {
		return fmt.Errorf("drop %s: %w", tables.Documents, err)
	}
	return nil
}

// ClearDocuments deletes every row and keeps the table
func ClearDocuments(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) (int64, error) {
	tag, err := pool.Exec(ctx, "DELETE FROM "+tables.Documents)
	if err != nil {
		return 0, fmt.Errorf("clear %s: %w", tables.Documents, err)
	}
	return tag.RowsAffected(), nil
}

func indexName(table, column string) string {
	return "idx_" + strings.ReplaceAll(table, ".", "_") + "_" + column
}
