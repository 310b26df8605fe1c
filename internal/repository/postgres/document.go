package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"quotebuilder/internal/domain"
	"quotebuilder/internal/domain/models"
	"quotebuilder/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
)

const documentColumns = `id, tipo, dados_cliente, conteudo, valor_total, status,
	COALESCE(data_emissao::text, ''), COALESCE(data_validade::text, ''), created_at, updated_at`

// DocumentRepository stores document records in the remote Postgres table
type DocumentRepository struct {
	db     repositories.DBTX
	tables *TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) *DocumentRepository {
	return &DocumentRepository{
		db:     config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// NewDocumentRepositoryWithExecutor builds a repository over any DBTX (a pgx.Tx, a test double)
func NewDocumentRepositoryWithExecutor(db repositories.DBTX, tables *TableNames, logger *slog.Logger) *DocumentRepository {
	return &DocumentRepository{db: db, tables: tables, logger: logger}
}

// Save upserts the record by ID. created_at is only written on insert, from
// rec.CreatedAt when set so drafts first saved locally keep their age.
func (r *DocumentRepository) Save(ctx context.Context, rec *models.Record) (*models.Record, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, tipo, dados_cliente, conteudo, valor_total, status, data_emissao, data_validade, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, $4::jsonb, $5, $6, NULLIF($7::text, '')::date, NULLIF($8::text, '')::date, COALESCE($9::timestamptz, now()), now())
		ON CONFLICT (id) DO UPDATE SET
			tipo = EXCLUDED.tipo,
			dados_cliente = EXCLUDED.dados_cliente,
			conteudo = EXCLUDED.conteudo,
			valor_total = EXCLUDED.valor_total,
			status = EXCLUDED.status,
			data_emissao = EXCLUDED.data_emissao,
			data_validade = EXCLUDED.data_validade,
			updated_at = now()
		RETURNING %s
	`, r.tables.Documents, documentColumns)

	saved, err := scanRecord(r.db.QueryRow(ctx, query,
		rec.ID,
		rec.Type,
		rec.Client,
		rec.Content,
		rec.Total,
		rec.Status,
		rec.IssueDate,
		rec.Expiry(),
		createdAt(rec),
	))
	if err != nil {
		r.logger.Debug("remote upsert failed", "id", rec.ID, "class", ClassifyError(err))
		return nil, fmt.Errorf("upsert document %s: %w", rec.ID, err)
	}

	return saved, nil
}

// createdAt is nil for records that have never been stored
func createdAt(rec *models.Record) *time.Time {
	if rec.CreatedAt.IsZero() {
		return nil
	}
	t := rec.CreatedAt
	return &t
}

// GetByID retrieves a document by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, documentColumns, r.tables.Documents)

	rec, err := scanRecord(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return rec, nil
}

// GetAll lists every document, most recently created first
func (r *DocumentRepository) GetAll(ctx context.Context) ([]models.Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at DESC`, documentColumns, r.tables.Documents)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	records := []models.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return records, nil
}

// Delete removes a document. Zero affected rows is not an error.
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Documents)

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	r.logger.Debug("remote delete", "id", id, "rows", tag.RowsAffected())
	return nil
}

func scanRecord(row pgx.Row) (*models.Record, error) {
	var rec models.Record
	err := row.Scan(
		&rec.ID,
		&rec.Type,
		&rec.Client,
		&rec.Content,
		&rec.Total,
		&rec.Status,
		&rec.IssueDate,
		&rec.ExpiryDate,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
