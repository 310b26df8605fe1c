package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"no rows", fmt.Errorf("get: %w", pgx.ErrNoRows), "not_found"},
		{"deadline", context.DeadlineExceeded, "timeout"},
		{"auth", &pgconn.PgError{Code: "28P01"}, "auth"},
		{"privilege", &pgconn.PgError{Code: "42501"}, "auth"},
		{"constraint", &pgconn.PgError{Code: "23505"}, "constraint"},
		{"bad date", &pgconn.PgError{Code: "22007"}, "constraint"},
		{"connection", &pgconn.PgError{Code: "08006"}, "network"},
		{"syntax", &pgconn.PgError{Code: "42601"}, "query"},
		{"other", errors.New("boom"), "query"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestNewTableNames(t *testing.T) {
	assert.Equal(t, "documentos", NewTableNames("").Documents)
	assert.Equal(t, "dev_documentos", NewTableNames("dev_").Documents)
	assert.Equal(t, "idx_dev_documentos_created_at", indexName("dev_documentos", "created_at"))
}
