package postgres

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// ClassifyError labels a remote failure for logs: not_found, timeout, network,
// auth, constraint or query.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}
	if IsPgNoRowsError(err) {
		return "not_found"
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "timeout"
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return "network"
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		// 28xxx = invalid_authorization_specification, 42501 = insufficient_privilege
		case strings.HasPrefix(pgErr.Code, "28"), pgErr.Code == "42501":
			return "auth"
		// 23xxx = integrity constraint violation, 22xxx = data exception
		case strings.HasPrefix(pgErr.Code, "23"), strings.HasPrefix(pgErr.Code, "22"):
			return "constraint"
		// 08xxx = connection exception
		case strings.HasPrefix(pgErr.Code, "08"):
			return "network"
		}
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return "network"
	}

	return "query"
}
