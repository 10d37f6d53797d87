// Package repository implements issuance log persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/allisson/membertoken/internal/database"
	apperrors "github.com/allisson/membertoken/internal/errors"
	membershipDomain "github.com/allisson/membertoken/internal/membership/domain"
)

// PostgreSQLIssuanceLogRepository implements IssuanceLog persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLIssuanceLogRepository struct {
	db *sql.DB
}

// Create inserts a new IssuanceLog.
func (p *PostgreSQLIssuanceLogRepository) Create(
	ctx context.Context,
	issuanceLog *membershipDomain.IssuanceLog,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO issuance_logs (id, user_id, token_hash, issued_at) VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(
		ctx,
		query,
		issuanceLog.ID,
		issuanceLog.UserID,
		issuanceLog.TokenHash,
		issuanceLog.IssuedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create issuance log")
	}

	return nil
}

// List retrieves issuance logs ordered by issued_at descending (newest first) with pagination.
// Returns an empty slice if no issuance logs are found.
func (p *PostgreSQLIssuanceLogRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*membershipDomain.IssuanceLog, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, token_hash, issued_at 
			  FROM issuance_logs 
			  ORDER BY issued_at DESC, id DESC 
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list issuance logs")
	}
	defer func() {
		_ = rows.Close()
	}()

	issuanceLogs := make([]*membershipDomain.IssuanceLog, 0)
	for rows.Next() {
		var issuanceLog membershipDomain.IssuanceLog

		err := rows.Scan(
			&issuanceLog.ID,
			&issuanceLog.UserID,
			&issuanceLog.TokenHash,
			&issuanceLog.IssuedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan issuance log")
		}

		issuanceLogs = append(issuanceLogs, &issuanceLog)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate issuance logs")
	}

	return issuanceLogs, nil
}

// DeleteOlderThan deletes issuance logs issued before olderThan and returns the number deleted.
func (p *PostgreSQLIssuanceLogRepository) DeleteOlderThan(ctx context.Context, olderThan time.Time) (int64, error) {
	if olderThan.IsZero() {
		return 0, apperrors.New("olderThan timestamp cannot be zero")
	}

	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM issuance_logs WHERE issued_at < $1`, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete issuance logs")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}

	return rowsAffected, nil
}

// CountOlderThan counts issuance logs issued before olderThan without deleting them.
func (p *PostgreSQLIssuanceLogRepository) CountOlderThan(ctx context.Context, olderThan time.Time) (int64, error) {
	if olderThan.IsZero() {
		return 0, apperrors.New("olderThan timestamp cannot be zero")
	}

	querier := database.GetTx(ctx, p.db)

	var count int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM issuance_logs WHERE issued_at < $1`, olderThan).
		Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count issuance logs")
	}

	return count, nil
}

// NewPostgreSQLIssuanceLogRepository creates a new PostgreSQL IssuanceLog repository.
func NewPostgreSQLIssuanceLogRepository(db *sql.DB) *PostgreSQLIssuanceLogRepository {
	return &PostgreSQLIssuanceLogRepository{db: db}
}
