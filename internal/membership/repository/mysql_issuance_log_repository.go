package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/allisson/membertoken/internal/database"
	apperrors "github.com/allisson/membertoken/internal/errors"
	membershipDomain "github.com/allisson/membertoken/internal/membership/domain"
)

// MySQLIssuanceLogRepository implements IssuanceLog persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLIssuanceLogRepository struct {
	db *sql.DB
}

// Create inserts a new IssuanceLog, storing its id as BINARY(16).
func (m *MySQLIssuanceLogRepository) Create(
	ctx context.Context,
	issuanceLog *membershipDomain.IssuanceLog,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := issuanceLog.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal issuance log id")
	}

	query := `INSERT INTO issuance_logs (id, user_id, token_hash, issued_at) VALUES (?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
// UUIDs are stored as BINARY(16) and must be unmarshaled.
func (m *MySQLIssuanceLogRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*membershipDomain.IssuanceLog, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, user_id, token_hash, issued_at 
			  FROM issuance_logs 
			  ORDER BY issued_at DESC, id DESC 
			  LIMIT ? OFFSET ?`

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
		var idBinary []byte

		err := rows.Scan(
			&idBinary,
			&issuanceLog.UserID,
			&issuanceLog.TokenHash,
			&issuanceLog.IssuedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan issuance log")
		}

		if err := issuanceLog.ID.UnmarshalBinary(idBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal issuance log id")
		}

		issuanceLogs = append(issuanceLogs, &issuanceLog)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate issuance logs")
	}

	return issuanceLogs, nil
}

// DeleteOlderThan deletes issuance logs issued before olderThan and returns the number deleted.
func (m *MySQLIssuanceLogRepository) DeleteOlderThan(ctx context.Context, olderThan time.Time) (int64, error) {
	if olderThan.IsZero() {
		return 0, apperrors.New("olderThan timestamp cannot be zero")
	}

	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM issuance_logs WHERE issued_at < ?`, olderThan)
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
func (m *MySQLIssuanceLogRepository) CountOlderThan(ctx context.Context, olderThan time.Time) (int64, error) {
	if olderThan.IsZero() {
		return 0, apperrors.New("olderThan timestamp cannot be zero")
	}

	querier := database.GetTx(ctx, m.db)

	var count int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM issuance_logs WHERE issued_at < ?`, olderThan).
		Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count issuance logs")
	}

	return count, nil
}

// NewMySQLIssuanceLogRepository creates a new MySQL IssuanceLog repository.
func NewMySQLIssuanceLogRepository(db *sql.DB) *MySQLIssuanceLogRepository {
	return &MySQLIssuanceLogRepository{db: db}
}
