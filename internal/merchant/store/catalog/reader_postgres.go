// Package catalog reads the external merchant catalog. The catalog is an
// external source of truth; this service never writes to it.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"guesense/internal/merchant/models"
	id "guesense/pkg/domain"
	"guesense/pkg/pagination"
	"guesense/pkg/platform/sentinel"
)

// PostgresReader queries the merchants table through a pgx pool.
type PostgresReader struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a catalog reader over the given pool.
func NewPostgres(pool *pgxpool.Pool) *PostgresReader {
	return &PostgresReader{pool: pool}
}

// ListAvailable returns active catalog merchants with no active registry
// entry, optionally filtered by a substring match on name or code. The
// exclusion joins merchant_group_members, so the pool behind this reader
// must see the registry tables: the same database as the stores, or a
// read replica of it.
func (r *PostgresReader) ListAvailable(ctx context.Context, filter pagination.Filter) ([]models.Merchant, error) {
	query := `
		SELECT m.id, m.name, m.goapotik_merchant_code, m.status
		FROM merchants m
		LEFT JOIN merchant_group_members mgm ON m.id = mgm.merchant_id AND mgm.status = 1
		WHERE m.status = 1 AND mgm.merchant_id IS NULL
	`
	args := []any{}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (m.name ILIKE $%d OR m.goapotik_merchant_code ILIKE $%d)", len(args), len(args))
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY m.name ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list available merchants: %w", err)
	}
	defer rows.Close()

	merchants := make([]models.Merchant, 0, filter.Limit)
	for rows.Next() {
		m, err := scanMerchant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan available merchant: %w", err)
		}
		merchants = append(merchants, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list available merchants: %w", err)
	}
	return merchants, nil
}

// FindByID returns one catalog merchant regardless of registration state.
func (r *PostgresReader) FindByID(ctx context.Context, merchantID id.MerchantID) (*models.Merchant, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, goapotik_merchant_code, status FROM merchants WHERE id = $1`,
		int64(merchantID),
	)
	m, err := scanMerchant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("merchant %d: %w", merchantID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find catalog merchant: %w", err)
	}
	return &m, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMerchant(row rowScanner) (models.Merchant, error) {
	var (
		m      models.Merchant
		status int
	)
	if err := row.Scan(&m.ID, &m.Name, &m.Code, &status); err != nil {
		return models.Merchant{}, err
	}
	m.Active = status == 1
	return m, nil
}
