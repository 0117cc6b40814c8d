package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"guesense/internal/merchant/models"
	id "guesense/pkg/domain"
	"guesense/pkg/pagination"
	"guesense/pkg/platform/sentinel"
	"guesense/pkg/requestcontext"
)

// uniqueViolation is the Postgres error code the partial unique indexes
// raise on a duplicate active registration or membership.
const uniqueViolation = "23505"

// PostgresStore persists registry entries in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed registry store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts a registry entry and fills in its generated ID. A second
// active entry for the same merchant is rejected with sentinel.ErrConflict
// by the partial unique index, which also backstops concurrent callers.
func (s *PostgresStore) Create(ctx context.Context, entry *models.RegistryEntry) error {
	if entry == nil {
		return fmt.Errorf("registry entry is required")
	}
	query := `
		INSERT INTO merchant_group_members (group_id, merchant_id, merchant_code, is_merchant_source, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		nullGroupID(entry.GroupID),
		int64(entry.MerchantID),
		entry.MerchantCode,
		entry.IsSource,
		entry.Status.Int(),
		entry.CreatedAt,
		entry.UpdatedAt,
	).Scan(&entry.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("merchant %d already registered: %w", entry.MerchantID, sentinel.ErrConflict)
		}
		return fmt.Errorf("create registry entry: %w", err)
	}
	return nil
}

// FindByID returns the entry regardless of status; callers that only want
// active rows check Status themselves.
func (s *PostgresStore) FindByID(ctx context.Context, registryID id.RegistryID) (*models.RegistryEntry, error) {
	query := `
		SELECT id, group_id, merchant_id, merchant_code, is_merchant_source, status, created_at, updated_at
		FROM merchant_group_members
		WHERE id = $1
	`
	entry, err := scanEntry(s.db.QueryRowContext(ctx, query, int64(registryID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("registry entry %d: %w", registryID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find registry entry: %w", err)
	}
	return entry, nil
}

// FindActiveByMerchant returns the single active entry for a merchant,
// or sentinel.ErrNotFound when the merchant is not registered.
func (s *PostgresStore) FindActiveByMerchant(ctx context.Context, merchantID id.MerchantID) (*models.RegistryEntry, error) {
	query := `
		SELECT id, group_id, merchant_id, merchant_code, is_merchant_source, status, created_at, updated_at
		FROM merchant_group_members
		WHERE merchant_id = $1 AND status = 1
	`
	entry, err := scanEntry(s.db.QueryRowContext(ctx, query, int64(merchantID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("merchant %d: %w", merchantID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find active registration: %w", err)
	}
	return entry, nil
}

// Update applies the patch to an entry. Returns sentinel.ErrNotFound when
// the entry does not exist.
func (s *PostgresStore) Update(ctx context.Context, registryID id.RegistryID, patch models.RegistryPatch) error {
	sets := []string{"updated_at = $1"}
	args := []any{requestcontext.Now(ctx)}

	if patch.ClearGroup {
		sets = append(sets, "group_id = NULL", "is_merchant_source = FALSE")
	} else if patch.GroupID != nil {
		args = append(args, int64(*patch.GroupID))
		sets = append(sets, fmt.Sprintf("group_id = $%d", len(args)))
	}
	if patch.Status != nil {
		args = append(args, patch.Status.Int())
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
		if *patch.Status == models.RegistryStatusInactive {
			sets = append(sets, "is_merchant_source = FALSE")
		}
	}

	args = append(args, int64(registryID))
	query := fmt.Sprintf(
		"UPDATE merchant_group_members SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args),
	)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update registry entry %d: %w", registryID, sentinel.ErrConflict)
		}
		return fmt.Errorf("update registry entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update registry entry: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("registry entry %d: %w", registryID, sentinel.ErrNotFound)
	}
	return nil
}

// Delete hard-deletes an entry. Returns sentinel.ErrNotFound when no row
// exists; callers decide whether that is an error.
func (s *PostgresStore) Delete(ctx context.Context, registryID id.RegistryID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM merchant_group_members WHERE id = $1`, int64(registryID))
	if err != nil {
		return fmt.Errorf("delete registry entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete registry entry: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("registry entry %d: %w", registryID, sentinel.ErrNotFound)
	}
	return nil
}

// ListIndividual returns registered merchants with no group assignment,
// newest registration first, joined with their catalog fields.
func (s *PostgresStore) ListIndividual(ctx context.Context, filter pagination.Filter) ([]models.MerchantWithRegistry, error) {
	query := `
		SELECT m.id, m.name, m.goapotik_merchant_code, m.status,
		       mgm.id, mgm.is_merchant_source, mgm.status
		FROM merchant_group_members mgm
		INNER JOIN merchants m ON m.id = mgm.merchant_id
		WHERE mgm.group_id IS NULL
	`
	args := []any{}
	query, args = applyIndividualFilter(query, args, filter)

	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY mgm.id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list individual merchants: %w", err)
	}
	defer rows.Close()

	merchants := make([]models.MerchantWithRegistry, 0, filter.Limit)
	for rows.Next() {
		var (
			m              models.MerchantWithRegistry
			merchantStatus int
			registryStatus int
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Code, &merchantStatus, &m.RegistryID, &m.IsSource, &registryStatus); err != nil {
			return nil, fmt.Errorf("scan individual merchant: %w", err)
		}
		m.Active = merchantStatus == 1
		m.Status = models.RegistryStatusFromInt(registryStatus)
		merchants = append(merchants, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list individual merchants: %w", err)
	}
	return merchants, nil
}

// CountIndividual counts active individually-registered merchants under
// the same filter ListIndividual applies.
func (s *PostgresStore) CountIndividual(ctx context.Context, filter pagination.Filter) (int, error) {
	query := `
		SELECT COUNT(mgm.id)
		FROM merchant_group_members mgm
		INNER JOIN merchants m ON m.id = mgm.merchant_id
		WHERE mgm.group_id IS NULL
	`
	args := []any{}
	query, args = applyIndividualFilter(query, args, filter)

	var total int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count individual merchants: %w", err)
	}
	return total, nil
}

func applyIndividualFilter(query string, args []any, filter pagination.Filter) (string, []any) {
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND mgm.status = $%d", len(args))
	} else {
		query += " AND mgm.status = 1"
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (m.name ILIKE $%d OR m.goapotik_merchant_code ILIKE $%d)", len(args), len(args))
	}
	return query, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.RegistryEntry, error) {
	var (
		entry   models.RegistryEntry
		groupID sql.NullInt64
		status  int
	)
	if err := row.Scan(&entry.ID, &groupID, &entry.MerchantID, &entry.MerchantCode, &entry.IsSource, &status, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
		return nil, err
	}
	if groupID.Valid {
		gid := id.GroupID(groupID.Int64)
		entry.GroupID = &gid
	}
	entry.Status = models.RegistryStatusFromInt(status)
	return &entry, nil
}

func nullGroupID(groupID *id.GroupID) sql.NullInt64 {
	if groupID == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*groupID), Valid: true}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
