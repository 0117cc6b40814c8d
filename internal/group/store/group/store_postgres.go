package group

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"guesense/internal/group/models"
	merchantmodels "guesense/internal/merchant/models"
	id "guesense/pkg/domain"
	"guesense/pkg/pagination"
	"guesense/pkg/platform/sentinel"
	"guesense/pkg/requestcontext"
)

const uniqueViolation = "23505"

// MemberInput is one member candidate for the atomic create operation.
type MemberInput struct {
	MerchantID id.MerchantID
	Code       string
}

// PostgresStore persists groups and group memberships in PostgreSQL. It
// owns every multi-row transaction in this domain; services never touch
// transaction handles.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed group store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// FindByID returns an active group, or sentinel.ErrNotFound when the group
// is absent or inactive.
func (s *PostgresStore) FindByID(ctx context.Context, groupID id.GroupID) (*models.Group, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, status, merchant_source_id, created_at, updated_at
		FROM merchant_groups
		WHERE id = $1 AND status = 1
	`, int64(groupID))

	group, err := scanGroup(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("group %d: %w", groupID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find group: %w", err)
	}
	return group, nil
}

// List returns groups newest first with their active-member counts
// recomputed by join, never read from a cached column. Active groups only
// unless the filter names a status.
func (s *PostgresStore) List(ctx context.Context, filter pagination.Filter) ([]models.GroupSummary, error) {
	query := `
		SELECT g.id, g.name, g.status, g.merchant_source_id, g.created_at, g.updated_at,
		       COUNT(mgm.id) AS members_count
		FROM merchant_groups g
		LEFT JOIN merchant_group_members mgm ON g.id = mgm.group_id AND mgm.status = 1
	`
	args := []any{}
	query, args = applyGroupFilter(query, args, filter)
	query += " GROUP BY g.id, g.name, g.status, g.merchant_source_id, g.created_at, g.updated_at"
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY g.id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	groups := make([]models.GroupSummary, 0, filter.Limit)
	for rows.Next() {
		var (
			summary  models.GroupSummary
			sourceID sql.NullInt64
			status   int
		)
		if err := rows.Scan(&summary.ID, &summary.Name, &status, &sourceID, &summary.CreatedAt, &summary.UpdatedAt, &summary.MembersCount); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		summary.Status = models.GroupStatusFromInt(status)
		if sourceID.Valid {
			mid := id.MerchantID(sourceID.Int64)
			summary.SourceMerchantID = &mid
		}
		groups = append(groups, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// Count counts groups under the same filter List applies.
func (s *PostgresStore) Count(ctx context.Context, filter pagination.Filter) (int, error) {
	query := `SELECT COUNT(g.id) FROM merchant_groups g`
	args := []any{}
	query, args = applyGroupFilter(query, args, filter)

	var total int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count groups: %w", err)
	}
	return total, nil
}

// Members returns the active members of a group with their catalog fields,
// source member first, then alphabetically by merchant name.
func (s *PostgresStore) Members(ctx context.Context, groupID id.GroupID) ([]models.GroupMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT mgm.id, mgm.merchant_id, mgm.merchant_code, mgm.is_merchant_source, m.name
		FROM merchant_group_members mgm
		INNER JOIN merchants m ON mgm.merchant_id = m.id
		WHERE mgm.group_id = $1 AND mgm.status = 1 AND m.status = 1
		ORDER BY mgm.is_merchant_source DESC, m.name ASC
	`, int64(groupID))
	if err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}
	defer rows.Close()

	var members []models.GroupMember
	for rows.Next() {
		var member models.GroupMember
		if err := rows.Scan(&member.RegistryID, &member.MerchantID, &member.MerchantCode, &member.IsSource, &member.MerchantName); err != nil {
			return nil, fmt.Errorf("scan group member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}
	return members, nil
}

// IsMember reports whether the merchant is an active member of the group.
func (s *PostgresStore) IsMember(ctx context.Context, groupID id.GroupID, merchantID id.MerchantID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM merchant_group_members
			WHERE group_id = $1 AND merchant_id = $2 AND status = 1
		)
	`, int64(groupID), int64(merchantID)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check group membership: %w", err)
	}
	return exists, nil
}

// AssignMember moves a merchant's active registry entry into the group.
func (s *PostgresStore) AssignMember(ctx context.Context, groupID id.GroupID, merchantID id.MerchantID) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE merchant_group_members
		SET group_id = $1, updated_at = $2
		WHERE merchant_id = $3 AND status = 1
	`, int64(groupID), requestcontext.Now(ctx), int64(merchantID))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("merchant %d already in group %d: %w", merchantID, groupID, sentinel.ErrConflict)
		}
		return fmt.Errorf("assign member: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("assign member: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("merchant %d has no active registration: %w", merchantID, sentinel.ErrNotFound)
	}
	return nil
}

// Update applies the patch to an active group.
func (s *PostgresStore) Update(ctx context.Context, groupID id.GroupID, patch models.GroupPatch) error {
	query := `UPDATE merchant_groups SET updated_at = $1`
	args := []any{requestcontext.Now(ctx)}

	if patch.Name != nil {
		args = append(args, *patch.Name)
		query += fmt.Sprintf(", name = $%d", len(args))
	}
	if patch.Status != nil {
		args = append(args, patch.Status.Int())
		query += fmt.Sprintf(", status = $%d", len(args))
	}
	args = append(args, int64(groupID))
	query += fmt.Sprintf(" WHERE id = $%d", len(args))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("group %d: %w", groupID, sentinel.ErrNotFound)
	}
	return nil
}

// CreateWithMembers atomically inserts the group row and one membership
// row per member. Member insert failures are recovered with per-member
// savepoints so one bad row cannot poison the transaction; the whole
// transaction rolls back only when no member makes it in, because a group
// with zero members is not a valid end state.
func (s *PostgresStore) CreateWithMembers(ctx context.Context, group *models.Group, members []MemberInput, sourceMerchantID *id.MerchantID) (*models.CreateGroupResult, error) {
	result := &models.CreateGroupResult{
		GroupName:         group.Name,
		MembersTotalCount: len(members),
		MembersFailed:     []merchantmodels.BulkFailure{},
		SourceMerchantID:  sourceMerchantID,
	}

	now := requestcontext.Now(ctx)

	err := s.runInTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO merchant_groups (name, status, merchant_source_id, created_at, updated_at)
			VALUES ($1, $2, NULL, $3, $4)
			RETURNING id
		`, group.Name, group.Status.Int(), now, now).Scan(&result.GroupID)
		if err != nil {
			return fmt.Errorf("insert group: %w", err)
		}

		for i, member := range members {
			isSource := sourceMerchantID != nil && *sourceMerchantID == member.MerchantID

			savepoint := fmt.Sprintf("member_%d", i)
			if _, err := tx.ExecContext(ctx, "SAVEPOINT "+savepoint); err != nil {
				return fmt.Errorf("savepoint: %w", err)
			}

			_, err := tx.ExecContext(ctx, `
				INSERT INTO merchant_group_members (group_id, merchant_id, merchant_code, is_merchant_source, status, created_at, updated_at)
				VALUES ($1, $2, $3, $4, 1, $5, $6)
			`, int64(result.GroupID), int64(member.MerchantID), member.Code, isSource, now, now)
			if err != nil {
				if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepoint); rbErr != nil {
					return fmt.Errorf("rollback to savepoint: %w", rbErr)
				}
				reason := "failed to add member"
				if isUniqueViolation(err) {
					reason = fmt.Sprintf("merchant %q is already registered", member.Code)
				}
				result.MembersFailed = append(result.MembersFailed, merchantmodels.BulkFailure{
					Code:  member.Code,
					Error: reason,
				})
				continue
			}

			result.MembersSuccessCount++
			if isSource {
				result.SourceSet = true
			}
		}

		if result.MembersSuccessCount == 0 {
			return fmt.Errorf("no members were successfully added to the group: %w", sentinel.ErrInvalidState)
		}

		if result.SourceSet && sourceMerchantID != nil {
			_, err := tx.ExecContext(ctx, `
				UPDATE merchant_groups SET merchant_source_id = $1, updated_at = $2 WHERE id = $3
			`, int64(*sourceMerchantID), now, int64(result.GroupID))
			if err != nil {
				return fmt.Errorf("set group source: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetTemplateSource atomically clears the source mark on every active
// member, sets it on the target, and points the group at it.
//
// The clear and set run in one transaction, so at most one active member
// per group ever carries the mark. Two concurrent calls on the same group
// are last-committed-wins on the denormalized pointer; no row version is
// checked. A crash after the clear commits alone leaves "no source",
// which is a valid state.
func (s *PostgresStore) SetTemplateSource(ctx context.Context, groupID id.GroupID, merchantID id.MerchantID) error {
	now := requestcontext.Now(ctx)

	return s.runInTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE merchant_group_members
			SET is_merchant_source = FALSE, updated_at = $1
			WHERE group_id = $2 AND status = 1
		`, now, int64(groupID))
		if err != nil {
			return fmt.Errorf("clear source marks: %w", err)
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE merchant_group_members
			SET is_merchant_source = TRUE, updated_at = $1
			WHERE group_id = $2 AND merchant_id = $3 AND status = 1
		`, now, int64(groupID), int64(merchantID))
		if err != nil {
			return fmt.Errorf("set source mark: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("set source mark: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("merchant %d is not an active member of group %d: %w", merchantID, groupID, sentinel.ErrNotFound)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE merchant_groups SET merchant_source_id = $1, updated_at = $2 WHERE id = $3
		`, int64(merchantID), now, int64(groupID))
		if err != nil {
			return fmt.Errorf("update group source pointer: %w", err)
		}
		return nil
	})
}

// Delete atomically deactivates every member row and removes the group
// row. Members keep their group_id for history; counts scope to active
// rows so they drop to zero immediately.
func (s *PostgresStore) Delete(ctx context.Context, groupID id.GroupID) error {
	now := requestcontext.Now(ctx)

	return s.runInTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE merchant_group_members
			SET status = 0, is_merchant_source = FALSE, updated_at = $1
			WHERE group_id = $2 AND status = 1
		`, now, int64(groupID))
		if err != nil {
			return fmt.Errorf("deactivate group members: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM merchant_groups WHERE id = $1`, int64(groupID))
		if err != nil {
			return fmt.Errorf("delete group: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete group: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("group %d: %w", groupID, sentinel.ErrNotFound)
		}
		return nil
	})
}

// RemoveMember soft-deletes a membership and, when the removed member was
// the template source, clears the group's source pointer in the same
// transaction so the denormalized pointer cannot go stale. Removing an
// already-removed member is a no-op.
func (s *PostgresStore) RemoveMember(ctx context.Context, groupID id.GroupID, merchantID id.MerchantID) error {
	now := requestcontext.Now(ctx)

	return s.runInTx(ctx, func(tx *sql.Tx) error {
		var wasSource bool
		err := tx.QueryRowContext(ctx, `
			SELECT is_merchant_source FROM merchant_group_members
			WHERE group_id = $1 AND merchant_id = $2 AND status = 1
			FOR UPDATE
		`, int64(groupID), int64(merchantID)).Scan(&wasSource)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// already removed; idempotent
				return nil
			}
			return fmt.Errorf("remove group member: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE merchant_group_members
			SET status = 0, is_merchant_source = FALSE, updated_at = $1
			WHERE group_id = $2 AND merchant_id = $3 AND status = 1
		`, now, int64(groupID), int64(merchantID))
		if err != nil {
			return fmt.Errorf("remove group member: %w", err)
		}

		if wasSource {
			_, err := tx.ExecContext(ctx, `
				UPDATE merchant_groups SET merchant_source_id = NULL, updated_at = $1 WHERE id = $2
			`, now, int64(groupID))
			if err != nil {
				return fmt.Errorf("clear group source pointer: %w", err)
			}
		}
		return nil
	})
}

// runInTx wraps fn in a transaction with rollback on error.
func (s *PostgresStore) runInTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// An explicit status filter replaces the active-only default, matching
// the registry store's filter semantics.
func applyGroupFilter(query string, args []any, filter pagination.Filter) (string, []any) {
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" WHERE g.status = $%d", len(args))
	} else {
		query += " WHERE g.status = 1"
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND g.name ILIKE $%d", len(args))
	}
	return query, args
}

func scanGroup(row *sql.Row) (*models.Group, error) {
	var (
		group    models.Group
		sourceID sql.NullInt64
		status   int
	)
	if err := row.Scan(&group.ID, &group.Name, &status, &sourceID, &group.CreatedAt, &group.UpdatedAt); err != nil {
		return nil, err
	}
	group.Status = models.GroupStatusFromInt(status)
	if sourceID.Valid {
		mid := id.MerchantID(sourceID.Int64)
		group.SourceMerchantID = &mid
	}
	return &group, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
