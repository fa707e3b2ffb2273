package borrow

import (
	"context"
	"database/sql"
	"strings"

	"github.com/lauvAri/soa-lab1/internal/platform/db"
)

type Store struct {
	db *sql.DB
}

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

const recordColumns = `id, user_id, material_id, quantity, status, borrowed_at, due_at, returned_at, remark, created_at, updated_at`

// EnsureSchema creates the borrow_records table on boot. Schema migration
// tooling is out of scope; the table is a single self-contained entity.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const q = `
	CREATE TABLE IF NOT EXISTS borrow_records (
		id          BIGINT       NOT NULL AUTO_INCREMENT,
		user_id     BIGINT       NOT NULL,
		material_id BIGINT       NOT NULL,
		quantity    INT          NOT NULL DEFAULT 1,
		status      TINYINT      NOT NULL DEFAULT 0,
		borrowed_at DATETIME     NOT NULL,
		due_at      DATETIME     NULL,
		returned_at DATETIME     NULL,
		remark      VARCHAR(255) NULL,
		created_at  DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_user_id (user_id),
		KEY idx_material_id (material_id),
		KEY idx_status (status)
	)`
	_, err := s.db.ExecContext(ctx, q)
	return err
}

// Insert writes a new record and reads the row back so DB-assigned
// defaults (created_at, updated_at) end up on the struct.
func (s *Store) Insert(ctx context.Context, r *Record) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		const q = `
		INSERT INTO borrow_records
		(user_id, material_id, quantity, status, borrowed_at, due_at, returned_at, remark)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

		res, err := tx.ExecContext(ctx, q,
			r.UserID, r.MaterialID, r.Quantity, r.Status,
			r.BorrowedAt, r.DueAt, r.ReturnedAt, r.Remark,
		)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		r.ID = id

		sel := `SELECT ` + recordColumns + ` FROM borrow_records WHERE id = ?`
		return scanRecord(tx.QueryRowContext(ctx, sel, r.ID), r)
	})
}

func (s *Store) Get(ctx context.Context, id int64) (*Record, error) {
	q := `SELECT ` + recordColumns + ` FROM borrow_records WHERE id = ?`
	var r Record
	if err := scanRecord(s.db.QueryRowContext(ctx, q, id), &r); err != nil {
		if err == sql.ErrNoRows {
			return nil, NewNotFoundError("borrow record not found")
		}
		return nil, err
	}
	return &r, nil
}

// Update persists the full mutable field set of r.
func (s *Store) Update(ctx context.Context, r *Record) error {
	const q = `
	UPDATE borrow_records
	SET status = ?, due_at = ?, returned_at = ?, remark = ?, updated_at = ?
	WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q,
		r.Status, r.DueAt, r.ReturnedAt, r.Remark, r.UpdatedAt, r.ID,
	)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return NewNotFoundError("borrow record not found")
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM borrow_records WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return NewNotFoundError("borrow record not found")
	}
	return nil
}

// List returns one page ordered by created_at descending plus the total
// count of matching rows. The page is expected to be clamped already.
func (s *Store) List(ctx context.Context, f Filter, p Page) ([]Record, int64, error) {
	where, args := buildWhere(f)

	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + recordColumns + ` FROM borrow_records`)
	sb.WriteString(where)
	sb.WriteString(` ORDER BY created_at DESC LIMIT ? OFFSET ?`)
	listArgs := append(append([]any{}, args...), p.Size, p.Offset())

	rows, err := s.db.QueryContext(ctx, sb.String(), listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := scanRecord(rows, &r); err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	countQ := `SELECT COUNT(*) FROM borrow_records` + where
	if err := s.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func buildWhere(f Filter) (string, []any) {
	sb := strings.Builder{}
	sb.WriteString(` WHERE 1=1`)
	args := []any{}
	if f.UserID != nil {
		sb.WriteString(` AND user_id = ?`)
		args = append(args, *f.UserID)
	}
	if f.MaterialID != nil {
		sb.WriteString(` AND material_id = ?`)
		args = append(args, *f.MaterialID)
	}
	if f.Status != nil {
		sb.WriteString(` AND status = ?`)
		args = append(args, *f.Status)
	}
	return sb.String(), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner, r *Record) error {
	return row.Scan(
		&r.ID, &r.UserID, &r.MaterialID, &r.Quantity, &r.Status,
		&r.BorrowedAt, &r.DueAt, &r.ReturnedAt, &r.Remark,
		&r.CreatedAt, &r.UpdatedAt,
	)
}
