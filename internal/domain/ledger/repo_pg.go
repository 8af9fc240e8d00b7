package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bloodlink/bloodlink/internal/platform/db"
	"github.com/bloodlink/bloodlink/pkg/errs"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type ledgerRepoPG struct{ pool *pgxpool.Pool }

func NewLedgerRepoPG(pool *pgxpool.Pool) LedgerRepository {
	return &ledgerRepoPG{pool: pool}
}

func (r *ledgerRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const ledgerCols = `id, request_id, hospital_id, is_active, created_at, updated_at`
const entryCols = `id, ledger_id, donor_id, message, created_at`

func (r *ledgerRepoPG) scanLedger(row pgx.Row) (*Ledger, error) {
	var l Ledger
	err := row.Scan(&l.ID, &l.RequestID, &l.HospitalID, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.New(errs.CodeNotFound, "ledger not found")
	}
	return &l, err
}

// SubmitResponse upserts the request's ledger and appends the entry in one
// transaction. The unique index on request_id makes concurrent first
// submissions converge on a single ledger.
func (r *ledgerRepoPG) SubmitResponse(ctx context.Context, requestID uuid.UUID, hospitalID *uuid.UUID, e *Entry) (*Ledger, error) {
	var result *Ledger
	err := db.InTx(ctx, r.pool, func(ctx context.Context) error {
		q := r.conn(ctx)

		l, err := r.scanLedger(q.QueryRow(ctx, `
			INSERT INTO response_ledger (id, request_id, hospital_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (request_id) DO UPDATE SET updated_at = NOW()
			RETURNING `+ledgerCols,
			uuid.New(), requestID, hospitalID))
		if err != nil {
			return err
		}
		if !l.IsActive {
			return errs.New(errs.CodeConflict, "ledger is deactivated")
		}

		e.ID = uuid.New()
		e.LedgerID = l.ID
		if err := q.QueryRow(ctx, `
			INSERT INTO ledger_entry (id, ledger_id, donor_id, message)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at`,
			e.ID, e.LedgerID, e.DonorID, e.Message).Scan(&e.CreatedAt); err != nil {
			return err
		}

		l.Entries = []*Entry{e}
		result = l
		return nil
	})
	return result, err
}

func (r *ledgerRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Ledger, error) {
	l, err := r.scanLedger(r.conn(ctx).QueryRow(ctx,
		`SELECT `+ledgerCols+` FROM response_ledger WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadEntries(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *ledgerRepoPG) GetByRequest(ctx context.Context, requestID uuid.UUID) (*Ledger, error) {
	l, err := r.scanLedger(r.conn(ctx).QueryRow(ctx,
		`SELECT `+ledgerCols+` FROM response_ledger WHERE request_id = $1`, requestID))
	if err != nil {
		return nil, err
	}
	if err := r.loadEntries(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *ledgerRepoPG) loadEntries(ctx context.Context, l *Ledger) error {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+entryCols+` FROM ledger_entry WHERE ledger_id = $1 ORDER BY created_at DESC`, l.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.LedgerID, &e.DonorID, &e.Message, &e.CreatedAt); err != nil {
			return err
		}
		l.Entries = append(l.Entries, &e)
	}
	return rows.Err()
}

// ListByHospital returns the hospital's active ledgers, merging ledgers
// carrying the hospital reference with legacy ledgers that predate it,
// resolved through the owning request. Deactivated ledgers are excluded.
func (r *ledgerRepoPG) ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Ledger, int, error) {
	const baseWhere = `
		FROM response_ledger l
		LEFT JOIN blood_request br ON br.id = l.request_id
		WHERE l.is_active
		  AND (l.hospital_id = $1
		   OR (l.hospital_id IS NULL AND br.hospital_id = $1))`

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*)`+baseWhere, hospitalID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT l.id, l.request_id, l.hospital_id, l.is_active, l.created_at, l.updated_at`+baseWhere+`
		ORDER BY l.created_at DESC LIMIT $2 OFFSET $3`, hospitalID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Ledger
	for rows.Next() {
		l, err := r.scanLedger(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, l := range items {
		if err := r.loadEntries(ctx, l); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

func (r *ledgerRepoPG) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE response_ledger SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.New(errs.CodeNotFound, "ledger not found")
	}
	return nil
}

func (r *ledgerRepoPG) BackfillHospitalRefs(ctx context.Context) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE response_ledger l
		SET hospital_id = br.hospital_id, updated_at = NOW()
		FROM blood_request br
		WHERE l.request_id = br.id AND l.hospital_id IS NULL`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
