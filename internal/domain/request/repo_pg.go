package request

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
	"github.com/bloodlink/bloodlink/internal/platform/db"
	"github.com/bloodlink/bloodlink/pkg/errs"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type requestRepoPG struct{ pool *pgxpool.Pool }

func NewRequestRepoPG(pool *pgxpool.Pool) RequestRepository {
	return &requestRepoPG{pool: pool}
}

func (r *requestRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const requestCols = `id, hospital_id, patient_name, blood_group, quantity, urgency, status,
	message, needed_by, created_at, updated_at`

// urgencyOrder ranks urgency levels in SQL so active lists come back most
// urgent first. Must agree with Urgency.Rank.
const urgencyOrder = `CASE urgency
	WHEN 'Emergency' THEN 4
	WHEN 'High' THEN 3
	WHEN 'Medium' THEN 2
	WHEN 'Low' THEN 1
	ELSE 0 END DESC, created_at DESC`

func (r *requestRepoPG) scanRow(row pgx.Row) (*Request, error) {
	var req Request
	err := row.Scan(&req.ID, &req.HospitalID, &req.PatientName, &req.BloodGroup, &req.Quantity,
		&req.Urgency, &req.Status, &req.Message, &req.NeededBy, &req.CreatedAt, &req.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.New(errs.CodeNotFound, "request not found")
	}
	return &req, err
}

func (r *requestRepoPG) Create(ctx context.Context, req *Request) error {
	req.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO blood_request (id, hospital_id, patient_name, blood_group, quantity,
			urgency, status, message, needed_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		req.ID, req.HospitalID, req.PatientName, req.BloodGroup, req.Quantity,
		req.Urgency, req.Status, req.Message, req.NeededBy)
	return err
}

func (r *requestRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+requestCols+` FROM blood_request WHERE id = $1`, id))
}

func (r *requestRepoPG) Update(ctx context.Context, req *Request) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE blood_request SET patient_name=$2, blood_group=$3, quantity=$4, urgency=$5,
			status=$6, message=$7, needed_by=$8, updated_at=NOW()
		WHERE id = $1`,
		req.ID, req.PatientName, req.BloodGroup, req.Quantity, req.Urgency,
		req.Status, req.Message, req.NeededBy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.New(errs.CodeNotFound, "request not found")
	}
	return nil
}

var requestSearchParams = map[string]db.ParamConfig{
	"blood_group": {Type: db.ParamExact, Column: "blood_group"},
	"status":      {Type: db.ParamExact, Column: "status"},
	"urgency":     {Type: db.ParamExact, Column: "urgency"},
	"hospital_id": {Type: db.ParamExact, Column: "hospital_id"},
}

func (r *requestRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Request, int, error) {
	qb := db.NewSearchQuery("blood_request", requestCols)
	qb.ApplyParams(params, requestSearchParams)
	qb.OrderBy(urgencyOrder)

	var total int
	if err := r.conn(ctx).QueryRow(ctx, qb.CountSQL(), qb.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, qb.DataSQL(limit, offset), qb.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := r.collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *requestRepoPG) ListActiveByGroup(ctx context.Context, group blood.Group) ([]*Request, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+requestCols+` FROM blood_request
		WHERE blood_group = $1 AND status IN ('Pending', 'In Progress')
		ORDER BY `+urgencyOrder, group)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *requestRepoPG) ListActive(ctx context.Context) ([]*Request, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+requestCols+` FROM blood_request
		WHERE status IN ('Pending', 'In Progress')
		ORDER BY `+urgencyOrder)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *requestRepoPG) ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Request, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM blood_request WHERE hospital_id = $1`, hospitalID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+requestCols+` FROM blood_request
		WHERE hospital_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, hospitalID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := r.collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *requestRepoPG) collect(rows pgx.Rows) ([]*Request, error) {
	var items []*Request
	for rows.Next() {
		req, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, req)
	}
	return items, rows.Err()
}
