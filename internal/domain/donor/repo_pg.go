package donor

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

type donorRepoPG struct{ pool *pgxpool.Pool }

func NewDonorRepoPG(pool *pgxpool.Pool) DonorRepository {
	return &donorRepoPG{pool: pool}
}

func (r *donorRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const donorCols = `id, code, name, gender, age, blood_group, phone, email,
	city, address, latitude, longitude, available, donation_count, last_donated,
	created_at, updated_at`

func (r *donorRepoPG) scanRow(row pgx.Row) (*Donor, error) {
	var d Donor
	err := row.Scan(&d.ID, &d.Code, &d.Name, &d.Gender, &d.Age, &d.BloodGroup, &d.Phone, &d.Email,
		&d.City, &d.Address, &d.Latitude, &d.Longitude, &d.Available, &d.DonationCount, &d.LastDonated,
		&d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.New(errs.CodeNotFound, "donor not found")
	}
	return &d, err
}

func (r *donorRepoPG) Create(ctx context.Context, d *Donor) error {
	d.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO donor (id, code, name, gender, age, blood_group, phone, email,
			city, address, latitude, longitude, available)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		d.ID, d.Code, d.Name, d.Gender, d.Age, d.BloodGroup, d.Phone, d.Email,
		d.City, d.Address, d.Latitude, d.Longitude, d.Available)
	if isUniqueViolation(err) {
		return errs.Errorf(errs.CodeConflict, "donor code %s already registered", d.Code)
	}
	return err
}

func (r *donorRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Donor, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+donorCols+` FROM donor WHERE id = $1`, id))
}

func (r *donorRepoPG) GetByCode(ctx context.Context, code string) (*Donor, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+donorCols+` FROM donor WHERE code = $1`, code))
}

func (r *donorRepoPG) Update(ctx context.Context, d *Donor) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE donor SET name=$2, gender=$3, age=$4, blood_group=$5, phone=$6, email=$7,
			city=$8, address=$9, latitude=$10, longitude=$11, available=$12,
			donation_count=$13, last_donated=$14, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.Name, d.Gender, d.Age, d.BloodGroup, d.Phone, d.Email,
		d.City, d.Address, d.Latitude, d.Longitude, d.Available,
		d.DonationCount, d.LastDonated)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.New(errs.CodeNotFound, "donor not found")
	}
	return nil
}

func (r *donorRepoPG) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE donor SET available = FALSE, updated_at = NOW()
		WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.New(errs.CodeNotFound, "donor not found")
	}
	return nil
}

var donorSearchParams = map[string]db.ParamConfig{
	"blood_group": {Type: db.ParamExact, Column: "blood_group"},
	"available":   {Type: db.ParamExact, Column: "available"},
	"gender":      {Type: db.ParamExact, Column: "gender"},
	"city":        {Type: db.ParamText, Column: "city"},
	"name":        {Type: db.ParamText, Column: "name"},
	"age":         {Type: db.ParamNumber, Column: "age"},
}

func (r *donorRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Donor, int, error) {
	qb := db.NewSearchQuery("donor", donorCols)
	qb.ApplyParams(params, donorSearchParams)
	qb.OrderBy("created_at DESC")

	var total int
	if err := r.conn(ctx).QueryRow(ctx, qb.CountSQL(), qb.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, qb.DataSQL(limit, offset), qb.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Donor
	for rows.Next() {
		d, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}

func (r *donorRepoPG) ListAvailableByGroup(ctx context.Context, group blood.Group) ([]*Donor, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+donorCols+` FROM donor WHERE blood_group = $1 AND available ORDER BY created_at`, group)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Donor
	for rows.Next() {
		d, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
