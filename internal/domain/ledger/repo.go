package ledger

import (
	"context"

	"github.com/google/uuid"
)

type LedgerRepository interface {
	// SubmitResponse finds or creates the request's ledger and appends the
	// entry, atomically. hospitalID seeds the ledger on first creation and
	// is ignored when the ledger already exists.
	SubmitResponse(ctx context.Context, requestID uuid.UUID, hospitalID *uuid.UUID, e *Entry) (*Ledger, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Ledger, error)
	// GetByRequest returns the request's ledger with its entries, newest
	// entry first.
	GetByRequest(ctx context.Context, requestID uuid.UUID) (*Ledger, error)
	// ListByHospital returns the hospital's ledgers: those that carry the
	// hospital reference directly plus legacy ledgers that predate the
	// reference and whose request belongs to the hospital.
	ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Ledger, int, error)
	// Deactivate retires a ledger. The operation is irreversible.
	Deactivate(ctx context.Context, id uuid.UUID) error
	// BackfillHospitalRefs copies the hospital reference from each ledger's
	// request onto legacy ledgers missing it. Returns the number updated.
	BackfillHospitalRefs(ctx context.Context) (int64, error)
}
