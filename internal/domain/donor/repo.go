package donor

import (
	"context"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
)

type DonorRepository interface {
	Create(ctx context.Context, d *Donor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Donor, error)
	GetByCode(ctx context.Context, code string) (*Donor, error)
	Update(ctx context.Context, d *Donor) error
	// Deactivate marks the donor unavailable. Donor rows are never removed
	// so ledger entries always resolve to a donor.
	Deactivate(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Donor, int, error)
	ListAvailableByGroup(ctx context.Context, group blood.Group) ([]*Donor, error)
}
