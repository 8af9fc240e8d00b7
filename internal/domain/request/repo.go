package request

import (
	"context"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
)

type RequestRepository interface {
	Create(ctx context.Context, r *Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
	Update(ctx context.Context, r *Request) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Request, int, error)
	// ListActiveByGroup returns Pending and In Progress requests for the
	// group, most urgent first, newest first within equal urgency.
	ListActiveByGroup(ctx context.Context, group blood.Group) ([]*Request, error)
	// ListActive returns all Pending and In Progress requests in the same
	// order as ListActiveByGroup.
	ListActive(ctx context.Context) ([]*Request, error)
	ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Request, int, error)
}
