package hospital

import (
	"context"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/pkg/errs"
	"github.com/bloodlink/bloodlink/pkg/geo"
)

type Service struct {
	repo HospitalRepository
}

func NewService(repo HospitalRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validate(h *Hospital) error {
	if h.Name == "" {
		return errs.New(errs.CodeInvalidArgument, "name is required")
	}
	if h.Phone == "" {
		return errs.New(errs.CodeInvalidArgument, "phone is required")
	}
	if h.City == "" {
		return errs.New(errs.CodeInvalidArgument, "city is required")
	}
	if !geo.ValidCoordinates(h.Latitude, h.Longitude) {
		return errs.Errorf(errs.CodeInvalidArgument, "coordinates out of range: (%v, %v)", h.Latitude, h.Longitude)
	}
	return nil
}

func (s *Service) CreateHospital(ctx context.Context, h *Hospital) error {
	if err := s.validate(h); err != nil {
		return err
	}
	return s.repo.Create(ctx, h)
}

func (s *Service) GetHospital(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateHospital applies contact edits: phone, email, address and city.
// Name and coordinates are fixed at registration since matching measures
// from the registered location.
func (s *Service) UpdateHospital(ctx context.Context, h *Hospital) error {
	existing, err := s.repo.GetByID(ctx, h.ID)
	if err != nil {
		return err
	}
	h.Name = existing.Name
	h.Latitude = existing.Latitude
	h.Longitude = existing.Longitude
	if err := s.validate(h); err != nil {
		return err
	}
	return s.repo.Update(ctx, h)
}

func (s *Service) DeleteHospital(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) SearchHospitals(ctx context.Context, params map[string]string, limit, offset int) ([]*Hospital, int, error) {
	return s.repo.Search(ctx, params, limit, offset)
}
