package request

import (
	"context"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
	"github.com/bloodlink/bloodlink/internal/domain/hospital"
	"github.com/bloodlink/bloodlink/internal/platform/metrics"
	"github.com/bloodlink/bloodlink/pkg/errs"
)

type Service struct {
	repo      RequestRepository
	hospitals hospital.HospitalRepository
	metrics   *metrics.Metrics
}

func NewService(repo RequestRepository, hospitals hospital.HospitalRepository) *Service {
	return &Service{repo: repo, hospitals: hospitals}
}

func (s *Service) SetMetrics(m *metrics.Metrics) { s.metrics = m }

func (s *Service) validate(r *Request) error {
	if !r.BloodGroup.Valid() {
		return errs.Errorf(errs.CodeInvalidArgument, "invalid blood group: %q", r.BloodGroup)
	}
	if r.Quantity < MinQuantity || r.Quantity > MaxQuantity {
		return errs.Errorf(errs.CodeInvalidArgument,
			"quantity must be between %d and %d units, got %d", MinQuantity, MaxQuantity, r.Quantity)
	}
	if !r.Urgency.Valid() {
		return errs.Errorf(errs.CodeInvalidArgument, "invalid urgency: %q", r.Urgency)
	}
	if r.Message != nil && len(*r.Message) > MaxMessageLength {
		return errs.Errorf(errs.CodeInvalidArgument,
			"message must be at most %d characters", MaxMessageLength)
	}
	return nil
}

func (s *Service) CreateRequest(ctx context.Context, r *Request) error {
	if r.HospitalID == uuid.Nil {
		return errs.New(errs.CodeInvalidArgument, "hospital_id is required")
	}
	if _, err := s.hospitals.GetByID(ctx, r.HospitalID); err != nil {
		return err
	}
	if r.Urgency == "" {
		r.Urgency = UrgencyMedium
	}
	r.Status = StatusPending
	if err := s.validate(r); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.IncrementRequestCreated()
	}
	return nil
}

func (s *Service) GetRequest(ctx context.Context, id uuid.UUID) (*Request, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) SearchRequests(ctx context.Context, params map[string]string, limit, offset int) ([]*Request, int, error) {
	return s.repo.Search(ctx, params, limit, offset)
}

func (s *Service) ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Request, int, error) {
	return s.repo.ListByHospital(ctx, hospitalID, limit, offset)
}

func (s *Service) ListActiveByGroup(ctx context.Context, group blood.Group) ([]*Request, error) {
	return s.repo.ListActiveByGroup(ctx, group)
}

func (s *Service) ListActive(ctx context.Context) ([]*Request, error) {
	return s.repo.ListActive(ctx)
}

// UpdateRequest applies hospital-editable fields: patient name, message and
// needed-by. Blood group, urgency and quantity are fixed at creation, and
// status changes go through UpdateStatus so lifecycle rules are enforced.
func (s *Service) UpdateRequest(ctx context.Context, r *Request) error {
	existing, err := s.repo.GetByID(ctx, r.ID)
	if err != nil {
		return err
	}
	if existing.Status.Terminal() {
		return errs.Errorf(errs.CodeInvalidArgument,
			"request is %s and cannot be edited", existing.Status)
	}
	r.HospitalID = existing.HospitalID
	r.Status = existing.Status
	r.BloodGroup = existing.BloodGroup
	r.Urgency = existing.Urgency
	r.Quantity = existing.Quantity
	if err := s.validate(r); err != nil {
		return err
	}
	return s.repo.Update(ctx, r)
}

// UpdateStatus moves the request through its lifecycle.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, to Status) (*Request, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.Transition(to); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// CancelRequest is the delete operation for requests: records are kept and
// the status is moved to Cancelled.
func (s *Service) CancelRequest(ctx context.Context, id uuid.UUID) (*Request, error) {
	return s.UpdateStatus(ctx, id, StatusCancelled)
}
