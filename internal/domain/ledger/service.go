package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/domain/donor"
	"github.com/bloodlink/bloodlink/internal/domain/request"
	"github.com/bloodlink/bloodlink/internal/platform/metrics"
	"github.com/bloodlink/bloodlink/pkg/errs"
)

const maxEntryMessageLength = 500

type Service struct {
	repo     LedgerRepository
	requests request.RequestRepository
	donors   donor.DonorRepository
	metrics  *metrics.Metrics
}

func NewService(repo LedgerRepository, requests request.RequestRepository, donors donor.DonorRepository) *Service {
	return &Service{repo: repo, requests: requests, donors: donors}
}

func (s *Service) SetMetrics(m *metrics.Metrics) { s.metrics = m }

// SubmitResponse records a donor's offer against a request. The request's
// ledger is created on first response; later responses append to it. A donor
// may respond more than once.
func (s *Service) SubmitResponse(ctx context.Context, requestID, donorID uuid.UUID, message *string) (*Ledger, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.Status.Active() {
		return nil, errs.Errorf(errs.CodeInvalidArgument,
			"request is %s and no longer accepts responses", req.Status)
	}
	if _, err := s.donors.GetByID(ctx, donorID); err != nil {
		return nil, err
	}
	if message != nil && len(*message) > maxEntryMessageLength {
		return nil, errs.Errorf(errs.CodeInvalidArgument,
			"message must be at most %d characters", maxEntryMessageLength)
	}

	hospitalID := req.HospitalID
	l, err := s.repo.SubmitResponse(ctx, requestID, &hospitalID, &Entry{
		DonorID: donorID,
		Message: message,
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementResponseSubmitted()
	}
	return l, nil
}

func (s *Service) GetByRequest(ctx context.Context, requestID uuid.UUID) (*Ledger, error) {
	return s.repo.GetByRequest(ctx, requestID)
}

func (s *Service) ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Ledger, int, error) {
	return s.repo.ListByHospital(ctx, hospitalID, limit, offset)
}

// Deactivate retires a ledger permanently. There is no reactivation.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}

// BackfillHospitalRefs stamps the owning hospital onto legacy ledgers
// created before the reference existed.
func (s *Service) BackfillHospitalRefs(ctx context.Context) (int64, error) {
	return s.repo.BackfillHospitalRefs(ctx)
}
