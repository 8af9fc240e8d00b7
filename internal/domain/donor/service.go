package donor

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
	"github.com/bloodlink/bloodlink/internal/platform/metrics"
	"github.com/bloodlink/bloodlink/pkg/errs"
	"github.com/bloodlink/bloodlink/pkg/geo"
)

type Service struct {
	repo     DonorRepository
	cooldown CooldownPolicy
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(repo DonorRepository, cooldown CooldownPolicy) *Service {
	return &Service{repo: repo, cooldown: cooldown, now: time.Now}
}

func (s *Service) SetMetrics(m *metrics.Metrics) { s.metrics = m }

var validGenders = map[string]bool{
	"male": true, "female": true, "other": true,
}

func (s *Service) validate(d *Donor) error {
	d.Code = NormalizeCode(d.Code)
	if !ValidCode(d.Code) {
		return errs.Errorf(errs.CodeInvalidArgument,
			"donor code must be 3-20 characters of A-Z, 0-9, _ or -, got %q", d.Code)
	}
	if d.Name == "" {
		return errs.New(errs.CodeInvalidArgument, "name is required")
	}
	d.Gender = strings.ToLower(strings.TrimSpace(d.Gender))
	if !validGenders[d.Gender] {
		return errs.Errorf(errs.CodeInvalidArgument, "invalid gender: %q", d.Gender)
	}
	if d.Age < 18 || d.Age > 65 {
		return errs.Errorf(errs.CodeInvalidArgument, "donor age must be between 18 and 65, got %d", d.Age)
	}
	if !d.BloodGroup.Valid() {
		return errs.Errorf(errs.CodeInvalidArgument, "invalid blood group: %q", d.BloodGroup)
	}
	if d.Phone == "" {
		return errs.New(errs.CodeInvalidArgument, "phone is required")
	}
	if (d.Latitude == nil) != (d.Longitude == nil) {
		return errs.New(errs.CodeInvalidArgument, "latitude and longitude must be provided together")
	}
	if d.Latitude != nil && !geo.ValidCoordinates(*d.Latitude, *d.Longitude) {
		return errs.Errorf(errs.CodeInvalidArgument, "coordinates out of range: (%v, %v)", *d.Latitude, *d.Longitude)
	}
	return nil
}

func (s *Service) CreateDonor(ctx context.Context, d *Donor) error {
	if err := s.validate(d); err != nil {
		return err
	}
	return s.repo.Create(ctx, d)
}

func (s *Service) GetDonor(ctx context.Context, id uuid.UUID) (*Donor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetDonorByCode(ctx context.Context, code string) (*Donor, error) {
	return s.repo.GetByCode(ctx, NormalizeCode(code))
}

func (s *Service) UpdateDonor(ctx context.Context, d *Donor) error {
	existing, err := s.repo.GetByID(ctx, d.ID)
	if err != nil {
		return err
	}
	// Code, donation history and timestamps are not client-writable.
	d.Code = existing.Code
	d.DonationCount = existing.DonationCount
	d.LastDonated = existing.LastDonated
	if err := s.validate(d); err != nil {
		return err
	}
	return s.repo.Update(ctx, d)
}

// DeactivateDonor retires a donor from matching. Records are kept so past
// responses stay resolvable.
func (s *Service) DeactivateDonor(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *Service) SearchDonors(ctx context.Context, params map[string]string, limit, offset int) ([]*Donor, int, error) {
	return s.repo.Search(ctx, params, limit, offset)
}

func (s *Service) ListAvailableByGroup(ctx context.Context, group blood.Group) ([]*Donor, error) {
	return s.repo.ListAvailableByGroup(ctx, group)
}

// SetAvailability toggles whether the donor appears in match results.
func (s *Service) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*Donor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Available = available
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// RecordDonation marks a completed donation: increments the donor's count
// and resets the rest period clock.
func (s *Service) RecordDonation(ctx context.Context, id uuid.UUID) (*Donor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	d.DonationCount++
	d.LastDonated = &now
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementDonationRecorded()
	}
	return d, nil
}

// EligibilityStatus is the advisory rest-period view of a donor.
type EligibilityStatus struct {
	Eligible       bool       `json:"eligible"`
	CooldownDays   int        `json:"cooldown_days"`
	DaysSince      int        `json:"days_since_last_donation"`
	NextEligibleAt *time.Time `json:"next_eligible_at,omitempty"`
}

// Eligibility reports whether the donor's rest period has elapsed. The
// result is advisory only and never filters match output.
func (s *Service) Eligibility(ctx context.Context, id uuid.UUID) (*EligibilityStatus, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	status := &EligibilityStatus{
		Eligible:     s.cooldown.EligibleToDonate(d, now),
		CooldownDays: s.cooldown.CooldownDays(d.Gender),
		DaysSince:    d.DaysSinceLastDonation(now),
	}
	if next, ok := s.cooldown.NextEligibleAt(d, now); ok {
		status.NextEligibleAt = &next
	}
	return status, nil
}

// CooldownPolicy exposes the configured rest periods.
func (s *Service) CooldownPolicy() CooldownPolicy {
	return s.cooldown
}
