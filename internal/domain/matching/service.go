package matching

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/domain/donor"
	"github.com/bloodlink/bloodlink/internal/domain/hospital"
	"github.com/bloodlink/bloodlink/internal/domain/ledger"
	"github.com/bloodlink/bloodlink/internal/domain/request"
	"github.com/bloodlink/bloodlink/internal/platform/metrics"
	"github.com/bloodlink/bloodlink/pkg/errs"
)

// Config bounds the radius search.
type Config struct {
	DefaultRadiusKm float64
	MaxRadiusKm     float64
}

// DefaultConfig matches the engine's standard 10 km search radius.
func DefaultConfig() Config {
	return Config{DefaultRadiusKm: 10, MaxRadiusKm: 100}
}

type Service struct {
	donors    donor.DonorRepository
	hospitals hospital.HospitalRepository
	requests  request.RequestRepository
	ledgers   ledger.LedgerRepository
	cfg       Config
	metrics   *metrics.Metrics
}

func NewService(
	donors donor.DonorRepository,
	hospitals hospital.HospitalRepository,
	requests request.RequestRepository,
	ledgers ledger.LedgerRepository,
	cfg Config,
) *Service {
	return &Service{
		donors:    donors,
		hospitals: hospitals,
		requests:  requests,
		ledgers:   ledgers,
		cfg:       cfg,
	}
}

func (s *Service) SetMetrics(m *metrics.Metrics) { s.metrics = m }

// MatchCounts summarizes how many matched donors fall in each radius band.
type MatchCounts struct {
	Within5Km  int `json:"within_5km"`
	Within10Km int `json:"within_10km"`
	Total      int `json:"total"`
}

// MatchResult is the outcome of a nearby donor search for a request.
type MatchResult struct {
	RequestID uuid.UUID   `json:"request_id"`
	RadiusKm  float64     `json:"radius_km"`
	Donors    []Candidate `json:"donors"`
	Counts    MatchCounts `json:"counts"`
}

func (s *Service) resolveRadius(radiusKm float64) (float64, error) {
	if radiusKm == 0 {
		return s.cfg.DefaultRadiusKm, nil
	}
	if radiusKm < 0 {
		return 0, errs.Errorf(errs.CodeInvalidArgument, "radius must be positive, got %v", radiusKm)
	}
	if radiusKm > s.cfg.MaxRadiusKm {
		return 0, errs.Errorf(errs.CodeInvalidArgument,
			"radius %v km exceeds the %v km maximum", radiusKm, s.cfg.MaxRadiusKm)
	}
	return radiusKm, nil
}

// NearbyDonors finds available donors of the request's blood group within
// radiusKm of the requesting hospital, nearest first. Donors without
// coordinates are skipped. A zero radius applies the configured default.
func (s *Service) NearbyDonors(ctx context.Context, requestID uuid.UUID, radiusKm float64) (*MatchResult, error) {
	start := time.Now()
	radius, err := s.resolveRadius(radiusKm)
	if err != nil {
		return nil, err
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	hosp, err := s.hospitals.GetByID(ctx, req.HospitalID)
	if err != nil {
		return nil, err
	}
	donors, err := s.donors.ListAvailableByGroup(ctx, req.BloodGroup)
	if err != nil {
		return nil, err
	}

	result := &MatchResult{
		RequestID: requestID,
		RadiusKm:  radius,
		Donors:    []Candidate{},
	}
	for _, d := range donors {
		if !d.BloodGroup.Matches(req.BloodGroup) {
			continue
		}
		dist, known := d.DistanceFromKm(hosp.Latitude, hosp.Longitude)
		if !known || dist > radius {
			continue
		}
		result.Donors = append(result.Donors, NewCandidate(d, hosp.Latitude, hosp.Longitude))
	}
	SortCandidates(result.Donors)

	for _, c := range result.Donors {
		result.Counts.Total++
		if *c.DistanceKm <= highTierKm {
			result.Counts.Within5Km++
		}
		if *c.DistanceKm <= mediumTierKm {
			result.Counts.Within10Km++
		}
	}

	if s.metrics != nil {
		s.metrics.ObserveMatch(start)
	}
	return result, nil
}

// RankedEntry is a ledger entry annotated with the responding donor's
// proximity to the requesting hospital.
type RankedEntry struct {
	Entry      *ledger.Entry `json:"entry"`
	Donor      *donor.Donor  `json:"donor,omitempty"`
	DistanceKm *float64      `json:"distance_km,omitempty"`
	Tier       Tier          `json:"tier"`
	Reason     string        `json:"reason"`
}

// PrioritizedResponses returns the request's ledger entries ordered by donor
// proximity: tier first, then distance, unknown locations last. Entries
// whose donor record no longer exists keep their place in the low tier.
func (s *Service) PrioritizedResponses(ctx context.Context, requestID uuid.UUID) ([]*RankedEntry, error) {
	start := time.Now()
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	hosp, err := s.hospitals.GetByID(ctx, req.HospitalID)
	if err != nil {
		return nil, err
	}
	l, err := s.ledgers.GetByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	ranked := make([]*RankedEntry, 0, len(l.Entries))
	for _, e := range l.Entries {
		re := &RankedEntry{Entry: e, Tier: TierLow, Reason: "location unknown"}
		if d, err := s.donors.GetByID(ctx, e.DonorID); err == nil {
			c := NewCandidate(d, hosp.Latitude, hosp.Longitude)
			re.Donor = d
			re.DistanceKm = c.DistanceKm
			re.Tier = c.Tier
			re.Reason = c.Reason
		}
		ranked = append(ranked, re)
	}

	sortRankedEntries(ranked)

	if s.metrics != nil {
		s.metrics.ObserveRank(start)
	}
	return ranked, nil
}

// sortRankedEntries applies the candidate ordering to annotated entries:
// tier ascending, distance ascending, unknown distances last in tier.
func sortRankedEntries(entries []*RankedEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Tier != entries[j].Tier {
			return entries[i].Tier < entries[j].Tier
		}
		di, dj := entries[i].DistanceKm, entries[j].DistanceKm
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return *di < *dj
		}
	})
}

// MatchedRequest is an active request annotated with its distance from a
// donor.
type MatchedRequest struct {
	Request    *request.Request `json:"request"`
	DistanceKm *float64         `json:"distance_km,omitempty"`
}

// RequestsForDonor lists active requests for the donor's blood group, most
// urgent first. When radiusKm is positive and the donor has coordinates,
// requests from hospitals beyond the radius are dropped.
func (s *Service) RequestsForDonor(ctx context.Context, donorID uuid.UUID, radiusKm float64) ([]*MatchedRequest, error) {
	d, err := s.donors.GetByID(ctx, donorID)
	if err != nil {
		return nil, err
	}
	if radiusKm < 0 {
		return nil, errs.Errorf(errs.CodeInvalidArgument, "radius must be positive, got %v", radiusKm)
	}

	active, err := s.requests.ListActiveByGroup(ctx, d.BloodGroup)
	if err != nil {
		return nil, err
	}

	matched := make([]*MatchedRequest, 0, len(active))
	for _, req := range active {
		m := &MatchedRequest{Request: req}
		if hosp, err := s.hospitals.GetByID(ctx, req.HospitalID); err == nil {
			if dist, known := d.DistanceFromKm(hosp.Latitude, hosp.Longitude); known {
				m.DistanceKm = &dist
			}
		}
		if radiusKm > 0 && m.DistanceKm != nil && *m.DistanceKm > radiusKm {
			continue
		}
		matched = append(matched, m)
	}
	return matched, nil
}
