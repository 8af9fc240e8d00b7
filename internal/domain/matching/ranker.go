// Package matching implements donor/request matching: radius search around
// a hospital, proximity tiering, and priority ordering.
package matching

import (
	"fmt"
	"sort"

	"github.com/bloodlink/bloodlink/internal/domain/donor"
	"github.com/bloodlink/bloodlink/internal/domain/request"
)

// Tier buckets donors by proximity to the requesting hospital.
type Tier int

const (
	TierHigh   Tier = iota + 1 // within 5 km
	TierMedium                 // over 5 km, within 10 km
	TierLow                    // beyond 10 km, or location unknown
)

func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "High"
	case TierMedium:
		return "Medium"
	case TierLow:
		return "Low"
	default:
		return "Unknown"
	}
}

// MarshalJSON renders the tier by name.
func (t Tier) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

const (
	highTierKm   = 5.0
	mediumTierKm = 10.0
)

// TierFor returns the proximity tier for a donor distance. known is false
// when the donor has no usable coordinates.
func TierFor(distanceKm float64, known bool) Tier {
	switch {
	case !known:
		return TierLow
	case distanceKm <= highTierKm:
		return TierHigh
	case distanceKm <= mediumTierKm:
		return TierMedium
	default:
		return TierLow
	}
}

// tierReason explains the tier assignment for API consumers.
func tierReason(distanceKm float64, known bool) string {
	switch {
	case !known:
		return "location unknown"
	case distanceKm <= highTierKm:
		return fmt.Sprintf("%.1f km away, within 5 km", distanceKm)
	case distanceKm <= mediumTierKm:
		return fmt.Sprintf("%.1f km away, within 10 km", distanceKm)
	default:
		return fmt.Sprintf("%.1f km away, beyond 10 km", distanceKm)
	}
}

// Candidate is a donor annotated with proximity to a hospital.
type Candidate struct {
	Donor      *donor.Donor `json:"donor"`
	DistanceKm *float64     `json:"distance_km,omitempty"`
	Tier       Tier         `json:"tier"`
	Reason     string       `json:"reason"`
}

// NewCandidate annotates a donor with distance and tier relative to the
// given hospital location.
func NewCandidate(d *donor.Donor, lat, lon float64) Candidate {
	dist, known := d.DistanceFromKm(lat, lon)
	c := Candidate{
		Donor:  d,
		Tier:   TierFor(dist, known),
		Reason: tierReason(dist, known),
	}
	if known {
		c.DistanceKm = &dist
	}
	return c
}

// SortCandidates orders candidates best first: tier ascending, then distance
// ascending, with unknown distances after known ones inside a tier. The sort
// is stable so equally placed donors keep their input order.
func SortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Tier != candidates[j].Tier {
			return candidates[i].Tier < candidates[j].Tier
		}
		di, dj := candidates[i].DistanceKm, candidates[j].DistanceKm
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

// RankRequests orders requests most urgent first, newest first within equal
// urgency. The sort is stable.
func RankRequests(requests []*request.Request) {
	sort.SliceStable(requests, func(i, j int) bool {
		ri, rj := requests[i].Urgency.Rank(), requests[j].Urgency.Rank()
		if ri != rj {
			return ri > rj
		}
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
}
