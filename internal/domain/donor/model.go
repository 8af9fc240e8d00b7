package donor

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
	"github.com/bloodlink/bloodlink/pkg/geo"
)

// Donor maps to the donor table.
type Donor struct {
	ID            uuid.UUID   `db:"id" json:"id"`
	Code          string      `db:"code" json:"code"`
	Name          string      `db:"name" json:"name"`
	Gender        string      `db:"gender" json:"gender"`
	Age           int         `db:"age" json:"age"`
	BloodGroup    blood.Group `db:"blood_group" json:"blood_group"`
	Phone         string      `db:"phone" json:"phone"`
	Email         *string     `db:"email" json:"email,omitempty"`
	City          *string     `db:"city" json:"city,omitempty"`
	Address       *string     `db:"address" json:"address,omitempty"`
	Latitude      *float64    `db:"latitude" json:"latitude,omitempty"`
	Longitude     *float64    `db:"longitude" json:"longitude,omitempty"`
	Available     bool        `db:"available" json:"available"`
	DonationCount int         `db:"donation_count" json:"donation_count"`
	LastDonated   *time.Time  `db:"last_donated" json:"last_donated,omitempty"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}

var codePattern = regexp.MustCompile(`^[A-Z0-9_-]{3,20}$`)

// NormalizeCode uppercases and trims a donor code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCode reports whether code is an acceptable donor code after
// normalization.
func ValidCode(code string) bool {
	return codePattern.MatchString(code)
}

// HasCoordinates reports whether the donor has a usable location.
func (d *Donor) HasCoordinates() bool {
	return d.Latitude != nil && d.Longitude != nil &&
		geo.ValidCoordinates(*d.Latitude, *d.Longitude)
}

// DistanceFromKm returns the great-circle distance from the donor to the
// given point. The boolean is false when the donor has no coordinates.
func (d *Donor) DistanceFromKm(lat, lon float64) (float64, bool) {
	if !d.HasCoordinates() {
		return 0, false
	}
	return geo.DistanceKm(*d.Latitude, *d.Longitude, lat, lon), true
}

// DaysSinceLastDonation returns the whole days elapsed since the donor last
// donated, or -1 if they never have.
func (d *Donor) DaysSinceLastDonation(now time.Time) int {
	if d.LastDonated == nil {
		return -1
	}
	return int(now.Sub(*d.LastDonated).Hours() / 24)
}

// CooldownPolicy holds the minimum rest period between donations in days.
type CooldownPolicy struct {
	FemaleDays  int
	DefaultDays int
}

// DefaultCooldownPolicy returns the standard rest periods: 84 days for
// female donors, 56 days otherwise.
func DefaultCooldownPolicy() CooldownPolicy {
	return CooldownPolicy{FemaleDays: 84, DefaultDays: 56}
}

// CooldownDays returns the rest period that applies to the given gender.
func (p CooldownPolicy) CooldownDays(gender string) int {
	if strings.EqualFold(gender, "female") {
		return p.FemaleDays
	}
	return p.DefaultDays
}

// EligibleToDonate reports whether the donor's rest period has elapsed.
// A donor who has never donated is always eligible. The result is advisory
// and never removes a donor from match results.
func (p CooldownPolicy) EligibleToDonate(d *Donor, now time.Time) bool {
	days := d.DaysSinceLastDonation(now)
	if days < 0 {
		return true
	}
	return days >= p.CooldownDays(d.Gender)
}

// NextEligibleAt returns when the donor's rest period ends. The boolean is
// false when the donor is already eligible.
func (p CooldownPolicy) NextEligibleAt(d *Donor, now time.Time) (time.Time, bool) {
	if d.LastDonated == nil {
		return time.Time{}, false
	}
	next := d.LastDonated.AddDate(0, 0, p.CooldownDays(d.Gender))
	if !next.After(now) {
		return time.Time{}, false
	}
	return next, true
}
