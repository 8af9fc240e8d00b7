package request

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
)

// Urgency classifies how quickly a request must be served.
type Urgency string

const (
	UrgencyLow       Urgency = "Low"
	UrgencyMedium    Urgency = "Medium"
	UrgencyHigh      Urgency = "High"
	UrgencyEmergency Urgency = "Emergency"
)

var urgencyRank = map[Urgency]int{
	UrgencyLow:       1,
	UrgencyMedium:    2,
	UrgencyHigh:      3,
	UrgencyEmergency: 4,
}

// Rank returns the numeric priority of the urgency. Unknown urgencies rank
// lowest.
func (u Urgency) Rank() int {
	return urgencyRank[u]
}

// Valid reports whether u is a recognized urgency level.
func (u Urgency) Valid() bool {
	_, ok := urgencyRank[u]
	return ok
}

// Status is the lifecycle state of a blood request.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusFulfilled  Status = "Fulfilled"
	StatusCancelled  Status = "Cancelled"
)

// Valid reports whether s is a recognized status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusFulfilled, StatusCancelled:
		return true
	}
	return false
}

// Active reports whether the request still accepts donor responses.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusInProgress
}

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusFulfilled || s == StatusCancelled
}

const (
	MinQuantity      = 1
	MaxQuantity      = 1000
	MaxMessageLength = 500
)

// Request maps to the blood_request table.
type Request struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	HospitalID  uuid.UUID   `db:"hospital_id" json:"hospital_id"`
	PatientName *string     `db:"patient_name" json:"patient_name,omitempty"`
	BloodGroup  blood.Group `db:"blood_group" json:"blood_group"`
	Quantity    int         `db:"quantity" json:"quantity"`
	Urgency     Urgency     `db:"urgency" json:"urgency"`
	Status      Status      `db:"status" json:"status"`
	Message     *string     `db:"message" json:"message,omitempty"`
	NeededBy    *time.Time  `db:"needed_by" json:"needed_by,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}
