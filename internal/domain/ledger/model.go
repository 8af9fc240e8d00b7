package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Ledger is the single response record for a blood request. At most one
// ledger exists per request; donor responses are appended as entries.
type Ledger struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	RequestID  uuid.UUID  `db:"request_id" json:"request_id"`
	HospitalID *uuid.UUID `db:"hospital_id" json:"hospital_id,omitempty"`
	IsActive   bool       `db:"is_active" json:"is_active"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`

	Entries []*Entry `json:"entries,omitempty"`
}

// Entry is one donor's response appended to a ledger. Entries are
// append-only: they are never edited or removed.
type Entry struct {
	ID        uuid.UUID `db:"id" json:"id"`
	LedgerID  uuid.UUID `db:"ledger_id" json:"ledger_id"`
	DonorID   uuid.UUID `db:"donor_id" json:"donor_id"`
	Message   *string   `db:"message" json:"message,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
