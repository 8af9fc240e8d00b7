package donor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
	"github.com/bloodlink/bloodlink/pkg/errs"
)

// fakeRepo is an in-memory DonorRepository for service tests.
type fakeRepo struct {
	mu     sync.Mutex
	byID   map[uuid.UUID]*Donor
	byCode map[string]uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:   make(map[uuid.UUID]*Donor),
		byCode: make(map[string]uuid.UUID),
	}
}

func (r *fakeRepo) Create(_ context.Context, d *Donor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byCode[d.Code]; ok {
		return errs.Errorf(errs.CodeConflict, "donor code %s already registered", d.Code)
	}
	d.ID = uuid.New()
	cp := *d
	r.byID[d.ID] = &cp
	r.byCode[d.Code] = d.ID
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Donor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byID[id]
	if !ok {
		return nil, errs.New(errs.CodeNotFound, "donor not found")
	}
	cp := *d
	return &cp, nil
}

func (r *fakeRepo) GetByCode(_ context.Context, code string) (*Donor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byCode[code]
	if !ok {
		return nil, errs.New(errs.CodeNotFound, "donor not found")
	}
	cp := *r.byID[id]
	return &cp, nil
}

func (r *fakeRepo) Update(_ context.Context, d *Donor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[d.ID]; !ok {
		return errs.New(errs.CodeNotFound, "donor not found")
	}
	cp := *d
	r.byID[d.ID] = &cp
	return nil
}

func (r *fakeRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byID[id]
	if !ok {
		return errs.New(errs.CodeNotFound, "donor not found")
	}
	d.Available = false
	return nil
}

func (r *fakeRepo) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Donor, int, error) {
	return nil, 0, nil
}

func (r *fakeRepo) ListAvailableByGroup(_ context.Context, group blood.Group) ([]*Donor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*Donor
	for _, d := range r.byID {
		if d.Available && d.BloodGroup == group {
			cp := *d
			items = append(items, &cp)
		}
	}
	return items, nil
}

func validDonor() *Donor {
	return &Donor{
		Code:       "DNR-001",
		Name:       "Asha Rao",
		Gender:     "female",
		Age:        28,
		BloodGroup: blood.OPos,
		Phone:      "+91-9876543210",
		Available:  true,
	}
}

func TestCreateDonor_Valid(t *testing.T) {
	svc := NewService(newFakeRepo(), DefaultCooldownPolicy())
	d := validDonor()
	if err := svc.CreateDonor(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestCreateDonor_NormalizesCode(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, DefaultCooldownPolicy())
	d := validDonor()
	d.Code = " dnr-001 "
	if err := svc.CreateDonor(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Code != "DNR-001" {
		t.Errorf("expected normalized code DNR-001, got %q", d.Code)
	}
}

func TestCreateDonor_Validation(t *testing.T) {
	svc := NewService(newFakeRepo(), DefaultCooldownPolicy())

	tests := []struct {
		name   string
		mutate func(*Donor)
	}{
		{"bad code", func(d *Donor) { d.Code = "x" }},
		{"missing name", func(d *Donor) { d.Name = "" }},
		{"bad gender", func(d *Donor) { d.Gender = "unknown" }},
		{"too young", func(d *Donor) { d.Age = 17 }},
		{"too old", func(d *Donor) { d.Age = 66 }},
		{"bad blood group", func(d *Donor) { d.BloodGroup = "C+" }},
		{"missing phone", func(d *Donor) { d.Phone = "" }},
		{"lat without lon", func(d *Donor) { lat := 19.0; d.Latitude = &lat }},
		{"out of range coords", func(d *Donor) {
			lat, lon := 95.0, 72.0
			d.Latitude, d.Longitude = &lat, &lon
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDonor()
			tt.mutate(d)
			err := svc.CreateDonor(context.Background(), d)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errs.IsInvalidArgument(err) {
				t.Errorf("expected invalid argument code, got %v", errs.CodeOf(err))
			}
		})
	}
}

func TestCreateDonor_DuplicateCode(t *testing.T) {
	svc := NewService(newFakeRepo(), DefaultCooldownPolicy())
	if err := svc.CreateDonor(context.Background(), validDonor()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := svc.CreateDonor(context.Background(), validDonor())
	if !errs.IsConflict(err) {
		t.Errorf("expected conflict for duplicate code, got %v", err)
	}
}

func TestRecordDonation(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, DefaultCooldownPolicy())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	d := validDonor()
	if err := svc.CreateDonor(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.RecordDonation(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.DonationCount != 1 {
		t.Errorf("expected donation count 1, got %d", updated.DonationCount)
	}
	if updated.LastDonated == nil || !updated.LastDonated.Equal(now) {
		t.Errorf("expected last donated %v, got %v", now, updated.LastDonated)
	}

	// Second donation increments again
	updated, err = svc.RecordDonation(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.DonationCount != 2 {
		t.Errorf("expected donation count 2, got %d", updated.DonationCount)
	}
}

func TestEligibility_AfterDonation(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, DefaultCooldownPolicy())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	d := validDonor()
	if err := svc.CreateDonor(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status, err := svc.Eligibility(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.Eligible {
		t.Error("expected new donor to be eligible")
	}

	if _, err := svc.RecordDonation(context.Background(), d.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status, err = svc.Eligibility(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Eligible {
		t.Error("expected donor to be in rest period right after donating")
	}
	if status.CooldownDays != 84 {
		t.Errorf("expected 84 day rest period for female donor, got %d", status.CooldownDays)
	}
	if status.NextEligibleAt == nil {
		t.Error("expected next eligible time")
	}
}

func TestSetAvailability(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, DefaultCooldownPolicy())

	d := validDonor()
	if err := svc.CreateDonor(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.SetAvailability(context.Background(), d.ID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Available {
		t.Error("expected donor to be unavailable")
	}

	stored, _ := repo.GetByID(context.Background(), d.ID)
	if stored.Available {
		t.Error("expected availability change to persist")
	}
}

func TestUpdateDonor_PreservesHistory(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, DefaultCooldownPolicy())

	d := validDonor()
	if err := svc.CreateDonor(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.RecordDonation(context.Background(), d.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	update := validDonor()
	update.ID = d.ID
	update.Code = "HACKED"
	update.Name = "Asha R."
	update.DonationCount = 99
	if err := svc.UpdateDonor(context.Background(), update); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), d.ID)
	if stored.Code != "DNR-001" {
		t.Errorf("expected code to be immutable, got %q", stored.Code)
	}
	if stored.DonationCount != 1 {
		t.Errorf("expected donation count preserved at 1, got %d", stored.DonationCount)
	}
	if stored.Name != "Asha R." {
		t.Errorf("expected name update to apply, got %q", stored.Name)
	}
}

func TestGetDonorByCode_Normalizes(t *testing.T) {
	svc := NewService(newFakeRepo(), DefaultCooldownPolicy())
	d := validDonor()
	if err := svc.CreateDonor(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.GetDonorByCode(context.Background(), "dnr-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != d.ID {
		t.Error("expected lookup by lowercase code to find donor")
	}
}

func TestCreateDonor_NormalizesGenderCase(t *testing.T) {
	svc := NewService(newFakeRepo(), DefaultCooldownPolicy())

	for _, gender := range []string{"Female", "MALE", " Other "} {
		d := validDonor()
		d.Code = "DNR-" + NormalizeCode(gender)
		d.Gender = gender
		if err := svc.CreateDonor(context.Background(), d); err != nil {
			t.Fatalf("gender %q rejected: %v", gender, err)
		}
	}

	d := validDonor()
	d.Code = "DNR-F2"
	d.Gender = "Female"
	if err := svc.CreateDonor(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Gender != "female" {
		t.Errorf("expected gender stored lowercase, got %q", d.Gender)
	}

	// Title-cased female still gets the longer rest period.
	status, err := svc.Eligibility(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.CooldownDays != 84 {
		t.Errorf("expected 84 day cooldown, got %d", status.CooldownDays)
	}
}

func TestDeactivateDonor_KeepsRecord(t *testing.T) {
	svc := NewService(newFakeRepo(), DefaultCooldownPolicy())
	d := validDonor()
	if err := svc.CreateDonor(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.DeactivateDonor(context.Background(), d.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The donor record survives deactivation so past responses resolve.
	stored, err := svc.GetDonor(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("expected donor to remain retrievable, got %v", err)
	}
	if stored.Available {
		t.Error("expected donor to be unavailable after deactivation")
	}

	groups, err := svc.ListAvailableByGroup(context.Background(), d.BloodGroup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, g := range groups {
		if g.ID == d.ID {
			t.Error("expected deactivated donor to be excluded from matching pool")
		}
	}
}

func TestDeactivateDonor_NotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), DefaultCooldownPolicy())
	if err := svc.DeactivateDonor(context.Background(), uuid.New()); !errs.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}
