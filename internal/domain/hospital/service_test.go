package hospital

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/pkg/errs"
)

type fakeRepo struct {
	byID map[uuid.UUID]*Hospital
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[uuid.UUID]*Hospital)}
}

func (r *fakeRepo) Create(_ context.Context, h *Hospital) error {
	h.ID = uuid.New()
	cp := *h
	r.byID[h.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Hospital, error) {
	h, ok := r.byID[id]
	if !ok {
		return nil, errs.New(errs.CodeNotFound, "hospital not found")
	}
	cp := *h
	return &cp, nil
}

func (r *fakeRepo) Update(_ context.Context, h *Hospital) error {
	if _, ok := r.byID[h.ID]; !ok {
		return errs.New(errs.CodeNotFound, "hospital not found")
	}
	cp := *h
	r.byID[h.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.byID[id]; !ok {
		return errs.New(errs.CodeNotFound, "hospital not found")
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeRepo) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Hospital, int, error) {
	return nil, 0, nil
}

func validHospital() *Hospital {
	return &Hospital{
		Name:      "City General",
		Phone:     "+91-2223456789",
		City:      "Mumbai",
		Latitude:  19.0760,
		Longitude: 72.8777,
	}
}

func TestCreateHospital_Valid(t *testing.T) {
	svc := NewService(newFakeRepo())
	h := validHospital()
	if err := svc.CreateHospital(context.Background(), h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestCreateHospital_Validation(t *testing.T) {
	svc := NewService(newFakeRepo())

	tests := []struct {
		name   string
		mutate func(*Hospital)
	}{
		{"missing name", func(h *Hospital) { h.Name = "" }},
		{"missing phone", func(h *Hospital) { h.Phone = "" }},
		{"missing city", func(h *Hospital) { h.City = "" }},
		{"bad latitude", func(h *Hospital) { h.Latitude = 91 }},
		{"bad longitude", func(h *Hospital) { h.Longitude = -181 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := validHospital()
			tt.mutate(h)
			err := svc.CreateHospital(context.Background(), h)
			if !errs.IsInvalidArgument(err) {
				t.Errorf("expected invalid argument, got %v", err)
			}
		})
	}
}

func TestUpdateHospital_NotFound(t *testing.T) {
	svc := NewService(newFakeRepo())
	h := validHospital()
	h.ID = uuid.New()
	err := svc.UpdateHospital(context.Background(), h)
	if !errs.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestUpdateHospital_PinsIdentityFields(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	h := validHospital()
	if err := svc.CreateHospital(context.Background(), h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	email := "desk@citygeneral.example"
	edit := &Hospital{
		ID:        h.ID,
		Name:      "Renamed Clinic",
		Phone:     "+91-2299887766",
		Email:     &email,
		City:      "Pune",
		Latitude:  18.5204,
		Longitude: 73.8567,
	}
	if err := svc.UpdateHospital(context.Background(), edit); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := svc.GetHospital(context.Background(), h.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Name != "City General" {
		t.Errorf("expected name to stay %q, got %q", "City General", stored.Name)
	}
	if stored.Latitude != 19.0760 || stored.Longitude != 72.8777 {
		t.Errorf("expected coordinates to stay (19.0760, 72.8777), got (%v, %v)", stored.Latitude, stored.Longitude)
	}
	if stored.Phone != "+91-2299887766" {
		t.Errorf("expected phone updated, got %q", stored.Phone)
	}
	if stored.City != "Pune" {
		t.Errorf("expected city updated, got %q", stored.City)
	}
	if stored.Email == nil || *stored.Email != email {
		t.Errorf("expected email updated, got %v", stored.Email)
	}
}

func TestDeleteHospital(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	h := validHospital()
	if err := svc.CreateHospital(context.Background(), h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.DeleteHospital(context.Background(), h.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetHospital(context.Background(), h.ID); !errs.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}
