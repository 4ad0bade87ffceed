package profile

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayurai/ayurai/internal/dosha"
	"github.com/ayurai/ayurai/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "profile.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewService(st.ProfileRepo(), nil)
}

func TestAge(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		dob  string
		want int
	}{
		{"1990-03-10", 36},
		{"1990-03-11", 35},
		{"2000-01-01", 26},
		{"", -1},
		{"10/03/1990", -1},
		{"2030-01-01", -1},
	}
	for _, tt := range tests {
		p := &Profile{Bio: Bio{DOB: tt.dob}}
		if got := p.Age(now); got != tt.want {
			t.Errorf("Age(%q) = %d, want %d", tt.dob, got, tt.want)
		}
	}
}

func TestAssessed(t *testing.T) {
	var nilProfile *Profile
	if nilProfile.Assessed() {
		t.Error("nil profile should not be assessed")
	}
	if (&Profile{}).Assessed() {
		t.Error("empty profile should not be assessed")
	}
	if !(&Profile{Prakriti: dosha.Kapha}).Assessed() {
		t.Error("profile with prakriti should be assessed")
	}
}

func TestUpdateBio(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p != nil {
		t.Fatal("expected no profile")
	}

	p, err = svc.UpdateBio(ctx, "u1", Bio{Name: "Asha", DOB: "1990-04-12", BirthPlace: "Kochi"})
	if err != nil {
		t.Fatalf("update bio: %v", err)
	}
	if p.Bio.Name != "Asha" || p.Prakriti != "" {
		t.Fatalf("profile = %+v", p)
	}

	// Empty fields keep the stored values.
	p, err = svc.UpdateBio(ctx, "u1", Bio{CurrentLocation: "  Pune "})
	if err != nil {
		t.Fatalf("update location: %v", err)
	}
	if p.Bio.Name != "Asha" || p.Bio.BirthPlace != "Kochi" || p.Bio.CurrentLocation != "Pune" {
		t.Fatalf("merged bio = %+v", p.Bio)
	}

	stored, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Bio != p.Bio {
		t.Errorf("stored bio = %+v, want %+v", stored.Bio, p.Bio)
	}

	if _, err := svc.UpdateBio(ctx, "u1", Bio{DOB: "12-04-1990"}); !errors.Is(err, ErrInvalidDOB) {
		t.Errorf("expected ErrInvalidDOB, got %v", err)
	}
}
