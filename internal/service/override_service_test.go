package service

import (
	"errors"
	"testing"

	"github.com/lshigami/Kinkajou/internal/dto"
	"github.com/lshigami/Kinkajou/internal/model"
)

type overrideFixture struct {
	tripRepo    *mockTripRepo
	failureRepo *mockFailureRepo
	service     OverrideService
}

func newOverrideFixture() *overrideFixture {
	f := &overrideFixture{
		tripRepo:    newMockTripRepo(),
		failureRepo: newMockFailureRepo(),
	}
	f.service = NewOverrideService(f.tripRepo, f.failureRepo, DefaultRiskPolicy())
	return f
}

func TestOverrideCleanTripCanApprove(t *testing.T) {
	f := newOverrideFixture()
	f.tripRepo.add(&model.Trip{ID: 1, Status: model.TripSubmitted})

	decision, err := f.service.CheckCriticalFailureOverride(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.NeedsOverride || decision.HasHighImpactFailure {
		t.Errorf("no failures should mean no override: %+v", decision)
	}
	if !decision.CanApprove {
		t.Error("a clean submitted trip should be approvable")
	}
}

func TestOverrideHighImpactBoundary(t *testing.T) {
	f := newOverrideFixture()
	f.tripRepo.add(&model.Trip{ID: 1, Status: model.TripSubmitted})
	f.failureRepo.add(model.CriticalFailure{TripID: 1, Points: 10, Category: model.CategoryGeneral, Description: "coolant leak"})

	decision, err := f.service.CheckCriticalFailureOverride(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.HasHighImpactFailure {
		t.Error("points exactly 10 must count as high impact")
	}

	f2 := newOverrideFixture()
	f2.tripRepo.add(&model.Trip{ID: 1, Status: model.TripSubmitted})
	f2.failureRepo.add(model.CriticalFailure{TripID: 1, Points: 9, Category: model.CategoryGeneral, Description: "coolant leak"})

	decision, err = f2.service.CheckCriticalFailureOverride(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.HasHighImpactFailure {
		t.Error("points 9 must not count as high impact")
	}
	// 9 points still crosses the 5-point override threshold.
	if !decision.NeedsOverride {
		t.Error("9 points should still need an override")
	}
	if decision.CanApprove {
		t.Error("a trip needing an override is not freely approvable")
	}
}

func TestOverrideAccumulatedSmallFailures(t *testing.T) {
	f := newOverrideFixture()
	f.tripRepo.add(&model.Trip{ID: 1, Status: model.TripSubmitted})
	f.failureRepo.add(model.CriticalFailure{TripID: 1, Points: 3, Category: model.CategoryGeneral, Description: "worn wiper"})
	f.failureRepo.add(model.CriticalFailure{TripID: 1, Points: 3, Category: model.CategoryGeneral, Description: "dim marker light"})

	decision, err := f.service.CheckCriticalFailureOverride(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.TotalCriticalPoints != 6 {
		t.Errorf("expected total 6, got %v", decision.TotalCriticalPoints)
	}
	if !decision.NeedsOverride {
		t.Error("accumulated points past the threshold should need an override")
	}
	if decision.HasHighImpactFailure {
		t.Error("no single failure reaches the high-impact threshold")
	}
}

func TestOverrideIgnoresResolvedFailures(t *testing.T) {
	f := newOverrideFixture()
	f.tripRepo.add(&model.Trip{ID: 1, Status: model.TripSubmitted})
	f.failureRepo.add(model.CriticalFailure{TripID: 1, Points: 12, Resolved: true, Category: model.CategoryGeneral, Description: "fixed brakes"})

	decision, err := f.service.CheckCriticalFailureOverride(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.NeedsOverride || decision.HasHighImpactFailure {
		t.Errorf("resolved failures must not block: %+v", decision)
	}
	if !decision.CanApprove {
		t.Error("expected CanApprove after resolution")
	}
}

func TestOverrideMechanicReviewByCategory(t *testing.T) {
	f := newOverrideFixture()
	f.tripRepo.add(&model.Trip{ID: 1, Status: model.TripSubmitted})
	f.failureRepo.add(model.CriticalFailure{TripID: 1, Points: 2, Category: model.CategoryMechanical, Description: "brake pads thin"})

	decision, err := f.service.CheckCriticalFailureOverride(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.RequiresMechanicReview {
		t.Error("a mechanical-category failure must require mechanic review")
	}
}

func TestOverrideMechanicReviewLegacyLabelFallback(t *testing.T) {
	f := newOverrideFixture()
	f.tripRepo.add(&model.Trip{ID: 1, Status: model.TripSubmitted})
	itemID := uint(4)
	f.failureRepo.add(model.CriticalFailure{
		TripID:   1,
		ItemID:   &itemID,
		Item:     &model.ChecklistItem{ID: itemID, Label: "Vehicle exterior check"},
		Category: model.CategoryGeneral,
		Points:   2,
	})

	decision, err := f.service.CheckCriticalFailureOverride(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.RequiresMechanicReview {
		t.Error("a general-category failure with a vehicle label should fall back to the label heuristic")
	}
}

func TestOverrideCategoryBeatsLabel(t *testing.T) {
	f := newOverrideFixture()
	f.tripRepo.add(&model.Trip{ID: 1, Status: model.TripSubmitted})
	// Driver-category failure whose label happens to mention the vehicle:
	// the structured category wins and no mechanic is needed.
	itemID := uint(4)
	f.failureRepo.add(model.CriticalFailure{
		TripID:   1,
		ItemID:   &itemID,
		Item:     &model.ChecklistItem{ID: itemID, Label: "Driver fit to operate vehicle"},
		Category: model.CategoryDriver,
		Points:   2,
	})

	decision, err := f.service.CheckCriticalFailureOverride(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.RequiresMechanicReview {
		t.Error("a driver-category failure must not route to a mechanic on label text alone")
	}
}

func TestOverrideTripNotFound(t *testing.T) {
	f := newOverrideFixture()
	_, err := f.service.CheckCriticalFailureOverride(42)
	if !errors.Is(err, ErrTripNotFound) {
		t.Errorf("expected ErrTripNotFound, got %v", err)
	}
}

func TestLogFailureManually(t *testing.T) {
	f := newOverrideFixture()
	f.tripRepo.add(&model.Trip{ID: 1, Status: model.TripSubmitted})

	resp, err := f.service.LogFailure(dto.LogFailureRequest{
		TripID:      1,
		Category:    "mechanical",
		Description: "hydraulic fluid on the ground",
		Points:      8,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ID == 0 {
		t.Error("expected the stored failure id on the response")
	}
	if resp.Points != 8 {
		t.Errorf("expected points 8, got %v", resp.Points)
	}

	decision, err := f.service.CheckCriticalFailureOverride(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.NeedsOverride || !decision.RequiresMechanicReview {
		t.Errorf("a logged mechanical failure should gate approval: %+v", decision)
	}
}

func TestLogFailureUnknownCategoryFallsBack(t *testing.T) {
	f := newOverrideFixture()
	f.tripRepo.add(&model.Trip{ID: 1, Status: model.TripSubmitted})

	resp, err := f.service.LogFailure(dto.LogFailureRequest{
		TripID:      1,
		Category:    "paperwork-ish",
		Description: "unclassifiable finding",
		Points:      1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Category != model.CategoryGeneral {
		t.Errorf("unknown categories should store as general, got %s", resp.Category)
	}
}

func TestResolveFailure(t *testing.T) {
	f := newOverrideFixture()
	f.tripRepo.add(&model.Trip{ID: 1, Status: model.TripSubmitted})
	stored := f.failureRepo.add(model.CriticalFailure{TripID: 1, Points: 12, Category: model.CategoryMechanical, Description: "brake line"})

	resp, err := f.service.ResolveFailure(stored.ID, 77)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Resolved {
		t.Error("expected resolved response")
	}
	if resp.ResolvedBy == nil || *resp.ResolvedBy != 77 {
		t.Error("expected the resolver id recorded")
	}

	if _, err = f.service.ResolveFailure(stored.ID, 77); !errors.Is(err, ErrFailureAlreadyResolved) {
		t.Errorf("expected ErrFailureAlreadyResolved, got %v", err)
	}
}

func TestDeleteFailure(t *testing.T) {
	f := newOverrideFixture()
	stored := f.failureRepo.add(model.CriticalFailure{TripID: 1, Points: 3, Category: model.CategoryGeneral, Description: "scuffed bumper"})

	if err := f.service.DeleteFailure(stored.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.service.DeleteFailure(stored.ID); !errors.Is(err, ErrFailureNotFound) {
		t.Errorf("expected ErrFailureNotFound after deletion, got %v", err)
	}
}
