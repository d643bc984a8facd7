package service

import (
	"errors"
	"testing"

	"github.com/lshigami/Kinkajou/internal/dto"
	"github.com/lshigami/Kinkajou/internal/model"
	"github.com/lshigami/Kinkajou/internal/repository"
)

type engineFixture struct {
	tripRepo       *mockTripRepo
	tripModuleRepo *mockTripModuleRepo
	telemetryRepo  *mockTelemetryRepo
	inspectionRepo *mockInspectionRepo
	engine         RiskEngineService
}

func newEngineFixture() *engineFixture {
	policy := DefaultRiskPolicy()
	f := &engineFixture{
		tripRepo:       newMockTripRepo(),
		tripModuleRepo: newMockTripModuleRepo(),
		telemetryRepo:  &mockTelemetryRepo{},
		inspectionRepo: &mockInspectionRepo{},
	}
	phaseScorer := NewPhaseScorerService(NewModuleScorerService(f.tripModuleRepo, policy), policy)
	f.engine = NewRiskEngineService(f.tripRepo, f.tripModuleRepo, f.telemetryRepo, f.inspectionRepo, phaseScorer, policy)
	return f
}

func phase(score float64) dto.PhaseScore {
	return dto.PhaseScore{Score: score}
}

func TestCombineLevelBoundaries(t *testing.T) {
	f := newEngineFixture()
	cases := []struct {
		postTrip float64 // only the post-trip phase is loaded (weight 0.2) so totals stay exact
		want     model.RiskLevel
	}{
		{50, model.RiskLow},       // total 10
		{55, model.RiskMedium},    // total 11
		{125, model.RiskMedium},   // total 25
		{130, model.RiskHigh},     // total 26
		{250, model.RiskHigh},     // total 50
		{255, model.RiskCritical}, // total 51
	}
	for _, tc := range cases {
		total, level, _ := f.engine.Combine(phase(0), phase(0), phase(tc.postTrip))
		if level != tc.want {
			t.Errorf("post-trip %v (total %v): expected level %s, got %s", tc.postTrip, total, tc.want, level)
		}
	}
}

func TestCombineWeightedScenario(t *testing.T) {
	f := newEngineFixture()
	total, level, compliance := f.engine.Combine(phase(20), phase(10), phase(5))
	if total != 13 {
		t.Errorf("expected round(20x0.4 + 10x0.4 + 5x0.2) = 13, got %v", total)
	}
	if level != model.RiskMedium {
		t.Errorf("expected medium, got %s", level)
	}
	// A pre-trip phase above 15 downgrades the verdict even at a medium level.
	if compliance != model.Conditional {
		t.Errorf("expected conditional, got %s", compliance)
	}
}

func TestCombineCompliantVerdict(t *testing.T) {
	f := newEngineFixture()
	total, level, compliance := f.engine.Combine(phase(15), phase(10), phase(10))
	if total != 12 {
		t.Errorf("expected total 12, got %v", total)
	}
	if level != model.RiskMedium {
		t.Errorf("expected medium, got %s", level)
	}
	// 15, 10 and 10 all sit exactly on their cutoffs without crossing them.
	if compliance != model.Compliant {
		t.Errorf("expected compliant, got %s", compliance)
	}
}

func TestCombineInTripOverridesVerdict(t *testing.T) {
	f := newEngineFixture()
	total, level, compliance := f.engine.Combine(phase(0), phase(31), phase(0))
	if level != model.RiskMedium {
		t.Errorf("expected medium level for total %v, got %s", total, level)
	}
	if compliance != model.NonCompliant {
		t.Errorf("an in-trip phase above 30 must force non_compliant, got %s", compliance)
	}
}

func TestCombineIsPure(t *testing.T) {
	f := newEngineFixture()
	pre, in, post := phase(17), phase(9), phase(22)
	t1, l1, c1 := f.engine.Combine(pre, in, post)
	t2, l2, c2 := f.engine.Combine(pre, in, post)
	if t1 != t2 || l1 != l2 || c1 != c2 {
		t.Errorf("identical inputs produced (%v,%s,%s) then (%v,%s,%s)", t1, l1, c1, t2, l2, c2)
	}
}

func TestCalculateScoreAbsenceOnly(t *testing.T) {
	f := newEngineFixture()
	f.tripRepo.add(&model.Trip{ID: 1, Status: model.TripSubmitted})

	breakdown, err := f.engine.CalculateComprehensiveRiskScore(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if breakdown.PreTripScore != 0 || breakdown.InTripScore != 0 {
		t.Errorf("empty streams must stay neutral, got pre %v in %v", breakdown.PreTripScore, breakdown.InTripScore)
	}
	if breakdown.PostTripScore != 15 {
		t.Errorf("missing inspection should score 15, got %v", breakdown.PostTripScore)
	}
	// Only the absence penalty contributes: 15 x 0.2.
	if breakdown.TotalScore != 3 {
		t.Errorf("expected total 3, got %v", breakdown.TotalScore)
	}
	if breakdown.RiskLevel != model.RiskLow {
		t.Errorf("expected low, got %s", breakdown.RiskLevel)
	}
	if breakdown.ComplianceStatus != model.Conditional {
		t.Errorf("post-trip 15 exceeds its cutoff, expected conditional, got %s", breakdown.ComplianceStatus)
	}
}

func TestCalculateScoreTripNotFound(t *testing.T) {
	f := newEngineFixture()
	_, err := f.engine.CalculateComprehensiveRiskScore(99)
	if !errors.Is(err, ErrTripNotFound) {
		t.Errorf("expected ErrTripNotFound, got %v", err)
	}
}

func TestCalculateScoreFetchFailure(t *testing.T) {
	f := newEngineFixture()
	f.tripRepo.add(&model.Trip{ID: 1, Status: model.TripSubmitted})
	f.telemetryRepo.violationsErr = errors.New("connection reset")

	_, err := f.engine.CalculateComprehensiveRiskScore(1)
	var unavailable *ScoringUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("a fetch failure must surface as ScoringUnavailableError, got %v", err)
	}
	if unavailable.Stream != "speed_violations" {
		t.Errorf("expected the failing stream name, got %q", unavailable.Stream)
	}
	if unavailable.TripID != 1 {
		t.Errorf("expected trip id 1, got %d", unavailable.TripID)
	}
}

func TestCalculateAndSnapshotPersists(t *testing.T) {
	f := newEngineFixture()
	trip := f.tripRepo.add(&model.Trip{ID: 1, Status: model.TripSubmitted})
	f.inspectionRepo.inspection = &model.PostTripInspection{Status: model.InspectionCompleted}

	breakdown, err := f.engine.CalculateAndSnapshot(1, "manual")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.AggregateScore == nil || *trip.AggregateScore != breakdown.TotalScore {
		t.Errorf("snapshot score not persisted: trip %+v breakdown total %v", trip.AggregateScore, breakdown.TotalScore)
	}
	if trip.RiskLevel == nil || *trip.RiskLevel != breakdown.RiskLevel {
		t.Error("snapshot risk level not persisted")
	}
	if trip.ScoreVersion != 1 {
		t.Errorf("expected score version bumped to 1, got %d", trip.ScoreVersion)
	}
}

func TestCalculateAndSnapshotToleratesStaleWrite(t *testing.T) {
	f := newEngineFixture()
	f.tripRepo.add(&model.Trip{ID: 1, Status: model.TripSubmitted})
	f.tripRepo.snapshotErr = repository.ErrSnapshotStale

	breakdown, err := f.engine.CalculateAndSnapshot(1, "manual")
	if err != nil {
		t.Fatalf("losing the write race must not fail the recalculation, got %v", err)
	}
	if breakdown == nil {
		t.Fatal("expected the fresh breakdown despite the stale write")
	}
}

func TestCalculateScoreRecomputationIsIdempotent(t *testing.T) {
	f := newEngineFixture()
	f.tripRepo.add(&model.Trip{ID: 1, Status: model.TripSubmitted})
	tm := tripModuleWith(model.PhasePreTrip, "functional_checks",
		[]model.ChecklistItem{passFailItem(1, "Brakes", model.CategoryMechanical, true, 5)},
		[]model.ModuleAnswer{answer(1, "fail")}, true)
	tm.TripID = 1
	f.tripModuleRepo.add(&tm)
	f.telemetryRepo.violations = []model.SpeedViolation{{PointsDeducted: 4}}

	first, err := f.engine.CalculateComprehensiveRiskScore(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := f.engine.CalculateComprehensiveRiskScore(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.TotalScore != second.TotalScore ||
		first.RiskLevel != second.RiskLevel ||
		first.ComplianceStatus != second.ComplianceStatus {
		t.Errorf("recomputation with unchanged inputs diverged: %v/%s/%s vs %v/%s/%s",
			first.TotalScore, first.RiskLevel, first.ComplianceStatus,
			second.TotalScore, second.RiskLevel, second.ComplianceStatus)
	}
}
