package service

import (
	"testing"

	"github.com/lshigami/Kinkajou/internal/dto"
	"github.com/lshigami/Kinkajou/internal/model"
)

func newModuleScorer(repo *mockTripModuleRepo) ModuleScorerService {
	if repo == nil {
		repo = newMockTripModuleRepo()
	}
	return NewModuleScorerService(repo, DefaultRiskPolicy())
}

func TestScoreModuleNoCriticalItems(t *testing.T) {
	scorer := newModuleScorer(nil)
	items := []model.ChecklistItem{
		passFailItem(1, "Cabin tidy", model.CategoryGeneral, false, 0),
		passFailItem(2, "Radio works", model.CategoryGeneral, false, 0),
	}
	tm := tripModuleWith(model.PhasePreTrip, "driver_info", items,
		[]model.ModuleAnswer{answer(1, "fail"), answer(2, "fail")}, true)

	scored := scorer.ScoreModule(&tm)
	if scored.Score != 0 {
		t.Errorf("expected zero score for module without critical items, got %v", scored.Score)
	}
	if scored.Factor != nil {
		t.Errorf("expected no risk factor, got %+v", scored.Factor)
	}
	if scored.CompletionRate != 1.0 {
		t.Errorf("expected completion rate 1.0, got %v", scored.CompletionRate)
	}
}

func TestScoreModuleAppliesWeightsAndMultiplier(t *testing.T) {
	scorer := newModuleScorer(nil)
	items := []model.ChecklistItem{
		passFailItem(1, "Brake response", model.CategoryMechanical, true, 5),
	}
	tm := tripModuleWith(model.PhasePreTrip, "functional_checks", items,
		[]model.ModuleAnswer{answer(1, "fail")}, true)

	scored := scorer.ScoreModule(&tm)
	// 5 points x 1.5 mechanical weight x 2.0 functional_checks multiplier
	if scored.Score != 15 {
		t.Errorf("expected score 15, got %v", scored.Score)
	}
	if scored.Factor == nil {
		t.Fatal("expected a risk factor for a failed critical item")
	}
	if scored.Factor.Impact != dto.ImpactHigh {
		t.Errorf("expected high impact, got %s", scored.Factor.Impact)
	}
}

func TestScoreModulePassingCriticalItemScoresZero(t *testing.T) {
	scorer := newModuleScorer(nil)
	items := []model.ChecklistItem{
		passFailItem(1, "Brake response", model.CategoryMechanical, true, 5),
	}
	tm := tripModuleWith(model.PhasePreTrip, "functional_checks", items,
		[]model.ModuleAnswer{answer(1, "pass")}, true)

	scored := scorer.ScoreModule(&tm)
	if scored.Score != 0 {
		t.Errorf("expected zero score for a passing critical item, got %v", scored.Score)
	}
	if scored.FailedCriticalItems != 0 {
		t.Errorf("expected no failed critical items, got %d", scored.FailedCriticalItems)
	}
}

func TestScoreModuleIgnoresSupersededAnswers(t *testing.T) {
	scorer := newModuleScorer(nil)
	items := []model.ChecklistItem{
		passFailItem(1, "Brake response", model.CategoryMechanical, true, 5),
	}
	old := answer(1, "fail")
	old.Superseded = true
	tm := tripModuleWith(model.PhasePreTrip, "functional_checks", items,
		[]model.ModuleAnswer{old, answer(1, "pass")}, true)

	scored := scorer.ScoreModule(&tm)
	if scored.Score != 0 {
		t.Errorf("superseded fail should not score, got %v", scored.Score)
	}
}

func TestScoreModuleMonotonicInFailures(t *testing.T) {
	scorer := newModuleScorer(nil)
	items := []model.ChecklistItem{
		passFailItem(1, "Brakes", model.CategoryMechanical, true, 5),
		passFailItem(2, "Lights", model.CategoryVehicle, true, 3),
		passFailItem(3, "Horn", model.CategoryVehicle, true, 2),
	}

	prev := 0.0
	answers := []model.ModuleAnswer{answer(1, "pass"), answer(2, "pass"), answer(3, "pass")}
	for fail := 0; fail <= len(items); fail++ {
		tm := tripModuleWith(model.PhasePreTrip, "visual_inspection", items, answers, true)
		scored := scorer.ScoreModule(&tm)
		if scored.Score < prev {
			t.Fatalf("score decreased from %v to %v after failing %d item(s)", prev, scored.Score, fail)
		}
		prev = scored.Score
		if fail < len(items) {
			answers = append([]model.ModuleAnswer{}, answers...)
			answers[fail].Value = "fail"
		}
	}
}

func TestScoreModuleEscalatesImpact(t *testing.T) {
	scorer := newModuleScorer(nil)
	items := []model.ChecklistItem{
		passFailItem(1, "Brakes", model.CategoryMechanical, true, 5),
		passFailItem(2, "Lights", model.CategoryVehicle, true, 3),
		passFailItem(3, "Horn", model.CategoryVehicle, true, 2),
	}
	tm := tripModuleWith(model.PhasePreTrip, "safety_equipment", items,
		[]model.ModuleAnswer{answer(1, "fail"), answer(2, "fail"), answer(3, "fail")}, true)

	scored := scorer.ScoreModule(&tm)
	if scored.Factor == nil {
		t.Fatal("expected a risk factor")
	}
	if scored.Factor.Impact != dto.ImpactCritical {
		t.Errorf("three failed critical items should escalate to critical impact, got %s", scored.Factor.Impact)
	}
}

func TestScoreModuleCompletionRate(t *testing.T) {
	scorer := newModuleScorer(nil)
	items := []model.ChecklistItem{
		passFailItem(1, "Brakes", model.CategoryMechanical, true, 5),
		passFailItem(2, "Lights", model.CategoryVehicle, false, 0),
		passFailItem(3, "Horn", model.CategoryVehicle, false, 0),
		passFailItem(4, "Mirrors", model.CategoryVehicle, false, 0),
	}
	tm := tripModuleWith(model.PhasePreTrip, "visual_inspection", items,
		[]model.ModuleAnswer{answer(1, "pass")}, false)

	scored := scorer.ScoreModule(&tm)
	if scored.CompletionRate != 0.25 {
		t.Errorf("expected completion rate 0.25, got %v", scored.CompletionRate)
	}
}

func TestGetModuleRiskScores(t *testing.T) {
	repo := newMockTripModuleRepo()
	tm := tripModuleWith(model.PhasePreTrip, "functional_checks",
		[]model.ChecklistItem{passFailItem(1, "Brakes", model.CategoryMechanical, true, 5)},
		[]model.ModuleAnswer{answer(1, "fail")}, true)
	tm.TripID = 7
	repo.add(&tm)

	scorer := newModuleScorer(repo)
	scores, err := scorer.GetModuleRiskScores(7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("expected 1 module score, got %d", len(scores))
	}
	if scores[0].Score != 15 {
		t.Errorf("expected score 15, got %v", scores[0].Score)
	}
	if scores[0].FailedCriticalItems != 1 {
		t.Errorf("expected 1 failed critical item, got %d", scores[0].FailedCriticalItems)
	}
}
