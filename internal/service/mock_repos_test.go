package service

import (
	"testing"
	"time"

	"github.com/lshigami/Kinkajou/internal/model"
	"github.com/lshigami/Kinkajou/internal/repository"
	"go.uber.org/goleak"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// In-memory repository fakes. Each one keeps just enough state for the
// service under test; an err field forces the failure path.

type mockTripRepo struct {
	trips            map[uint]*model.Trip
	completedByDrive map[uint][]model.Trip
	nextID           uint
	err              error
	snapshotErr      error
	updated          []*model.Trip
	snapshots        int
}

func newMockTripRepo() *mockTripRepo {
	return &mockTripRepo{trips: make(map[uint]*model.Trip), completedByDrive: make(map[uint][]model.Trip), nextID: 1}
}

func (m *mockTripRepo) add(trip *model.Trip) *model.Trip {
	if trip.ID == 0 {
		trip.ID = m.nextID
		m.nextID++
	}
	m.trips[trip.ID] = trip
	return trip
}

func (m *mockTripRepo) Create(trip *model.Trip) error {
	if m.err != nil {
		return m.err
	}
	m.add(trip)
	return nil
}

func (m *mockTripRepo) FindByID(id uint) (*model.Trip, error) {
	if m.err != nil {
		return nil, m.err
	}
	trip, ok := m.trips[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return trip, nil
}

func (m *mockTripRepo) FindByIDWithDetails(id uint) (*model.Trip, error) {
	return m.FindByID(id)
}

func (m *mockTripRepo) Update(trip *model.Trip) error {
	if m.err != nil {
		return m.err
	}
	m.trips[trip.ID] = trip
	m.updated = append(m.updated, trip)
	return nil
}

func (m *mockTripRepo) UpdateStatus(id uint, status model.TripStatus) error {
	if m.err != nil {
		return m.err
	}
	trip, ok := m.trips[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	trip.Status = status
	return nil
}

func (m *mockTripRepo) UpdateScoreSnapshot(id uint, expectedVersion int, score float64, level model.RiskLevel, at time.Time) error {
	if m.snapshotErr != nil {
		return m.snapshotErr
	}
	trip, ok := m.trips[id]
	if !ok || trip.ScoreVersion != expectedVersion {
		return repository.ErrSnapshotStale
	}
	trip.AggregateScore = &score
	trip.RiskLevel = &level
	trip.ScoredAt = &at
	trip.ScoreVersion = expectedVersion + 1
	m.snapshots++
	return nil
}

func (m *mockTripRepo) FindCompletedByDriverSince(driverID uint, since time.Time) ([]model.Trip, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.completedByDrive[driverID], nil
}

type mockTripModuleRepo struct {
	modules map[uint]*model.TripModule
	byTrip  map[uint][]model.TripModule
	err     error
	nextID  uint

	appended  []*model.ModuleAnswer
	completed []uint
}

func newMockTripModuleRepo() *mockTripModuleRepo {
	return &mockTripModuleRepo{modules: make(map[uint]*model.TripModule), byTrip: make(map[uint][]model.TripModule), nextID: 1}
}

func (m *mockTripModuleRepo) add(tm *model.TripModule) *model.TripModule {
	if tm.ID == 0 {
		tm.ID = m.nextID
		m.nextID++
	}
	m.modules[tm.ID] = tm
	m.byTrip[tm.TripID] = append(m.byTrip[tm.TripID], *tm)
	return tm
}

func (m *mockTripModuleRepo) FindByID(id uint) (*model.TripModule, error) {
	if m.err != nil {
		return nil, m.err
	}
	tm, ok := m.modules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return tm, nil
}

func (m *mockTripModuleRepo) FindByTripID(tripID uint) ([]model.TripModule, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byTrip[tripID], nil
}

func (m *mockTripModuleRepo) MarkCompleted(id uint, at time.Time) error {
	if m.err != nil {
		return m.err
	}
	tm, ok := m.modules[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	tm.Completed = true
	tm.CompletedAt = &at
	m.completed = append(m.completed, id)
	return nil
}

func (m *mockTripModuleRepo) AppendAnswer(answer *model.ModuleAnswer) error {
	if m.err != nil {
		return m.err
	}
	tm, ok := m.modules[answer.TripModuleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range tm.Answers {
		if tm.Answers[i].ItemID == answer.ItemID {
			tm.Answers[i].Superseded = true
		}
	}
	tm.Answers = append(tm.Answers, *answer)
	m.appended = append(m.appended, answer)
	return nil
}

type mockChecklistRepo struct {
	catalog []model.ChecklistModule
	err     error
	nextID  uint
}

func (m *mockChecklistRepo) Create(module *model.ChecklistModule) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	module.ID = m.nextID
	m.catalog = append(m.catalog, *module)
	return nil
}

func (m *mockChecklistRepo) FindByID(id uint) (*model.ChecklistModule, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.catalog {
		if m.catalog[i].ID == id {
			return &m.catalog[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockChecklistRepo) FindAllWithItems() ([]model.ChecklistModule, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.catalog, nil
}

func (m *mockChecklistRepo) Update(module *model.ChecklistModule) error {
	if m.err != nil {
		return m.err
	}
	for i := range m.catalog {
		if m.catalog[i].ID == module.ID {
			m.catalog[i] = *module
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type mockTelemetryRepo struct {
	violations []model.SpeedViolation
	fatigue    *model.FatigueReading
	incidents  []model.TripIncident
	alerts     []model.RealTimeAlert

	violationsErr error
	fatigueErr    error
	incidentsErr  error
	alertsErr     error
}

func (m *mockTelemetryRepo) SpeedViolationsByTrip(tripID uint) ([]model.SpeedViolation, error) {
	return m.violations, m.violationsErr
}

func (m *mockTelemetryRepo) LatestFatigueReading(tripID uint) (*model.FatigueReading, error) {
	return m.fatigue, m.fatigueErr
}

func (m *mockTelemetryRepo) IncidentsByTrip(tripID uint) ([]model.TripIncident, error) {
	return m.incidents, m.incidentsErr
}

func (m *mockTelemetryRepo) UnacknowledgedAlertsByTrip(tripID uint) ([]model.RealTimeAlert, error) {
	return m.alerts, m.alertsErr
}

type mockInspectionRepo struct {
	inspection    *model.PostTripInspection
	fuel          *model.FuelRecord
	inspectionErr error
	fuelErr       error
}

func (m *mockInspectionRepo) FindByTripID(tripID uint) (*model.PostTripInspection, error) {
	return m.inspection, m.inspectionErr
}

func (m *mockInspectionRepo) FuelRecordByTrip(tripID uint) (*model.FuelRecord, error) {
	return m.fuel, m.fuelErr
}

type mockFailureRepo struct {
	failures map[uint]*model.CriticalFailure
	nextID   uint
	err      error
	deleted  []uint
}

func newMockFailureRepo() *mockFailureRepo {
	return &mockFailureRepo{failures: make(map[uint]*model.CriticalFailure), nextID: 1}
}

func (m *mockFailureRepo) add(f model.CriticalFailure) *model.CriticalFailure {
	if f.ID == 0 {
		f.ID = m.nextID
		m.nextID++
	}
	stored := f
	m.failures[stored.ID] = &stored
	return &stored
}

func (m *mockFailureRepo) CreateBatch(failures []model.CriticalFailure) error {
	if m.err != nil {
		return m.err
	}
	for i := range failures {
		failures[i].ID = m.nextID
		m.nextID++
		stored := failures[i]
		m.failures[stored.ID] = &stored
	}
	return nil
}

func (m *mockFailureRepo) FindByID(id uint) (*model.CriticalFailure, error) {
	if m.err != nil {
		return nil, m.err
	}
	f, ok := m.failures[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return f, nil
}

func (m *mockFailureRepo) FindUnresolvedByTrip(tripID uint) ([]model.CriticalFailure, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []model.CriticalFailure
	for _, f := range m.failures {
		if f.TripID == tripID && !f.Resolved {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (m *mockFailureRepo) FindAll(tripID *uint, resolved *bool) ([]model.CriticalFailure, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []model.CriticalFailure
	for _, f := range m.failures {
		if tripID != nil && f.TripID != *tripID {
			continue
		}
		if resolved != nil && f.Resolved != *resolved {
			continue
		}
		out = append(out, *f)
	}
	return out, nil
}

func (m *mockFailureRepo) Update(failure *model.CriticalFailure) error {
	if m.err != nil {
		return m.err
	}
	m.failures[failure.ID] = failure
	return nil
}

func (m *mockFailureRepo) Delete(id uint) error {
	if m.err != nil {
		return m.err
	}
	delete(m.failures, id)
	m.deleted = append(m.deleted, id)
	return nil
}

// Fixture helpers shared across the service tests.

func passFailItem(id uint, label string, category model.ItemCategory, critical bool, points float64) model.ChecklistItem {
	return model.ChecklistItem{
		ID:         id,
		Label:      label,
		FieldType:  model.FieldPassFail,
		Category:   category,
		Critical:   critical,
		PointValue: points,
	}
}

func answer(itemID uint, value string) model.ModuleAnswer {
	return model.ModuleAnswer{ItemID: itemID, Value: value}
}

func tripModuleWith(phase model.TripPhase, moduleKey string, items []model.ChecklistItem, answers []model.ModuleAnswer, completed bool) model.TripModule {
	return model.TripModule{
		Module: model.ChecklistModule{
			Name:      moduleKey,
			ModuleKey: moduleKey,
			Phase:     phase,
			Items:     items,
		},
		Answers:   answers,
		Completed: completed,
	}
}
