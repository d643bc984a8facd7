package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Kinkajou/internal/dto"
	"github.com/lshigami/Kinkajou/internal/model"
	"github.com/lshigami/Kinkajou/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var ErrModuleNotFound = errors.New("checklist module not found")

// ChecklistService manages the static inspection catalog. Modules are created
// with their full item list; trips instantiate whatever the catalog holds at
// creation time.
type ChecklistService interface {
	CreateModule(req dto.ChecklistModuleCreateDTO) (*dto.ChecklistModuleResponse, error)
	GetModule(moduleID uint) (*dto.ChecklistModuleResponse, error)
	ListModules() ([]dto.ChecklistModuleResponse, error)
	UpdateModule(moduleID uint, req dto.ChecklistModuleUpdateDTO) (*dto.ChecklistModuleResponse, error)
}

type checklistService struct {
	checklistRepo repository.ChecklistRepository
}

func NewChecklistService(checklistRepo repository.ChecklistRepository) ChecklistService {
	return &checklistService{checklistRepo: checklistRepo}
}

func (s *checklistService) CreateModule(req dto.ChecklistModuleCreateDTO) (*dto.ChecklistModuleResponse, error) {
	module := model.ChecklistModule{
		Name:       req.Name,
		ModuleKey:  req.ModuleKey,
		Phase:      model.TripPhase(req.Phase),
		StepNumber: req.StepNumber,
	}
	for _, item := range req.Items {
		module.Items = append(module.Items, model.ChecklistItem{
			Label:         item.Label,
			FieldType:     model.FieldType(item.FieldType),
			Category:      model.ItemCategory(item.Category),
			Critical:      item.Critical,
			PointValue:    item.PointValue,
			OrderInModule: item.OrderInModule,
		})
	}

	if err := s.checklistRepo.Create(&module); err != nil {
		log.Error().Err(err).Str("moduleKey", req.ModuleKey).Msg("CreateModule: failed to create checklist module")
		return nil, fmt.Errorf("failed to create checklist module %q: %w", req.ModuleKey, err)
	}
	log.Info().Uint("moduleID", module.ID).Str("moduleKey", module.ModuleKey).Msg("Checklist module created")
	return toModuleResponse(&module), nil
}

func (s *checklistService) GetModule(moduleID uint) (*dto.ChecklistModuleResponse, error) {
	module, err := s.checklistRepo.FindByID(moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrModuleNotFound, moduleID)
		}
		return nil, fmt.Errorf("failed to load checklist module %d: %w", moduleID, err)
	}
	return toModuleResponse(module), nil
}

func (s *checklistService) ListModules() ([]dto.ChecklistModuleResponse, error) {
	modules, err := s.checklistRepo.FindAllWithItems()
	if err != nil {
		return nil, fmt.Errorf("failed to list checklist modules: %w", err)
	}
	responses := make([]dto.ChecklistModuleResponse, 0, len(modules))
	for i := range modules {
		responses = append(responses, *toModuleResponse(&modules[i]))
	}
	return responses, nil
}

// UpdateModule changes module metadata only. Items stay immutable once
// created because submitted trips reference them.
func (s *checklistService) UpdateModule(moduleID uint, req dto.ChecklistModuleUpdateDTO) (*dto.ChecklistModuleResponse, error) {
	module, err := s.checklistRepo.FindByID(moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrModuleNotFound, moduleID)
		}
		return nil, fmt.Errorf("failed to load checklist module %d: %w", moduleID, err)
	}

	if req.Name != nil {
		module.Name = *req.Name
	}
	if req.StepNumber != nil {
		module.StepNumber = *req.StepNumber
	}
	if err := s.checklistRepo.Update(module); err != nil {
		return nil, fmt.Errorf("failed to update checklist module %d: %w", moduleID, err)
	}
	return toModuleResponse(module), nil
}

func toModuleResponse(module *model.ChecklistModule) *dto.ChecklistModuleResponse {
	var resp dto.ChecklistModuleResponse
	if err := copier.Copy(&resp, module); err != nil {
		log.Error().Err(err).Uint("moduleID", module.ID).Msg("Error copying checklist module to DTO")
	}
	return &resp
}
