package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Kinkajou/internal/dto"
	"github.com/lshigami/Kinkajou/internal/service"
	"github.com/rs/zerolog/log"
)

type ChecklistController struct {
	checklistService service.ChecklistService
	overrideService  service.OverrideService
}

func NewChecklistController(cs service.ChecklistService, os service.OverrideService) *ChecklistController {
	return &ChecklistController{checklistService: cs, overrideService: os}
}

// CreateModule godoc
// @Summary (Admin) Create a checklist module
// @Description Create a catalog module with its full item list. Items are immutable afterwards.
// @Tags Admin - Checklist Catalog
// @Accept json
// @Produce json
// @Param module body dto.ChecklistModuleCreateDTO true "Module definition with items"
// @Success 201 {object} dto.ChecklistModuleResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid module definition"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/checklist-modules [post]
func (c *ChecklistController) CreateModule(ctx *gin.Context) {
	var req dto.ChecklistModuleCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateModule: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	module, err := c.checklistService.CreateModule(req)
	if err != nil {
		log.Error().Err(err).Msg("Admin CreateModule: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to create checklist module", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, module)
}

// ListModules godoc
// @Summary (Admin) List the checklist catalog
// @Tags Admin - Checklist Catalog
// @Produce json
// @Success 200 {array} dto.ChecklistModuleResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/checklist-modules [get]
func (c *ChecklistController) ListModules(ctx *gin.Context) {
	modules, err := c.checklistService.ListModules()
	if err != nil {
		log.Error().Err(err).Msg("Admin ListModules: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list checklist modules", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, modules)
}

// GetModule godoc
// @Summary (Admin) Get a checklist module
// @Tags Admin - Checklist Catalog
// @Produce json
// @Param module_id path int true "Module ID"
// @Success 200 {object} dto.ChecklistModuleResponse
// @Failure 404 {object} dto.ErrorResponse "Module not found"
// @Router /admin/checklist-modules/{module_id} [get]
func (c *ChecklistController) GetModule(ctx *gin.Context) {
	moduleID, err := strconv.ParseUint(ctx.Param("module_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid module ID format"})
		return
	}

	module, err := c.checklistService.GetModule(uint(moduleID))
	if err != nil {
		if errors.Is(err, service.ErrModuleNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
			return
		}
		log.Error().Err(err).Uint64("moduleID", moduleID).Msg("Admin GetModule: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load checklist module", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, module)
}

// UpdateModule godoc
// @Summary (Admin) Update checklist module metadata
// @Tags Admin - Checklist Catalog
// @Accept json
// @Produce json
// @Param module_id path int true "Module ID"
// @Param module body dto.ChecklistModuleUpdateDTO true "Fields to update"
// @Success 200 {object} dto.ChecklistModuleResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Module not found"
// @Router /admin/checklist-modules/{module_id} [put]
func (c *ChecklistController) UpdateModule(ctx *gin.Context) {
	moduleID, err := strconv.ParseUint(ctx.Param("module_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid module ID format"})
		return
	}
	var req dto.ChecklistModuleUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	module, err := c.checklistService.UpdateModule(uint(moduleID), req)
	if err != nil {
		if errors.Is(err, service.ErrModuleNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
			return
		}
		log.Error().Err(err).Uint64("moduleID", moduleID).Msg("Admin UpdateModule: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to update checklist module", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, module)
}

// LogCriticalFailure godoc
// @Summary (Admin) Manually log a critical failure
// @Description Record a critical failure observed outside the checklist flow.
// @Tags Admin - Critical Failures
// @Accept json
// @Produce json
// @Param failure body dto.LogFailureRequest true "Failure to record"
// @Success 201 {object} dto.CriticalFailureResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Trip not found"
// @Router /admin/critical-failures [post]
func (c *ChecklistController) LogCriticalFailure(ctx *gin.Context) {
	var req dto.LogFailureRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	failure, err := c.overrideService.LogFailure(req)
	if err != nil {
		if errors.Is(err, service.ErrTripNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
			return
		}
		log.Error().Err(err).Uint("tripID", req.TripID).Msg("Admin LogCriticalFailure: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to log critical failure", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, failure)
}

// ListCriticalFailures godoc
// @Summary (Admin) List critical failures
// @Tags Admin - Critical Failures
// @Produce json
// @Param trip_id query int false "Filter by trip"
// @Param resolved query bool false "Filter by resolution state"
// @Success 200 {array} dto.CriticalFailureResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /admin/critical-failures [get]
func (c *ChecklistController) ListCriticalFailures(ctx *gin.Context) {
	var tripID *uint
	if raw := ctx.Query("trip_id"); raw != "" {
		val, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid trip_id filter"})
			return
		}
		id := uint(val)
		tripID = &id
	}
	var resolved *bool
	if raw := ctx.Query("resolved"); raw != "" {
		val, err := strconv.ParseBool(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid resolved filter"})
			return
		}
		resolved = &val
	}

	failures, err := c.overrideService.ListFailures(tripID, resolved)
	if err != nil {
		log.Error().Err(err).Msg("Admin ListCriticalFailures: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list critical failures", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, failures)
}

// ResolveCriticalFailure godoc
// @Summary (Admin) Resolve a critical failure
// @Description Explicit resolve action; the only way a failure stops blocking approval.
// @Tags Admin - Critical Failures
// @Accept json
// @Produce json
// @Param failure_id path int true "Failure ID"
// @Param resolution body dto.ResolveFailureRequest true "Who resolved it"
// @Success 200 {object} dto.CriticalFailureResponse
// @Failure 404 {object} dto.ErrorResponse "Failure not found"
// @Failure 409 {object} dto.ErrorResponse "Already resolved"
// @Router /admin/critical-failures/{failure_id}/resolve [put]
func (c *ChecklistController) ResolveCriticalFailure(ctx *gin.Context) {
	failureID, err := strconv.ParseUint(ctx.Param("failure_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid failure ID format"})
		return
	}
	var req dto.ResolveFailureRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	failure, err := c.overrideService.ResolveFailure(uint(failureID), req.ResolvedBy)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailureNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		case errors.Is(err, service.ErrFailureAlreadyResolved):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
		default:
			log.Error().Err(err).Uint64("failureID", failureID).Msg("Admin ResolveCriticalFailure: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to resolve critical failure", Details: []string{err.Error()}})
		}
		return
	}
	ctx.JSON(http.StatusOK, failure)
}

// DeleteCriticalFailure godoc
// @Summary (Admin) Delete a critical failure
// @Description Admin-only removal of an erroneously logged failure.
// @Tags Admin - Critical Failures
// @Produce json
// @Param failure_id path int true "Failure ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Failure not found"
// @Router /admin/critical-failures/{failure_id} [delete]
func (c *ChecklistController) DeleteCriticalFailure(ctx *gin.Context) {
	failureID, err := strconv.ParseUint(ctx.Param("failure_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid failure ID format"})
		return
	}

	if err := c.overrideService.DeleteFailure(uint(failureID)); err != nil {
		if errors.Is(err, service.ErrFailureNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
			return
		}
		log.Error().Err(err).Uint64("failureID", failureID).Msg("Admin DeleteCriticalFailure: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to delete critical failure", Details: []string{err.Error()}})
		return
	}
	ctx.Status(http.StatusNoContent)
}
