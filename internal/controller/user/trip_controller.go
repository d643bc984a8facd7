package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Kinkajou/internal/dto"
	"github.com/lshigami/Kinkajou/internal/service"
	"github.com/rs/zerolog/log"
)

type TripController struct {
	tripService     service.TripService
	riskEngine      service.RiskEngineService
	moduleScorer    service.ModuleScorerService
	overrideService service.OverrideService
	trendService    service.TrendService
}

func NewTripController(
	ts service.TripService,
	re service.RiskEngineService,
	ms service.ModuleScorerService,
	os service.OverrideService,
	tr service.TrendService,
) *TripController {
	return &TripController{
		tripService:     ts,
		riskEngine:      re,
		moduleScorer:    ms,
		overrideService: os,
		trendService:    tr,
	}
}

func tripIDParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("trip_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid trip ID format"})
		return 0, false
	}
	return uint(id), true
}

// CreateTrip godoc
// @Summary Create a draft trip
// @Description Opens a draft trip and instantiates its checklist modules from the current catalog.
// @Tags Trips
// @Accept json
// @Produce json
// @Param trip body dto.TripCreateRequest true "Driver and vehicle"
// @Success 201 {object} dto.TripDetailResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Router /trips [post]
func (c *TripController) CreateTrip(ctx *gin.Context) {
	var req dto.TripCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	trip, err := c.tripService.CreateTrip(req)
	if err != nil {
		log.Error().Err(err).Msg("CreateTrip: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to create trip", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, trip)
}

// GetTrip godoc
// @Summary Get trip details
// @Description Returns the trip with its modules, answers, critical failures and the persisted (possibly stale) score snapshot.
// @Tags Trips
// @Produce json
// @Param trip_id path int true "Trip ID"
// @Success 200 {object} dto.TripDetailResponse
// @Failure 404 {object} dto.ErrorResponse "Trip not found"
// @Router /trips/{trip_id} [get]
func (c *TripController) GetTrip(ctx *gin.Context) {
	tripID, ok := tripIDParam(ctx)
	if !ok {
		return
	}
	trip, err := c.tripService.GetTrip(tripID)
	if err != nil {
		if errors.Is(err, service.ErrTripNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
			return
		}
		log.Error().Err(err).Uint("tripID", tripID).Msg("GetTrip: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load trip", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, trip)
}

// SubmitAnswers godoc
// @Summary Submit answers for a trip module
// @Description Records answers while the trip is a draft. Re-submitted items supersede the earlier answer.
// @Tags Trips
// @Accept json
// @Produce json
// @Param trip_id path int true "Trip ID"
// @Param answers body dto.ModuleAnswersRequest true "Module answers"
// @Success 200 {object} dto.TripModuleResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or trip not editable"
// @Failure 404 {object} dto.ErrorResponse "Trip or module not found"
// @Router /trips/{trip_id}/answers [post]
func (c *TripController) SubmitAnswers(ctx *gin.Context) {
	tripID, ok := tripIDParam(ctx)
	if !ok {
		return
	}
	var req dto.ModuleAnswersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	module, err := c.tripService.SubmitAnswers(tripID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTripNotFound), errors.Is(err, service.ErrModuleNotOnTrip):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrItemNotInModule):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		default:
			log.Error().Err(err).Uint("tripID", tripID).Msg("SubmitAnswers: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to record answers", Details: []string{err.Error()}})
		}
		return
	}
	ctx.JSON(http.StatusOK, module)
}

// SubmitTrip godoc
// @Summary Submit a trip for review
// @Description Moves the draft to submitted, records critical failures from failed critical items and persists the first score snapshot.
// @Tags Trips
// @Produce json
// @Param trip_id path int true "Trip ID"
// @Success 200 {object} dto.TripDetailResponse
// @Failure 400 {object} dto.ErrorResponse "Trip not in draft"
// @Failure 404 {object} dto.ErrorResponse "Trip not found"
// @Failure 503 {object} dto.ErrorResponse "Scoring data unavailable"
// @Router /trips/{trip_id}/submit [post]
func (c *TripController) SubmitTrip(ctx *gin.Context) {
	tripID, ok := tripIDParam(ctx)
	if !ok {
		return
	}
	trip, err := c.tripService.SubmitTrip(tripID)
	if err != nil {
		respondTripError(ctx, tripID, err, "SubmitTrip")
		return
	}
	ctx.JSON(http.StatusOK, trip)
}

// BeginReview godoc
// @Summary Move a submitted trip under review
// @Tags Trips
// @Produce json
// @Param trip_id path int true "Trip ID"
// @Success 200 {object} dto.TripDetailResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid transition"
// @Failure 404 {object} dto.ErrorResponse "Trip not found"
// @Router /trips/{trip_id}/review [post]
func (c *TripController) BeginReview(ctx *gin.Context) {
	tripID, ok := tripIDParam(ctx)
	if !ok {
		return
	}
	trip, err := c.tripService.BeginReview(tripID)
	if err != nil {
		respondTripError(ctx, tripID, err, "BeginReview")
		return
	}
	ctx.JSON(http.StatusOK, trip)
}

// Decide godoc
// @Summary Approve or reject a trip
// @Description Approval is gated by the critical-failure override resolver. High-impact failures block approval outright; other unresolved failures need the override flag.
// @Tags Trips
// @Accept json
// @Produce json
// @Param trip_id path int true "Trip ID"
// @Param decision body dto.TripDecisionRequest true "Decision"
// @Success 200 {object} dto.TripDetailResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid transition"
// @Failure 404 {object} dto.ErrorResponse "Trip not found"
// @Failure 409 {object} dto.ErrorResponse "Override required or approval blocked"
// @Router /trips/{trip_id}/decision [post]
func (c *TripController) Decide(ctx *gin.Context) {
	tripID, ok := tripIDParam(ctx)
	if !ok {
		return
	}
	var req dto.TripDecisionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	trip, err := c.tripService.Decide(tripID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOverrideRequired), errors.Is(err, service.ErrApprovalBlocked):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
		default:
			respondTripError(ctx, tripID, err, "Decide")
		}
		return
	}
	ctx.JSON(http.StatusOK, trip)
}

// GetRiskScore godoc
// @Summary Get a freshly computed risk score
// @Description Always recomputes from current signals; never returns the snapshot.
// @Tags Risk
// @Produce json
// @Param trip_id path int true "Trip ID"
// @Success 200 {object} dto.RiskScoreBreakdown
// @Failure 404 {object} dto.ErrorResponse "Trip not found"
// @Failure 503 {object} dto.ErrorResponse "Scoring data unavailable"
// @Router /trips/{trip_id}/risk-score [get]
func (c *TripController) GetRiskScore(ctx *gin.Context) {
	tripID, ok := tripIDParam(ctx)
	if !ok {
		return
	}
	breakdown, err := c.riskEngine.CalculateComprehensiveRiskScore(tripID)
	if err != nil {
		respondTripError(ctx, tripID, err, "GetRiskScore")
		return
	}
	ctx.JSON(http.StatusOK, breakdown)
}

// GetModuleScores godoc
// @Summary Get per-module risk scores
// @Tags Risk
// @Produce json
// @Param trip_id path int true "Trip ID"
// @Success 200 {array} dto.ModuleRiskScore
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /trips/{trip_id}/module-scores [get]
func (c *TripController) GetModuleScores(ctx *gin.Context) {
	tripID, ok := tripIDParam(ctx)
	if !ok {
		return
	}
	scores, err := c.moduleScorer.GetModuleRiskScores(tripID)
	if err != nil {
		log.Error().Err(err).Uint("tripID", tripID).Msg("GetModuleScores: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to compute module scores", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, scores)
}

// CheckOverride godoc
// @Summary Check the critical-failure override decision
// @Tags Risk
// @Produce json
// @Param trip_id path int true "Trip ID"
// @Success 200 {object} dto.OverrideDecision
// @Failure 404 {object} dto.ErrorResponse "Trip not found"
// @Router /trips/{trip_id}/override-check [get]
func (c *TripController) CheckOverride(ctx *gin.Context) {
	tripID, ok := tripIDParam(ctx)
	if !ok {
		return
	}
	decision, err := c.overrideService.CheckCriticalFailureOverride(tripID)
	if err != nil {
		respondTripError(ctx, tripID, err, "CheckOverride")
		return
	}
	ctx.JSON(http.StatusOK, decision)
}

// Recalculate godoc
// @Summary Recalculate and refresh the score snapshot
// @Description Recomputes the breakdown and refreshes the trip's persisted snapshot. Safe to run concurrently; the version check settles races.
// @Tags Risk
// @Accept json
// @Produce json
// @Param trip_id path int true "Trip ID"
// @Param trigger body dto.RecalculateRequest false "What triggered the recalculation"
// @Success 200 {object} dto.RiskScoreBreakdown
// @Failure 404 {object} dto.ErrorResponse "Trip not found"
// @Failure 503 {object} dto.ErrorResponse "Scoring data unavailable"
// @Router /trips/{trip_id}/recalculate [post]
func (c *TripController) Recalculate(ctx *gin.Context) {
	tripID, ok := tripIDParam(ctx)
	if !ok {
		return
	}
	// The body is optional; an empty POST means a manual trigger.
	var req dto.RecalculateRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
			return
		}
	}

	breakdown, err := c.tripService.Recalculate(tripID, req.Trigger)
	if err != nil {
		respondTripError(ctx, tripID, err, "Recalculate")
		return
	}
	ctx.JSON(http.StatusOK, breakdown)
}

// GetRiskTrend godoc
// @Summary Get a driver's risk trend
// @Description Rolling statistics over the driver's completed trips in the lookback window.
// @Tags Risk
// @Produce json
// @Param driver_id path int true "Driver ID"
// @Param days query int false "Lookback window in days (default 30)"
// @Success 200 {object} dto.RiskTrend
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Router /drivers/{driver_id}/risk-trend [get]
func (c *TripController) GetRiskTrend(ctx *gin.Context) {
	driverID, err := strconv.ParseUint(ctx.Param("driver_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid driver ID format"})
		return
	}
	days := 30
	if raw := ctx.Query("days"); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil || val <= 0 {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid days parameter"})
			return
		}
		days = val
	}

	trend, err := c.trendService.CalculateRiskTrend(uint(driverID), days)
	if err != nil {
		log.Error().Err(err).Uint64("driverID", driverID).Msg("GetRiskTrend: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to compute risk trend", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, trend)
}

// respondTripError maps service errors onto HTTP statuses. A scoring fetch
// failure is 503, never a silent low-risk 200.
func respondTripError(ctx *gin.Context, tripID uint, err error, op string) {
	var unavailable *service.ScoringUnavailableError
	switch {
	case errors.Is(err, service.ErrTripNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrInvalidTransition):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	case errors.As(err, &unavailable):
		log.Error().Err(err).Uint("tripID", tripID).Str("op", op).Msg("Scoring unavailable")
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Message: "Risk scoring is temporarily unavailable; dispatch must not be approved", Details: []string{err.Error()}})
	default:
		log.Error().Err(err).Uint("tripID", tripID).Str("op", op).Msg("Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal error", Details: []string{err.Error()}})
	}
}
