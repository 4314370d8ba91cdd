package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/analysis"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/assets"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/cache"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/errors"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/features"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/frontend"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/monitoring"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/ratelimit"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/types"
)

const version = "1.0.0"

type apiHandler struct {
	loader   *assets.Loader
	analyzer *analysis.Analyzer
	cache    *cache.Cache[analysis.Assessment]
	redis    *ratelimit.RedisClient
	limiter  *ratelimit.RateLimiter
	metrics  *monitoring.Metrics
	logger   *monitoring.Logger
}

func newAPIHandler(deps Deps) *apiHandler {
	return &apiHandler{
		loader:   deps.Loader,
		analyzer: deps.Analyzer,
		cache:    deps.Cache,
		redis:    deps.Redis,
		limiter:  deps.Limiter,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
	}
}

// assess godoc
// @Summary      Assess heart-disease risk
// @Description  Scores one set of patient vitals with the loaded classifier.
// @Tags         assessment
// @Accept       json
// @Produce      json
// @Param        request  body      types.AssessRequest  true  "Patient vitals"
// @Success      200      {object}  types.AssessResponse
// @Failure      400      {object}  errors.AppError
// @Failure      429      {object}  errors.AppError
// @Failure      500      {object}  errors.AppError
// @Failure      503      {object}  errors.AppError
// @Router       /api/v1/assess [post]
func (h *apiHandler) assess(c *gin.Context) {
	var req types.AssessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errors.NewValidationError("Malformed request body", err.Error()))
		return
	}

	vitals, missing := vitalsFromRequest(req)
	if err := features.RequireFields(vitals.Validate(), missing...); err != nil {
		h.fail(c, errors.ToAppError(err))
		return
	}

	assessment, err := h.analyzer.Analyze(c.Request.Context(), vitals)
	if err != nil {
		h.fail(c, errors.ToAppError(err))
		return
	}

	h.metrics.RecordAssessment(assessment.RiskLevel, "api", assessment.Probability, assessment.Duration, assessment.CacheHit)
	h.logger.AssessmentLogger(c.GetString("request_id"), assessment.RiskLevel, assessment.Probability, assessment.Duration, assessment.CacheHit)

	c.JSON(http.StatusOK, types.AssessResponse{
		Label:              assessment.Label,
		RiskLevel:          assessment.RiskLevel,
		Finding:            assessment.Finding(),
		Probability:        assessment.Probability,
		ProbabilityPercent: assessment.ProbabilityPercent(),
		Gauge:              frontend.GaugeSpecFor(assessment.Probability),
		CacheHit:           assessment.CacheHit,
		DurationMS:         assessment.Duration.Milliseconds(),
		RequestID:          c.GetString("request_id"),
	})
}

// schema godoc
// @Summary      Expected feature columns
// @Description  Lists the column order the model was trained on and the accepted categories.
// @Tags         assessment
// @Produce      json
// @Success      200  {object}  types.SchemaResponse
// @Failure      503  {object}  errors.AppError
// @Router       /api/v1/schema [get]
func (h *apiHandler) schema(c *gin.Context) {
	schema, err := h.analyzer.Schema()
	if err != nil {
		h.fail(c, errors.ToAppError(err))
		return
	}

	c.JSON(http.StatusOK, types.SchemaResponse{
		Columns:    schema.Columns(),
		Categories: schema.Categories(),
		Numeric:    features.NumericColumns,
	})
}

// health godoc
// @Summary      Service health
// @Description  Reports degraded with 503 when the model assets are not loaded.
// @Tags         operations
// @Produce      json
// @Success      200  {object}  types.HealthResponse
// @Failure      503  {object}  types.HealthResponse
// @Router       /health [get]
func (h *apiHandler) health(c *gin.Context) {
	assetStatus, _ := h.loader.Status()

	redisStatus := "disabled"
	if h.redis != nil && h.redis.IsEnabled() {
		redisStatus = "ok"
		if err := h.redis.HealthCheck(c.Request.Context()); err != nil {
			redisStatus = "error"
		}
	}

	resp := types.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version,
		Checks: map[string]string{
			"assets": assetStatus,
			"redis":  redisStatus,
		},
	}

	// redis outages degrade to in-memory limiting, so only assets decide
	if assetStatus != assets.StatusLoaded {
		resp.Status = "degraded"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// stats godoc
// @Summary      Runtime counters
// @Tags         operations
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /stats [get]
func (h *apiHandler) stats(c *gin.Context) {
	resp := gin.H{
		"metrics":    h.metrics.GetStats(),
		"rate_limit": h.metrics.GetRateLimitStats(),
		"timestamp":  time.Now().Format(time.RFC3339),
	}
	if h.cache != nil {
		resp["cache"] = h.cache.Stats()
	}
	if h.limiter != nil {
		resp["limiter"] = h.limiter.GetStats()
	}
	c.JSON(http.StatusOK, resp)
}

// fail records the failure and hands it to errors.ErrorHandler.
func (h *apiHandler) fail(c *gin.Context, appErr *errors.AppError) {
	h.metrics.RecordFailure(string(appErr.Category))
	_ = c.Error(appErr)
	c.Abort()
}

// vitalsFromRequest also returns the fields whose absence the zero value would hide.
func vitalsFromRequest(req types.AssessRequest) (features.Vitals, []string) {
	v := features.Vitals{
		Age:            req.Age,
		Sex:            req.Sex,
		ChestPainType:  req.ChestPainType,
		RestingBP:      req.RestingBP,
		Cholesterol:    req.Cholesterol,
		RestingECG:     req.RestingECG,
		MaxHR:          req.MaxHR,
		ExerciseAngina: req.ExerciseAngina,
		STSlope:        req.STSlope,
	}

	var missing []string
	if req.FastingBS != nil {
		v.FastingBS = *req.FastingBS
	} else {
		missing = append(missing, "fasting_bs")
	}
	if req.Oldpeak != nil {
		v.Oldpeak = *req.Oldpeak
	} else {
		missing = append(missing, "oldpeak")
	}
	return v, missing
}
