package frontend

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/analysis"
	apperrors "github.com/ZanzyTHEbar/heart-risk-analyzer/internal/errors"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/features"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/monitoring"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/ratelimit"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/security"
)

// MissingAssetsMessage is the blocking error shown when the model cannot be loaded.
const MissingAssetsMessage = "Error: Critical model files are missing."

// Assessor scores vitals. *analysis.Analyzer implements it.
type Assessor interface {
	Ready() error
	Analyze(ctx context.Context, v features.Vitals) (analysis.Assessment, error)
}

// Handler serves the server-rendered form.
type Handler struct {
	renderer *Renderer
	assessor Assessor
	metrics  *monitoring.Metrics
	logger   *monitoring.Logger
}

// NewHandler creates the web UI handler. metrics and logger may be nil.
func NewHandler(renderer *Renderer, assessor Assessor, metrics *monitoring.Metrics, logger *monitoring.Logger) *Handler {
	if logger == nil {
		logger = &monitoring.Logger{Logger: slog.Default()}
	}
	return &Handler{
		renderer: renderer,
		assessor: assessor,
		metrics:  metrics,
		logger:   logger,
	}
}

// RegisterStatic mounts the embedded stylesheet and script under /static.
func RegisterStatic(router gin.IRouter) error {
	static, err := GetStaticFS()
	if err != nil {
		return err
	}
	router.StaticFS("/static", http.FS(static))
	return nil
}

// Index renders the empty form pre-filled with defaults.
func (h *Handler) Index(c *gin.Context) {
	if err := h.assessor.Ready(); err != nil {
		h.Unavailable(c, err)
		return
	}

	form := NewForm(features.DefaultVitals(), nil)
	h.render(c, http.StatusOK, PageIndex, PageData{Form: &form})
}

// Assess handles a form submission and renders the form with the result.
func (h *Handler) Assess(c *gin.Context) {
	if err := h.assessor.Ready(); err != nil {
		h.Unavailable(c, err)
		return
	}

	var v features.Vitals
	if err := c.ShouldBind(&v); err != nil {
		// range and enum failures are reported per field by Validate below
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			h.failure(c, apperrors.CategoryValidation)
			form := NewForm(v, nil)
			form.Error = "The submitted form could not be read. Please check the values and try again."
			h.render(c, http.StatusBadRequest, PageIndex, PageData{Form: &form})
			return
		}
	}

	var missing []string
	for _, name := range features.ZeroValidFields {
		if value, ok := c.GetPostForm(name); !ok || strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	if err := features.RequireFields(v.Validate(), missing...); err != nil {
		h.invalid(c, v, err)
		return
	}

	assessment, err := h.assessor.Analyze(c.Request.Context(), v)
	if err != nil {
		appErr := apperrors.ToAppError(err)
		appErr.RequestID = c.GetString("request_id")
		apperrors.LogError(c, appErr)

		switch appErr.Category {
		case apperrors.CategoryConfiguration:
			h.failure(c, appErr.Category)
			h.Unavailable(c, err)
		case apperrors.CategoryValidation:
			h.invalid(c, v, err)
		default:
			h.failure(c, appErr.Category)
			form := NewForm(v, nil)
			h.render(c, appErr.HTTPStatus, PageIndex, PageData{Form: &form, Alert: alertFor(appErr)})
		}
		return
	}

	if h.metrics != nil {
		h.metrics.RecordAssessment(assessment.RiskLevel, "web", assessment.Probability, assessment.Duration, assessment.CacheHit)
	}
	h.logger.AssessmentLogger(c.GetString("request_id"), assessment.RiskLevel, assessment.Probability, assessment.Duration, assessment.CacheHit)

	form := NewForm(v, nil)
	h.render(c, http.StatusOK, PageIndex, PageData{
		Form: &form,
		Result: &Result{
			Finding:     assessment.Finding(),
			High:        assessment.HighRisk(),
			Probability: assessment.ProbabilityPercent(),
			Gauge:       NewGauge(assessment.Probability),
		},
	})
}

// Unavailable renders the blocking missing-assets page. No form is shown.
func (h *Handler) Unavailable(c *gin.Context, err error) {
	h.logger.Warn("Serving blocking page", "request_id", c.GetString("request_id"), "error", err)
	h.render(c, http.StatusServiceUnavailable, PageUnavailable, PageData{Message: MissingAssetsMessage})
}

// RateLimited renders an HTML 429 page. It satisfies ratelimit.BlockedHandler.
func (h *Handler) RateLimited(c *gin.Context, result *ratelimit.Result) {
	message := "Too many assessments from this address. Please wait a moment and try again."
	if result != nil && result.RetryAfter > 0 {
		message = "Too many assessments from this address. Please try again in " +
			result.RetryAfter.Round(time.Second).String() + "."
	}
	h.render(c, http.StatusTooManyRequests, PageError, PageData{Message: message})
}

func (h *Handler) invalid(c *gin.Context, v features.Vitals, err error) {
	fields := map[string]string{"form": err.Error()}
	var verr *features.ValidationError
	if errors.As(err, &verr) {
		fields = verr.FieldErrors()
	}

	h.failure(c, apperrors.CategoryValidation)
	form := NewForm(v, fields)
	if _, ok := fields["form"]; ok {
		form.Error = fields["form"]
	}
	h.render(c, http.StatusBadRequest, PageIndex, PageData{Form: &form})
}

func (h *Handler) failure(c *gin.Context, category apperrors.ErrorCategory) {
	if h.metrics != nil {
		h.metrics.RecordFailure(string(category))
	}
}

func (h *Handler) render(c *gin.Context, status int, page string, data PageData) {
	data.Nonce = security.GetNonce(c)
	data.RequestID = c.GetString("request_id")

	if err := h.renderer.Render(c, status, page, data); err != nil {
		h.logger.Error("Failed to render page", "page", page, "error", err, "path", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to render page"})
	}
}

func alertFor(appErr *apperrors.AppError) string {
	switch appErr.Category {
	case apperrors.CategoryTimeout:
		return "The assessment did not finish in time. Please try again."
	case apperrors.CategoryScoring:
		return appErr.ErrBuilder.Msg + ". No result was produced."
	default:
		return "An unexpected error occurred. No result was produced."
	}
}
